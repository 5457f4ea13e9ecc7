package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os/exec"

	"github.com/codebuildervaibhav/yt-audio-api/internal/types"
)

// YtDlpProvider is the uncredentialed fallback provider. It shells out to
// yt-dlp's search extractor, which scrapes the results page and needs no
// API key or quota.
type YtDlpProvider struct {
	binary     string
	maxResults int
}

// NewYtDlpProvider creates the fallback provider. binary may be empty,
// in which case yt-dlp is expected on PATH.
func NewYtDlpProvider(binary string, maxResults int) *YtDlpProvider {
	if binary == "" {
		binary = "yt-dlp"
	}
	if maxResults <= 0 {
		maxResults = 15
	}
	return &YtDlpProvider{binary: binary, maxResults: maxResults}
}

// Search runs a flat-playlist search and normalizes each entry. yt-dlp
// emits one JSON document per result on stdout.
func (p *YtDlpProvider) Search(ctx context.Context, query string) ([]types.SearchResult, error) {
	target := fmt.Sprintf("ytsearch%d:%s", p.maxResults, query)

	cmd := exec.CommandContext(ctx, p.binary,
		"--dump-json",
		"--flat-playlist",
		"--skip-download",
		"--no-warnings",
		target,
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("yt-dlp search failed: %v, stderr: %s", err, stderr.String())
	}

	return parseFlatPlaylist(stdout.Bytes())
}

// flatEntry is the subset of yt-dlp's flat-playlist JSON we consume.
type flatEntry struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	Uploader   string  `json:"uploader"`
	Channel    string  `json:"channel"`
	Duration   float64 `json:"duration"`
	URL        string  `json:"url"`
	Thumbnails []struct {
		URL string `json:"url"`
	} `json:"thumbnails"`
}

// parseFlatPlaylist decodes the stream of JSON documents yt-dlp prints,
// one per entry. Zero entries is a valid empty result set, not an error.
func parseFlatPlaylist(data []byte) ([]types.SearchResult, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	results := make([]types.SearchResult, 0)

	for {
		var e flatEntry
		if err := dec.Decode(&e); err == io.EOF {
			break
		} else if err != nil {
			return nil, fmt.Errorf("failed to parse yt-dlp output: %v", err)
		}
		if e.ID == "" {
			continue
		}

		artist := e.Uploader
		if artist == "" {
			artist = e.Channel
		}

		thumbnail := ""
		if len(e.Thumbnails) > 0 {
			thumbnail = e.Thumbnails[len(e.Thumbnails)-1].URL
		}

		watchURL := e.URL
		if watchURL == "" {
			watchURL = "https://www.youtube.com/watch?v=" + e.ID
		}

		canDownload := isCopyrightFree(e.Title, "", artist)
		reason := types.ReasonCopyright
		if canDownload {
			reason = types.ReasonRoyaltyFree
		}

		results = append(results, types.SearchResult{
			ID:          e.ID,
			Title:       e.Title,
			Artist:      artist,
			Duration:    int64(e.Duration),
			Thumbnail:   thumbnail,
			URL:         watchURL,
			Provider:    types.ProviderFallback,
			CanStream:   true,
			CanDownload: canDownload,
			Reason:      reason,
		})
	}

	return results, nil
}
