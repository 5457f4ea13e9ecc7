package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/codebuildervaibhav/yt-audio-api/internal/types"
)

// DefaultFormat and DefaultQuality are applied when the request leaves
// them empty.
const (
	DefaultFormat  = "mp3"
	DefaultQuality = "best"
)

// qualityArgs maps the accepted quality names to yt-dlp --audio-quality
// arguments. "0" means best VBR.
var qualityArgs = map[string]string{
	"best": "0",
	"320":  "320K",
	"192":  "192K",
	"128":  "128K",
}

var supportedFormats = map[string]bool{
	"mp3": true,
	"m4a": true,
}

// ValidateFormat reports whether the target container is supported.
func ValidateFormat(format string) bool {
	return supportedFormats[strings.ToLower(format)]
}

// ValidateQuality reports whether the quality name is supported.
func ValidateQuality(quality string) bool {
	_, ok := qualityArgs[strings.ToLower(quality)]
	return ok
}

// YtDlp invokes the yt-dlp binary (with its ffmpeg postprocessor) to turn
// a video URL into an audio file. It is the one subprocess boundary for
// extraction, stream-URL lookup and the fallback search.
type YtDlp struct {
	binary  string
	timeout time.Duration
}

// NewYtDlp creates the extractor. binary may be empty (PATH lookup);
// timeout is the wall-clock ceiling per extraction, zero for none.
func NewYtDlp(binary string, timeout time.Duration) *YtDlp {
	if binary == "" {
		binary = "yt-dlp"
	}
	return &YtDlp{binary: binary, timeout: timeout}
}

// Extract downloads the best audio stream of req.URL and converts it to
// the requested format inside workDir. The produced file and the metadata
// yt-dlp printed are returned; the caller owns workDir cleanup.
func (y *YtDlp) Extract(ctx context.Context, req types.ConversionRequest, workDir string) (*types.ExtractionResult, error) {
	format := strings.ToLower(req.Format)
	if format == "" {
		format = DefaultFormat
	}
	quality := strings.ToLower(req.Quality)
	if quality == "" {
		quality = DefaultQuality
	}
	if !supportedFormats[format] {
		return nil, fmt.Errorf("unsupported audio format: %s", req.Format)
	}
	arg, ok := qualityArgs[quality]
	if !ok {
		return nil, fmt.Errorf("unsupported audio quality: %s", req.Quality)
	}

	if y.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, y.timeout)
		defer cancel()
	}

	outTemplate := filepath.Join(workDir, "%(id)s.%(ext)s")
	cmd := exec.CommandContext(ctx, y.binary,
		"-f", "bestaudio/best",
		"-x",
		"--audio-format", format,
		"--audio-quality", arg,
		"--no-playlist",
		"--no-warnings",
		"--print-json",
		"-o", outTemplate,
		req.URL,
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("yt-dlp failed: %v, stderr: %s", err, tail(stderr.String(), 2000))
	}

	info, err := parseInfoJSON(stdout.Bytes())
	if err != nil {
		return nil, err
	}

	audioPath := filepath.Join(workDir, info.ID+"."+format)
	if _, err := os.Stat(audioPath); err != nil {
		// Postprocessor naming can diverge from the template; take
		// whatever file of the right extension ended up in workDir.
		audioPath, err = findByExt(workDir, format)
		if err != nil {
			return nil, fmt.Errorf("extraction produced no %s file: %v", format, err)
		}
	}

	return &types.ExtractionResult{
		FilePath: audioPath,
		Title:    info.Title,
		Duration: info.Duration,
	}, nil
}

// StreamURL resolves a direct bestaudio stream URL without downloading.
func (y *YtDlp) StreamURL(ctx context.Context, videoID string) (string, error) {
	cmd := exec.CommandContext(ctx, y.binary,
		"-f", "bestaudio/best",
		"--get-url",
		"--no-warnings",
		"https://www.youtube.com/watch?v="+videoID,
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("yt-dlp stream lookup failed: %v, stderr: %s", err, tail(stderr.String(), 500))
	}

	// yt-dlp may print one URL per selected stream; the first is the audio.
	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	if len(lines) == 0 || lines[0] == "" {
		return "", fmt.Errorf("yt-dlp returned no stream URL")
	}
	return lines[0], nil
}

// CheckTools reports whether yt-dlp and ffmpeg are installed.
func CheckTools(binary string) (ytdlp, ffmpeg bool) {
	if binary == "" {
		binary = "yt-dlp"
	}
	_, ytErr := exec.LookPath(binary)
	_, ffErr := exec.LookPath("ffmpeg")
	return ytErr == nil, ffErr == nil
}

// videoInfo is the subset of yt-dlp's info JSON we consume.
type videoInfo struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Duration float64 `json:"duration"`
}

func parseInfoJSON(data []byte) (*videoInfo, error) {
	var info videoInfo
	if err := json.Unmarshal(bytes.TrimSpace(data), &info); err != nil {
		return nil, fmt.Errorf("failed to parse yt-dlp info: %v", err)
	}
	if info.ID == "" {
		return nil, fmt.Errorf("yt-dlp info has no video id")
	}
	return &info, nil
}

func findByExt(dir, ext string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), "."+ext) {
			return filepath.Join(dir, e.Name()), nil
		}
	}
	return "", fmt.Errorf("no .%s file in %s", ext, dir)
}

func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return "..." + s[len(s)-n:]
}
