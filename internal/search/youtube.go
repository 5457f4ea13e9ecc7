package search

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"github.com/codebuildervaibhav/yt-audio-api/internal/types"
)

// YouTubeProvider is the credentialed search provider backed by the
// YouTube Data API v3. Each call is made with the key the dispatcher
// hands in, so quota errors stay attributable to a single key.
type YouTubeProvider struct {
	maxResults int64
}

// NewYouTubeProvider creates the primary provider.
func NewYouTubeProvider(maxResults int) *YouTubeProvider {
	if maxResults <= 0 {
		maxResults = 15
	}
	return &YouTubeProvider{maxResults: int64(maxResults)}
}

// Search queries the Data API for music videos matching the query and
// normalizes the response. The snippet-only search never carries a
// duration, so Duration is left at 0 rather than spending a second
// quota call per result.
func (p *YouTubeProvider) Search(ctx context.Context, query, apiKey string) ([]types.SearchResult, error) {
	svc, err := youtube.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("youtube client init failed: %v", err)
	}

	call := svc.Search.List([]string{"snippet"}).
		Q(query).
		Type("video").
		VideoCategoryId("10"). // music category
		MaxResults(p.maxResults).
		Context(ctx)

	resp, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("youtube search failed: %v", err)
	}

	results := make([]types.SearchResult, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.Id == nil || item.Id.VideoId == "" || item.Snippet == nil {
			continue
		}
		sn := item.Snippet

		thumbnail := ""
		if sn.Thumbnails != nil && sn.Thumbnails.Medium != nil {
			thumbnail = sn.Thumbnails.Medium.Url
		}

		canDownload := isCopyrightFree(sn.Title, sn.Description, sn.ChannelTitle)
		reason := types.ReasonCopyright
		if canDownload {
			reason = types.ReasonRoyaltyFree
		}

		results = append(results, types.SearchResult{
			ID:          item.Id.VideoId,
			Title:       sn.Title,
			Artist:      sn.ChannelTitle,
			Duration:    0,
			Thumbnail:   thumbnail,
			URL:         "https://www.youtube.com/watch?v=" + item.Id.VideoId,
			Provider:    types.ProviderPrimary,
			CanStream:   true,
			CanDownload: canDownload,
			Reason:      reason,
		})
	}

	return results, nil
}
