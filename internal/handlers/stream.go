package handlers

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v2"
)

// StreamResolver resolves a direct audio stream URL for a video ID.
type StreamResolver interface {
	StreamURL(ctx context.Context, videoID string) (string, error)
}

// StreamHandler serves direct stream-URL lookups, for callers that want
// to play audio without a conversion job.
type StreamHandler struct {
	resolver StreamResolver
}

// NewStreamHandler creates a new stream handler.
func NewStreamHandler(resolver StreamResolver) *StreamHandler {
	return &StreamHandler{resolver: resolver}
}

// Handle processes GET /api/stream/:videoId.
func (h *StreamHandler) Handle(c *fiber.Ctx) error {
	videoID := c.Params("videoId")
	if videoID == "" {
		return c.Status(400).JSON(fiber.Map{
			"error": "Video ID is required",
			"code":  "ERR_NO_VIDEO_ID",
		})
	}

	streamURL, err := h.resolver.StreamURL(c.Context(), videoID)
	if err != nil {
		log.Printf("Stream lookup failed for %s: %v", videoID, err)
		return c.Status(404).JSON(fiber.Map{
			"error": "Could not resolve a stream URL for this video",
			"code":  "ERR_STREAM_UNAVAILABLE",
		})
	}

	return c.JSON(fiber.Map{
		"videoId":   videoID,
		"streamUrl": streamURL,
		"expiresIn": 600,
	})
}
