package handlers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/codebuildervaibhav/yt-audio-api/internal/search"
	"github.com/codebuildervaibhav/yt-audio-api/internal/types"
)

// Searcher is what the search handler needs from the dispatcher.
type Searcher interface {
	Search(ctx context.Context, query string) ([]types.SearchResult, error)
}

// SearchHandler serves the music search endpoint.
type SearchHandler struct {
	searcher Searcher
}

// NewSearchHandler creates a new search handler.
func NewSearchHandler(searcher Searcher) *SearchHandler {
	return &SearchHandler{searcher: searcher}
}

// Handle processes GET /api/search?q=...
func (h *SearchHandler) Handle(c *fiber.Ctx) error {
	query := c.Query("q")
	if query == "" {
		return c.Status(400).JSON(fiber.Map{
			"error": "Query parameter 'q' is required",
			"code":  "ERR_NO_QUERY",
		})
	}

	results, err := h.searcher.Search(c.Context(), query)
	if err != nil {
		if errors.Is(err, search.ErrSearchUnavailable) {
			return c.Status(503).JSON(fiber.Map{
				"error": "Search providers are currently unavailable",
				"code":  "ERR_SEARCH_UNAVAILABLE",
			})
		}
		return c.Status(500).JSON(fiber.Map{
			"error": "Search failed",
			"code":  "ERR_SEARCH_FAILED",
		})
	}

	// Zero matches is a valid result, serialized as [] rather than null.
	if results == nil {
		results = []types.SearchResult{}
	}
	return c.JSON(results)
}
