package handlers

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/codebuildervaibhav/yt-audio-api/internal/extract"
	"github.com/codebuildervaibhav/yt-audio-api/internal/jobs"
	"github.com/codebuildervaibhav/yt-audio-api/internal/types"
)

// ConvertHandler accepts conversion requests and hands them to the
// orchestrator.
type ConvertHandler struct {
	orchestrator *jobs.Orchestrator
	threshold    int64
}

// NewConvertHandler creates a new conversion handler.
func NewConvertHandler(orchestrator *jobs.Orchestrator, thresholdSeconds int64) *ConvertHandler {
	return &ConvertHandler{
		orchestrator: orchestrator,
		threshold:    thresholdSeconds,
	}
}

// Handle processes POST /api/convert. Accepted requests return a job ID
// immediately; success or failure of the conversion is only visible via
// polling the job.
func (h *ConvertHandler) Handle(c *fiber.Ctx) error {
	var req types.ConversionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"error": "Invalid request body",
			"code":  "ERR_INVALID_BODY",
		})
	}

	if req.URL == "" {
		return c.Status(400).JSON(fiber.Map{
			"error": "URL is required",
			"code":  "ERR_NO_URL",
		})
	}
	if req.Format != "" && !extract.ValidateFormat(req.Format) {
		return c.Status(400).JSON(fiber.Map{
			"error": "Format must be mp3 or m4a",
			"code":  "ERR_INVALID_FORMAT",
		})
	}
	if req.Quality != "" && !extract.ValidateQuality(req.Quality) {
		return c.Status(400).JSON(fiber.Map{
			"error": "Quality must be best, 320, 192 or 128",
			"code":  "ERR_INVALID_QUALITY",
		})
	}

	jobID, err := h.orchestrator.Start(req)
	if err != nil {
		if errors.Is(err, jobs.ErrBelowThreshold) {
			return c.Status(400).JSON(fiber.Map{
				"error": fmt.Sprintf("Duration %ds is at or below the %ds threshold - process this locally", req.Duration, h.threshold),
				"code":  "ERR_BELOW_THRESHOLD",
			})
		}
		return c.Status(500).JSON(fiber.Map{
			"error": "Failed to start conversion",
			"code":  "ERR_START_FAILED",
		})
	}

	return c.JSON(fiber.Map{
		"job_id":  jobID,
		"status":  "PROCESSING_STARTED",
		"message": "Conversion started, poll /api/jobs/" + jobID + " for status",
	})
}
