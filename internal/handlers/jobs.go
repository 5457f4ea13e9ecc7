package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/codebuildervaibhav/yt-audio-api/internal/jobs"
	"github.com/codebuildervaibhav/yt-audio-api/internal/types"
)

// JobsHandler serves job status, over plain HTTP polling and over a
// websocket that pushes snapshots until the job is terminal.
type JobsHandler struct {
	orchestrator *jobs.Orchestrator
}

// NewJobsHandler creates a new jobs handler.
func NewJobsHandler(orchestrator *jobs.Orchestrator) *JobsHandler {
	return &JobsHandler{orchestrator: orchestrator}
}

// Status processes GET /api/jobs/:id.
func (h *JobsHandler) Status(c *fiber.Ctx) error {
	jobID := c.Params("id")

	view, err := h.orchestrator.Status(jobID)
	if err != nil {
		if errors.Is(err, jobs.ErrJobNotFound) {
			return c.Status(404).JSON(fiber.Map{
				"error": "Job not found",
				"code":  "ERR_JOB_NOT_FOUND",
			})
		}
		return c.Status(500).JSON(fiber.Map{
			"error": "Failed to read job status",
			"code":  "ERR_STATUS_FAILED",
		})
	}

	return c.JSON(view)
}

// Watch streams job snapshots over a websocket. The connection closes
// once the job reaches a terminal state.
func (h *JobsHandler) Watch(conn *websocket.Conn) {
	defer conn.Close()

	jobID := conn.Params("id")

	view, err := h.orchestrator.Status(jobID)
	if err != nil {
		conn.WriteJSON(fiber.Map{
			"error": "Job not found",
			"code":  "ERR_JOB_NOT_FOUND",
		})
		return
	}
	if err := conn.WriteJSON(view); err != nil {
		return
	}
	if view.Status != types.StatusProcessing {
		return
	}

	done := h.orchestrator.Wait(jobID)
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
		case <-done:
		}

		view, err := h.orchestrator.Status(jobID)
		if err != nil {
			return
		}
		if err := conn.WriteJSON(view); err != nil {
			return
		}
		if view.Status != types.StatusProcessing {
			return
		}
	}
}
