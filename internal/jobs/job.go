package jobs

import (
	"time"

	"github.com/codebuildervaibhav/yt-audio-api/internal/types"
)

// Job is one tracked background conversion. After registration the
// background task executing it is the only writer; everyone else reads
// snapshots through the store.
type Job struct {
	ID          string
	Title       string
	SourceURL   string
	Status      string
	Progress    int
	DownloadURL string
	Error       string
	CreatedAt   time.Time
}

// NewJob registers a job in its initial state: Processing with progress 0.
func NewJob(id string, req types.ConversionRequest) *Job {
	title := req.Title
	if title == "" {
		title = "untitled"
	}
	return &Job{
		ID:        id,
		Title:     title,
		SourceURL: req.URL,
		Status:    types.StatusProcessing,
		Progress:  0,
		CreatedAt: time.Now(),
	}
}

// View returns the caller-facing snapshot of the job.
func (j *Job) View() types.JobView {
	return types.JobView{
		ID:          j.ID,
		Title:       j.Title,
		Status:      j.Status,
		Progress:    j.Progress,
		DownloadURL: j.DownloadURL,
		Error:       j.Error,
		CreatedAt:   j.CreatedAt,
	}
}

// terminal reports whether the job has reached a final state.
func (j *Job) terminal() bool {
	return j.Status == types.StatusCompleted || j.Status == types.StatusFailed
}
