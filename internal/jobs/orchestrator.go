package jobs

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime/debug"
	"sync"

	"github.com/google/uuid"

	"github.com/codebuildervaibhav/yt-audio-api/internal/types"
)

// ErrBelowThreshold is returned by Start when the declared duration is at
// or below the routing threshold: the caller should process the media in
// its own environment instead of holding a server job.
var ErrBelowThreshold = errors.New("duration at or below background threshold")

// Extractor is the boundary to the external extraction/transcode
// subsystem. It runs to completion or failure from the task's point of
// view and leaves its artifact inside workDir.
type Extractor interface {
	Extract(ctx context.Context, req types.ConversionRequest, workDir string) (*types.ExtractionResult, error)
}

// ArtifactStore moves a finished temp artifact into served storage and
// returns its local path and public download URL.
type ArtifactStore interface {
	SaveAudio(title, tempPath string) (localPath, downloadURL string, err error)
}

// Recorder persists metadata of finished conversions. May be nil.
type Recorder interface {
	SaveConversion(jobID, title, sourceURL, format, localPath, downloadURL string, duration float64) error
}

// Orchestrator runs conversions to completion in the background,
// independent of the request that triggered them, and answers status
// polls by job identifier. Each accepted job gets its own goroutine with
// exclusive write access to its store entry.
type Orchestrator struct {
	store     Store
	router    *DurationRouter
	extractor Extractor
	artifacts ArtifactStore
	recorder  Recorder
	tempDir   string

	mu   sync.Mutex
	done map[string]chan struct{}
}

// NewOrchestrator wires the orchestrator. recorder may be nil.
func NewOrchestrator(store Store, router *DurationRouter, extractor Extractor, artifacts ArtifactStore, recorder Recorder, tempDir string) *Orchestrator {
	return &Orchestrator{
		store:     store,
		router:    router,
		extractor: extractor,
		artifacts: artifacts,
		recorder:  recorder,
		tempDir:   tempDir,
		done:      make(map[string]chan struct{}),
	}
}

// Start routes the request and, when it clears the threshold, registers a
// job in state Processing and schedules its task. The job is in the store
// before Start returns, so a status poll immediately after can never see
// NotFound. Start itself never blocks on the task.
func (o *Orchestrator) Start(req types.ConversionRequest) (string, error) {
	if o.router.Route(req.Duration) == RouteLocalOnly {
		return "", ErrBelowThreshold
	}

	jobID := uuid.New().String()
	o.store.Put(NewJob(jobID, req))

	done := make(chan struct{})
	o.mu.Lock()
	o.done[jobID] = done
	o.mu.Unlock()

	// The task owns its own context. Nothing cancels it today: once
	// started it runs to Completed or Failed.
	ctx, cancel := context.WithCancel(context.Background())
	go o.run(ctx, cancel, done, jobID, req)

	log.Printf("Job %s: accepted (%q, %ds)", jobID, req.Title, req.Duration)
	return jobID, nil
}

// Status returns the current snapshot for the job, or ErrJobNotFound.
func (o *Orchestrator) Status(jobID string) (types.JobView, error) {
	return o.store.Get(jobID)
}

// Wait returns a channel closed when the job's background task exits.
// Unknown identifiers get an already-closed channel.
func (o *Orchestrator) Wait(jobID string) <-chan struct{} {
	o.mu.Lock()
	defer o.mu.Unlock()
	if ch, ok := o.done[jobID]; ok {
		return ch
	}
	closed := make(chan struct{})
	close(closed)
	return closed
}

// run executes one conversion. Whatever happens, the job's temp directory
// is removed and the job ends in a terminal state.
func (o *Orchestrator) run(ctx context.Context, cancel context.CancelFunc, done chan struct{}, jobID string, req types.ConversionRequest) {
	defer close(done)
	defer cancel()
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Job %s: PANIC in conversion task: %v\n%s", jobID, r, string(debug.Stack()))
			o.fail(jobID, fmt.Sprintf("internal error: %v", r))
		}
	}()

	workDir := filepath.Join(o.tempDir, jobID)
	defer o.removeWorkDir(jobID, workDir)

	if err := os.MkdirAll(workDir, 0755); err != nil {
		log.Printf("Job %s: failed to create work directory: %v", jobID, err)
		o.fail(jobID, fmt.Sprintf("work directory: %v", err))
		return
	}

	result, err := o.extractor.Extract(ctx, req, workDir)
	if err != nil {
		log.Printf("Job %s: extraction failed: %v", jobID, err)
		o.fail(jobID, err.Error())
		return
	}

	title := result.Title
	if title == "" {
		title = req.Title
	}

	localPath, downloadURL, err := o.artifacts.SaveAudio(title, result.FilePath)
	if err != nil {
		log.Printf("Job %s: failed to store artifact: %v", jobID, err)
		o.fail(jobID, fmt.Sprintf("store artifact: %v", err))
		return
	}

	if o.recorder != nil {
		if err := o.recorder.SaveConversion(jobID, title, req.URL, req.Format, localPath, downloadURL, result.Duration); err != nil {
			log.Printf("Job %s: metadata save failed: %v", jobID, err)
		}
	}

	o.store.Update(jobID, func(j *Job) {
		if j.terminal() {
			return
		}
		j.Status = types.StatusCompleted
		j.Progress = 100
		j.DownloadURL = downloadURL
	})
	log.Printf("Job %s: completed (%s)", jobID, downloadURL)
}

// fail records a terminal failure. Terminal states never regress.
func (o *Orchestrator) fail(jobID, summary string) {
	o.store.Update(jobID, func(j *Job) {
		if j.terminal() {
			return
		}
		j.Status = types.StatusFailed
		j.Error = summary
	})
}

func (o *Orchestrator) removeWorkDir(jobID, workDir string) {
	if err := os.RemoveAll(workDir); err != nil {
		log.Printf("Job %s: failed to clean up work directory %s: %v", jobID, workDir, err)
	}
}
