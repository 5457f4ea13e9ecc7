package cleanup

import (
	"log"
	"os"
	"path/filepath"
	"time"
)

// Scheduler periodically sweeps the temp directory for stale job
// workspaces. Finished tasks clean up after themselves; the sweeper
// catches whatever a crashed process left behind.
type Scheduler struct {
	tempDir  string
	interval time.Duration
	maxAge   time.Duration
	stopChan chan struct{}
}

// NewScheduler creates a sweeper for tempDir.
func NewScheduler(tempDir string, intervalMinutes, maxAgeHours int) *Scheduler {
	return &Scheduler{
		tempDir:  tempDir,
		interval: time.Duration(intervalMinutes) * time.Minute,
		maxAge:   time.Duration(maxAgeHours) * time.Hour,
		stopChan: make(chan struct{}),
	}
}

// Start runs one sweep immediately, then sweeps on the configured interval.
func (s *Scheduler) Start() {
	s.sweep()

	ticker := time.NewTicker(s.interval)
	go func() {
		for {
			select {
			case <-ticker.C:
				s.sweep()
			case <-s.stopChan:
				ticker.Stop()
				return
			}
		}
	}()

	log.Printf("Cleanup scheduler started (interval: %s, max age: %s)", s.interval, s.maxAge)
}

// Stop terminates the scheduler.
func (s *Scheduler) Stop() {
	close(s.stopChan)
	log.Println("Cleanup scheduler stopped")
}

// sweep removes entries in tempDir (per-job directories and stray files)
// that have not been touched within maxAge.
func (s *Scheduler) sweep() {
	entries, err := os.ReadDir(s.tempDir)
	if err != nil {
		log.Printf("Cleanup: cannot read temp dir %s: %v", s.tempDir, err)
		return
	}

	now := time.Now()
	removed := 0

	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if now.Sub(info.ModTime()) <= s.maxAge {
			continue
		}

		path := filepath.Join(s.tempDir, entry.Name())
		if err := os.RemoveAll(path); err != nil {
			log.Printf("Cleanup: failed to remove %s: %v", path, err)
			continue
		}
		removed++
	}

	if removed > 0 {
		log.Printf("Cleanup: removed %d stale temp entries", removed)
	}
}

// EnsureTempDirExists creates the temp directory if it doesn't exist.
func EnsureTempDirExists(tempDir string) error {
	if err := os.MkdirAll(tempDir, 0755); err != nil {
		return err
	}
	log.Printf("Temp directory ready: %s", tempDir)
	return nil
}
