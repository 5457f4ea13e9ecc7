package types

import "time"

// Job status constants
const (
	StatusProcessing = "PROCESSING"
	StatusCompleted  = "COMPLETED"
	StatusFailed     = "FAILED"
)

// Provider provenance constants
const (
	ProviderPrimary  = "primary"
	ProviderFallback = "fallback"
)

// Download reason constants
const (
	ReasonRoyaltyFree = "royalty_free"
	ReasonCopyright   = "copyright"
)

// SearchResult is the normalized record both providers are adapted into.
// Duration is 0 when the provider cannot report it in a single call
// (the primary provider never does).
type SearchResult struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Artist      string `json:"artist"`
	Duration    int64  `json:"duration"`
	Thumbnail   string `json:"thumbnail"`
	URL         string `json:"url"`
	Provider    string `json:"provider"`
	CanStream   bool   `json:"canStream"`
	CanDownload bool   `json:"canDownload"`
	Reason      string `json:"reason"`
}

// ConversionRequest describes one requested audio conversion.
// Duration is caller-declared and drives routing; it is not re-verified
// against the source before the job is accepted.
type ConversionRequest struct {
	URL      string `json:"url"`
	Title    string `json:"title"`
	Duration int64  `json:"duration"`
	Format   string `json:"format"`
	Quality  string `json:"quality"`
}

// ExtractionResult is what the extraction collaborator hands back on success.
type ExtractionResult struct {
	FilePath string
	Title    string
	Duration float64
}

// JobView is the snapshot returned to status callers.
type JobView struct {
	ID          string    `json:"job_id"`
	Title       string    `json:"title"`
	Status      string    `json:"status"`
	Progress    int       `json:"progress"`
	DownloadURL string    `json:"download_url,omitempty"`
	Error       string    `json:"error,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
