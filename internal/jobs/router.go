package jobs

// DefaultThresholdSeconds is the duration cutoff between locally-handled
// and background-job conversions: 15 minutes.
const DefaultThresholdSeconds = 900

// Route is the outcome of classifying a conversion request by cost.
type Route int

const (
	// RouteLocalOnly means the media is short enough for the caller to
	// process in its own environment; no job is started.
	RouteLocalOnly Route = iota
	// RouteBackgroundJob means the conversion is tracked as a background job.
	RouteBackgroundJob
)

// DurationRouter classifies conversion requests by declared duration.
// It trusts the caller's number; duration is not re-derived from the
// source before routing.
type DurationRouter struct {
	threshold int64
}

// NewDurationRouter creates a router with the given cutoff in seconds.
// Non-positive values fall back to the default.
func NewDurationRouter(thresholdSeconds int64) *DurationRouter {
	if thresholdSeconds <= 0 {
		thresholdSeconds = DefaultThresholdSeconds
	}
	return &DurationRouter{threshold: thresholdSeconds}
}

// Route returns RouteLocalOnly for durations at or below the threshold
// and RouteBackgroundJob above it. Pure function, no state.
func (r *DurationRouter) Route(durationSeconds int64) Route {
	if durationSeconds <= r.threshold {
		return RouteLocalOnly
	}
	return RouteBackgroundJob
}

// Threshold returns the configured cutoff in seconds.
func (r *DurationRouter) Threshold() int64 {
	return r.threshold
}
