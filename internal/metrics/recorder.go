package metrics

import "time"

// OutcomeLabel enumerates build outcomes for counters.
type OutcomeLabel string

const (
	OutcomeSuccess OutcomeLabel = "success"
	OutcomeWarning OutcomeLabel = "warning"
	OutcomeFailed  OutcomeLabel = "failed"
)

// Recorder defines observability hooks for URL building and rendering.
// Implementations may forward to Prometheus or a test double.
type Recorder interface {
	IncMapping(template string)
	IncCollision()
	IncAnchor()
	IncDuplicateAnchor()
	IncUnplaced(kind string)
	IncBrokenLink()
	ObserveStageDuration(stage string, d time.Duration)
	ObserveBuildDuration(d time.Duration)
	IncBuildOutcome(outcome OutcomeLabel)
	SetPagesWritten(n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics are not configured).
type NoopRecorder struct{}

func (NoopRecorder) IncMapping(string)                          {}
func (NoopRecorder) IncCollision()                              {}
func (NoopRecorder) IncAnchor()                                 {}
func (NoopRecorder) IncDuplicateAnchor()                        {}
func (NoopRecorder) IncUnplaced(string)                         {}
func (NoopRecorder) IncBrokenLink()                             {}
func (NoopRecorder) ObserveStageDuration(string, time.Duration) {}
func (NoopRecorder) ObserveBuildDuration(time.Duration)         {}
func (NoopRecorder) IncBuildOutcome(OutcomeLabel)               {}
func (NoopRecorder) SetPagesWritten(int)                        {}

// OrNoop returns r, or a NoopRecorder when r is nil.
func OrNoop(r Recorder) Recorder {
	if r == nil {
		return NoopRecorder{}
	}
	return r
}
