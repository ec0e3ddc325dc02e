package metrics

import (
	"sync"
	"time"
)

// testRecorder counts calls.
type testRecorder struct {
	mu         sync.Mutex
	mappings   map[string]int
	collisions int
	anchors    int
	duplicates int
	stages     map[string]int
	outcomes   map[OutcomeLabel]int
}

func newTestRecorder() *testRecorder {
	return &testRecorder{mappings: map[string]int{}, stages: map[string]int{}, outcomes: map[OutcomeLabel]int{}}
}

func (t *testRecorder) IncMapping(template string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.mappings[template]++
}
func (t *testRecorder) IncCollision()       { t.collisions++ }
func (t *testRecorder) IncAnchor()          { t.anchors++ }
func (t *testRecorder) IncDuplicateAnchor() { t.duplicates++ }
func (t *testRecorder) IncUnplaced(string)  {}
func (t *testRecorder) IncBrokenLink()      {}
func (t *testRecorder) ObserveStageDuration(stage string, _ time.Duration) {
	t.stages[stage]++
}
func (t *testRecorder) ObserveBuildDuration(time.Duration)   {}
func (t *testRecorder) IncBuildOutcome(outcome OutcomeLabel) { t.outcomes[outcome]++ }
func (t *testRecorder) SetPagesWritten(int)                  {}

var _ Recorder = (*testRecorder)(nil)
var _ Recorder = NoopRecorder{}
var _ Recorder = (*PrometheusRecorder)(nil)
