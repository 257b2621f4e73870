package report

import (
	"context"
	"time"
)

// Recorder threads run persistence through one scenario execution. A nil
// Recorder records nothing, so callers skip the archive wiring entirely
// when no report path is configured. Not safe for concurrent use; a run
// executes line by line.
type Recorder struct {
	store    *Store
	runID    int64
	steps    int
	failures int
}

// NewRecorder wraps a store for one run.
func NewRecorder(store *Store) *Recorder {
	return &Recorder{store: store}
}

// Begin opens the run record.
func (r *Recorder) Begin(ctx context.Context, source, network string) error {
	if r == nil || r.store == nil {
		return nil
	}
	id, err := r.store.BeginRun(ctx, source, network, time.Now().UTC())
	if err != nil {
		return err
	}
	r.runID = id
	return nil
}

// Step records one executed line and its outcome.
func (r *Recorder) Step(ctx context.Context, line string, ok bool, detail string, gasUsed int64) error {
	if r == nil || r.store == nil {
		return nil
	}
	r.steps++
	if !ok {
		r.failures++
	}
	return r.store.RecordStep(ctx, Step{
		RunID:   r.runID,
		Seq:     r.steps,
		Line:    line,
		OK:      ok,
		Detail:  detail,
		GasUsed: gasUsed,
	})
}

// Finish stamps the run record with its end time and counters.
func (r *Recorder) Finish(ctx context.Context) error {
	if r == nil || r.store == nil {
		return nil
	}
	return r.store.FinishRun(ctx, r.runID, time.Now().UTC(), r.steps, r.failures)
}

// RunID returns the open run's id, or zero when nothing is recorded.
func (r *Recorder) RunID() int64 {
	if r == nil {
		return 0
	}
	return r.runID
}
