package indexer

import (
	"sync"
	"time"

	"semindex/pkg/types"
)

// Progress is a point-in-time snapshot of a running index operation.
// Counters follow the per-file state machine:
// discovered -> {skipped | queued} -> processing -> {completed | errored}.
type Progress struct {
	Discovered int
	Queued     int
	Started    int
	Completed  int
	Skipped    int
	Errored    int
	Elapsed    time.Duration
	Usage      types.Usage
}

// tracker accumulates per-file state transitions across concurrent workers
// and emits a Progress snapshot after every transition.
type tracker struct {
	mu      sync.Mutex
	start   time.Time
	current Progress
	errors  []types.FileError
	emit    func(Progress)
}

func newTracker(emit func(Progress)) *tracker {
	return &tracker{start: time.Now(), emit: emit}
}

// notify must be called with t.mu held.
func (t *tracker) notify() {
	if t.emit == nil {
		return
	}
	snapshot := t.current
	snapshot.Elapsed = time.Since(t.start)
	t.emit(snapshot)
}

// transition records one file entering state. Usage settles into the run
// total only on terminal transitions, so tokens spent on a file that later
// errors are still accounted. err is recorded for errored files.
func (t *tracker) transition(path string, state types.FileState, usage types.Usage, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch state {
	case types.StateDiscovered:
		t.current.Discovered++
	case types.StateQueued:
		t.current.Queued++
	case types.StateSkipped:
		t.current.Skipped++
	case types.StateProcessing:
		t.current.Started++
	case types.StateCompleted:
		t.current.Completed++
	case types.StateErrored:
		t.current.Errored++
		t.errors = append(t.errors, types.FileError{Path: path, Err: err.Error()})
	}

	if state.Terminal() {
		t.current.Usage.Add(usage)
	}
	t.notify()
}

// stats finalizes the run into an IndexStats summary.
func (t *tracker) stats() *types.IndexStats {
	t.mu.Lock()
	defer t.mu.Unlock()
	return &types.IndexStats{
		FilesDiscovered: t.current.Discovered,
		FilesIndexed:    t.current.Completed,
		FilesSkipped:    t.current.Skipped,
		FilesErrored:    t.current.Errored,
		Errors:          t.errors,
		Usage:           t.current.Usage,
		Duration:        time.Since(t.start),
	}
}
