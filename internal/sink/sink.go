// Package sink provides the result transport for tournament runs: raw trial
// records written during play and read back for aggregation. A sink is owned
// by exactly one run; the runner initializes it, appends every trial, and
// guarantees it is flushed before scores are read back.
package sink

import (
	"context"
	"fmt"
	"os"
)

// Record is one trial outcome for one pairing edge. Score is the subject's
// final score per turn for that trial.
type Record struct {
	Source     int
	Target     int
	Repetition int
	Score      float64
}

// Sink stores trial records for one run. Append must be safe for concurrent
// use; Scores must return per-edge trial scores ordered by repetition.
type Sink interface {
	Init(ctx context.Context) error
	Append(ctx context.Context, rec Record) error
	Flush(ctx context.Context) error
	Scores(ctx context.Context) (map[[2]int][]float64, error)
}

// New builds a sink backend by kind.
func New(kind, path string) (Sink, error) {
	switch kind {
	case "", "memory":
		return NewMemorySink(), nil
	case "sqlite":
		return NewSQLiteSink(path), nil
	default:
		return nil, fmt.Errorf("unsupported sink backend: %s", kind)
	}
}

// CloseIfSupported closes sinks that hold external resources.
func CloseIfSupported(s Sink) error {
	closer, ok := s.(interface{ Close() error })
	if !ok {
		return nil
	}
	return closer.Close()
}

// DurableAvailable reports whether dir can host a durable sink file. An
// environment that cannot provide one forces in-memory transport; callers
// branch on this check rather than on the platform.
func DurableAvailable(dir string) bool {
	f, err := os.CreateTemp(dir, "sink-probe-*")
	if err != nil {
		return false
	}
	name := f.Name()
	_ = f.Close()
	_ = os.Remove(name)
	return true
}
