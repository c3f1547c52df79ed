package sink

import (
	"context"
	"errors"
	"sort"
	"sync"
)

// MemorySink keeps trial records in process memory.
type MemorySink struct {
	mu          sync.Mutex
	initialized bool
	records     []Record
}

func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

func (s *MemorySink) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.initialized = true
	s.records = nil
	return nil
}

func (s *MemorySink) Append(_ context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return errors.New("sink is not initialized")
	}
	s.records = append(s.records, rec)
	return nil
}

func (s *MemorySink) Flush(_ context.Context) error {
	return nil
}

func (s *MemorySink) Scores(_ context.Context) (map[[2]int][]float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return nil, errors.New("sink is not initialized")
	}

	// Concurrent appends arrive in arbitrary order; restore repetition order
	// before grouping so transport never changes outcome content.
	records := make([]Record, len(s.records))
	copy(records, s.records)
	sort.Slice(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if a.Source != b.Source {
			return a.Source < b.Source
		}
		if a.Target != b.Target {
			return a.Target < b.Target
		}
		return a.Repetition < b.Repetition
	})

	scores := make(map[[2]int][]float64)
	for _, rec := range records {
		key := [2]int{rec.Source, rec.Target}
		scores[key] = append(scores[key], rec.Score)
	}
	return scores, nil
}
