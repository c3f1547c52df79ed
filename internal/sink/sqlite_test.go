package sink

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSQLiteSinkRoundTrip(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "run.db")

	s := NewSQLiteSink(dbPath)
	if err := s.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}
	t.Cleanup(func() {
		_ = s.Close()
	})

	records := []Record{
		{Source: 0, Target: 1, Repetition: 1, Score: 2.5},
		{Source: 0, Target: 1, Repetition: 0, Score: 3.0},
		{Source: 0, Target: 2, Repetition: 0, Score: 1.0},
	}
	for _, rec := range records {
		if err := s.Append(ctx, rec); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	if err := s.Flush(ctx); err != nil {
		t.Fatalf("flush: %v", err)
	}

	scores, err := s.Scores(ctx)
	if err != nil {
		t.Fatalf("scores: %v", err)
	}
	want := map[[2]int][]float64{
		{0, 1}: {3.0, 2.5},
		{0, 2}: {1.0},
	}
	if diff := cmp.Diff(want, scores); diff != "" {
		t.Fatalf("scores mismatch (-want +got):\n%s", diff)
	}
}

func TestSQLiteSinkInitClearsPreviousRun(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "run.db")

	s := NewSQLiteSink(dbPath)
	if err := s.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}
	if err := s.Append(ctx, Record{Source: 0, Target: 1, Repetition: 0, Score: 5}); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	// A sink file is owned by one run at a time; re-init starts clean.
	reopened := NewSQLiteSink(dbPath)
	if err := reopened.Init(ctx); err != nil {
		t.Fatalf("reopen: %v", err)
	}
	t.Cleanup(func() {
		_ = reopened.Close()
	})
	scores, err := reopened.Scores(ctx)
	if err != nil {
		t.Fatalf("scores: %v", err)
	}
	if len(scores) != 0 {
		t.Fatalf("expected empty sink after re-init, got %v", scores)
	}
}

func TestSQLiteSinkRequiresPath(t *testing.T) {
	if err := NewSQLiteSink("").Init(context.Background()); err == nil {
		t.Fatal("expected missing path to fail")
	}
}
