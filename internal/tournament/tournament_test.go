package tournament

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"ashlock/internal/grid"
	"ashlock/internal/probe"
	"ashlock/internal/sink"
	"ashlock/internal/strategy"
)

func cooperatorBattery(n int) []probe.Probe {
	battery := make([]probe.Probe, n)
	for i := range battery {
		battery[i] = probe.Probe{Player: strategy.Cooperator{}}
	}
	return battery
}

func realBattery(t *testing.T, step float64) []probe.Probe {
	t.Helper()
	tmpl, err := strategy.Lookup("titfortat")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	points, err := grid.Build(step)
	if err != nil {
		t.Fatalf("build grid: %v", err)
	}
	battery, err := probe.BuildBattery(tmpl, points, nil)
	if err != nil {
		t.Fatalf("build battery: %v", err)
	}
	return battery
}

func TestEdgesStarTopology(t *testing.T) {
	edges := Edges(4)
	want := []Edge{{0, 1}, {0, 2}, {0, 3}, {0, 4}}
	if diff := cmp.Diff(want, edges); diff != "" {
		t.Fatalf("edges mismatch (-want +got):\n%s", diff)
	}
}

func TestRunMutualCooperationScoresThreePerTurn(t *testing.T) {
	outcomes, err := Run(context.Background(), strategy.Cooperator{}, cooperatorBattery(4), Config{
		Turns:       10,
		Repetitions: 3,
		Workers:     2,
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(outcomes) != 4 {
		t.Fatalf("expected 4 edges, got %d", len(outcomes))
	}
	for edge, trials := range outcomes {
		if len(trials) != 3 {
			t.Fatalf("edge (%d, %d): %d trials, want 3", edge.Source, edge.Target, len(trials))
		}
		for _, score := range trials {
			if score != 3.0 {
				t.Fatalf("edge (%d, %d): score %v, want 3.0", edge.Source, edge.Target, score)
			}
		}
	}
}

func TestRunTransportEquivalence(t *testing.T) {
	battery := realBattery(t, 0.5)
	cfg := Config{Turns: 20, Repetitions: 4, Workers: 3, Seed: 99}

	inMemory, err := Run(context.Background(), strategy.TitForTat{}, battery, cfg)
	if err != nil {
		t.Fatalf("in-memory run: %v", err)
	}

	cfg.Sink = sink.NewSQLiteSink(filepath.Join(t.TempDir(), "run.db"))
	durable, err := Run(context.Background(), strategy.TitForTat{}, battery, cfg)
	if err != nil {
		t.Fatalf("durable run: %v", err)
	}

	if diff := cmp.Diff(inMemory, durable); diff != "" {
		t.Fatalf("transport changed outcome content (-memory +sqlite):\n%s", diff)
	}
}

func TestRunIsDeterministicPerSeed(t *testing.T) {
	battery := realBattery(t, 1.0)
	cfg := Config{Turns: 30, Repetitions: 5, Seed: 7}

	first, err := Run(context.Background(), strategy.TitForTat{}, battery, cfg)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	second, err := Run(context.Background(), strategy.TitForTat{}, battery, cfg)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("same seed must replay identically (-first +second):\n%s", diff)
	}
}

func TestRunValidatesConfig(t *testing.T) {
	battery := cooperatorBattery(1)
	cases := []Config{
		{Turns: 0, Repetitions: 1},
		{Turns: -5, Repetitions: 1},
		{Turns: 1, Repetitions: 0},
		{Turns: 1, Repetitions: -2},
	}
	for _, cfg := range cases {
		if _, err := Run(context.Background(), strategy.Cooperator{}, battery, cfg); !errors.Is(err, ErrInvalidConfig) {
			t.Fatalf("expected ErrInvalidConfig for %+v, got %v", cfg, err)
		}
	}
	if _, err := Run(context.Background(), strategy.Cooperator{}, nil, Config{Turns: 1, Repetitions: 1}); !errors.Is(err, ErrInvalidConfig) {
		t.Fatal("expected ErrInvalidConfig for empty battery")
	}
}

func TestRunFailsWholeBatchOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	outcomes, err := Run(ctx, strategy.Cooperator{}, cooperatorBattery(8), Config{
		Turns:       50,
		Repetitions: 10,
	})
	if !errors.Is(err, ErrEngine) {
		t.Fatalf("expected ErrEngine on cancellation, got %v", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("cancellation cause must survive wrapping, got %v", err)
	}
	if outcomes != nil {
		t.Fatal("a failed run must not yield partial outcomes")
	}
}

func TestRunFailsOnBrokenSink(t *testing.T) {
	// A sink that cannot be opened fails the batch before any play.
	cfg := Config{
		Turns:       5,
		Repetitions: 2,
		Sink:        sink.NewSQLiteSink(""),
	}
	if _, err := Run(context.Background(), strategy.Cooperator{}, cooperatorBattery(2), cfg); !errors.Is(err, ErrEngine) {
		t.Fatalf("expected ErrEngine for unusable sink, got %v", err)
	}
}

func TestRunReportsProgressPerEdge(t *testing.T) {
	var calls int
	var lastTotal int
	_, err := Run(context.Background(), strategy.Cooperator{}, cooperatorBattery(5), Config{
		Turns:       5,
		Repetitions: 2,
		Workers:     1,
		Progress: func(done, total int) {
			calls++
			lastTotal = total
		},
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if calls != 5 || lastTotal != 5 {
		t.Fatalf("progress called %d times with total %d, want 5/5", calls, lastTotal)
	}
}

func TestRunProgressIsSerializedAcrossWorkers(t *testing.T) {
	// The callback keeps unsynchronized state on purpose: Run guarantees
	// serialized delivery, so concurrent workers must not trip the race
	// detector or interleave counts.
	var seen []int
	_, err := Run(context.Background(), strategy.Cooperator{}, cooperatorBattery(32), Config{
		Turns:       5,
		Repetitions: 2,
		Workers:     8,
		Progress: func(done, total int) {
			if total != 32 {
				t.Errorf("total = %d, want 32", total)
			}
			seen = append(seen, done)
		},
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(seen) != 32 {
		t.Fatalf("progress called %d times, want 32", len(seen))
	}
	for i, done := range seen {
		if done != i+1 {
			t.Fatalf("seen[%d] = %d, want %d; delivery not serialized", i, done, i+1)
		}
	}
}

func TestMatchSeedsAreDistinct(t *testing.T) {
	// High repetition counts must not fold one edge's trials onto the
	// next edge's stream.
	const repetitions = 1001
	seeds := make(map[int64][2]int)
	for target := 1; target <= 3; target++ {
		for rep := 0; rep < repetitions; rep++ {
			seed := matchSeed(42, target, rep, repetitions)
			if prev, dup := seeds[seed]; dup {
				t.Fatalf("seed %d shared by edge %d rep %d and edge %d rep %d",
					seed, prev[0], prev[1], target, rep)
			}
			seeds[seed] = [2]int{target, rep}
		}
	}
}
