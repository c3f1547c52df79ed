// Package tournament runs one batch of subject-vs-probe experiments. The
// batch is a star: the subject sits at index 0 and plays every probe at
// indices 1..N; probes never meet each other. Raw trial outcomes travel
// through a sink (in-memory or durable) and are read back keyed by edge.
package tournament

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"ashlock/internal/game"
	"ashlock/internal/probe"
	"ashlock/internal/sink"
)

var (
	ErrInvalidConfig = errors.New("invalid tournament configuration")
	ErrEngine        = errors.New("tournament engine failure")
)

// Edge identifies one subject-vs-probe pairing within a batch.
type Edge struct {
	Source int
	Target int
}

// Outcomes maps each edge to its per-repetition trial scores, each score
// being the subject's final score per turn for that trial.
type Outcomes map[Edge][]float64

// Config controls one batch run.
type Config struct {
	Turns       int
	Repetitions int
	Workers     int         // <= 0 means use all CPUs
	Seed        int64       // fans out per edge and repetition
	Payoff      game.Payoff // zero value means the standard game
	Sink        sink.Sink   // nil forces in-memory transport

	// Progress, if non-nil, is called once per finished edge. Calls are
	// serialized even when workers run concurrently, so the callback may
	// keep unsynchronized state.
	Progress func(done, total int)
}

// matchSeed derives the seed for one trial. Striding by the repetition
// count keeps every (edge, repetition) pair on its own RNG stream, whatever
// the configured repetitions.
func matchSeed(base int64, target, rep, repetitions int) int64 {
	return base + int64(target)*int64(repetitions) + int64(rep)
}

// Edges builds the star pairing list for n probes: {(0, 1) .. (0, n)}.
func Edges(n int) []Edge {
	edges := make([]Edge, 0, n)
	for i := 1; i <= n; i++ {
		edges = append(edges, Edge{Source: 0, Target: i})
	}
	return edges
}

// Run plays cfg.Repetitions independent trials of cfg.Turns turns for every
// edge and returns the complete outcome map. Transport never changes
// content: the in-memory path uses a process-local sink with the same
// append/read-back protocol as a durable one. Any trial or sink failure is
// fatal to the whole batch; no partial outcome map is ever returned.
func Run(ctx context.Context, subject game.Player, battery []probe.Probe, cfg Config) (Outcomes, error) {
	if cfg.Turns <= 0 {
		return nil, fmt.Errorf("%w: turns must be positive, got %d", ErrInvalidConfig, cfg.Turns)
	}
	if cfg.Repetitions <= 0 {
		return nil, fmt.Errorf("%w: repetitions must be positive, got %d", ErrInvalidConfig, cfg.Repetitions)
	}
	if len(battery) == 0 {
		return nil, fmt.Errorf("%w: battery is empty", ErrInvalidConfig)
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	payoff := cfg.Payoff
	if payoff == (game.Payoff{}) {
		payoff = game.StandardPayoff()
	}
	out := cfg.Sink
	if out == nil {
		out = sink.NewMemorySink()
	}

	if err := out.Init(ctx); err != nil {
		return nil, fmt.Errorf("%w: init sink: %w", ErrEngine, err)
	}
	defer func() {
		_ = sink.CloseIfSupported(out)
	}()

	edges := Edges(len(battery))
	var (
		progressMu sync.Mutex
		finished   int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, edge := range edges {
		opponent := battery[i].Player
		edge := edge
		g.Go(func() error {
			for rep := 0; rep < cfg.Repetitions; rep++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				seed := matchSeed(cfg.Seed, edge.Target, rep, cfg.Repetitions)
				res, err := game.PlayMatch(subject, opponent, cfg.Turns, payoff, seed)
				if err != nil {
					return err
				}
				rec := sink.Record{
					Source:     edge.Source,
					Target:     edge.Target,
					Repetition: rep,
					Score:      res.FirstPerTurn,
				}
				if err := out.Append(gctx, rec); err != nil {
					return err
				}
			}
			if cfg.Progress != nil {
				progressMu.Lock()
				finished++
				cfg.Progress(finished, len(edges))
				progressMu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEngine, err)
	}

	if err := out.Flush(ctx); err != nil {
		return nil, fmt.Errorf("%w: flush sink: %w", ErrEngine, err)
	}
	scores, err := out.Scores(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: read sink: %w", ErrEngine, err)
	}

	outcomes := make(Outcomes, len(edges))
	for _, edge := range edges {
		trials, ok := scores[[2]int{edge.Source, edge.Target}]
		if !ok {
			return nil, fmt.Errorf("%w: sink lost edge (%d, %d)", ErrEngine, edge.Source, edge.Target)
		}
		outcomes[edge] = trials
	}
	return outcomes, nil
}
