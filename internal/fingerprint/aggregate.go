package fingerprint

import (
	"errors"
	"fmt"

	"ashlock/internal/grid"
	"ashlock/internal/tournament"
)

var (
	ErrMissingOutcome     = errors.New("edge has no outcome")
	ErrRepetitionMismatch = errors.New("outcome repetition count mismatch")
	ErrEdgeCountMismatch  = errors.New("edge count does not match grid")
)

// ScoreMap assigns each grid point the mean score of its probe's trials.
type ScoreMap map[grid.Point]float64

// Aggregate reduces raw outcomes to one mean score per grid point. Edge i
// zips onto points[i]: edge targets start at 1 while the grid is 0-indexed,
// and grid order, battery order, and edge order are the same by contract.
// A missing edge or a wrong trial count is a contract violation between
// runner and aggregator and fails the whole aggregation; it is never
// averaged over.
func Aggregate(points []grid.Point, edges []tournament.Edge, outcomes tournament.Outcomes, repetitions int) (ScoreMap, error) {
	if len(edges) != len(points) {
		return nil, fmt.Errorf("%w: %d edges for %d points", ErrEdgeCountMismatch, len(edges), len(points))
	}

	data := make(ScoreMap, len(points))
	for i, edge := range edges {
		trials, ok := outcomes[edge]
		if !ok {
			return nil, fmt.Errorf("%w: (%d, %d)", ErrMissingOutcome, edge.Source, edge.Target)
		}
		if len(trials) != repetitions {
			return nil, fmt.Errorf("%w: edge (%d, %d) has %d trials, want %d",
				ErrRepetitionMismatch, edge.Source, edge.Target, len(trials), repetitions)
		}

		var sum float64
		for _, score := range trials {
			sum += score
		}
		data[points[i]] = sum / float64(repetitions)
	}
	return data, nil
}
