package fingerprint

import (
	"errors"
	"fmt"

	"ashlock/internal/grid"
)

var ErrIncompleteScores = errors.New("score map does not cover the grid")

// Reshape turns a score map into an L x L matrix oriented for image
// display. The grid's flat order is x-major (x varies slowest), so the flat
// sequence fills matrix columns first; the rows are then flipped so row 0
// holds y = 1 and the last row holds y = 0. The result places the score of
// (0, 1) at [0][0] and the score of (1, 0) at [L-1][L-1].
func Reshape(data ScoreMap, points []grid.Point, step float64) ([][]float64, error) {
	side := grid.SideLength(step)
	if len(points) != side*side {
		return nil, fmt.Errorf("%w: %d points for side %d", ErrIncompleteScores, len(points), side)
	}

	matrix := make([][]float64, side)
	for row := range matrix {
		matrix[row] = make([]float64, side)
	}
	for i, pt := range points {
		score, ok := data[pt]
		if !ok {
			return nil, fmt.Errorf("%w: no score for %s", ErrIncompleteScores, pt)
		}
		// x is the slowest-varying axis in flat order and becomes the
		// column; y becomes the row, flipped so y = 1 lands on row 0.
		col := i / side
		row := side - 1 - i%side
		matrix[row][col] = score
	}
	return matrix, nil
}

// Surface is what a renderer needs to draw a heat map: the matrix, the
// score bounds for the color scale, and the side length. Renderers never
// touch points or raw outcomes.
type Surface struct {
	Matrix   [][]float64
	MinScore float64
	MaxScore float64
	Side     int
}

// BuildSurface reshapes data and computes its score bounds.
func BuildSurface(data ScoreMap, points []grid.Point, step float64) (Surface, error) {
	matrix, err := Reshape(data, points, step)
	if err != nil {
		return Surface{}, err
	}

	s := Surface{Matrix: matrix, Side: grid.SideLength(step)}
	first := true
	for _, score := range data {
		if first || score < s.MinScore {
			s.MinScore = score
		}
		if first || score > s.MaxScore {
			s.MaxScore = score
		}
		first = false
	}
	return s, nil
}
