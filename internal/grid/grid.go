// Package grid samples the unit square at a fixed resolution. Points are
// ordered with x varying slowest and y fastest; every downstream stage
// (probe battery, tournament edges, score aggregation) relies on that order.
package grid

import (
	"errors"
	"fmt"
)

var ErrInvalidStep = errors.New("grid step must lie in (0, 1]")

// Point is one sample coordinate in [0, 1] x [0, 1].
type Point struct {
	X float64
	Y float64
}

func (p Point) String() string {
	return fmt.Sprintf("(%g, %g)", p.X, p.Y)
}

// SideLength is the number of samples per axis for a given step.
func SideLength(step float64) int {
	return int(1/step) + 1
}

// Build returns the full grid for step: the Cartesian product of a linear
// sampling of [0, 1] with itself, x-major then y-minor. Samples come from
// linear interpolation rather than step accumulation so the boundary values
// are exactly 0 and 1 regardless of step.
func Build(step float64) ([]Point, error) {
	if step <= 0 || step > 1 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidStep, step)
	}

	side := SideLength(step)
	samples := linspace(side)
	points := make([]Point, 0, side*side)
	for _, x := range samples {
		for _, y := range samples {
			points = append(points, Point{X: x, Y: y})
		}
	}
	return points, nil
}

// linspace returns n evenly spaced values from 0 to 1 inclusive. n is at
// least 2 for any valid step because SideLength(1) == 2.
func linspace(n int) []float64 {
	values := make([]float64, n)
	for i := range values {
		values[i] = float64(i) / float64(n-1)
	}
	return values
}
