// Package probe derives concrete probe players from a base template and a
// grid coordinate. The coordinate-to-probe mapping is the heart of the
// Ashlock fingerprint: each point of the unit square fixes one distorted
// variant of the probe strategy.
package probe

import (
	"fmt"

	"ashlock/internal/game"
	"ashlock/internal/grid"
	"ashlock/internal/strategy"
)

// Probe is a template composed with the distortion transform for one point.
// X and Y record the Joss-Ann parameters actually applied, after the fold.
type Probe struct {
	Point  grid.Point
	X      float64
	Y      float64
	Dual   bool
	Player game.Player
}

// Transform maps one coordinate to its probe. Past the diagonal (x+y >= 1,
// boundary inclusive) the raw coordinates would no longer be interpretable
// as disjoint probabilities, so the point is reflected: the template is
// dualized and the Joss-Ann parameters become (1-x, 1-y). Below the
// diagonal the coordinates apply directly with no dual. The branch depends
// on both components jointly and is evaluated per point.
func Transform(tmpl strategy.Template, pt grid.Point) (Probe, error) {
	x, y := pt.X, pt.Y

	if x+y >= 1 {
		player, err := strategy.NewJossAnn(strategy.Dual{Base: tmpl.New()}, 1-x, 1-y)
		if err != nil {
			return Probe{}, fmt.Errorf("probe at %s: %w", pt, err)
		}
		return Probe{Point: pt, X: 1 - x, Y: 1 - y, Dual: true, Player: player}, nil
	}

	player, err := strategy.NewJossAnn(tmpl.New(), x, y)
	if err != nil {
		return Probe{}, fmt.Errorf("probe at %s: %w", pt, err)
	}
	return Probe{Point: pt, X: x, Y: y, Player: player}, nil
}

// BuildBattery derives one probe per grid point, in grid order. observe, if
// non-nil, is called after each probe purely for progress reporting; it
// never alters the result. Any transform failure aborts the whole battery
// since it signals a template incompatible with the distortion transform.
func BuildBattery(tmpl strategy.Template, points []grid.Point, observe func(done, total int)) ([]Probe, error) {
	probes := make([]Probe, 0, len(points))
	for i, pt := range points {
		p, err := Transform(tmpl, pt)
		if err != nil {
			return nil, err
		}
		probes = append(probes, p)
		if observe != nil {
			observe(i+1, len(points))
		}
	}
	return probes, nil
}
