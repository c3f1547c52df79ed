package strategy

import (
	"errors"
	"fmt"
	"math/rand"

	"ashlock/internal/game"
)

var ErrInvalidProbability = errors.New("joss-ann probabilities must lie in [0, 1] and sum to at most 1")

// Dual inverts the cooperate/defect polarity of a base player. The dual's
// move on any history is the flip of the move the base player would make
// had the dual's own moves been flipped, so the dual traces the mirrored
// trajectory of the base strategy rather than merely negating its output.
type Dual struct {
	Base game.Player
}

func (d Dual) Name() string {
	return fmt.Sprintf("dual(%s)", d.Base.Name())
}

func (d Dual) Play(rng *rand.Rand, own, opp []game.Move) game.Move {
	return d.Base.Play(rng, flipAll(own), opp).Flip()
}

func flipAll(moves []game.Move) []game.Move {
	flipped := make([]game.Move, len(moves))
	for i, m := range moves {
		flipped[i] = m.Flip()
	}
	return flipped
}

// JossAnn blends a base player with fixed-probability substitution: it
// cooperates with probability X, defects with probability Y, and otherwise
// defers to the base player. X+Y must not exceed 1 for the two draws to be
// interpretable as disjoint probabilities.
type JossAnn struct {
	Base game.Player
	X    float64
	Y    float64
}

// NewJossAnn validates the distortion parameters and wraps base.
func NewJossAnn(base game.Player, x, y float64) (JossAnn, error) {
	if x < 0 || x > 1 || y < 0 || y > 1 || x+y > 1 {
		return JossAnn{}, fmt.Errorf("%w: x=%v y=%v", ErrInvalidProbability, x, y)
	}
	return JossAnn{Base: base, X: x, Y: y}, nil
}

func (j JossAnn) Name() string {
	return fmt.Sprintf("joss-ann(%s, %g, %g)", j.Base.Name(), j.X, j.Y)
}

func (j JossAnn) Play(rng *rand.Rand, own, opp []game.Move) game.Move {
	r := rng.Float64()
	switch {
	case r < j.X:
		return game.Cooperate
	case r < j.X+j.Y:
		return game.Defect
	default:
		return j.Base.Play(rng, own, opp)
	}
}
