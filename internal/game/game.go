package game

import (
	"errors"
	"math/rand"
)

// Move is a single prisoner's dilemma action.
type Move byte

const (
	Cooperate Move = 'C'
	Defect    Move = 'D'
)

// Flip returns the opposite move.
func (m Move) Flip() Move {
	if m == Cooperate {
		return Defect
	}
	return Cooperate
}

func (m Move) String() string {
	return string(rune(m))
}

// Player decides a move from the joint history of a match. own and opp are
// aligned turn by turn; both are empty on the first turn. Implementations
// must be pure functions of (rng, own, opp) so a single value can serve
// concurrent matches, with all randomness drawn from the supplied rng.
type Player interface {
	Name() string
	Play(rng *rand.Rand, own, opp []Move) Move
}

// Payoff is the row player's payoff matrix for one turn.
type Payoff struct {
	R float64 // both cooperate
	S float64 // cooperate against defect
	T float64 // defect against cooperate
	P float64 // both defect
}

// StandardPayoff is the conventional (R, S, T, P) = (3, 0, 5, 1) game.
func StandardPayoff() Payoff {
	return Payoff{R: 3, S: 0, T: 5, P: 1}
}

func (p Payoff) score(mine, theirs Move) float64 {
	switch {
	case mine == Cooperate && theirs == Cooperate:
		return p.R
	case mine == Cooperate:
		return p.S
	case theirs == Cooperate:
		return p.T
	default:
		return p.P
	}
}

// Result holds the outcome of one match from the first player's side.
type Result struct {
	Turns         int
	FirstScore    float64
	SecondScore   float64
	FirstPerTurn  float64
	SecondPerTurn float64
	FirstMoves    []Move
	SecondMoves   []Move
}

var ErrInvalidTurns = errors.New("match turns must be positive")

// PlayMatch plays turns turns between first and second and reports final
// scores, both raw and normalized per turn. The seed fixes every random
// decision in the match, so identical inputs replay identically.
func PlayMatch(first, second Player, turns int, payoff Payoff, seed int64) (Result, error) {
	if turns <= 0 {
		return Result{}, ErrInvalidTurns
	}

	rng := rand.New(rand.NewSource(seed))
	firstMoves := make([]Move, 0, turns)
	secondMoves := make([]Move, 0, turns)

	res := Result{Turns: turns}
	for t := 0; t < turns; t++ {
		a := first.Play(rng, firstMoves, secondMoves)
		b := second.Play(rng, secondMoves, firstMoves)
		firstMoves = append(firstMoves, a)
		secondMoves = append(secondMoves, b)
		res.FirstScore += payoff.score(a, b)
		res.SecondScore += payoff.score(b, a)
	}

	res.FirstPerTurn = res.FirstScore / float64(turns)
	res.SecondPerTurn = res.SecondScore / float64(turns)
	res.FirstMoves = firstMoves
	res.SecondMoves = secondMoves
	return res, nil
}
