package strategy

import (
	"math/rand"

	"ashlock/internal/game"
)

// Cooperator always cooperates.
type Cooperator struct{}

func (Cooperator) Name() string { return "cooperator" }

func (Cooperator) Play(_ *rand.Rand, _, _ []game.Move) game.Move {
	return game.Cooperate
}

// Defector always defects.
type Defector struct{}

func (Defector) Name() string { return "defector" }

func (Defector) Play(_ *rand.Rand, _, _ []game.Move) game.Move {
	return game.Defect
}

// TitForTat cooperates first, then repeats the opponent's last move.
type TitForTat struct{}

func (TitForTat) Name() string { return "titfortat" }

func (TitForTat) Play(_ *rand.Rand, _, opp []game.Move) game.Move {
	if len(opp) == 0 {
		return game.Cooperate
	}
	return opp[len(opp)-1]
}

// Grudger cooperates until the opponent defects once, then defects forever.
type Grudger struct{}

func (Grudger) Name() string { return "grudger" }

func (Grudger) Play(_ *rand.Rand, _, opp []game.Move) game.Move {
	for _, m := range opp {
		if m == game.Defect {
			return game.Defect
		}
	}
	return game.Cooperate
}

// WinStayLoseShift cooperates first, keeps its move after a good outcome
// (opponent cooperated) and switches after a bad one.
type WinStayLoseShift struct{}

func (WinStayLoseShift) Name() string { return "winstayloseshift" }

func (WinStayLoseShift) Play(_ *rand.Rand, own, opp []game.Move) game.Move {
	if len(own) == 0 {
		return game.Cooperate
	}
	last := own[len(own)-1]
	if opp[len(opp)-1] == game.Cooperate {
		return last
	}
	return last.Flip()
}

// Random cooperates with probability Bias.
type Random struct {
	Bias float64
}

func (Random) Name() string { return "random" }

func (r Random) Play(rng *rand.Rand, _, _ []game.Move) game.Move {
	if rng.Float64() < r.Bias {
		return game.Cooperate
	}
	return game.Defect
}
