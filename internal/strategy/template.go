package strategy

import (
	"errors"

	"ashlock/internal/game"
)

var ErrEmptyTemplate = errors.New("strategy template requires a player or factory")

// Factory constructs a fresh player instance.
type Factory func() game.Player

// Template is the canonical form of a probe or subject input: a
// name plus a factory that reproduces the same player on every call. Both
// "give me a strategy by constructor" and "use this exact instance" inputs
// normalize to it, so downstream code never branches on which was supplied.
type Template struct {
	Name string
	New  Factory
}

// Normalize produces a Template from either variant. Players are pure
// values (all state lives in the match history), so an instance variant can
// hand out the supplied player directly.
func Normalize(factory Factory, instance game.Player) (Template, error) {
	switch {
	case instance != nil:
		p := instance
		return Template{Name: p.Name(), New: func() game.Player { return p }}, nil
	case factory != nil:
		return Template{Name: factory().Name(), New: factory}, nil
	default:
		return Template{}, ErrEmptyTemplate
	}
}

// FromPlayer normalizes a pre-built instance.
func FromPlayer(p game.Player) (Template, error) {
	return Normalize(nil, p)
}

// FromFactory normalizes a constructor.
func FromFactory(f Factory) (Template, error) {
	return Normalize(f, nil)
}
