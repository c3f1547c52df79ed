package strategy

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"ashlock/internal/game"
)

var (
	ErrStrategyExists   = errors.New("strategy already registered")
	ErrStrategyNotFound = errors.New("strategy not found")
)

var defaultRegistry = NewRegistry()

// Registry maps strategy names to factories for lookup by CLI and API.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

func (r *Registry) Register(name string, factory Factory) error {
	if name == "" {
		return errors.New("strategy name is required")
	}
	if factory == nil {
		return errors.New("strategy factory is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("%w: %s", ErrStrategyExists, name)
	}
	r.factories[name] = factory
	return nil
}

func (r *Registry) Lookup(name string) (Template, error) {
	r.mu.RLock()
	factory, ok := r.factories[name]
	r.mu.RUnlock()
	if !ok {
		return Template{}, fmt.Errorf("%w: %s", ErrStrategyNotFound, name)
	}
	return Template{Name: name, New: factory}, nil
}

func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup resolves a name against the default registry.
func Lookup(name string) (Template, error) {
	return defaultRegistry.Lookup(name)
}

// Names lists the default registry in sorted order.
func Names() []string {
	return defaultRegistry.Names()
}

func init() {
	for name, factory := range map[string]Factory{
		"cooperator":       func() game.Player { return Cooperator{} },
		"defector":         func() game.Player { return Defector{} },
		"titfortat":        func() game.Player { return TitForTat{} },
		"grudger":          func() game.Player { return Grudger{} },
		"winstayloseshift": func() game.Player { return WinStayLoseShift{} },
		"random":           func() game.Player { return Random{Bias: 0.5} },
	} {
		if err := defaultRegistry.Register(name, factory); err != nil {
			panic(err)
		}
	}
}
