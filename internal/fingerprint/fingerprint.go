// Package fingerprint orchestrates the Ashlock fingerprint: a subject
// strategy is matched against a battery of distorted probe variants, one
// per point of a grid over the unit square, and the per-point mean scores
// form a landscape of the subject's performance.
package fingerprint

import (
	"context"
	"errors"
	"fmt"

	"ashlock/internal/game"
	"ashlock/internal/grid"
	"ashlock/internal/probe"
	"ashlock/internal/sink"
	"ashlock/internal/strategy"
	"ashlock/internal/tournament"
)

const DefaultStep = 0.01

var ErrNoData = errors.New("no fingerprint data; run first")

// Config seeds a Fingerprinter.
type Config struct {
	Subject game.Player
	Probe   strategy.Template
	Step    float64 // 0 means DefaultStep

	// Progress, if non-nil, receives battery construction ("probes") and
	// tournament ("playing") progress. Calls are serialized across all
	// stages, so the callback may keep unsynchronized state.
	Progress func(stage string, done, total int)
}

// RunConfig controls one fingerprint run.
type RunConfig struct {
	Turns       int // 0 means 50
	Repetitions int // 0 means 10
	Workers     int // 0 means all CPUs
	Seed        int64
	Sink        sink.Sink // nil forces in-memory transport
}

// Fingerprinter owns the grid, battery, and data for one subject/probe
// pair. Changing the step or the probe template marks everything downstream
// stale; reads rebuild stale layers bottom-up, so no stale entries from a
// prior configuration ever leak into results. Not safe for concurrent use.
type Fingerprinter struct {
	subject  game.Player
	tmpl     strategy.Template
	step     float64
	progress func(stage string, done, total int)

	points  []grid.Point
	battery []probe.Probe
	data    ScoreMap

	gridStale    bool
	batteryStale bool
	dataStale    bool
}

// New validates the configuration and returns a Fingerprinter with all
// layers initially stale.
func New(cfg Config) (*Fingerprinter, error) {
	if cfg.Subject == nil {
		return nil, errors.New("fingerprint subject is required")
	}
	if cfg.Probe.New == nil {
		return nil, errors.New("fingerprint probe template is required")
	}
	step := cfg.Step
	if step == 0 {
		step = DefaultStep
	}
	if step <= 0 || step > 1 {
		return nil, fmt.Errorf("%w: %v", grid.ErrInvalidStep, step)
	}

	return &Fingerprinter{
		subject:      cfg.Subject,
		tmpl:         cfg.Probe,
		step:         step,
		progress:     cfg.Progress,
		gridStale:    true,
		batteryStale: true,
		dataStale:    true,
	}, nil
}

func (f *Fingerprinter) Step() float64 {
	return f.step
}

// SetStep changes the grid resolution and invalidates the grid, the
// battery, and any computed data.
func (f *Fingerprinter) SetStep(step float64) error {
	if step <= 0 || step > 1 {
		return fmt.Errorf("%w: %v", grid.ErrInvalidStep, step)
	}
	f.step = step
	f.gridStale = true
	f.batteryStale = true
	f.dataStale = true
	return nil
}

// SetProbe swaps the probe template and invalidates the battery and any
// computed data. The grid does not depend on the template and survives.
func (f *Fingerprinter) SetProbe(tmpl strategy.Template) error {
	if tmpl.New == nil {
		return errors.New("fingerprint probe template is required")
	}
	f.tmpl = tmpl
	f.batteryStale = true
	f.dataStale = true
	return nil
}

// Points returns the grid, rebuilding it if stale.
func (f *Fingerprinter) Points() ([]grid.Point, error) {
	if err := f.ensureGrid(); err != nil {
		return nil, err
	}
	return f.points, nil
}

// Battery returns the probe list, rebuilding grid and battery if stale.
func (f *Fingerprinter) Battery() ([]probe.Probe, error) {
	if err := f.ensureBattery(); err != nil {
		return nil, err
	}
	return f.battery, nil
}

// Data returns the score map from the most recent run. It errors rather
// than serving data computed under a previous configuration.
func (f *Fingerprinter) Data() (ScoreMap, error) {
	if f.dataStale || f.data == nil {
		return nil, ErrNoData
	}
	return f.data, nil
}

// Run executes the full pipeline: battery, tournament batch, aggregation.
// A failed or cancelled run leaves no data behind.
func (f *Fingerprinter) Run(ctx context.Context, cfg RunConfig) (ScoreMap, error) {
	if cfg.Turns == 0 {
		cfg.Turns = 50
	}
	if cfg.Repetitions == 0 {
		cfg.Repetitions = 10
	}

	if err := f.ensureBattery(); err != nil {
		return nil, err
	}

	var progress func(done, total int)
	if f.progress != nil {
		progress = func(done, total int) { f.progress("playing", done, total) }
	}
	outcomes, err := tournament.Run(ctx, f.subject, f.battery, tournament.Config{
		Turns:       cfg.Turns,
		Repetitions: cfg.Repetitions,
		Workers:     cfg.Workers,
		Seed:        cfg.Seed,
		Sink:        cfg.Sink,
		Progress:    progress,
	})
	if err != nil {
		return nil, err
	}

	data, err := Aggregate(f.points, tournament.Edges(len(f.battery)), outcomes, cfg.Repetitions)
	if err != nil {
		return nil, err
	}

	f.data = data
	f.dataStale = false
	return data, nil
}

// Surface builds the renderable matrix plus score bounds from the most
// recent run.
func (f *Fingerprinter) Surface() (Surface, error) {
	data, err := f.Data()
	if err != nil {
		return Surface{}, err
	}
	return BuildSurface(data, f.points, f.step)
}

func (f *Fingerprinter) ensureGrid() error {
	if !f.gridStale {
		return nil
	}
	points, err := grid.Build(f.step)
	if err != nil {
		return err
	}
	f.points = points
	f.gridStale = false
	f.batteryStale = true
	return nil
}

func (f *Fingerprinter) ensureBattery() error {
	if err := f.ensureGrid(); err != nil {
		return err
	}
	if !f.batteryStale {
		return nil
	}

	var observe func(done, total int)
	if f.progress != nil {
		observe = func(done, total int) { f.progress("probes", done, total) }
	}
	battery, err := probe.BuildBattery(f.tmpl, f.points, observe)
	if err != nil {
		return err
	}
	f.battery = battery
	f.batteryStale = false
	f.dataStale = true
	return nil
}
