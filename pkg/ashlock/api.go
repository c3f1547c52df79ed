// Package ashlock is the public client API for computing Ashlock
// fingerprints: heat-map landscapes of a strategy's performance against a
// continuum of distorted probe opponents.
package ashlock

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"ashlock/internal/fingerprint"
	"ashlock/internal/sink"
	"ashlock/internal/stats"
	"ashlock/internal/strategy"
)

const (
	defaultFingerprintsDir = "fingerprints"
	defaultExportsDir      = "exports"
)

type Options struct {
	FingerprintsDir string
	ExportsDir      string
	SinkDir         string // where durable sink files go; "" means os.TempDir
}

type Client struct {
	fingerprintsDir string
	exportsDir      string
	sinkDir         string
}

type RunRequest struct {
	Strategy    string  // subject name, resolved via the registry
	Probe       string  // probe template name; default titfortat
	Step        float64 // default 0.01
	Turns       int     // default 50
	Repetitions int     // default 10
	Workers     int     // default all CPUs
	Seed        int64
	InMemory    bool // force in-memory transport
	Progress    func(stage string, done, total int)
}

type RunSummary struct {
	RunID        string
	ArtifactsDir string
	Matrix       [][]float64
	MinScore     float64
	MaxScore     float64
	Side         int
	Transport    string
}

type RunsRequest struct {
	Limit int
}

type RunItem struct {
	RunID        string
	Subject      string
	Probe        string
	Step         float64
	Turns        int
	Repetitions  int
	MinScore     float64
	MaxScore     float64
	CreatedAtUTC string
}

type ExportRequest struct {
	RunID  string
	Latest bool
	OutDir string
}

type ExportSummary struct {
	RunID     string
	Directory string
}

func New(opts Options) (*Client, error) {
	fingerprintsDir := opts.FingerprintsDir
	if fingerprintsDir == "" {
		fingerprintsDir = defaultFingerprintsDir
	}
	exportsDir := opts.ExportsDir
	if exportsDir == "" {
		exportsDir = defaultExportsDir
	}
	sinkDir := opts.SinkDir
	if sinkDir == "" {
		sinkDir = os.TempDir()
	}

	return &Client{
		fingerprintsDir: fingerprintsDir,
		exportsDir:      exportsDir,
		sinkDir:         sinkDir,
	}, nil
}

// Strategies lists the registered strategy names.
func (c *Client) Strategies() []string {
	return strategy.Names()
}

// Run computes one fingerprint and writes its artifacts. Transport is
// durable (a sqlite sink file) when the environment can host one and the
// request does not force in-memory mode.
func (c *Client) Run(ctx context.Context, req RunRequest) (RunSummary, error) {
	if req.Strategy == "" {
		return RunSummary{}, errors.New("strategy name is required")
	}
	if req.Probe == "" {
		req.Probe = "titfortat"
	}
	if req.Step == 0 {
		req.Step = fingerprint.DefaultStep
	}
	if req.Turns == 0 {
		req.Turns = 50
	}
	if req.Repetitions == 0 {
		req.Repetitions = 10
	}
	if req.Turns < 0 || req.Repetitions < 0 {
		return RunSummary{}, errors.New("turns and repetitions must be positive")
	}

	subjectTmpl, err := strategy.Lookup(req.Strategy)
	if err != nil {
		return RunSummary{}, err
	}
	probeTmpl, err := strategy.Lookup(req.Probe)
	if err != nil {
		return RunSummary{}, err
	}

	fp, err := fingerprint.New(fingerprint.Config{
		Subject:  subjectTmpl.New(),
		Probe:    probeTmpl,
		Step:     req.Step,
		Progress: req.Progress,
	})
	if err != nil {
		return RunSummary{}, err
	}

	runID := fmt.Sprintf("%s-vs-%s-%s", req.Strategy, req.Probe, uuid.NewString()[:8])

	transport := "memory"
	var runSink sink.Sink
	if !req.InMemory && sink.DurableAvailable(c.sinkDir) {
		transport = "sqlite"
		runSink = sink.NewSQLiteSink(filepath.Join(c.sinkDir, runID+".db"))
	}

	if _, err := fp.Run(ctx, fingerprint.RunConfig{
		Turns:       req.Turns,
		Repetitions: req.Repetitions,
		Workers:     req.Workers,
		Seed:        req.Seed,
		Sink:        runSink,
	}); err != nil {
		return RunSummary{}, err
	}
	surface, err := fp.Surface()
	if err != nil {
		return RunSummary{}, err
	}

	now := time.Now().UTC()
	runDir, err := stats.WriteRunArtifacts(c.fingerprintsDir, stats.RunArtifacts{
		Config: stats.RunConfig{
			RunID:        runID,
			Subject:      req.Strategy,
			Probe:        req.Probe,
			Step:         req.Step,
			Turns:        req.Turns,
			Repetitions:  req.Repetitions,
			Workers:      req.Workers,
			Seed:         req.Seed,
			Transport:    transport,
			CreatedAtUTC: now.Format(time.RFC3339Nano),
		},
		Matrix:   surface.Matrix,
		MinScore: surface.MinScore,
		MaxScore: surface.MaxScore,
	})
	if err != nil {
		return RunSummary{}, err
	}

	if err := stats.AppendRunIndex(c.fingerprintsDir, stats.RunIndexEntry{
		RunID:        runID,
		Subject:      req.Strategy,
		Probe:        req.Probe,
		Step:         req.Step,
		Turns:        req.Turns,
		Repetitions:  req.Repetitions,
		MinScore:     surface.MinScore,
		MaxScore:     surface.MaxScore,
		CreatedAtUTC: now.Format(time.RFC3339Nano),
	}); err != nil {
		return RunSummary{}, err
	}

	return RunSummary{
		RunID:        runID,
		ArtifactsDir: filepath.Clean(runDir),
		Matrix:       surface.Matrix,
		MinScore:     surface.MinScore,
		MaxScore:     surface.MaxScore,
		Side:         surface.Side,
		Transport:    transport,
	}, nil
}

func (c *Client) Runs(_ context.Context, req RunsRequest) ([]RunItem, error) {
	if req.Limit <= 0 {
		req.Limit = 20
	}

	entries, err := stats.ListRunIndex(c.fingerprintsDir)
	if err != nil {
		return nil, err
	}
	if len(entries) > req.Limit {
		entries = entries[:req.Limit]
	}

	out := make([]RunItem, 0, len(entries))
	for _, e := range entries {
		out = append(out, RunItem{
			RunID:        e.RunID,
			Subject:      e.Subject,
			Probe:        e.Probe,
			Step:         e.Step,
			Turns:        e.Turns,
			Repetitions:  e.Repetitions,
			MinScore:     e.MinScore,
			MaxScore:     e.MaxScore,
			CreatedAtUTC: e.CreatedAtUTC,
		})
	}
	return out, nil
}

func (c *Client) Export(_ context.Context, req ExportRequest) (ExportSummary, error) {
	if req.RunID != "" && req.Latest {
		return ExportSummary{}, errors.New("use either run id or latest")
	}
	if req.RunID == "" && !req.Latest {
		return ExportSummary{}, errors.New("export requires run id or latest")
	}
	if req.OutDir == "" {
		req.OutDir = c.exportsDir
	}

	runID := req.RunID
	if req.Latest {
		entries, err := stats.ListRunIndex(c.fingerprintsDir)
		if err != nil {
			return ExportSummary{}, err
		}
		if len(entries) == 0 {
			return ExportSummary{}, errors.New("no runs available to export")
		}
		runID = entries[0].RunID
	}

	exportedDir, err := stats.ExportRunArtifacts(c.fingerprintsDir, runID, req.OutDir)
	if err != nil {
		return ExportSummary{}, err
	}
	return ExportSummary{RunID: runID, Directory: filepath.Clean(exportedDir)}, nil
}
