package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ashlock/pkg/ashlock"
)

var runFlags struct {
	strategy    string
	probe       string
	step        float64
	turns       int
	repetitions int
	workers     int
	seed        int64
	inMemory    bool
	configPath  string
	quiet       bool
	outDir      string
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Compute a fingerprint for a subject strategy",
	RunE:  runRun,
}

func init() {
	f := runCmd.Flags()
	f.StringVar(&runFlags.strategy, "strategy", "", "Subject strategy name (see 'strategies')")
	f.StringVar(&runFlags.probe, "probe", "titfortat", "Probe template strategy name")
	f.Float64Var(&runFlags.step, "step", 0.01, "Grid step over the unit square")
	f.IntVar(&runFlags.turns, "turns", 50, "Turns per match")
	f.IntVar(&runFlags.repetitions, "repetitions", 10, "Repetitions per pairing")
	f.IntVar(&runFlags.workers, "workers", 0, "Concurrent matches (0 = all CPUs)")
	f.Int64Var(&runFlags.seed, "seed", 0, "Base seed for reproducible runs")
	f.BoolVar(&runFlags.inMemory, "in-memory", false, "Force in-memory result transport")
	f.StringVar(&runFlags.configPath, "config", "", "YAML run description (flags override)")
	f.BoolVar(&runFlags.quiet, "quiet", false, "Suppress progress output")
	f.StringVar(&runFlags.outDir, "out", "fingerprints", "Artifacts base directory")
}

func runRun(cmd *cobra.Command, _ []string) error {
	req := ashlock.RunRequest{
		Strategy:    runFlags.strategy,
		Probe:       runFlags.probe,
		Step:        runFlags.step,
		Turns:       runFlags.turns,
		Repetitions: runFlags.repetitions,
		Workers:     runFlags.workers,
		Seed:        runFlags.seed,
		InMemory:    runFlags.inMemory,
	}

	if runFlags.configPath != "" {
		rf, err := loadRunFile(runFlags.configPath)
		if err != nil {
			return err
		}
		applyRunFile(cmd, &req, rf)
	}

	if !runFlags.quiet {
		errOut := cmd.ErrOrStderr()
		var lastStage string
		req.Progress = func(stage string, done, total int) {
			if stage != lastStage {
				if lastStage != "" {
					fmt.Fprintln(errOut)
				}
				lastStage = stage
			}
			fmt.Fprintf(errOut, "\r%s: %d/%d", stage, done, total)
			if done == total {
				fmt.Fprintln(errOut)
				lastStage = ""
			}
		}
	}

	client, err := ashlock.New(ashlock.Options{FingerprintsDir: runFlags.outDir})
	if err != nil {
		return err
	}

	summary, err := client.Run(cmd.Context(), req)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "run:       %s\n", summary.RunID)
	fmt.Fprintf(out, "side:      %d\n", summary.Side)
	fmt.Fprintf(out, "scores:    [%g, %g]\n", summary.MinScore, summary.MaxScore)
	fmt.Fprintf(out, "transport: %s\n", summary.Transport)
	fmt.Fprintf(out, "artifacts: %s\n", summary.ArtifactsDir)
	return nil
}

// applyRunFile fills request fields from the YAML file for every flag the
// user did not set explicitly.
func applyRunFile(cmd *cobra.Command, req *ashlock.RunRequest, rf RunFile) {
	f := cmd.Flags()
	if !f.Changed("strategy") && rf.Strategy != "" {
		req.Strategy = rf.Strategy
	}
	if !f.Changed("probe") && rf.Probe != "" {
		req.Probe = rf.Probe
	}
	if !f.Changed("step") && rf.Step != 0 {
		req.Step = rf.Step
	}
	if !f.Changed("turns") && rf.Turns != 0 {
		req.Turns = rf.Turns
	}
	if !f.Changed("repetitions") && rf.Repetitions != 0 {
		req.Repetitions = rf.Repetitions
	}
	if !f.Changed("workers") && rf.Workers != 0 {
		req.Workers = rf.Workers
	}
	if !f.Changed("seed") && rf.Seed != 0 {
		req.Seed = rf.Seed
	}
	if !f.Changed("in-memory") && rf.InMemory {
		req.InMemory = true
	}
}
