package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"ashlock/pkg/ashlock"
)

var runsFlags struct {
	limit  int
	outDir string
}

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recorded fingerprint runs, newest first",
	RunE:  runRuns,
}

func init() {
	f := runsCmd.Flags()
	f.IntVar(&runsFlags.limit, "limit", 20, "Maximum entries to show")
	f.StringVar(&runsFlags.outDir, "out", "fingerprints", "Artifacts base directory")
}

func runRuns(cmd *cobra.Command, _ []string) error {
	client, err := ashlock.New(ashlock.Options{FingerprintsDir: runsFlags.outDir})
	if err != nil {
		return err
	}

	items, err := client.Runs(cmd.Context(), ashlock.RunsRequest{Limit: runsFlags.limit})
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no runs recorded")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "RUN\tSUBJECT\tPROBE\tSTEP\tTURNS\tREPS\tMIN\tMAX\tCREATED")
	for _, item := range items {
		fmt.Fprintf(w, "%s\t%s\t%s\t%g\t%d\t%d\t%.3f\t%.3f\t%s\n",
			item.RunID, item.Subject, item.Probe, item.Step,
			item.Turns, item.Repetitions, item.MinScore, item.MaxScore, item.CreatedAtUTC)
	}
	return w.Flush()
}
