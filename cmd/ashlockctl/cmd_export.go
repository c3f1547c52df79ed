package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ashlock/pkg/ashlock"
)

var exportFlags struct {
	runID  string
	latest bool
	outDir string
	srcDir string
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Copy a run's artifacts to an export directory",
	RunE:  runExport,
}

func init() {
	f := exportCmd.Flags()
	f.StringVar(&exportFlags.runID, "run-id", "", "Run to export")
	f.BoolVar(&exportFlags.latest, "latest", false, "Export the most recent run")
	f.StringVar(&exportFlags.outDir, "out", "", "Export directory (default exports/)")
	f.StringVar(&exportFlags.srcDir, "from", "fingerprints", "Artifacts base directory")
}

func runExport(cmd *cobra.Command, _ []string) error {
	client, err := ashlock.New(ashlock.Options{FingerprintsDir: exportFlags.srcDir})
	if err != nil {
		return err
	}

	summary, err := client.Export(cmd.Context(), ashlock.ExportRequest{
		RunID:  exportFlags.runID,
		Latest: exportFlags.latest,
		OutDir: exportFlags.outDir,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "exported %s to %s\n", summary.RunID, summary.Directory)
	return nil
}
