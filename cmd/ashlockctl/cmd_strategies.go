package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ashlock/pkg/ashlock"
)

var strategiesCmd = &cobra.Command{
	Use:   "strategies",
	Short: "List available strategy names",
	RunE:  runStrategies,
}

func runStrategies(cmd *cobra.Command, _ []string) error {
	client, err := ashlock.New(ashlock.Options{})
	if err != nil {
		return err
	}
	for _, name := range client.Strategies() {
		fmt.Fprintln(cmd.OutOrStdout(), name)
	}
	return nil
}
