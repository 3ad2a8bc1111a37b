// Package main provides the entry point for the muster binary
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/cloud-shuttle/muster/internal/config"
	"github.com/cloud-shuttle/muster/pkg/telemetry"
	"github.com/spf13/cobra"
)

var cfg *config.Config

func main() {
	var err error
	cfg, err = config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	shutdown, err := telemetry.Init(ctx, telemetry.DefaultConfig())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: telemetry disabled: %v\n", err)
		shutdown = func(context.Context) error { return nil }
	}
	defer shutdown(ctx)

	rootCmd := &cobra.Command{
		Use:   "muster",
		Short: "Turn planning artifacts into execution loop inputs",
		Long: `Muster converts the documents a planning workflow produces (epics and
stories, briefs, architecture notes) into the files an autonomous
execution loop consumes: a fix_plan.md checklist, a specs/ mirror with
changelog and index, and operational instructions in PROMPT.md and
AGENT.md.

Re-running a transition is safe: completed checklist items are carried
forward and unchanged specs produce no changelog entries.`,
		Version: "0.1.0",
	}

	rootCmd.PersistentFlags().BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "Enable verbose logging")

	rootCmd.AddCommand(initCmd())
	rootCmd.AddCommand(transitionCmd())
	rootCmd.AddCommand(statusCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
