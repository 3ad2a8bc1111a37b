package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cloud-shuttle/muster/internal/history"
	"github.com/cloud-shuttle/muster/internal/transition"
	"github.com/spf13/cobra"
)

// defaultAgentDoc is installed by init and customized by each transition from
// the detected tech stack.
const defaultAgentDoc = `# Agent Guide

Commands for working in this project. Keep these current.

## Project Setup

` + "```bash" + `
echo "setup command not configured"
` + "```" + `

## Running Tests

` + "```bash" + `
echo "test command not configured"
` + "```" + `

## Build Commands

` + "```bash" + `
echo "build command not configured"
` + "```" + `

## Development Server

` + "```bash" + `
echo "dev command not configured"
` + "```" + `
`

func initCmd() *cobra.Command {
	var projectName string

	command := &cobra.Command{
		Use:   "init",
		Short: "Initialize Muster in the current project",
		RunE: func(cmd *cobra.Command, args []string) error {
			musterDir := filepath.Dir(cfg.Resolve(cfg.ProjectConfigFile))
			configPath := cfg.Resolve(cfg.ProjectConfigFile)
			if _, err := os.Stat(configPath); err == nil {
				return fmt.Errorf("already initialized (%s exists)", configPath)
			}

			if err := os.MkdirAll(musterDir, 0755); err != nil {
				return fmt.Errorf("creating .muster directory: %w", err)
			}

			if projectName == "" {
				projectName = filepath.Base(cfg.ProjectDir)
			}
			data, err := json.MarshalIndent(map[string]string{"project": projectName}, "", "  ")
			if err != nil {
				return err
			}
			if err := os.WriteFile(configPath, data, 0644); err != nil {
				return fmt.Errorf("writing project config: %w", err)
			}

			agentPath := cfg.Resolve(cfg.AgentFile)
			if _, err := os.Stat(agentPath); os.IsNotExist(err) {
				if err := os.WriteFile(agentPath, []byte(defaultAgentDoc), 0644); err != nil {
					return fmt.Errorf("writing agent doc: %w", err)
				}
			}

			store, err := history.Open(cfg.Resolve(cfg.HistoryPath))
			if err != nil {
				return fmt.Errorf("creating history database: %w", err)
			}
			defer store.Close()
			if err := store.InitSchema(); err != nil {
				return fmt.Errorf("initializing history schema: %w", err)
			}

			fmt.Printf("🐂 Initialized Muster for %q in %s\n", projectName, musterDir)
			fmt.Println("\nNext steps:")
			fmt.Println("  put planning documents in planning-artifacts/")
			fmt.Println("  muster transition")

			return nil
		},
	}

	command.Flags().StringVarP(&projectName, "project", "p", "", "Project name (default: directory name)")
	return command
}

func transitionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "transition",
		Short: "Convert planning artifacts into execution loop inputs",
		Long: `Run one transition: parse epics and stories from the planning
artifacts, regenerate fix_plan.md with completion state merged forward,
mirror the artifacts into specs/ with a changelog and index, and render
PROMPT.md and AGENT.md.

Fatal conditions (no artifacts directory, no epics/stories file, zero
parsed stories) abort without writing. Anything recoverable is reported
as a warning and the run continues.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			store := openHistory()
			if store != nil {
				defer store.Close()
			}

			runner := transition.NewRunner(cfg, store)
			result, err := runner.Run(context.Background())
			if err != nil {
				return err
			}

			fmt.Printf("\n✅ Transition complete\n")
			fmt.Printf("   Stories:  %d\n", result.StoriesCount)
			if result.FixPlanPreserved {
				fmt.Printf("   Fix plan: regenerated, completion state preserved\n")
			} else {
				fmt.Printf("   Fix plan: created\n")
			}
			if len(result.Warnings) > 0 {
				fmt.Printf("\n⚠️  %d warning(s):\n", len(result.Warnings))
				for _, w := range result.Warnings {
					fmt.Printf("   - %s\n", w)
				}
			}
			return nil
		},
	}
}

func statusCmd() *cobra.Command {
	var limit int

	command := &cobra.Command{
		Use:   "status",
		Short: "Show recent transition history",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := history.Open(cfg.Resolve(cfg.HistoryPath))
			if err != nil {
				return fmt.Errorf("opening history database: %w", err)
			}
			defer store.Close()
			if err := store.InitSchema(); err != nil {
				return fmt.Errorf("initializing history schema: %w", err)
			}

			runs, err := store.Runs(limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Println("No transitions recorded yet. Run: muster transition")
				return nil
			}

			fmt.Println("\n🐂 Muster Transitions")
			fmt.Println("═════════════════════")
			for _, run := range runs {
				fmt.Printf("\n%s  (%s)\n", run.StartedAt.Format("2006-01-02 15:04:05"), run.Duration)
				fmt.Printf("  Stories:  %d\n", run.Stories)
				fmt.Printf("  Specs:    +%d ~%d -%d\n", run.SpecsAdded, run.SpecsModified, run.SpecsRemoved)
				if run.FixPlanPreserved {
					fmt.Printf("  Fix plan: merged\n")
				}
				if len(run.Warnings) > 0 {
					fmt.Printf("  Warnings: %d\n", len(run.Warnings))
				}
			}
			return nil
		},
	}

	command.Flags().IntVarP(&limit, "limit", "n", 10, "Number of transitions to show")
	return command
}

// openHistory opens the history store best-effort. Transitions proceed
// without recording when the database is unavailable.
func openHistory() *history.Store {
	path := cfg.Resolve(cfg.HistoryPath)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		fmt.Fprintf(os.Stderr, "⚠️  Transition history disabled: %v\n", err)
		return nil
	}
	store, err := history.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "⚠️  Transition history disabled: %v\n", err)
		return nil
	}
	if err := store.InitSchema(); err != nil {
		fmt.Fprintf(os.Stderr, "⚠️  Transition history disabled: %v\n", err)
		store.Close()
		return nil
	}
	return store
}
