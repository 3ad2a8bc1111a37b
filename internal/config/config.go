// Package config handles Muster configuration
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultProjectName is used when no project config can be read.
const DefaultProjectName = "project"

// Config holds Muster configuration. Paths are relative to ProjectDir unless
// absolute.
type Config struct {
	// Project directory (detected)
	ProjectDir string

	// Destination files for the execution loop
	FixPlanFile string
	PromptFile  string
	AgentFile   string
	SpecsDir    string

	// Installed project config providing the project name
	ProjectConfigFile string

	// Transition history database
	HistoryPath string

	// Verbose mode for debugging
	Verbose bool
}

// Load loads configuration from environment and defaults
func Load() (*Config, error) {
	dir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("detecting project directory: %w", err)
	}

	cfg := &Config{
		ProjectDir:        dir,
		FixPlanFile:       "fix_plan.md",
		PromptFile:        "PROMPT.md",
		AgentFile:         "AGENT.md",
		SpecsDir:          "specs",
		ProjectConfigFile: filepath.Join(".muster", "config.json"),
		HistoryPath:       filepath.Join(".muster", "history.db"),
	}

	// Environment overrides
	if v := os.Getenv("MUSTER_PROJECT_DIR"); v != "" {
		cfg.ProjectDir = v
	}
	if v := os.Getenv("MUSTER_HISTORY_PATH"); v != "" {
		cfg.HistoryPath = v
	}
	if v := os.Getenv("MUSTER_VERBOSE"); v == "true" || v == "1" {
		cfg.Verbose = true
	}

	return cfg, nil
}

// Resolve joins a configured path with the project directory.
func (c *Config) Resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.ProjectDir, path)
}

// projectConfig is the on-disk schema of the installed project config. Only
// the project name matters here; other keys belong to the execution loop.
type projectConfig struct {
	Project string `json:"project"`
}

// ReadProjectName reads the project name from the installed config file.
// Callers treat failures as recoverable and fall back to DefaultProjectName.
func ReadProjectName(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading project config: %w", err)
	}

	var pc projectConfig
	if err := json.Unmarshal(data, &pc); err != nil {
		return "", fmt.Errorf("parsing project config: %w", err)
	}
	if pc.Project == "" {
		return "", fmt.Errorf("project config %s has no project name", path)
	}
	return pc.Project, nil
}
