// Package transition orchestrates the conversion of planning artifacts into execution loop inputs
package transition

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cloud-shuttle/muster/internal/config"
	"github.com/cloud-shuttle/muster/internal/fixplan"
	"github.com/cloud-shuttle/muster/internal/history"
	"github.com/cloud-shuttle/muster/internal/markdown"
	"github.com/cloud-shuttle/muster/internal/prompt"
	"github.com/cloud-shuttle/muster/internal/specs"
	"github.com/cloud-shuttle/muster/internal/story"
	"github.com/cloud-shuttle/muster/internal/techstack"
	"github.com/cloud-shuttle/muster/pkg/telemetry"
)

// Result is the output contract of one transition run. It is returned to the
// invoking command, not persisted.
type Result struct {
	StoriesCount     int
	Warnings         []string
	FixPlanPreserved bool
}

// artifactsDirCandidates is the ordered list of relative directories searched
// for planning artifacts. The first existing directory wins.
var artifactsDirCandidates = []string{
	"planning-artifacts",
	filepath.Join("docs", "planning-artifacts"),
	"planning",
	filepath.Join("docs", "planning"),
}

// storiesFileKeywords select the epics/stories file by name, in directory
// listing order.
var storiesFileKeywords = []string{"epic", "stories", "story"}

// techStackHeading locates the tech-stack section in the planning text.
const techStackHeading = `Tech(nology)?\s+Stack`

// Runner executes transition runs. Callers must serialize runs per project:
// the pipeline is sequential and not designed for concurrent invocation
// against the same destination.
type Runner struct {
	cfg     *config.Config
	parser  *story.Parser
	history *history.Store

	// lastChanges holds the most recent run's spec changes for history
	// recording.
	lastChanges []specs.Change
}

// NewRunner creates a transition runner. The history store is optional;
// passing nil disables run recording.
func NewRunner(cfg *config.Config, store *history.Store) *Runner {
	return &Runner{
		cfg:     cfg,
		parser:  story.NewParser(),
		history: store,
	}
}

// Run executes one transition: parse stories, regenerate the fix plan with
// completion state merged forward, sync the specs directory with changelog
// and index, and render the operational prompt. Fatal conditions abort
// before the failing step writes anything; recoverable anomalies accumulate
// as warnings.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	ctx, span := telemetry.Tracer().Start(ctx, "transition.run")
	defer span.End()

	result, err := r.run(ctx)

	outcome := "success"
	if err != nil {
		outcome = "failed"
	}
	telemetry.RecordTransition(ctx, outcome, time.Since(start))

	if err == nil && r.history != nil {
		r.record(result, start, time.Since(start))
	}
	return result, err
}

func (r *Runner) run(ctx context.Context) (*Result, error) {
	result := &Result{}

	// Step 1: locate the planning artifacts
	artifactsDir, err := r.findArtifactsDir()
	if err != nil {
		return nil, err
	}

	// Step 2: select the epics/stories file
	storiesPath, err := findStoriesFile(artifactsDir)
	if err != nil {
		return nil, err
	}

	// Step 3: parse stories
	stories, err := r.parseStories(ctx, storiesPath, result)
	if err != nil {
		return nil, err
	}
	result.StoriesCount = len(stories)

	// Step 4: regenerate the fix plan, merging forward completion state
	if err := r.writeFixPlan(ctx, stories, result); err != nil {
		return nil, err
	}

	// Step 5: sync specs, diff against the previous snapshot, reindex
	changes, err := r.syncSpecs(ctx, artifactsDir)
	if err != nil {
		return nil, err
	}
	r.lastChanges = changes

	// Step 6: render the operational prompt and customize the agent doc
	if err := r.writeInstructions(ctx, artifactsDir, result); err != nil {
		return nil, err
	}

	log.Printf("🔀 Transition complete: %d stories, %d spec changes, %d warnings",
		result.StoriesCount, len(changes), len(result.Warnings))
	return result, nil
}

// findArtifactsDir resolves the planning-artifacts directory from the fixed
// candidate list.
func (r *Runner) findArtifactsDir() (string, error) {
	for _, candidate := range artifactsDirCandidates {
		dir := r.cfg.Resolve(candidate)
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir, nil
		}
	}
	return "", fmt.Errorf("%w (looked in %s)", ErrNoArtifactsDir,
		strings.Join(artifactsDirCandidates, ", "))
}

// findStoriesFile picks the first file whose name contains an epics/stories
// keyword, in directory listing order.
func findStoriesFile(artifactsDir string) (string, error) {
	entries, err := os.ReadDir(artifactsDir)
	if err != nil {
		return "", fmt.Errorf("reading artifacts directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := strings.ToLower(entry.Name())
		for _, kw := range storiesFileKeywords {
			if strings.Contains(name, kw) {
				return filepath.Join(artifactsDir, entry.Name()), nil
			}
		}
	}
	return "", fmt.Errorf("%w (in %s)", ErrNoStoriesFile, artifactsDir)
}

func (r *Runner) parseStories(ctx context.Context, storiesPath string, result *Result) ([]story.Story, error) {
	_, span := telemetry.Tracer().Start(ctx, "transition.parse_stories")
	defer span.End()

	content, err := os.ReadFile(storiesPath)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", storiesPath, err)
	}

	stories := r.parser.Parse(string(content))
	if len(stories) == 0 {
		return nil, fmt.Errorf("%s: %w", filepath.Base(storiesPath), ErrNoStories)
	}
	telemetry.RecordStoriesParsed(ctx, len(stories))

	for _, s := range stories {
		if len(s.AcceptanceCriteria) == 0 {
			r.warn(ctx, result, "no_acceptance_criteria",
				fmt.Sprintf("story %s (%s) has no acceptance criteria", s.ID, s.Title))
		}
	}

	log.Printf("📋 Parsed %d stories from %s", len(stories), filepath.Base(storiesPath))
	return stories, nil
}

func (r *Runner) writeFixPlan(ctx context.Context, stories []story.Story, result *Result) error {
	_, span := telemetry.Tracer().Start(ctx, "transition.write_fix_plan")
	defer span.End()

	fresh := fixplan.Generate(stories)
	dest := r.cfg.Resolve(r.cfg.FixPlanFile)

	doc := fresh
	if previous, err := os.ReadFile(dest); err == nil {
		doc = fixplan.Merge(fresh, string(previous))
		result.FixPlanPreserved = true
		telemetry.RecordPlanMerge(ctx)
		log.Printf("🔁 Merged completion state from existing %s", r.cfg.FixPlanFile)
	}

	if err := os.WriteFile(dest, []byte(doc), 0644); err != nil {
		return fmt.Errorf("writing fix plan: %w", err)
	}
	return nil
}

func (r *Runner) syncSpecs(ctx context.Context, artifactsDir string) ([]specs.Change, error) {
	_, span := telemetry.Tracer().Start(ctx, "transition.sync_specs")
	defer span.End()

	specsDir := r.cfg.Resolve(r.cfg.SpecsDir)

	previous, err := specs.Snapshot(specsDir)
	if err != nil {
		return nil, err
	}

	if _, err := specs.CopyAll(artifactsDir, specsDir); err != nil {
		return nil, err
	}

	current, err := specs.Snapshot(specsDir)
	if err != nil {
		return nil, err
	}

	changes := specs.Diff(previous, current)
	for _, c := range changes {
		telemetry.RecordSpecChange(ctx, c.Status)
	}

	changelog := specs.FormatChangelog(changes)
	if err := os.WriteFile(filepath.Join(specsDir, specs.ChangelogFile), []byte(changelog), 0644); err != nil {
		return nil, fmt.Errorf("writing changelog: %w", err)
	}

	idx, err := specs.BuildIndex(specsDir)
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(filepath.Join(specsDir, specs.IndexFile), []byte(idx.FormatIndex()), 0644); err != nil {
		return nil, fmt.Errorf("writing index: %w", err)
	}

	return changes, nil
}

func (r *Runner) writeInstructions(ctx context.Context, artifactsDir string, result *Result) error {
	_, span := telemetry.Tracer().Start(ctx, "transition.write_instructions")
	defer span.End()

	projectName, err := config.ReadProjectName(r.cfg.Resolve(r.cfg.ProjectConfigFile))
	if err != nil {
		projectName = config.DefaultProjectName
		r.warn(ctx, result, "project_config",
			fmt.Sprintf("could not read project config (%v); using project name %q", err, projectName))
	}

	planning, err := combinePlanningText(artifactsDir)
	if err != nil {
		return err
	}

	pc := prompt.ExtractProjectContext(planning)
	doc, err := prompt.GeneratePrompt(projectName, pc)
	if err != nil {
		return err
	}
	if err := os.WriteFile(r.cfg.Resolve(r.cfg.PromptFile), []byte(doc), 0644); err != nil {
		return fmt.Errorf("writing prompt: %w", err)
	}

	return r.customizeAgentDoc(ctx, planning, result)
}

// customizeAgentDoc rewrites the agent doc's command blocks from the
// detected tech stack. A missing agent doc or undetectable stack leaves the
// file as installed.
func (r *Runner) customizeAgentDoc(ctx context.Context, planning string, result *Result) error {
	agentPath := r.cfg.Resolve(r.cfg.AgentFile)
	template, err := os.ReadFile(agentPath)
	if err != nil {
		return nil
	}

	section, ok := markdown.ExtractSection(planning, techStackHeading)
	if !ok {
		section = planning
	}

	stack, ok := techstack.Detect(section)
	if !ok {
		r.warn(ctx, result, "tech_stack",
			"no tech stack detected in planning documents; agent doc commands left as installed")
		return nil
	}

	customized := techstack.CustomizeAgentDoc(string(template), stack)
	if err := os.WriteFile(agentPath, []byte(customized), 0644); err != nil {
		return fmt.Errorf("writing agent doc: %w", err)
	}
	return nil
}

// combinePlanningText concatenates the markdown planning files for section
// extraction.
func combinePlanningText(artifactsDir string) (string, error) {
	entries, err := os.ReadDir(artifactsDir)
	if err != nil {
		return "", fmt.Errorf("reading artifacts directory: %w", err)
	}

	var b strings.Builder
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		content, err := os.ReadFile(filepath.Join(artifactsDir, entry.Name()))
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", entry.Name(), err)
		}
		b.Write(content)
		b.WriteString("\n\n")
	}
	return b.String(), nil
}

func (r *Runner) warn(ctx context.Context, result *Result, errorType, msg string) {
	result.Warnings = append(result.Warnings, msg)
	telemetry.RecordWarning(ctx, errorType)
	log.Printf("⚠️  %s", msg)
}

// record appends the run to the history store. History is best-effort and
// never fails a transition.
func (r *Runner) record(result *Result, start time.Time, duration time.Duration) {
	run := &history.Run{
		StartedAt:        start,
		Duration:         duration,
		Stories:          result.StoriesCount,
		Warnings:         result.Warnings,
		FixPlanPreserved: result.FixPlanPreserved,
	}
	for _, c := range r.lastChanges {
		switch c.Status {
		case specs.StatusAdded:
			run.SpecsAdded++
		case specs.StatusModified:
			run.SpecsModified++
		case specs.StatusRemoved:
			run.SpecsRemoved++
		}
	}
	if err := r.history.RecordRun(run); err != nil {
		log.Printf("⚠️  Could not record transition history: %v", err)
	}
}
