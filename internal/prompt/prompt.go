// Package prompt extracts project context and renders the execution loop's instructions
package prompt

import (
	"bytes"
	"fmt"
	"text/template"
)

// StatusReportBlock is the literal status-report contract the execution loop
// must emit verbatim at the end of every iteration. The field set and enum
// values are part of the external contract; regeneration must not alter them.
const StatusReportBlock = `---STATUS_REPORT---
STATUS: [IN_PROGRESS | BLOCKED | COMPLETE]
TASKS_COMPLETED_THIS_LOOP: [story ids, comma-separated, or NONE]
FILES_MODIFIED: [count]
TESTS_STATUS: [PASSING | FAILING | NOT_RUN]
WORK_TYPE: [IMPLEMENTATION | FIX | REFACTOR | DOCS | INVESTIGATION]
EXIT_SIGNAL: [true | false]
RECOMMENDATION: [one line: what the next iteration should do]
---END_STATUS_REPORT---`

const promptTemplate = `# {{.ProjectName}}: Autonomous Execution Instructions

You are the execution loop for {{.ProjectName}}. Your working files:

- fix_plan.md: the story checklist. Work the first unchecked story; check it
  off only when its acceptance criteria pass.
- specs/: the project specifications. Read the relevant spec before coding.
- AGENT.md: project commands (setup, test, build, dev server).

## Rules

1. One story per iteration. Do not start a second story in the same loop.
2. Run the test command from AGENT.md before checking a story off.
3. Never remove or reorder entries in fix_plan.md; only flip checkboxes.
4. If blocked, say so in the status report instead of guessing.
{{if .Context.Goals}}
## Goals

{{.Context.Goals}}
{{end}}{{if .Context.SuccessMetrics}}
## Success Metrics

{{.Context.SuccessMetrics}}
{{end}}{{if .Context.ArchitectureConstraints}}
## Architecture Constraints

{{.Context.ArchitectureConstraints}}
{{end}}{{if .Context.TechnicalRisks}}
## Technical Risks

{{.Context.TechnicalRisks}}
{{end}}{{if .Context.ScopeBoundaries}}
## Scope Boundaries

{{.Context.ScopeBoundaries}}
{{end}}{{if .Context.TargetUsers}}
## Target Users

{{.Context.TargetUsers}}
{{end}}{{if .Context.NonFunctionalRequirements}}
## Non-Functional Requirements

{{.Context.NonFunctionalRequirements}}
{{end}}
## Status Report

End EVERY iteration by emitting this block verbatim, with each field filled
in:

{{.StatusBlock}}

Set EXIT_SIGNAL to true only when every story in fix_plan.md is checked and
the full test suite passes.
`

var promptTmpl = template.Must(template.New("prompt").Parse(promptTemplate))

// GeneratePrompt renders the operational instructions document for the
// execution loop.
func GeneratePrompt(projectName string, pc ProjectContext) (string, error) {
	var buf bytes.Buffer
	err := promptTmpl.Execute(&buf, struct {
		ProjectName string
		Context     ProjectContext
		StatusBlock string
	}{
		ProjectName: projectName,
		Context:     pc,
		StatusBlock: StatusReportBlock,
	})
	if err != nil {
		return "", fmt.Errorf("rendering prompt: %w", err)
	}
	return buf.String(), nil
}
