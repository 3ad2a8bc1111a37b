// Package techstack classifies a tech-stack description into a command set
package techstack

import (
	"regexp"
)

// Stack holds the shell commands the execution loop uses for a project.
type Stack struct {
	Setup string
	Test  string
	Build string
	Dev   string
}

// Ecosystem markers. Checked in order: node wins over python, python over
// rust, rust over go. A section mentioning several ecosystems is classified
// by the first match; this precedence is a deliberate tie-break.
var (
	nodeRe   = regexp.MustCompile(`(?i)\b(node(\.js)?|typescript|javascript|npm|yarn|pnpm|express|react|next\.js)\b`)
	pythonRe = regexp.MustCompile(`(?i)\b(python|pip|pytest|poetry|django|flask|fastapi)\b`)
	rustRe   = regexp.MustCompile(`(?i)\b(rust|cargo)\b`)
	goRe     = regexp.MustCompile(`(?i)\b(golang|go\.mod|gofmt|goroutines?)\b`)
)

// Tooling refinement markers within an ecosystem.
var (
	jestRe     = regexp.MustCompile(`(?i)\bjest\b`)
	vitestRe   = regexp.MustCompile(`(?i)\bvitest\b`)
	mochaRe    = regexp.MustCompile(`(?i)\bmocha\b`)
	tscRe      = regexp.MustCompile(`(?i)\b(typescript|tsc)\b`)
	yarnRe     = regexp.MustCompile(`(?i)\byarn\b`)
	pnpmRe     = regexp.MustCompile(`(?i)\bpnpm\b`)
	pytestRe   = regexp.MustCompile(`(?i)\bpytest\b`)
	poetryRe   = regexp.MustCompile(`(?i)\bpoetry\b`)
	djangoRe   = regexp.MustCompile(`(?i)\bdjango\b`)
	flaskRe    = regexp.MustCompile(`(?i)\bflask\b`)
	uvicornRe  = regexp.MustCompile(`(?i)\b(fastapi|uvicorn)\b`)
	nextestRe  = regexp.MustCompile(`(?i)\bnextest\b`)
)

// Detect classifies a tech-stack section into a command set. The stack is
// derived, never persisted; callers recompute it from the planning text each
// run. Returns false when no ecosystem marker is found.
func Detect(section string) (*Stack, bool) {
	switch {
	case nodeRe.MatchString(section):
		return nodeStack(section), true
	case pythonRe.MatchString(section):
		return pythonStack(section), true
	case rustRe.MatchString(section):
		return rustStack(section), true
	case goRe.MatchString(section):
		return goStack(section), true
	}
	return nil, false
}

func nodeStack(section string) *Stack {
	s := &Stack{
		Setup: "npm install",
		Test:  "npm test",
		Build: "npm run build",
		Dev:   "npm run dev",
	}

	switch {
	case pnpmRe.MatchString(section):
		s.Setup = "pnpm install"
	case yarnRe.MatchString(section):
		s.Setup = "yarn install"
	}

	switch {
	case vitestRe.MatchString(section):
		s.Test = "npx vitest run"
	case jestRe.MatchString(section):
		s.Test = "npx jest"
	case mochaRe.MatchString(section):
		s.Test = "npx mocha"
	}

	if tscRe.MatchString(section) {
		s.Build = "npx tsc"
	}

	return s
}

func pythonStack(section string) *Stack {
	s := &Stack{
		Setup: "pip install -r requirements.txt",
		Test:  "python -m unittest discover",
		Build: "python -m build",
		Dev:   "python main.py",
	}

	if poetryRe.MatchString(section) {
		s.Setup = "poetry install"
	}
	if pytestRe.MatchString(section) {
		s.Test = "pytest"
	}

	switch {
	case djangoRe.MatchString(section):
		s.Dev = "python manage.py runserver"
	case flaskRe.MatchString(section):
		s.Dev = "flask run"
	case uvicornRe.MatchString(section):
		s.Dev = "uvicorn main:app --reload"
	}

	return s
}

func rustStack(section string) *Stack {
	s := &Stack{
		Setup: "cargo fetch",
		Test:  "cargo test",
		Build: "cargo build --release",
		Dev:   "cargo run",
	}

	if nextestRe.MatchString(section) {
		s.Test = "cargo nextest run"
	}

	return s
}

func goStack(_ string) *Stack {
	return &Stack{
		Setup: "go mod download",
		Test:  "go test ./...",
		Build: "go build ./...",
		Dev:   "go run .",
	}
}
