package markdown

import (
	"strings"
	"testing"
)

func TestExtractSection(t *testing.T) {
	doc := "# Title\n\nIntro text.\n\n## Tech Stack\n\nNode.js with TypeScript.\nTests use jest.\n\n## Goals\n\nShip it.\n"

	tests := []struct {
		name     string
		pattern  string
		want     string
		wantOK   bool
		contains string
	}{
		{
			name:     "matching section stops at next heading",
			pattern:  `Tech(nology)?\s+Stack`,
			wantOK:   true,
			contains: "Node.js with TypeScript.",
		},
		{
			name:     "last section runs to end of document",
			pattern:  "Goals",
			wantOK:   true,
			contains: "Ship it.",
		},
		{
			name:    "missing heading returns false",
			pattern: "Deployment",
			wantOK:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractSection(doc, tt.pattern)
			if ok != tt.wantOK {
				t.Fatalf("ExtractSection(%q) ok = %v; want %v", tt.pattern, ok, tt.wantOK)
			}
			if tt.contains != "" && !strings.Contains(got, tt.contains) {
				t.Errorf("section = %q; should contain %q", got, tt.contains)
			}
		})
	}
}

func TestExtractSectionExcludesNextSection(t *testing.T) {
	doc := "## Tech Stack\nnode\n## Goals\nship\n"

	got, ok := ExtractSection(doc, "Tech Stack")
	if !ok {
		t.Fatal("expected section to be found")
	}
	if strings.Contains(got, "Goals") || strings.Contains(got, "ship") {
		t.Errorf("section leaked into next heading: %q", got)
	}
}

func TestExtractSectionCaseInsensitive(t *testing.T) {
	doc := "## TECH STACK\npython\n"

	if _, ok := ExtractSection(doc, "Tech Stack"); !ok {
		t.Error("expected case-insensitive heading match")
	}
}

func TestExtractSectionKeepsSubheadings(t *testing.T) {
	doc := "## Architecture\ntext\n### Detail\nmore\n## Next\n"

	got, ok := ExtractSection(doc, "Architecture")
	if !ok {
		t.Fatal("expected section to be found")
	}
	if !strings.Contains(got, "### Detail") {
		t.Errorf("level-3 heading should not end the section: %q", got)
	}
}

func TestExtractSectionCapsLength(t *testing.T) {
	doc := "## Goals\n" + strings.Repeat("x", 2*MaxSectionLen)

	got, ok := ExtractSection(doc, "Goals")
	if !ok {
		t.Fatal("expected section to be found")
	}
	if len(got) != MaxSectionLen {
		t.Errorf("len(section) = %d; want %d", len(got), MaxSectionLen)
	}
}

func TestStripBold(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"**Acceptance Criteria:**", "Acceptance Criteria:"},
		{"__emphasis__", "emphasis"},
		{"plain text", "plain text"},
		{"**Given** a user", "Given a user"},
	}

	for _, tt := range tests {
		if got := StripBold(tt.input); got != tt.want {
			t.Errorf("StripBold(%q) = %q; want %q", tt.input, got, tt.want)
		}
	}
}
