// Package prompt extracts project context and renders the execution loop's instructions
package prompt

import (
	"strings"

	"github.com/cloud-shuttle/muster/internal/markdown"
)

// ProjectContext carries the free-text planning sections embedded into the
// operational prompt. Every field is independently optional; an absent
// section leaves its field empty.
type ProjectContext struct {
	Goals                     string
	SuccessMetrics            string
	ArchitectureConstraints   string
	TechnicalRisks            string
	ScopeBoundaries           string
	TargetUsers               string
	NonFunctionalRequirements string
}

// Heading synonyms per context field.
var contextHeadings = []struct {
	pattern string
	assign  func(*ProjectContext, string)
}{
	{`(Project\s+)?Goals?|Objectives?`, func(pc *ProjectContext, s string) { pc.Goals = s }},
	{`Success\s+(Metrics|Criteria)|Key\s+Metrics`, func(pc *ProjectContext, s string) { pc.SuccessMetrics = s }},
	{`Architecture(\s+Constraints)?|Technical\s+Architecture`, func(pc *ProjectContext, s string) { pc.ArchitectureConstraints = s }},
	{`(Technical\s+)?Risks?|Risk\s+Assessment`, func(pc *ProjectContext, s string) { pc.TechnicalRisks = s }},
	{`Scope(\s+Boundaries)?|Out\s+of\s+Scope`, func(pc *ProjectContext, s string) { pc.ScopeBoundaries = s }},
	{`(Target\s+)?Users?|Audience|User\s+Personas?`, func(pc *ProjectContext, s string) { pc.TargetUsers = s }},
	{`Non-?Functional\s+Requirements?|NFRs?|Quality\s+Attributes`, func(pc *ProjectContext, s string) { pc.NonFunctionalRequirements = s }},
}

// ExtractProjectContext runs section extraction once per context field over
// the combined planning text. Extraction is lossy beyond the section cap.
func ExtractProjectContext(doc string) ProjectContext {
	var pc ProjectContext
	for _, ch := range contextHeadings {
		if section, ok := markdown.ExtractSection(doc, ch.pattern); ok {
			ch.assign(&pc, sectionBody(section))
		}
	}
	return pc
}

// sectionBody drops the heading line so fields carry free text only.
func sectionBody(section string) string {
	if _, body, found := strings.Cut(section, "\n"); found {
		return strings.TrimSpace(body)
	}
	return ""
}
