// Package story parses epics/stories planning documents into structured records
package story

import (
	"regexp"
	"strings"

	"github.com/cloud-shuttle/muster/internal/markdown"
)

var (
	epicRe      = regexp.MustCompile(`^##\s+Epic\s+\d+:\s+(.+)`)
	storyRe     = regexp.MustCompile(`^###\s+Story\s+([\d.]+):\s+(.+)`)
	acHeadingRe = regexp.MustCompile(`^\*?\*?Acceptance Criteria\*?\*?:?`)
	givenLineRe = regexp.MustCompile(`^\*?\*?Given\*?\*?\s`)
	headingRe   = regexp.MustCompile(`^##`)

	givenRe    = regexp.MustCompile(`^Given\b`)
	whenThenRe = regexp.MustCompile(`^(When|Then)\b`)
)

// maxDescriptionLines limits how much body prose becomes the story description.
const maxDescriptionLines = 3

// Parser reads epics/stories markdown documents
type Parser struct{}

// NewParser creates a new story parser
func NewParser() *Parser {
	return &Parser{}
}

// Parse extracts stories from an epics/stories markdown document in one pass.
// A document with no story headings yields an empty slice, not an error.
func (p *Parser) Parse(doc string) []Story {
	lines := strings.Split(doc, "\n")

	var stories []Story
	var epic, epicDesc string

	for i := 0; i < len(lines); i++ {
		if m := epicRe.FindStringSubmatch(lines[i]); m != nil {
			epic = strings.TrimSpace(m[1])
			epicDesc = p.epicDescription(lines, i+1)
			continue
		}

		m := storyRe.FindStringSubmatch(lines[i])
		if m == nil {
			continue
		}

		end := len(lines)
		for j := i + 1; j < len(lines); j++ {
			if headingRe.MatchString(lines[j]) {
				end = j
				break
			}
		}

		s := p.parseBody(lines[i+1 : end])
		s.Epic = epic
		s.EpicDescription = epicDesc
		s.ID = m[1]
		s.Title = strings.TrimSpace(m[2])
		stories = append(stories, s)

		i = end - 1
	}

	return stories
}

// epicDescription collects the prose immediately after an epic heading,
// up to the next heading.
func (p *Parser) epicDescription(lines []string, start int) string {
	var parts []string
	for i := start; i < len(lines) && len(parts) < maxDescriptionLines; i++ {
		if headingRe.MatchString(lines[i]) {
			break
		}
		line := strings.TrimSpace(markdown.StripBold(lines[i]))
		if line != "" {
			parts = append(parts, line)
		}
	}
	return strings.Join(parts, " ")
}

// parseBody splits a story body into description and acceptance criteria.
func (p *Parser) parseBody(body []string) Story {
	acStart := -1
	explicitHeading := false
	for i, line := range body {
		if acHeadingRe.MatchString(line) {
			acStart = i
			explicitHeading = true
			break
		}
	}
	if acStart < 0 {
		for i, line := range body {
			if givenLineRe.MatchString(line) {
				acStart = i
				break
			}
		}
	}

	descRegion := body
	var acRegion []string
	if acStart >= 0 {
		descRegion = body[:acStart]
		acRegion = body[acStart:]
		if explicitHeading {
			acRegion = body[acStart+1:]
		}
	}

	return Story{
		Description:        p.description(descRegion),
		AcceptanceCriteria: p.criteria(acRegion),
	}
}

// description joins the first non-blank body lines preceding the criteria.
func (p *Parser) description(region []string) string {
	var parts []string
	for _, raw := range region {
		line := strings.TrimSpace(markdown.StripBold(raw))
		if line == "" {
			continue
		}
		parts = append(parts, line)
		if len(parts) == maxDescriptionLines {
			break
		}
	}
	return strings.Join(parts, " ")
}

// criteria groups Given/When/Then lines into flattened criterion strings.
// A Given line starts a new block; When/Then lines extend the current one.
// When/Then lines with no preceding Given are discarded.
func (p *Parser) criteria(region []string) []string {
	var criteria []string
	var current []string

	flush := func() {
		if len(current) > 0 {
			criteria = append(criteria, strings.Join(current, ", "))
			current = nil
		}
	}

	for _, raw := range region {
		line := strings.TrimSpace(markdown.StripBold(raw))
		switch {
		case givenRe.MatchString(line):
			flush()
			current = []string{line}
		case whenThenRe.MatchString(line) && len(current) > 0:
			current = append(current, line)
		}
	}
	flush()

	return criteria
}
