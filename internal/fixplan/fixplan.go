// Package fixplan renders, parses, and merges the execution loop's checklist document
package fixplan

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/cloud-shuttle/muster/internal/story"
)

// Item is one checklist entry. Exactly one item corresponds to one story id.
// Completed flips true only via the execution loop editing the rendered
// document, never via generation.
type Item struct {
	ID        string
	Completed bool
	Title     string
}

// itemRe matches a checklist story line. Everything else in the document
// (headings, quoted descriptions, AC annotations, free text) is not an item.
var itemRe = regexp.MustCompile(`^- \[([ x])\] Story ([\d.]+):\s*(.+)`)

// maxFragments limits how many description fragments are quoted per story.
const maxFragments = 3

var (
	fragmentMarkerRe = regexp.MustCompile(`(?i)\b(so that|i want)\b`)
	sentenceEndRe    = regexp.MustCompile(`[.!?]+\s+`)
)

const header = `# Fix Plan

Generated from the planning epics/stories. The execution loop checks stories
off as they are completed; regeneration preserves checked state by story id.
`

const trailer = `## Completed

The run is complete when every story above is checked.

## Notes

- Work test-first: write a failing test for the story, make it pass, refactor.
- Keep each loop iteration focused on a single unchecked story.
- Do not edit this file by hand beyond checking boxes; it is regenerated from
  the planning documents.
`

// Generate renders stories as a checklist grouped by epic, one heading per
// distinct epic in first-seen order, with a fixed trailer appended once.
func Generate(stories []story.Story) string {
	var b strings.Builder
	b.WriteString(header)

	current := "\x00" // sentinel distinct from any epic name, including ""
	for _, s := range stories {
		if s.Epic != current {
			current = s.Epic
			name := current
			if name == "" {
				name = "General"
			}
			b.WriteString("\n### " + name + "\n\n")
		}

		fmt.Fprintf(&b, "- [ ] Story %s: %s\n", s.ID, s.Title)
		for _, frag := range splitFragments(s.Description) {
			fmt.Fprintf(&b, "  > \"%s\"\n", frag)
		}
		for _, ac := range s.AcceptanceCriteria {
			fmt.Fprintf(&b, "  > AC: \"%s\"\n", ac)
		}
	}

	b.WriteString("\n" + trailer)
	return b.String()
}

// splitFragments breaks a description on sentence boundaries and the
// "So that"/"I want" story markers, keeping at most maxFragments parts.
func splitFragments(desc string) []string {
	marked := fragmentMarkerRe.ReplaceAllString(desc, "\n$1")

	var frags []string
	for _, part := range strings.Split(marked, "\n") {
		for _, sentence := range sentenceEndRe.Split(part, -1) {
			sentence = strings.TrimSpace(strings.TrimRight(sentence, ".!?"))
			if sentence == "" {
				continue
			}
			frags = append(frags, sentence)
			if len(frags) == maxFragments {
				return frags
			}
		}
	}
	return frags
}

// Parse scans a checklist document into items, one per story line.
func Parse(doc string) []Item {
	var items []Item
	for _, line := range strings.Split(doc, "\n") {
		m := itemRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		items = append(items, Item{
			ID:        m[2],
			Completed: m[1] == "x",
			Title:     strings.TrimSpace(m[3]),
		})
	}
	return items
}

// HasProgress reports whether any item is completed.
func HasProgress(items []Item) bool {
	for _, it := range items {
		if it.Completed {
			return true
		}
	}
	return false
}

// Merge carries completion state forward from a previous checklist into a
// freshly generated one. Ids completed previously and still present are
// rewritten to the checked form; ids only in the previous document are
// dropped; ids only in the fresh document stay unchecked. Merging only ever
// promotes checkbox state by id equality, so the operation is idempotent.
func Merge(fresh, previous string) string {
	completed := make(map[string]bool)
	for _, it := range Parse(previous) {
		if it.Completed {
			completed[it.ID] = true
		}
	}
	if len(completed) == 0 {
		return fresh
	}

	lines := strings.Split(fresh, "\n")
	for i, line := range lines {
		m := itemRe.FindStringSubmatch(line)
		if m != nil && m[1] == " " && completed[m[2]] {
			lines[i] = strings.Replace(line, "- [ ]", "- [x]", 1)
		}
	}
	return strings.Join(lines, "\n")
}
