// Package specs manages the copied spec files, their changelog, and their index
package specs

import (
	"sort"
	"strings"
)

// Change status values.
const (
	StatusAdded    = "added"
	StatusModified = "modified"
	StatusRemoved  = "removed"
)

// Change classifies one spec file between two transition runs.
type Change struct {
	File    string
	Status  string
	Summary string
}

// Diff compares two snapshots of the specs directory. Every path in the
// union of both appears at most once: added, modified, or removed. Paths
// with identical content are omitted. Output is path-sorted so repeated runs
// produce reproducible changelogs.
func Diff(previous, current map[string]string) []Change {
	paths := make(map[string]struct{}, len(previous)+len(current))
	for p := range previous {
		paths[p] = struct{}{}
	}
	for p := range current {
		paths[p] = struct{}{}
	}

	sorted := make([]string, 0, len(paths))
	for p := range paths {
		sorted = append(sorted, p)
	}
	sort.Strings(sorted)

	var changes []Change
	for _, p := range sorted {
		prev, inPrev := previous[p]
		cur, inCur := current[p]
		switch {
		case !inPrev && inCur:
			changes = append(changes, Change{File: p, Status: StatusAdded})
		case inPrev && !inCur:
			changes = append(changes, Change{File: p, Status: StatusRemoved})
		case prev != cur:
			changes = append(changes, Change{File: p, Status: StatusModified})
		}
	}
	return changes
}

// FormatChangelog renders changes as a grouped markdown list. Empty groups
// are omitted; no changes at all renders a short note instead of empty
// headings.
func FormatChangelog(changes []Change) string {
	var b strings.Builder
	b.WriteString("# Specs Changelog\n")

	if len(changes) == 0 {
		b.WriteString("\nNo spec changes in this transition.\n")
		return b.String()
	}

	groups := []struct {
		status  string
		heading string
	}{
		{StatusAdded, "Added"},
		{StatusModified, "Modified"},
		{StatusRemoved, "Removed"},
	}

	for _, g := range groups {
		var entries []Change
		for _, c := range changes {
			if c.Status == g.status {
				entries = append(entries, c)
			}
		}
		if len(entries) == 0 {
			continue
		}

		b.WriteString("\n## " + g.heading + "\n\n")
		for _, c := range entries {
			b.WriteString("- " + c.File)
			if c.Summary != "" {
				b.WriteString(": " + c.Summary)
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}
