// Package markdown provides heading-based section extraction from planning documents
package markdown

import (
	"regexp"
	"strings"
)

// MaxSectionLen caps extracted section text to bound downstream prompt size.
// Text beyond the cap is dropped, not summarized.
const MaxSectionLen = 5000

// sectionBoundary matches any level-2 heading line.
var sectionBoundary = regexp.MustCompile(`^##\s`)

// ExtractSection locates the first level-2 heading matching headingPattern
// (case-insensitive) and returns the text from that heading up to, but not
// including, the next level-2 heading or end of document. The second return
// value is false when no matching heading exists or the pattern is invalid.
func ExtractSection(doc, headingPattern string) (string, bool) {
	re, err := regexp.Compile(`(?i)^##\s+(?:` + headingPattern + `)`)
	if err != nil {
		return "", false
	}

	lines := strings.Split(doc, "\n")

	start := -1
	for i, line := range lines {
		if re.MatchString(line) {
			start = i
			break
		}
	}
	if start < 0 {
		return "", false
	}

	end := len(lines)
	for i := start + 1; i < len(lines); i++ {
		if sectionBoundary.MatchString(lines[i]) {
			end = i
			break
		}
	}

	section := strings.Join(lines[start:end], "\n")
	if len(section) > MaxSectionLen {
		section = section[:MaxSectionLen]
	}
	return section, true
}

// StripBold removes markdown bold markers from a line.
func StripBold(s string) string {
	s = strings.ReplaceAll(s, "**", "")
	return strings.ReplaceAll(s, "__", "")
}
