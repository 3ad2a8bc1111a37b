// Package techstack classifies a tech-stack description into a command set
package techstack

import (
	"regexp"
	"strings"
)

// headingCommands maps the agent-doc section headings to the stack command
// that replaces the fenced code block following each heading.
func headingCommands(stack *Stack) []struct{ heading, command string } {
	return []struct{ heading, command string }{
		{"Project Setup", stack.Setup},
		{"Running Tests", stack.Test},
		{"Build Commands", stack.Build},
		{"Development Server", stack.Dev},
	}
}

var anyHeadingRe = regexp.MustCompile(`^#{1,6}\s`)

// CustomizeAgentDoc replaces the first fenced code block after each known
// section heading with the corresponding stack command, leaving all other
// template content untouched. A heading with no following code block is left
// unmodified.
func CustomizeAgentDoc(template string, stack *Stack) string {
	if stack == nil {
		return template
	}

	lines := strings.Split(template, "\n")
	for _, hc := range headingCommands(stack) {
		lines = replaceBlockAfter(lines, hc.heading, hc.command)
	}
	return strings.Join(lines, "\n")
}

// replaceBlockAfter rewrites the body of the first fenced code block between
// the named heading and the next heading.
func replaceBlockAfter(lines []string, heading, command string) []string {
	headingRe := regexp.MustCompile(`^#{1,6}\s+` + regexp.QuoteMeta(heading) + `\s*$`)

	start := -1
	for i, line := range lines {
		if headingRe.MatchString(line) {
			start = i
			break
		}
	}
	if start < 0 {
		return lines
	}

	open := -1
	for i := start + 1; i < len(lines); i++ {
		if anyHeadingRe.MatchString(lines[i]) {
			return lines
		}
		if strings.HasPrefix(lines[i], "```") {
			open = i
			break
		}
	}
	if open < 0 {
		return lines
	}

	close := -1
	for i := open + 1; i < len(lines); i++ {
		if strings.HasPrefix(lines[i], "```") {
			close = i
			break
		}
	}
	if close < 0 {
		return lines
	}

	out := make([]string, 0, len(lines))
	out = append(out, lines[:open+1]...)
	out = append(out, command)
	out = append(out, lines[close:]...)
	return out
}
