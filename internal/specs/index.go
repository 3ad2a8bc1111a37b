// Package specs manages the copied spec files, their changelog, and their index
package specs

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FileMetadata describes one spec file in the index.
type FileMetadata struct {
	Path        string
	Size        int64
	Type        string
	Priority    string
	Description string
}

// Index is the derived catalog of the copied spec files. It is fully
// regenerated each run and never merged with a previous index.
type Index struct {
	Files        []FileMetadata
	TotalSize    int64
	CountsByType map[string]int
}

// maxDescriptionLen bounds the per-file description in the index.
const maxDescriptionLen = 120

// typeKeywords maps filename substrings to spec types, checked in order.
var typeKeywords = []struct {
	keyword  string
	specType string
}{
	{"epic", "stories"},
	{"stories", "stories"},
	{"story", "stories"},
	{"architecture", "architecture"},
	{"arch", "architecture"},
	{"requirement", "requirements"},
	{"prd", "requirements"},
	{"stack", "tech"},
	{"tech", "tech"},
	{"design", "design"},
	{"ux", "design"},
}

var typePriority = map[string]string{
	"stories":      "high",
	"requirements": "high",
	"architecture": "medium",
	"tech":         "medium",
	"design":       "medium",
}

// BuildIndex catalogs the regular files of a specs directory.
func BuildIndex(dir string) (*Index, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading specs directory: %w", err)
	}

	idx := &Index{CountsByType: make(map[string]int)}
	for _, entry := range entries {
		if entry.IsDir() || isGenerated(entry.Name()) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", entry.Name(), err)
		}

		content, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", entry.Name(), err)
		}

		specType := inferType(entry.Name())
		idx.Files = append(idx.Files, FileMetadata{
			Path:        entry.Name(),
			Size:        info.Size(),
			Type:        specType,
			Priority:    priorityFor(specType),
			Description: describe(string(content)),
		})
		idx.TotalSize += info.Size()
		idx.CountsByType[specType]++
	}

	sort.Slice(idx.Files, func(i, j int) bool { return idx.Files[i].Path < idx.Files[j].Path })
	return idx, nil
}

// inferType classifies a spec file by filename keywords.
func inferType(name string) string {
	lower := strings.ToLower(name)
	for _, tk := range typeKeywords {
		if strings.Contains(lower, tk.keyword) {
			return tk.specType
		}
	}
	return "other"
}

func priorityFor(specType string) string {
	if p, ok := typePriority[specType]; ok {
		return p
	}
	return "low"
}

// describe returns the first heading text, or the first non-blank line,
// truncated to maxDescriptionLen.
func describe(content string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(line, "# "))
		if line == "" {
			continue
		}
		if len(line) > maxDescriptionLen {
			line = line[:maxDescriptionLen]
		}
		return line
	}
	return ""
}

// FormatIndex renders the index as a markdown document.
func (idx *Index) FormatIndex() string {
	var b strings.Builder
	b.WriteString("# Specs Index\n\n")
	fmt.Fprintf(&b, "%d files, %d bytes total.\n", len(idx.Files), idx.TotalSize)

	types := make([]string, 0, len(idx.CountsByType))
	for t := range idx.CountsByType {
		types = append(types, t)
	}
	sort.Strings(types)
	for _, t := range types {
		fmt.Fprintf(&b, "- %s: %d\n", t, idx.CountsByType[t])
	}

	b.WriteString("\n## Files\n\n")
	for _, f := range idx.Files {
		fmt.Fprintf(&b, "- **%s** (%s, priority %s, %d bytes)", f.Path, f.Type, f.Priority, f.Size)
		if f.Description != "" {
			b.WriteString(": " + f.Description)
		}
		b.WriteString("\n")
	}
	return b.String()
}
