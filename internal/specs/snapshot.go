// Package specs manages the copied spec files, their changelog, and their index
package specs

import (
	"fmt"
	"os"
	"path/filepath"
)

// Generated file names inside the specs directory. They are regenerated on
// every run and never participate in snapshots or diffs.
const (
	ChangelogFile = "CHANGELOG.md"
	IndexFile     = "INDEX.md"
)

func isGenerated(name string) bool {
	return name == ChangelogFile || name == IndexFile
}

// Snapshot reads the regular files of a specs directory into a name→content
// map. A missing directory yields an empty snapshot, not an error: the first
// transition of a project has nothing to diff against.
func Snapshot(dir string) (map[string]string, error) {
	snapshot := make(map[string]string)

	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return snapshot, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading specs directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || isGenerated(entry.Name()) {
			continue
		}
		content, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("reading spec %s: %w", entry.Name(), err)
		}
		snapshot[entry.Name()] = string(content)
	}
	return snapshot, nil
}

// CopyAll mirrors the regular files of srcDir into dstDir, creating dstDir
// if needed, and returns the copied file names. Destination files no longer
// present in the source are removed so the diff can classify them; generated
// files are kept. Subdirectories are skipped; the artifacts layout is flat.
func CopyAll(srcDir, dstDir string) ([]string, error) {
	entries, err := os.ReadDir(srcDir)
	if err != nil {
		return nil, fmt.Errorf("reading artifacts directory: %w", err)
	}

	if err := os.MkdirAll(dstDir, 0755); err != nil {
		return nil, fmt.Errorf("creating specs directory: %w", err)
	}

	copied := make(map[string]bool)
	var names []string
	for _, entry := range entries {
		if entry.IsDir() || isGenerated(entry.Name()) {
			continue
		}
		content, err := os.ReadFile(filepath.Join(srcDir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", entry.Name(), err)
		}
		if err := os.WriteFile(filepath.Join(dstDir, entry.Name()), content, 0644); err != nil {
			return nil, fmt.Errorf("writing %s: %w", entry.Name(), err)
		}
		copied[entry.Name()] = true
		names = append(names, entry.Name())
	}

	stale, err := os.ReadDir(dstDir)
	if err != nil {
		return nil, fmt.Errorf("reading specs directory: %w", err)
	}
	for _, entry := range stale {
		if entry.IsDir() || isGenerated(entry.Name()) || copied[entry.Name()] {
			continue
		}
		if err := os.Remove(filepath.Join(dstDir, entry.Name())); err != nil {
			return nil, fmt.Errorf("removing stale spec %s: %w", entry.Name(), err)
		}
	}
	return names, nil
}
