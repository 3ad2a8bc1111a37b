package specs

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDiffClassification(t *testing.T) {
	previous := map[string]string{"a.md": "x", "b.md": "y"}
	current := map[string]string{"a.md": "x", "b.md": "z", "c.md": "w"}

	changes := Diff(previous, current)

	if len(changes) != 2 {
		t.Fatalf("len(changes) = %d; want 2 (unchanged a.md omitted): %v", len(changes), changes)
	}
	if changes[0].File != "b.md" || changes[0].Status != StatusModified {
		t.Errorf("changes[0] = %+v; want b.md modified", changes[0])
	}
	if changes[1].File != "c.md" || changes[1].Status != StatusAdded {
		t.Errorf("changes[1] = %+v; want c.md added", changes[1])
	}
}

func TestDiffRemoved(t *testing.T) {
	changes := Diff(map[string]string{"gone.md": "x"}, map[string]string{})

	if len(changes) != 1 || changes[0].Status != StatusRemoved {
		t.Fatalf("changes = %v; want one removed entry", changes)
	}
}

func TestDiffStableOrder(t *testing.T) {
	previous := map[string]string{}
	current := map[string]string{"z.md": "1", "a.md": "2", "m.md": "3"}

	changes := Diff(previous, current)

	var files []string
	for _, c := range changes {
		files = append(files, c.File)
	}
	want := []string{"a.md", "m.md", "z.md"}
	for i := range want {
		if files[i] != want[i] {
			t.Fatalf("files = %v; want path-sorted %v", files, want)
		}
	}
}

func TestFormatChangelog(t *testing.T) {
	changes := []Change{
		{File: "b.md", Status: StatusModified},
		{File: "c.md", Status: StatusAdded},
	}

	out := FormatChangelog(changes)

	if !strings.Contains(out, "## Added") || !strings.Contains(out, "- c.md") {
		t.Errorf("missing Added group:\n%s", out)
	}
	if !strings.Contains(out, "## Modified") || !strings.Contains(out, "- b.md") {
		t.Errorf("missing Modified group:\n%s", out)
	}
	if strings.Contains(out, "## Removed") {
		t.Errorf("empty group should be omitted:\n%s", out)
	}
}

func TestFormatChangelogEmpty(t *testing.T) {
	out := FormatChangelog(nil)
	if !strings.Contains(out, "No spec changes") {
		t.Errorf("empty changelog should say so:\n%s", out)
	}
}

func TestSnapshotAndCopyAll(t *testing.T) {
	src := t.TempDir()
	dst := filepath.Join(t.TempDir(), "specs")

	write(t, src, "prd.md", "# PRD\nrequirements")
	write(t, src, "epics.md", "# Epics\nstories")
	if err := os.MkdirAll(filepath.Join(src, "sub"), 0755); err != nil {
		t.Fatal(err)
	}

	copied, err := CopyAll(src, dst)
	if err != nil {
		t.Fatalf("CopyAll: %v", err)
	}
	if len(copied) != 2 {
		t.Fatalf("copied = %v; want 2 files, subdirectory skipped", copied)
	}

	snap, err := Snapshot(dst)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if snap["prd.md"] != "# PRD\nrequirements" {
		t.Errorf("snapshot content = %q", snap["prd.md"])
	}
	if len(snap) != 2 {
		t.Errorf("snapshot = %v; want 2 entries", snap)
	}
}

func TestCopyAllRemovesStaleFiles(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()

	write(t, src, "prd.md", "current")
	write(t, dst, "old-spec.md", "removed upstream")
	write(t, dst, ChangelogFile, "generated, kept")

	if _, err := CopyAll(src, dst); err != nil {
		t.Fatalf("CopyAll: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dst, "old-spec.md")); !os.IsNotExist(err) {
		t.Error("stale spec should be removed so the diff sees it as removed")
	}
	if _, err := os.Stat(filepath.Join(dst, ChangelogFile)); err != nil {
		t.Error("generated files must survive the mirror")
	}
	if _, err := os.Stat(filepath.Join(dst, "prd.md")); err != nil {
		t.Error("source file not copied")
	}
}

func TestSnapshotMissingDirIsEmpty(t *testing.T) {
	snap, err := Snapshot(filepath.Join(t.TempDir(), "nope"))
	if err != nil {
		t.Fatalf("Snapshot on missing dir: %v", err)
	}
	if len(snap) != 0 {
		t.Errorf("snapshot = %v; want empty", snap)
	}
}

func TestSnapshotExcludesGeneratedFiles(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "prd.md", "x")
	write(t, dir, ChangelogFile, "generated")
	write(t, dir, IndexFile, "generated")

	snap, err := Snapshot(dir)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := snap[ChangelogFile]; ok {
		t.Error("changelog must not appear in snapshots")
	}
	if len(snap) != 1 {
		t.Errorf("snapshot = %v; want only prd.md", snap)
	}
}

func TestBuildIndex(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "epics-and-stories.md", "# Product Epics\nbody")
	write(t, dir, "architecture.md", "# System Architecture\nbody")
	write(t, dir, "notes.md", "loose notes")

	idx, err := BuildIndex(dir)
	if err != nil {
		t.Fatalf("BuildIndex: %v", err)
	}

	if len(idx.Files) != 3 {
		t.Fatalf("len(Files) = %d; want 3", len(idx.Files))
	}
	byPath := make(map[string]FileMetadata)
	for _, f := range idx.Files {
		byPath[f.Path] = f
	}

	if got := byPath["epics-and-stories.md"]; got.Type != "stories" || got.Priority != "high" {
		t.Errorf("epics file metadata = %+v", got)
	}
	if got := byPath["architecture.md"]; got.Type != "architecture" || got.Description != "System Architecture" {
		t.Errorf("architecture metadata = %+v", got)
	}
	if got := byPath["notes.md"]; got.Type != "other" || got.Priority != "low" {
		t.Errorf("notes metadata = %+v", got)
	}
	if idx.CountsByType["stories"] != 1 {
		t.Errorf("CountsByType = %v", idx.CountsByType)
	}

	out := idx.FormatIndex()
	if !strings.Contains(out, "3 files") || !strings.Contains(out, "architecture.md") {
		t.Errorf("index rendering:\n%s", out)
	}
}

func write(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}
