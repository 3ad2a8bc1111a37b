package history

import (
	"path/filepath"
	"testing"
	"time"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	if err := store.InitSchema(); err != nil {
		t.Fatalf("InitSchema: %v", err)
	}
	return store
}

func TestRecordAndLastRun(t *testing.T) {
	store := openStore(t)

	run := &Run{
		StartedAt:        time.Unix(1700000000, 0),
		Duration:         340 * time.Millisecond,
		Stories:          12,
		Warnings:         []string{"story 2.3 has no acceptance criteria"},
		FixPlanPreserved: true,
		SpecsAdded:       2,
		SpecsModified:    1,
	}
	if err := store.RecordRun(run); err != nil {
		t.Fatalf("RecordRun: %v", err)
	}

	got, err := store.LastRun()
	if err != nil {
		t.Fatalf("LastRun: %v", err)
	}
	if got == nil {
		t.Fatal("LastRun = nil; want recorded run")
	}
	if got.Stories != 12 {
		t.Errorf("Stories = %d; want 12", got.Stories)
	}
	if !got.FixPlanPreserved {
		t.Error("FixPlanPreserved not round-tripped")
	}
	if len(got.Warnings) != 1 || got.Warnings[0] != "story 2.3 has no acceptance criteria" {
		t.Errorf("Warnings = %v", got.Warnings)
	}
	if got.SpecsAdded != 2 || got.SpecsModified != 1 || got.SpecsRemoved != 0 {
		t.Errorf("spec counts = %d/%d/%d", got.SpecsAdded, got.SpecsModified, got.SpecsRemoved)
	}
	if got.Duration != 340*time.Millisecond {
		t.Errorf("Duration = %v; want 340ms", got.Duration)
	}
}

func TestLastRunEmpty(t *testing.T) {
	store := openStore(t)

	got, err := store.LastRun()
	if err != nil {
		t.Fatalf("LastRun: %v", err)
	}
	if got != nil {
		t.Errorf("LastRun = %+v; want nil for empty history", got)
	}
}

func TestRunsNewestFirst(t *testing.T) {
	store := openStore(t)

	for i, stories := range []int{3, 5, 8} {
		run := &Run{
			StartedAt: time.Unix(int64(1700000000+i*60), 0),
			Stories:   stories,
		}
		if err := store.RecordRun(run); err != nil {
			t.Fatalf("RecordRun: %v", err)
		}
	}

	runs, err := store.Runs(2)
	if err != nil {
		t.Fatalf("Runs: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("len(runs) = %d; want 2", len(runs))
	}
	if runs[0].Stories != 8 || runs[1].Stories != 5 {
		t.Errorf("runs order = %d, %d; want newest first", runs[0].Stories, runs[1].Stories)
	}
}

func TestRunWithoutWarnings(t *testing.T) {
	store := openStore(t)

	if err := store.RecordRun(&Run{StartedAt: time.Now(), Stories: 1}); err != nil {
		t.Fatalf("RecordRun: %v", err)
	}

	got, err := store.LastRun()
	if err != nil {
		t.Fatalf("LastRun: %v", err)
	}
	if len(got.Warnings) != 0 {
		t.Errorf("Warnings = %v; want none", got.Warnings)
	}
}
