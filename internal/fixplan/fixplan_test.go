package fixplan

import (
	"strings"
	"testing"

	"github.com/cloud-shuttle/muster/internal/story"
)

func sampleStories() []story.Story {
	return []story.Story{
		{
			Epic:        "Auth",
			ID:          "1.1",
			Title:       "Login",
			Description: "As a user I want to log in. So that my data is private.",
			AcceptanceCriteria: []string{
				"Given a user, When they submit valid credentials, Then they are logged in",
			},
		},
		{
			Epic:  "Auth",
			ID:    "1.2",
			Title: "Logout",
		},
		{
			Epic:        "Billing",
			ID:          "2.1",
			Title:       "Invoices",
			Description: "Send monthly invoices.",
		},
	}
}

func TestGenerateGroupsByEpic(t *testing.T) {
	doc := Generate(sampleStories())

	authIdx := strings.Index(doc, "### Auth")
	billingIdx := strings.Index(doc, "### Billing")
	if authIdx < 0 || billingIdx < 0 {
		t.Fatalf("missing epic headings:\n%s", doc)
	}
	if authIdx > billingIdx {
		t.Error("epic headings not in first-seen order")
	}
	if strings.Count(doc, "### Auth") != 1 {
		t.Error("epic heading repeated")
	}
	if !strings.Contains(doc, "- [ ] Story 1.1: Login") {
		t.Error("story line missing or malformed")
	}
	if !strings.Contains(doc, `> AC: "Given a user, When they submit valid credentials, Then they are logged in"`) {
		t.Error("acceptance criterion line missing")
	}
	// Trailer appears once per document, not per story.
	if strings.Count(doc, "## Notes") != 1 || strings.Count(doc, "## Completed") != 1 {
		t.Errorf("trailer should appear exactly once:\n%s", doc)
	}
}

func TestGenerateSplitsDescriptionFragments(t *testing.T) {
	doc := Generate(sampleStories())

	if !strings.Contains(doc, `"As a user"`) {
		t.Errorf("description not split on story markers:\n%s", doc)
	}
	if !strings.Contains(doc, `"I want to log in"`) {
		t.Errorf("expected fragment for I want clause:\n%s", doc)
	}
}

func TestSplitFragmentsCap(t *testing.T) {
	frags := splitFragments("One. Two. Three. Four. Five.")
	if len(frags) != 3 {
		t.Errorf("len(fragments) = %d; want 3", len(frags))
	}
}

func TestRoundTrip(t *testing.T) {
	stories := sampleStories()
	items := Parse(Generate(stories))

	if len(items) != len(stories) {
		t.Fatalf("len(items) = %d; want %d", len(items), len(stories))
	}
	for i, s := range stories {
		if items[i].ID != s.ID {
			t.Errorf("items[%d].ID = %q; want %q", i, items[i].ID, s.ID)
		}
		if items[i].Title != s.Title {
			t.Errorf("items[%d].Title = %q; want %q", i, items[i].Title, s.Title)
		}
		if items[i].Completed {
			t.Errorf("items[%d] generated completed; want unchecked", i)
		}
	}
}

func TestParseIgnoresNonItemLines(t *testing.T) {
	doc := "# Fix Plan\n\n### Auth\n\n- [ ] Story 1.1: Login\n  > \"desc\"\n  > AC: \"Given x, Then y\"\n- [x] Story 1.2: Logout\n- [ ] not a story line\n"

	items := Parse(doc)
	if len(items) != 2 {
		t.Fatalf("len(items) = %d; want 2", len(items))
	}
	if items[0].ID != "1.1" || items[0].Completed {
		t.Errorf("items[0] = %+v", items[0])
	}
	if items[1].ID != "1.2" || !items[1].Completed {
		t.Errorf("items[1] = %+v", items[1])
	}
}

func TestHasProgress(t *testing.T) {
	if HasProgress([]Item{{ID: "1.1"}, {ID: "1.2"}}) {
		t.Error("HasProgress = true for all-unchecked items")
	}
	if !HasProgress([]Item{{ID: "1.1"}, {ID: "1.2", Completed: true}}) {
		t.Error("HasProgress = false with a completed item")
	}
	if HasProgress(nil) {
		t.Error("HasProgress = true for no items")
	}
}

func TestMergePreservesCompletion(t *testing.T) {
	fresh := Generate(sampleStories())
	previous := strings.Replace(fresh, "- [ ] Story 1.2:", "- [x] Story 1.2:", 1)

	merged := Merge(fresh, previous)

	if !strings.Contains(merged, "- [x] Story 1.2: Logout") {
		t.Error("completion for story 1.2 not preserved")
	}
	if !strings.Contains(merged, "- [ ] Story 1.1: Login") {
		t.Error("story 1.1 should remain unchecked")
	}
}

func TestMergeDropsRemovedIDs(t *testing.T) {
	fresh := Generate(sampleStories())
	previous := fresh + "\n- [x] Story 9.9: Removed upstream\n"

	merged := Merge(fresh, previous)

	if strings.Contains(merged, "9.9") {
		t.Error("id absent from fresh generation must not survive the merge")
	}
}

func TestMergeIdempotent(t *testing.T) {
	fresh := Generate(sampleStories())
	previous := strings.Replace(fresh, "- [ ] Story 2.1:", "- [x] Story 2.1:", 1)

	once := Merge(fresh, previous)
	twice := Merge(fresh, once)

	if once != twice {
		t.Error("Merge(X, Merge(X, P)) != Merge(X, P)")
	}
}

func TestMergeWithNoPreviousProgress(t *testing.T) {
	fresh := Generate(sampleStories())

	if got := Merge(fresh, fresh); got != fresh {
		t.Error("merging an all-unchecked previous plan should change nothing")
	}
	if got := Merge(fresh, ""); got != fresh {
		t.Error("merging an empty previous document should change nothing")
	}
}
