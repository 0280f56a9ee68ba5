package ops

import (
	"context"
	"database/sql"
	"testing"

	"github.com/sproutnotes/sprout/internal/db"
	"github.com/sproutnotes/sprout/internal/errors"
	"github.com/sproutnotes/sprout/internal/idea"
	"github.com/sproutnotes/sprout/internal/llm"
	"github.com/sproutnotes/sprout/internal/settings"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.Init(t.TempDir())
	if err != nil {
		t.Fatalf("db.Init failed: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return database
}

// fakeProvider returns canned completions and records prompts.
type fakeProvider struct {
	reply   string
	err     error
	prompts []string
	opts    []llm.Options
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Complete(_ context.Context, prompt string, opts llm.Options) (string, error) {
	f.prompts = append(f.prompts, prompt)
	f.opts = append(f.opts, opts)
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func testAdvisor(t *testing.T, database *sql.DB, p llm.Provider) *Advisor {
	t.Helper()
	mgr, err := settings.NewManager(database)
	if err != nil {
		t.Fatalf("settings.NewManager failed: %v", err)
	}
	return &Advisor{
		Settings: mgr,
		Factory:  func(idea.Settings) (llm.Provider, error) { return p, nil },
	}
}

func mustCreate(t *testing.T, database *sql.DB, title, details string) *idea.Idea {
	t.Helper()
	i, err := Create(database, CreateInput{Title: title, Details: details})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	return i
}

func TestCreate_HappyPath(t *testing.T) {
	database := testDB(t)

	out, err := Create(database, CreateInput{Title: "Solar charger", Details: "portable"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if out.ID == "" {
		t.Error("ID should not be empty")
	}
	if len(out.ID) != 26 {
		t.Errorf("ID length = %d, want 26 (ULID)", len(out.ID))
	}
	if out.Status != idea.StatusDraft {
		t.Errorf("Status = %q, want draft default", out.Status)
	}
	if out.Timestamp == 0 {
		t.Error("Timestamp should be set")
	}

	stored, err := Fetch(database, out.ID)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if stored.Title != "Solar charger" {
		t.Errorf("Title = %q", stored.Title)
	}
}

func TestCreate_RequiresTitle(t *testing.T) {
	database := testDB(t)

	_, err := Create(database, CreateInput{Title: "   "})
	if !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("err = %v, want INVALID_REQUEST", err)
	}
}

func TestCreate_RejectsBadStatus(t *testing.T) {
	database := testDB(t)

	_, err := Create(database, CreateInput{Title: "T", Status: "bogus"})
	if !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("err = %v, want INVALID_REQUEST", err)
	}
}

func TestNewDraft_IsTransient(t *testing.T) {
	database := testDB(t)

	draft, err := NewDraft()
	if err != nil {
		t.Fatalf("NewDraft failed: %v", err)
	}
	if draft.Title != "New Idea" {
		t.Errorf("Title = %q, want placeholder", draft.Title)
	}

	// No store row until a write happens.
	_, err = Fetch(database, draft.ID)
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("err = %v, want NOT_FOUND for transient draft", err)
	}
}

func TestFetch_NotFound(t *testing.T) {
	database := testDB(t)

	_, err := Fetch(database, "missing")
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("err = %v, want NOT_FOUND", err)
	}
}

func TestUpdate_PatchesOnlyGivenFields(t *testing.T) {
	database := testDB(t)
	created := mustCreate(t, database, "Original", "details")

	newTitle := "Renamed"
	out, err := Update(database, UpdateInput{ID: created.ID, Title: &newTitle})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	if out.Title != "Renamed" {
		t.Errorf("Title = %q", out.Title)
	}
	if out.Details != "details" {
		t.Errorf("Details = %q, untouched field changed", out.Details)
	}
	if out.Timestamp != created.Timestamp {
		t.Errorf("Timestamp changed on update: %d != %d", out.Timestamp, created.Timestamp)
	}
}

func TestUpdate_NotFound(t *testing.T) {
	database := testDB(t)

	title := "x"
	_, err := Update(database, UpdateInput{ID: "missing", Title: &title})
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("err = %v, want NOT_FOUND", err)
	}
}

func TestReplace_PreservesCreationTime(t *testing.T) {
	database := testDB(t)
	created := mustCreate(t, database, "Original", "details")

	replacement := *created
	replacement.Title = "Replaced"
	replacement.Timestamp = 42 // client-supplied timestamp must lose

	out, err := Replace(database, &replacement)
	if err != nil {
		t.Fatalf("Replace failed: %v", err)
	}
	if out.Title != "Replaced" {
		t.Errorf("Title = %q", out.Title)
	}
	if out.Timestamp != created.Timestamp {
		t.Errorf("Timestamp = %d, want original %d", out.Timestamp, created.Timestamp)
	}
}

func TestReplace_NotFound(t *testing.T) {
	database := testDB(t)

	_, err := Replace(database, &idea.Idea{ID: "missing", Title: "T"})
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("err = %v, want NOT_FOUND", err)
	}
}

func TestDelete_Idempotent(t *testing.T) {
	database := testDB(t)
	created := mustCreate(t, database, "Doomed", "")

	if err := Delete(database, created.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := Delete(database, created.ID); err != nil {
		t.Errorf("second Delete failed: %v", err)
	}

	_, err := Fetch(database, created.ID)
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("err = %v, want NOT_FOUND after delete", err)
	}
}

func TestList_AppliesProjection(t *testing.T) {
	database := testDB(t)
	mustCreate(t, database, "Solar charger", "energy hardware")
	mustCreate(t, database, "Bike share", "urban mobility")

	out, err := List(database, ListInput{Search: "solar"})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if out.Total != 1 || out.Items[0].Title != "Solar charger" {
		t.Errorf("items = %+v", out.Items)
	}
}

func TestList_RejectsBadSort(t *testing.T) {
	database := testDB(t)

	_, err := List(database, ListInput{Sort: "sideways"})
	if !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("err = %v, want INVALID_REQUEST", err)
	}
}
