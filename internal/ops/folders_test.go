package ops

import (
	"testing"

	"github.com/sproutnotes/sprout/internal/errors"
)

func TestCreateFolder_RequiresName(t *testing.T) {
	database := testDB(t)

	_, err := CreateFolder(database, "  ")
	if !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("err = %v, want INVALID_REQUEST", err)
	}
}

func TestAssignFolder_MoveAndClear(t *testing.T) {
	database := testDB(t)
	created := mustCreate(t, database, "T", "")

	folder, err := CreateFolder(database, "Hardware")
	if err != nil {
		t.Fatalf("CreateFolder failed: %v", err)
	}

	out, err := AssignFolder(database, created.ID, folder.ID)
	if err != nil {
		t.Fatalf("AssignFolder failed: %v", err)
	}
	if out.FolderID != folder.ID {
		t.Errorf("FolderID = %q", out.FolderID)
	}

	out, err = AssignFolder(database, created.ID, "")
	if err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	if out.FolderID != "" {
		t.Errorf("FolderID = %q, want cleared", out.FolderID)
	}
}

func TestAssignFolder_TargetMustExist(t *testing.T) {
	database := testDB(t)
	created := mustCreate(t, database, "T", "")

	_, err := AssignFolder(database, created.ID, "no-such-folder")
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("err = %v, want NOT_FOUND", err)
	}
}

func TestBulkAssign_CreatesFolderAndMovesIdeas(t *testing.T) {
	database := testDB(t)
	a := mustCreate(t, database, "A", "")
	b := mustCreate(t, database, "B", "")

	result, err := BulkAssign(database, Suggestion{
		Name:    "Energy",
		IdeaIDs: []string{a.ID, b.ID},
	})
	if err != nil {
		t.Fatalf("BulkAssign failed: %v", err)
	}

	if !result.Created {
		t.Error("Created = false, want new folder")
	}
	if result.Requested != 2 || result.Updated != 2 {
		t.Errorf("Requested/Updated = %d/%d, want 2/2", result.Requested, result.Updated)
	}

	for _, id := range []string{a.ID, b.ID} {
		stored, err := Fetch(database, id)
		if err != nil {
			t.Fatalf("Fetch failed: %v", err)
		}
		if stored.FolderID != result.Folder.ID {
			t.Errorf("FolderID = %q, want %q", stored.FolderID, result.Folder.ID)
		}
	}
}

func TestBulkAssign_ReusesFolderCaseInsensitively(t *testing.T) {
	database := testDB(t)
	a := mustCreate(t, database, "A", "")

	first, err := BulkAssign(database, Suggestion{Name: "Energy", IdeaIDs: []string{a.ID}})
	if err != nil {
		t.Fatalf("first BulkAssign failed: %v", err)
	}

	second, err := BulkAssign(database, Suggestion{Name: "ENERGY", IdeaIDs: []string{a.ID}})
	if err != nil {
		t.Fatalf("second BulkAssign failed: %v", err)
	}

	if second.Created {
		t.Error("Created = true, want reuse of existing folder")
	}
	if second.Folder.ID != first.Folder.ID {
		t.Errorf("Folder.ID = %q, want %q", second.Folder.ID, first.Folder.ID)
	}

	folders, err := ListFolders(database)
	if err != nil {
		t.Fatalf("ListFolders failed: %v", err)
	}
	if len(folders) != 1 {
		t.Errorf("len(folders) = %d, want 1 (no case-variant duplicates)", len(folders))
	}
}

func TestBulkAssign_SkipsMissingIdeas(t *testing.T) {
	database := testDB(t)
	a := mustCreate(t, database, "A", "")

	result, err := BulkAssign(database, Suggestion{
		Name:    "Energy",
		IdeaIDs: []string{a.ID, "vanished"},
	})
	if err != nil {
		t.Fatalf("BulkAssign failed: %v", err)
	}

	if result.Requested != 2 {
		t.Errorf("Requested = %d, want 2", result.Requested)
	}
	if result.Updated != 1 {
		t.Errorf("Updated = %d, want 1 (missing id skipped, not counted)", result.Updated)
	}
}

func TestBulkAssign_Validation(t *testing.T) {
	database := testDB(t)

	if _, err := BulkAssign(database, Suggestion{Name: "", IdeaIDs: []string{"x"}}); !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("err = %v, want INVALID_REQUEST for empty name", err)
	}
	if _, err := BulkAssign(database, Suggestion{Name: "X"}); !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("err = %v, want INVALID_REQUEST for no ids", err)
	}
}
