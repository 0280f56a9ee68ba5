package ops

import (
	"database/sql"

	"github.com/sproutnotes/sprout/internal/db"
	"github.com/sproutnotes/sprout/internal/errors"
	"github.com/sproutnotes/sprout/internal/idea"
)

// CreateFolder stores a new folder. Names must be non-empty; duplicate
// names are allowed on this path (only bulk assignment deduplicates).
func CreateFolder(database *sql.DB, name string) (*idea.Folder, error) {
	name = cleanString(name)
	if name == "" {
		return nil, errors.NewInvalidRequest("folder name is required")
	}

	id, err := newID()
	if err != nil {
		return nil, err
	}

	f := &idea.Folder{ID: id, Name: name, Timestamp: nowMillis()}
	if err := db.PutFolder(database, f); err != nil {
		return nil, err
	}
	return f, nil
}

// ListFolders returns all folders.
func ListFolders(database *sql.DB) ([]idea.Folder, error) {
	return db.ListFolders(database)
}

// DeleteFolder removes a folder without touching the ideas inside it;
// they show up as uncategorized from then on.
func DeleteFolder(database *sql.DB, id string) error {
	if id == "" {
		return errors.NewInvalidRequest("id is required")
	}
	return db.DeleteFolder(database, id)
}

// AssignFolder moves an idea into a folder, or clears the assignment
// when folderID is empty. Unlike title and details edits this persists
// immediately, never through the autosave debounce. A non-empty target
// must exist.
func AssignFolder(database *sql.DB, ideaID, folderID string) (*idea.Idea, error) {
	if folderID != "" {
		if _, err := db.GetFolder(database, folderID); err != nil {
			return nil, err
		}
	}

	return Apply(database, ideaID, nil, func(i *idea.Idea) {
		i.FolderID = folderID
	})
}

// Suggestion is one folder grouping proposed by smart organize. Name
// and at least one idea id are mandatory; suggestions missing either
// are dropped before they reach BulkAssign.
type Suggestion struct {
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description"`
	IdeaIDs     []string `json:"ideaIds" validate:"required,min=1,dive,required"`
}

// BulkAssignResult reports what one applied suggestion actually did.
type BulkAssignResult struct {
	Folder    idea.Folder `json:"folder"`
	Requested int         `json:"requested"`
	Updated   int         `json:"updated"`
	Created   bool        `json:"created"`
}

// BulkAssign applies one suggestion: find-or-create the named folder
// (case-insensitive match, so applying the same suggestion twice reuses
// the folder) and move each listed idea into it. Ids that no longer
// exist are skipped; Updated counts only the moves that landed.
func BulkAssign(database *sql.DB, suggestion Suggestion) (*BulkAssignResult, error) {
	name := cleanString(suggestion.Name)
	if name == "" {
		return nil, errors.NewInvalidRequest("folder name is required")
	}
	if len(suggestion.IdeaIDs) == 0 {
		return nil, errors.NewInvalidRequest("at least one idea id is required")
	}

	folder, err := db.FindFolderByName(database, name)
	created := false
	if err != nil {
		if !errors.Is(err, errors.ErrNotFound) {
			return nil, err
		}
		folder, err = CreateFolder(database, name)
		if err != nil {
			return nil, err
		}
		created = true
	}

	result := &BulkAssignResult{
		Folder:    *folder,
		Requested: len(suggestion.IdeaIDs),
		Created:   created,
	}
	for _, id := range suggestion.IdeaIDs {
		_, err := Apply(database, id, nil, func(i *idea.Idea) {
			i.FolderID = folder.ID
		})
		if err != nil {
			if errors.Is(err, errors.ErrNotFound) {
				continue
			}
			return nil, err
		}
		result.Updated++
	}
	return result, nil
}
