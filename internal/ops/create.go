package ops

import (
	"database/sql"

	"github.com/sproutnotes/sprout/internal/db"
	"github.com/sproutnotes/sprout/internal/errors"
	"github.com/sproutnotes/sprout/internal/idea"
)

// NewDraft returns a transient idea: it has an id and creation time
// but no store row. It becomes persisted on the first explicit field
// edit (through Autosave) or the first AI-driven mutation (through
// Apply with the draft as seed). A draft abandoned without edits
// simply vanishes; there is no reverse transition.
func NewDraft() (*idea.Idea, error) {
	id, err := newID()
	if err != nil {
		return nil, err
	}

	draft := &idea.Idea{
		ID:        id,
		Title:     "New Idea",
		Details:   "",
		Timestamp: nowMillis(),
		Status:    idea.StatusDraft,
	}
	draft.Normalize()
	return draft, nil
}

// CreateInput contains parameters for the Create operation.
type CreateInput struct {
	Title    string
	Details  string
	Status   idea.Status // default: draft
	FolderID string      // optional
}

// Create stores a new idea immediately (the explicit-create path used
// by the REST POST, the CLI, and accepted generator output).
func Create(database *sql.DB, input CreateInput) (*idea.Idea, error) {
	if cleanString(input.Title) == "" {
		return nil, errors.NewInvalidRequest("title is required")
	}
	if input.Status != "" && !input.Status.Valid() {
		return nil, errors.NewInvalidRequest("status must be one of: draft, validation, mvp, completed, archived")
	}

	id, err := newID()
	if err != nil {
		return nil, err
	}

	i := &idea.Idea{
		ID:        id,
		Title:     input.Title,
		Details:   input.Details,
		Timestamp: nowMillis(),
		Status:    input.Status,
		FolderID:  input.FolderID,
	}
	i.Normalize()

	if err := db.PutIdea(database, i); err != nil {
		return nil, err
	}
	return i, nil
}

// Commit persists a transient draft as-is. Committing twice is
// harmless (put is idempotent).
func Commit(database *sql.DB, draft *idea.Idea) error {
	if draft == nil || draft.ID == "" {
		return errors.NewInvalidRequest("draft must have an id")
	}
	draft.Normalize()
	return db.PutIdea(database, draft)
}
