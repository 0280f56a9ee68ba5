package ops

import (
	"database/sql"

	"github.com/sproutnotes/sprout/internal/db"
	"github.com/sproutnotes/sprout/internal/errors"
	"github.com/sproutnotes/sprout/internal/idea"
)

// UpdateInput contains field patches for the Update operation. Nil
// fields are left untouched, so concurrent updates to disjoint fields
// both land.
type UpdateInput struct {
	ID             string
	Title          *string
	Details        *string
	Analysis       *string
	Status         *idea.Status
	Keywords       *[]string
	RelatedIdeaIDs *[]string
}

// Update applies a field-scoped patch against the latest stored record.
func Update(database *sql.DB, input UpdateInput) (*idea.Idea, error) {
	if input.ID == "" {
		return nil, errors.NewInvalidRequest("id is required")
	}
	if input.Status != nil && !input.Status.Valid() {
		return nil, errors.NewInvalidRequest("status must be one of: draft, validation, mvp, completed, archived")
	}

	return Apply(database, input.ID, nil, func(i *idea.Idea) {
		if input.Title != nil {
			i.Title = *input.Title
		}
		if input.Details != nil {
			i.Details = *input.Details
		}
		if input.Analysis != nil {
			i.Analysis = *input.Analysis
		}
		if input.Status != nil {
			i.Status = *input.Status
		}
		if input.Keywords != nil {
			i.Keywords = append([]string(nil), (*input.Keywords)...)
		}
		if input.RelatedIdeaIDs != nil {
			i.RelatedIdeaIDs = append([]string(nil), (*input.RelatedIdeaIDs)...)
		}
	})
}

// Replace overwrites an existing record with a full value (REST PUT
// semantics: 404 if absent — the client falls back to POST). The
// stored creation timestamp and id win over the supplied ones.
func Replace(database *sql.DB, value *idea.Idea) (*idea.Idea, error) {
	if value == nil || value.ID == "" {
		return nil, errors.NewInvalidRequest("id is required")
	}

	return Apply(database, value.ID, nil, func(i *idea.Idea) {
		created := i.Timestamp
		*i = *value.Clone()
		i.Timestamp = created
		i.Normalize()
	})
}

// Put upserts a full record, used by backup import and the REST POST
// fallback when PUT 404s.
func Put(database *sql.DB, value *idea.Idea) error {
	if value == nil || value.ID == "" {
		return errors.NewInvalidRequest("id is required")
	}
	value.Normalize()
	return db.PutIdea(database, value)
}
