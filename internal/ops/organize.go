package ops

import (
	"context"
	"database/sql"

	"github.com/go-playground/validator/v10"

	"github.com/sproutnotes/sprout/internal/db"
	"github.com/sproutnotes/sprout/internal/errors"
	"github.com/sproutnotes/sprout/internal/llm"
)

var validate = validator.New()

// SuggestFolders asks the advisor to group every stored idea into
// thematic folders. Suggestions are returned for review; nothing is
// created or moved until the caller applies them through BulkAssign.
// Individually malformed suggestions (no name, no ids) are dropped; the
// completion only fails as a whole when nothing usable remains.
func SuggestFolders(ctx context.Context, database *sql.DB, advisor *Advisor) ([]Suggestion, error) {
	ideas, err := db.ListIdeas(database)
	if err != nil {
		return nil, err
	}
	if len(ideas) == 0 {
		return nil, errors.NewInvalidRequest("no ideas to organize")
	}

	text, err := advisor.Complete(ctx, organizePrompt(ideas), llm.Options{Structured: true, HighEffort: true})
	if err != nil {
		return nil, err
	}

	var raw []Suggestion
	if err := llm.DecodeFirst(text, &raw); err != nil {
		return nil, err
	}

	usable := make([]Suggestion, 0, len(raw))
	for _, s := range raw {
		if validate.Struct(s) != nil {
			continue
		}
		usable = append(usable, s)
	}
	if len(usable) == 0 {
		return nil, errors.NewMalformedCompletion("completion contained no usable folder suggestions")
	}
	return usable, nil
}

// ApplySuggestions runs BulkAssign for each suggestion in order,
// stopping at the first store failure.
func ApplySuggestions(database *sql.DB, suggestions []Suggestion) ([]BulkAssignResult, error) {
	if len(suggestions) == 0 {
		return nil, errors.NewInvalidRequest("at least one suggestion is required")
	}

	results := make([]BulkAssignResult, 0, len(suggestions))
	for _, s := range suggestions {
		r, err := BulkAssign(database, s)
		if err != nil {
			return nil, err
		}
		results = append(results, *r)
	}
	return results, nil
}
