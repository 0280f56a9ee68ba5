package ops

import (
	"context"
	"database/sql"
	"strings"

	"github.com/sproutnotes/sprout/internal/errors"
	"github.com/sproutnotes/sprout/internal/idea"
	"github.com/sproutnotes/sprout/internal/llm"
)

type chatSummary struct {
	Title   string `json:"title"`
	Details string `json:"details"`
}

// SummarizeChat distills a free-form brainstorming transcript into a
// new stored idea. A provider failure propagates, but a completion that
// comes back unparseable degrades instead of failing: the idea is still
// captured, titled "Untitled Idea" with the raw transcript as details,
// so the user's conversation is never lost to a formatting hiccup.
func SummarizeChat(ctx context.Context, database *sql.DB, advisor *Advisor, transcript string) (*idea.Idea, error) {
	if strings.TrimSpace(transcript) == "" {
		return nil, errors.NewInvalidRequest("transcript is required")
	}

	text, err := advisor.Complete(ctx, summarizePrompt(transcript), llm.Options{Structured: true})
	if err != nil {
		return nil, err
	}

	var summary chatSummary
	if err := llm.DecodeFirst(text, &summary); err != nil || cleanString(summary.Title) == "" {
		summary = chatSummary{Title: "Untitled Idea", Details: transcript}
	}

	return Create(database, CreateInput{
		Title:   summary.Title,
		Details: summary.Details,
	})
}
