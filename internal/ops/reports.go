package ops

import (
	"context"
	"database/sql"

	"github.com/sproutnotes/sprout/internal/idea"
	"github.com/sproutnotes/sprout/internal/llm"
)

// ViabilityReport generates a business viability report and persists it
// as the idea's analysis, so the report survives navigating away.
func ViabilityReport(ctx context.Context, database *sql.DB, advisor *Advisor, id string) (*idea.Idea, error) {
	current, err := Fetch(database, id)
	if err != nil {
		return nil, err
	}

	text, err := advisor.Complete(ctx, viabilityPrompt(current), llm.Options{HighEffort: true})
	if err != nil {
		return nil, err
	}

	return Apply(database, id, nil, func(i *idea.Idea) {
		i.Analysis = text
	})
}

// CompetitorReport generates a competitor landscape report. The result
// is returned to the caller only; it is not persisted.
func CompetitorReport(ctx context.Context, database *sql.DB, advisor *Advisor, id string) (string, error) {
	current, err := Fetch(database, id)
	if err != nil {
		return "", err
	}

	return advisor.Complete(ctx, competitorPrompt(current), llm.Options{HighEffort: true})
}
