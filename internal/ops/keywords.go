package ops

import (
	"context"
	"database/sql"
	"strings"

	"github.com/sproutnotes/sprout/internal/idea"
	"github.com/sproutnotes/sprout/internal/llm"
)

// ExtractKeywords asks the advisor for concept keywords and replaces
// the idea's keyword set with the result. The completion is plain text
// (comma-separated), not structured JSON.
func ExtractKeywords(ctx context.Context, database *sql.DB, advisor *Advisor, id string) (*idea.Idea, error) {
	current, err := Fetch(database, id)
	if err != nil {
		return nil, err
	}

	text, err := advisor.Complete(ctx, keywordsPrompt(current), llm.Options{})
	if err != nil {
		return nil, err
	}

	keywords := parseKeywords(text)
	return Apply(database, id, nil, func(i *idea.Idea) {
		i.Keywords = keywords
	})
}

// parseKeywords splits a comma-separated completion into trimmed
// keywords, dropping empties and stray quoting.
func parseKeywords(text string) []string {
	out := []string{}
	for _, part := range strings.Split(text, ",") {
		kw := strings.TrimSpace(part)
		kw = strings.Trim(kw, `"'`)
		kw = strings.TrimSpace(kw)
		if kw != "" {
			out = append(out, kw)
		}
	}
	return out
}
