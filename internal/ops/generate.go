package ops

import (
	"context"
	"fmt"

	"github.com/sproutnotes/sprout/internal/errors"
	"github.com/sproutnotes/sprout/internal/llm"
)

// GeneratedIdea is one candidate returned by idea generation. Only the
// title is mandatory; a candidate without one is useless to the user.
type GeneratedIdea struct {
	Title   string `json:"title" validate:"required"`
	Details string `json:"details"`
}

// GenerateIdeas asks the advisor to brainstorm candidates for a topic.
// Candidates are returned transient — nothing is persisted until the
// caller captures one (or asks SelectMVP and commits the pick).
func GenerateIdeas(ctx context.Context, advisor *Advisor, topic string) ([]GeneratedIdea, error) {
	topic = cleanString(topic)
	if topic == "" {
		return nil, errors.NewInvalidRequest("topic is required")
	}

	text, err := advisor.Complete(ctx, generatePrompt(topic), llm.Options{Structured: true})
	if err != nil {
		return nil, err
	}

	var candidates []GeneratedIdea
	if err := llm.DecodeFirst(text, &candidates); err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, errors.NewMalformedCompletion("completion contained no idea candidates")
	}
	for n, c := range candidates {
		if cleanString(c.Title) == "" {
			return nil, errors.NewMalformedCompletion(fmt.Sprintf("candidate %d has no title", n))
		}
	}
	return candidates, nil
}

// MVPChoice is the advisor's pick among generated candidates.
type MVPChoice struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

// SelectMVP asks the advisor which candidate to build first. The
// returned index is validated against the candidate list; an
// out-of-range pick is a malformed completion, not a crash.
func SelectMVP(ctx context.Context, advisor *Advisor, candidates []GeneratedIdea) (*MVPChoice, error) {
	if len(candidates) == 0 {
		return nil, errors.NewInvalidRequest("at least one candidate is required")
	}

	text, err := advisor.Complete(ctx, mvpPrompt(candidates), llm.Options{Structured: true, HighEffort: true})
	if err != nil {
		return nil, err
	}

	var choice MVPChoice
	if err := llm.DecodeFirst(text, &choice); err != nil {
		return nil, err
	}
	if choice.Index < 0 || choice.Index >= len(candidates) {
		return nil, errors.NewMalformedCompletion(fmt.Sprintf("chosen index %d is out of range", choice.Index))
	}
	return &choice, nil
}
