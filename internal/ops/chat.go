package ops

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"

	"github.com/sproutnotes/sprout/internal/errors"
	"github.com/sproutnotes/sprout/internal/idea"
	"github.com/sproutnotes/sprout/internal/llm"
)

// SendMessageInput contains the parameters for one chat turn.
type SendMessageInput struct {
	ID      string
	Message string
}

// SendMessageOutput is the result of one chat turn: the persisted idea
// plus the reply message that was appended (assistant on success,
// system on provider failure).
type SendMessageOutput struct {
	Idea  *idea.Idea        `json:"idea"`
	Reply *idea.ChatMessage `json:"reply"`
}

// SendMessage runs one advisor chat turn. The user message is appended
// and persisted before the completion call, so it survives even if the
// provider is down. Exactly one reply is then appended: the assistant
// text on success, or a system message carrying the failure inline. A
// provider failure is therefore NOT an error from this operation — the
// system message is its surface.
func SendMessage(ctx context.Context, database *sql.DB, advisor *Advisor, input SendMessageInput) (*SendMessageOutput, error) {
	msg := strings.TrimSpace(input.Message)
	if msg == "" {
		return nil, errors.NewInvalidRequest("message is required")
	}

	userMsg := idea.ChatMessage{
		ID:        uuid.NewString(),
		Role:      idea.RoleUser,
		Content:   msg,
		Timestamp: nowMillis(),
	}

	current, err := Apply(database, input.ID, nil, func(i *idea.Idea) {
		i.ChatHistory = append(i.ChatHistory, userMsg)
	})
	if err != nil {
		return nil, err
	}

	// History up to but not including the message being sent.
	prior := current.ChatHistory[:len(current.ChatHistory)-1]
	text, err := advisor.Complete(ctx, chatPrompt(current, prior, msg), llm.Options{})

	reply := idea.ChatMessage{
		ID:        uuid.NewString(),
		Role:      idea.RoleAssistant,
		Content:   text,
		Timestamp: nowMillis(),
	}
	if err != nil {
		reply.Role = idea.RoleSystem
		reply.Content = "The advisor is unavailable: " + err.Error()
	}

	updated, err := Apply(database, input.ID, nil, func(i *idea.Idea) {
		i.ChatHistory = append(i.ChatHistory, reply)
	})
	if err != nil {
		return nil, err
	}

	return &SendMessageOutput{Idea: updated, Reply: &reply}, nil
}

// UndoLastTurn removes the most recent user message and everything
// after it, rolling the conversation back one exchange.
func UndoLastTurn(database *sql.DB, id string) (*idea.Idea, error) {
	var empty bool
	updated, err := Apply(database, id, nil, func(i *idea.Idea) {
		last := -1
		for n, msg := range i.ChatHistory {
			if msg.Role == idea.RoleUser {
				last = n
			}
		}
		if last < 0 {
			empty = true
			return
		}
		i.ChatHistory = i.ChatHistory[:last]
	})
	if err != nil {
		return nil, err
	}
	if empty {
		return nil, errors.NewInvalidRequest("no user message to undo")
	}
	return updated, nil
}

// GeneratePlan asks the advisor for an implementation plan and stores
// it as the idea's analysis, advancing status to validation. Unlike
// chat, a provider failure here is returned to the caller and nothing
// is persisted.
func GeneratePlan(ctx context.Context, database *sql.DB, advisor *Advisor, id string) (*idea.Idea, error) {
	current, err := Fetch(database, id)
	if err != nil {
		return nil, err
	}

	text, err := advisor.Complete(ctx, planPrompt(current), llm.Options{HighEffort: true})
	if err != nil {
		return nil, err
	}

	return Apply(database, id, nil, func(i *idea.Idea) {
		i.Analysis = text
		if i.Status == idea.StatusDraft {
			i.Status = idea.StatusValidation
		}
	})
}
