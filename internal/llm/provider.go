// Package llm is the completion boundary: a single-shot
// request/response call to an LLM provider, treated as an opaque
// function from prompt to text. Providers may fail (PROVIDER_ERROR) or
// return malformed content; structured call sites recover the first
// balanced JSON payload via DecodeFirst.
package llm

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/sproutnotes/sprout/internal/errors"
	"github.com/sproutnotes/sprout/internal/idea"
)

// Options tune a single completion call.
type Options struct {
	// Structured asks the provider for raw JSON output where the API
	// supports it. Callers still must tolerate wrapper text around the
	// payload.
	Structured bool

	// HighEffort selects a slower, more capable model where the
	// provider distinguishes one.
	HighEffort bool
}

// Provider is the outbound port for completion providers. Operations
// must not depend on a specific implementation; they talk only to this
// interface.
type Provider interface {
	// Name is a stable identifier like "gemini" or "ollama".
	Name() string

	// Complete performs a non-streaming completion.
	Complete(ctx context.Context, prompt string, opts Options) (string, error)
}

// ForSettings returns the provider selected by the settings value.
func ForSettings(s idea.Settings) (Provider, error) {
	switch s.Provider {
	case idea.ProviderGemini:
		return &Gemini{APIKey: s.GeminiKey}, nil
	case idea.ProviderOllama:
		return &Ollama{Endpoint: s.OllamaEndpoint, Model: s.OllamaModel}, nil
	default:
		return nil, errors.NewInvalidRequest("unknown provider: " + s.Provider)
	}
}

// defaultHTTPClient is shared by adapters that don't inject their own.
// No client-level timeout: call deadlines come from the context.
var defaultHTTPClient = &http.Client{}

func httpClientOr(c *http.Client) *http.Client {
	if c != nil {
		return c
	}
	return defaultHTTPClient
}

// readAllLimit reads at most limit bytes from r.
func readAllLimit(r io.Reader, limit int64) ([]byte, error) {
	return io.ReadAll(io.LimitReader(r, limit))
}

// providerTimeout guards against callers that pass a context without a
// deadline; a hung provider should not hang the process forever.
const providerTimeout = 5 * time.Minute

func withDeadline(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, providerTimeout)
}
