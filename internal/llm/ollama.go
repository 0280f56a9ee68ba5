package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/sproutnotes/sprout/internal/errors"
)

// Ollama implements Provider against a local Ollama server's
// /api/generate endpoint.
type Ollama struct {
	// Endpoint is the server base URL, e.g. "http://localhost:11434".
	Endpoint string

	// Model is the model name, e.g. "llama3".
	Model string

	// HTTPClient is used for API calls. If nil, a default client is used.
	HTTPClient *http.Client
}

func (o *Ollama) Name() string { return "ollama" }

type ollamaRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
	Format string `json:"format,omitempty"`
}

type ollamaResponse struct {
	Response string `json:"response"`
	Error    string `json:"error,omitempty"`
}

// Complete posts {model, prompt, stream:false} and returns the
// response text. Structured mode sets format:"json"; local models have
// no high-effort variant, so that option is ignored.
func (o *Ollama) Complete(ctx context.Context, prompt string, opts Options) (string, error) {
	endpoint := strings.TrimRight(o.Endpoint, "/")
	if endpoint == "" {
		return "", errors.NewProviderError("ollama", fmt.Errorf("ollama endpoint is not configured"))
	}

	payload := ollamaRequest{
		Model:  o.Model,
		Prompt: prompt,
		Stream: false,
	}
	if opts.Structured {
		payload.Format = "json"
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", errors.NewInternal(err)
	}

	ctx, cancel := withDeadline(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", errors.NewInternal(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := httpClientOr(o.HTTPClient).Do(req)
	if err != nil {
		return "", errors.NewProviderError("ollama", err)
	}
	defer resp.Body.Close()

	respBody, _ := readAllLimit(resp.Body, 4_000_000)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", errors.NewProviderError("ollama", fmt.Errorf("Ollama API error (status %d)", resp.StatusCode))
	}

	var parsed ollamaResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", errors.NewProviderError("ollama", fmt.Errorf("unparseable response: %v", err))
	}
	if parsed.Error != "" {
		return "", errors.NewProviderError("ollama", fmt.Errorf("%s", parsed.Error))
	}

	return parsed.Response, nil
}
