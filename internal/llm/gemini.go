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

const (
	defaultGeminiBaseURL = "https://generativelanguage.googleapis.com"

	geminiModel           = "gemini-flash-latest"
	geminiHighEffortModel = "gemini-2.0-flash-exp"
)

// Gemini implements Provider using the Google generative language API.
type Gemini struct {
	APIKey string

	// BaseURL defaults to the public API host; tests override it.
	BaseURL string

	// HTTPClient is used for API calls. If nil, a default client is used.
	HTTPClient *http.Client
}

func (g *Gemini) Name() string { return "gemini" }

// geminiRequest mirrors the generateContent payload:
// {contents:[{parts:[{text: prompt}]}]} with an optional
// generationConfig.responseMimeType for structured mode.
type geminiRequest struct {
	Contents         []geminiContent  `json:"contents"`
	GenerationConfig *geminiGenConfig `json:"generationConfig,omitempty"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenConfig struct {
	ResponseMimeType string `json:"responseMimeType,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Complete calls models/{model}:generateContent and returns the first
// candidate's text.
func (g *Gemini) Complete(ctx context.Context, prompt string, opts Options) (string, error) {
	if strings.TrimSpace(g.APIKey) == "" {
		return "", errors.NewProviderError("gemini", fmt.Errorf("gemini api key is not configured"))
	}

	model := geminiModel
	if opts.HighEffort {
		model = geminiHighEffortModel
	}

	payload := geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
	}
	if opts.Structured {
		payload.GenerationConfig = &geminiGenConfig{ResponseMimeType: "application/json"}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", errors.NewInternal(err)
	}

	base := g.BaseURL
	if base == "" {
		base = defaultGeminiBaseURL
	}
	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", base, model, g.APIKey)

	ctx, cancel := withDeadline(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", errors.NewInternal(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := httpClientOr(g.HTTPClient).Do(req)
	if err != nil {
		return "", errors.NewProviderError("gemini", err)
	}
	defer resp.Body.Close()

	respBody, _ := readAllLimit(resp.Body, 4_000_000)

	var parsed geminiResponse
	_ = json.Unmarshal(respBody, &parsed)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := "Gemini API error"
		if parsed.Error != nil && parsed.Error.Message != "" {
			msg = parsed.Error.Message
		}
		return "", errors.NewProviderError("gemini", fmt.Errorf("%s (status %d)", msg, resp.StatusCode))
	}

	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", errors.NewProviderError("gemini", fmt.Errorf("response contained no candidates"))
	}

	return parsed.Candidates[0].Content.Parts[0].Text, nil
}
