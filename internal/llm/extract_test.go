package llm

import (
	"testing"

	"github.com/sproutnotes/sprout/internal/errors"
)

func TestFirstJSON_Bare(t *testing.T) {
	got, err := FirstJSON(`{"a":1}`)
	if err != nil {
		t.Fatalf("FirstJSON failed: %v", err)
	}
	if got != `{"a":1}` {
		t.Errorf("got %q", got)
	}
}

func TestFirstJSON_MarkdownFence(t *testing.T) {
	text := "Here you go:\n```json\n[{\"title\":\"x\"}]\n```\nHope that helps!"
	got, err := FirstJSON(text)
	if err != nil {
		t.Fatalf("FirstJSON failed: %v", err)
	}
	if got != `[{"title":"x"}]` {
		t.Errorf("got %q", got)
	}
}

func TestFirstJSON_Nested(t *testing.T) {
	got, err := FirstJSON(`prefix {"a":{"b":[1,2,{"c":3}]}} suffix`)
	if err != nil {
		t.Fatalf("FirstJSON failed: %v", err)
	}
	if got != `{"a":{"b":[1,2,{"c":3}]}}` {
		t.Errorf("got %q", got)
	}
}

func TestFirstJSON_BracketsInsideStrings(t *testing.T) {
	got, err := FirstJSON(`{"a":"}] tricky {"}`)
	if err != nil {
		t.Fatalf("FirstJSON failed: %v", err)
	}
	if got != `{"a":"}] tricky {"}` {
		t.Errorf("got %q", got)
	}
}

func TestFirstJSON_EscapedQuoteInString(t *testing.T) {
	got, err := FirstJSON(`{"a":"he said \"}\" ok"}`)
	if err != nil {
		t.Fatalf("FirstJSON failed: %v", err)
	}
	if got != `{"a":"he said \"}\" ok"}` {
		t.Errorf("got %q", got)
	}
}

func TestFirstJSON_NoPayload(t *testing.T) {
	_, err := FirstJSON("sorry, I cannot help with that")
	if !errors.Is(err, errors.ErrMalformedCompletion) {
		t.Errorf("err = %v, want MALFORMED_COMPLETION", err)
	}
}

func TestFirstJSON_UnbalancedSkipped(t *testing.T) {
	// The first opener never closes; the later balanced object wins.
	got, err := FirstJSON(`{"broken": [1,2 ... {"ok":true}`)
	if err != nil {
		t.Fatalf("FirstJSON failed: %v", err)
	}
	if got != `{"ok":true}` {
		t.Errorf("got %q", got)
	}
}

func TestDecodeFirst_Array(t *testing.T) {
	var out []struct {
		Title string `json:"title"`
	}
	err := DecodeFirst("```json\n[{\"title\":\"a\"},{\"title\":\"b\"}]\n```", &out)
	if err != nil {
		t.Fatalf("DecodeFirst failed: %v", err)
	}
	if len(out) != 2 || out[0].Title != "a" {
		t.Errorf("out = %+v", out)
	}
}

func TestDecodeFirst_TypeMismatch(t *testing.T) {
	var out []string
	err := DecodeFirst(`{"not":"an array"}`, &out)
	if !errors.Is(err, errors.ErrMalformedCompletion) {
		t.Errorf("err = %v, want MALFORMED_COMPLETION", err)
	}
}
