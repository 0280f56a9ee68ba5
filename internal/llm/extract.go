package llm

import (
	"encoding/json"

	"github.com/sproutnotes/sprout/internal/errors"
)

// FirstJSON returns the first balanced top-level JSON array or object
// substring in text. Models often wrap structured output in prose or
// markdown fences despite instructions; this recovers the payload.
func FirstJSON(text string) (string, error) {
	for start := 0; start < len(text); start++ {
		c := text[start]
		if c != '[' && c != '{' {
			continue
		}
		if end, ok := scanBalanced(text, start); ok {
			return text[start : end+1], nil
		}
	}
	return "", errors.NewMalformedCompletion("completion contained no JSON payload")
}

// scanBalanced scans from an opening bracket at start and returns the
// index of its matching close, tracking string literals and escapes.
func scanBalanced(text string, start int) (int, bool) {
	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(text); i++ {
		c := text[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '[', '{':
			depth++
		case ']', '}':
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}

// DecodeFirst extracts the first balanced JSON payload from text and
// unmarshals it into v. Both a missing payload and an unparseable one
// surface as MALFORMED_COMPLETION — a recoverable error for the user,
// never a crash.
func DecodeFirst(text string, v any) error {
	payload, err := FirstJSON(text)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(payload), v); err != nil {
		return errors.NewMalformedCompletion("completion JSON did not parse: " + err.Error())
	}
	return nil
}
