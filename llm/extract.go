package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ExtractionError reports why no usable JSON object could be read from a
// model response.
type ExtractionError struct {
	Reason string
	Err    error
}

func (e *ExtractionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("extract json: %s: %v", e.Reason, e.Err)
	}
	return "extract json: " + e.Reason
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

const (
	reasonNoObject   = "no JSON object in response"
	reasonUnbalanced = "unterminated JSON object"
	reasonInvalid    = "invalid JSON object"
)

// FirstObject returns the first balanced {...} span of text. Braces inside
// JSON strings, including escaped quotes, do not count. An opening brace that
// is never closed is skipped in favor of the next one.
func FirstObject(text string) (string, error) {
	found := false
	for start := strings.IndexByte(text, '{'); start >= 0; {
		found = true
		if end, ok := balancedEnd(text, start); ok {
			return text[start : end+1], nil
		}
		next := strings.IndexByte(text[start+1:], '{')
		if next < 0 {
			break
		}
		start += next + 1
	}
	if !found {
		return "", &ExtractionError{Reason: reasonNoObject}
	}
	return "", &ExtractionError{Reason: reasonUnbalanced}
}

// balancedEnd returns the index of the brace closing the one at start.
func balancedEnd(text string, start int) (int, bool) {
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
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}

// ExtractJSON decodes the first JSON object embedded in text, which may be
// wrapped in prose or markdown fences.
func ExtractJSON[T any](text string) (T, error) {
	var out T

	obj, err := FirstObject(text)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal([]byte(obj), &out); err != nil {
		return out, &ExtractionError{Reason: reasonInvalid, Err: err}
	}
	return out, nil
}
