package engine

import (
	"encoding/json"
	"errors"
	"strings"
)

// stripFences removes a leading markdown code fence (with or without a
// language tag) and a trailing fence, then trims whitespace.
func stripFences(text string) string {
	t := strings.TrimSpace(text)
	if strings.HasPrefix(t, "```") {
		if idx := strings.IndexByte(t, '\n'); idx >= 0 {
			t = t[idx+1:]
		} else {
			t = strings.TrimPrefix(t, "```json")
			t = strings.TrimPrefix(t, "```")
		}
	}
	t = strings.TrimSuffix(strings.TrimSpace(t), "```")
	return strings.TrimSpace(t)
}

// ExtractJSON coerces a model completion into valid JSON. Recovery order:
// fence stripping, strict parse, greedy array span (first '[' to last ']'),
// greedy object span (first '{' to last '}'). No strategy ever substitutes a
// default value; if nothing parses, the caller gets a *ParseError carrying
// the raw text.
func ExtractJSON(text string) (json.RawMessage, error) {
	cleaned := stripFences(text)

	if raw, ok := tryParse(cleaned); ok {
		return raw, nil
	}
	if raw, ok := trySpan(cleaned, '[', ']'); ok {
		IncrParseRecoveries()
		return raw, nil
	}
	if raw, ok := trySpan(cleaned, '{', '}'); ok {
		IncrParseRecoveries()
		return raw, nil
	}
	IncrParseFailures()
	return nil, &ParseError{Raw: text, Err: errors.New("no JSON value found in completion")}
}

// ExtractInto extracts JSON from a completion and decodes it into v.
func ExtractInto(text string, v any) error {
	raw, err := ExtractJSON(text)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return &ParseError{Raw: text, Err: err}
	}
	return nil
}

func tryParse(s string) (json.RawMessage, bool) {
	if s == "" {
		return nil, false
	}
	if !json.Valid([]byte(s)) {
		return nil, false
	}
	return json.RawMessage(s), true
}

// trySpan parses the widest substring bounded by open and close. Greedy on
// purpose: prose before or after the JSON is common, nested delimiters inside
// strings are not worth a real parser here.
func trySpan(s string, open, close byte) (json.RawMessage, bool) {
	start := strings.IndexByte(s, open)
	end := strings.LastIndexByte(s, close)
	if start < 0 || end <= start {
		return nil, false
	}
	return tryParse(s[start : end+1])
}
