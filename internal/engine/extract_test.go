package engine

import (
	"errors"
	"testing"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "strict object",
			raw:  `{"title": "hello"}`,
			want: `{"title": "hello"}`,
		},
		{
			name: "strict array",
			raw:  `[1, 2, 3]`,
			want: `[1, 2, 3]`,
		},
		{
			name: "fenced with language tag",
			raw:  "```json\n{\"a\": 1}\n```",
			want: `{"a": 1}`,
		},
		{
			name: "fenced without language tag",
			raw:  "```\n[\"x\"]\n```",
			want: `["x"]`,
		},
		{
			name: "prose around object",
			raw:  `Here is your result: {"score": 9} Hope it helps!`,
			want: `{"score": 9}`,
		},
		{
			name: "prose around array",
			raw:  `Sure! ["one", "two"] Let me know.`,
			want: `["one", "two"]`,
		},
		{
			name: "array preferred over object",
			raw:  `[{"a": 1}, {"a": 2}]`,
			want: `[{"a": 1}, {"a": 2}]`,
		},
		{
			name: "fenced prose and array",
			raw:  "```json\nThe scripts are:\n[{\"title\": \"t\"}]\n```",
			want: `[{"title": "t"}]`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractJSON(tt.raw)
			if err != nil {
				t.Fatalf("ExtractJSON() error: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("ExtractJSON() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestExtractJSONFailure(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "plain prose", raw: "I could not produce the requested output."},
		{name: "empty", raw: ""},
		{name: "unbalanced braces", raw: `{"broken": `},
		{name: "fences only", raw: "```json\n```"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ExtractJSON(tt.raw)
			if err == nil {
				t.Fatal("ExtractJSON() succeeded, want *ParseError")
			}
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Errorf("error type = %T, want *ParseError", err)
			}
		})
	}
}

func TestExtractInto(t *testing.T) {
	var out []struct {
		Title string `json:"title"`
	}
	raw := "```json\n[{\"title\": \"first\"}, {\"title\": \"second\"}]\n```"
	if err := ExtractInto(raw, &out); err != nil {
		t.Fatalf("ExtractInto() error: %v", err)
	}
	if len(out) != 2 || out[0].Title != "first" {
		t.Errorf("ExtractInto() = %+v", out)
	}

	// Valid JSON of the wrong shape still fails with ParseError.
	var wrong []string
	err := ExtractInto(`{"title": "obj"}`, &wrong)
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Errorf("shape mismatch error = %T, want *ParseError", err)
	}
}

func TestStripFences(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "no fences", raw: "plain", want: "plain"},
		{name: "json fence", raw: "```json\nbody\n```", want: "body"},
		{name: "bare fence", raw: "```\nbody\n```", want: "body"},
		{name: "single line fence", raw: "```json body```", want: "body"},
		{name: "whitespace", raw: "  \n```json\nbody\n```  \n", want: "body"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stripFences(tt.raw); got != tt.want {
				t.Errorf("stripFences(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}
