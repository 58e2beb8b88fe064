package studio

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/anatolykoptev/go_factory/internal/engine"
)

// repurposeScriptLimit caps how much of the source script feeds each
// conversion prompt.
const repurposeScriptLimit = 2000

// RepurposeInput is the input for repurpose.
type RepurposeInput struct {
	ScriptID int64    `json:"script_id"`
	Formats  []string `json:"formats"`
}

// RepurposeVariant is one converted output. Failed conversions carry Error
// instead of Content so one bad format does not sink the batch.
type RepurposeVariant struct {
	Format  string          `json:"format"`
	Content json.RawMessage `json:"content,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// RepurposeResult is the output for repurpose.
type RepurposeResult struct {
	ScriptID int64              `json:"script_id"`
	Title    string             `json:"title"`
	Variants []RepurposeVariant `json:"variants"`
}

// Repurpose converts a long-form script into the requested formats, one
// generation call per format. Valid formats: shorts, community, thread,
// blog, email.
func Repurpose(ctx context.Context, input RepurposeInput) (*RepurposeResult, error) {
	if input.ScriptID <= 0 {
		return nil, errors.New("repurpose: script_id is required")
	}
	if len(input.Formats) == 0 {
		return nil, errors.New("repurpose: at least one format is required")
	}
	s, err := GetScript(ctx, input.ScriptID)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, fmt.Errorf("repurpose: script #%d not found", input.ScriptID)
	}

	text := s.Script
	if len(text) > repurposeScriptLimit {
		text = text[:repurposeScriptLimit]
	}

	result := &RepurposeResult{ScriptID: input.ScriptID, Title: s.Title}
	for _, format := range input.Formats {
		format = strings.ToLower(strings.TrimSpace(format))
		template, ok := engine.RepurposePrompts[format]
		if !ok {
			result.Variants = append(result.Variants, RepurposeVariant{
				Format: format,
				Error:  fmt.Sprintf("unknown format %q (valid: shorts, community, thread, blog, email)", format),
			})
			continue
		}

		prompt := fmt.Sprintf(template, s.Title, text)
		raw, err := engine.Cfg.Gateway.Generate(ctx, prompt, engine.SystemPrompt)
		if err != nil {
			slog.Warn("repurpose: generation failed", slog.String("format", format), slog.Any("error", err))
			result.Variants = append(result.Variants, RepurposeVariant{Format: format, Error: err.Error()})
			continue
		}
		content, err := engine.ExtractJSON(raw)
		if err != nil {
			result.Variants = append(result.Variants, RepurposeVariant{Format: format, Error: err.Error()})
			continue
		}
		result.Variants = append(result.Variants, RepurposeVariant{Format: format, Content: content})
	}
	return result, nil
}
