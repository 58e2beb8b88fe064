package studio

import (
	"context"
	"errors"
	"fmt"

	"github.com/anatolykoptev/go_factory/internal/engine"
)

// ThumbnailConcept is one visual direction for a video thumbnail.
type ThumbnailConcept struct {
	Concept          string `json:"concept"`
	TextOverlay      string `json:"text_overlay"`
	DominantColor    string `json:"dominant_color"`
	FacialExpression string `json:"facial_expression,omitempty"`
	FocalPoint       string `json:"focal_point,omitempty"`
	EmotionTarget    string `json:"emotion_target,omitempty"`
	CTRReasoning     string `json:"ctr_reasoning,omitempty"`
}

// ThumbnailGuideInput is the input for thumbnail_guide.
type ThumbnailGuideInput struct {
	ScriptID int64 `json:"script_id"`
}

// ThumbnailGuideResult is the output for thumbnail_guide. Not persisted.
type ThumbnailGuideResult struct {
	ScriptID        int64              `json:"script_id"`
	Title           string             `json:"title"`
	Concepts        []ThumbnailConcept `json:"concepts"`
	GeneralRules    []string           `json:"general_rules,omitempty"`
	ColorPsychology string             `json:"color_psychology,omitempty"`
}

// ThumbnailGuide produces thumbnail concepts for a stored script. The
// script's channel niche informs the visual direction when it resolves.
func ThumbnailGuide(ctx context.Context, scriptID int64) (*ThumbnailGuideResult, error) {
	if scriptID <= 0 {
		return nil, errors.New("thumbnail_guide: script_id is required")
	}
	s, err := GetScript(ctx, scriptID)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, fmt.Errorf("thumbnail_guide: script #%d not found", scriptID)
	}

	niche := "general"
	if s.ChannelID > 0 {
		if ch, err := GetChannel(ctx, s.ChannelID); err == nil && ch != nil {
			niche = ch.Niche
		}
	}

	prompt := fmt.Sprintf(engine.ThumbnailPrompt, s.Title, s.Hook, niche)
	raw, err := engine.Cfg.Gateway.Generate(ctx, prompt, engine.SystemPrompt)
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Concepts        []ThumbnailConcept `json:"concepts"`
		Thumbnails      []ThumbnailConcept `json:"thumbnails"`
		GeneralRules    []string           `json:"general_rules"`
		ColorPsychology string             `json:"color_psychology"`
	}
	if err := engine.ExtractInto(raw, &parsed); err != nil {
		return nil, err
	}
	concepts := parsed.Concepts
	if len(concepts) == 0 {
		concepts = parsed.Thumbnails
	}
	return &ThumbnailGuideResult{
		ScriptID:        scriptID,
		Title:           s.Title,
		Concepts:        concepts,
		GeneralRules:    parsed.GeneralRules,
		ColorPsychology: parsed.ColorPsychology,
	}, nil
}
