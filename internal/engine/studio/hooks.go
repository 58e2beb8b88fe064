package studio

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/anatolykoptev/go_factory/internal/engine"
	"github.com/anatolykoptev/go_factory/internal/store"
)

// HookRecord is one generated hook stored in the library.
type HookRecord struct {
	ID        int64   `json:"id,omitempty"`
	Type      string  `json:"type"`
	Hook      string  `json:"hook"`
	Score     float64 `json:"score"`
	Reasoning string  `json:"reasoning,omitempty"`
	Topic     string  `json:"topic"`
	ChannelID int64   `json:"channelId,omitempty"`
	CreatedAt string  `json:"createdAt"`
}

// HookAnalysis is the scored breakdown of a single hook. Not persisted.
type HookAnalysis struct {
	CuriosityTrigger    float64  `json:"curiosity_trigger"`
	EmotionalImpact     float64  `json:"emotional_impact"`
	Clarity             float64  `json:"clarity"`
	SpokenLengthSeconds float64  `json:"spoken_length_seconds"`
	OverallScore        float64  `json:"overall_score"`
	Strengths           []string `json:"strengths"`
	Weaknesses          []string `json:"weaknesses"`
	ImprovedVersion     string   `json:"improved_version"`
	Reasoning           string   `json:"reasoning"`
}

// HookGenerateInput is the input for hook_generate.
type HookGenerateInput struct {
	Topic     string `json:"topic"`
	ChannelID int64  `json:"channel_id,omitempty"`
}

// HookGenerateResult is the output for hook_generate.
type HookGenerateResult struct {
	Hooks   []HookRecord `json:"hooks"`
	Saved   int          `json:"saved"`
	Cached  bool         `json:"cached"`
	Message string       `json:"message"`
}

// HookLibraryInput is the input for hook_library.
type HookLibraryInput struct {
	Limit int `json:"limit,omitempty"`
}

// HookLibraryResult is the output for hook_library.
type HookLibraryResult struct {
	Hooks []HookRecord `json:"hooks"`
	Total int          `json:"total"`
}

// HookAnalyzeInput is the input for hook_analyze.
type HookAnalyzeInput struct {
	Hook      string `json:"hook"`
	ChannelID int64  `json:"channel_id,omitempty"`
}

// hookDraft is the wire shape the model returns per generated hook.
type hookDraft struct {
	Type      string  `json:"type"`
	Hook      string  `json:"hook"`
	Score     float64 `json:"score"`
	Reasoning string  `json:"reasoning"`
}

// GenerateHooks generates candidate hooks for a topic and saves them to the
// hook library. Results are cached per topic and channel; a cache hit returns
// the drafts without writing, since the library already holds them.
func GenerateHooks(ctx context.Context, input HookGenerateInput) (*HookGenerateResult, error) {
	if input.Topic == "" {
		return nil, errors.New("hook_generate: topic is required")
	}

	channelCtx := "General YouTube content"
	if input.ChannelID > 0 {
		channelCtx = ChannelContext(ctx, input.ChannelID)
	}

	cacheKey := engine.CacheKey("hook_generate", input.Topic, fmt.Sprintf("%d", input.ChannelID))
	drafts, cached := engine.CacheLoadJSON[[]hookDraft](ctx, cacheKey)
	if !cached {
		prompt := fmt.Sprintf(engine.HookGeneratePrompt, channelCtx, input.Topic)
		raw, err := engine.Cfg.Gateway.Generate(ctx, prompt, engine.SystemPrompt)
		if err != nil {
			return nil, err
		}
		if err := engine.ExtractInto(raw, &drafts); err != nil {
			return nil, err
		}
		engine.CacheStoreJSON(ctx, cacheKey, drafts)
	}

	now := nowRFC3339()
	result := &HookGenerateResult{Cached: cached}
	for _, d := range drafts {
		if d.Hook == "" {
			continue
		}
		rec := HookRecord{
			Type:      d.Type,
			Hook:      d.Hook,
			Score:     d.Score,
			Reasoning: d.Reasoning,
			Topic:     input.Topic,
			ChannelID: input.ChannelID,
			CreatedAt: now,
		}
		if !cached {
			id, err := engine.Cfg.Store.Add(ctx, store.Hooks, rec)
			if err != nil {
				engine.IncrStoreErrors()
				return nil, err
			}
			rec.ID = id
			result.Saved++
		}
		result.Hooks = append(result.Hooks, rec)
	}
	if cached {
		result.Message = fmt.Sprintf("%d hooks for %q (cached, already in the library)", len(result.Hooks), input.Topic)
		return result, nil
	}
	engine.IncrHooksGenerated(result.Saved)
	result.Message = fmt.Sprintf("%d hooks generated for %q", result.Saved, input.Topic)
	return result, nil
}

// AnalyzeHook scores one hook for effectiveness. The analysis is returned,
// not persisted.
func AnalyzeHook(ctx context.Context, input HookAnalyzeInput) (*HookAnalysis, error) {
	if input.Hook == "" {
		return nil, errors.New("hook_analyze: hook is required")
	}

	contextBlock := ""
	if input.ChannelID > 0 {
		contextBlock = "Channel Context:\n" + ChannelContext(ctx, input.ChannelID)
	}

	prompt := fmt.Sprintf(engine.HookAnalyzePrompt, input.Hook, contextBlock)
	raw, err := engine.Cfg.Gateway.Generate(ctx, prompt, engine.SystemPrompt)
	if err != nil {
		return nil, err
	}
	var out HookAnalysis
	if err := engine.ExtractInto(raw, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// HookLibrary lists the most recently saved hooks, newest first.
func HookLibrary(ctx context.Context, limit int) ([]HookRecord, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	raws, err := engine.Cfg.Store.GetAll(ctx, store.Hooks)
	if err != nil {
		engine.IncrStoreErrors()
		return nil, err
	}
	hooks := make([]HookRecord, 0, len(raws))
	for _, raw := range raws {
		var h HookRecord
		if err := json.Unmarshal(raw, &h); err != nil {
			continue
		}
		hooks = append(hooks, h)
	}
	if len(hooks) > limit {
		hooks = hooks[len(hooks)-limit:]
	}
	for i, j := 0, len(hooks)-1; i < j; i, j = i+1, j-1 {
		hooks[i], hooks[j] = hooks[j], hooks[i]
	}
	return hooks, nil
}
