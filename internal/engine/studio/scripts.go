package studio

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/anatolykoptev/go_factory/internal/engine"
	"github.com/anatolykoptev/go_factory/internal/store"
)

// ScriptStatus is the lifecycle state of a script draft. Transitions move
// forward by convention (draft, approved, produced); the store does not
// enforce ordering.
type ScriptStatus string

const (
	StatusDraft    ScriptStatus = "draft"
	StatusApproved ScriptStatus = "approved"
	StatusProduced ScriptStatus = "produced"
)

func validScriptStatus(s string) bool {
	switch ScriptStatus(s) {
	case StatusDraft, StatusApproved, StatusProduced:
		return true
	}
	return false
}

// Script is a persisted script draft with its production metadata.
type Script struct {
	ID                   int64    `json:"id,omitempty"`
	ChannelID            int64    `json:"channelId,omitempty"`
	ChannelName          string   `json:"channelName"`
	Format               string   `json:"format"`
	Title                string   `json:"title"`
	Hook                 string   `json:"hook"`
	Script               string   `json:"script"`
	CTA                  string   `json:"cta"`
	ThumbnailAngle       string   `json:"thumbnailAngle,omitempty"`
	EmotionalArc         string   `json:"emotionalArc,omitempty"`
	RetentionTriggers    []string `json:"retentionTriggers,omitempty"`
	BrollKeywords        []string `json:"brollKeywords,omitempty"`
	FrameworkName        string   `json:"frameworkName,omitempty"`
	AffiliatePlacement   string   `json:"affiliatePlacement,omitempty"`
	ConversionPsychology string   `json:"conversionPsychology,omitempty"`
	Status               string   `json:"status"`
	CreatedAt            string   `json:"createdAt"`
	UpdatedAt            string   `json:"updatedAt,omitempty"`
	ApprovedAt           string   `json:"approvedAt,omitempty"`
	ProducedAt           string   `json:"producedAt,omitempty"`
}

// scriptDraft is the wire shape the model returns for one script.
type scriptDraft struct {
	Format               string   `json:"format"`
	Title                string   `json:"title"`
	Hook                 string   `json:"hook"`
	Script               string   `json:"script"`
	CTA                  string   `json:"cta"`
	ThumbnailAngle       string   `json:"thumbnail_angle"`
	EmotionalArc         string   `json:"emotional_arc"`
	RetentionTriggers    []string `json:"retention_triggers"`
	BrollKeywords        []string `json:"broll_keywords"`
	FrameworkName        string   `json:"framework_name"`
	AffiliatePlacement   string   `json:"affiliate_placement"`
	ConversionPsychology string   `json:"conversion_psychology"`
}

// ScriptGenerateInput is the input for script_generate.
type ScriptGenerateInput struct {
	Topic     string `json:"topic"`
	ChannelID int64  `json:"channel_id,omitempty"`
	Format    string `json:"format,omitempty"`
	BatchSize int    `json:"batch_size,omitempty"`
}

// ScriptGenerateResult is the output for script_generate.
type ScriptGenerateResult struct {
	Saved   int      `json:"saved"`
	IDs     []int64  `json:"ids"`
	Titles  []string `json:"titles"`
	Message string   `json:"message"`
}

// ScriptListInput is the input for script_list.
type ScriptListInput struct {
	ChannelID int64  `json:"channel_id,omitempty"`
	Status    string `json:"status,omitempty"`
	Format    string `json:"format,omitempty"`
}

// ScriptListResult is the output for script_list.
type ScriptListResult struct {
	Scripts []Script `json:"scripts"`
	Total   int      `json:"total"`
}

// ScriptUpdateInput is the input for script_update. Empty fields are left
// untouched.
type ScriptUpdateInput struct {
	ID             int64  `json:"id"`
	Title          string `json:"title,omitempty"`
	Hook           string `json:"hook,omitempty"`
	Script         string `json:"script,omitempty"`
	CTA            string `json:"cta,omitempty"`
	ThumbnailAngle string `json:"thumbnail_angle,omitempty"`
}

// ScriptStatusInput is the input for script_set_status.
type ScriptStatusInput struct {
	ID     int64  `json:"id"`
	Status string `json:"status"`
}

// ScriptDeleteInput is the input for script_delete.
type ScriptDeleteInput struct {
	ID int64 `json:"id"`
}

// ScriptResult is the output for script mutations.
type ScriptResult struct {
	ID      int64  `json:"id"`
	Status  string `json:"status,omitempty"`
	Message string `json:"message"`
}

// GenerateScripts runs one generation call and persists every returned draft
// with status draft. The batch size is clamped to 1-10.
func GenerateScripts(ctx context.Context, input ScriptGenerateInput) (*ScriptGenerateResult, error) {
	if input.Topic == "" {
		return nil, errors.New("script_generate: topic is required")
	}
	format := strings.ToLower(input.Format)
	if format == "" {
		format = "mixed"
	}
	size := input.BatchSize
	if size < 1 {
		size = 3
	}
	if size > 10 {
		size = 10
	}

	channelName := "Unassigned"
	channelCtx := "No channel selected."
	if input.ChannelID > 0 {
		if ch, err := GetChannel(ctx, input.ChannelID); err == nil && ch != nil {
			channelName = ch.Name
		}
		channelCtx = ChannelContext(ctx, input.ChannelID)
	}

	prompt := fmt.Sprintf(engine.ScriptBatchPrompt, size, format, input.Topic, channelCtx, size)
	raw, err := engine.Cfg.Gateway.Generate(ctx, prompt, engine.SystemPrompt)
	if err != nil {
		return nil, err
	}

	var drafts []scriptDraft
	if err := engine.ExtractInto(raw, &drafts); err != nil {
		return nil, err
	}

	now := nowRFC3339()
	result := &ScriptGenerateResult{}
	for _, d := range drafts {
		s := Script{
			ChannelID:            input.ChannelID,
			ChannelName:          channelName,
			Format:               firstNonEmpty(d.Format, format),
			Title:                firstNonEmpty(d.Title, "Untitled"),
			Hook:                 d.Hook,
			Script:               d.Script,
			CTA:                  d.CTA,
			ThumbnailAngle:       d.ThumbnailAngle,
			EmotionalArc:         d.EmotionalArc,
			RetentionTriggers:    d.RetentionTriggers,
			BrollKeywords:        d.BrollKeywords,
			FrameworkName:        d.FrameworkName,
			AffiliatePlacement:   d.AffiliatePlacement,
			ConversionPsychology: d.ConversionPsychology,
			Status:               string(StatusDraft),
			CreatedAt:            now,
		}
		id, err := engine.Cfg.Store.Add(ctx, store.Scripts, s)
		if err != nil {
			engine.IncrStoreErrors()
			return nil, err
		}
		result.Saved++
		result.IDs = append(result.IDs, id)
		result.Titles = append(result.Titles, s.Title)
	}
	engine.IncrScriptsGenerated(result.Saved)
	result.Message = fmt.Sprintf("%d scripts generated and saved as drafts", result.Saved)
	return result, nil
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

// GetScript returns a script by id, or nil when absent.
func GetScript(ctx context.Context, id int64) (*Script, error) {
	raw, err := engine.Cfg.Store.Get(ctx, store.Scripts, id)
	if err != nil {
		engine.IncrStoreErrors()
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}
	var s Script
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("script_get: decode: %w", err)
	}
	return &s, nil
}

// ListScripts returns scripts matching the filters. A single filter rides the
// matching store index; combined filters narrow the indexed result in memory.
func ListScripts(ctx context.Context, input ScriptListInput) (*ScriptListResult, error) {
	if input.Status != "" && !validScriptStatus(strings.ToLower(input.Status)) {
		return nil, fmt.Errorf("script_list: invalid status %q (valid: draft, approved, produced)", input.Status)
	}

	var raws []json.RawMessage
	var err error
	switch {
	case input.ChannelID > 0:
		raws, err = engine.Cfg.Store.QueryByIndex(ctx, store.Scripts, "channelId", input.ChannelID)
	case input.Status != "":
		raws, err = engine.Cfg.Store.QueryByIndex(ctx, store.Scripts, "status", strings.ToLower(input.Status))
	case input.Format != "":
		raws, err = engine.Cfg.Store.QueryByIndex(ctx, store.Scripts, "format", strings.ToLower(input.Format))
	default:
		raws, err = engine.Cfg.Store.GetAll(ctx, store.Scripts)
	}
	if err != nil {
		engine.IncrStoreErrors()
		return nil, err
	}

	scripts := make([]Script, 0, len(raws))
	for _, raw := range raws {
		var s Script
		if err := json.Unmarshal(raw, &s); err != nil {
			continue
		}
		if input.ChannelID > 0 && s.ChannelID != input.ChannelID {
			continue
		}
		if input.Status != "" && s.Status != strings.ToLower(input.Status) {
			continue
		}
		if input.Format != "" && s.Format != strings.ToLower(input.Format) {
			continue
		}
		scripts = append(scripts, s)
	}
	return &ScriptListResult{Scripts: scripts, Total: len(scripts)}, nil
}

// UpdateScript edits the editable fields of a script.
func UpdateScript(ctx context.Context, input ScriptUpdateInput) (*ScriptResult, error) {
	if input.ID <= 0 {
		return nil, errors.New("script_update: id is required")
	}
	s, err := GetScript(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, fmt.Errorf("script_update: script #%d not found", input.ID)
	}

	if input.Title != "" {
		s.Title = input.Title
	}
	if input.Hook != "" {
		s.Hook = input.Hook
	}
	if input.Script != "" {
		s.Script = input.Script
	}
	if input.CTA != "" {
		s.CTA = input.CTA
	}
	if input.ThumbnailAngle != "" {
		s.ThumbnailAngle = input.ThumbnailAngle
	}
	s.UpdatedAt = nowRFC3339()

	if _, err := engine.Cfg.Store.Put(ctx, store.Scripts, s); err != nil {
		engine.IncrStoreErrors()
		return nil, err
	}
	return &ScriptResult{ID: s.ID, Status: s.Status, Message: fmt.Sprintf("Script #%d updated", s.ID)}, nil
}

// SetScriptStatus moves a script to a new lifecycle state and stamps the
// transition time.
func SetScriptStatus(ctx context.Context, id int64, status string) (*ScriptResult, error) {
	if id <= 0 {
		return nil, errors.New("script_set_status: id is required")
	}
	status = strings.ToLower(status)
	if !validScriptStatus(status) {
		return nil, fmt.Errorf("script_set_status: invalid status %q (valid: draft, approved, produced)", status)
	}
	s, err := GetScript(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, fmt.Errorf("script_set_status: script #%d not found", id)
	}

	now := nowRFC3339()
	s.Status = status
	s.UpdatedAt = now
	switch ScriptStatus(status) {
	case StatusApproved:
		s.ApprovedAt = now
	case StatusProduced:
		s.ProducedAt = now
	}

	if _, err := engine.Cfg.Store.Put(ctx, store.Scripts, s); err != nil {
		engine.IncrStoreErrors()
		return nil, err
	}
	return &ScriptResult{ID: id, Status: status, Message: fmt.Sprintf("Script #%d is now %s", id, status)}, nil
}

// DeleteScript removes a script permanently.
func DeleteScript(ctx context.Context, id int64) (*ScriptResult, error) {
	if id <= 0 {
		return nil, errors.New("script_delete: id is required")
	}
	if err := engine.Cfg.Store.Remove(ctx, store.Scripts, id); err != nil {
		engine.IncrStoreErrors()
		return nil, err
	}
	return &ScriptResult{ID: id, Message: fmt.Sprintf("Script #%d deleted", id)}, nil
}
