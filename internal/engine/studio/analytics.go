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

// AnalyticsRecord is one manually entered performance snapshot for a
// produced video. Records are immutable once added.
type AnalyticsRecord struct {
	ID          int64   `json:"id,omitempty"`
	ScriptID    int64   `json:"scriptId"`
	CTR         float64 `json:"ctr"`
	Retention   float64 `json:"retention"`
	WatchTime   float64 `json:"watchTime"`
	Impressions int64   `json:"impressions"`
	Views       int64   `json:"views"`
	SubsGained  int64   `json:"subsGained"`
	CreatedAt   string  `json:"createdAt"`
}

// AnalyticsAddInput is the input for analytics_add.
type AnalyticsAddInput struct {
	ScriptID    int64   `json:"script_id"`
	CTR         float64 `json:"ctr,omitempty"`
	Retention   float64 `json:"retention,omitempty"`
	WatchTime   float64 `json:"watch_time,omitempty"`
	Impressions int64   `json:"impressions,omitempty"`
	Views       int64   `json:"views,omitempty"`
	SubsGained  int64   `json:"subs_gained,omitempty"`
}

// AnalyticsAddResult is the output for analytics_add.
type AnalyticsAddResult struct {
	ID      int64  `json:"id"`
	Message string `json:"message"`
}

// AnalyticsOverview aggregates all recorded metrics.
type AnalyticsOverview struct {
	Records      int              `json:"records"`
	AvgCTR       float64          `json:"avg_ctr"`
	AvgRetention float64          `json:"avg_retention"`
	TotalViews   int64            `json:"total_views"`
	TotalSubs    int64            `json:"total_subs_gained"`
	Recent       []AnalyticsEntry `json:"recent"`
}

// AnalyticsEntry is one overview row with the script title resolved.
type AnalyticsEntry struct {
	ScriptID  int64   `json:"script_id"`
	Title     string  `json:"title"`
	CTR       float64 `json:"ctr"`
	Retention float64 `json:"retention"`
	Views     int64   `json:"views"`
	CreatedAt string  `json:"created_at"`
}

// RecalibrateResult is the LLM's strategy read of recent metrics.
type RecalibrateResult struct {
	Diagnosis                string   `json:"diagnosis"`
	HookRecommendations      []string `json:"hook_recommendations"`
	TitleRecommendations     []string `json:"title_recommendations"`
	ThumbnailRecommendations []string `json:"thumbnail_recommendations"`
	PacingRecommendations    []string `json:"pacing_recommendations"`
	ContentRecommendations   []string `json:"content_recommendations"`
	PriorityActions          []string `json:"priority_actions"`
}

// AddAnalytics records one performance snapshot. The script reference is
// soft; a deleted script does not invalidate its analytics.
func AddAnalytics(ctx context.Context, input AnalyticsAddInput) (*AnalyticsAddResult, error) {
	if input.ScriptID <= 0 {
		return nil, errors.New("analytics_add: script_id is required")
	}
	rec := AnalyticsRecord{
		ScriptID:    input.ScriptID,
		CTR:         input.CTR,
		Retention:   input.Retention,
		WatchTime:   input.WatchTime,
		Impressions: input.Impressions,
		Views:       input.Views,
		SubsGained:  input.SubsGained,
		CreatedAt:   nowRFC3339(),
	}
	id, err := engine.Cfg.Store.Add(ctx, store.Analytics, rec)
	if err != nil {
		engine.IncrStoreErrors()
		return nil, err
	}
	return &AnalyticsAddResult{ID: id, Message: fmt.Sprintf("Metrics recorded for script #%d (id=%d)", input.ScriptID, id)}, nil
}

// Overview aggregates all analytics records with script titles resolved.
func Overview(ctx context.Context) (*AnalyticsOverview, error) {
	records, err := allAnalytics(ctx)
	if err != nil {
		return nil, err
	}
	out := &AnalyticsOverview{Records: len(records), Recent: []AnalyticsEntry{}}
	if len(records) == 0 {
		return out, nil
	}

	titles := scriptTitles(ctx)
	var sumCTR, sumRet float64
	for _, r := range records {
		sumCTR += r.CTR
		sumRet += r.Retention
		out.TotalViews += r.Views
		out.TotalSubs += r.SubsGained
	}
	out.AvgCTR = sumCTR / float64(len(records))
	out.AvgRetention = sumRet / float64(len(records))

	recent := records
	if len(recent) > 20 {
		recent = recent[len(recent)-20:]
	}
	for i := len(recent) - 1; i >= 0; i-- {
		r := recent[i]
		title := titles[r.ScriptID]
		if title == "" {
			title = "Unknown"
		}
		out.Recent = append(out.Recent, AnalyticsEntry{
			ScriptID:  r.ScriptID,
			Title:     title,
			CTR:       r.CTR,
			Retention: r.Retention,
			Views:     r.Views,
			CreatedAt: r.CreatedAt,
		})
	}
	return out, nil
}

// Recalibrate feeds the latest metrics to the model and returns concrete
// strategy adjustments.
func Recalibrate(ctx context.Context) (*RecalibrateResult, error) {
	records, err := allAnalytics(ctx)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, errors.New("analytics_recalibrate: no analytics data recorded yet")
	}

	titles := scriptTitles(ctx)
	formats := scriptFormats(ctx)
	if len(records) > 20 {
		records = records[len(records)-20:]
	}

	var metricsLines []string
	for _, r := range records {
		title := titles[r.ScriptID]
		if title == "" {
			title = "Unknown"
		}
		format := formats[r.ScriptID]
		if format == "" {
			format = "?"
		}
		metricsLines = append(metricsLines, fmt.Sprintf(
			"Title: %q | Format: %s | CTR: %.1f%% | Retention: %.1f%% | Views: %d | Watch Time: %.1fmin",
			title, format, r.CTR, r.Retention, r.Views, r.WatchTime))
	}

	var channelLines []string
	if chs, err := ListChannels(ctx); err == nil {
		for _, c := range chs.Channels {
			channelLines = append(channelLines, fmt.Sprintf("%s: %s (%s)", c.Name, c.Niche, c.Format))
		}
	}
	if len(channelLines) == 0 {
		channelLines = []string{"No channel profiles configured."}
	}

	prompt := fmt.Sprintf(engine.AnalyticsRecalibratePrompt,
		strings.Join(channelLines, "\n"), strings.Join(metricsLines, "\n"))
	raw, err := engine.Cfg.Gateway.Generate(ctx, prompt, engine.SystemPrompt)
	if err != nil {
		return nil, err
	}
	var out RecalibrateResult
	if err := engine.ExtractInto(raw, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func allAnalytics(ctx context.Context) ([]AnalyticsRecord, error) {
	raws, err := engine.Cfg.Store.GetAll(ctx, store.Analytics)
	if err != nil {
		engine.IncrStoreErrors()
		return nil, err
	}
	records := make([]AnalyticsRecord, 0, len(raws))
	for _, raw := range raws {
		var r AnalyticsRecord
		if err := json.Unmarshal(raw, &r); err != nil {
			continue
		}
		records = append(records, r)
	}
	return records, nil
}

func scriptTitles(ctx context.Context) map[int64]string {
	titles := make(map[int64]string)
	list, err := ListScripts(ctx, ScriptListInput{})
	if err != nil {
		return titles
	}
	for _, s := range list.Scripts {
		titles[s.ID] = s.Title
	}
	return titles
}

func scriptFormats(ctx context.Context) map[int64]string {
	formats := make(map[int64]string)
	list, err := ListScripts(ctx, ScriptListInput{})
	if err != nil {
		return formats
	}
	for _, s := range list.Scripts {
		formats[s.ID] = s.Format
	}
	return formats
}
