package studio

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/anatolykoptev/go_factory/internal/engine"
	"github.com/anatolykoptev/go_factory/internal/store"
)

// TrendRecord is a persisted trend report keyed by the seed it was
// researched for. Data holds the model's report verbatim.
type TrendRecord struct {
	ID        int64           `json:"id,omitempty"`
	Seed      string          `json:"seed"`
	Region    string          `json:"region"`
	ChannelID int64           `json:"channelId,omitempty"`
	Data      json.RawMessage `json:"data"`
	CreatedAt string          `json:"createdAt"`
}

// TrendResearchInput is the input for trend_research.
type TrendResearchInput struct {
	Seed      string `json:"seed"`
	Region    string `json:"region,omitempty"`
	ChannelID int64  `json:"channel_id,omitempty"`
}

// TrendResearchResult is the output for trend_research.
type TrendResearchResult struct {
	ID     int64           `json:"id"`
	Seed   string          `json:"seed"`
	Region string          `json:"region"`
	Report json.RawMessage `json:"report"`
	Cached bool            `json:"cached"`
}

// TrendHistoryInput is the input for trend_history.
type TrendHistoryInput struct {
	Limit int `json:"limit,omitempty"`
}

// TrendHistoryResult is the output for trend_history.
type TrendHistoryResult struct {
	Trends []TrendRecord `json:"trends"`
	Total  int           `json:"total"`
}

// ResearchTrends produces a trend report for a seed keyword and persists it.
// Reports are cached per seed/region/channel; a cache hit still creates a
// new history record so the research trail stays complete.
func ResearchTrends(ctx context.Context, input TrendResearchInput) (*TrendResearchResult, error) {
	if input.Seed == "" {
		return nil, errors.New("trend_research: seed is required")
	}
	region := input.Region
	if region == "" {
		region = "Global"
	}

	channelCtx := "General YouTube research"
	if input.ChannelID > 0 {
		channelCtx = ChannelContext(ctx, input.ChannelID)
	}

	cacheKey := engine.CacheKey("trend_research", input.Seed, region, fmt.Sprintf("%d", input.ChannelID))
	report, cached := engine.CacheLoadJSON[json.RawMessage](ctx, cacheKey)
	if !cached {
		prompt := fmt.Sprintf(engine.TrendResearchPrompt, input.Seed, region, channelCtx)
		raw, err := engine.Cfg.Gateway.Generate(ctx, prompt, engine.SystemPrompt)
		if err != nil {
			return nil, err
		}
		report, err = engine.ExtractJSON(raw)
		if err != nil {
			return nil, err
		}
		engine.CacheStoreJSON(ctx, cacheKey, report)
	}

	rec := TrendRecord{
		Seed:      input.Seed,
		Region:    region,
		ChannelID: input.ChannelID,
		Data:      report,
		CreatedAt: nowRFC3339(),
	}
	id, err := engine.Cfg.Store.Add(ctx, store.Trends, rec)
	if err != nil {
		engine.IncrStoreErrors()
		return nil, err
	}
	engine.IncrTrendReports()
	return &TrendResearchResult{ID: id, Seed: input.Seed, Region: region, Report: report, Cached: cached}, nil
}

// TrendHistory lists the most recent trend reports, newest first.
func TrendHistory(ctx context.Context, limit int) (*TrendHistoryResult, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	raws, err := engine.Cfg.Store.GetAll(ctx, store.Trends)
	if err != nil {
		engine.IncrStoreErrors()
		return nil, err
	}
	trends := make([]TrendRecord, 0, len(raws))
	for _, raw := range raws {
		var t TrendRecord
		if err := json.Unmarshal(raw, &t); err != nil {
			continue
		}
		trends = append(trends, t)
	}
	// Insertion order is oldest first; surface the newest.
	if len(trends) > limit {
		trends = trends[len(trends)-limit:]
	}
	for i, j := 0, len(trends)-1; i < j; i, j = i+1, j-1 {
		trends[i], trends[j] = trends[j], trends[i]
	}
	return &TrendHistoryResult{Trends: trends, Total: len(trends)}, nil
}
