package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"
)

// Metrics tracks operational counters across the engine.
var metrics struct {
	LLMCalls         atomic.Int64
	LLMErrors        atomic.Int64
	ParseRecoveries  atomic.Int64
	ParseFailures    atomic.Int64
	ScriptsGenerated atomic.Int64
	TrendReports     atomic.Int64
	HooksGenerated   atomic.Int64
	StoreErrors      atomic.Int64
}

// GetMetrics returns a snapshot of all metrics including cache stats.
func GetMetrics() map[string]int64 {
	hits, misses := CacheStats()
	return map[string]int64{
		"llm_calls":         metrics.LLMCalls.Load(),
		"llm_errors":        metrics.LLMErrors.Load(),
		"parse_recoveries":  metrics.ParseRecoveries.Load(),
		"parse_failures":    metrics.ParseFailures.Load(),
		"scripts_generated": metrics.ScriptsGenerated.Load(),
		"trend_reports":     metrics.TrendReports.Load(),
		"hooks_generated":   metrics.HooksGenerated.Load(),
		"store_errors":      metrics.StoreErrors.Load(),
		"cache_hits":        hits,
		"cache_misses":      misses,
	}
}

// FormatMetrics returns metrics as a simple text format for the HTTP endpoint.
func FormatMetrics() string {
	m := GetMetrics()
	var sb strings.Builder
	keys := []string{
		"llm_calls", "llm_errors",
		"parse_recoveries", "parse_failures",
		"scripts_generated", "trend_reports", "hooks_generated",
		"store_errors",
		"cache_hits", "cache_misses",
	}
	for _, k := range keys {
		fmt.Fprintf(&sb, "%s %d\n", k, m[k])
	}
	return sb.String()
}

// Incrementors for the studio sub-package.
func IncrScriptsGenerated(n int) { metrics.ScriptsGenerated.Add(int64(n)) }
func IncrTrendReports()          { metrics.TrendReports.Add(1) }
func IncrHooksGenerated(n int)   { metrics.HooksGenerated.Add(int64(n)) }
func IncrStoreErrors()           { metrics.StoreErrors.Add(1) }
func IncrParseRecoveries()       { metrics.ParseRecoveries.Add(1) }
func IncrParseFailures()         { metrics.ParseFailures.Add(1) }

// TrackOperation logs a warning if an operation takes longer than threshold.
func TrackOperation(ctx context.Context, name string, fn func(context.Context) error) error {
	start := time.Now()
	err := fn(ctx)
	elapsed := time.Since(start)
	if elapsed > 5*time.Second {
		slog.Warn("slow operation", slog.String("op", name), slog.Duration("elapsed", elapsed))
	}
	return err
}
