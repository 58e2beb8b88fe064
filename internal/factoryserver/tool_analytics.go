package factoryserver

import (
	"context"
	"errors"

	"github.com/anatolykoptev/go_factory/internal/engine/studio"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func registerAnalyticsAdd(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "analytics_add",
		Description: "Record real performance metrics for a produced script: ctr (%), retention (%), watch_time (minutes), impressions, views, subs_gained. Records are immutable once added.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input studio.AnalyticsAddInput) (*mcp.CallToolResult, *studio.AnalyticsAddResult, error) {
		if input.ScriptID <= 0 {
			return nil, nil, errors.New("script_id is required")
		}
		result, err := studio.AddAnalytics(ctx, input)
		if err != nil {
			return nil, nil, err
		}
		return nil, result, nil
	})
}

func registerAnalyticsOverview(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "analytics_overview",
		Description: "Summarize recorded performance: average CTR and retention, total views and subscribers gained, plus the 20 most recent records with script titles resolved.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, *studio.AnalyticsOverview, error) {
		result, err := studio.Overview(ctx)
		if err != nil {
			return nil, nil, err
		}
		return nil, result, nil
	})
}

func registerAnalyticsRecalibrate(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "analytics_recalibrate",
		Description: "Feed the most recent performance metrics to the model and get concrete strategy adjustments: hooks, titles, thumbnails, pacing, content, and priority actions. Requires at least one analytics record.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, *studio.RecalibrateResult, error) {
		result, err := studio.Recalibrate(ctx)
		if err != nil {
			return nil, nil, err
		}
		return nil, result, nil
	})
}
