package factoryserver

import (
	"context"
	"errors"

	"github.com/anatolykoptev/go_factory/internal/engine/studio"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func registerTrendResearch(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "trend_research",
		Description: "Research YouTube trends for a seed keyword: rising queries, breakout predictions, content gaps, topic clusters. Optionally scope by region and channel_id. Reports are cached; every call is recorded in the trend history.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input studio.TrendResearchInput) (*mcp.CallToolResult, *studio.TrendResearchResult, error) {
		if input.Seed == "" {
			return nil, nil, errors.New("seed is required")
		}
		result, err := studio.ResearchTrends(ctx, input)
		if err != nil {
			return nil, nil, err
		}
		return nil, result, nil
	})
}

func registerTrendHistory(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "trend_history",
		Description: "List recent trend research reports, newest first. Default limit 10, max 50.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input studio.TrendHistoryInput) (*mcp.CallToolResult, *studio.TrendHistoryResult, error) {
		result, err := studio.TrendHistory(ctx, input.Limit)
		if err != nil {
			return nil, nil, err
		}
		return nil, result, nil
	})
}
