package factoryserver

import (
	"context"
	"errors"

	"github.com/anatolykoptev/go_factory/internal/engine/studio"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func registerTitleCTRScore(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "title_ctr_score",
		Description: "Score candidate video titles for predicted click-through rate with a per-title breakdown, an improved variant, and reasoning. Results are sorted best first and not saved.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input studio.CTRScoreInput) (*mcp.CallToolResult, *studio.CTRScoreResult, error) {
		if len(input.Titles) == 0 {
			return nil, nil, errors.New("titles are required")
		}
		result, err := studio.ScoreTitles(ctx, input)
		if err != nil {
			return nil, nil, err
		}
		return nil, result, nil
	})
}
