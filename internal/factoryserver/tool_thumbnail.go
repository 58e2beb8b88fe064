package factoryserver

import (
	"context"
	"errors"

	"github.com/anatolykoptev/go_factory/internal/engine/studio"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func registerThumbnailGuide(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "thumbnail_guide",
		Description: "Produce thumbnail concepts for a saved script: visual direction, text overlay, color, and CTR reasoning per concept. The script's channel niche informs the style. Not saved.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input studio.ThumbnailGuideInput) (*mcp.CallToolResult, *studio.ThumbnailGuideResult, error) {
		if input.ScriptID <= 0 {
			return nil, nil, errors.New("script_id is required")
		}
		result, err := studio.ThumbnailGuide(ctx, input.ScriptID)
		if err != nil {
			return nil, nil, err
		}
		return nil, result, nil
	})
}
