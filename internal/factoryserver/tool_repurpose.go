package factoryserver

import (
	"context"
	"errors"

	"github.com/anatolykoptev/go_factory/internal/engine/studio"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func registerRepurpose(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "repurpose",
		Description: "Repurpose a saved script into other formats: shorts, community, thread, blog, email. Each requested format is generated independently; a failed format is reported per-variant without failing the batch. Variants are returned, not saved.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input studio.RepurposeInput) (*mcp.CallToolResult, *studio.RepurposeResult, error) {
		if input.ScriptID <= 0 {
			return nil, nil, errors.New("script_id is required")
		}
		result, err := studio.Repurpose(ctx, input)
		if err != nil {
			return nil, nil, err
		}
		return nil, result, nil
	})
}
