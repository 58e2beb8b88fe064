package factoryserver

import (
	"context"
	"errors"

	"github.com/anatolykoptev/go_factory/internal/engine/studio"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func registerSRTGenerate(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "srt_generate",
		Description: "Generate an SRT caption file from a saved script's text. Deterministic, no model call. words_per_line defaults to 8, seconds_per_line to 3.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input studio.SRTGenerateInput) (*mcp.CallToolResult, *studio.SRTGenerateResult, error) {
		if input.ScriptID <= 0 {
			return nil, nil, errors.New("script_id is required")
		}
		result, err := studio.GenerateSRT(ctx, input)
		if err != nil {
			return nil, nil, err
		}
		return nil, result, nil
	})
}
