package factoryserver

import (
	"context"
	"errors"

	"github.com/anatolykoptev/go_factory/internal/engine/studio"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func registerHookGenerate(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "hook_generate",
		Description: "Generate opening hooks for a topic across proven archetypes (curiosity gap, bold claim, question, story). Pass channel_id to use the channel profile as context. Hooks are saved to the library with scores.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input studio.HookGenerateInput) (*mcp.CallToolResult, *studio.HookGenerateResult, error) {
		if input.Topic == "" {
			return nil, nil, errors.New("topic is required")
		}
		result, err := studio.GenerateHooks(ctx, input)
		if err != nil {
			return nil, nil, err
		}
		return nil, result, nil
	})
}

func registerHookAnalyze(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "hook_analyze",
		Description: "Score a single hook for curiosity trigger, emotional impact, clarity, and spoken length, with strengths, weaknesses, and an improved version. The analysis is returned, not saved.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input studio.HookAnalyzeInput) (*mcp.CallToolResult, *studio.HookAnalysis, error) {
		if input.Hook == "" {
			return nil, nil, errors.New("hook is required")
		}
		result, err := studio.AnalyzeHook(ctx, input)
		if err != nil {
			return nil, nil, err
		}
		return nil, result, nil
	})
}

func registerHookLibrary(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "hook_library",
		Description: "List saved hooks, newest first. Default limit 20, max 100.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input studio.HookLibraryInput) (*mcp.CallToolResult, *studio.HookLibraryResult, error) {
		hooks, err := studio.HookLibrary(ctx, input.Limit)
		if err != nil {
			return nil, nil, err
		}
		return nil, &studio.HookLibraryResult{Hooks: hooks, Total: len(hooks)}, nil
	})
}
