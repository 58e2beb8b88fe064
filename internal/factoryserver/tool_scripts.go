package factoryserver

import (
	"context"
	"errors"

	"github.com/anatolykoptev/go_factory/internal/engine/studio"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func registerScriptGenerate(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "script_generate",
		Description: "Generate a batch of video script drafts for a topic (batch_size 1-10, default 3). Pass channel_id to use the channel profile as prompt context. Each draft is saved with status draft; returns the assigned ids.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input studio.ScriptGenerateInput) (*mcp.CallToolResult, *studio.ScriptGenerateResult, error) {
		if input.Topic == "" {
			return nil, nil, errors.New("topic is required")
		}
		result, err := studio.GenerateScripts(ctx, input)
		if err != nil {
			return nil, nil, err
		}
		return nil, result, nil
	})
}

func registerScriptList(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "script_list",
		Description: "List saved scripts. Optionally filter by channel_id, status (draft, approved, produced), or format. Returns scripts in insertion order with their ids.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input studio.ScriptListInput) (*mcp.CallToolResult, *studio.ScriptListResult, error) {
		result, err := studio.ListScripts(ctx, input)
		if err != nil {
			return nil, nil, err
		}
		return nil, result, nil
	})
}

func registerScriptUpdate(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "script_update",
		Description: "Edit a saved script by id. Only the fields provided (title, hook, script, cta, thumbnail_angle) are changed. Get ids from script_list.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input studio.ScriptUpdateInput) (*mcp.CallToolResult, *studio.ScriptResult, error) {
		if input.ID <= 0 {
			return nil, nil, errors.New("id is required")
		}
		result, err := studio.UpdateScript(ctx, input)
		if err != nil {
			return nil, nil, err
		}
		return nil, result, nil
	})
}

func registerScriptSetStatus(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "script_set_status",
		Description: "Move a script through its lifecycle: draft, approved, produced. Approval and production timestamps are recorded.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input studio.ScriptStatusInput) (*mcp.CallToolResult, *studio.ScriptResult, error) {
		if input.ID <= 0 {
			return nil, nil, errors.New("id is required")
		}
		if input.Status == "" {
			return nil, nil, errors.New("status is required")
		}
		result, err := studio.SetScriptStatus(ctx, input.ID, input.Status)
		if err != nil {
			return nil, nil, err
		}
		return nil, result, nil
	})
}

func registerScriptDelete(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "script_delete",
		Description: "Delete a script by id. Analytics records referencing the script are kept.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input studio.ScriptDeleteInput) (*mcp.CallToolResult, *studio.ScriptResult, error) {
		if input.ID <= 0 {
			return nil, nil, errors.New("id is required")
		}
		result, err := studio.DeleteScript(ctx, input.ID)
		if err != nil {
			return nil, nil, err
		}
		return nil, result, nil
	})
}
