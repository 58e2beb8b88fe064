package factoryserver

import (
	"context"
	"errors"

	"github.com/anatolykoptev/go_factory/internal/engine/studio"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func registerChannelSave(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "channel_save",
		Description: "Create or update a channel profile (niche, audience, tone, format, upload cadence). The profile drives prompt context for every generation tool. Pass an id to update an existing channel; omit it to create a new one.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input studio.ChannelSaveInput) (*mcp.CallToolResult, *studio.ChannelResult, error) {
		if input.Name == "" || input.Niche == "" {
			return nil, nil, errors.New("name and niche are required")
		}
		result, err := studio.SaveChannel(ctx, input)
		if err != nil {
			return nil, nil, err
		}
		return nil, result, nil
	})
}

func registerChannelList(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "channel_list",
		Description: "List all channel profiles with their ids. Use the ids with script_generate, trend_research, and hook_generate to target a channel.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, *studio.ChannelListResult, error) {
		result, err := studio.ListChannels(ctx)
		if err != nil {
			return nil, nil, err
		}
		return nil, result, nil
	})
}

func registerChannelDelete(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "channel_delete",
		Description: "Delete a channel profile by id. Scripts and analytics referencing the channel are kept; they simply lose the profile context.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input studio.ChannelDeleteInput) (*mcp.CallToolResult, *studio.ChannelResult, error) {
		if input.ID <= 0 {
			return nil, nil, errors.New("id is required")
		}
		result, err := studio.DeleteChannel(ctx, input.ID)
		if err != nil {
			return nil, nil, err
		}
		return nil, result, nil
	})
}
