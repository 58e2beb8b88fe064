package factoryserver

import (
	"context"
	"errors"

	"github.com/anatolykoptev/go_factory/internal/engine/studio"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func registerSettingsSaveKey(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "settings_save_key",
		Description: "Save the LLM API key. The key is sealed with a machine-bound cipher before it touches disk and becomes active immediately.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input studio.APIKeySaveInput) (*mcp.CallToolResult, *studio.SettingsResult, error) {
		if input.APIKey == "" {
			return nil, nil, errors.New("api_key is required")
		}
		result, err := studio.SaveAPIKey(ctx, input.APIKey)
		if err != nil {
			return nil, nil, err
		}
		return nil, result, nil
	})
}

func registerSettingsClearKey(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "settings_clear_key",
		Description: "Remove the stored LLM API key. Generation tools will refuse to run until a new key is saved.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, *studio.SettingsResult, error) {
		result, err := studio.ClearAPIKey(ctx)
		if err != nil {
			return nil, nil, err
		}
		return nil, result, nil
	})
}

func registerSettingsSaveModel(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "settings_save_model",
		Description: "Set the model id used for generation (OpenRouter format, e.g. deepseek/deepseek-chat). Takes effect immediately.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input studio.ModelSaveInput) (*mcp.CallToolResult, *studio.SettingsResult, error) {
		if input.Model == "" {
			return nil, nil, errors.New("model is required")
		}
		result, err := studio.SaveModel(ctx, input.Model)
		if err != nil {
			return nil, nil, err
		}
		return nil, result, nil
	})
}

func registerSettingsTest(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "settings_test",
		Description: "Verify the configured API key and model by sending a fixed probe prompt and checking the response.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, *studio.ConnectionTestResult, error) {
		result, err := studio.TestConnection(ctx)
		if err != nil {
			return nil, nil, err
		}
		return nil, result, nil
	})
}
