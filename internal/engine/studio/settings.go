package studio

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/anatolykoptev/go_factory/internal/engine"
	"github.com/anatolykoptev/go_factory/internal/secretbox"
)

// Settings keys. The credential is stored sealed; the model id in plain text.
const (
	settingAPIKey = "apiKey"
	settingModel  = "model"
)

// APIKeySaveInput is the input for settings_save_key.
type APIKeySaveInput struct {
	APIKey string `json:"api_key"`
}

// ModelSaveInput is the input for settings_save_model.
type ModelSaveInput struct {
	Model string `json:"model"`
}

// SettingsResult is the output for settings mutations.
type SettingsResult struct {
	Message string `json:"message"`
}

// ConnectionTestResult is the output for settings_test.
type ConnectionTestResult struct {
	OK       bool   `json:"ok"`
	Model    string `json:"model"`
	Response string `json:"response,omitempty"`
	Message  string `json:"message"`
}

// LoadSettings applies the persisted credential and model to the gateway at
// startup. A credential that no longer unseals (copied database, changed
// hostname) is skipped with a warning; the gateway stays unconfigured.
func LoadSettings(ctx context.Context) {
	if sealed := engine.Cfg.Store.GetSetting(ctx, settingAPIKey); sealed != "" {
		if key, ok := secretbox.Unprotect(sealed); ok {
			engine.Cfg.Gateway.SetCredential(key)
			slog.Info("settings: credential loaded")
		} else {
			slog.Warn("settings: stored credential could not be unsealed, reconfigure with settings_save_key")
		}
	}
	if model := engine.Cfg.Store.GetSetting(ctx, settingModel); model != "" {
		engine.Cfg.Gateway.SetModel(model)
		slog.Info("settings: model loaded", slog.String("model", model))
	}
}

// SaveAPIKey seals and persists the credential, then installs it on the
// gateway.
func SaveAPIKey(ctx context.Context, apiKey string) (*SettingsResult, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("settings_save_key: api_key is required")
	}
	sealed, ok := secretbox.Protect(apiKey)
	if !ok {
		return nil, errors.New("settings_save_key: sealing the credential failed")
	}
	if err := engine.Cfg.Store.SetSetting(ctx, settingAPIKey, sealed); err != nil {
		engine.IncrStoreErrors()
		return nil, err
	}
	engine.Cfg.Gateway.SetCredential(apiKey)
	return &SettingsResult{Message: "API key saved (sealed) and active"}, nil
}

// ClearAPIKey removes the stored credential and deconfigures the gateway.
func ClearAPIKey(ctx context.Context) (*SettingsResult, error) {
	if err := engine.Cfg.Store.RemoveSetting(ctx, settingAPIKey); err != nil {
		engine.IncrStoreErrors()
		return nil, err
	}
	engine.Cfg.Gateway.SetCredential("")
	return &SettingsResult{Message: "API key cleared"}, nil
}

// SaveModel persists the model id and applies it to the gateway.
func SaveModel(ctx context.Context, model string) (*SettingsResult, error) {
	model = strings.TrimSpace(model)
	if model == "" {
		return nil, errors.New("settings_save_model: model is required")
	}
	if err := engine.Cfg.Store.SetSetting(ctx, settingModel, model); err != nil {
		engine.IncrStoreErrors()
		return nil, err
	}
	engine.Cfg.Gateway.SetModel(model)
	return &SettingsResult{Message: "Model saved: " + model}, nil
}

// TestConnection sends a fixed probe prompt through the gateway and checks
// the completion for the expected marker.
func TestConnection(ctx context.Context) (*ConnectionTestResult, error) {
	if !engine.Cfg.Gateway.Configured() {
		return nil, engine.ErrNotConfigured
	}
	model := engine.Cfg.Gateway.Model()
	resp, err := engine.Cfg.Gateway.Generate(ctx, engine.ConnectionTestPrompt, "")
	if err != nil {
		return &ConnectionTestResult{
			OK:      false,
			Model:   model,
			Message: fmt.Sprintf("Connection failed: %v", err),
		}, nil
	}
	if strings.Contains(resp, "CONNECTION_OK") {
		return &ConnectionTestResult{OK: true, Model: model, Response: resp, Message: "Connection successful"}, nil
	}
	return &ConnectionTestResult{
		OK:       false,
		Model:    model,
		Response: resp,
		Message:  "Connected but the model returned an unexpected response; check model availability",
	}, nil
}
