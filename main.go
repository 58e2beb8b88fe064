// go_factory — YouTube content studio MCP server.
//
// Exposes channel, script, trend, hook, analytics, and settings tools over
// MCP. All content lives in a local SQLite database; the only network
// dependency is the configured LLM endpoint.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/anatolykoptev/go-kit/env"
	"github.com/anatolykoptev/go-mcpserver"
	"github.com/anatolykoptev/go_factory/internal/engine"
	"github.com/anatolykoptev/go_factory/internal/engine/studio"
	"github.com/anatolykoptev/go_factory/internal/factoryserver"
	"github.com/anatolykoptev/go_factory/internal/store"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

var (
	version = "dev"
	mcpPort = env.Str("MCP_PORT", "8893")
)

func main() {
	if err := initEngine(); err != nil {
		slog.Error("engine init failed", slog.Any("error", err))
		os.Exit(1)
	}

	slog.Info("starting go_factory",
		slog.String("port", mcpPort),
	)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "go_factory",
		Version: version,
	}, nil)

	factoryserver.RegisterTools(server)
	slog.Info("tools registered", slog.Int("count", 27))

	if err := mcpserver.Run(server, mcpserver.Config{
		Name:         "go_factory",
		Version:      version,
		Port:         mcpPort,
		WriteTimeout: 600 * time.Second,
		Metrics:      engine.FormatMetrics,
	}); err != nil {
		slog.Error("server failed", slog.Any("error", err))
	}
}

func initEngine() error {
	c := engine.Config{
		LLMAPIBase:           env.Str("LLM_API_BASE", engine.DefaultAPIBase),
		LLMModel:             env.Str("LLM_MODEL", engine.DefaultModel),
		LLMTemperature:       env.Float("LLM_TEMPERATURE", engine.DefaultTemperature),
		LLMMaxTokens:         env.Int("LLM_MAX_TOKENS", engine.DefaultMaxTokens),
		LLMMaxAttempts:       env.Int("LLM_MAX_ATTEMPTS", engine.DefaultMaxAttempts),
		LLMAttemptTimeout:    env.Duration("LLM_ATTEMPT_TIMEOUT", engine.DefaultAttemptTimeout),
		LLMRequestsPerMinute: env.Int("LLM_REQUESTS_PER_MINUTE", 0),
		CacheMaxEntries:      env.Int("CACHE_MAX_ENTRIES", 1000),
		CacheCleanupInterval: env.Duration("CACHE_CLEANUP_INTERVAL", 300*time.Second),
	}

	s, err := store.Open(dbPath(), store.DefaultSpecs)
	if err != nil {
		return err
	}
	c.Store = s
	slog.Info("store opened", slog.String("path", dbPath()))

	c.Gateway = engine.NewGateway(engine.GatewayOptions{
		BaseURL:           c.LLMAPIBase,
		Model:             c.LLMModel,
		Temperature:       c.LLMTemperature,
		MaxTokens:         c.LLMMaxTokens,
		MaxAttempts:       c.LLMMaxAttempts,
		AttemptTimeout:    c.LLMAttemptTimeout,
		RequestsPerMinute: c.LLMRequestsPerMinute,
		Client:            &http.Client{Timeout: 150 * time.Second},
	})
	if apiKey := env.Str("LLM_API_KEY", ""); apiKey != "" {
		c.Gateway.SetCredential(apiKey)
	}

	engine.Init(c)

	cacheTTL := env.Duration("CACHE_TTL", 15*time.Minute)
	engine.InitCache(env.Str("REDIS_URL", ""), cacheTTL, c.CacheMaxEntries, c.CacheCleanupInterval)

	// Persisted settings win over env for credential and model.
	studio.LoadSettings(context.Background())
	return nil
}

func dbPath() string {
	if p := env.Str("FACTORY_DB", ""); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "factory.db"
	}
	return filepath.Join(home, ".go_factory", "factory.db")
}
