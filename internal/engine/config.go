package engine

import (
	"time"

	"github.com/anatolykoptev/go_factory/internal/store"
)

// Config holds all engine configuration, injected from main.
type Config struct {
	LLMAPIBase           string
	LLMModel             string
	LLMTemperature       float64
	LLMMaxTokens         int
	LLMMaxAttempts       int
	LLMAttemptTimeout    time.Duration
	LLMRequestsPerMinute int
	CacheMaxEntries      int
	CacheCleanupInterval time.Duration

	Gateway *Gateway
	Store   *store.Store
}

var cfg Config

// Cfg exposes the engine configuration for sub-packages (studio).
// Always points to the current cfg value.
var Cfg = &cfg

// Init initializes the engine with the given configuration.
func Init(c Config) {
	cfg = c
	Cfg = &cfg
}
