package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Defaults for the generation gateway. AttemptTimeout bounds one attempt,
// not the whole call; a full three-attempt run can take much longer.
const (
	DefaultModel          = "deepseek/deepseek-chat"
	DefaultAPIBase        = "https://openrouter.ai/api/v1/chat/completions"
	DefaultTemperature    = 0.7
	DefaultMaxTokens      = 4096
	DefaultMaxAttempts    = 3
	DefaultAttemptTimeout = 120 * time.Second
)

// Gateway is the single choke-point for outbound generation calls. All
// credential and model state lives here behind explicit setters; nothing in
// the engine reads ambient credential state.
type Gateway struct {
	baseURL        string
	temperature    float64
	maxTokens      int
	maxAttempts    int
	attemptTimeout time.Duration

	mu     sync.RWMutex
	apiKey string
	model  string

	client  *http.Client
	limiter *rate.Limiter

	// sleep is the backoff clock, replaceable in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// GatewayOptions configures a new Gateway. Zero fields fall back to the
// package defaults.
type GatewayOptions struct {
	BaseURL           string
	Model             string
	Temperature       float64
	MaxTokens         int
	MaxAttempts       int
	AttemptTimeout    time.Duration
	RequestsPerMinute int
	Client            *http.Client
}

// NewGateway builds a Gateway. The HTTP client carries no global timeout;
// each attempt is bounded by its own context deadline instead.
func NewGateway(opts GatewayOptions) *Gateway {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultAPIBase
	}
	if opts.Model == "" {
		opts.Model = DefaultModel
	}
	if opts.Temperature == 0 {
		opts.Temperature = DefaultTemperature
	}
	if opts.MaxTokens == 0 {
		opts.MaxTokens = DefaultMaxTokens
	}
	if opts.MaxAttempts == 0 {
		opts.MaxAttempts = DefaultMaxAttempts
	}
	if opts.AttemptTimeout == 0 {
		opts.AttemptTimeout = DefaultAttemptTimeout
	}
	if opts.Client == nil {
		opts.Client = &http.Client{}
	}
	limit := rate.Inf
	if opts.RequestsPerMinute > 0 {
		limit = rate.Limit(float64(opts.RequestsPerMinute) / 60.0)
	}
	return &Gateway{
		baseURL:        opts.BaseURL,
		model:          opts.Model,
		temperature:    opts.Temperature,
		maxTokens:      opts.MaxTokens,
		maxAttempts:    opts.MaxAttempts,
		attemptTimeout: opts.AttemptTimeout,
		client:         opts.Client,
		limiter:        rate.NewLimiter(limit, 1),
		sleep:          sleepCtx,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// SetCredential installs or replaces the API key. An empty key deconfigures
// the gateway.
func (g *Gateway) SetCredential(apiKey string) {
	g.mu.Lock()
	g.apiKey = apiKey
	g.mu.Unlock()
}

// SetModel replaces the model identifier. Empty restores the default.
func (g *Gateway) SetModel(model string) {
	if model == "" {
		model = DefaultModel
	}
	g.mu.Lock()
	g.model = model
	g.mu.Unlock()
}

// Configured reports whether a credential is present.
func (g *Gateway) Configured() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.apiKey != ""
}

// Model returns the current model identifier.
func (g *Gateway) Model() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.model
}

// snapshot reads credential and model together, once per attempt.
func (g *Gateway) snapshot() (apiKey, model string) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.apiKey, g.model
}

// outcomeKind classifies one attempt. Every non-success kind re-enters the
// retry loop; the split exists for logging and metrics, not for branching.
type outcomeKind int

const (
	outcomeSuccess outcomeKind = iota
	outcomeRateLimited
	outcomeTimeout
	outcomeTransport
	outcomeAPIError
	outcomeEmpty
)

func (k outcomeKind) String() string {
	switch k {
	case outcomeSuccess:
		return "success"
	case outcomeRateLimited:
		return "rate_limited"
	case outcomeTimeout:
		return "timeout"
	case outcomeTransport:
		return "transport"
	case outcomeAPIError:
		return "api_error"
	case outcomeEmpty:
		return "empty"
	default:
		return "unknown"
	}
}

// attemptOutcome is the result of exactly one HTTP attempt.
type attemptOutcome struct {
	kind    outcomeKind
	content string
	err     error
}

// Generate runs one prompt through the service with the default attempt
// budget and returns the trimmed completion text.
func (g *Gateway) Generate(ctx context.Context, userPrompt, systemPrompt string) (string, error) {
	return g.GenerateN(ctx, userPrompt, systemPrompt, g.maxAttempts)
}

// GenerateN is Generate with an explicit attempt budget. Every failure kind
// is retried: rate limits, timeouts, transport errors, API errors, and empty
// completions. Backoff between attempts is 2^attempt seconds. When the
// budget is exhausted, the last attempt's error is returned as-is.
//
// A persistently empty completion therefore burns the whole budget before
// surfacing; the service gives no way to tell "model chose to say nothing"
// from a transient glitch, so the gateway assumes transient.
func (g *Gateway) GenerateN(ctx context.Context, userPrompt, systemPrompt string, maxAttempts int) (string, error) {
	if !g.Configured() {
		return "", ErrNotConfigured
	}
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := g.limiter.Wait(ctx); err != nil {
			return "", err
		}

		metrics.LLMCalls.Add(1)
		out := g.attempt(ctx, userPrompt, systemPrompt)
		if out.kind == outcomeSuccess {
			return out.content, nil
		}
		metrics.LLMErrors.Add(1)
		lastErr = out.err
		slog.Warn("generation attempt failed",
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", maxAttempts),
			slog.String("outcome", out.kind.String()),
			slog.Any("error", out.err))

		if attempt == maxAttempts {
			break
		}
		wait := time.Duration(1<<uint(attempt)) * time.Second
		if err := g.sleep(ctx, wait); err != nil {
			return "", err
		}
	}
	return "", lastErr
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// attempt performs exactly one HTTP round trip under its own 120s deadline
// and classifies the result.
func (g *Gateway) attempt(ctx context.Context, userPrompt, systemPrompt string) attemptOutcome {
	apiKey, model := g.snapshot()

	attemptCtx, cancel := context.WithTimeout(ctx, g.attemptTimeout)
	defer cancel()

	payload := chatRequest{
		Model:       model,
		Temperature: g.temperature,
		MaxTokens:   g.maxTokens,
	}
	if systemPrompt != "" {
		payload.Messages = append(payload.Messages, chatMessage{Role: "system", Content: systemPrompt})
	}
	payload.Messages = append(payload.Messages, chatMessage{Role: "user", Content: userPrompt})

	body, err := json.Marshal(payload)
	if err != nil {
		return attemptOutcome{kind: outcomeTransport, err: fmt.Errorf("encode request: %w", err)}
	}

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodPost, g.baseURL, bytes.NewReader(body))
	if err != nil {
		return attemptOutcome{kind: outcomeTransport, err: fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(attemptCtx.Err(), context.DeadlineExceeded) {
			return attemptOutcome{kind: outcomeTimeout, err: fmt.Errorf("request timed out after %s: %w", g.attemptTimeout, err)}
		}
		return attemptOutcome{kind: outcomeTransport, err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return attemptOutcome{kind: outcomeTransport, err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode != http.StatusOK {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: errorMessage(raw)}
		kind := outcomeAPIError
		if resp.StatusCode == http.StatusTooManyRequests {
			kind = outcomeRateLimited
		}
		return attemptOutcome{kind: kind, err: apiErr}
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return attemptOutcome{kind: outcomeTransport, err: fmt.Errorf("decode response: %w", err)}
	}
	if parsed.Error != nil && parsed.Error.Message != "" {
		return attemptOutcome{kind: outcomeAPIError, err: &APIError{StatusCode: resp.StatusCode, Message: parsed.Error.Message}}
	}
	if len(parsed.Choices) == 0 {
		return attemptOutcome{kind: outcomeEmpty, err: errEmptyCompletion}
	}
	content := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if content == "" {
		return attemptOutcome{kind: outcomeEmpty, err: errEmptyCompletion}
	}
	return attemptOutcome{kind: outcomeSuccess, content: content}
}

// errorMessage pulls the service's error text out of a non-200 body.
// Returns "" when the body carries no usable message.
func errorMessage(raw []byte) string {
	var parsed struct {
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(raw, &parsed); err == nil && parsed.Error != nil {
		return parsed.Error.Message
	}
	return ""
}
