package engine

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

// newTestGateway wires a gateway to srv with backoff sleeps recorded instead
// of slept.
func newTestGateway(t *testing.T, srv *httptest.Server) (*Gateway, *[]time.Duration) {
	t.Helper()
	g := NewGateway(GatewayOptions{
		BaseURL: srv.URL,
		Client:  srv.Client(),
	})
	g.SetCredential("test-key")
	var sleeps []time.Duration
	g.sleep = func(ctx context.Context, d time.Duration) error {
		sleeps = append(sleeps, d)
		return nil
	}
	return g, &sleeps
}

func completionBody(content string) string {
	b, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]string{"content": content}},
		},
	})
	return string(b)
}

func TestGenerateNotConfiguredMakesNoCalls(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	g, _ := newTestGateway(t, srv)
	g.SetCredential("")

	_, err := g.Generate(context.Background(), "hello", SystemPrompt)
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("error = %v, want ErrNotConfigured", err)
	}
	if n := calls.Load(); n != 0 {
		t.Errorf("network calls = %d, want 0", n)
	}
}

func TestGenerateSuccessFirstAttempt(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization = %q", got)
		}
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Model != DefaultModel {
			t.Errorf("model = %q, want %q", req.Model, DefaultModel)
		}
		if req.Temperature != DefaultTemperature || req.MaxTokens != DefaultMaxTokens {
			t.Errorf("temperature/max_tokens = %v/%d", req.Temperature, req.MaxTokens)
		}
		if len(req.Messages) != 2 || req.Messages[0].Role != "system" || req.Messages[1].Role != "user" {
			t.Errorf("messages = %+v", req.Messages)
		}
		w.Write([]byte(completionBody("  hello back  ")))
	}))
	defer srv.Close()

	g, sleeps := newTestGateway(t, srv)
	got, err := g.Generate(context.Background(), "hello", SystemPrompt)
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if got != "hello back" {
		t.Errorf("Generate() = %q, want trimmed %q", got, "hello back")
	}
	if len(*sleeps) != 0 {
		t.Errorf("sleeps = %v, want none", *sleeps)
	}
}

func TestGenerateRetriesRateLimitThenSucceeds(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"error": {"message": "rate limited"}}`))
			return
		}
		w.Write([]byte(completionBody("CONNECTION_OK")))
	}))
	defer srv.Close()

	g, sleeps := newTestGateway(t, srv)
	got, err := g.Generate(context.Background(), ConnectionTestPrompt, SystemPrompt)
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if got != "CONNECTION_OK" {
		t.Errorf("Generate() = %q", got)
	}
	if n := calls.Load(); n != 2 {
		t.Errorf("attempts = %d, want 2", n)
	}
	if len(*sleeps) != 1 || (*sleeps)[0] != 2*time.Second {
		t.Errorf("backoff = %v, want [2s]", *sleeps)
	}
}

func TestGenerateExhaustsBudgetAndReturnsLastError(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": {"message": "model overloaded"}}`))
	}))
	defer srv.Close()

	g, sleeps := newTestGateway(t, srv)
	_, err := g.Generate(context.Background(), "hello", SystemPrompt)
	if err == nil {
		t.Fatal("Generate() succeeded, want error")
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error type = %T, want *APIError", err)
	}
	if apiErr.Message != "model overloaded" || apiErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("APIError = %+v", apiErr)
	}
	if n := calls.Load(); n != int64(DefaultMaxAttempts) {
		t.Errorf("attempts = %d, want %d", n, DefaultMaxAttempts)
	}
	want := []time.Duration{2 * time.Second, 4 * time.Second}
	if len(*sleeps) != len(want) {
		t.Fatalf("backoffs = %v, want %v", *sleeps, want)
	}
	for i, d := range want {
		if (*sleeps)[i] != d {
			t.Errorf("backoff[%d] = %v, want %v", i, (*sleeps)[i], d)
		}
	}
}

func TestGenerateErrorWithoutMessageUsesStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream gone"))
	}))
	defer srv.Close()

	g, _ := newTestGateway(t, srv)
	_, err := g.GenerateN(context.Background(), "hello", SystemPrompt, 1)
	if err == nil {
		t.Fatal("Generate() succeeded, want error")
	}
	if got := err.Error(); got != "HTTP status 502" {
		t.Errorf("error = %q, want %q", got, "HTTP status 502")
	}
}

func TestGenerateEmptyCompletionRetried(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(completionBody("   ")))
	}))
	defer srv.Close()

	g, _ := newTestGateway(t, srv)
	_, err := g.Generate(context.Background(), "hello", SystemPrompt)
	if !errors.Is(err, errEmptyCompletion) {
		t.Fatalf("error = %v, want empty completion", err)
	}
	if n := calls.Load(); n != int64(DefaultMaxAttempts) {
		t.Errorf("attempts = %d, want %d", n, DefaultMaxAttempts)
	}
}

func TestGenerateNoChoicesRetried(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices": []}`))
	}))
	defer srv.Close()

	g, _ := newTestGateway(t, srv)
	_, err := g.GenerateN(context.Background(), "hello", SystemPrompt, 2)
	if !errors.Is(err, errEmptyCompletion) {
		t.Errorf("error = %v, want empty completion", err)
	}
}

func TestGenerateContextCancelDuringBackoff(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	g, _ := newTestGateway(t, srv)
	ctx, cancel := context.WithCancel(context.Background())
	g.sleep = func(ctx context.Context, d time.Duration) error {
		cancel()
		return ctx.Err()
	}

	_, err := g.Generate(ctx, "hello", SystemPrompt)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestSetModelAndCredential(t *testing.T) {
	g := NewGateway(GatewayOptions{})
	if g.Configured() {
		t.Error("fresh gateway reports configured")
	}
	if g.Model() != DefaultModel {
		t.Errorf("default model = %q", g.Model())
	}
	g.SetCredential("key")
	if !g.Configured() {
		t.Error("gateway with credential reports unconfigured")
	}
	g.SetModel("openai/gpt-4o")
	if g.Model() != "openai/gpt-4o" {
		t.Errorf("model = %q", g.Model())
	}
	g.SetModel("")
	if g.Model() != DefaultModel {
		t.Errorf("empty model did not restore default, got %q", g.Model())
	}
}

func TestGenerateUserPromptOnlyWhenNoSystem(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if len(req.Messages) != 1 || req.Messages[0].Role != "user" {
			t.Errorf("messages = %+v, want single user message", req.Messages)
		}
		if !strings.Contains(req.Messages[0].Content, "CONNECTION_OK") {
			t.Errorf("user content = %q", req.Messages[0].Content)
		}
		w.Write([]byte(completionBody("CONNECTION_OK")))
	}))
	defer srv.Close()

	g, _ := newTestGateway(t, srv)
	if _, err := g.Generate(context.Background(), ConnectionTestPrompt, ""); err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
}
