package studio

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/anatolykoptev/go_factory/internal/engine"
	"github.com/anatolykoptev/go_factory/internal/store"
)

// setupTest wires engine.Cfg to a fresh store and a gateway pointed at a
// test server serving completions from the queue.
func setupTest(t *testing.T, completions ...string) {
	t.Helper()

	s, err := store.Open(filepath.Join(t.TempDir(), "factory.db"), store.DefaultSpecs)
	if err != nil {
		t.Fatalf("store.Open() error: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	i := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if i >= len(completions) {
			t.Errorf("unexpected generation call #%d", i+1)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		body := completions[i]
		i++
		w.Write([]byte(`{"choices":[{"message":{"content":` + jsonString(body) + `}}]}`))
	}))
	t.Cleanup(srv.Close)

	g := engine.NewGateway(engine.GatewayOptions{BaseURL: srv.URL, Client: srv.Client()})
	g.SetCredential("test-key")

	engine.Init(engine.Config{Gateway: g, Store: s})
}

// jsonString quotes s as a JSON string literal.
func jsonString(s string) string {
	out := []byte{'"'}
	for _, r := range s {
		switch r {
		case '"':
			out = append(out, '\\', '"')
		case '\\':
			out = append(out, '\\', '\\')
		case '\n':
			out = append(out, '\\', 'n')
		case '\t':
			out = append(out, '\\', 't')
		default:
			out = append(out, []byte(string(r))...)
		}
	}
	return string(append(out, '"'))
}
