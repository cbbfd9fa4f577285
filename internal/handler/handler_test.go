package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"snnoop-triage/internal/config"
	"snnoop-triage/internal/model"
	"snnoop-triage/internal/service"
	"snnoop-triage/pkg/llm"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(llmCfg config.LLMConfig) *gin.Engine {
	cfg := &config.Config{LLM: llmCfg}
	svc := service.NewRelayService(llmCfg, llm.NewClient(llmCfg))
	return NewRouter(cfg, svc)
}

func liveConfig(url string) config.LLMConfig {
	return config.LLMConfig{
		Provider: "Corti",
		APIKey:   "test-key",
		BaseURL:  url,
		Model:    "corti-chat",
		Timeout:  2 * time.Second,
		Generation: config.LLMGenerationConfig{
			Temperature: 0.3,
			TopP:        0.9,
			MaxTokens:   2000,
		},
	}
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func errorOf(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("error body is not JSON: %q", w.Body.String())
	}
	return body.Error
}

const validAsk = `{"messages":[{"role":"system","content":"s"},{"role":"user","content":"u"}]}`

func TestHealth(t *testing.T) {
	r := newTestRouter(config.LLMConfig{})

	var prev time.Time
	for i := 0; i < 5; i++ {
		w := do(r, http.MethodGet, "/health", "")
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		var body struct {
			Status    string `json:"status"`
			Timestamp string `json:"timestamp"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if body.Status != "OK" {
			t.Fatalf("expected status OK, got %q", body.Status)
		}
		ts, err := time.Parse(time.RFC3339Nano, body.Timestamp)
		if err != nil {
			t.Fatalf("timestamp %q is not ISO-8601: %v", body.Timestamp, err)
		}
		if !ts.After(prev) {
			t.Fatalf("timestamp %s not after %s", ts, prev)
		}
		prev = ts
	}
}

func TestHealthTimestampMonotonicWithFrozenClock(t *testing.T) {
	h := NewHealthHandler()
	frozen := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	h.now = func() time.Time { return frozen }

	a := h.timestamp()
	b := h.timestamp()
	if !b.After(a) {
		t.Fatalf("expected strictly increasing timestamps, got %s then %s", a, b)
	}
}

func TestAskRejectsMalformedRequests(t *testing.T) {
	var upstreamCalls atomic.Int32
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		upstreamCalls.Add(1)
	}))
	defer upstream.Close()
	r := newTestRouter(liveConfig(upstream.URL))

	bodies := []string{
		``,
		`not json`,
		`{}`,
		`{"messages":null}`,
		`{"messages":"hello"}`,
		`{"messages":{"role":"user"}}`,
		`{"messages":[1,2,3]}`,
		`[{"role":"user","content":"x"}]`,
		`{"MESSAGES":[{"role":"user","content":"x"}]}`,
		`{"Messages":[{"role":"user","content":"x"}]}`,
		`{"messages":[{"role":"user","content":"` + strings.Repeat("x", maxRequestBody) + `"}]}`,
	}
	for _, b := range bodies {
		w := do(r, http.MethodPost, "/api/ask", b)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("body of %d bytes: expected 400, got %d", len(b), w.Code)
		}
		if got := errorOf(t, w); got != "Invalid request format. Expected messages array." {
			t.Fatalf("body of %d bytes: unexpected error %q", len(b), got)
		}
	}
	if n := upstreamCalls.Load(); n != 0 {
		t.Fatalf("upstream must not be called for malformed requests, got %d calls", n)
	}
}

func TestAskDemoMode(t *testing.T) {
	r := newTestRouter(config.LLMConfig{Provider: "Corti"})

	w := do(r, http.MethodPost, "/api/ask", validAsk)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var env service.CompletionEnvelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	var result model.AnalysisResult
	if err := json.Unmarshal([]byte(env.Choices[0].Message.Content), &result); err != nil {
		t.Fatalf("content is not JSON: %v", err)
	}
	if result.Analysis.Category != model.CategoryLow || result.Analysis.Urgency != model.UrgencyRoutine {
		t.Fatalf("unexpected demo result %+v", result.Analysis)
	}
}

func TestAskRelaysUpstreamBody(t *testing.T) {
	const upstreamBody = `{"id":"chatcmpl-1","choices":[{"index":0,"message":{"role":"assistant","content":"{\"analysis\":{}}"}}],"usage":{"total_tokens":10}}`
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("credential not attached")
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(upstreamBody))
	}))
	defer upstream.Close()

	w := do(newTestRouter(liveConfig(upstream.URL)), http.MethodPost, "/api/ask", validAsk)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w.Body.String() != upstreamBody {
		t.Fatalf("upstream body modified: %s", w.Body.String())
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Fatalf("expected a request id header")
	}
}

func TestAskUpstreamErrorStatusPropagates(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusTooManyRequests, http.StatusServiceUnavailable} {
		upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"error":{"message":"quota exceeded"}}`))
		}))
		w := do(newTestRouter(liveConfig(upstream.URL)), http.MethodPost, "/api/ask", validAsk)
		upstream.Close()

		if w.Code != status {
			t.Fatalf("expected %d, got %d", status, w.Code)
		}
		if got := errorOf(t, w); got != "Corti API Error: quota exceeded" {
			t.Fatalf("unexpected error %q", got)
		}
	}
}

func TestAskUpstreamStatusWithoutBodyBecomesBadGateway(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotModified)
	}))
	defer upstream.Close()

	w := do(newTestRouter(liveConfig(upstream.URL)), http.MethodPost, "/api/ask", validAsk)
	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", w.Code)
	}
	if got := errorOf(t, w); got != "Corti API Error: API request failed" {
		t.Fatalf("unexpected error %q", got)
	}
}

func TestAskUpstreamTimeout(t *testing.T) {
	release := make(chan struct{})
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	t.Cleanup(func() {
		close(release)
		upstream.Close()
	})

	cfg := liveConfig(upstream.URL)
	cfg.Timeout = 150 * time.Millisecond

	start := time.Now()
	w := do(newTestRouter(cfg), http.MethodPost, "/api/ask", validAsk)
	elapsed := time.Since(start)

	if w.Code != http.StatusRequestTimeout {
		t.Fatalf("expected 408, got %d", w.Code)
	}
	if got := errorOf(t, w); got != "Request timeout. Please try again." {
		t.Fatalf("unexpected error %q", got)
	}
	if elapsed > cfg.Timeout+time.Second {
		t.Fatalf("relay took %s, timeout was %s", elapsed, cfg.Timeout)
	}
}

func TestAskTransportFailure(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := upstream.URL
	upstream.Close()

	w := do(newTestRouter(liveConfig(url)), http.MethodPost, "/api/ask", validAsk)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	if got := errorOf(t, w); got != "Internal server error. Please try again later." {
		t.Fatalf("unexpected error %q", got)
	}
}

func TestUnknownRoute(t *testing.T) {
	w := do(newTestRouter(config.LLMConfig{}), http.MethodGet, "/nope", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	if got := errorOf(t, w); got != "Endpoint not found" {
		t.Fatalf("unexpected error %q", got)
	}
}

func TestCORSPreflight(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/api/ask", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()
	newTestRouter(config.LLMConfig{}).ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("unexpected allow-origin %q", got)
	}
}
