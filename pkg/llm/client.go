// Package llm provides a client for OpenAI-compatible chat-completion APIs.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"

	"snnoop-triage/internal/config"
)

// ErrTimeout is returned when the upstream call exceeds the configured timeout.
var ErrTimeout = errors.New("llm: upstream request timed out")

// APIError is returned when the upstream answered with a non-2xx status.
type APIError struct {
	StatusCode int
	Message    string
	Body       []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("chat api returned status %d: %s", e.StatusCode, e.Message)
}

// Client defines the interface for an LLM client.
type Client interface {
	// ChatCompletion sends one non-streaming completion request and returns the raw response body.
	ChatCompletion(ctx context.Context, messages []Message, gen *GenerationParams) ([]byte, error)
}

type chatClient struct {
	cfg      config.LLMConfig
	endpoint string
	client   *http.Client
}

// NewClient creates a new LLM client from the upstream config.
// The client never retries; cfg.Timeout bounds the whole exchange.
func NewClient(cfg config.LLMConfig) Client {
	return &chatClient{
		cfg:      cfg,
		endpoint: Endpoint(cfg.BaseURL),
		client:   &http.Client{Timeout: cfg.Timeout},
	}
}

// Endpoint accepts either an API base (".../v1") or a full chat-completions URL.
func Endpoint(baseURL string) string {
	u := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if strings.HasSuffix(u, "/chat/completions") {
		return u
	}
	return u + "/chat/completions"
}

// Message 表示一条角色消息
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature *float64  `json:"temperature,omitempty"`
	TopP        *float64  `json:"top_p,omitempty"`
	MaxTokens   *int      `json:"max_tokens,omitempty"`
}

// GenerationParams 控制生成行为，nil 字段不发送。
type GenerationParams struct {
	Temperature *float64
	TopP        *float64
	MaxTokens   *int
}

// NewGenerationParams 从配置构造生成参数，零值视为未设置。
func NewGenerationParams(cfg config.LLMGenerationConfig) *GenerationParams {
	gen := &GenerationParams{}
	if cfg.Temperature != 0 {
		t := cfg.Temperature
		gen.Temperature = &t
	}
	if cfg.TopP != 0 {
		p := cfg.TopP
		gen.TopP = &p
	}
	if cfg.MaxTokens != 0 {
		m := cfg.MaxTokens
		gen.MaxTokens = &m
	}
	return gen
}

type errorEnvelope struct {
	Error json.RawMessage `json:"error"`
}

func (c *chatClient) ChatCompletion(ctx context.Context, messages []Message, gen *GenerationParams) ([]byte, error) {
	if messages == nil {
		messages = []Message{}
	}
	reqBody := chatRequest{
		Model:    c.cfg.Model,
		Messages: messages,
	}
	// gen 为 nil 时不发送生成参数，由上游使用其默认值
	if gen != nil {
		reqBody.Temperature = gen.Temperature
		reqBody.TopP = gen.TopP
		reqBody.MaxTokens = gen.MaxTokens
	}

	reqBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(reqBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to create chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.client.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		return nil, fmt.Errorf("failed to call chat api: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if isTimeout(err) {
			return nil, fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		return nil, fmt.Errorf("failed to read chat response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    upstreamMessage(body),
			Body:       body,
		}
	}
	return body, nil
}

// upstreamMessage pulls error.message (or a bare error string) out of an upstream error body.
func upstreamMessage(body []byte) string {
	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err == nil && len(env.Error) > 0 {
		var obj struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(env.Error, &obj); err == nil && obj.Message != "" {
			return obj.Message
		}
		var s string
		if err := json.Unmarshal(env.Error, &s); err == nil && s != "" {
			return s
		}
	}
	return "API request failed"
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
