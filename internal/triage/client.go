package triage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"snnoop-triage/internal/model"
	"snnoop-triage/pkg/log"
)

// DefaultRelayURL 是本地运行中继时的地址。
const DefaultRelayURL = "http://localhost:8000"

// RelayError 表示中继返回了非 200 状态。
type RelayError struct {
	StatusCode int
	Message    string
}

func (e *RelayError) Error() string {
	return fmt.Sprintf("relay returned status %d: %s", e.StatusCode, e.Message)
}

// Client 通过中继服务请求分诊，凭证只保存在中继一侧。
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient 创建中继客户端。timeout 为 0 时不设置客户端超时，由中继自身的上游超时兜底。
func NewClient(baseURL string, timeout time.Duration) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultRelayURL
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

type askRequest struct {
	Messages []model.ChatMessage `json:"messages"`
}

// Analyze 构造提示词、调用中继并严格解析结果。任何失败都以错误返回。
func (c *Client) Analyze(ctx context.Context, answers model.QuestionnaireAnswers) (*model.AnalysisResult, error) {
	payload, err := json.Marshal(askRequest{Messages: BuildMessages(answers)})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal ask request: %w", err)
	}

	body, err := c.do(ctx, http.MethodPost, "/api/ask", payload)
	if err != nil {
		return nil, err
	}
	return ParseResponse(body)
}

// AnalyzeWithFallback 与 Analyze 相同，但失败时返回静态兜底结果，fallback 为 true。
func (c *Client) AnalyzeWithFallback(ctx context.Context, answers model.QuestionnaireAnswers) (result *model.AnalysisResult, fallback bool) {
	result, err := c.Analyze(ctx, answers)
	if err != nil {
		log.Warnw("分诊请求失败，使用兜底结果", "relay", c.baseURL, "error", err)
		return FallbackResult(), true
	}
	return result, false
}

// HealthStatus 是 GET /health 的响应。
type HealthStatus struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// Health 查询中继的健康状态。
func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	body, err := c.do(ctx, http.MethodGet, "/health", nil)
	if err != nil {
		return nil, err
	}
	var hs HealthStatus
	if err := json.Unmarshal(body, &hs); err != nil {
		return nil, fmt.Errorf("failed to parse health response: %w", err)
	}
	return &hs, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call relay: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read relay response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &RelayError{StatusCode: resp.StatusCode, Message: relayMessage(body, resp.Status)}
	}
	return body, nil
}

func relayMessage(body []byte, status string) string {
	var e struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &e); err == nil && e.Error != "" {
		return e.Error
	}
	return status
}
