// Package handler 包含了处理 HTTP 请求的控制器逻辑。
package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"snnoop-triage/internal/middleware"
	"snnoop-triage/internal/model"
	"snnoop-triage/internal/service"
	"snnoop-triage/pkg/llm"
	"snnoop-triage/pkg/log"

	"github.com/gin-gonic/gin"
)

const (
	msgInvalidRequest = "Invalid request format. Expected messages array."
	msgTimeout        = "Request timeout. Please try again."
	msgInternal       = "Internal server error. Please try again later."
)

// RelayHandler 负责把客户端的聊天消息中继到上游模型。
type RelayHandler struct {
	relayService service.RelayService
	provider     string
}

// NewRelayHandler 创建一个新的 RelayHandler。provider 用于上游错误消息的前缀。
func NewRelayHandler(relayService service.RelayService, provider string) *RelayHandler {
	if provider == "" {
		provider = "Upstream"
	}
	return &RelayHandler{relayService: relayService, provider: provider}
}

// maxRequestBody 与 express.json() 的默认上限一致。
const maxRequestBody = 100 << 10

// Ask 处理 POST /api/ask。
func (h *RelayHandler) Ask(c *gin.Context) {
	messages, ok := decodeMessages(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidRequest})
		return
	}

	body, err := h.relayService.Ask(c.Request.Context(), messages)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", body)
}

// decodeMessages 只接受 {"messages": [...]}；缺失、null 或非数组都视为格式错误。
// 键名区分大小写，"Messages" 不算 messages。
func decodeMessages(c *gin.Context) ([]model.ChatMessage, bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxRequestBody)
	raw, err := c.GetRawData()
	if err != nil {
		return nil, false
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, false
	}
	trimmed := bytes.TrimSpace(fields["messages"])
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, false
	}
	var messages []model.ChatMessage
	if err := json.Unmarshal(trimmed, &messages); err != nil {
		return nil, false
	}
	return messages, true
}

// writeError 按错误类别映射 HTTP 状态码；细节只写入服务端日志。
func (h *RelayHandler) writeError(c *gin.Context, err error) {
	requestID := middleware.GetRequestID(c)

	var apiErr *llm.APIError
	switch {
	case errors.Is(err, llm.ErrTimeout):
		log.Warnw("上游请求超时", "requestID", requestID, "error", err)
		c.JSON(http.StatusRequestTimeout, gin.H{"error": msgTimeout})
	case errors.As(err, &apiErr):
		log.Warnw("上游返回错误", "requestID", requestID, "status", apiErr.StatusCode, "message", apiErr.Message)
		c.JSON(errorStatus(apiErr.StatusCode), gin.H{"error": fmt.Sprintf("%s API Error: %s", h.provider, apiErr.Message)})
	default:
		log.Errorw("调用上游失败", "requestID", requestID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgInternal})
	}
}

// errorStatus 沿用上游状态码；非 4xx/5xx（如 304）无法携带响应体，改为 502。
func errorStatus(upstream int) int {
	if upstream >= 400 && upstream <= 599 {
		return upstream
	}
	return http.StatusBadGateway
}
