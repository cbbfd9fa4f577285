package handler

import (
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
)

// timestampLayout is ISO-8601 in UTC with fixed nanosecond precision.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

// HealthHandler 负责健康检查。
type HealthHandler struct {
	last atomic.Int64
	now  func() time.Time
}

// NewHealthHandler 创建一个新的 HealthHandler。
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{now: time.Now}
}

// Check 总是返回 200 和当前时间戳。
func (h *HealthHandler) Check(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "OK",
		"timestamp": h.timestamp().Format(timestampLayout),
	})
}

// timestamp 保证同一进程内连续调用的时间戳严格递增。
func (h *HealthHandler) timestamp() time.Time {
	for {
		prev := h.last.Load()
		next := h.now().UnixNano()
		if next <= prev {
			next = prev + 1
		}
		if h.last.CompareAndSwap(prev, next) {
			return time.Unix(0, next).UTC()
		}
	}
}
