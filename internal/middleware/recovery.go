package middleware

import (
	"net/http"

	"snnoop-triage/pkg/log"

	"github.com/gin-gonic/gin"
)

// Recovery 捕获处理器中的 panic，返回统一的 JSON 错误。
func Recovery() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, err any) {
		log.Errorw("Unhandled error", "requestID", GetRequestID(c), "panic", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	})
}
