package handler

import (
	"net/http"

	"snnoop-triage/internal/config"
	"snnoop-triage/internal/middleware"
	"snnoop-triage/internal/service"

	"github.com/gin-gonic/gin"
)

// NewRouter 创建路由引擎并注册中间件与路由。
func NewRouter(cfg *config.Config, relayService service.RelayService) *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.RequestLogger(),
		middleware.Recovery(),
		middleware.CORSMiddleware(middleware.CORSConfigFor(cfg.Server.CORS)),
	)

	r.GET("/health", NewHealthHandler().Check)

	api := r.Group("/api")
	{
		api.POST("/ask", NewRelayHandler(relayService, cfg.LLM.Provider).Ask)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Endpoint not found"})
	})
	return r
}
