// Package main 是中继服务的入口点。
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"snnoop-triage/internal/config"
	"snnoop-triage/internal/handler"
	"snnoop-triage/internal/service"
	"snnoop-triage/pkg/llm"
	"snnoop-triage/pkg/log"

	"github.com/gin-gonic/gin"
)

func main() {
	configPath := flag.String("config", "./configs/config.yaml", "path to config.yaml")
	flag.Parse()

	// 1. 初始化配置
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "读取配置失败: %v\n", err)
		os.Exit(1)
	}

	// 2. 初始化日志记录器
	log.Init(cfg.Log.Level, cfg.Log.Format, cfg.Log.OutputPath)
	defer log.Sync()

	if cfg.LLM.DemoMode() {
		log.Warnf("未找到 CORTI_API_KEY，/api/ask 将返回演示响应")
	}

	// 3. 初始化 Service (依赖注入)
	llmClient := llm.NewClient(cfg.LLM)
	relayService := service.NewRelayService(cfg.LLM, llmClient)

	// 4. 设置 Gin 模式并创建路由引擎
	gin.SetMode(cfg.Server.Mode)
	r := handler.NewRouter(cfg, relayService)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: r,
	}

	go func() {
		log.Infow("服务启动",
			"addr", srv.Addr,
			"health", fmt.Sprintf("http://localhost:%s/health", cfg.Server.Port),
			"upstream", llm.Endpoint(cfg.LLM.BaseURL),
			"apiKeyConfigured", !cfg.LLM.DemoMode(),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("HTTP 服务监听失败: %s", err)
		}
	}()

	// 等待中断信号以实现优雅停机
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("接收到停机信号，正在关闭服务...")

	// 留出比上游超时更长的时间，让进行中的中继请求完成
	ctx, cancel := context.WithTimeout(context.Background(), cfg.LLM.Timeout+5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("HTTP 服务器关闭失败: %v", err)
	}
	log.Info("服务已优雅关闭")
}
