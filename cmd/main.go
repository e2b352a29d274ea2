package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dineout-frontend/internal/client"
	"dineout-frontend/internal/config"
	"dineout-frontend/internal/handler"
	"dineout-frontend/internal/service"
	"dineout-frontend/pkg/logger"

	"github.com/gin-gonic/gin"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "./configs/config.yaml", "config file path")
	flag.Parse()

	// 加载配置
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 初始化日志
	if err := logger.Init(cfg.Log.Level, cfg.Log.Format); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}

	// 初始化后端客户端和页面服务
	backend := client.New(cfg.Backend.BaseURL, cfg.Backend.Timeout,
		client.WithCuisineCache(cfg.Backend.CuisineCacheTTL))

	pageService := service.NewPageService(cfg, backend)

	// 初始化处理器
	pageHandler := handler.NewPageHandler(pageService, cfg.Page.HeartbeatInterval)

	// 创建路由
	gin.SetMode(gin.ReleaseMode)
	router := handler.NewRouter(cfg, pageHandler)

	// 创建HTTP服务器
	server := &http.Server{
		Addr:           fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:        router,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	// 启动服务器
	go func() {
		logger.Infof("服务器启动在端口 %d, 推荐服务 %s", cfg.Server.Port, cfg.Backend.BaseURL)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("服务器启动失败: %v", err)
		}
	}()

	// 等待信号优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("服务器正在关闭...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Errorf("服务器关闭失败: %v", err)
	}
	if err := pageService.Close(); err != nil {
		logger.Errorf("页面服务关闭失败: %v", err)
	}
	logger.Info("服务器已关闭")
}
