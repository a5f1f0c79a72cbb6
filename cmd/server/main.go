package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/uiaoin/ts-admin/internal/database"
	"github.com/uiaoin/ts-admin/internal/metrics"
	"github.com/uiaoin/ts-admin/internal/router"
	"github.com/uiaoin/ts-admin/internal/services"
	"github.com/uiaoin/ts-admin/pkg/config"
	"github.com/uiaoin/ts-admin/pkg/jwt"
	"github.com/uiaoin/ts-admin/pkg/logger"
)

func main() {
	// 加载配置
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 初始化日志
	if err := logger.Initialize(cfg); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	appLogger := logger.GetLogger()
	appLogger.Info("Starting ts-admin server...")

	if cfg.JWT.Secret == "" {
		appLogger.Fatal("JWT_SECRET is required")
	}

	// 初始化数据库
	if err := database.Initialize(cfg); err != nil {
		appLogger.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := database.Close(); err != nil {
			appLogger.Error("Failed to close database:", err)
		}
		if err := database.CloseSessionStore(); err != nil {
			appLogger.Error("Failed to close Redis:", err)
		}
	}()

	if err := database.Migrate(); err != nil {
		appLogger.Fatalf("Failed to migrate database: %v", err)
	}

	if err := database.Seed(database.GetDB(), cfg.Seed.AdminPassword); err != nil {
		appLogger.Fatalf("Failed to initialize seed data: %v", err)
	}

	// 会话存储
	sessions := database.GetSessionStore()
	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := sessions.Ping(pingCtx); err != nil {
		cancel()
		appLogger.Fatalf("Failed to connect to Redis: %v", err)
	}
	cancel()

	// 指标
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	authMetrics := metrics.NewMetrics(registry)

	// 登录日志清理任务
	cleaner := services.NewLoginLogCleaner(services.NewLoginLogService(database.GetDB()), cfg.LoginLog.CleanupSpec, cfg.LoginLog.RetentionDays)
	if err := cleaner.Start(); err != nil {
		appLogger.Errorf("Failed to start login log cleaner: %v", err)
		// 不影响主服务启动
	}
	defer cleaner.Stop()

	// 设置Gin模式
	gin.SetMode(cfg.Server.Mode)

	r := router.SetupRouter(cfg, router.Dependencies{
		DB:       database.GetDB(),
		Sessions: sessions,
		Redis:    sessions,
		Tokens:   jwt.GetJWTManager(),
		Metrics:  authMetrics,
		Gatherer: registry,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatalf("Failed to start server: %v", err)
		}
	}()

	appLogger.Infof("Server started on port %s", cfg.Server.Port)

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Server forced to shutdown:", err)
	}
	appLogger.Info("Server exited")
}
