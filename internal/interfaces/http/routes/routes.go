package routes

import (
	"time"

	_ "github.com/easayliu/mirror-status-bot/docs"
	"github.com/easayliu/mirror-status-bot/internal/application/services/status"
	"github.com/easayliu/mirror-status-bot/internal/infrastructure/config"
	"github.com/easayliu/mirror-status-bot/internal/infrastructure/telemetry"
	"github.com/easayliu/mirror-status-bot/internal/interfaces/http/handlers"
	"github.com/easayliu/mirror-status-bot/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Deps 路由依赖
type Deps struct {
	Config    *config.Config
	Registry  *status.Registry
	Pager     *status.Pager
	Renderer  *status.Renderer
	Probe     status.SystemProbe
	Telemetry *telemetry.Telemetry // 为空时不暴露 /metrics
	Webhook   gin.HandlerFunc      // 为空时不注册 webhook
	StartTime time.Time
	Version   string
}

// SetupRoutes 设置路由
func SetupRoutes(d Deps) *gin.Engine {
	router := gin.New()

	var recorder middleware.HTTPRecorder
	if d.Telemetry != nil {
		recorder = d.Telemetry
	}

	// 全局中间件
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware(recorder))
	router.Use(middleware.RecoverMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.ErrorHandlerMiddleware())

	// Swagger文档路由
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	if d.Telemetry != nil && d.Config.Metrics.Enabled {
		router.GET(d.Config.Metrics.Path, gin.WrapH(d.Telemetry.Handler()))
	}

	// Telegram Webhook路由
	if d.Webhook != nil {
		router.POST("/telegram/webhook", d.Webhook)
	}

	health := handlers.NewHealthHandler(d.StartTime, d.Version)
	statusHandler := handlers.NewStatusHandler(d.Pager, d.Renderer)
	statsHandler := handlers.NewStatsHandler(d.Probe, d.Registry, d.Renderer, d.Config.Download.Dir)

	api := router.Group("/api/v1")
	{
		api.GET("/health", health.HealthCheck)
		api.GET("/status", statusHandler.GetStatus)
		api.GET("/stats", statsHandler.GetStats)
		api.POST("/links/classify", handlers.ClassifyLink)
	}

	return router
}
