package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/easayliu/mirror-status-bot/internal/application/services/mirror"
	"github.com/easayliu/mirror-status-bot/internal/application/services/status"
	"github.com/easayliu/mirror-status-bot/internal/infrastructure/aria2"
	"github.com/easayliu/mirror-status-bot/internal/infrastructure/config"
	"github.com/easayliu/mirror-status-bot/internal/infrastructure/ratelimit"
	"github.com/easayliu/mirror-status-bot/internal/infrastructure/sysinfo"
	"github.com/easayliu/mirror-status-bot/internal/infrastructure/telegram"
	"github.com/easayliu/mirror-status-bot/internal/infrastructure/telemetry"
	"github.com/easayliu/mirror-status-bot/internal/interfaces/http/routes"
	tgcontroller "github.com/easayliu/mirror-status-bot/internal/interfaces/telegram"
	"github.com/easayliu/mirror-status-bot/pkg/logger"
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

// version 构建时通过 -ldflags 注入
var version = "dev"

const shutdownTimeout = 10 * time.Second

// @title Mirror Status Bot API
// @version 1.0
// @description Telegram 镜像机器人的任务状态和系统统计接口

// @license.name MIT

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
func main() {
	// 加载配置
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	// 初始化日志
	if err := logger.Init(logger.Options{
		Level:     cfg.Log.Level,
		Output:    cfg.Log.Output,
		Format:    cfg.Log.Format,
		FilePath:  cfg.Log.FilePath,
		Colorize:  cfg.Log.Colorize,
		AddSource: cfg.Log.AddSource,
	}); err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}

	// 设置Gin模式
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		logger.Error("Server exited with error", "error", err)
		log.Fatal(err)
	}
	logger.Info("Server stopped")
}

func run(ctx context.Context, cfg *config.Config) error {
	startTime := time.Now()

	// 任务表和状态面板
	reg := status.NewRegistry()
	pager := status.NewPager(reg, cfg.Status.Limit)
	probe := sysinfo.NewProbe()
	renderer := status.NewRenderer(pager, probe, status.Options{
		Theme:         status.ParseTheme(cfg.Status.Theme),
		CancelCommand: cfg.Status.CancelCommand,
		StatsCallback: cfg.Status.StatsCallback,
		DownloadDir:   cfg.Download.Dir,
		StartTime:     startTime,
		Limits: status.Limits{
			TorrentDirect: cfg.Limits.TorrentDirect,
			ZipUnzip:      cfg.Limits.ZipUnzip,
			Leech:         cfg.Limits.Leech,
			Mega:          cfg.Limits.Mega,
		},
		CreditName: cfg.CreditName,
	})

	aria := aria2.NewClient(cfg.Aria2.RpcURL, cfg.Aria2.Token, cfg.Aria2.Timeout)
	if v, err := aria.GetVersion(ctx); err != nil {
		logger.Warn("aria2 is not reachable yet", "rpc_url", cfg.Aria2.RpcURL, "error", err)
	} else {
		logger.Info("Connected to aria2", "version", v.Version)
	}

	mirrorService := mirror.NewService(mirror.Config{
		DownloadDir:   cfg.Download.Dir,
		UserTaskLimit: cfg.Download.UserTaskLimit,
		Seed:          cfg.Download.Seed,
		WebBaseURL:    cfg.Web.BaseURL,
		WebPincode:    cfg.Web.Pincode,
	}, aria, reg)

	metrics, err := telemetry.New(telemetry.Config{Enabled: cfg.Metrics.Enabled}, telemetry.Sources{
		TaskCounts: func() map[string]int {
			out := make(map[string]int)
			for s, n := range reg.CountByStatus() {
				out[string(s)] = n
			}
			return out
		},
		Throughput: func() (float64, float64) {
			t := status.AggregateThroughput(reg.Snapshot())
			return t.Download, t.Upload
		},
	})
	if err != nil {
		return err
	}

	deps := routes.Deps{
		Config:    cfg,
		Registry:  reg,
		Pager:     pager,
		Renderer:  renderer,
		Probe:     probe,
		Telemetry: metrics,
		StartTime: startTime,
		Version:   version,
	}

	var (
		controller *tgcontroller.TelegramController
		updater    *status.Updater
	)
	if cfg.Telegram.Enabled {
		client := telegram.NewClient(&cfg.Telegram)
		limiter := ratelimit.NewRateLimiter(cfg.Telegram.QPS, cfg.Telegram.EditInterval)

		updater = status.NewUpdater(renderer, client, limiter, cfg.Status.UpdateInterval)
		updater.SetRefresher(mirrorService)

		controller = tgcontroller.NewTelegramController(client, mirrorService, pager, renderer, updater, metrics, tgcontroller.Options{
			AdminIDs:      cfg.Telegram.AdminIDs,
			CancelCommand: cfg.Status.CancelCommand,
			StatsCallback: cfg.Status.StatsCallback,
		})

		if cfg.Telegram.Webhook.Enabled {
			// Webhook 模式：自动设置 webhook
			if err := client.SetWebhook(cfg.Telegram.Webhook.URL); err != nil {
				logger.Error("Failed to set telegram webhook", "error", err)
			} else {
				logger.Info("Telegram webhook mode enabled")
			}
			deps.Webhook = controller.Webhook
		} else {
			// Polling 模式：确保删除 webhook
			if err := client.DeleteWebhook(); err != nil {
				logger.Warn("Failed to delete telegram webhook", "error", err)
			}
			controller.StartPolling(ctx)
			logger.Info("Telegram polling mode enabled")
		}

		if err := updater.Start(); err != nil {
			return err
		}
	}

	server := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           routes.SetupRoutes(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting server", "address", server.Addr, "version", version)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if controller != nil {
			controller.StopPolling()
		}
		if updater != nil {
			updater.Stop()
		}
		if err := metrics.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Failed to shutdown telemetry", "error", err)
		}
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
