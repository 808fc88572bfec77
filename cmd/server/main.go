package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jengzang/photomap-backend-go/internal/api"
	"github.com/jengzang/photomap-backend-go/internal/config"
	"github.com/jengzang/photomap-backend-go/internal/database"
	"github.com/jengzang/photomap-backend-go/internal/dataset"
	"github.com/jengzang/photomap-backend-go/internal/middleware"
	"github.com/jengzang/photomap-backend-go/internal/render"
	"github.com/jengzang/photomap-backend-go/internal/repository"
	"github.com/jengzang/photomap-backend-go/internal/service"
	"github.com/jengzang/photomap-backend-go/internal/session"
	"github.com/jengzang/photomap-backend-go/internal/viewer"
)

func main() {
	// 加载配置
	cfg := config.Load()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", "err", err)
		os.Exit(1)
	}

	// 初始化数据库
	var repo *repository.CatalogRepository
	if cfg.DatasetSource == config.SourceSQLite {
		if err := database.Init(database.Config{Path: cfg.DBPath}); err != nil {
			logger.Error("Failed to initialize database", "path", cfg.DBPath, "err", err)
			os.Exit(1)
		}
		defer database.Close()
		repo = repository.NewCatalogRepository(database.GetDB())
	}

	datasetService := service.NewDatasetService(dataset.NewLoader(logger), repo, logger)
	ds := datasetService.Load(cfg.DatasetPath)
	logger.Info("Dataset ready",
		"source", cfg.DatasetSource,
		"images", len(ds.Records),
		"categories", len(ds.Categories))

	palette := viewer.NewPalette(ds.Categories)
	viewerService := service.NewViewerService(
		ds,
		palette,
		cfg.SessionTTL,
		session.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL),
		render.NewRenderer(cfg.ImageRoot, palette, cfg.JPEGQuality),
		logger,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	limiter := middleware.NewRateLimiter(cfg.RateLimit, cfg.RateWindow)
	go limiter.Run(ctx)
	go viewerService.Sessions().Run(ctx)

	// 初始化路由
	router := api.SetupRouter(api.Deps{
		Viewer:    viewerService,
		Limiter:   limiter,
		ImageRoot: cfg.ImageRoot,
		Logger:    logger,
	})

	srv := &http.Server{
		Addr:              cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// 启动服务器
	go func() {
		logger.Info("Server starting", "addr", cfg.Port, "images", cfg.ImageRoot)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Failed to start server", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", "err", err)
	}
}
