package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"video-api/internal/config"
	"video-api/internal/database"
	"video-api/internal/logging"
	"video-api/internal/routes"
	"video-api/internal/serverutil"

	"github.com/gin-gonic/gin"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	logger := logging.New(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	slog.SetDefault(logger)
	gin.SetMode(routes.GinMode(cfg.Env))

	db, err := database.Open(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Close(db); err != nil {
			logger.Warn("closing database", "error", err)
		}
	}()
	if err := database.Migrate(db); err != nil {
		return err
	}

	engine := routes.New(routes.Options{
		Logger:       logger,
		Store:        database.NewVideoStore(db),
		AllowOrigins: cfg.AllowOrigins,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("server starting", "addr", cfg.Addr(), "env", cfg.Env, "driver", cfg.DBDriver)
	return serverutil.Run(ctx, serverutil.Config{
		Server: &http.Server{
			Addr:              cfg.Addr(),
			Handler:           engine,
			ReadHeaderTimeout: 10 * time.Second,
		},
		ShutdownTimeout: cfg.ShutdownTimeout,
	})
}
