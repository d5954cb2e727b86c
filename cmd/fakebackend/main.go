package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Domenick1991/flightbook/config"
	"github.com/Domenick1991/flightbook/internal/bootstrap"
	"github.com/Domenick1991/flightbook/internal/cli"
	"github.com/Domenick1991/flightbook/internal/fakebackend"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}
	logger := cli.NewLogger(os.Stderr, cfg.Log.Level)
	if cli.ParseLevel(cfg.Log.Level) > slog.LevelDebug {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server := fakebackend.New(cfg.Backend, fakebackend.WithLogger(logger))
	if err := bootstrap.Run(ctx, cfg.Backend.Address, server.Handler(), logger); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}
