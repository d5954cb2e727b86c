package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Domenick1991/flightbook/config"
	"github.com/Domenick1991/flightbook/internal/cli"
	"github.com/Domenick1991/flightbook/internal/kafka"
	"github.com/Domenick1991/flightbook/internal/notify"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}
	logger := cli.NewLogger(os.Stderr, cfg.Log.Level)

	if !cfg.Kafka.Enabled() {
		logger.Error("kafka.brokers and kafka.activity_topic must be set")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.ActivityTopic, logger)
	defer consumer.Close()

	notifier := notify.NewNotifier(os.Stdout)
	logger.Info("listening for activity", "topic", cfg.Kafka.ActivityTopic, "group", cfg.Kafka.GroupID)

	if err := consumer.Consume(ctx, notifier.Send); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("consumer stopped", "error", err)
		os.Exit(1)
	}
	logger.Info("shutting down")
}
