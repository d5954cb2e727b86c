package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Domenick1991/flightbook/config"
	"github.com/Domenick1991/flightbook/internal/apiclient"
	"github.com/Domenick1991/flightbook/internal/cli"
	"github.com/Domenick1991/flightbook/internal/kafka"
	"github.com/Domenick1991/flightbook/internal/service/booking"
	"github.com/Domenick1991/flightbook/internal/service/flights"
	"github.com/Domenick1991/flightbook/internal/service/wallet"
	"github.com/Domenick1991/flightbook/internal/session"
	"github.com/Domenick1991/flightbook/internal/storage"
)

func main() {
	if err := run(); err != nil {
		var failure *cli.Failure
		if errors.As(err, &failure) {
			fmt.Fprintln(os.Stderr, failure.Error())
		} else {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := cli.NewLogger(os.Stderr, cfg.Log.Level)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := storage.Open(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("open session storage: %w", err)
	}
	defer store.Close()

	client, err := apiclient.New(cfg.API.BaseURL, storage.NewTokenSource(store),
		apiclient.WithTimeout(cfg.API.Timeout()),
		apiclient.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	sessions := session.NewStore(client, store, session.WithLogger(logger))
	if err := sessions.Init(ctx); err != nil {
		return fmt.Errorf("restore session: %w", err)
	}

	bookingOpts := []booking.BookingServiceOption{booking.WithLogger(logger)}
	if cfg.Kafka.Enabled() {
		producer := kafka.NewProducer(cfg.Kafka.Brokers, logger)
		defer producer.Close()
		bookingOpts = append(bookingOpts, booking.WithActivity(producer, cfg.Kafka.ActivityTopic))
	}

	app := cli.New(cli.Deps{
		Session:  sessions,
		Flights:  flights.NewFlightService(client),
		Bookings: booking.NewBookingService(client, sessions, bookingOpts...),
		Wallet:   wallet.NewWalletService(client, sessions),
		Logger:   logger,
	})
	return app.Execute(ctx, os.Args[1:])
}
