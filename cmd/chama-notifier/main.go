// chama-notifier consumes contribution status-change events and records them.
// It is the hook point for member notifications (SMS, WhatsApp) without
// coupling the API to delivery channels.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"chama/internal/amqp"
	"chama/internal/config"
	applog "chama/internal/log"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger := applog.New(applog.ParseLevel(cfg.LogLevel), applog.ComponentNotifier)
	applog.SetDefault(logger)

	if !cfg.AMQPEnabled() {
		logger.Error("AMQP_URL is required for the notifier")
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", applog.FieldError, err)
		os.Exit(1)
	}

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to connect to AMQP", applog.FieldError, err)
		os.Exit(1)
	}
	defer client.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())
		cancel()
	}()

	logger.Info("Notifier started", "queue", cfg.AMQPQueue)
	err = client.ConsumeContributionStatus(ctx, func(msg *amqp.ContributionStatusMessage) error {
		logger.Info("Contribution status changed",
			applog.FieldContributionID, msg.ContributionID,
			applog.FieldStatus, msg.Status,
			"at", msg.Timestamp)
		return nil
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Consumer stopped", applog.FieldError, err)
		os.Exit(1)
	}

	logger.Info("Notifier stopped gracefully")
}
