package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"chama/internal/amqp"
	"chama/internal/config"
	apphttp "chama/internal/http"
	applog "chama/internal/log"
	"chama/internal/media"
	"chama/internal/services"
	"chama/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger := applog.New(applog.ParseLevel(cfg.LogLevel), applog.ComponentApp)
	applog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", applog.FieldError, err)
		os.Exit(1)
	}

	// A database that cannot be opened or migrated is fatal.
	repo, err := storage.Open(cfg.DBPath)
	if err != nil {
		logger.Error("Failed to open database", applog.FieldError, err, "path", cfg.DBPath)
		os.Exit(1)
	}
	defer repo.Close()
	logger.Info("Database ready", "path", cfg.DBPath)

	// Event publishing is best effort; a missing broker never blocks the API.
	var publisher services.StatusPublisher
	if cfg.AMQPEnabled() {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("AMQP unavailable, continuing without status events", applog.FieldError, err)
		} else {
			defer client.Close()
			publisher = client
			logger.Info("AMQP connected", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	}

	var uploader apphttp.PhotoUploader
	if cfg.CloudinaryEnabled() {
		u, err := media.NewCloudinaryUploader(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
		if err != nil {
			logger.Warn("Cloudinary unavailable, photo uploads disabled", applog.FieldError, err)
		} else {
			uploader = u
			logger.Info("Photo uploads enabled")
		}
	}

	members := services.NewMemberService(repo)
	contributions := services.NewContributionService(repo, publisher)

	gin.SetMode(gin.ReleaseMode)
	api := apphttp.NewServer(logger, members, contributions, repo, uploader)

	srv := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        api.Handler(),
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 16,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", applog.FieldError, err)
		}
		cancel()
	}()

	logger.Info("Starting chama API", applog.FieldPort, cfg.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", applog.FieldError, err, applog.FieldPort, cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
