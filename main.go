package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"warbler/internal/config"
	"warbler/internal/database"
	"warbler/internal/logger"
	"warbler/internal/server"
	"warbler/internal/services"
	"warbler/pkg/rabbitmq"

	"github.com/sirupsen/logrus"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}
	logger.Init(cfg.LogLevel, cfg.LogFormat)

	app, cleanup, err := newApp(cfg)
	if err != nil {
		logrus.Fatalf("Failed to initialize application: %v", err)
	}
	defer cleanup()

	// --- Start HTTP Server ---
	logrus.WithField("port", cfg.AppPort).Info("Starting server")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(cfg.AppPort); err != nil {
			logrus.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	logrus.Info("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		logrus.WithError(err).Error("Error during Fiber shutdown")
	}
	logrus.Info("Server gracefully stopped")
}

// newApp opens the database, connects to RabbitMQ when configured and
// builds the HTTP app. cleanup releases everything newApp opened.
func newApp(cfg *config.Config) (*server.App, func(), error) {
	db, err := database.Open(database.Config{
		Driver:   cfg.DatabaseDriver,
		DSN:      cfg.DatabaseDSN,
		LogLevel: cfg.SQLLogLevel,
	})
	if err != nil {
		return nil, nil, err
	}
	if err := database.Migrate(db); err != nil {
		database.Close(db)
		return nil, nil, err
	}

	var (
		publisher services.EventPublisher
		mqClient  *rabbitmq.Client
	)
	if cfg.RabbitMQURL != "" {
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
		if err != nil {
			database.Close(db)
			return nil, nil, fmt.Errorf("failed to initialize RabbitMQ client: %w", err)
		}
		publisher = mqClient

		if err := mqClient.ConsumeEvents(rabbitmq.LogEvent); err != nil {
			logrus.WithError(err).Error("Failed to start RabbitMQ consumer")
		}
	} else {
		logrus.Info("RABBITMQ_URL not set, domain events disabled")
	}

	cleanup := func() {
		if mqClient != nil {
			if err := mqClient.Close(); err != nil {
				logrus.WithError(err).Error("Failed to close RabbitMQ client")
			}
		}
		if err := database.Close(db); err != nil {
			logrus.WithError(err).Error("Failed to close database")
		}
	}

	return server.New(cfg, db, publisher), cleanup, nil
}
