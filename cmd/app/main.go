package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/redis/go-redis/v9"

	"github.com/abakymuk/DriverOS/internal/config"
	"github.com/abakymuk/DriverOS/internal/db"
	"github.com/abakymuk/DriverOS/internal/events"
	"github.com/abakymuk/DriverOS/internal/logger"
	"github.com/abakymuk/DriverOS/internal/notify"
	"github.com/abakymuk/DriverOS/internal/server"
	"github.com/abakymuk/DriverOS/internal/tracing"
)

var version = "dev"

// @title DriverOS API
// @version 1.0
// @description Container terminal logistics: terminals, vessels, containers, drivers, appointment slots and trips.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	logger.Init(cfg.LogLevel, cfg.LogFormat)
	logger.Info("Starting DriverOS", "version", version, "env", cfg.Env)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdownTracing, err := tracing.Init(ctx, tracing.Config{
		Endpoint:    cfg.OTelEndpoint,
		ServiceName: cfg.OTelServiceName,
		Version:     version,
		Environment: cfg.Env,
	})
	if err != nil {
		logger.Fatalf("Failed to init tracing: %v", err)
	}

	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()
	logger.Info("Database connected")

	if err := db.RunMigrations(database, cfg.MigrationsPath); err != nil {
		logger.Fatalf("Failed to run migrations: %v", err)
	}
	logger.Info("Migrations completed")

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer rdb.Close()
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Warn("Redis unreachable, events and e-mail will fail until it is back", "error", err.Error())
	}

	stream := events.NewRedisPublisher(rdb, events.DefaultPrefix)
	publishers := events.Multi{stream}
	if cfg.AMQPURL != "" {
		amqpPub, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			logger.Fatalf("Failed to connect to RabbitMQ: %v", err)
		}
		defer amqpPub.Close()
		publishers = append(publishers, amqpPub)
		logger.Info("RabbitMQ publisher ready", "exchange", cfg.AMQPExchange)
	}

	mailer := notify.New(rdb, notify.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		User:     cfg.SMTPUser,
		Pass:     cfg.SMTPPass,
		From:     cfg.EmailFrom,
		FromName: cfg.EmailFromName,
	})
	go mailer.Run(ctx)

	limiter := server.NewRateLimiter(cfg.RateLimitRPS(), cfg.RateLimitMax, 3*cfg.RateLimitWindow)
	go limiter.Run(ctx)

	services := server.NewServices(database, cfg, publishers, mailer)
	srv := server.New(cfg, services, server.Deps{
		DB:      database,
		Redis:   rdb,
		Stream:  stream,
		Limiter: limiter,
	})

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Server listening", "port", cfg.Port)
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Infof("Received signal: %v", sig)
	case err := <-serverErr:
		logger.Errorf("Server error: %v", err)
	}

	logger.Info("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Error during server shutdown: %v", err)
	}
	cancel()
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Errorf("Error flushing traces: %v", err)
	}

	logger.Info("Server stopped")
}
