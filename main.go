package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/umalmyha/bankadmin/internal/config"
	"github.com/umalmyha/bankadmin/internal/database"
	"github.com/umalmyha/bankadmin/internal/infra"
)

// @title                      Bank admin API
// @version                    1.0
// @description                Administrative API over customers, users and accounts of retail bank
// @BasePath                   /
// @securityDefinitions.apikey ApiKeyAuth
// @in                         header
// @name                       Authorization
func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logrus.Fatalf("failed to load .env file - %s", err)
	}

	cfg, err := config.Build()
	if err != nil {
		logrus.Fatal(err)
	}

	logger := infra.Logger(cfg.LogCfg)

	shutdownTelemetry, err := infra.Telemetry(cfg.TelemetryCfg)
	if err != nil {
		logger.Fatal(err)
	}
	defer func() {
		if err := shutdownTelemetry(context.Background()); err != nil {
			logger.WithError(err).Error("failed to flush telemetry")
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.DatabaseCfg.ConnectTimeout)
	defer cancel()

	db, err := database.Open(ctx, database.Options{
		Dialect:      cfg.DatabaseCfg.Driver,
		DSN:          cfg.DSN(),
		MaxOpenConns: cfg.DatabaseCfg.MaxOpenConns,
	})
	if err != nil {
		logger.Fatal(err)
	}
	defer db.Close()

	redisClient, err := infra.Redis(ctx, cfg.RedisCfg)
	if err != nil {
		logger.Fatal(err)
	}
	defer redisClient.Close()

	svc, err := infra.NewServices(cfg, db, redisClient, logger)
	if err != nil {
		logger.Fatal(err)
	}

	if username := cfg.AdminCfg.BootstrapUsername; username != "" {
		_, created, err := svc.User.EnsureAdmin(ctx, username, cfg.AdminCfg.BootstrapPassword)
		if err != nil {
			logger.Fatalf("failed to bootstrap administrator - %s", err)
		}
		if created {
			logger.WithField("username", username).Info("administrator has been created")
		}
	}

	app, err := infra.Router(cfg, svc, db, logger)
	if err != nil {
		logger.Fatal(err)
	}

	start(app, cfg.HTTPCfg, logger)
}

func start(app *echo.Echo, cfg config.HTTPCfg, logger logrus.FieldLogger) {
	shutdownCh := make(chan os.Signal, 1)
	errorCh := make(chan error, 1)
	signal.Notify(shutdownCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.WithField("port", cfg.Port).Info("starting http server")
		errorCh <- app.Start(fmt.Sprintf(":%d", cfg.Port))
	}()

	select {
	case <-shutdownCh:
		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		logger.Info("shutdown signal has been sent, stopping the server...")
		if err := app.Shutdown(ctx); err != nil {
			logger.Errorf("failed to stop server gracefully - %s", err)
		}
	case err := <-errorCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf("shutting down the server, unexpected error occurred - %s", err)
		}
	}
}
