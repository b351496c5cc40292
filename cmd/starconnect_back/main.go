// nolint: staticcheck // Ignore imports.
package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"starconnect-back/internal/app"
	"starconnect-back/internal/config"
	"starconnect-back/internal/docs"
	_ "starconnect-back/internal/docs"
	"starconnect-back/pkg/logger"
)

// @title StarConnect API
// @version 0.1.0
// @description Creator platform backend: auth, content with full-text search, comments, media, newsletter, analytics, crisis banner and cross-posting to social platforms through an async publish queue.
// @description Login/refresh/test-login set access and refresh tokens as cookies; mobile clients get the same tokens duplicated in the response body and send Authorization: Bearer *access_token* instead.
// @host localhost:8080
// @BasePath /api/
func main() {
	ctx := context.Background()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.MustLoadConfig()
	config.MustPrintConfig(cfg)

	docs.SwaggerInfo.Title = cfg.ServiceName
	docs.SwaggerInfo.Version = cfg.Version
	docs.SwaggerInfo.BasePath = cfg.BasePath
	docs.SwaggerInfo.Host = fmt.Sprintf("localhost:%d", cfg.HTTPServer.Port)

	loggerCfg := &logger.Config{
		Level:      cfg.Level,
		FormatJSON: cfg.FormatJSON,
		Rotation: logger.Rotation{
			File:       cfg.Rotation.File,
			MaxSize:    cfg.Rotation.MaxSize,
			MaxBackups: cfg.Rotation.MaxBackups,
			MaxAge:     cfg.Rotation.MaxAge,
		},
	}

	log := logger.MustSetupLogger(loggerCfg)

	errors := make(chan error)

	application := app.MustNew(cfg, log)

	defer func() {
		close(errors)

		if err := application.Shutdown(); err != nil {
			log.Error("Failed to shutdown application", zap.Error(err))
		}

		if err := log.Sync(); err != nil {
			log.Warn("Failed to sync logger", zap.Error(err))
		}

		log.Info("Application has shutdown")
	}()

	go func() { errors <- application.Run(ctx) }()

	select {
	case err := <-errors:
		if err != nil {
			log.Error("Server error, shutting down...", zap.Error(err))
		}
	case <-ctx.Done():
		log.Info("Received stop signal, shutting down...")
	}
}
