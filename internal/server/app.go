// Package server wires and runs the development upload backend: S3 presigning,
// in-memory upload sessions and the HTTP API.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/gcstorage/internal/buildinfo"
	"github.com/dmitrijs2005/gcstorage/internal/logging"
	"github.com/dmitrijs2005/gcstorage/internal/server/config"
	"github.com/dmitrijs2005/gcstorage/internal/server/httpapi"
	"github.com/dmitrijs2005/gcstorage/internal/server/storage"
	"github.com/dmitrijs2005/gcstorage/internal/server/uploads"
)

type App struct {
	config *config.Config
	logger logging.Logger
	http   *httpapi.Server
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	level, err := logging.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}
	logger := logging.NewJSON(os.Stdout, level)

	store, err := storage.NewS3(ctx, storage.Options{
		Endpoint:      c.S3BaseEndpoint,
		Region:        c.S3Region,
		AccessKey:     c.S3RootUser,
		SecretKey:     c.S3RootPassword,
		Bucket:        c.S3Bucket,
		PresignExpiry: c.PresignExpiry,
	})
	if err != nil {
		return nil, fmt.Errorf("storage init error: %w", err)
	}

	svc := uploads.NewService(store, uploads.Options{
		SessionTTL:    c.SessionTTL,
		VerifyObjects: c.VerifyObjects,
		Logger:        logger.With("module", "uploads"),
	})

	if c.SecretKey == "" {
		logger.Warn(ctx, "No secret key configured, API authentication is disabled")
	}

	return &App{
		config: c,
		logger: logger,
		http:   httpapi.NewServer(c.ListenAddr, svc, logger, c.SecretKey),
	}, nil
}

// Run serves until ctx is cancelled or SIGINT, SIGTERM or SIGQUIT arrives.
func (app *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	app.logger.Info(ctx, "Starting app...", "version", buildinfo.Version, "commit", buildinfo.Commit)

	if err := app.http.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		return err
	}

	app.logger.Info(ctx, "App stopped")
	return nil
}
