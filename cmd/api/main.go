// @title        VideoTube API
// @version      1.0
// @description  User registration backend with media uploads.
// @BasePath     /api
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/videotube/backend/internal/api"
	mongorepo "github.com/videotube/backend/internal/infrastructure/db/mongo"
	"github.com/videotube/backend/internal/infrastructure/storage/s3"
	"github.com/videotube/backend/internal/pkg/config"
	"github.com/videotube/backend/pkg/logger"
)

const shutdownTimeout = 30 * time.Second

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "videotube-api",
	})

	if err := run(cfg, log); err != nil {
		log.Error().Err(err).Msg("application run failed")
		os.Exit(1)
	}
	log.Info().Msg("application stopped gracefully")
}

func run(cfg *config.Config, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, db, err := mongorepo.Connect(ctx, mongorepo.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		AppName:  "videotube-api",
	})
	if err != nil {
		return err
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Disconnect(dctx); err != nil {
			log.Warn().Err(err).Msg("mongo disconnect")
		}
	}()
	log.Info().Str("database", cfg.Mongo.Database).Msg("mongodb connected")

	if err := mongorepo.NewUserRepository(db).EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("ensure user indexes: %w", err)
	}

	mediaCfg := s3.Config{
		Bucket:          cfg.Media.Bucket,
		Region:          cfg.Media.Region,
		Endpoint:        cfg.Media.Endpoint,
		AccessKeyID:     cfg.Media.AccessKeyID,
		SecretAccessKey: cfg.Media.SecretAccessKey,
		UsePathStyle:    cfg.Media.UsePathStyle,
		PublicBaseURL:   cfg.Media.PublicBaseURL,
		KeyPrefix:       cfg.Media.KeyPrefix,
	}
	s3Client, err := s3.NewClient(ctx, mediaCfg)
	if err != nil {
		return err
	}
	media := s3.NewUploader(s3Client, mediaCfg, logger.Component("media"))
	if cfg.Media.EnsureBucket {
		if err := media.EnsureBucket(ctx); err != nil {
			return err
		}
	}

	e := api.NewRouter(db, media, cfg.HTTP, log)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", server.Addr).Msg("server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
