// Package bootstrap provides dependency initialization for the vacancy assistant.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/maauso/vacancy-assistant/internal/assistant"
	"github.com/maauso/vacancy-assistant/internal/config"
	"github.com/maauso/vacancy-assistant/internal/hh"
	"github.com/maauso/vacancy-assistant/internal/storage"
)

// Dependencies holds all initialized dependencies for the menu and the HTTP server.
type Dependencies struct {
	Service *assistant.Service
	Store   *storage.DocumentStorage

	closers []func() error
}

// Close releases connections opened by NewDependencies.
func (d *Dependencies) Close() error {
	var firstErr error
	for _, c := range d.closers {
		if err := c(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// NewDependencies creates and initializes all dependencies for the application.
func NewDependencies(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	deps := &Dependencies{}

	// Initialize hh.ru client
	opts := []hh.ClientOption{
		hh.WithBaseURL(cfg.HHAPIURL),
		hh.WithUserAgent(cfg.HHUserAgent),
	}
	if cfg.HHPerPage > 0 {
		opts = append(opts, hh.WithPerPage(cfg.HHPerPage))
	}
	client, err := hh.NewClient(cfg.HHAPIKey, opts...)
	if err != nil {
		return nil, fmt.Errorf("create hh client: %w", err)
	}

	// Initialize storage
	backend, err := deps.initBackend(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	codec, err := storage.CodecFor(cfg.StoreFormat, cfg.StorePath)
	if err != nil {
		_ = deps.Close()
		return nil, fmt.Errorf("select storage format: %w", err)
	}
	deps.Store = storage.NewDocumentStorage(backend, codec)

	logger.Info("vacancy storage configured",
		slog.String("location", deps.Store.Location()),
		slog.String("format", codec.Name()),
	)

	deps.logStoredCount(ctx, logger)

	deps.Service = assistant.NewService(client, deps.Store, logger)
	return deps, nil
}

// logStoredCount reports how many vacancies a previous run left in storage.
func (d *Dependencies) logStoredCount(ctx context.Context, logger *slog.Logger) {
	n, err := d.Store.Count(ctx)
	switch {
	case err == nil:
		logger.Info("saved vacancies found", slog.Int("count", n))
	case storage.IsNotFound(err):
		logger.Info("no saved vacancies yet")
	default:
		logger.Warn("saved vacancies are unreadable",
			slog.String("error", err.Error()),
		)
	}
}

// initBackend creates the storage backend selected by STORE_BACKEND.
func (d *Dependencies) initBackend(ctx context.Context, cfg *config.Config, logger *slog.Logger) (storage.Backend, error) {
	switch strings.ToLower(cfg.StoreBackend) {
	case config.BackendS3:
		b, err := storage.NewS3Backend(ctx, storage.S3Config{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			Key:             cfg.StorePath,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretAccessKey,
		})
		if err != nil {
			return nil, fmt.Errorf("create S3 storage: %w", err)
		}
		logger.Info("S3 storage configured",
			slog.String("bucket", cfg.S3Bucket),
			slog.String("region", cfg.S3Region),
		)
		return b, nil

	case config.BackendRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		d.closers = append(d.closers, rdb.Close)
		b, err := storage.NewRedisBackend(rdb, cfg.StorePath)
		if err != nil {
			_ = d.Close()
			return nil, fmt.Errorf("create redis storage: %w", err)
		}
		logger.Info("redis storage configured",
			slog.String("addr", cfg.RedisAddr),
			slog.Int("db", cfg.RedisDB),
		)
		return b, nil

	case config.BackendMemory:
		logger.Warn("memory storage configured, vacancies are lost on exit")
		return storage.NewMemoryBackend(), nil

	case config.BackendFile:
		b, err := storage.NewFileBackend(cfg.StorePath)
		if err != nil {
			return nil, fmt.Errorf("create file storage: %w", err)
		}
		return b, nil

	default:
		return nil, config.ErrUnknownBackend
	}
}
