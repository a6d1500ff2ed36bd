package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/dafibh/mierunbo/mierunbo-backend/internal/config"
)

// Open creates the blob store selected by cfg.Backend
func Open(ctx context.Context, cfg config.StorageConfig, logger zerolog.Logger) (BlobStore, error) {
	logger = logger.With().Str("component", "storage").Str("backend", cfg.Backend).Logger()

	var (
		store BlobStore
		err   error
	)
	switch cfg.Backend {
	case config.BackendMemory:
		store = NewMemoryStore()
		logger.Warn().Msg("Using in-memory storage, data will not survive a restart")
	case config.BackendFile:
		store, err = NewFileStore(cfg.Dir)
		logger = logger.With().Str("dir", cfg.Dir).Logger()
	case config.BackendSQLite:
		store, err = NewSQLiteStore(cfg.SQLitePath)
		logger = logger.With().Str("path", cfg.SQLitePath).Logger()
	case config.BackendPostgres:
		store, err = NewPostgresStore(ctx, cfg.DatabaseURL)
	case config.BackendMongo:
		store, err = NewMongoStore(ctx, cfg.MongoURI, cfg.MongoDB)
		logger = logger.With().Str("database", cfg.MongoDB).Logger()
	case config.BackendS3:
		store, err = NewS3Store(ctx, cfg.S3)
		logger = logger.With().Str("bucket", cfg.S3.Bucket).Logger()
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s storage: %w", cfg.Backend, err)
	}

	logger.Info().Msg("Storage opened")
	return store, nil
}

// Close releases the store's resources if it holds any
func Close(store BlobStore) error {
	if c, ok := store.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
