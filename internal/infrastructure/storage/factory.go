package storage

import (
	"context"
	"fmt"

	"github.com/facturo/backend/internal/application/common"
	"github.com/facturo/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// NewBlobStore builds the blob store selected by cfg.Driver. The S3 bucket
// is created on first start when missing.
func NewBlobStore(ctx context.Context, cfg *config.StorageConfig, logger *zap.Logger) (common.BlobStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	switch cfg.Driver {
	case "", "memory":
		logger.Warn("Using in-memory blob store, uploads are lost on restart")
		return NewMemoryBlobStore(cfg.PublicBaseURL), nil
	case "s3":
		store, err := NewS3BlobStore(cfg, WithLogger(logger))
		if err != nil {
			return nil, err
		}
		if err := store.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		logger.Info("S3 blob store ready", zap.String("bucket", store.Bucket()))
		return store, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
