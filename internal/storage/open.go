package storage

import (
	"context"
	"fmt"

	"blog-serwer/internal/config"
)

// Open builds the object store selected by cfg.Driver. With CreateBucket set
// the S3 bucket is created when missing.
func Open(ctx context.Context, cfg config.StorageConfig) (ObjectStore, error) {
	switch cfg.Driver {
	case config.DriverLocal:
		logger.Infof("post content is stored under %s", cfg.Path)
		return NewLocalStorage(cfg.Path)

	case config.DriverS3:
		client, err := NewS3Client(ctx, S3Config{
			Bucket:          cfg.Bucket,
			Region:          cfg.Region,
			Endpoint:        cfg.Endpoint,
			AccessKeyID:     cfg.AccessKeyID,
			SecretAccessKey: cfg.SecretAccessKey,
		})
		if err != nil {
			return nil, err
		}
		s3Storage := NewS3Storage(client, cfg.Bucket, cfg.Region)
		if cfg.CreateBucket {
			if err := s3Storage.EnsureBucket(ctx); err != nil {
				return nil, err
			}
		}
		logger.Infof("post content is stored in bucket %s (%s)", cfg.Bucket, cfg.Region)
		return s3Storage, nil

	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
