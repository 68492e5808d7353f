package commands

import (
	"context"
	"fmt"

	"github.com/hupe1980/fieldacc/blobstore"
	"github.com/hupe1980/fieldacc/blobstore/minio"
	s3store "github.com/hupe1980/fieldacc/blobstore/s3"
	"github.com/hupe1980/fieldacc/internal/config"
)

// openStore connects to the configured blob store.
func openStore(ctx context.Context, cfg config.StoreConfig) (blobstore.BlobStore, error) {
	switch cfg.Kind {
	case "local":
		return blobstore.NewLocalStore(cfg.Local.Path), nil
	case "s3":
		opts := []s3store.Option{
			s3store.WithPrefix(cfg.S3.Prefix),
		}
		if cfg.S3.Region != "" {
			opts = append(opts, s3store.WithRegion(cfg.S3.Region))
		}
		if cfg.S3.Endpoint != "" {
			opts = append(opts, s3store.WithEndpoint(cfg.S3.Endpoint))
		}
		if cfg.S3.AccessKey != "" {
			opts = append(opts, s3store.WithStaticCredentials(cfg.S3.AccessKey, cfg.S3.SecretKey))
		}
		s, err := s3store.New(ctx, cfg.S3.Bucket, opts...)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "minio":
		s, err := minio.Dial(cfg.Minio.Endpoint, cfg.Minio.AccessKey, cfg.Minio.SecretKey, cfg.Minio.Secure, cfg.Minio.Bucket, cfg.Minio.Prefix)
		if err != nil {
			return nil, err
		}
		if err := s.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown store kind %q", cfg.Kind)
	}
}
