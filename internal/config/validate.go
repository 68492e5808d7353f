package config

import (
	"errors"
	"fmt"
	"slices"

	"github.com/hupe1980/fieldacc"
	"github.com/hupe1980/fieldacc/dump"
)

// Validate checks cfg after defaults have been applied.
func Validate(cfg *Config) error {
	var errs []error

	if !slices.Contains([]string{"DEBUG", "INFO", "WARN", "ERROR"}, cfg.Logging.Level) {
		errs = append(errs, fmt.Errorf("logging.level: invalid value %q", cfg.Logging.Level))
	}
	if cfg.Logging.Format != "text" && cfg.Logging.Format != "json" {
		errs = append(errs, fmt.Errorf("logging.format: invalid value %q", cfg.Logging.Format))
	}

	if cfg.Reduce.Workers < 0 {
		errs = append(errs, fmt.Errorf("reduce.workers: must be >= 0, got %d", cfg.Reduce.Workers))
	}
	if cfg.Reduce.BlockSize < 1 {
		errs = append(errs, fmt.Errorf("reduce.block_size: must be >= 1, got %d", cfg.Reduce.BlockSize))
	}
	if cfg.Reduce.Alignment < 0 {
		errs = append(errs, fmt.Errorf("reduce.alignment: must be >= 0, got %d", cfg.Reduce.Alignment))
	}
	if _, err := cfg.EngineFactory(); err != nil {
		errs = append(errs, err)
	}

	for name, v := range map[string]int64{
		"limits.memory_bytes":           cfg.Limits.MemoryBytes,
		"limits.max_pipelines":          cfg.Limits.MaxPipelines,
		"limits.transfer_bytes_per_sec": cfg.Limits.TransferBytesPerSec,
		"limits.io_bytes_per_sec":       cfg.Limits.IOBytesPerSec,
	} {
		if v < 0 {
			errs = append(errs, fmt.Errorf("%s: must be >= 0, got %d", name, v))
		}
	}

	switch cfg.Store.Kind {
	case "local":
	case "s3":
		if cfg.Store.S3.Bucket == "" {
			errs = append(errs, errors.New("store.s3.bucket: required"))
		}
	case "minio":
		if cfg.Store.Minio.Endpoint == "" {
			errs = append(errs, errors.New("store.minio.endpoint: required"))
		}
		if cfg.Store.Minio.Bucket == "" {
			errs = append(errs, errors.New("store.minio.bucket: required"))
		}
	default:
		errs = append(errs, fmt.Errorf("store.kind: invalid value %q", cfg.Store.Kind))
	}

	if _, err := dump.ParseCompression(cfg.Dump.Compression); err != nil {
		errs = append(errs, fmt.Errorf("dump.compression: %w", err))
	}

	return errors.Join(errs...)
}

// EngineFactory resolves Reduce.Engine.
func (cfg *Config) EngineFactory() (fieldacc.EngineFactory, error) {
	switch cfg.Reduce.Engine {
	case "async":
		return fieldacc.AsyncEngines, nil
	case "sync":
		return fieldacc.SyncEngines, nil
	default:
		return nil, fmt.Errorf("reduce.engine: invalid value %q", cfg.Reduce.Engine)
	}
}
