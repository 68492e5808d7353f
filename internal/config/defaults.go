package config

import (
	"strings"

	"github.com/spf13/viper"
)

const (
	defaultBlockSize   = 256
	defaultEngine      = "async"
	defaultStoreKind   = "local"
	defaultCompression = "zstd"
)

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills zero-valued fields. Explicit values are preserved.
func ApplyDefaults(cfg *Config) {
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "INFO"
	}
	cfg.Logging.Level = strings.ToUpper(cfg.Logging.Level)
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}

	if cfg.Reduce.BlockSize == 0 {
		cfg.Reduce.BlockSize = defaultBlockSize
	}
	if cfg.Reduce.Engine == "" {
		cfg.Reduce.Engine = defaultEngine
	}
	cfg.Reduce.Engine = strings.ToLower(cfg.Reduce.Engine)

	if cfg.Store.Kind == "" {
		cfg.Store.Kind = defaultStoreKind
	}
	cfg.Store.Kind = strings.ToLower(cfg.Store.Kind)
	if cfg.Store.Local.Path == "" {
		cfg.Store.Local.Path = "."
	}

	if cfg.Dump.Compression == "" {
		cfg.Dump.Compression = defaultCompression
	}
	cfg.Dump.Compression = strings.ToLower(cfg.Dump.Compression)
}

// bindKeys registers every key so environment variables override them
// even when the config file omits the key.
func bindKeys(v *viper.Viper) {
	for _, key := range []string{
		"logging.level",
		"logging.format",
		"reduce.workers",
		"reduce.block_size",
		"reduce.alignment",
		"reduce.engine",
		"reduce.verify_partition",
		"limits.memory_bytes",
		"limits.max_pipelines",
		"limits.transfer_bytes_per_sec",
		"limits.io_bytes_per_sec",
		"store.kind",
		"store.local.path",
		"store.s3.bucket",
		"store.s3.prefix",
		"store.s3.region",
		"store.s3.endpoint",
		"store.s3.access_key",
		"store.s3.secret_key",
		"store.minio.endpoint",
		"store.minio.bucket",
		"store.minio.prefix",
		"store.minio.access_key",
		"store.minio.secret_key",
		"store.minio.secure",
		"dump.compression",
		"metrics.enabled",
		"metrics.output",
	} {
		_ = v.BindEnv(key)
	}
}
