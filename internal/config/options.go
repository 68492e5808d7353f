package config

import (
	"log/slog"

	"github.com/hupe1980/fieldacc"
	"github.com/hupe1980/fieldacc/resource"
)

// LogLevel maps Logging.Level onto slog.
func (cfg *Config) LogLevel() slog.Level {
	switch cfg.Logging.Level {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Logger builds the configured logger.
func (cfg *Config) Logger() *fieldacc.Logger {
	if cfg.Logging.Format == "json" {
		return fieldacc.NewJSONLogger(cfg.LogLevel())
	}
	return fieldacc.NewTextLogger(cfg.LogLevel())
}

// ResourceConfig converts Limits.
func (cfg *Config) ResourceConfig() resource.Config {
	return resource.Config{
		MemoryLimitBytes:    cfg.Limits.MemoryBytes,
		MaxPipelines:        cfg.Limits.MaxPipelines,
		TransferBytesPerSec: cfg.Limits.TransferBytesPerSec,
		IOLimitBytesPerSec:  cfg.Limits.IOBytesPerSec,
	}
}

// ReducerOptions returns the fieldacc options described by cfg.
// Zero-valued settings keep the library defaults.
func (cfg *Config) ReducerOptions() ([]fieldacc.Option, error) {
	engines, err := cfg.EngineFactory()
	if err != nil {
		return nil, err
	}

	opts := []fieldacc.Option{
		fieldacc.WithBlockSize(cfg.Reduce.BlockSize),
		fieldacc.WithEngineFactory(engines),
		fieldacc.WithPartitionCheck(cfg.Reduce.VerifyPartition),
	}
	if cfg.Reduce.Workers > 0 {
		opts = append(opts, fieldacc.WithWorkers(cfg.Reduce.Workers))
	}
	if cfg.Reduce.Alignment > 0 {
		opts = append(opts, fieldacc.WithAlignment(cfg.Reduce.Alignment))
	}
	return opts, nil
}
