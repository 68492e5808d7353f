// Package config loads fieldacc command configuration.
//
// Configuration sources (in order of precedence):
//  1. Environment variables (FIELDACC_*)
//  2. Configuration file (YAML)
//  3. Default values
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of environment overrides, e.g. FIELDACC_REDUCE_WORKERS.
const EnvPrefix = "FIELDACC"

// Config is the fieldacc command configuration.
type Config struct {
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
	Reduce  ReduceConfig  `mapstructure:"reduce" yaml:"reduce"`
	Limits  LimitsConfig  `mapstructure:"limits" yaml:"limits"`
	Store   StoreConfig   `mapstructure:"store" yaml:"store"`
	Dump    DumpConfig    `mapstructure:"dump" yaml:"dump"`
	Metrics MetricsConfig `mapstructure:"metrics" yaml:"metrics"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	// Level is one of DEBUG, INFO, WARN, ERROR (normalized to uppercase).
	Level string `mapstructure:"level" yaml:"level"`

	// Format is text or json.
	Format string `mapstructure:"format" yaml:"format"`
}

// ReduceConfig tunes the reducer.
type ReduceConfig struct {
	// Workers is the number of concurrent pipelines. Zero means one per CPU.
	Workers int `mapstructure:"workers" yaml:"workers"`

	BlockSize int `mapstructure:"block_size" yaml:"block_size"`

	// Alignment of staging buffers in bytes. Zero selects the CPU's vector width.
	Alignment int `mapstructure:"alignment" yaml:"alignment"`

	// Engine is async or sync.
	Engine string `mapstructure:"engine" yaml:"engine"`

	VerifyPartition bool `mapstructure:"verify_partition" yaml:"verify_partition"`
}

// LimitsConfig maps onto resource.Config. Zero disables a limit.
type LimitsConfig struct {
	MemoryBytes         int64 `mapstructure:"memory_bytes" yaml:"memory_bytes"`
	MaxPipelines        int64 `mapstructure:"max_pipelines" yaml:"max_pipelines"`
	TransferBytesPerSec int64 `mapstructure:"transfer_bytes_per_sec" yaml:"transfer_bytes_per_sec"`
	IOBytesPerSec       int64 `mapstructure:"io_bytes_per_sec" yaml:"io_bytes_per_sec"`
}

// StoreConfig selects where dumps are read from and written to.
type StoreConfig struct {
	// Kind is local, s3 or minio.
	Kind  string           `mapstructure:"kind" yaml:"kind"`
	Local LocalStoreConfig `mapstructure:"local" yaml:"local"`
	S3    S3StoreConfig    `mapstructure:"s3" yaml:"s3"`
	Minio MinioStoreConfig `mapstructure:"minio" yaml:"minio"`
}

type LocalStoreConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

type S3StoreConfig struct {
	Bucket    string `mapstructure:"bucket" yaml:"bucket"`
	Prefix    string `mapstructure:"prefix" yaml:"prefix"`
	Region    string `mapstructure:"region" yaml:"region"`
	Endpoint  string `mapstructure:"endpoint" yaml:"endpoint"`
	AccessKey string `mapstructure:"access_key" yaml:"access_key,omitempty"`
	SecretKey string `mapstructure:"secret_key" yaml:"secret_key,omitempty"`
}

type MinioStoreConfig struct {
	Endpoint  string `mapstructure:"endpoint" yaml:"endpoint"`
	Bucket    string `mapstructure:"bucket" yaml:"bucket"`
	Prefix    string `mapstructure:"prefix" yaml:"prefix"`
	AccessKey string `mapstructure:"access_key" yaml:"access_key,omitempty"`
	SecretKey string `mapstructure:"secret_key" yaml:"secret_key,omitempty"`
	Secure    bool   `mapstructure:"secure" yaml:"secure"`
}

// DumpConfig controls the dump codec.
type DumpConfig struct {
	// Compression is none, lz4 or zstd.
	Compression string `mapstructure:"compression" yaml:"compression"`
}

// MetricsConfig controls the Prometheus collector.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`

	// Output receives the text exposition after a command finishes.
	// Empty or "-" writes to stderr.
	Output string `mapstructure:"output" yaml:"output"`
}

// Load loads configuration from configPath, the environment and defaults.
// An empty configPath searches the default config directory; a missing
// file is not an error.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setupViper(v, configPath)

	if err := readConfigFile(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// Save writes cfg as YAML to path, creating parent directories.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Credentials may be present.
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func setupViper(v *viper.Viper, configPath string) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AutomaticEnv only applies to keys viper knows about.
	bindKeys(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
		return
	}
	v.AddConfigPath(DefaultConfigDir())
	v.SetConfigName("config")
	v.SetConfigType("yaml")
}

func readConfigFile(v *viper.Viper) error {
	err := v.ReadInConfig()
	if err == nil {
		return nil
	}

	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) || os.IsNotExist(err) {
		return nil
	}
	return fmt.Errorf("failed to read config file: %w", err)
}

// DefaultConfigDir returns $XDG_CONFIG_HOME/fieldacc, falling back to
// ~/.config/fieldacc.
func DefaultConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "fieldacc")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "fieldacc")
}

// DefaultConfigPath returns the config file used when none is given.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}
