// Package config loads newslens settings from defaults, an optional YAML
// file, an optional dotenv file and the environment, in that order of
// increasing precedence. Command-line flags are applied on top by the CLI.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/poiesic/newslens/ai"
	"github.com/poiesic/newslens/embed"
	"github.com/poiesic/newslens/storage/postgres"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigFile is read when no config file is named and it exists.
	DefaultConfigFile = "newslens.yaml"

	// DefaultEnvFile is read when no dotenv file is named and it exists.
	DefaultEnvFile = "config.env"
)

// Config is the complete newslens configuration.
type Config struct {
	Data      DataConfig      `yaml:"data"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Pipeline  PipelineConfig  `yaml:"pipeline"`
	Cache     CacheConfig     `yaml:"cache"`
	Database  DatabaseConfig  `yaml:"database"`
}

// DataConfig locates the article tables.
type DataConfig struct {
	Source     string `yaml:"source" env:"NEWSLENS_SOURCE"`
	Checkpoint string `yaml:"checkpoint" env:"NEWSLENS_CHECKPOINT"`
	Final      string `yaml:"final" env:"NEWSLENS_FINAL"`
}

// EmbeddingConfig selects and tunes the embedding service.
type EmbeddingConfig struct {
	Provider          string  `yaml:"provider" env:"NEWSLENS_PROVIDER"`
	Host              string  `yaml:"host" env:"OLLAMA_BASE_URL"`
	Model             string  `yaml:"model" env:"NEWSLENS_MODEL"`
	Dimensions        int     `yaml:"dimensions" env:"NEWSLENS_DIMENSIONS"`
	RequestsPerSecond float64 `yaml:"requests_per_second" env:"NEWSLENS_REQUESTS_PER_SECOND"`
	Burst             int     `yaml:"burst" env:"NEWSLENS_BURST"`
	Normalize         bool    `yaml:"normalize" env:"NEWSLENS_NORMALIZE"`
}

// PipelineConfig holds the batch geometry and retry policy.
type PipelineConfig struct {
	BatchSize      int           `yaml:"batch_size" env:"NEWSLENS_BATCH_SIZE"`
	Workers        int           `yaml:"workers" env:"NEWSLENS_WORKERS"`
	MaxRetries     int           `yaml:"max_retries" env:"NEWSLENS_MAX_RETRIES"`
	RetryDelay     time.Duration `yaml:"retry_delay" env:"NEWSLENS_RETRY_DELAY"`
	RequestTimeout time.Duration `yaml:"request_timeout" env:"NEWSLENS_REQUEST_TIMEOUT"`
	FailFast       bool          `yaml:"fail_fast" env:"NEWSLENS_FAIL_FAST"`
}

// CacheConfig controls the on-disk embedding cache.
type CacheConfig struct {
	Enabled bool   `yaml:"enabled" env:"NEWSLENS_CACHE"`
	Dir     string `yaml:"dir" env:"NEWSLENS_CACHE_DIR"`
}

// DatabaseConfig holds the pgvector target.
type DatabaseConfig struct {
	URL       string `yaml:"url" env:"DATABASE_URL"`
	Table     string `yaml:"table" env:"NEWSLENS_DB_TABLE"`
	Lists     int    `yaml:"lists" env:"NEWSLENS_DB_LISTS"`
	BatchSize int    `yaml:"batch_size" env:"NEWSLENS_DB_BATCH_SIZE"`
}

// Default returns the built-in configuration.
func Default() *Config {
	pipeline := embed.DefaultConfig()
	provider := ai.DefaultConfig()
	database := postgres.DefaultConfig()

	return &Config{
		Data: DataConfig{
			Source:     pipeline.SourcePath,
			Checkpoint: pipeline.CheckpointPath,
			Final:      pipeline.FinalPath,
		},
		Embedding: EmbeddingConfig{
			Provider:   provider.Provider,
			Host:       provider.EmbeddingHost,
			Model:      provider.EmbeddingModel,
			Dimensions: provider.Dimensions,
			Burst:      provider.Burst,
		},
		Pipeline: PipelineConfig{
			BatchSize:      pipeline.BatchSize,
			Workers:        pipeline.MaxWorkers,
			MaxRetries:     pipeline.MaxRetries,
			RetryDelay:     pipeline.RetryDelay,
			RequestTimeout: pipeline.RequestTimeout,
		},
		Cache: CacheConfig{
			Dir: "data/embedding-cache",
		},
		Database: DatabaseConfig{
			Table:     database.Table,
			Lists:     database.Lists,
			BatchSize: database.BatchSize,
		},
	}
}

// Load builds a Config from the defaults, the YAML file at configFile, the
// dotenv file at envFile and the process environment.
//
// An empty configFile or envFile falls back to DefaultConfigFile or
// DefaultEnvFile, which are skipped when absent. Explicitly named files must
// exist. Variables already set in the environment win over the dotenv file.
func Load(configFile, envFile string) (*Config, error) {
	cfg := Default()

	if err := cfg.loadYAML(configFile); err != nil {
		return nil, err
	}
	if err := loadDotenv(envFile); err != nil {
		return nil, err
	}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	return cfg, nil
}

func (c *Config) loadYAML(path string) error {
	explicit := path != ""
	if !explicit {
		path = DefaultConfigFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func loadDotenv(path string) error {
	explicit := path != ""
	if !explicit {
		path = DefaultEnvFile
	}

	if _, err := os.Stat(path); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read env file: %w", err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

// AI returns the embedding service configuration.
func (c *Config) AI() *ai.Config {
	return ai.NewConfig(
		ai.WithProvider(c.Embedding.Provider),
		ai.WithEmbeddingHost(c.Embedding.Host),
		ai.WithEmbeddingModel(c.Embedding.Model),
		ai.WithDimensions(c.Embedding.Dimensions),
		ai.WithRateLimit(c.Embedding.RequestsPerSecond, c.Embedding.Burst),
	)
}

// Embed returns the pipeline configuration.
func (c *Config) Embed() *embed.Config {
	return &embed.Config{
		SourcePath:     c.Data.Source,
		CheckpointPath: c.Data.Checkpoint,
		FinalPath:      c.Data.Final,
		BatchSize:      c.Pipeline.BatchSize,
		MaxWorkers:     c.Pipeline.Workers,
		MaxRetries:     c.Pipeline.MaxRetries,
		RetryDelay:     c.Pipeline.RetryDelay,
		RequestTimeout: c.Pipeline.RequestTimeout,
		Dimensions:     c.Embedding.Dimensions,
		Normalize:      c.Embedding.Normalize,
		FailFast:       c.Pipeline.FailFast,
	}
}

// Postgres returns the pgvector store configuration.
func (c *Config) Postgres() postgres.Config {
	return postgres.Config{
		ConnString: c.Database.URL,
		Table:      c.Database.Table,
		Dimensions: c.Embedding.Dimensions,
		Lists:      c.Database.Lists,
		BatchSize:  c.Database.BatchSize,
	}
}

// Validate checks the settings every command needs. Database settings are
// checked by the commands that use them.
func (c *Config) Validate() error {
	var errs []error
	if err := c.AI().Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := c.Embed().Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.Cache.Enabled && c.Cache.Dir == "" {
		errs = append(errs, errors.New("cache config: Dir is required when the cache is enabled"))
	}
	return errors.Join(errs...)
}
