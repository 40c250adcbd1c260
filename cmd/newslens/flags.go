package main

import (
	"github.com/poiesic/newslens/config"
	"github.com/urfave/cli/v2"
)

// Flag defaults are left empty; unset flags keep the value from config.Load.

func dataFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "source", Usage: "Input article table"},
		&cli.StringFlag{Name: "checkpoint", Usage: "Partial table rewritten after every batch"},
		&cli.StringFlag{Name: "final", Usage: "Completed output table"},
	}
}

func embeddingFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "provider", Usage: "Embedding provider (ollama, openai)"},
		&cli.StringFlag{Name: "embedding-host", Usage: "Embedding service host URL"},
		&cli.StringFlag{Name: "embedding-model", Usage: "Embedding model name"},
		&cli.IntFlag{Name: "dimensions", Usage: "Expected embedding length"},
	}
}

func pipelineFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{Name: "batch-size", Usage: "Number of records per batch and checkpoint"},
		&cli.IntFlag{Name: "workers", Usage: "Number of concurrent embedding requests"},
		&cli.IntFlag{Name: "max-retries", Usage: "Maximum attempts per record"},
		&cli.DurationFlag{Name: "retry-delay", Usage: "Base delay for exponential backoff"},
		&cli.DurationFlag{Name: "request-timeout", Usage: "Timeout for a single embedding request"},
		&cli.Float64Flag{Name: "rate-limit", Usage: "Maximum embedding requests per second (0 disables)"},
		&cli.BoolFlag{Name: "normalize", Usage: "Store unit-length embeddings"},
		&cli.BoolFlag{Name: "fail-fast", Usage: "Abort the run on the first record that cannot be embedded"},
		&cli.BoolFlag{Name: "cache", Usage: "Reuse embeddings from the on-disk cache"},
		&cli.StringFlag{Name: "cache-dir", Usage: "Embedding cache directory"},
	}
}

func databaseFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "database-url", Usage: "PostgreSQL connection URL"},
		&cli.StringFlag{Name: "table", Usage: "Articles table name"},
		&cli.IntFlag{Name: "lists", Usage: "ivfflat index list count"},
	}
}

func concat(groups ...[]cli.Flag) []cli.Flag {
	var out []cli.Flag
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

// loadConfig reads the configuration files and environment, then applies
// every flag the user set explicitly.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"), c.String("env-file"))
	if err != nil {
		return nil, err
	}
	applyFlags(c, cfg)
	return cfg, nil
}

func applyFlags(c *cli.Context, cfg *config.Config) {
	setString := func(name string, dst *string) {
		if c.IsSet(name) {
			*dst = c.String(name)
		}
	}
	setInt := func(name string, dst *int) {
		if c.IsSet(name) {
			*dst = c.Int(name)
		}
	}
	setBool := func(name string, dst *bool) {
		if c.IsSet(name) {
			*dst = c.Bool(name)
		}
	}

	setString("source", &cfg.Data.Source)
	setString("checkpoint", &cfg.Data.Checkpoint)
	setString("final", &cfg.Data.Final)

	setString("provider", &cfg.Embedding.Provider)
	setString("embedding-host", &cfg.Embedding.Host)
	setString("embedding-model", &cfg.Embedding.Model)
	setInt("dimensions", &cfg.Embedding.Dimensions)
	setBool("normalize", &cfg.Embedding.Normalize)
	if c.IsSet("rate-limit") {
		cfg.Embedding.RequestsPerSecond = c.Float64("rate-limit")
	}

	setInt("batch-size", &cfg.Pipeline.BatchSize)
	setInt("workers", &cfg.Pipeline.Workers)
	setInt("max-retries", &cfg.Pipeline.MaxRetries)
	if c.IsSet("retry-delay") {
		cfg.Pipeline.RetryDelay = c.Duration("retry-delay")
	}
	if c.IsSet("request-timeout") {
		cfg.Pipeline.RequestTimeout = c.Duration("request-timeout")
	}
	setBool("fail-fast", &cfg.Pipeline.FailFast)

	setBool("cache", &cfg.Cache.Enabled)
	setString("cache-dir", &cfg.Cache.Dir)

	setString("database-url", &cfg.Database.URL)
	setString("table", &cfg.Database.Table)
	setInt("lists", &cfg.Database.Lists)
}
