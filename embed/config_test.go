package embed

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{name: "defaults", modify: func(c *Config) {}},
		{name: "missing source", modify: func(c *Config) { c.SourcePath = "" }, wantErr: true},
		{name: "missing checkpoint", modify: func(c *Config) { c.CheckpointPath = "" }, wantErr: true},
		{name: "missing final", modify: func(c *Config) { c.FinalPath = "" }, wantErr: true},
		{name: "checkpoint overwrites source", modify: func(c *Config) { c.CheckpointPath = c.SourcePath }, wantErr: true},
		{name: "final overwrites source", modify: func(c *Config) { c.FinalPath = c.SourcePath }, wantErr: true},
		{name: "zero batch size", modify: func(c *Config) { c.BatchSize = 0 }, wantErr: true},
		{name: "zero workers", modify: func(c *Config) { c.MaxWorkers = 0 }, wantErr: true},
		{name: "zero retries", modify: func(c *Config) { c.MaxRetries = 0 }, wantErr: true},
		{name: "negative delay", modify: func(c *Config) { c.RetryDelay = -time.Second }, wantErr: true},
		{name: "negative dimensions", modify: func(c *Config) { c.Dimensions = -1 }, wantErr: true},
		{name: "dimension check disabled", modify: func(c *Config) { c.Dimensions = 0 }},
		{name: "no request timeout", modify: func(c *Config) { c.RequestTimeout = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
