package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.NotNil(t, cfg)
	assert.Equal(t, ProviderOllama, cfg.Provider)
	assert.Equal(t, "http://localhost:11434", cfg.EmbeddingHost)
	assert.Equal(t, "nomic-embed-text", cfg.EmbeddingModel)
	assert.Equal(t, 768, cfg.Dimensions)
	assert.Zero(t, cfg.RequestsPerSecond)
	assert.Equal(t, 1, cfg.Burst)
}

func TestNewConfig(t *testing.T) {
	t.Run("with no options", func(t *testing.T) {
		cfg := NewConfig()
		assert.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("with options", func(t *testing.T) {
		cfg := NewConfig(
			WithProvider(ProviderOpenAI),
			WithEmbeddingHost("http://custom:8080"),
			WithEmbeddingModel("text-embedding-3-small"),
			WithDimensions(1536),
			WithRateLimit(5, 2),
		)

		assert.Equal(t, ProviderOpenAI, cfg.Provider)
		assert.Equal(t, "http://custom:8080", cfg.EmbeddingHost)
		assert.Equal(t, "text-embedding-3-small", cfg.EmbeddingModel)
		assert.Equal(t, 1536, cfg.Dimensions)
		assert.Equal(t, 5.0, cfg.RequestsPerSecond)
		assert.Equal(t, 2, cfg.Burst)
	})
}

func TestConfigNormalize(t *testing.T) {
	tests := []struct {
		name     string
		provider string
		host     string
		want     string
	}{
		{"openai adds v1", ProviderOpenAI, "http://localhost:8080", "http://localhost:8080/v1"},
		{"openai trailing slash", ProviderOpenAI, "http://localhost:8080/", "http://localhost:8080/v1"},
		{"openai keeps v1", ProviderOpenAI, "http://localhost:8080/v1", "http://localhost:8080/v1"},
		{"ollama keeps root", ProviderOllama, "http://localhost:11434", "http://localhost:11434"},
		{"ollama strips v1", ProviderOllama, "http://localhost:11434/v1", "http://localhost:11434"},
		{"ollama trailing slash", ProviderOllama, "http://localhost:11434/", "http://localhost:11434"},
		{"provider case folded", "  OpenAI ", "http://h", "http://h/v1"},
		{"empty host untouched", ProviderOpenAI, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Provider: tt.provider, EmbeddingHost: tt.host}
			cfg.Normalize()
			assert.Equal(t, tt.want, cfg.EmbeddingHost)
			assert.Equal(t, 1, cfg.Burst)
		})
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults are valid", mutate: func(*Config) {}},
		{name: "unknown provider", mutate: func(c *Config) { c.Provider = "bedrock" }, wantErr: "unknown Provider"},
		{name: "missing host", mutate: func(c *Config) { c.EmbeddingHost = "" }, wantErr: "EmbeddingHost is required"},
		{name: "missing model", mutate: func(c *Config) { c.EmbeddingModel = "" }, wantErr: "EmbeddingModel is required"},
		{name: "negative dimensions", mutate: func(c *Config) { c.Dimensions = -1 }, wantErr: "Dimensions cannot be negative"},
		{name: "zero dimensions disables check", mutate: func(c *Config) { c.Dimensions = 0 }},
		{name: "negative rate", mutate: func(c *Config) { c.RequestsPerSecond = -1 }, wantErr: "RequestsPerSecond cannot be negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfigValidate_Normalizes(t *testing.T) {
	cfg := NewConfig(WithProvider("OPENAI"), WithEmbeddingHost("http://localhost:8080/"))
	require.NoError(t, cfg.Validate())
	assert.Equal(t, ProviderOpenAI, cfg.Provider)
	assert.Equal(t, "http://localhost:8080/v1", cfg.EmbeddingHost)
}
