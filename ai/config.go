// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ai

import (
	"errors"
	"fmt"
	"strings"
)

// Supported embedding providers.
const (
	ProviderOllama = "ollama"
	ProviderOpenAI = "openai"
)

// Config holds configuration for the embedding service.
type Config struct {
	// Provider selects the client implementation: "ollama" or "openai".
	// Default: "ollama"
	Provider string

	// EmbeddingHost is the base URL for the embedding service API.
	// Example: "http://localhost:11434" for a local Ollama server,
	// "http://localhost:8080/v1" for an OpenAI-compatible server
	EmbeddingHost string

	// EmbeddingModel is the model identifier to use for text embeddings.
	// Example: "nomic-embed-text", "text-embedding-3-small"
	EmbeddingModel string

	// Dimensions is the expected length of every embedding the model returns.
	// Default: 768
	Dimensions int

	// RequestsPerSecond caps the request rate against the embedding service.
	// Zero disables rate limiting.
	RequestsPerSecond float64

	// Burst is the number of requests allowed above RequestsPerSecond at once.
	// Default: 1
	Burst int
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithProvider sets the embedding provider.
func WithProvider(provider string) ConfigOption {
	return func(c *Config) {
		c.Provider = provider
	}
}

// WithEmbeddingHost sets the embedding service host URL.
func WithEmbeddingHost(host string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingHost = host
	}
}

// WithEmbeddingModel sets the embedding model identifier.
func WithEmbeddingModel(model string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingModel = model
	}
}

// WithDimensions sets the expected embedding dimensionality.
func WithDimensions(dims int) ConfigOption {
	return func(c *Config) {
		c.Dimensions = dims
	}
}

// WithRateLimit caps requests per second with the given burst.
func WithRateLimit(rps float64, burst int) ConfigOption {
	return func(c *Config) {
		c.RequestsPerSecond = rps
		c.Burst = burst
	}
}

// DefaultConfig returns a Config for a local Ollama server running nomic-embed-text.
func DefaultConfig() *Config {
	return &Config{
		Provider:       ProviderOllama,
		EmbeddingHost:  "http://localhost:11434",
		EmbeddingModel: "nomic-embed-text",
		Dimensions:     768,
		Burst:          1,
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
//
// Example:
//   cfg := NewConfig(
//       WithProvider(ProviderOpenAI),
//       WithEmbeddingHost("http://localhost:8080"),
//       WithEmbeddingModel("text-embedding-3-small"),
//       WithDimensions(1536),
//   )
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures the configuration is in a canonical form.
// OpenAI-compatible hosts get a /v1 suffix if missing. Ollama hosts are
// used as the server root, so a trailing /v1 is removed.
func (c *Config) Normalize() {
	c.Provider = strings.ToLower(strings.TrimSpace(c.Provider))
	if c.Burst < 1 {
		c.Burst = 1
	}
	if c.EmbeddingHost == "" {
		return
	}
	host := strings.TrimSuffix(c.EmbeddingHost, "/")
	switch c.Provider {
	case ProviderOpenAI:
		if !strings.HasSuffix(host, "/v1") {
			host += "/v1"
		}
	case ProviderOllama:
		host = strings.TrimSuffix(host, "/v1")
	}
	c.EmbeddingHost = host
}

// Validate checks that the configuration is valid and complete.
// It automatically normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	if c.Provider != ProviderOllama && c.Provider != ProviderOpenAI {
		return fmt.Errorf("ai config: unknown Provider %q (want %q or %q)", c.Provider, ProviderOllama, ProviderOpenAI)
	}
	if c.EmbeddingHost == "" {
		return errors.New("ai config: EmbeddingHost is required")
	}
	if c.EmbeddingModel == "" {
		return errors.New("ai config: EmbeddingModel is required")
	}
	if c.Dimensions < 0 {
		return errors.New("ai config: Dimensions cannot be negative")
	}
	if c.RequestsPerSecond < 0 {
		return errors.New("ai config: RequestsPerSecond cannot be negative")
	}
	return nil
}
