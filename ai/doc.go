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

// Package ai provides abstractions for the embedding service used by newslens.
//
// The core of the package is the Embedder interface. The embedding pipeline,
// the similarity searcher and the query command all depend on it rather
// than on a concrete client.
//
// # Implementation Packages
//
//   - ai/ollama: native Ollama API client (the default)
//   - ai/openai: OpenAI-compatible API client (OpenAI, LocalAI, vLLM, Ollama's /v1)
//   - ai/mock: deterministic test doubles
//
// # Constructor Return Type Pattern
//
// Public constructors (ollama.NewProvider, openai.NewEmbedder, etc.) return
// INTERFACE types to prevent accidental coupling to a concrete client.
//
//	provider, err := ollama.NewProvider(config)  // returns ai.AIProvider
//
// Test utility constructors (mock.NewMockEmbedder) return CONCRETE types so
// tests can inject behavior and assert on call counts.
//
// # Rate Limiting
//
// NewRateLimitedEmbedder wraps any Embedder with a token bucket. Providers
// apply it automatically when Config.RequestsPerSecond is set.
//
// # Usage Example
//
//	config := ai.NewConfig(ai.WithEmbeddingModel("nomic-embed-text"))
//	provider, err := ollama.NewProvider(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	vec, err := provider.Embedder().EmbedText(ctx, "Headline\nBody")
package ai
