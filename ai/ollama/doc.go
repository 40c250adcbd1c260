// Package ollama provides an ai.AIProvider that talks to Ollama's native
// embedding API through langchaingo.
//
// # Usage
//
//	provider, err := ollama.NewProvider(ai.DefaultConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	vec, err := provider.Embedder().EmbedText(ctx, "Headline\nBody")
package ollama
