// Package llm wraps the embedding and text-generation providers the advisor
// talks to: Gemini via the Google Gen AI SDK, OpenAI via the official SDK, and
// an offline mode that needs no network.
package llm

import (
	"context"
	"errors"
)

var (
	// ErrEmptyInput is returned when asked to embed or complete blank text.
	ErrEmptyInput = errors.New("llm: input text is empty")
	// ErrNoEmbeddingInResponse is returned when the provider answers without a vector.
	ErrNoEmbeddingInResponse = errors.New("llm: no embedding in response")
	// ErrDimensionMismatch is returned when the vector width differs from the configured one.
	ErrDimensionMismatch = errors.New("llm: embedding dimension mismatch")
	// ErrEmptyCompletion is returned when the provider answers without text.
	ErrEmptyCompletion = errors.New("llm: empty completion")
	// ErrDisabled is returned by generators running without a provider.
	ErrDisabled = errors.New("llm: generation disabled")
)

// Provider names accepted by LLM_PROVIDER.
const (
	ProviderGemini  = "gemini"
	ProviderOpenAI  = "openai"
	ProviderOffline = "offline"
)

// Embedder turns text into an embedding vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Prompt is one generation request. System may be empty.
type Prompt struct {
	System    string
	User      string
	MaxTokens int
}

// Generator completes prompts with free-form text.
type Generator interface {
	Complete(ctx context.Context, prompt Prompt) (string, error)
}
