package llm

import (
	"context"
	"fmt"
	"math"
	"strings"

	"google.golang.org/genai"
)

const (
	defaultGeminiGenerationModel = "gemini-2.0-flash"
	defaultGeminiEmbeddingModel  = "text-embedding-004"
	defaultGeminiDimensions      = 768
)

// GeminiConfig configures GeminiClient. Zero values use the defaults.
type GeminiConfig struct {
	APIKey          string
	GenerationModel string
	EmbeddingModel  string
	Dimensions      int
	// BaseURL overrides the API endpoint.
	BaseURL string
}

// GeminiClient embeds and generates with the Gemini API.
type GeminiClient struct {
	client          *genai.Client
	generationModel string
	embeddingModel  string
	dimensions      int
}

func NewGeminiClient(ctx context.Context, cfg GeminiConfig) (*GeminiClient, error) {
	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}

	c := &GeminiClient{
		client:          client,
		generationModel: cmpOr(cfg.GenerationModel, defaultGeminiGenerationModel),
		embeddingModel:  cmpOr(cfg.EmbeddingModel, defaultGeminiEmbeddingModel),
		dimensions:      cfg.Dimensions,
	}
	if c.dimensions <= 0 || c.dimensions > math.MaxInt32 {
		c.dimensions = defaultGeminiDimensions
	}
	return c, nil
}

// Embed returns the query embedding of text.
func (c *GeminiClient) Embed(ctx context.Context, text string) ([]float32, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyInput
	}

	dim := int32(c.dimensions) //nolint:gosec // bounded in NewGeminiClient
	resp, err := c.client.Models.EmbedContent(ctx, c.embeddingModel,
		[]*genai.Content{genai.NewContentFromText(text, genai.RoleUser)},
		&genai.EmbedContentConfig{
			OutputDimensionality: &dim,
			TaskType:             "RETRIEVAL_QUERY",
		},
	)
	if err != nil {
		return nil, fmt.Errorf("gemini embedding: %w", err)
	}
	if len(resp.Embeddings) == 0 || resp.Embeddings[0] == nil {
		return nil, ErrNoEmbeddingInResponse
	}

	emb := resp.Embeddings[0].Values
	if len(emb) != c.dimensions {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrDimensionMismatch, len(emb), c.dimensions)
	}

	out := make([]float32, len(emb))
	copy(out, emb)
	return out, nil
}

// Complete generates text for prompt.
func (c *GeminiClient) Complete(ctx context.Context, prompt Prompt) (string, error) {
	if strings.TrimSpace(prompt.User) == "" {
		return "", ErrEmptyInput
	}

	cfg := &genai.GenerateContentConfig{}
	if prompt.System != "" {
		cfg.SystemInstruction = genai.NewContentFromText(prompt.System, genai.RoleUser)
	}
	if prompt.MaxTokens > 0 {
		cfg.MaxOutputTokens = int32(min(prompt.MaxTokens, math.MaxInt32)) //nolint:gosec // clamped
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.generationModel, genai.Text(prompt.User), cfg)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyCompletion
	}
	return text, nil
}

func cmpOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
