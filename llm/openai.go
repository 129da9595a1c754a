package llm

import (
	"context"
	"fmt"
	"strings"

	openaisdk "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/packages/param"
)

const (
	defaultOpenAIGenerationModel = string(openaisdk.ChatModelGPT4oMini)
	defaultOpenAIEmbeddingModel  = string(openaisdk.EmbeddingModelTextEmbedding3Small)
	defaultOpenAIDimensions      = 1536
)

// OpenAIConfig configures OpenAIClient. Zero values use the defaults.
type OpenAIConfig struct {
	APIKey          string
	GenerationModel string
	EmbeddingModel  string
	Dimensions      int
	BaseURL         string
	MaxRetries      *int
}

// OpenAIClient embeds and generates with the OpenAI API.
type OpenAIClient struct {
	sdk             openaisdk.Client
	generationModel string
	embeddingModel  string
	dimensions      int
}

func NewOpenAIClient(cfg OpenAIConfig) *OpenAIClient {
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.MaxRetries != nil {
		opts = append(opts, option.WithMaxRetries(*cfg.MaxRetries))
	}

	c := &OpenAIClient{
		sdk:             openaisdk.NewClient(opts...),
		generationModel: cmpOr(cfg.GenerationModel, defaultOpenAIGenerationModel),
		embeddingModel:  cmpOr(cfg.EmbeddingModel, defaultOpenAIEmbeddingModel),
		dimensions:      cfg.Dimensions,
	}
	if c.dimensions <= 0 {
		c.dimensions = defaultOpenAIDimensions
	}
	return c
}

// Embed returns the embedding of text.
func (c *OpenAIClient) Embed(ctx context.Context, text string) ([]float32, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyInput
	}

	resp, err := c.sdk.Embeddings.New(ctx, openaisdk.EmbeddingNewParams{
		Input: openaisdk.EmbeddingNewParamsInputUnion{
			OfString: param.NewOpt(text),
		},
		Model:      openaisdk.EmbeddingModel(c.embeddingModel),
		Dimensions: param.NewOpt(int64(c.dimensions)),
	})
	if err != nil {
		return nil, fmt.Errorf("openai embedding: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, ErrNoEmbeddingInResponse
	}

	emb := resp.Data[0].Embedding
	if len(emb) != c.dimensions {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrDimensionMismatch, len(emb), c.dimensions)
	}

	out := make([]float32, len(emb))
	for i := range emb {
		out[i] = float32(emb[i])
	}
	return out, nil
}

// Complete runs a chat completion with an optional system message.
func (c *OpenAIClient) Complete(ctx context.Context, prompt Prompt) (string, error) {
	if strings.TrimSpace(prompt.User) == "" {
		return "", ErrEmptyInput
	}

	messages := make([]openaisdk.ChatCompletionMessageParamUnion, 0, 2)
	if prompt.System != "" {
		messages = append(messages, openaisdk.SystemMessage(prompt.System))
	}
	messages = append(messages, openaisdk.UserMessage(prompt.User))

	params := openaisdk.ChatCompletionNewParams{
		Model:    openaisdk.ChatModel(c.generationModel),
		Messages: messages,
	}
	if prompt.MaxTokens > 0 {
		params.MaxCompletionTokens = param.NewOpt(int64(prompt.MaxTokens))
	}

	resp, err := c.sdk.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("openai completion: %w", err)
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", ErrEmptyCompletion
	}
	return resp.Choices[0].Message.Content, nil
}
