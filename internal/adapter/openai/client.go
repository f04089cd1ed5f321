package openai

import (
	"context"
	"errors"

	openaiapi "github.com/sashabaranov/go-openai"

	"pdfchat/internal/usecase/index"
)

type Client struct {
	api            *openaiapi.Client
	embeddingModel string
}

// NewClient talks to the OpenAI API, or to baseURL when it is set.
func NewClient(token, baseURL, embeddingModel string) *Client {
	cfg := openaiapi.DefaultConfig(token)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}

	return &Client{
		api:            openaiapi.NewClientWithConfig(cfg),
		embeddingModel: embeddingModel,
	}
}

func (c *Client) Complete(ctx context.Context, req index.CompletionRequest) (string, error) {
	apiReq := openaiapi.ChatCompletionRequest{
		Model:       req.Model,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
		Stream:      false,
		Messages: []openaiapi.ChatCompletionMessage{
			{Role: openaiapi.ChatMessageRoleUser, Content: req.Prompt},
		},
	}

	resp, err := c.api.CreateChatCompletion(ctx, apiReq)
	if err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("openai returned empty response")
	}

	return resp.Choices[0].Message.Content, nil
}

// Embed has the shape of chromem.EmbeddingFunc.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := c.api.CreateEmbeddings(ctx, openaiapi.EmbeddingRequest{
		Input: []string{text},
		Model: openaiapi.EmbeddingModel(c.embeddingModel),
	})
	if err != nil {
		return nil, err
	}

	if len(resp.Data) == 0 {
		return nil, errors.New("openai returned no embeddings")
	}

	return resp.Data[0].Embedding, nil
}
