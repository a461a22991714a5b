package ai

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"

	"reviseai-backend/config"
	"reviseai-backend/internal/generator"

	openai "github.com/sashabaranov/go-openai"
)

const systemPrompt = "You are an expert quiz question generator. You create clear, accurate study questions from the notes you are given and respond with JSON only."

// Client adapts the OpenAI chat completion API to the generator.Client
// contract, translating provider failures into the pipeline's closed error
// codes.
type Client struct {
	api         *openai.Client
	model       string
	maxTokens   int
	temperature float32
}

func NewClient(cfg *config.AIConfig) *Client {
	c := &Client{
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: float32(cfg.Temperature),
	}
	if cfg.APIKey != "" {
		c.api = openai.NewClient(cfg.APIKey)
	}
	return c
}

func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	if c.api == nil {
		return "", generator.NewError(generator.CodeNoAPIKey, nil)
	}

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
	})
	if err != nil {
		return "", classifyError(err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", generator.NewError(generator.CodeEmptyResponse, nil)
	}

	return resp.Choices[0].Message.Content, nil
}

func classifyError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusUnauthorized:
			return generator.NewError(generator.CodeAuthError, err)
		case http.StatusTooManyRequests:
			return generator.NewError(generator.CodeQuotaExceeded, err)
		default:
			return generator.NewError(generator.CodeAPIError, err)
		}
	}

	log.Printf("OpenAI request failed: %v", err)
	return generator.NewError(generator.CodeAPIError, fmt.Errorf("request failed: %w", err))
}
