// AngelaMos | 2026
// client.go

package assistant

import (
	"context"
	"encoding/base64"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/defensordigital/defensor-api/internal/config"
	"github.com/defensordigital/defensor-api/internal/core"
)

// Completer is the boundary to the generative backend. Failures are
// reported as upstream errors and never retried here; retry is the
// caller's call.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userMessage string) (string, error)
	CompleteWithImage(
		ctx context.Context,
		systemPrompt string,
		image []byte,
		mimeType string,
	) (string, error)
}

type Client struct {
	client *openai.Client
	config config.OpenAIConfig
}

func NewClient(cfg config.OpenAIConfig) *Client {
	return &Client{
		client: openai.NewClient(cfg.APIKey),
		config: cfg,
	}
}

func (c *Client) Complete(
	ctx context.Context,
	systemPrompt, userMessage string,
) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.config.RequestTimeout)
	defer cancel()

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.config.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userMessage},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %v: %w", err, core.ErrUpstream)
	}

	return firstChoice(resp)
}

func (c *Client) CompleteWithImage(
	ctx context.Context,
	systemPrompt string,
	image []byte,
	mimeType string,
) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.config.RequestTimeout)
	defer cancel()

	dataURL := fmt.Sprintf(
		"data:%s;base64,%s",
		mimeType,
		base64.StdEncoding.EncodeToString(image),
	)

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.config.VisionModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL:    dataURL,
							Detail: openai.ImageURLDetailAuto,
						},
					},
				},
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("vision completion: %v: %w", err, core.ErrUpstream)
	}

	return firstChoice(resp)
}

func firstChoice(resp openai.ChatCompletionResponse) (string, error) {
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf(
			"completion returned no choices: %w",
			core.ErrUpstream,
		)
	}

	return resp.Choices[0].Message.Content, nil
}
