package responder

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"twitchvoice/internal/app/infrastructure/config"
	"twitchvoice/internal/app/ports"
)

var ErrNoChoices = errors.New("generator returned no choices")

// OpenAIGenerator talks to any OpenAI-compatible chat completions endpoint (Ollama serves one on /v1).
type OpenAIGenerator struct {
	client openai.Client
	model  string
}

func NewOpenAIGenerator(cfg config.Responder, opts ...option.RequestOption) *OpenAIGenerator {
	clientOpts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		baseURL := cfg.BaseURL
		if !strings.HasSuffix(baseURL, "/") {
			baseURL += "/"
		}
		clientOpts = append(clientOpts, option.WithBaseURL(baseURL))
	}
	clientOpts = append(clientOpts, opts...)

	return &OpenAIGenerator{
		client: openai.NewClient(clientOpts...),
		model:  cfg.Model,
	}
}

func (g *OpenAIGenerator) Generate(ctx context.Context, system string, history []ports.Turn, prompt string) (string, error) {
	msgs := make([]openai.ChatCompletionMessageParamUnion, 0, 2*len(history)+2)
	if system != "" {
		msgs = append(msgs, openai.SystemMessage(system))
	}
	for _, t := range history {
		msgs = append(msgs, openai.UserMessage(t.Prompt), openai.AssistantMessage(t.Reply))
	}
	msgs = append(msgs, openai.UserMessage(prompt))

	resp, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: msgs,
		Model:    g.model,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrNoChoices
	}
	return resp.Choices[0].Message.Content, nil
}
