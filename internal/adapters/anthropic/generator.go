// Package anthropicad implements the text-generation port over the
// Anthropic Messages API. The provider is a black box here: prompts in,
// raw text out.
package anthropicad

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"storelens/internal/adapters/observability"
	"storelens/internal/domain"
)

type Generator struct {
	client anthropic.Client
	model  anthropic.Model
}

func New(apiKey, model string) (*Generator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	return &Generator{
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:  anthropic.Model(model),
	}, nil
}

func (g *Generator) Generate(ctx context.Context, prompt string, opts domain.GenerateOptions) (string, error) {
	start := time.Now()
	msg, err := g.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       g.model,
		MaxTokens:   opts.MaxTokens,
		Temperature: anthropic.Float(opts.Temperature),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		observability.ObserveExternal("anthropic", "messages", 0, time.Since(start))
		return "", fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}
	observability.ObserveExternal("anthropic", "messages", http.StatusOK, time.Since(start))

	var b strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	text := b.String()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: empty completion", domain.ErrUpstream)
	}
	return text, nil
}
