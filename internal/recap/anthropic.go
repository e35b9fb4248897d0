package recap

import (
	"context"
	"fmt"
	"strings"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"moodjournal/internal/models"
)

const DefaultAnthropicModel = "claude-3-5-haiku-latest"

// AnthropicGenerator calls the Messages API.
type AnthropicGenerator struct {
	client    anthropic.Client
	model     string
	maxTokens int64
}

// NewAnthropicGenerator builds a generator. Extra request options (base URL,
// retries) are passed through to the SDK client.
func NewAnthropicGenerator(apiKey, model string, maxTokens int64, opts ...option.RequestOption) *AnthropicGenerator {
	if model == "" {
		model = DefaultAnthropicModel
	}
	if maxTokens <= 0 {
		maxTokens = 1024
	}
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	return &AnthropicGenerator{
		client:    anthropic.NewClient(opts...),
		model:     model,
		maxTokens: maxTokens,
	}
}

func (g *AnthropicGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	msg, err := g.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(g.model),
		MaxTokens: g.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("anthropic messages: %w", ctx.Err())
		}
		return "", fmt.Errorf("anthropic messages: %v: %w", err, models.ErrUpstream)
	}

	var b strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", fmt.Errorf("anthropic returned no text: %w", models.ErrUpstream)
	}
	return text, nil
}
