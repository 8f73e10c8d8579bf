// Package anthropic provides a generation backend for the Anthropic Claude API.
package anthropic

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/hupe1980/scenemesh/model"
)

// Options configures the Anthropic generator (model id, max tokens, API key).
type Options struct {
	Model     anthropic.Model
	MaxTokens int64
	APIKey    string
}

// Generator wraps the Anthropic Messages API behind the generic
// model.Generator interface.
type Generator struct {
	client *anthropic.Client
	opts   Options
}

// NewGenerator creates a new Anthropic generator using the official client.
func NewGenerator(optFns ...func(o *Options)) *Generator {
	opts := Options{
		Model:     anthropic.ModelClaude3_5Sonnet20241022,
		MaxTokens: 1024,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	var clientOpts []option.RequestOption
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}
	client := anthropic.NewClient(clientOpts...)

	return &Generator{client: &client, opts: opts}
}

// NewGeneratorFromClient creates a new Anthropic generator from an existing client.
func NewGeneratorFromClient(client *anthropic.Client, optFns ...func(o *Options)) *Generator {
	opts := Options{
		Model:     anthropic.ModelClaude3_5Sonnet20241022,
		MaxTokens: 1024,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Generator{client: client, opts: opts}
}

// Generate implements model.Generator. The prompt is sent as a single user
// message; Claude accepts temperatures in [0,1] so higher values are clamped.
func (g *Generator) Generate(ctx context.Context, prompt string, temperature float64) (string, error) {
	if temperature < 0 {
		temperature = 0
	}
	if temperature > 1 {
		temperature = 1
	}

	resp, err := g.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       g.opts.Model,
		MaxTokens:   g.opts.MaxTokens,
		Temperature: anthropic.Float(temperature),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic api error: %w", err)
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.AsText().Text)
		}
	}
	return sb.String(), nil
}

// Info returns metadata describing this Anthropic generator implementation.
func (g *Generator) Info() model.Info {
	return model.Info{Name: string(g.opts.Model), Provider: "anthropic"}
}
