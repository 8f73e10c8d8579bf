// Package openai provides a generation backend using the OpenAI Chat
// Completions API. It adapts the single-prompt Generator contract onto the
// SDK's message format.
package openai

import (
	"context"
	"fmt"

	"github.com/hupe1980/scenemesh/model"
	"github.com/openai/openai-go"
)

// Options configure the OpenAI generator. Fields mirror a minimal subset of
// Chat Completion parameters; extend via functional options without breaking
// callers.
type Options struct {
	Model               string
	MaxCompletionTokens int64
}

// Generator wraps the OpenAI Chat Completions API behind the generic
// model.Generator interface.
type Generator struct {
	client *openai.Client
	opts   Options
}

// NewGenerator creates a new OpenAI generator using the official client.
func NewGenerator(optFns ...func(o *Options)) *Generator {
	client := openai.NewClient()
	return NewGeneratorFromClient(&client, optFns...)
}

// NewGeneratorFromClient creates a new OpenAI generator from an existing client.
func NewGeneratorFromClient(client *openai.Client, optFns ...func(o *Options)) *Generator {
	opts := Options{
		Model:               openai.ChatModelGPT4oMini,
		MaxCompletionTokens: 1024,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Generator{client: client, opts: opts}
}

// Generate implements model.Generator. The prompt is sent as a single user
// message; temperature is clamped to the API's [0,2] range.
func (g *Generator) Generate(ctx context.Context, prompt string, temperature float64) (string, error) {
	if temperature < 0 {
		temperature = 0
	}
	if temperature > 2 {
		temperature = 2
	}

	resp, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: g.opts.Model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Temperature:         openai.Float(temperature),
		MaxCompletionTokens: openai.Int(g.opts.MaxCompletionTokens),
	})
	if err != nil {
		return "", fmt.Errorf("openai api error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

// Info returns metadata describing this OpenAI generator implementation.
func (g *Generator) Info() model.Info {
	return model.Info{Name: g.opts.Model, Provider: "openai"}
}
