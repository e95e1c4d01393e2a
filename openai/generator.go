// Package openai implements text generation using the OpenAI API.
package openai

import (
	"context"

	"github.com/fwdslsh/toolkit"
	openai "github.com/sashabaranov/go-openai"
)

// DefaultModel is used when the request does not name a model.
const DefaultModel = openai.GPT4o

// Ensure Generator implements toolkit.Generator at compile time.
var _ toolkit.Generator = (*Generator)(nil)

// Generator implements toolkit.Generator using OpenAI chat completions.
type Generator struct {
	client *openai.Client
	model  string
}

// NewGenerator creates a Generator. An empty model selects DefaultModel.
func NewGenerator(client *openai.Client, model string) *Generator {
	if model == "" {
		model = DefaultModel
	}
	return &Generator{client: client, model: model}
}

// Name returns the provider identifier.
func (g *Generator) Name() string { return "openai" }

// Generate produces a completion for the request.
func (g *Generator) Generate(ctx context.Context, req toolkit.GenerateRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}

	model := req.Model
	if model == "" {
		model = g.model
	}

	var messages []openai.ChatCompletionMessage
	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.Prompt,
	})

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       model,
		Messages:    messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", toolkit.Errorf(toolkit.EINTERNAL, "openai returned no choices")
	}

	return resp.Choices[0].Message.Content, nil
}
