// Package anthropic implements text generation using the Anthropic API.
package anthropic

import (
	"context"
	"strings"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/fwdslsh/toolkit"
)

// DefaultModel is used when the request does not name a model.
const DefaultModel = "claude-sonnet-4-20250514"

// defaultMaxTokens bounds the response when the request does not set one.
// The Messages API requires an explicit limit.
const defaultMaxTokens = 4096

// Ensure Generator implements toolkit.Generator at compile time.
var _ toolkit.Generator = (*Generator)(nil)

// Generator implements toolkit.Generator using the Anthropic Messages API.
type Generator struct {
	client anthropic.Client
	model  string
}

// NewGenerator creates a Generator. An empty model selects DefaultModel.
func NewGenerator(client anthropic.Client, model string) *Generator {
	if model == "" {
		model = DefaultModel
	}
	return &Generator{client: client, model: model}
}

// Name returns the provider identifier.
func (g *Generator) Name() string { return "anthropic" }

// Generate produces a completion for the request.
func (g *Generator) Generate(ctx context.Context, req toolkit.GenerateRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}

	model := g.model
	if req.Model != "" {
		model = req.Model
	}
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: int64(maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
		},
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}
	if req.Temperature > 0 {
		params.Temperature = anthropic.Float(float64(req.Temperature))
	}

	response, err := g.client.Messages.New(ctx, params)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, block := range response.Content {
		if text, ok := block.AsAny().(anthropic.TextBlock); ok {
			b.WriteString(text.Text)
		}
	}
	if b.Len() == 0 {
		return "", toolkit.Errorf(toolkit.EINTERNAL, "anthropic returned no text content")
	}

	return b.String(), nil
}
