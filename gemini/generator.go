// Package gemini implements text generation and token counting using
// Google Gemini.
package gemini

import (
	"context"

	"github.com/fwdslsh/toolkit"
	"google.golang.org/genai"
)

// DefaultModel is used when the request does not name a model.
const DefaultModel = "gemini-2.5-flash"

// Ensure Generator implements toolkit.Generator at compile time.
var _ toolkit.Generator = (*Generator)(nil)

// Generator implements toolkit.Generator using the Gemini API.
type Generator struct {
	client *genai.Client
	model  string
}

// NewGenerator creates a Generator. An empty model selects DefaultModel.
func NewGenerator(client *genai.Client, model string) *Generator {
	if model == "" {
		model = DefaultModel
	}
	return &Generator{client: client, model: model}
}

// Name returns the provider identifier.
func (g *Generator) Name() string { return "gemini" }

// Generate produces a completion for the request.
func (g *Generator) Generate(ctx context.Context, req toolkit.GenerateRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}

	model := req.Model
	if model == "" {
		model = g.model
	}

	config := &genai.GenerateContentConfig{}
	if req.System != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: req.System}},
		}
	}
	if req.Temperature > 0 {
		temp := req.Temperature
		config.Temperature = &temp
	}
	if req.MaxTokens > 0 {
		config.MaxOutputTokens = int32(req.MaxTokens)
	}

	result, err := g.client.Models.GenerateContent(ctx, model,
		[]*genai.Content{{
			Parts: []*genai.Part{{Text: req.Prompt}},
		}},
		config,
	)
	if err != nil {
		return "", err
	}
	if result == nil {
		return "", toolkit.Errorf(toolkit.EINTERNAL, "gemini returned nil result")
	}

	return result.Text(), nil
}
