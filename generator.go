package toolkit

import "context"

// GenerateRequest describes a single text generation call to an LLM provider.
type GenerateRequest struct {
	// System is the system instruction establishing the assistant's role.
	System string

	// Prompt is the user-facing prompt text.
	Prompt string

	// Model overrides the provider's default model when non-empty.
	Model string

	// Temperature controls sampling randomness. Zero value means
	// provider default.
	Temperature float32

	// MaxTokens caps the response length. Zero value means provider default.
	MaxTokens int
}

// Validate returns an error if the request contains invalid fields.
func (r *GenerateRequest) Validate() error {
	if r.Prompt == "" {
		return Errorf(EINVALID, "prompt required")
	}
	return nil
}

// Generator produces text from a prompt using an LLM provider.
// Implementations live in provider-named packages (gemini/, openai/,
// anthropic/).
type Generator interface {
	// Generate sends the request to the provider and returns the
	// generated text.
	Generate(ctx context.Context, req GenerateRequest) (string, error)

	// Name returns the provider's identifier (e.g., "gemini", "openai").
	Name() string
}
