package toolkit

import "context"

// TokenCounter counts tokens in text for a specific model.
type TokenCounter interface {
	CountTokens(ctx context.Context, text string) (int, error)
}

// TokenEstimator is a TokenCounter that approximates token counts from
// byte length. It serves as a fallback when no model tokenizer is
// available; the 4 bytes per token heuristic is close enough for budget
// decisions like diff chunking.
type TokenEstimator struct {
	// BytesPerToken overrides the heuristic when > 0.
	BytesPerToken int
}

var _ TokenCounter = (*TokenEstimator)(nil)

// CountTokens estimates the number of tokens in text.
func (e *TokenEstimator) CountTokens(_ context.Context, text string) (int, error) {
	bpt := e.BytesPerToken
	if bpt <= 0 {
		bpt = 4
	}
	if len(text) == 0 {
		return 0, nil
	}
	return (len(text) + bpt - 1) / bpt, nil
}
