// Package readability extracts main content from HTML pages using the
// go-readability port of Mozilla's Readability.
package readability

import (
	"strings"

	"github.com/fwdslsh/toolkit"
	"github.com/go-shiori/go-readability"
)

// Ensure Extractor implements toolkit.Extractor at compile time.
var _ toolkit.Extractor = (*Extractor)(nil)

// Extractor wraps go-readability to extract main content from HTML.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes raw HTML and returns the main content.
func (e *Extractor) Extract(rawHTML string) (*toolkit.ExtractResult, error) {
	if rawHTML == "" {
		return nil, toolkit.Errorf(toolkit.EINVALID, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), nil)
	if err != nil {
		return nil, err
	}

	return &toolkit.ExtractResult{
		Title:       article.Title,
		ContentHTML: article.Content,
	}, nil
}
