package mock

import "github.com/fwdslsh/toolkit"

var _ toolkit.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of toolkit.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*toolkit.ExtractResult, error)
}

func (e *Extractor) Extract(html string) (*toolkit.ExtractResult, error) {
	return e.ExtractFn(html)
}
