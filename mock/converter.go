package mock

import "github.com/fwdslsh/toolkit"

var _ toolkit.Converter = (*Converter)(nil)

// Converter is a mock implementation of toolkit.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
