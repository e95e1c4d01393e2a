package mock

import (
	"time"

	"github.com/fwdslsh/toolkit"
)

var _ toolkit.LinkSelector = (*LinkSelector)(nil)

// LinkSelector is a mock implementation of toolkit.LinkSelector.
type LinkSelector struct {
	ExtractLinksFn func(html string, baseURL string) ([]toolkit.DiscoveredLink, error)
	NameFn         func() string
}

func (s *LinkSelector) ExtractLinks(html string, baseURL string) ([]toolkit.DiscoveredLink, error) {
	return s.ExtractLinksFn(html, baseURL)
}

func (s *LinkSelector) Name() string {
	if s.NameFn == nil {
		return "mock"
	}
	return s.NameFn()
}

var _ toolkit.LinkSelectorRegistry = (*LinkSelectorRegistry)(nil)

// LinkSelectorRegistry is a mock implementation of toolkit.LinkSelectorRegistry.
type LinkSelectorRegistry struct {
	GetFn        func(framework toolkit.Framework) toolkit.LinkSelector
	GetForHTMLFn func(html string) toolkit.LinkSelector
	RegisterFn   func(framework toolkit.Framework, selector toolkit.LinkSelector)
	ListFn       func() []toolkit.Framework
}

func (r *LinkSelectorRegistry) Get(framework toolkit.Framework) toolkit.LinkSelector {
	return r.GetFn(framework)
}

func (r *LinkSelectorRegistry) GetForHTML(html string) toolkit.LinkSelector {
	return r.GetForHTMLFn(html)
}

func (r *LinkSelectorRegistry) Register(framework toolkit.Framework, selector toolkit.LinkSelector) {
	r.RegisterFn(framework, selector)
}

func (r *LinkSelectorRegistry) List() []toolkit.Framework {
	return r.ListFn()
}

var _ toolkit.Prober = (*Prober)(nil)

// Prober is a mock implementation of toolkit.Prober.
type Prober struct {
	DetectFn      func(html string) toolkit.Framework
	RequiresJSFn  func(framework toolkit.Framework) (bool, bool)
	RenderDelayFn func(framework toolkit.Framework) time.Duration
}

func (p *Prober) Detect(html string) toolkit.Framework {
	return p.DetectFn(html)
}

func (p *Prober) RequiresJS(framework toolkit.Framework) (bool, bool) {
	return p.RequiresJSFn(framework)
}

func (p *Prober) RenderDelay(framework toolkit.Framework) time.Duration {
	if p.RenderDelayFn == nil {
		return 0
	}
	return p.RenderDelayFn(framework)
}
