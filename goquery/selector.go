package goquery

import "github.com/fwdslsh/toolkit"

var _ toolkit.LinkSelector = (*Selector)(nil)

// Selector extracts links using a named set of selector configurations.
// Framework-specific selector sets target the navigation structures each
// documentation generator emits; the generic set relies on common HTML
// patterns and enables the path-prefix fallback for non-semantic markup.
type Selector struct {
	name     string
	configs  []SelectorConfig
	fallback bool
}

// Name returns the selector's identifier.
func (s *Selector) Name() string {
	return s.name
}

// ExtractLinks parses HTML and returns discovered links with priority.
func (s *Selector) ExtractLinks(html string, baseURL string) ([]toolkit.DiscoveredLink, error) {
	if s.fallback {
		return ExtractLinksWithConfigsAndFallback(html, baseURL, s.configs)
	}
	return ExtractLinksWithConfigs(html, baseURL, s.configs)
}

// NewGenericSelector creates a selector using universal CSS patterns that
// work across any documentation framework. It includes the anchor fallback
// so sites with non-semantic HTML still get their links discovered.
func NewGenericSelector() *Selector {
	return &Selector{
		name:     "generic",
		fallback: true,
		configs: []SelectorConfig{
			{Selector: ".toc a[href], .table-of-contents a[href], aside a[href]", Priority: toolkit.PriorityTOC, Source: "toc"},
			{Selector: "nav a[href], [role='navigation'] a[href], .sidebar a[href], .menu a[href]", Priority: toolkit.PriorityNavigation, Source: "nav"},
			{Selector: "main a[href], article a[href], .content a[href]", Priority: toolkit.PriorityContent, Source: "content"},
			{Selector: "footer a[href], .footer a[href]", Priority: toolkit.PriorityFooter, Source: "footer"},
		},
	}
}

// frameworkConfigs maps each supported framework to the selector set
// targeting its navigation structure.
var frameworkConfigs = map[toolkit.Framework][]SelectorConfig{
	toolkit.FrameworkDocusaurus: {
		{Selector: ".table-of-contents a[href]", Priority: toolkit.PriorityTOC, Source: "toc"},
		{Selector: ".theme-doc-sidebar-container a[href]", Priority: toolkit.PriorityNavigation, Source: "sidebar"},
		{Selector: "nav.navbar a[href]", Priority: toolkit.PriorityNavigation, Source: "navbar"},
		{Selector: "article a[href], main a[href]", Priority: toolkit.PriorityContent, Source: "content"},
		{Selector: "footer a[href]", Priority: toolkit.PriorityFooter, Source: "footer"},
	},
	toolkit.FrameworkMkDocs: {
		{Selector: ".md-nav--secondary a[href]", Priority: toolkit.PriorityTOC, Source: "toc"},
		{Selector: ".md-nav--primary a[href]", Priority: toolkit.PriorityNavigation, Source: "sidebar"},
		{Selector: ".md-tabs a[href]", Priority: toolkit.PriorityNavigation, Source: "tabs"},
		{Selector: ".md-content a[href], article a[href]", Priority: toolkit.PriorityContent, Source: "content"},
		{Selector: "footer a[href]", Priority: toolkit.PriorityFooter, Source: "footer"},
	},
	toolkit.FrameworkSphinx: {
		{Selector: ".toctree-wrapper a[href]", Priority: toolkit.PriorityTOC, Source: "toc"},
		{Selector: ".wy-menu-vertical a[href], .sphinxsidebar a[href]", Priority: toolkit.PriorityNavigation, Source: "sidebar"},
		{Selector: ".document a[href], [role='main'] a[href]", Priority: toolkit.PriorityContent, Source: "content"},
		{Selector: "footer a[href]", Priority: toolkit.PriorityFooter, Source: "footer"},
	},
	toolkit.FrameworkVuePress: {
		{Selector: ".table-of-contents a[href]", Priority: toolkit.PriorityTOC, Source: "toc"},
		{Selector: ".sidebar-links a[href], .sidebar a[href]", Priority: toolkit.PriorityNavigation, Source: "sidebar"},
		{Selector: ".navbar a[href]", Priority: toolkit.PriorityNavigation, Source: "navbar"},
		{Selector: ".theme-default-content a[href], main a[href]", Priority: toolkit.PriorityContent, Source: "content"},
		{Selector: "footer a[href]", Priority: toolkit.PriorityFooter, Source: "footer"},
	},
	toolkit.FrameworkVitePress: {
		{Selector: ".VPDocAsideOutline a[href]", Priority: toolkit.PriorityTOC, Source: "toc"},
		{Selector: ".VPSidebar a[href]", Priority: toolkit.PriorityNavigation, Source: "sidebar"},
		{Selector: ".VPNav a[href]", Priority: toolkit.PriorityNavigation, Source: "navbar"},
		{Selector: ".VPDoc a[href], main a[href]", Priority: toolkit.PriorityContent, Source: "content"},
		{Selector: "footer a[href]", Priority: toolkit.PriorityFooter, Source: "footer"},
	},
	toolkit.FrameworkGitBook: {
		{Selector: "[data-testid='page.desktopTableOfContents'] a[href]", Priority: toolkit.PriorityTOC, Source: "toc"},
		{Selector: "[data-testid='space.sidebar'] a[href], aside a[href]", Priority: toolkit.PriorityNavigation, Source: "sidebar"},
		{Selector: "main a[href]", Priority: toolkit.PriorityContent, Source: "content"},
	},
	toolkit.FrameworkNextra: {
		{Selector: ".nextra-toc a[href]", Priority: toolkit.PriorityTOC, Source: "toc"},
		{Selector: ".nextra-sidebar a[href]", Priority: toolkit.PriorityNavigation, Source: "sidebar"},
		{Selector: ".nextra-navbar a[href]", Priority: toolkit.PriorityNavigation, Source: "navbar"},
		{Selector: "main a[href], article a[href]", Priority: toolkit.PriorityContent, Source: "content"},
		{Selector: "footer a[href]", Priority: toolkit.PriorityFooter, Source: "footer"},
	},
}

// NewFrameworkSelector creates a selector for a specific framework.
// Returns nil if the framework has no selector set.
func NewFrameworkSelector(framework toolkit.Framework) *Selector {
	configs, ok := frameworkConfigs[framework]
	if !ok {
		return nil
	}
	return &Selector{
		name:    string(framework),
		configs: configs,
	}
}

// RegisterFrameworkSelectors registers all framework selector sets with a registry.
func RegisterFrameworkSelectors(registry toolkit.LinkSelectorRegistry) {
	for framework := range frameworkConfigs {
		registry.Register(framework, NewFrameworkSelector(framework))
	}
}
