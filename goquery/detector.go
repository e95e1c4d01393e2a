package goquery

import (
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwdslsh/toolkit"
)

// Ensure Detector implements toolkit.Prober at compile time.
var _ toolkit.Prober = (*Detector)(nil)

// Detector identifies documentation frameworks from HTML content.
// It checks for framework-specific CSS classes, data attributes, meta tags,
// and structural markers that are unique to each documentation generator.
type Detector struct{}

// NewDetector creates a new Detector.
func NewDetector() *Detector {
	return &Detector{}
}

// Detect analyzes HTML and returns the identified framework.
// Returns FrameworkUnknown if the framework cannot be determined.
func (d *Detector) Detect(html string) toolkit.Framework {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return toolkit.FrameworkUnknown
	}

	// Check meta generator tags first - most reliable when present
	if framework := d.detectFromMetaGenerator(doc); framework != toolkit.FrameworkUnknown {
		return framework
	}

	// Structural markers, most specific first.
	switch {
	case d.hasSelector(doc, "#__docusaurus_skipToContent_fallback") ||
		d.hasSelector(doc, ".theme-doc-sidebar-container"):
		return toolkit.FrameworkDocusaurus
	case d.hasSelector(doc, "[data-md-color-scheme]") ||
		d.hasSelector(doc, "[data-md-component]") ||
		d.hasSelector(doc, ".md-nav--primary"):
		return toolkit.FrameworkMkDocs
	case d.hasSelector(doc, ".toctree-wrapper") ||
		d.hasSelector(doc, ".wy-nav-side") ||
		d.hasSelector(doc, ".sphinxsidebar"):
		return toolkit.FrameworkSphinx
	// VitePress before VuePress since VitePress is a VuePress successor.
	case d.hasSelector(doc, "#VPContent") ||
		d.hasSelector(doc, ".VPDoc"):
		return toolkit.FrameworkVitePress
	case d.hasSelector(doc, ".theme-default-content") ||
		d.hasSelector(doc, ".sidebar-links"):
		return toolkit.FrameworkVuePress
	case d.hasSelector(doc, "[data-testid='space.sidebar']") ||
		d.hasSelector(doc, "[data-testid='page.desktopTableOfContents']") ||
		d.hasGitBookClasses(doc):
		return toolkit.FrameworkGitBook
	case d.hasSelector(doc, ".nextra-navbar") ||
		d.hasSelector(doc, ".nextra-sidebar") ||
		d.hasSelector(doc, ".nextra-toc"):
		return toolkit.FrameworkNextra
	}

	return toolkit.FrameworkUnknown
}

// frameworksRequiringJS lists frameworks whose content is not present in the
// initial HTML and needs a browser to render.
var frameworksRequiringJS = map[toolkit.Framework]bool{
	toolkit.FrameworkDocusaurus: false,
	toolkit.FrameworkMkDocs:     false,
	toolkit.FrameworkSphinx:     false,
	toolkit.FrameworkVuePress:   false,
	toolkit.FrameworkVitePress:  false,
	toolkit.FrameworkGitBook:    true,
	toolkit.FrameworkNextra:     false,
}

// RequiresJS indicates whether a framework requires JavaScript rendering.
// Unknown frameworks return (false, false).
func (d *Detector) RequiresJS(framework toolkit.Framework) (requires bool, known bool) {
	requires, known = frameworksRequiringJS[framework]
	return requires, known
}

// RenderDelay returns the recommended delay after page load for a framework.
// GitBook streams content in after hydration and needs extra settle time.
func (d *Detector) RenderDelay(framework toolkit.Framework) time.Duration {
	if framework == toolkit.FrameworkGitBook {
		return 2 * time.Second
	}
	return 0
}

// detectFromMetaGenerator checks the meta generator tag for framework identification.
func (d *Detector) detectFromMetaGenerator(doc *goquery.Document) toolkit.Framework {
	generator := ""
	doc.Find("meta[name='generator']").Each(func(_ int, s *goquery.Selection) {
		if content, exists := s.Attr("content"); exists {
			generator = strings.ToLower(content)
		}
	})

	if generator == "" {
		return toolkit.FrameworkUnknown
	}

	switch {
	case strings.Contains(generator, "sphinx"):
		return toolkit.FrameworkSphinx
	case strings.Contains(generator, "gitbook"):
		return toolkit.FrameworkGitBook
	case strings.Contains(generator, "docusaurus"):
		return toolkit.FrameworkDocusaurus
	case strings.Contains(generator, "mkdocs"):
		return toolkit.FrameworkMkDocs
	case strings.Contains(generator, "vitepress"):
		return toolkit.FrameworkVitePress
	case strings.Contains(generator, "vuepress"):
		return toolkit.FrameworkVuePress
	case strings.Contains(generator, "nextra"):
		return toolkit.FrameworkNextra
	}

	return toolkit.FrameworkUnknown
}

// hasSelector checks if the document contains at least one element matching the selector.
func (d *Detector) hasSelector(doc *goquery.Document, selector string) bool {
	return doc.Find(selector).Length() > 0
}

// hasGitBookClasses checks for GitBook-specific classes on the html element.
// GitBook uses a distinctive combination of circular-corners, theme-clean
// and tint; require at least two to avoid false positives.
func (d *Detector) hasGitBookClasses(doc *goquery.Document) bool {
	htmlClass := ""
	doc.Find("html").Each(func(_ int, s *goquery.Selection) {
		if class, exists := s.Attr("class"); exists {
			htmlClass = class
		}
	})

	if htmlClass == "" {
		return false
	}

	count := 0
	for _, marker := range []string{"circular-corners", "theme-clean", "tint"} {
		if strings.Contains(htmlClass, marker) {
			count++
		}
	}

	return count >= 2
}
