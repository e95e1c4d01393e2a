package unify

import (
	"strings"

	"github.com/beevik/etree"
)

const sitemapNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

// buildSitemap renders a sitemap.xml document for the page paths.
// Directory indexes map to their directory URL with a trailing slash.
func buildSitemap(baseURL string, pages []string) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	urlset := doc.CreateElement("urlset")
	urlset.CreateAttr("xmlns", sitemapNamespace)

	for _, page := range pages {
		url := urlset.CreateElement("url")
		url.CreateElement("loc").SetText(pageURL(baseURL, page))
	}

	doc.Indent(2)
	return doc.WriteToBytes()
}

// pageURL maps an output-relative page path to its canonical URL.
func pageURL(baseURL, page string) string {
	base := strings.TrimSuffix(baseURL, "/")

	if page == "index.html" {
		return base + "/"
	}
	if dir, ok := strings.CutSuffix(page, "/index.html"); ok {
		return base + "/" + dir + "/"
	}
	return base + "/" + page
}
