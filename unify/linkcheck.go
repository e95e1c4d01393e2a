package unify

import (
	"bytes"
	"path"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwdslsh/toolkit"
)

// BrokenLink is an internal reference that does not resolve in the
// output tree.
type BrokenLink struct {
	Page   string
	Ref    string
	Reason string
}

// CheckLinks validates internal hrefs and srcs in the built HTML pages
// against the output file set. Anchor references are checked against
// element IDs and heading anchors in the target page.
func CheckLinks(files map[string][]byte) []BrokenLink {
	var pages []string
	for rel := range files {
		if strings.HasSuffix(rel, ".html") {
			pages = append(pages, rel)
		}
	}
	sort.Strings(pages)

	var broken []BrokenLink
	for _, page := range pages {
		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(files[page]))
		if err != nil {
			broken = append(broken, BrokenLink{Page: page, Reason: "unparseable HTML"})
			continue
		}

		for _, ref := range collectRefs(doc) {
			if link, ok := checkRef(page, ref, files); !ok {
				broken = append(broken, link)
			}
		}
	}
	return broken
}

func collectRefs(doc *goquery.Document) []string {
	var refs []string
	doc.Find("a[href], link[href]").Each(func(_ int, s *goquery.Selection) {
		if href, ok := s.Attr("href"); ok {
			refs = append(refs, href)
		}
	})
	doc.Find("img[src], script[src]").Each(func(_ int, s *goquery.Selection) {
		if src, ok := s.Attr("src"); ok {
			refs = append(refs, src)
		}
	})
	return refs
}

// checkRef resolves one reference against the output tree.
func checkRef(page, ref string, files map[string][]byte) (BrokenLink, bool) {
	if isExternal(ref) || ref == "" {
		return BrokenLink{}, true
	}

	ref, fragment, _ := strings.Cut(ref, "#")
	if q := strings.Index(ref, "?"); q != -1 {
		ref = ref[:q]
	}

	target := page
	if ref != "" {
		if strings.HasPrefix(ref, "/") {
			target = strings.TrimPrefix(ref, "/")
		} else {
			target = path.Join(path.Dir(page), ref)
		}
		target = path.Clean(target)

		resolved, ok := resolveTarget(target, files)
		if !ok {
			return BrokenLink{Page: page, Ref: ref, Reason: "missing target"}, false
		}
		target = resolved
	}

	if fragment == "" {
		return BrokenLink{}, true
	}
	if !strings.HasSuffix(target, ".html") {
		return BrokenLink{}, true
	}
	if !anchorExists(files[target], fragment) {
		return BrokenLink{Page: page, Ref: ref + "#" + fragment, Reason: "missing anchor"}, false
	}
	return BrokenLink{}, true
}

// resolveTarget finds the output file a path refers to, trying directory
// index and extensionless page forms.
func resolveTarget(target string, files map[string][]byte) (string, bool) {
	if target == "" || target == "." {
		target = "index.html"
	}

	candidates := []string{target}
	if strings.HasSuffix(target, "/") {
		candidates = []string{strings.TrimSuffix(target, "/") + "/index.html"}
	} else if path.Ext(target) == "" {
		candidates = append(candidates, target+".html", target+"/index.html")
	}

	for _, c := range candidates {
		if _, ok := files[c]; ok {
			return c, true
		}
	}
	return "", false
}

func isExternal(ref string) bool {
	return strings.Contains(ref, "://") ||
		strings.HasPrefix(ref, "//") ||
		strings.HasPrefix(ref, "mailto:") ||
		strings.HasPrefix(ref, "tel:") ||
		strings.HasPrefix(ref, "data:")
}

// anchorExists reports whether the HTML contains the fragment as an
// element ID, a named anchor, or a heading anchor.
func anchorExists(html []byte, fragment string) bool {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return false
	}

	found := false
	doc.Find("[id], a[name]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if id, ok := s.Attr("id"); ok && id == fragment {
			found = true
			return false
		}
		if name, ok := s.Attr("name"); ok && name == fragment {
			found = true
			return false
		}
		return true
	})
	if found {
		return true
	}

	doc.Find("h1, h2, h3, h4, h5, h6").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if toolkit.GenerateAnchor(s.Text()) == fragment {
			found = true
			return false
		}
		return true
	})
	return found
}
