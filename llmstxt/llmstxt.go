// Package llmstxt renders llms.txt and llms-full.txt files from a
// directory of Markdown documents, following the llms.txt convention:
// an H1 title, a blockquote summary, and per-section link lists, with
// the full variant carrying the concatenated document content.
package llmstxt

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"unicode"

	"github.com/fwdslsh/toolkit"
	toolkitfs "github.com/fwdslsh/toolkit/fs"
	"github.com/google/renameio/v2"
)

const (
	// IndexFile is the link index written next to the documents.
	IndexFile = "llms.txt"

	// FullFile is the concatenated full-content variant.
	FullFile = "llms-full.txt"
)

// rootSection names the link list for documents at the directory root.
const rootSection = "Docs"

// Doc is one Markdown document included in the output.
type Doc struct {
	Path    string // slash-separated path relative to the scanned directory
	Title   string
	Summary string
	URL     string // source URL when the document has crawl frontmatter
	Content string
}

// Options configure generation. Zero values derive the title from the
// directory name and omit the summary blockquote.
type Options struct {
	Title   string
	Summary string
}

// Write scans dir for Markdown documents and writes llms.txt and
// llms-full.txt into it. Both writes are atomic.
func Write(dir string, opts Options) error {
	docs, err := Scan(dir)
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		return toolkit.Errorf(toolkit.ENOTFOUND, "No Markdown documents found in %s.", dir)
	}

	title := opts.Title
	if title == "" {
		title = sectionName(filepath.Base(dir))
	}

	index := RenderIndex(title, opts.Summary, docs)
	if err := renameio.WriteFile(filepath.Join(dir, IndexFile), []byte(index), 0644); err != nil {
		return err
	}

	full := RenderFull(title, opts.Summary, docs)
	return renameio.WriteFile(filepath.Join(dir, FullFile), []byte(full), 0644)
}

// Scan collects the Markdown documents under dir, sorted by path.
func Scan(dir string) ([]Doc, error) {
	var docs []Doc

	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p != dir && (strings.HasPrefix(d.Name(), ".") || strings.HasPrefix(d.Name(), "_")) {
				return fs.SkipDir
			}
			return nil
		}
		if filepath.Ext(p) != ".md" {
			return nil
		}

		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}

		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		page, err := toolkitfs.ParsePage(data)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", p, err)
		}

		docs = append(docs, Doc{
			Path:    filepath.ToSlash(rel),
			Title:   docTitle(page, rel),
			Summary: firstParagraph(page.Content),
			URL:     page.URL,
			Content: page.Content,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(docs, func(i, j int) bool { return docs[i].Path < docs[j].Path })
	return docs, nil
}

// RenderIndex renders the llms.txt link index: title, optional summary
// blockquote, and one section per top-level directory.
func RenderIndex(title, summary string, docs []Doc) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n", title)
	if summary != "" {
		fmt.Fprintf(&b, "\n> %s\n", summary)
	}

	sections, order := groupDocs(docs)
	for _, section := range order {
		fmt.Fprintf(&b, "\n## %s\n\n", section)
		for _, doc := range sections[section] {
			if doc.Summary != "" {
				fmt.Fprintf(&b, "- [%s](%s): %s\n", doc.Title, doc.Path, doc.Summary)
			} else {
				fmt.Fprintf(&b, "- [%s](%s)\n", doc.Title, doc.Path)
			}
		}
	}
	return b.String()
}

// RenderFull renders llms-full.txt: the index header followed by every
// document's content, each introduced by its title and source URL.
func RenderFull(title, summary string, docs []Doc) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n", title)
	if summary != "" {
		fmt.Fprintf(&b, "\n> %s\n", summary)
	}

	for _, doc := range docs {
		fmt.Fprintf(&b, "\n---\n\n# %s\n", doc.Title)
		if doc.URL != "" {
			fmt.Fprintf(&b, "\nSource: %s\n", doc.URL)
		}
		fmt.Fprintf(&b, "\n%s\n", strings.TrimRight(doc.Content, "\n"))
	}
	return b.String()
}

// groupDocs buckets documents by top-level directory. Root documents come
// first under the Docs section; the rest follow alphabetically.
func groupDocs(docs []Doc) (map[string][]Doc, []string) {
	sections := make(map[string][]Doc)
	for _, doc := range docs {
		name := rootSection
		if dir, _, ok := strings.Cut(doc.Path, "/"); ok {
			name = sectionName(dir)
		}
		sections[name] = append(sections[name], doc)
	}

	var order []string
	for name := range sections {
		if name != rootSection {
			order = append(order, name)
		}
	}
	sort.Strings(order)
	if _, ok := sections[rootSection]; ok {
		order = append([]string{rootSection}, order...)
	}
	return sections, order
}

// docTitle prefers frontmatter, then the first H1, then the file name.
func docTitle(page *toolkit.Page, rel string) string {
	if page.Title != "" {
		return page.Title
	}
	for _, section := range toolkit.ExtractSections(page.Content) {
		if section.Level == 1 {
			return section.Title
		}
	}
	base := path.Base(filepath.ToSlash(rel))
	return sectionName(strings.TrimSuffix(base, ".md"))
}

// firstParagraph returns the first line of regular prose in the document.
func firstParagraph(content string) string {
	inFence := false
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "```") {
			inFence = !inFence
			continue
		}
		if inFence || line == "" {
			continue
		}
		switch line[0] {
		case '#', '>', '-', '*', '|', '!':
			continue
		}
		return line
	}
	return ""
}

// sectionName turns a directory or file name into a readable heading.
func sectionName(name string) string {
	name = strings.NewReplacer("-", " ", "_", " ").Replace(name)
	runes := []rune(name)
	if len(runes) > 0 {
		runes[0] = unicode.ToUpper(runes[0])
	}
	return string(runes)
}
