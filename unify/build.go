package unify

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/cespare/xxhash/v2"
	"github.com/fwdslsh/toolkit"
	"github.com/google/renameio/v2"
)

const (
	// DefaultOutputDir is where builds land unless configured otherwise.
	DefaultOutputDir = "dist"

	// includesDir holds partials and layouts; it is never copied to output.
	includesDir = "_includes"

	// defaultLayout wraps Markdown pages when the frontmatter names none.
	defaultLayout = "layout.html"

	configFile = "unify.yaml"
)

// Builder renders a source tree into a static output tree.
type Builder struct {
	Source  string
	Output  string
	BaseURL string

	// Include and Exclude are doublestar globs selecting which non-page
	// files are copied as assets. Empty Include copies everything.
	Include []string
	Exclude []string

	// CheckLinks fails the build when internal references are broken.
	CheckLinks bool

	Logger *slog.Logger
}

// Result summarizes a build.
type Result struct {
	Pages     int
	Assets    int
	Unchanged int
	Warnings  []string
}

// Build renders all pages, copies assets, generates sitemap.xml when a
// base URL is configured, and verifies internal links. Output files whose
// content is unchanged are left untouched; stale files are removed.
func (b *Builder) Build(ctx context.Context) (*Result, error) {
	res := &Result{}
	expander := &Expander{
		Root: b.Source,
		Warnf: func(format string, args ...any) {
			warning := fmt.Sprintf(format, args...)
			res.Warnings = append(res.Warnings, warning)
			if b.Logger != nil {
				b.Logger.Warn(warning)
			}
		},
	}

	outputs, err := b.render(ctx, expander, res)
	if err != nil {
		return res, err
	}

	if b.BaseURL != "" {
		sitemap, err := buildSitemap(b.BaseURL, pagePaths(outputs))
		if err != nil {
			return res, err
		}
		outputs["sitemap.xml"] = sitemap
	}

	if b.CheckLinks {
		if broken := CheckLinks(outputs); len(broken) > 0 {
			return res, brokenLinksError(broken)
		}
	}

	if err := b.write(outputs, res); err != nil {
		return res, err
	}

	return res, nil
}

// render walks the source tree and produces the output file set, keyed by
// slash-separated relative path.
func (b *Builder) render(ctx context.Context, expander *Expander, res *Result) (map[string][]byte, error) {
	outputs := make(map[string][]byte)

	absOutput, err := filepath.Abs(b.Output)
	if err != nil {
		return nil, err
	}

	err = filepath.WalkDir(b.Source, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		if d.IsDir() {
			if p == b.Source {
				return nil
			}
			name := d.Name()
			if strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".") {
				return fs.SkipDir
			}
			if abs, err := filepath.Abs(p); err == nil && abs == absOutput {
				return fs.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(b.Source, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if d.Name() == configFile || strings.HasPrefix(d.Name(), ".") {
			return nil
		}

		switch strings.ToLower(filepath.Ext(p)) {
		case ".html", ".htm":
			out, err := expander.ExpandFile(p, map[string]string{})
			if err != nil {
				return err
			}
			outputs[rel] = []byte(out)
			res.Pages++

		case ".md":
			out, err := b.renderMarkdownPage(p, expander)
			if err != nil {
				return err
			}
			outputs[strings.TrimSuffix(rel, ".md")+".html"] = []byte(out)
			res.Pages++

		default:
			if !b.matchAsset(rel) {
				return nil
			}
			data, err := os.ReadFile(p)
			if err != nil {
				return err
			}
			outputs[rel] = data
			res.Assets++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return outputs, nil
}

// renderMarkdownPage converts a Markdown page to HTML and wraps it in its
// layout. Frontmatter values become page variables; the rendered body is
// exposed to the layout as the content variable.
func (b *Builder) renderMarkdownPage(p string, expander *Expander) (string, error) {
	src, err := os.ReadFile(p)
	if err != nil {
		return "", err
	}

	body, vars, err := RenderMarkdown(src)
	if err != nil {
		return "", fmt.Errorf("rendering %s: %w", p, err)
	}
	vars["content"] = body

	layout := vars["layout"]
	if layout == "" {
		layout = defaultLayout
	}
	if filepath.Ext(layout) == "" {
		layout += ".html"
	}

	layoutPath := filepath.Join(b.Source, includesDir, layout)
	if _, err := os.Stat(layoutPath); err != nil {
		// No default layout is fine; a named one must exist.
		if vars["layout"] == "" && os.IsNotExist(err) {
			return expander.Expand(body, p, vars)
		}
		return "", toolkit.Errorf(toolkit.EINVALID, "Layout %q not found for page %s.", layout, p)
	}

	return expander.ExpandFile(layoutPath, vars)
}

// matchAsset reports whether rel is selected by the asset globs.
func (b *Builder) matchAsset(rel string) bool {
	for _, glob := range b.Exclude {
		if ok, _ := doublestar.Match(glob, rel); ok {
			return false
		}
	}
	if len(b.Include) == 0 {
		return true
	}
	for _, glob := range b.Include {
		if ok, _ := doublestar.Match(glob, rel); ok {
			return true
		}
	}
	return false
}

// write syncs outputs into the output directory. Each file is written
// atomically, unchanged files are skipped, and files no longer produced
// are removed.
func (b *Builder) write(outputs map[string][]byte, res *Result) error {
	if err := os.MkdirAll(b.Output, 0755); err != nil {
		return err
	}

	for rel, data := range outputs {
		target := filepath.Join(b.Output, filepath.FromSlash(rel))

		if existing, err := os.ReadFile(target); err == nil && xxhash.Sum64(existing) == xxhash.Sum64(data) {
			res.Unchanged++
			continue
		}

		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return err
		}
		if err := renameio.WriteFile(target, data, 0644); err != nil {
			return err
		}
	}

	return b.prune(outputs)
}

// prune removes files in the output directory that the build no longer
// produces.
func (b *Builder) prune(outputs map[string][]byte) error {
	return filepath.WalkDir(b.Output, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, err := filepath.Rel(b.Output, p)
		if err != nil {
			return err
		}
		if _, ok := outputs[filepath.ToSlash(rel)]; !ok {
			return os.Remove(p)
		}
		return nil
	})
}

// pagePaths returns the sorted HTML page paths of a build.
func pagePaths(outputs map[string][]byte) []string {
	var pages []string
	for rel := range outputs {
		if strings.HasSuffix(rel, ".html") {
			pages = append(pages, rel)
		}
	}
	sort.Strings(pages)
	return pages
}

// brokenLinksError formats a per-page report of broken references.
func brokenLinksError(broken []BrokenLink) error {
	var b strings.Builder
	b.WriteString("Broken internal links:\n")
	for _, link := range broken {
		fmt.Fprintf(&b, "  %s: %s (%s)\n", link.Page, link.Ref, link.Reason)
	}
	return toolkit.Errorf(toolkit.EINVALID, "%s", strings.TrimRight(b.String(), "\n"))
}
