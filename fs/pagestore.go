// Package fs provides file-based storage for crawled documentation pages.
// Pages are written as Markdown files with YAML frontmatter, mirroring the
// URL structure of the source site.
package fs

import (
	"context"
	"fmt"
	iofs "io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fwdslsh/toolkit"
	"gopkg.in/yaml.v3"
)

// URLToPath converts a page URL to a relative Markdown file path.
// Example: https://example.com/docs/api/users → docs/api/users.md
func URLToPath(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}

	path := u.Path

	if path == "" || path == "/" {
		return "index.md", nil
	}

	path = strings.TrimPrefix(path, "/")

	// A trailing slash becomes index.md in that directory.
	if strings.HasSuffix(path, "/") {
		return path + "index.md", nil
	}

	return path + ".md", nil
}

// frontmatter is the YAML header written ahead of each page's content.
type frontmatter struct {
	Source  string `yaml:"source"`
	Title   string `yaml:"title"`
	Crawled string `yaml:"crawled"`
}

// FormatPage renders a page as Markdown with YAML frontmatter.
func FormatPage(page *toolkit.Page) string {
	meta, err := yaml.Marshal(frontmatter{
		Source:  page.URL,
		Title:   page.Title,
		Crawled: time.Now().Format("2006-01-02"),
	})
	if err != nil {
		// Marshaling a flat string struct cannot fail at runtime.
		panic(err)
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.Write(meta)
	b.WriteString("---\n\n")
	b.WriteString(page.Content)
	return b.String()
}

// ParsePage parses a Markdown file produced by FormatPage back into a page.
// Files without frontmatter yield a page with only Content set.
func ParsePage(data []byte) (*toolkit.Page, error) {
	content := string(data)

	rest, ok := strings.CutPrefix(content, "---\n")
	if !ok {
		return &toolkit.Page{Content: content}, nil
	}
	meta, body, ok := strings.Cut(rest, "\n---\n")
	if !ok {
		return &toolkit.Page{Content: content}, nil
	}

	var fm frontmatter
	if err := yaml.Unmarshal([]byte(meta), &fm); err != nil {
		return nil, fmt.Errorf("parsing frontmatter: %w", err)
	}

	return &toolkit.Page{
		URL:     fm.Source,
		Title:   fm.Title,
		Content: strings.TrimPrefix(body, "\n"),
	}, nil
}

// Ensure FileStore implements toolkit.PageStore at compile time.
var _ toolkit.PageStore = (*FileStore)(nil)

// FileStore implements toolkit.PageStore with atomic update semantics.
// Pages are saved to a temporary sibling directory and merged into the
// output directory on Commit, so pages skipped during an incremental
// recrawl keep their existing files. A failed or aborted crawl leaves
// the previous output untouched.
type FileStore struct {
	baseDir string
	name    string
}

// NewFileStore creates a FileStore writing to baseDir/name.
// Files accumulate in baseDir/name.tmp until Commit.
func NewFileStore(baseDir, name string) *FileStore {
	return &FileStore{
		baseDir: baseDir,
		name:    name,
	}
}

func (s *FileStore) tempDir() string {
	return filepath.Join(s.baseDir, s.name+".tmp")
}

func (s *FileStore) finalDir() string {
	return filepath.Join(s.baseDir, s.name)
}

// Dir returns the final output directory.
func (s *FileStore) Dir() string {
	return s.finalDir()
}

// Save writes a page to the temporary directory.
func (s *FileStore) Save(ctx context.Context, page *toolkit.Page) error {
	if err := page.Validate(); err != nil {
		return err
	}

	relPath, err := URLToPath(page.URL)
	if err != nil {
		return err
	}

	fullPath := filepath.Join(s.tempDir(), relPath)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return err
	}

	return os.WriteFile(fullPath, []byte(FormatPage(page)), 0644)
}

// Commit merges the saved pages into the output directory, overwriting
// files for recrawled URLs and keeping files that were skipped as
// unchanged. Each file lands via rename, so readers never see partial
// content.
func (s *FileStore) Commit() error {
	temp := s.tempDir()
	if _, err := os.Stat(temp); os.IsNotExist(err) {
		return nil
	}

	err := filepath.WalkDir(temp, func(p string, d iofs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, err := filepath.Rel(temp, p)
		if err != nil {
			return err
		}
		target := filepath.Join(s.finalDir(), rel)
		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return err
		}
		return os.Rename(p, target)
	})
	if err != nil {
		return err
	}

	return os.RemoveAll(temp)
}

// Abort discards the temporary directory, leaving prior output intact.
func (s *FileStore) Abort() error {
	return os.RemoveAll(s.tempDir())
}
