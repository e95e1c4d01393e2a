package main_test

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fwdslsh/toolkit"
	main "github.com/fwdslsh/toolkit/cmd/inform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// articleHTML renders a page with enough body text for content extraction
// to find a main article.
func articleHTML(title string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><title>%[1]s</title></head>
<body>
<main>
<article>
<h1>%[1]s</h1>
<p>This page documents %[1]s in detail. It covers installation, basic
configuration, and the most common pitfalls new users run into.</p>
<p>Every example below is self-contained and can be pasted into a fresh
project. Where behavior differs between versions the differences are
called out explicitly.</p>
<p>See the other guides in this section for more advanced topics such as
deployment, monitoring, and performance tuning.</p>
</article>
</main>
</body>
</html>`, title)
}

// docsServer serves a two-page documentation site with a sitemap. The
// returned counter tracks how many requests the server received.
func docsServer(t *testing.T) (*httptest.Server, *atomic.Int64) {
	t.Helper()

	var requests atomic.Int64
	mux := http.NewServeMux()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)

	mux.HandleFunc("/sitemap.xml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		fmt.Fprintf(w, `<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
<url><loc>%[1]s/docs/intro</loc></url>
<url><loc>%[1]s/docs/setup</loc></url>
</urlset>`, srv.URL)
	})
	mux.HandleFunc("/docs/intro", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, articleHTML("Introduction"))
	})
	mux.HandleFunc("/docs/setup", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, articleHTML("Setup"))
	})

	return srv, &requests
}

// newTestMain returns a Main whose browser fetcher is unavailable, forcing
// the HTTP fetch path.
func newTestMain(t *testing.T) *main.Main {
	t.Helper()

	m := main.NewMain()
	m.NewBrowserFetcher = func(timeout time.Duration) (toolkit.Fetcher, error) {
		return nil, toolkit.Errorf(toolkit.EUNAVAILABLE, "no browser in tests")
	}
	t.Cleanup(func() { _ = m.Close() })
	return m
}

// crawlArgs builds the standard argument list for a test crawl.
func crawlArgs(url string, dir string, extra ...string) []string {
	args := []string{
		url,
		"--output-dir", filepath.Join(dir, "output"),
		"--cache", filepath.Join(dir, "cache.db"),
		"--config", filepath.Join(dir, "missing.yaml"),
		"--delay", "0s",
	}
	return append(args, extra...)
}

func TestMain_Run(t *testing.T) {
	t.Parallel()

	t.Run("crawls a site into Markdown files", func(t *testing.T) {
		t.Parallel()

		srv, _ := docsServer(t)
		dir := t.TempDir()

		m := newTestMain(t)
		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		err := m.Run(context.Background(), crawlArgs(srv.URL+"/docs", dir), stdout, stderr)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "Saved 2 pages")

		data, err := os.ReadFile(filepath.Join(dir, "output", "docs", "intro.md"))
		require.NoError(t, err)
		assert.Contains(t, string(data), "Introduction")
		assert.Contains(t, string(data), "source: "+srv.URL+"/docs/intro")

		_, err = os.Stat(filepath.Join(dir, "output", "docs", "setup.md"))
		assert.NoError(t, err)
	})

	t.Run("second crawl skips unchanged pages", func(t *testing.T) {
		t.Parallel()

		srv, _ := docsServer(t)
		dir := t.TempDir()
		args := crawlArgs(srv.URL+"/docs", dir)

		m := newTestMain(t)
		require.NoError(t, m.Run(context.Background(), args, &bytes.Buffer{}, &bytes.Buffer{}))
		require.NoError(t, m.Close())

		second := newTestMain(t)
		stdout := &bytes.Buffer{}
		err := second.Run(context.Background(), args, stdout, &bytes.Buffer{})

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "Saved 0 pages")
		assert.Contains(t, stdout.String(), "Skipped 2 unchanged pages")

		// Output from the first crawl survives the incremental recrawl.
		_, err = os.Stat(filepath.Join(dir, "output", "docs", "intro.md"))
		assert.NoError(t, err)
	})

	t.Run("refresh rewrites unchanged pages", func(t *testing.T) {
		t.Parallel()

		srv, _ := docsServer(t)
		dir := t.TempDir()

		m := newTestMain(t)
		require.NoError(t, m.Run(context.Background(), crawlArgs(srv.URL+"/docs", dir), &bytes.Buffer{}, &bytes.Buffer{}))
		require.NoError(t, m.Close())

		second := newTestMain(t)
		stdout := &bytes.Buffer{}
		err := second.Run(context.Background(), crawlArgs(srv.URL+"/docs", dir, "--refresh"), stdout, &bytes.Buffer{})

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "Saved 2 pages")
	})

	t.Run("dry run lists URLs without writing output", func(t *testing.T) {
		t.Parallel()

		srv, _ := docsServer(t)
		dir := t.TempDir()

		m := newTestMain(t)
		stdout := &bytes.Buffer{}

		err := m.Run(context.Background(), crawlArgs(srv.URL+"/docs", dir, "--dry-run"), stdout, &bytes.Buffer{})

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), srv.URL+"/docs/intro")
		assert.Contains(t, stdout.String(), "2 URLs discovered")
		_, statErr := os.Stat(filepath.Join(dir, "output"))
		assert.True(t, os.IsNotExist(statErr))
	})

	t.Run("llms flag generates llms.txt alongside the pages", func(t *testing.T) {
		t.Parallel()

		srv, _ := docsServer(t)
		dir := t.TempDir()

		m := newTestMain(t)
		stdout := &bytes.Buffer{}

		err := m.Run(context.Background(), crawlArgs(srv.URL+"/docs", dir, "--llms"), stdout, &bytes.Buffer{})

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "llms.txt")

		index, err := os.ReadFile(filepath.Join(dir, "output", "llms.txt"))
		require.NoError(t, err)
		assert.Contains(t, string(index), "Introduction")
	})

	t.Run("include filter limits the crawl", func(t *testing.T) {
		t.Parallel()

		srv, _ := docsServer(t)
		dir := t.TempDir()

		m := newTestMain(t)
		stdout := &bytes.Buffer{}

		err := m.Run(context.Background(), crawlArgs(srv.URL+"/docs", dir, "--include", "intro"), stdout, &bytes.Buffer{})

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "Saved 1 pages")
		_, statErr := os.Stat(filepath.Join(dir, "output", "docs", "setup.md"))
		assert.True(t, os.IsNotExist(statErr))
	})

	t.Run("invalid include pattern fails before any network traffic", func(t *testing.T) {
		t.Parallel()

		srv, requests := docsServer(t)
		dir := t.TempDir()

		m := newTestMain(t)
		stderr := &bytes.Buffer{}

		err := m.Run(context.Background(), crawlArgs(srv.URL+"/docs", dir, "--include", "[invalid"), &bytes.Buffer{}, stderr)

		require.Error(t, err)
		assert.Equal(t, toolkit.EINVALID, toolkit.ErrorCode(err))
		assert.Contains(t, stderr.String(), "[invalid")
		assert.Zero(t, requests.Load(), "no requests should be made for an invalid pattern")
		_, statErr := os.Stat(filepath.Join(dir, "cache.db"))
		assert.True(t, os.IsNotExist(statErr), "cache should not be opened for an invalid pattern")
	})

	t.Run("config file seeds flag defaults", func(t *testing.T) {
		t.Parallel()

		srv, _ := docsServer(t)
		dir := t.TempDir()
		configPath := filepath.Join(dir, "inform.yaml")
		require.NoError(t, os.WriteFile(configPath, []byte(
			"output_dir: "+filepath.Join(dir, "site")+"\ndelay: 0s\n",
		), 0644))

		m := newTestMain(t)
		stdout := &bytes.Buffer{}

		err := m.Run(context.Background(), []string{
			srv.URL + "/docs",
			"--config", configPath,
			"--cache", filepath.Join(dir, "cache.db"),
		}, stdout, &bytes.Buffer{})

		require.NoError(t, err)
		_, statErr := os.Stat(filepath.Join(dir, "site", "docs", "intro.md"))
		assert.NoError(t, statErr)
	})

	t.Run("browser flag fails when no browser is available", func(t *testing.T) {
		t.Parallel()

		srv, _ := docsServer(t)
		dir := t.TempDir()

		m := newTestMain(t)
		stderr := &bytes.Buffer{}

		err := m.Run(context.Background(), crawlArgs(srv.URL+"/docs", dir, "--browser"), &bytes.Buffer{}, stderr)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to start browser")
		assert.Contains(t, stderr.String(), "Chrome or Chromium")
	})
}

func TestMain_Run_Help(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
	}{
		{"--help flag", []string{"--help"}},
		{"-h flag", []string{"-h"}},
		{"help command", []string{"help"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m := newTestMain(t)
			stdout := &bytes.Buffer{}
			stderr := &bytes.Buffer{}

			err := m.Run(context.Background(), tt.args, stdout, stderr)

			require.NoError(t, err)
			assert.Contains(t, stdout.String(), "Usage: inform")
			assert.Empty(t, stderr.String())
		})
	}
}

func TestMain_Run_NoArgs(t *testing.T) {
	t.Parallel()

	m := newTestMain(t)
	stdout := &bytes.Buffer{}

	err := m.Run(context.Background(), []string{}, stdout, &bytes.Buffer{})

	require.Error(t, err)
	assert.Contains(t, stdout.String(), "Usage: inform")
}

func TestMain_Run_UnknownFlag(t *testing.T) {
	t.Parallel()

	m := newTestMain(t)

	err := m.Run(context.Background(), []string{"https://example.com", "--bogus"}, &bytes.Buffer{}, &bytes.Buffer{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "--bogus")
}
