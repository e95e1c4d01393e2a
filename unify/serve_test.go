package unify_test

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fwdslsh/toolkit/unify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServer_Handler(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "index.html", "<html><body>home</body></html>")
	writeFile(t, dir, "css/site.css", "body { margin: 0 }")

	var logged strings.Builder
	logger := slog.New(slog.NewTextHandler(&logged, nil))
	srv := httptest.NewServer((&unify.Server{Dir: dir, Logger: logger}).Handler())
	defer srv.Close()

	t.Run("serves index", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/")
		require.NoError(t, err)
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, string(body), "home")
		assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	})

	t.Run("serves css with content type", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/css/site.css")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, resp.Header.Get("Content-Type"), "text/css")
	})

	t.Run("missing file is 404", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/nope.html")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("requests are logged", func(t *testing.T) {
		assert.Contains(t, logged.String(), "/css/site.css")
	})
}
