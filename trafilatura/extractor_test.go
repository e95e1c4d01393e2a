package trafilatura_test

import (
	"testing"

	"github.com/fwdslsh/toolkit"
	"github.com/fwdslsh/toolkit/trafilatura"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePage = `<!DOCTYPE html>
<html>
<head><title>Installation Guide</title></head>
<body>
<nav><a href="/">Home</a><a href="/docs">Docs</a></nav>
<main>
<article>
<h1>Installation</h1>
<p>Install the toolkit by downloading the latest release from the releases page.
The binary is self-contained and requires no runtime dependencies. After
downloading, place it somewhere on your PATH and verify the installation by
running the version command.</p>
<p>On macOS and Linux you can also use the install script, which detects your
platform and downloads the right binary automatically. The script verifies the
checksum before installing anything.</p>
</article>
</main>
<footer>Copyright 2026</footer>
</body>
</html>`

func TestExtractor_Extract(t *testing.T) {
	t.Parallel()

	e := trafilatura.NewExtractor()

	result, err := e.Extract(samplePage)

	require.NoError(t, err)
	assert.Equal(t, "Installation Guide", result.Title)
	assert.Contains(t, result.ContentHTML, "downloading the latest release")
	assert.NotContains(t, result.ContentHTML, "Copyright 2026")
}

func TestExtractor_Extract_EmptyInput(t *testing.T) {
	t.Parallel()

	e := trafilatura.NewExtractor()

	_, err := e.Extract("")

	require.Error(t, err)
	assert.Equal(t, toolkit.EINVALID, toolkit.ErrorCode(err))
}
