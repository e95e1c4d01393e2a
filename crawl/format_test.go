package crawl_test

import (
	"testing"

	"github.com/fwdslsh/toolkit/crawl"
	"github.com/stretchr/testify/assert"
)

func TestComputeHash(t *testing.T) {
	t.Parallel()

	a := crawl.ComputeHash("hello")
	b := crawl.ComputeHash("hello")
	c := crawl.ComputeHash("world")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.NotEmpty(t, a)
}

func TestTruncateURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		url    string
		maxLen int
		want   string
	}{
		{"short url unchanged", "https://a.com/x", 40, "https://a.com/x"},
		{"long url keeps tail", "https://example.com/docs/getting-started/install", 20, "...g-started/install"},
		{"zero max", "https://a.com", 0, ""},
		{"tiny max", "https://a.com", 2, "ht"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := crawl.TruncateURL(tt.url, tt.maxLen)

			assert.LessOrEqual(t, len(got), tt.maxLen)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatBytes(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "512 B", crawl.FormatBytes(512))
	assert.Equal(t, "2.0 KB", crawl.FormatBytes(2048))
	assert.Equal(t, "1.5 MB", crawl.FormatBytes(1572864))
}

func TestFormatTokens(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "~250 tokens", crawl.FormatTokens(250))
	assert.Equal(t, "~2k tokens", crawl.FormatTokens(1500))
	assert.Equal(t, "~1k tokens", crawl.FormatTokens(1000))
}
