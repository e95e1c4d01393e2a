package slog_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/fwdslsh/toolkit"
	"github.com/fwdslsh/toolkit/mock"
	toolkitslog "github.com/fwdslsh/toolkit/slog"
	"github.com/stretchr/testify/assert"
)

func TestLoggingRegistry_GetForHTML(t *testing.T) {
	t.Parallel()

	t.Run("logs detected framework", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		selector := &mock.LinkSelector{}
		registry := toolkitslog.NewLoggingRegistry(
			&mock.LinkSelectorRegistry{
				GetForHTMLFn: func(html string) toolkit.LinkSelector { return selector },
			},
			&mock.Prober{
				DetectFn: func(html string) toolkit.Framework { return toolkit.FrameworkDocusaurus },
			},
			logger,
		)

		got := registry.GetForHTML("<html></html>")

		assert.Same(t, selector, got)
		assert.Contains(t, buf.String(), "framework=docusaurus")
	})

	t.Run("unknown framework is labeled", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		registry := toolkitslog.NewLoggingRegistry(
			&mock.LinkSelectorRegistry{
				GetForHTMLFn: func(html string) toolkit.LinkSelector { return &mock.LinkSelector{} },
			},
			&mock.Prober{
				DetectFn: func(html string) toolkit.Framework { return toolkit.FrameworkUnknown },
			},
			logger,
		)

		registry.GetForHTML("<html></html>")

		assert.Contains(t, buf.String(), "(unknown)")
	})
}

func TestNewLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := toolkitslog.NewLogger(&buf, false)

	logger.Debug("hidden")
	logger.Info("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")

	buf.Reset()
	toolkitslog.NewLogger(&buf, true).Debug("now visible")
	assert.Contains(t, buf.String(), "now visible")
}
