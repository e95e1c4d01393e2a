package slog

import (
	"log/slog"
	"time"

	"github.com/fwdslsh/toolkit"
)

// Ensure LoggingRegistry implements toolkit.LinkSelectorRegistry.
var _ toolkit.LinkSelectorRegistry = (*LoggingRegistry)(nil)

// LoggingRegistry wraps a LinkSelectorRegistry with framework detection
// logging.
type LoggingRegistry struct {
	next     toolkit.LinkSelectorRegistry
	detector toolkit.FrameworkDetector
	logger   *slog.Logger
}

// NewLoggingRegistry creates a new LoggingRegistry.
func NewLoggingRegistry(next toolkit.LinkSelectorRegistry, detector toolkit.FrameworkDetector, logger *slog.Logger) *LoggingRegistry {
	return &LoggingRegistry{next: next, detector: detector, logger: logger}
}

// Get delegates to the wrapped registry.
func (r *LoggingRegistry) Get(framework toolkit.Framework) toolkit.LinkSelector {
	return r.next.Get(framework)
}

// GetForHTML detects the framework, logs it, and returns the selector.
func (r *LoggingRegistry) GetForHTML(html string) toolkit.LinkSelector {
	begin := time.Now()
	framework := r.detector.Detect(html)
	name := string(framework)
	if framework == toolkit.FrameworkUnknown {
		name = "(unknown)"
	}
	r.logger.Info("framework detection",
		"framework", name,
		"duration", time.Since(begin),
	)
	return r.next.GetForHTML(html)
}

// Register delegates to the wrapped registry.
func (r *LoggingRegistry) Register(framework toolkit.Framework, selector toolkit.LinkSelector) {
	r.next.Register(framework, selector)
}

// List delegates to the wrapped registry.
func (r *LoggingRegistry) List() []toolkit.Framework {
	return r.next.List()
}
