package tagger

import (
	"context"
	"log/slog"
)

// Option configures a Tagger
type Option func(t *Tagger)

// WithLogger sets logger used to report discarded tagging failures
func WithLogger(logger *slog.Logger) Option {
	return func(t *Tagger) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// CompilationOption configures a Compilation
type CompilationOption func(c *Compilation)

// WithEntryPatterns overrides entry-point path patterns
func WithEntryPatterns(patterns ...string) CompilationOption {
	return func(c *Compilation) {
		if len(patterns) > 0 {
			c.patterns = patterns
		}
	}
}

// WithScript overrides runtime script builder
func WithScript(script ScriptFunc) CompilationOption {
	return func(c *Compilation) {
		if script != nil {
			c.script = script
		}
	}
}

// WithCompilationLogger sets compilation logger
func WithCompilationLogger(logger *slog.Logger) CompilationOption {
	return func(c *Compilation) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// ScriptFunc builds the runtime script appended to an entry unit
type ScriptFunc func(ctx context.Context) (string, error)
