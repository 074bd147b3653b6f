package tagger

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/viant/sourcepick/runtime"
	"github.com/viant/sourcepick/source"
)

// DefaultEntryPatterns match root layout, app root and page entry units
var DefaultEntryPatterns = []string{"layout.tsx", "_app", "page.tsx"}

// Compilation represents the shared context of one build.
// It owns the injection flag: the picker runtime is appended to the first qualifying entry unit only,
// the flag is set once and never reset.
type Compilation struct {
	tagger   *Tagger
	patterns []string
	script   ScriptFunc
	logger   *slog.Logger

	mu       sync.Mutex
	injected bool
	entry    string
}

// NewCompilation creates a compilation context
func NewCompilation(tagger *Tagger, opts ...CompilationOption) *Compilation {
	if tagger == nil {
		tagger = New()
	}
	ret := &Compilation{
		tagger:   tagger,
		patterns: DefaultEntryPatterns,
		logger:   slog.Default(),
		script: func(ctx context.Context) (string, error) {
			return runtime.Build(ctx, runtime.Options{})
		},
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// Transform tags the unit and then runs the injector for it
func (c *Compilation) Transform(ctx context.Context, unit *source.Unit) *Outcome {
	outcome := c.tagger.Tag(ctx, unit)
	c.Inject(ctx, outcome)
	return outcome
}

// Inject appends the runtime script to the tagged unit when it is the first qualifying entry point.
// A script that fails to build leaves the flag unset so a later unit may still receive it.
func (c *Compilation) Inject(ctx context.Context, outcome *Outcome) bool {
	if outcome == nil || outcome.Unit == nil {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.injected {
		return false
	}
	if !outcome.HasMarkup || !IsEntryPoint(outcome.Unit.Path, c.patterns) {
		return false
	}
	script, err := c.script(ctx)
	if err != nil {
		c.logger.Debug("runtime injection skipped", "path", outcome.Unit.Path, "error", err)
		return false
	}
	outcome.Source = appendScript(outcome.Source, script)
	outcome.Injected = true
	c.injected = true
	c.entry = outcome.Unit.Path
	return true
}

// Injected returns true once a unit of this compilation received the runtime
func (c *Compilation) Injected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.injected
}

// Entry returns path of the unit carrying the runtime, if any
func (c *Compilation) Entry() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entry
}

// IsEntryPoint matches path against entry patterns by case-sensitive substring
func IsEntryPoint(path string, patterns []string) bool {
	for _, pattern := range patterns {
		if pattern != "" && strings.Contains(path, pattern) {
			return true
		}
	}
	return false
}

func appendScript(src []byte, script string) []byte {
	result := make([]byte, 0, len(src)+len(script)+2)
	result = append(result, src...)
	if len(result) > 0 && result[len(result)-1] != '\n' {
		result = append(result, '\n')
	}
	result = append(result, script...)
	if !strings.HasSuffix(script, "\n") {
		result = append(result, '\n')
	}
	return result
}
