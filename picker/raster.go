package picker

import (
	"context"
	"fmt"
	"sync"

	"github.com/viant/sourcepick/dom"
	"golang.org/x/sync/singleflight"
)

// RasterOptions controls image capture
type RasterOptions struct {
	CacheBust  bool
	PixelRatio float64
}

// DefaultRasterOptions mirror the options the browser runtime passes to html-to-image
var DefaultRasterOptions = RasterOptions{CacheBust: true, PixelRatio: 1}

// Rasterizer produces an image encoding (data URL) of an element
type Rasterizer interface {
	Rasterize(ctx context.Context, el dom.Element, options RasterOptions) (string, error)
}

// Loader loads a rasterizer, typically from a remote resource
type Loader func(ctx context.Context) (Rasterizer, error)

// Lazy loads a rasterizer on first use. Concurrent callers share one in-flight load;
// the outcome, failure included, is kept for the lifetime of the Lazy.
type Lazy struct {
	load  Loader
	group singleflight.Group

	mu         sync.Mutex
	loaded     bool
	rasterizer Rasterizer
	err        error
}

// NewLazy creates a lazily loaded rasterizer
func NewLazy(load Loader) *Lazy {
	return &Lazy{load: load}
}

// Rasterize loads the rasterizer if needed and captures el
func (l *Lazy) Rasterize(ctx context.Context, el dom.Element, options RasterOptions) (string, error) {
	rasterizer, err := l.Load(ctx)
	if err != nil {
		return "", err
	}
	return rasterizer.Rasterize(ctx, el, options)
}

// Load returns the loaded rasterizer
func (l *Lazy) Load(ctx context.Context) (Rasterizer, error) {
	if rasterizer, err, ok := l.result(); ok {
		return rasterizer, err
	}
	value, err, _ := l.group.Do("load", func() (interface{}, error) {
		if rasterizer, err, ok := l.result(); ok {
			return rasterizer, err
		}
		rasterizer, err := l.load(ctx)
		if err == nil && rasterizer == nil {
			err = fmt.Errorf("rasterizer did not register")
		}
		l.mu.Lock()
		l.loaded, l.rasterizer, l.err = true, rasterizer, err
		l.mu.Unlock()
		return rasterizer, err
	})
	if err != nil {
		return nil, err
	}
	return value.(Rasterizer), nil
}

func (l *Lazy) result() (Rasterizer, error, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rasterizer, l.err, l.loaded
}
