package picker

import (
	"context"
	"log/slog"
)

// Option configures a Picker
type Option func(p *Picker)

// WithLogger sets logger used for delivery failures
func WithLogger(logger *slog.Logger) Option {
	return func(p *Picker) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithRasterizer enables screenshots of selected elements
func WithRasterizer(rasterizer Rasterizer) Option {
	return func(p *Picker) {
		p.rasterizer = rasterizer
	}
}

// WithRasterOptions overrides capture options
func WithRasterOptions(options RasterOptions) Option {
	return func(p *Picker) {
		p.rasterOptions = options
	}
}

// WithContext sets context used by rasterization
func WithContext(ctx context.Context) Option {
	return func(p *Picker) {
		if ctx != nil {
			p.ctx = ctx
		}
	}
}
