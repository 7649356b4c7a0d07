// Package raster captures rendered slide surfaces as bitmaps
package raster

import (
	"context"
	"errors"

	"github.com/aouyang1/vitrine/render"
)

// ErrRenderTargetUnavailable is returned when a surface is missing or was
// detached before it could be captured.
var ErrRenderTargetUnavailable = errors.New("render target unavailable")

const (
	FormatPNG  = "png"
	FormatJPEG = "jpeg"
)

type Options struct {
	// Quality in [0, 1]. Only lossy formats use it.
	Quality float64
	// PixelDensity multiplies the surface size, 2 doubles both dimensions.
	PixelDensity float64
	Format       string
}

func DefaultOptions() Options {
	return Options{Quality: 1, PixelDensity: 2, Format: FormatPNG}
}

// Normalize clamps options into their valid ranges.
func (o Options) Normalize() Options {
	if o.Quality <= 0 || o.Quality > 1 {
		o.Quality = 1
	}
	if o.PixelDensity <= 0 {
		o.PixelDensity = 1
	}
	if o.PixelDensity > 4 {
		o.PixelDensity = 4
	}
	if o.Format != FormatJPEG {
		o.Format = FormatPNG
	}
	return o
}

type Rasterizer interface {
	Rasterize(ctx context.Context, surface *render.Surface, opts Options) ([]byte, error)
}

// Func adapts a plain function to the Rasterizer interface.
type Func func(ctx context.Context, surface *render.Surface, opts Options) ([]byte, error)

func (f Func) Rasterize(ctx context.Context, surface *render.Surface, opts Options) ([]byte, error) {
	return f(ctx, surface, opts)
}

// Attached reports whether a surface can be captured at all.
func Attached(surface *render.Surface) bool {
	return surface != nil && surface.HTML != "" && surface.Width > 0 && surface.Height > 0
}
