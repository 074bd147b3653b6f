package page

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"

	"github.com/viant/sourcepick/dom"
	"github.com/viant/sourcepick/picker"
)

// ErrEmptyBox is returned when an element has no area to capture
var ErrEmptyBox = errors.New("element has no size")

// BoxRasterizer renders an element bounding box as a PNG data URL
type BoxRasterizer struct {
	Fill    color.RGBA
	Outline color.RGBA
}

// NewBoxRasterizer creates a rasterizer using the picker highlight palette
func NewBoxRasterizer() *BoxRasterizer {
	return &BoxRasterizer{
		Fill:    color.RGBA{R: 0xf4, G: 0xf5, B: 0xfe, A: 0xff},
		Outline: color.RGBA{R: 0x4d, G: 0x5f, B: 0xef, A: 0xff},
	}
}

// Rasterize captures element box scaled by pixel ratio
func (r *BoxRasterizer) Rasterize(ctx context.Context, el dom.Element, options picker.RasterOptions) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	ratio := options.PixelRatio
	if ratio <= 0 {
		ratio = 1
	}
	box := el.Bounds()
	width := int(math.Round(box.Width * ratio))
	height := int(math.Round(box.Height * ratio))
	if width <= 0 || height <= 0 {
		return "", ErrEmptyBox
	}
	canvas := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(canvas, canvas.Bounds(), &image.Uniform{C: r.Outline}, image.Point{}, draw.Src)
	if width > 4 && height > 4 {
		draw.Draw(canvas, image.Rect(2, 2, width-2, height-2), &image.Uniform{C: r.Fill}, image.Point{}, draw.Src)
	}
	buffer := &bytes.Buffer{}
	if err := png.Encode(buffer, canvas); err != nil {
		return "", fmt.Errorf("failed to encode screenshot: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buffer.Bytes()), nil
}
