package output

import (
	"image"
	"image/color"

	"github.com/nfnt/resize"

	"lxcore/internal/lxcolor"
)

// Thumbnail downsamples a color buffer, treated as a single row of
// pixels, to a width x height preview image for display in a control
// surface (spec.md SPEC_FULL domain stack — optional Fyne preview
// widget). It uses nfnt/resize rather than a hand-rolled box filter.
func Thumbnail(colors lxcolor.Buffer, width, height uint) image.Image {
	src := image.NewRGBA(image.Rect(0, 0, len(colors), 1))
	for i, c := range colors {
		_, r, g, b := c.Components()
		src.Set(i, 0, color.RGBA{R: r, G: g, B: b, A: 255})
	}
	return resize.Resize(width, height, src, resize.Lanczos3)
}
