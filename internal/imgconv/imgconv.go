// Package imgconv converts between the pixel representations used across
// the editor: straight-alpha *image.NRGBA buffers, premultiplied
// *image.RGBA results from image libraries, and *gg.ImageBuf handles.
package imgconv

import (
	"image"

	"github.com/gogpu/gg"
	"golang.org/x/image/draw"
)

// ToNRGBA returns img as a straight-alpha buffer with its origin at (0,0).
// An *image.NRGBA already at the origin is returned as is.
func ToNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) {
		return n
	}
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Rect, img, b.Min, draw.Src)
	return dst
}

// FromBuf returns the pixels of buf as a straight-alpha buffer. The result
// does not share memory with buf.
func FromBuf(buf *gg.ImageBuf) *image.NRGBA {
	if buf == nil {
		return nil
	}
	return ToNRGBA(buf.ToStdImage())
}

// ToBuf wraps img in a drawable handle. Premultiplied inputs are
// converted first so the handle always holds straight alpha.
func ToBuf(img image.Image) *gg.ImageBuf {
	if img == nil {
		return nil
	}
	return gg.ImageBufFromImage(ToNRGBA(img))
}

// Rotate90 turns src a quarter turn. The result is src.Dy() wide and
// src.Dx() tall; every pixel maps to exactly one destination pixel.
func Rotate90(src *image.NRGBA, clockwise bool) *image.NRGBA {
	src = ToNRGBA(src)
	w, h := src.Rect.Dx(), src.Rect.Dy()
	dst := image.NewNRGBA(image.Rect(0, 0, h, w))
	for y := range h {
		row := src.Pix[y*src.Stride : y*src.Stride+w*4]
		for x := range w {
			dx, dy := h-1-y, x
			if !clockwise {
				dx, dy = y, w-1-x
			}
			copy(dst.Pix[dy*dst.Stride+dx*4:dy*dst.Stride+dx*4+4], row[x*4:x*4+4])
		}
	}
	return dst
}
