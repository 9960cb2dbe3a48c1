// Package filter implements the editor's pixel filters and presets.
//
// Every filter is a pure function over a straight-alpha RGBA buffer
// (*image.NRGBA): it returns a new buffer and never modifies its input.
// Channel results are rounded and clamped to [0, 255]. Alpha is left
// untouched by every built-in filter.
//
// Filters are looked up by Type in a Registry, which also holds the named
// presets. A preset is an ordered filter list; order matters because the
// filters do not commute.
package filter

import (
	"errors"
	"image"
	"math"
)

// Type names a filter.
type Type string

// Built-in filter types.
const (
	Brightness  Type = "brightness"
	Contrast    Type = "contrast"
	Saturation  Type = "saturation"
	Hue         Type = "hue"
	Exposure    Type = "exposure"
	Temperature Type = "temperature"
	Tint        Type = "tint"
	Vibrance    Type = "vibrance"
	Sharpen     Type = "sharpen"
	Blur        Type = "blur"
	Grayscale   Type = "grayscale"
	Sepia       Type = "sepia"
	Invert      Type = "invert"
	Vignette    Type = "vignette"
	Noise       Type = "noise"
	Grain       Type = "grain"
)

// Errors returned by preset loading.
var (
	// ErrUnknownFilter is returned when a preset names a filter type that is
	// not registered.
	ErrUnknownFilter = errors.New("filter: unknown filter type")

	// ErrUnknownPreset is returned when a preset id is not registered.
	ErrUnknownPreset = errors.New("filter: unknown preset")

	// ErrInvalidPreset is returned for presets without an id.
	ErrInvalidPreset = errors.New("filter: invalid preset")
)

// Descriptor is one configured filter application.
type Descriptor struct {
	Type    Type    `json:"type" yaml:"type"`
	Value   float64 `json:"value" yaml:"value"`
	Enabled bool    `json:"enabled" yaml:"enabled"`
}

// D returns an enabled descriptor.
func D(t Type, value float64) Descriptor {
	return Descriptor{Type: t, Value: value, Enabled: true}
}

// IsNoop reports whether applying d can have no effect.
func (d Descriptor) IsNoop() bool {
	return !d.Enabled || d.Value == 0
}

// Func is a filter implementation. It must not modify src.
type Func func(src *image.NRGBA, value float64) *image.NRGBA

// Preset is a named, ordered filter list.
type Preset struct {
	ID       string       `json:"id" yaml:"id"`
	Name     string       `json:"name" yaml:"name"`
	Category string       `json:"category" yaml:"category"`
	Filters  []Descriptor `json:"filters" yaml:"filters"`
}

// clampByte rounds v and clamps it into [0, 255].
func clampByte(v float64) uint8 {
	if v <= 0 || math.IsNaN(v) {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}

// mapRGB returns a copy of src with fn applied to every pixel's colour
// channels. fn receives and returns channel values in [0, 255] space.
func mapRGB(src *image.NRGBA, fn func(r, g, b float64) (float64, float64, float64)) *image.NRGBA {
	dst := image.NewNRGBA(src.Rect)
	w, h := src.Rect.Dx(), src.Rect.Dy()
	for y := range h {
		si := y * src.Stride
		di := y * dst.Stride
		for x := 0; x < w; x++ {
			s := src.Pix[si+x*4 : si+x*4+4 : si+x*4+4]
			d := dst.Pix[di+x*4 : di+x*4+4 : di+x*4+4]
			r, g, b := fn(float64(s[0]), float64(s[1]), float64(s[2]))
			d[0] = clampByte(r)
			d[1] = clampByte(g)
			d[2] = clampByte(b)
			d[3] = s[3]
		}
	}
	return dst
}

// mapPixels is mapRGB with the pixel position made available, used by
// filters that vary across the image.
func mapPixels(src *image.NRGBA, fn func(x, y int, r, g, b float64) (float64, float64, float64)) *image.NRGBA {
	dst := image.NewNRGBA(src.Rect)
	w, h := src.Rect.Dx(), src.Rect.Dy()
	for y := range h {
		si := y * src.Stride
		di := y * dst.Stride
		for x := 0; x < w; x++ {
			s := src.Pix[si+x*4 : si+x*4+4 : si+x*4+4]
			d := dst.Pix[di+x*4 : di+x*4+4 : di+x*4+4]
			r, g, b := fn(x, y, float64(s[0]), float64(s[1]), float64(s[2]))
			d[0] = clampByte(r)
			d[1] = clampByte(g)
			d[2] = clampByte(b)
			d[3] = s[3]
		}
	}
	return dst
}

// Clone returns a copy of img with its own pixel slice.
func Clone(img *image.NRGBA) *image.NRGBA {
	dst := image.NewNRGBA(img.Rect)
	for y := range img.Rect.Dy() {
		copy(dst.Pix[y*dst.Stride:y*dst.Stride+img.Rect.Dx()*4], img.Pix[y*img.Stride:])
	}
	return dst
}

func luminance(r, g, b float64) float64 {
	return 0.2989*r + 0.587*g + 0.114*b
}
