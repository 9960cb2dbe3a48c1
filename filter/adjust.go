package filter

import (
	"image"
	"math"
)

// Colour adjustments. Each operates per pixel on R, G and B.

func brightness(src *image.NRGBA, v float64) *image.NRGBA {
	delta := v * 255
	return mapRGB(src, func(r, g, b float64) (float64, float64, float64) {
		return r + delta, g + delta, b + delta
	})
}

func contrast(src *image.NRGBA, v float64) *image.NRGBA {
	c := v * 255
	f := 259 * (c + 255) / (255 * (259 - c))
	return mapRGB(src, func(r, g, b float64) (float64, float64, float64) {
		return f*(r-128) + 128, f*(g-128) + 128, f*(b-128) + 128
	})
}

func saturation(src *image.NRGBA, v float64) *image.NRGBA {
	k := v + 1
	return mapRGB(src, func(r, g, b float64) (float64, float64, float64) {
		lum := luminance(r, g, b)
		return lum + k*(r-lum), lum + k*(g-lum), lum + k*(b-lum)
	})
}

// hue rotates colours around the grey axis by v full turns.
func hue(src *image.NRGBA, v float64) *image.NRGBA {
	sin, cos := math.Sincos(v * 2 * math.Pi)
	m := [9]float64{
		0.213 + cos*0.787 - sin*0.213,
		0.715 - cos*0.715 - sin*0.715,
		0.072 - cos*0.072 + sin*0.928,

		0.213 - cos*0.213 + sin*0.143,
		0.715 + cos*0.285 + sin*0.140,
		0.072 - cos*0.072 - sin*0.283,

		0.213 - cos*0.213 - sin*0.787,
		0.715 - cos*0.715 + sin*0.715,
		0.072 + cos*0.928 + sin*0.072,
	}
	return mapRGB(src, func(r, g, b float64) (float64, float64, float64) {
		return m[0]*r + m[1]*g + m[2]*b,
			m[3]*r + m[4]*g + m[5]*b,
			m[6]*r + m[7]*g + m[8]*b
	})
}

func exposure(src *image.NRGBA, v float64) *image.NRGBA {
	f := math.Exp2(v)
	return mapRGB(src, func(r, g, b float64) (float64, float64, float64) {
		return r * f, g * f, b * f
	})
}

func temperature(src *image.NRGBA, v float64) *image.NRGBA {
	d := v * 30
	return mapRGB(src, func(r, g, b float64) (float64, float64, float64) {
		return r + d, g, b - d
	})
}

func tint(src *image.NRGBA, v float64) *image.NRGBA {
	d := v * 30
	return mapRGB(src, func(r, g, b float64) (float64, float64, float64) {
		return r, g + d, b
	})
}

// vibrance boosts muted colours more than saturated ones by pulling each
// channel towards the pixel's strongest channel.
func vibrance(src *image.NRGBA, v float64) *image.NRGBA {
	return mapRGB(src, func(r, g, b float64) (float64, float64, float64) {
		mx := max(r, g, b)
		mean := (r + g + b) / 3
		w := math.Abs(mx-mean) * 2 / 255 * v * 2
		return r + (mx-r)*w, g + (mx-g)*w, b + (mx-b)*w
	})
}

func mix(c, target, t float64) float64 {
	return c + (target-c)*t
}

func grayscale(src *image.NRGBA, v float64) *image.NRGBA {
	return mapRGB(src, func(r, g, b float64) (float64, float64, float64) {
		lum := luminance(r, g, b)
		return mix(r, lum, v), mix(g, lum, v), mix(b, lum, v)
	})
}

func sepia(src *image.NRGBA, v float64) *image.NRGBA {
	return mapRGB(src, func(r, g, b float64) (float64, float64, float64) {
		sr := 0.393*r + 0.769*g + 0.189*b
		sg := 0.349*r + 0.686*g + 0.168*b
		sb := 0.272*r + 0.534*g + 0.131*b
		return mix(r, sr, v), mix(g, sg, v), mix(b, sb, v)
	})
}

func invert(src *image.NRGBA, v float64) *image.NRGBA {
	return mapRGB(src, func(r, g, b float64) (float64, float64, float64) {
		return mix(r, 255-r, v), mix(g, 255-g, v), mix(b, 255-b, v)
	})
}
