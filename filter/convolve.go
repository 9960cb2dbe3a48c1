package filter

import (
	"image"
	"math"
)

// MaxBlurRadius bounds the box blur radius.
const MaxBlurRadius = 64

// BoxKernel generates a 1D box (uniform) kernel for the given radius.
// All values are equal: 1/(2*radius+1).
//
// Applied along both axes it is the (2r+1)x(2r+1) uniform kernel.
func BoxKernel(radius int) []float64 {
	if radius <= 0 {
		return []float64{1}
	}
	size := radius*2 + 1
	kernel := make([]float64, size)
	val := 1 / float64(size)
	for i := range kernel {
		kernel[i] = val
	}
	return kernel
}

// SharpenKernel returns the 3x3 sharpen kernel for strength v in row-major
// order.
func SharpenKernel(v float64) [9]float64 {
	return [9]float64{
		0, -v, 0,
		-v, 1 + 4*v, -v,
		0, -v, 0,
	}
}

// clampIndex clamps v into [0, n).
func clampIndex(v, n int) int {
	if v < 0 {
		return 0
	}
	if v >= n {
		return n - 1
	}
	return v
}

// convolve3 applies a 3x3 kernel to the colour channels with edge clamping.
func convolve3(src *image.NRGBA, k [9]float64) *image.NRGBA {
	w, h := src.Rect.Dx(), src.Rect.Dy()
	dst := image.NewNRGBA(src.Rect)
	for y := range h {
		for x := range w {
			var acc [3]float64
			for ky := -1; ky <= 1; ky++ {
				sy := clampIndex(y+ky, h)
				for kx := -1; kx <= 1; kx++ {
					kv := k[(ky+1)*3+kx+1]
					if kv == 0 {
						continue
					}
					sx := clampIndex(x+kx, w)
					i := sy*src.Stride + sx*4
					acc[0] += float64(src.Pix[i]) * kv
					acc[1] += float64(src.Pix[i+1]) * kv
					acc[2] += float64(src.Pix[i+2]) * kv
				}
			}
			si := y*src.Stride + x*4
			di := y*dst.Stride + x*4
			dst.Pix[di] = clampByte(acc[0])
			dst.Pix[di+1] = clampByte(acc[1])
			dst.Pix[di+2] = clampByte(acc[2])
			dst.Pix[di+3] = src.Pix[si+3]
		}
	}
	return dst
}

// boxBlur runs the separable box kernel horizontally then vertically. Rows
// are kept in float between passes so the result matches a single 2D pass.
func boxBlur(src *image.NRGBA, radius int) *image.NRGBA {
	w, h := src.Rect.Dx(), src.Rect.Dy()
	kernel := BoxKernel(radius)
	tmp := make([]float64, w*h*3)

	for y := range h {
		for x := range w {
			var acc [3]float64
			for k, kv := range kernel {
				sx := clampIndex(x+k-radius, w)
				i := y*src.Stride + sx*4
				acc[0] += float64(src.Pix[i]) * kv
				acc[1] += float64(src.Pix[i+1]) * kv
				acc[2] += float64(src.Pix[i+2]) * kv
			}
			t := (y*w + x) * 3
			tmp[t], tmp[t+1], tmp[t+2] = acc[0], acc[1], acc[2]
		}
	}

	dst := image.NewNRGBA(src.Rect)
	for y := range h {
		for x := range w {
			var acc [3]float64
			for k, kv := range kernel {
				t := (clampIndex(y+k-radius, h)*w + x) * 3
				acc[0] += tmp[t] * kv
				acc[1] += tmp[t+1] * kv
				acc[2] += tmp[t+2] * kv
			}
			si := y*src.Stride + x*4
			di := y*dst.Stride + x*4
			dst.Pix[di] = clampByte(acc[0])
			dst.Pix[di+1] = clampByte(acc[1])
			dst.Pix[di+2] = clampByte(acc[2])
			dst.Pix[di+3] = src.Pix[si+3]
		}
	}
	return dst
}

func sharpen(src *image.NRGBA, v float64) *image.NRGBA {
	return convolve3(src, SharpenKernel(v))
}

// blur treats v as the box radius in pixels. Any positive value blurs by at
// least one pixel.
func blur(src *image.NRGBA, v float64) *image.NRGBA {
	r := int(math.Round(math.Abs(v)))
	r = min(max(r, 1), MaxBlurRadius)
	return boxBlur(src, r)
}
