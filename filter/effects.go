package filter

import (
	"image"
	"math"
	"math/rand/v2"
	"sync"
)

// vignette darkens pixels in proportion to their distance from the centre.
func vignette(src *image.NRGBA, v float64) *image.NRGBA {
	w, h := src.Rect.Dx(), src.Rect.Dy()
	cx, cy := float64(w)/2, float64(h)/2
	maxR := math.Hypot(cx, cy)
	if maxR == 0 {
		return Clone(src)
	}
	return mapPixels(src, func(x, y int, r, g, b float64) (float64, float64, float64) {
		dist := math.Hypot(float64(x)+0.5-cx, float64(y)+0.5-cy)
		d := 1 - (dist/maxR)*v
		return r * d, g * d, b * d
	})
}

// lockedRand serializes access to a rand source shared by noise filters.
type lockedRand struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func newLockedRand(seed uint64) *lockedRand {
	return &lockedRand{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (l *lockedRand) reseed(seed uint64) {
	l.mu.Lock()
	l.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	l.mu.Unlock()
}

// noiseFunc returns a filter adding uniform per-pixel noise of amplitude
// value*255. The same offset is applied to the three channels so the noise
// is colourless.
func noiseFunc(src *lockedRand) Func {
	return func(img *image.NRGBA, v float64) *image.NRGBA {
		src.mu.Lock()
		defer src.mu.Unlock()
		amp := v * 255
		return mapRGB(img, func(r, g, b float64) (float64, float64, float64) {
			n := (src.rng.Float64() - 0.5) * amp
			return r + n, g + n, b + n
		})
	}
}

// grainFunc is noise weighted by local luminance: strongest in midtones and
// fading towards pure black and white, like film grain.
func grainFunc(src *lockedRand) Func {
	return func(img *image.NRGBA, v float64) *image.NRGBA {
		src.mu.Lock()
		defer src.mu.Unlock()
		amp := v * 255
		return mapRGB(img, func(r, g, b float64) (float64, float64, float64) {
			lum := luminance(r, g, b)
			weight := 1 - math.Abs(lum-127.5)/127.5
			n := (src.rng.Float64() - 0.5) * amp * weight
			return r + n, g + n, b + n
		})
	}
}
