package imgconv

import (
	"image"
	"image/color"
	"testing"
)

// grid returns a w x h image whose pixel (x, y) has R=x and G=y.
func grid(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x), G: uint8(y), A: 255})
		}
	}
	return img
}

func TestRotate90(t *testing.T) {
	src := grid(3, 2)
	tests := []struct {
		name      string
		clockwise bool
		// where maps a source pixel to its destination.
		where func(x, y int) (int, int)
	}{
		{"clockwise", true, func(x, y int) (int, int) { return 1 - y, x }},
		{"counter-clockwise", false, func(x, y int) (int, int) { return y, 2 - x }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dst := Rotate90(src, tt.clockwise)
			if got := dst.Rect; got != image.Rect(0, 0, 2, 3) {
				t.Fatalf("Rotate90 bounds = %v, want 2x3", got)
			}
			for y := range 2 {
				for x := range 3 {
					dx, dy := tt.where(x, y)
					if got, want := dst.NRGBAAt(dx, dy), src.NRGBAAt(x, y); got != want {
						t.Errorf("dst(%d,%d) = %v, want src(%d,%d) = %v", dx, dy, got, x, y, want)
					}
				}
			}
		})
	}
}

func TestRotate90FullTurn(t *testing.T) {
	src := grid(5, 4)
	got := src
	for range 4 {
		got = Rotate90(got, true)
	}
	if string(got.Pix) != string(src.Pix) {
		t.Error("four clockwise turns did not restore the image")
	}
	back := Rotate90(Rotate90(src, true), false)
	if string(back.Pix) != string(src.Pix) {
		t.Error("clockwise then counter-clockwise did not restore the image")
	}
}

func TestToNRGBA(t *testing.T) {
	src := grid(4, 4)
	if ToNRGBA(src) != src {
		t.Error("ToNRGBA copied an image already at the origin")
	}

	sub := src.SubImage(image.Rect(1, 1, 3, 3))
	got := ToNRGBA(sub)
	if got.Rect != image.Rect(0, 0, 2, 2) {
		t.Fatalf("ToNRGBA(sub) bounds = %v, want origin 2x2", got.Rect)
	}
	if c := got.NRGBAAt(0, 0); c.R != 1 || c.G != 1 {
		t.Errorf("ToNRGBA(sub)(0,0) = %v, want src(1,1)", c)
	}

	rgba := image.NewRGBA(image.Rect(0, 0, 1, 1))
	rgba.SetRGBA(0, 0, color.RGBA{R: 128, A: 128})
	if c := ToNRGBA(rgba).NRGBAAt(0, 0); c.R != 255 || c.A != 128 {
		t.Errorf("ToNRGBA(premultiplied) = %v, want straight alpha", c)
	}
}

func TestBufRoundTrip(t *testing.T) {
	if FromBuf(nil) != nil || ToBuf(nil) != nil {
		t.Error("nil inputs must map to nil")
	}
	src := grid(3, 3)
	got := FromBuf(ToBuf(src))
	if string(got.Pix) != string(src.Pix) {
		t.Error("FromBuf(ToBuf(img)) changed the pixels")
	}
}
