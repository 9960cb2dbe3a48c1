package canvas

import (
	"math"
	"testing"

	"github.com/gogpu/ggedit/geom"
)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestFit(t *testing.T) {
	tests := []struct {
		name      string
		canvas    geom.Size
		container geom.Size
		padding   float64
		wantZoom  float64
		wantPan   geom.Point
	}{
		{"wide image", geom.Sz(2000, 1000), geom.Sz(1200, 800), 40, 0.56, geom.Pt(40, 120)},
		{"small image never upscales", geom.Sz(100, 50), geom.Sz(1200, 800), 40, 1, geom.Pt(550, 375)},
		{"tall image", geom.Sz(500, 2000), geom.Sz(1000, 1000), 0, 0.5, geom.Pt(375, 0)},
		{"no room", geom.Sz(100, 100), geom.Sz(60, 60), 40, 0.1, geom.Pt(25, 25)},
		{"empty canvas", geom.Sz(0, 0), geom.Sz(100, 100), 0, 0.1, geom.Pt(50, 50)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			z, pan := Fit(tt.canvas, tt.container, tt.padding, 0.1)
			if !near(z, tt.wantZoom) {
				t.Errorf("zoom = %v, want %v", z, tt.wantZoom)
			}
			if !near(pan.X, tt.wantPan.X) || !near(pan.Y, tt.wantPan.Y) {
				t.Errorf("pan = %v, want %v", pan, tt.wantPan)
			}
		})
	}
}

func TestClampZoom(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0.01, 0.1},
		{0.1, 0.1},
		{2.5, 2.5},
		{10, 10},
		{50, 10},
		{math.NaN(), 0.1},
	}
	for _, tt := range tests {
		if got := ClampZoom(tt.in, 0.1, 10); got != tt.want {
			t.Errorf("ClampZoom(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestAnchoredPanKeepsPointFixed(t *testing.T) {
	v := Viewport{Zoom: 1, Pan: geom.Pt(30, 40)}
	anchor := geom.Pt(200, 150)
	before := v.ScreenToCanvas(anchor)

	v.Pan = AnchoredPan(v.Pan, anchor, 1, 2.5)
	v.Zoom = 2.5
	after := v.ScreenToCanvas(anchor)
	if !near(before.X, after.X) || !near(before.Y, after.Y) {
		t.Errorf("canvas point under anchor moved from %v to %v", before, after)
	}
}

func TestScreenCanvasRoundTrip(t *testing.T) {
	v := Viewport{Zoom: 0.5, Pan: geom.Pt(40, 120), Origin: geom.Pt(10, 20)}
	p := geom.Pt(110, 240)
	c := v.ScreenToCanvas(p)
	if c != geom.Pt(120, 200) {
		t.Errorf("ScreenToCanvas(%v) = %v, want (120,200)", p, c)
	}
	if got := v.CanvasToScreen(c); got != p {
		t.Errorf("CanvasToScreen(ScreenToCanvas(p)) = %v, want %v", got, p)
	}
}
