// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/anthonynsimon/bild/blur"
	"github.com/gogpu/gg"
	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"github.com/gogpu/ggedit/geom"
	"github.com/gogpu/ggedit/internal/imgconv"
)

// GG is a software Surface backed by a gg.Context.
//
// The transform is tracked here and mirrored into the context, so paths
// fill and stroke under any affine matrix. Images and text are resampled
// through golang.org/x/image/draw when the matrix is not a positive
// axis-aligned scale.
type GG struct {
	dc     *gg.Context
	fonts  *Fonts
	matrix geom.Matrix
	stack  []geom.Matrix
	groups int
	closed bool
}

// NewGG creates a surface of the given size. fonts may be nil, in which
// case a private resolver is created.
func NewGG(width, height int, fonts *Fonts) *GG {
	if fonts == nil {
		fonts = NewFonts()
	}
	return &GG{
		dc:     gg.NewContext(max(width, 1), max(height, 1)),
		fonts:  fonts,
		matrix: geom.Identity(),
	}
}

// GGFactory returns a Factory producing GG surfaces that share fonts.
func GGFactory(fonts *Fonts) Factory {
	if fonts == nil {
		fonts = NewFonts()
	}
	return func(width, height int) (Surface, error) {
		return NewGG(width, height, fonts), nil
	}
}

// Context exposes the underlying gg context for direct drawing.
func (s *GG) Context() *gg.Context { return s.dc }

// Width implements Surface.
func (s *GG) Width() int { return s.dc.Width() }

// Height implements Surface.
func (s *GG) Height() int { return s.dc.Height() }

// Resize implements Surface.
func (s *GG) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("surface: resize to %dx%d: invalid size", width, height)
	}
	if width == s.Width() && height == s.Height() {
		s.Clear(nil)
		return nil
	}
	if err := s.dc.Resize(width, height); err != nil {
		return fmt.Errorf("surface: resize: %w", err)
	}
	s.Clear(nil)
	return nil
}

// Clear implements Surface.
func (s *GG) Clear(c color.Color) {
	if c == nil {
		s.dc.Clear()
		return
	}
	s.dc.ClearWithColor(straight(c))
}

// Save implements Surface.
func (s *GG) Save() {
	s.stack = append(s.stack, s.matrix)
	s.dc.Push()
}

// Restore implements Surface.
func (s *GG) Restore() {
	if len(s.stack) == 0 {
		return
	}
	s.matrix = s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
	s.dc.Pop()
	s.sync()
}

func (s *GG) sync() {
	s.dc.SetTransform(s.matrix)
}

// Translate implements Surface.
func (s *GG) Translate(x, y float64) { s.Transform(geom.Translate(x, y)) }

// Scale implements Surface.
func (s *GG) Scale(sx, sy float64) { s.Transform(geom.Scale(sx, sy)) }

// Rotate implements Surface.
func (s *GG) Rotate(angle float64) { s.Transform(geom.Rotate(angle)) }

// Transform implements Surface.
func (s *GG) Transform(m geom.Matrix) {
	s.matrix = s.matrix.Multiply(m)
	s.sync()
}

// Matrix implements Surface.
func (s *GG) Matrix() geom.Matrix { return s.matrix }

// ClipRect implements Surface.
func (s *GG) ClipRect(r geom.Rect) {
	s.dc.ClipRect(r.X, r.Y, r.Width, r.Height)
}

// BeginGroup implements Surface.
func (s *GG) BeginGroup(mode BlendMode, opacity float64) {
	s.groups++
	s.dc.PushLayer(ggBlend(mode), opacity)
}

// EndGroup implements Surface.
func (s *GG) EndGroup() {
	if s.groups == 0 {
		return
	}
	s.groups--
	s.dc.PopLayer()
}

func ggBlend(m BlendMode) gg.BlendMode {
	switch m {
	case BlendMultiply:
		return gg.BlendMultiply
	case BlendScreen:
		return gg.BlendScreen
	case BlendOverlay:
		return gg.BlendOverlay
	default:
		return gg.BlendNormal
	}
}

func (s *GG) appendPath(p *Path) {
	s.dc.ClearPath()
	for _, seg := range p.Segments() {
		switch seg.Verb {
		case VerbMoveTo:
			s.dc.MoveTo(seg.Pts[0].X, seg.Pts[0].Y)
		case VerbLineTo:
			s.dc.LineTo(seg.Pts[0].X, seg.Pts[0].Y)
		case VerbQuadTo:
			s.dc.QuadraticTo(seg.Pts[0].X, seg.Pts[0].Y, seg.Pts[1].X, seg.Pts[1].Y)
		case VerbCubicTo:
			s.dc.CubicTo(seg.Pts[0].X, seg.Pts[0].Y, seg.Pts[1].X, seg.Pts[1].Y, seg.Pts[2].X, seg.Pts[2].Y)
		case VerbClose:
			s.dc.ClosePath()
		}
	}
}

// FillPath implements Surface.
func (s *GG) FillPath(p *Path, style FillStyle) error {
	if p == nil || p.IsEmpty() || style.Color == nil {
		return nil
	}
	s.appendPath(p)
	s.dc.SetFillBrush(gg.Solid(straight(style.Color)))
	if err := s.dc.Fill(); err != nil {
		return fmt.Errorf("surface: fill: %w", err)
	}
	return nil
}

// StrokePath implements Surface.
func (s *GG) StrokePath(p *Path, style StrokeStyle) error {
	if p == nil || p.IsEmpty() || style.Color == nil || style.Width <= 0 {
		return nil
	}
	s.appendPath(p)
	// Path points are transformed on entry but the width is in device
	// pixels, so scale it by the matrix's mean scale factor.
	scale := math.Sqrt(math.Abs(s.matrix.A*s.matrix.E - s.matrix.B*s.matrix.D))
	s.dc.SetLineWidth(style.Width * scale)
	s.dc.SetStrokeBrush(gg.Solid(straight(style.Color)))
	s.dc.SetLineCap(ggCap(style.Cap))
	s.dc.SetLineJoin(ggJoin(style.Join))
	if len(style.Dash) > 0 {
		dash := make([]float64, len(style.Dash))
		for i, d := range style.Dash {
			dash[i] = d * scale
		}
		s.dc.SetDash(dash...)
		defer s.dc.ClearDash()
	}
	if err := s.dc.Stroke(); err != nil {
		return fmt.Errorf("surface: stroke: %w", err)
	}
	return nil
}

func ggCap(c LineCap) gg.LineCap {
	switch c {
	case LineCapRound:
		return gg.LineCapRound
	case LineCapSquare:
		return gg.LineCapSquare
	default:
		return gg.LineCapButt
	}
}

func ggJoin(j LineJoin) gg.LineJoin {
	switch j {
	case LineJoinRound:
		return gg.LineJoinRound
	case LineJoinBevel:
		return gg.LineJoinBevel
	default:
		return gg.LineJoinMiter
	}
}

// DrawImage implements Surface.
func (s *GG) DrawImage(img *gg.ImageBuf, dst geom.Rect, opacity float64) {
	if img == nil || dst.Width == 0 || dst.Height == 0 || opacity <= 0 {
		return
	}
	iw, ih := img.Bounds()
	if iw == 0 || ih == 0 {
		return
	}
	m := s.matrix.
		Multiply(geom.Translate(dst.X, dst.Y)).
		Multiply(geom.Scale(dst.Width/float64(iw), dst.Height/float64(ih)))

	if m.B == 0 && m.D == 0 && m.A > 0 && m.E > 0 {
		s.blit(img, gg.DrawImageOptions{
			X:         m.C,
			Y:         m.F,
			DstWidth:  m.A * float64(iw),
			DstHeight: m.E * float64(ih),
			Opacity:   opacity,
		})
		return
	}
	s.drawAffine(img.ToStdImage(), m, opacity)
}

// blit draws in device space.
func (s *GG) blit(img *gg.ImageBuf, opts gg.DrawImageOptions) {
	s.dc.Push()
	s.dc.Identity()
	s.dc.DrawImageEx(img, opts)
	s.dc.Pop()
	s.sync()
}

// drawAffine resamples src through m into a scratch buffer covering the
// transformed bounds and blits that.
func (s *GG) drawAffine(src image.Image, m geom.Matrix, opacity float64) {
	sb := src.Bounds()
	corners := [4]geom.Point{
		m.TransformPoint(geom.Pt(0, 0)),
		m.TransformPoint(geom.Pt(float64(sb.Dx()), 0)),
		m.TransformPoint(geom.Pt(float64(sb.Dx()), float64(sb.Dy()))),
		m.TransformPoint(geom.Pt(0, float64(sb.Dy()))),
	}
	minX, minY := corners[0].X, corners[0].Y
	maxX, maxY := minX, minY
	for _, c := range corners[1:] {
		minX, minY = min(minX, c.X), min(minY, c.Y)
		maxX, maxY = max(maxX, c.X), max(maxY, c.Y)
	}
	bounds := image.Rect(
		int(math.Floor(minX)), int(math.Floor(minY)),
		int(math.Ceil(maxX)), int(math.Ceil(maxY)),
	).Intersect(image.Rect(0, 0, s.Width(), s.Height()))
	if bounds.Empty() {
		return
	}

	scratch := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	aff := f64.Aff3{
		m.A, m.B, m.C - float64(bounds.Min.X),
		m.D, m.E, m.F - float64(bounds.Min.Y),
	}
	draw.BiLinear.Transform(scratch, aff, src, sb, draw.Over, nil)

	s.blit(imgconv.ToBuf(scratch), gg.DrawImageOptions{
		X:       float64(bounds.Min.X),
		Y:       float64(bounds.Min.Y),
		Opacity: opacity,
	})
}

// DrawText implements Surface.
func (s *GG) DrawText(str string, at geom.Point, style TextStyle) {
	if str == "" || style.Color == nil || style.Size <= 0 {
		return
	}
	face, err := s.fonts.Face(style)
	if err != nil {
		return
	}
	w, h := s.MeasureText(str, style)
	pad := math.Ceil(style.Blur*2) + 2
	tw, th := int(math.Ceil(w+2*pad)), int(math.Ceil(h+2*pad))
	if tw <= 0 || th <= 0 {
		return
	}

	// gg draws text in device space, so rasterize the line at identity
	// and place it through the current matrix like an image.
	tc := gg.NewContext(tw, th)
	defer tc.Close()
	tc.SetFont(face)
	tc.SetFillBrush(gg.Solid(straight(style.Color)))
	tc.DrawString(str, pad, pad+face.Metrics().Ascent)

	var glyphs image.Image = tc.Image()
	if style.Blur > 0 {
		glyphs = blur.Gaussian(glyphs, style.Blur)
	}
	m := s.matrix.Multiply(geom.Translate(at.X-pad, at.Y-pad))
	if m.B == 0 && m.D == 0 && m.A == 1 && m.E == 1 {
		s.blit(imgconv.ToBuf(glyphs), gg.DrawImageOptions{X: m.C, Y: m.F, Opacity: 1})
		return
	}
	s.drawAffine(glyphs, m, 1)
}

// MeasureText implements Surface.
func (s *GG) MeasureText(str string, style TextStyle) (w, h float64) {
	face, err := s.fonts.Face(style)
	if err != nil {
		return 0, 0
	}
	return face.Advance(str), face.Metrics().LineHeight()
}

// ImageData implements Surface.
func (s *GG) ImageData(r image.Rectangle) *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	src := s.dc.Image()
	draw.Draw(out, out.Rect, src, r.Min, draw.Src)
	return out
}

// PutImageData implements Surface.
func (s *GG) PutImageData(img *image.NRGBA, at image.Point) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			// The pixmap stores premultiplied components and truncates on
			// write, so bias each channel by half a step.
			r, g, bl, a := img.At(x, y).RGBA()
			s.dc.SetPixel(at.X+x-b.Min.X, at.Y+y-b.Min.Y, gg.RGBA{
				R: unit16(r),
				G: unit16(g),
				B: unit16(bl),
				A: unit16(a),
			})
		}
	}
}

func unit16(v uint32) float64 {
	return (float64(v) + 128) / 0xffff
}

// Snapshot implements Surface.
func (s *GG) Snapshot() *gg.ImageBuf {
	return imgconv.ToBuf(s.dc.Image())
}

// Close implements Surface.
func (s *GG) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.dc.Close()
}

// straight converts c to non-premultiplied components, which is what gg
// brushes expect. gg.FromColor keeps the premultiplied values.
func straight(c color.Color) gg.RGBA {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return gg.RGBA{R: float64(n.R) / 255, G: float64(n.G) / 255, B: float64(n.B) / 255, A: float64(n.A) / 255}
}
