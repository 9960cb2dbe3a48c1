package canvas

import (
	"strings"

	"github.com/gogpu/ggedit/geom"
	"github.com/gogpu/ggedit/layer"
	"github.com/gogpu/ggedit/surface"
)

// Shape parameters for polygon and star layers without explicit points.
const (
	PolygonSides = 6
	StarPoints   = 5
	StarInner    = 0.5
)

// drawLayer draws one layer in canvas space. The layer is wrapped in a
// compositing group so opacity and blend mode apply to the whole layer.
func drawLayer(s surface.Surface, l *layer.Layer) error {
	s.Save()
	defer s.Restore()
	s.BeginGroup(surface.ParseBlendMode(string(l.BlendMode)), l.Opacity)
	defer s.EndGroup()
	s.Transform(l.Transform.Matrix())

	switch l.Kind {
	case layer.KindImage, layer.KindSticker:
		drawImage(s, l.Image)
	case layer.KindText:
		drawText(s, l.Text)
	case layer.KindShape:
		return drawShape(s, l.Shape)
	case layer.KindDrawing:
		return drawDrawing(s, l.Drawing)
	}
	return nil
}

// box returns the content rectangle centred on the layer origin.
func box(w, h float64) geom.Rect {
	return geom.R(-w/2, -h/2, w, h)
}

func drawImage(s surface.Surface, c *layer.ImageContent) {
	if c == nil || c.Source == nil {
		return
	}
	w, h := c.Width, c.Height
	if w <= 0 || h <= 0 {
		w, h = float64(c.Source.Width()), float64(c.Source.Height())
	}
	s.DrawImage(c.Source, box(w, h), 1)
}

// stroke offsets approximate a glyph outline with eight shifted copies.
var strokeDirs = [8]geom.Point{
	{X: -1, Y: -1}, {X: 0, Y: -1}, {X: 1, Y: -1},
	{X: -1, Y: 0}, {X: 1, Y: 0},
	{X: -1, Y: 1}, {X: 0, Y: 1}, {X: 1, Y: 1},
}

func drawText(s surface.Surface, c *layer.TextContent) {
	if c == nil || c.Text == "" || c.FontSize <= 0 {
		return
	}
	style := surface.TextStyle{
		Family: c.FontFamily,
		Size:   c.FontSize,
		Bold:   c.Bold,
		Italic: c.Italic,
		Color:  ParseColor(c.Color, 1),
	}
	lines := strings.Split(c.Text, "\n")
	lineH := c.FontSize * c.LineHeight
	if lineH <= 0 {
		lineH = c.FontSize * layer.DefaultLineHeight
	}

	widths := make([]float64, len(lines))
	blockW := 0.0
	for i, ln := range lines {
		widths[i], _ = s.MeasureText(ln, style)
		blockW = max(blockW, widths[i])
	}
	top := -lineH * float64(len(lines)) / 2

	origin := func(i int) geom.Point {
		var x float64
		switch c.Align {
		case layer.AlignCenter:
			x = -widths[i] / 2
		case layer.AlignRight:
			x = blockW/2 - widths[i]
		default:
			x = -blockW / 2
		}
		return geom.Pt(x, top+float64(i)*lineH)
	}

	if sh := c.Shadow; sh != nil {
		if col := ParseColor(sh.Color, 1); col != nil {
			st := style
			st.Color = col
			st.Blur = sh.Blur
			off := geom.Pt(sh.OffsetX, sh.OffsetY)
			for i, ln := range lines {
				s.DrawText(ln, origin(i).Add(off), st)
			}
		}
	}
	if sk := c.Stroke; sk != nil && sk.Width > 0 {
		if col := ParseColor(sk.Color, 1); col != nil {
			st := style
			st.Color = col
			for i, ln := range lines {
				for _, d := range strokeDirs {
					s.DrawText(ln, origin(i).Add(d.Mul(sk.Width)), st)
				}
			}
		}
	}
	if style.Color == nil {
		return
	}
	for i, ln := range lines {
		s.DrawText(ln, origin(i), style)
	}
}

// shapePath builds the outline of a shape in layer-local coordinates.
func shapePath(c *layer.ShapeContent) *surface.Path {
	r := box(c.Width, c.Height)
	local := func(pts []geom.Point) []geom.Point {
		out := make([]geom.Point, len(pts))
		for i, p := range pts {
			out[i] = p.Add(geom.Pt(r.X, r.Y))
		}
		return out
	}

	p := surface.NewPath()
	switch c.Shape {
	case layer.ShapeEllipse:
		p.Ellipse(r)
	case layer.ShapeLine:
		if len(c.Points) >= 2 {
			p.Polyline(local(c.Points))
		} else {
			p.MoveTo(r.X, 0)
			p.LineTo(r.Right(), 0)
		}
	case layer.ShapePolygon:
		if len(c.Points) >= 3 {
			p.Polygon(local(c.Points))
		} else {
			p.Polygon(surface.RegularPolygon(r, PolygonSides))
		}
	case layer.ShapeStar:
		p.Polygon(surface.Star(r, StarPoints, StarInner))
	default:
		if c.CornerRadius > 0 {
			p.RoundedRect(r, c.CornerRadius)
		} else {
			p.Rect(r)
		}
	}
	return p
}

func drawShape(s surface.Surface, c *layer.ShapeContent) error {
	if c == nil {
		return nil
	}
	p := shapePath(c)
	if c.Shape != layer.ShapeLine {
		if col := ParseColor(c.Fill, 1); col != nil {
			if err := s.FillPath(p, surface.FillStyle{Color: col}); err != nil {
				return err
			}
		}
	}
	stroke := c.Stroke
	width := c.StrokeWidth
	if c.Shape == layer.ShapeLine && stroke == "" {
		// A line has no interior; fall back to painting it with the fill.
		stroke = c.Fill
		width = max(width, 1)
	}
	col := ParseColor(stroke, 1)
	if col == nil || width <= 0 {
		return nil
	}
	return s.StrokePath(p, surface.StrokeStyle{
		Color: col,
		Width: width,
		Cap:   surface.LineCapRound,
		Join:  surface.LineJoinRound,
	})
}

func drawDrawing(s surface.Surface, c *layer.DrawingContent) error {
	if c == nil {
		return nil
	}
	off := geom.Pt(-c.Width/2, -c.Height/2)
	for _, path := range c.Paths {
		if err := DrawStroke(s, path, off); err != nil {
			return err
		}
	}
	return nil
}

// DrawStroke renders one brush path with its points shifted by off. A
// single-point path paints a dot of the brush width. A zero opacity is
// treated as unset.
func DrawStroke(s surface.Surface, path layer.Path, off geom.Point) error {
	if len(path.Points) == 0 || path.Width <= 0 {
		return nil
	}
	opacity := path.Opacity
	if opacity <= 0 {
		opacity = 1
	}
	col := ParseColor(path.Color, opacity)
	if col == nil {
		return nil
	}
	pts := make([]geom.Point, len(path.Points))
	for i, pt := range path.Points {
		pts[i] = pt.Add(off)
	}
	if len(pts) == 1 {
		r := path.Width / 2
		dot := surface.NewPath()
		dot.Ellipse(geom.R(pts[0].X-r, pts[0].Y-r, 2*r, 2*r))
		return s.FillPath(dot, surface.FillStyle{Color: col})
	}
	p := surface.NewPath()
	p.SmoothPolyline(pts)
	return s.StrokePath(p, surface.StrokeStyle{
		Color: col,
		Width: path.Width,
		Cap:   surface.LineCapRound,
		Join:  surface.LineJoinRound,
	})
}
