// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"image"
	"image/color"

	"github.com/gogpu/gg"
	"golang.org/x/image/draw"

	"github.com/gogpu/ggedit/geom"
	"github.com/gogpu/ggedit/internal/imgconv"
)

// CommandType identifies a recorded call.
type CommandType uint8

const (
	CmdClear CommandType = iota
	CmdSave
	CmdRestore
	CmdTransform
	CmdClipRect
	CmdBeginGroup
	CmdEndGroup
	CmdFillPath
	CmdStrokePath
	CmdDrawImage
	CmdDrawText
	CmdPutImageData
)

var commandTypeNames = [...]string{
	CmdClear:        "Clear",
	CmdSave:         "Save",
	CmdRestore:      "Restore",
	CmdTransform:    "Transform",
	CmdClipRect:     "ClipRect",
	CmdBeginGroup:   "BeginGroup",
	CmdEndGroup:     "EndGroup",
	CmdFillPath:     "FillPath",
	CmdStrokePath:   "StrokePath",
	CmdDrawImage:    "DrawImage",
	CmdDrawText:     "DrawText",
	CmdPutImageData: "PutImageData",
}

// String returns the command name.
func (t CommandType) String() string {
	if int(t) < len(commandTypeNames) {
		return commandTypeNames[t]
	}
	return "Unknown"
}

// Command is one recorded call. Only the fields relevant to Type are set.
// Matrix is the transform in effect when the call was made.
type Command struct {
	Type    CommandType
	Matrix  geom.Matrix
	Rect    geom.Rect
	Color   color.Color
	Blend   BlendMode
	Opacity float64
	Path    *Path
	Stroke  StrokeStyle
	Image   *gg.ImageBuf
	Text    string
	Style   TextStyle
}

// Recorder is a Surface that records calls instead of rasterizing them.
// Pixel access works on a plain buffer: Clear and PutImageData write to
// it, drawing calls do not.
type Recorder struct {
	pix      *image.NRGBA
	matrix   geom.Matrix
	stack    []geom.Matrix
	commands []Command

	// CharWidth is the advance per rune reported by MeasureText, as a
	// fraction of the font size.
	CharWidth float64
}

// NewRecorder creates a recorder of the given size.
func NewRecorder(width, height int) *Recorder {
	return &Recorder{
		pix:       image.NewNRGBA(image.Rect(0, 0, width, height)),
		matrix:    geom.Identity(),
		CharWidth: 0.5,
	}
}

// RecorderFactory is a Factory producing recorders.
func RecorderFactory(width, height int) (Surface, error) {
	return NewRecorder(width, height), nil
}

// Commands returns the recorded calls.
func (r *Recorder) Commands() []Command { return r.commands }

// Reset drops the recorded calls.
func (r *Recorder) Reset() { r.commands = r.commands[:0] }

// Count returns how many calls of type t were recorded.
func (r *Recorder) Count(t CommandType) int {
	n := 0
	for _, c := range r.commands {
		if c.Type == t {
			n++
		}
	}
	return n
}

// Filter returns the recorded calls of type t.
func (r *Recorder) Filter(t CommandType) []Command {
	var out []Command
	for _, c := range r.commands {
		if c.Type == t {
			out = append(out, c)
		}
	}
	return out
}

// Depth returns the current Save nesting depth.
func (r *Recorder) Depth() int { return len(r.stack) }

func (r *Recorder) record(c Command) {
	c.Matrix = r.matrix
	r.commands = append(r.commands, c)
}

// Width implements Surface.
func (r *Recorder) Width() int { return r.pix.Rect.Dx() }

// Height implements Surface.
func (r *Recorder) Height() int { return r.pix.Rect.Dy() }

// Resize implements Surface.
func (r *Recorder) Resize(width, height int) error {
	r.pix = image.NewNRGBA(image.Rect(0, 0, width, height))
	return nil
}

// Clear implements Surface.
func (r *Recorder) Clear(c color.Color) {
	if c == nil {
		c = color.Transparent
	}
	draw.Draw(r.pix, r.pix.Rect, image.NewUniform(c), image.Point{}, draw.Src)
	r.record(Command{Type: CmdClear, Color: c})
}

// Save implements Surface.
func (r *Recorder) Save() {
	r.stack = append(r.stack, r.matrix)
	r.record(Command{Type: CmdSave})
}

// Restore implements Surface.
func (r *Recorder) Restore() {
	if len(r.stack) == 0 {
		return
	}
	r.matrix = r.stack[len(r.stack)-1]
	r.stack = r.stack[:len(r.stack)-1]
	r.record(Command{Type: CmdRestore})
}

// Translate implements Surface.
func (r *Recorder) Translate(x, y float64) { r.Transform(geom.Translate(x, y)) }

// Scale implements Surface.
func (r *Recorder) Scale(sx, sy float64) { r.Transform(geom.Scale(sx, sy)) }

// Rotate implements Surface.
func (r *Recorder) Rotate(angle float64) { r.Transform(geom.Rotate(angle)) }

// Transform implements Surface.
func (r *Recorder) Transform(m geom.Matrix) {
	r.matrix = r.matrix.Multiply(m)
	r.record(Command{Type: CmdTransform})
}

// Matrix implements Surface.
func (r *Recorder) Matrix() geom.Matrix { return r.matrix }

// ClipRect implements Surface.
func (r *Recorder) ClipRect(rect geom.Rect) {
	r.record(Command{Type: CmdClipRect, Rect: rect})
}

// BeginGroup implements Surface.
func (r *Recorder) BeginGroup(mode BlendMode, opacity float64) {
	r.record(Command{Type: CmdBeginGroup, Blend: mode, Opacity: opacity})
}

// EndGroup implements Surface.
func (r *Recorder) EndGroup() {
	r.record(Command{Type: CmdEndGroup})
}

// FillPath implements Surface.
func (r *Recorder) FillPath(p *Path, style FillStyle) error {
	r.record(Command{Type: CmdFillPath, Path: p, Color: style.Color})
	return nil
}

// StrokePath implements Surface.
func (r *Recorder) StrokePath(p *Path, style StrokeStyle) error {
	r.record(Command{Type: CmdStrokePath, Path: p, Color: style.Color, Stroke: style})
	return nil
}

// DrawImage implements Surface.
func (r *Recorder) DrawImage(img *gg.ImageBuf, dst geom.Rect, opacity float64) {
	r.record(Command{Type: CmdDrawImage, Image: img, Rect: dst, Opacity: opacity})
}

// DrawText implements Surface.
func (r *Recorder) DrawText(s string, at geom.Point, style TextStyle) {
	w, h := r.MeasureText(s, style)
	r.record(Command{Type: CmdDrawText, Text: s, Style: style, Color: style.Color, Rect: geom.R(at.X, at.Y, w, h)})
}

// MeasureText implements Surface with fixed-pitch metrics.
func (r *Recorder) MeasureText(s string, style TextStyle) (w, h float64) {
	return float64(len([]rune(s))) * style.Size * r.CharWidth, style.Size * 1.2
}

// ImageData implements Surface.
func (r *Recorder) ImageData(rect image.Rectangle) *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	draw.Draw(out, out.Rect, r.pix, rect.Min, draw.Src)
	return out
}

// PutImageData implements Surface.
func (r *Recorder) PutImageData(img *image.NRGBA, at image.Point) {
	b := img.Bounds()
	draw.Draw(r.pix, image.Rectangle{Min: at, Max: at.Add(b.Size())}, img, b.Min, draw.Src)
	r.record(Command{Type: CmdPutImageData, Rect: geom.R(float64(at.X), float64(at.Y), float64(b.Dx()), float64(b.Dy()))})
}

// Snapshot implements Surface.
func (r *Recorder) Snapshot() *gg.ImageBuf {
	return imgconv.ToBuf(r.pix)
}

// Close implements Surface.
func (r *Recorder) Close() error { return nil }

var (
	_ Surface = (*Recorder)(nil)
	_ Surface = (*GG)(nil)
)
