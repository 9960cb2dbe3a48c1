package ggedit

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"io"
	"math"
	"strings"
	"sync"

	"github.com/HugoSmits86/nativewebp"
	"github.com/gogpu/gg"
	"golang.org/x/image/draw"

	"github.com/gogpu/ggedit/event"
	"github.com/gogpu/ggedit/internal/imgconv"
)

// Export formats.
const (
	FormatPNG  = "png"
	FormatJPEG = "jpeg"
	FormatWebP = "webp"
)

// Encoder writes img in some format. quality is in [0,1]; lossless
// encoders ignore it.
type Encoder func(w io.Writer, img image.Image, quality float64) error

var (
	encodersMu sync.RWMutex
	encoders   = map[string]Encoder{}
)

// RegisterEncoder installs enc for format in place of the built-in
// encoder. A nil enc removes the registration and restores the built-in.
func RegisterEncoder(format string, enc Encoder) {
	format = normalizeFormat(format)
	encodersMu.Lock()
	defer encodersMu.Unlock()
	if enc == nil {
		delete(encoders, format)
		return
	}
	encoders[format] = enc
}

func registeredEncoder(format string) (Encoder, bool) {
	encodersMu.RLock()
	defer encodersMu.RUnlock()
	enc, ok := encoders[format]
	return enc, ok
}

func normalizeFormat(format string) string {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "jpg" {
		return FormatJPEG
	}
	return format
}

func mimeOf(format string) (string, error) {
	switch normalizeFormat(format) {
	case FormatPNG:
		return "image/png", nil
	case FormatJPEG:
		return "image/jpeg", nil
	case FormatWebP:
		return "image/webp", nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}

// jpegQuality maps [0,1] onto the 1..100 scale of the JPEG encoder.
func jpegQuality(q float64) int {
	return min(max(int(math.Round(q*100)), 1), 100)
}

// flatten composites buf over white. JPEG has no alpha channel.
func flatten(buf *gg.ImageBuf) *gg.ImageBuf {
	src := imgconv.FromBuf(buf)
	dst := image.NewNRGBA(src.Rect)
	draw.Draw(dst, dst.Rect, image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(dst, dst.Rect, src, image.Point{}, draw.Over)
	return imgconv.ToBuf(dst)
}

func encode(w io.Writer, buf *gg.ImageBuf, format string, quality float64) error {
	if enc, ok := registeredEncoder(format); ok {
		return enc(w, buf.ToStdImage(), quality)
	}
	switch format {
	case FormatPNG:
		return buf.EncodePNG(w)
	case FormatJPEG:
		return flatten(buf).EncodeJPEG(w, jpegQuality(quality))
	case FormatWebP:
		// Lossless VP8L; quality does not apply.
		return nativewebp.Encode(w, buf.ToStdImage(), nil)
	}
	return fmt.Errorf("%w: no %s encoder registered", ErrUnsupportedFormat, format)
}

// Export renders the document and encodes the composite. An empty format
// or a quality outside [0,1] falls back to the configured defaults.
func (e *Editor) Export(format string, quality float64) ([]byte, error) {
	if e.closed {
		return nil, opError("Export", KindState, ErrClosed)
	}
	if format == "" {
		format = e.cfg.Export.DefaultFormat
	}
	if quality < 0 || quality > 1 {
		quality = e.cfg.Export.DefaultQuality
	}
	format = normalizeFormat(format)
	if _, err := mimeOf(format); err != nil {
		return nil, opError("Export", KindEncoding, err)
	}

	e.canvas.Render()
	var buf bytes.Buffer
	if err := encode(&buf, e.canvas.Composite().Snapshot(), format, quality); err != nil {
		e.logger.Warn("ggedit: export failed", "format", format, "err", err)
		return nil, opError("Export", KindEncoding, err)
	}
	e.logger.Info("ggedit: exported", "format", format, "bytes", buf.Len())
	e.bus.Publish(event.ImageExported{Format: format, Size: buf.Len()})
	return buf.Bytes(), nil
}

// ExportDataURL is Export encoded as a data: URL.
func (e *Editor) ExportDataURL(format string, quality float64) (string, error) {
	if format == "" {
		format = e.cfg.Export.DefaultFormat
	}
	data, err := e.Export(format, quality)
	if err != nil {
		return "", err
	}
	mime, _ := mimeOf(format)
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}
