package ggedit

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/webp"

	"github.com/gogpu/ggedit/event"
)

// newExportEditor renders through the default gg backend so the composite
// holds real pixels.
func newExportEditor(t *testing.T) *Editor {
	t.Helper()
	ed, err := New(WithCanvasSize(8, 8))
	require.NoError(t, err)
	t.Cleanup(func() { ed.Close() })
	_, err = ed.AddImageLayer(solidBuf(8, 8, red), "red")
	require.NoError(t, err)
	return ed
}

func TestExportPNG(t *testing.T) {
	ed := newExportEditor(t)

	var got []event.ImageExported
	event.On(ed.Bus(), func(e event.ImageExported) { got = append(got, e) })

	data, err := ed.Export(FormatPNG, 1)
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 8, 8), img.Bounds())

	r, g, b, a := img.At(4, 4).RGBA()
	assert.InDelta(t, 0xffff, r, 0x200)
	assert.InDelta(t, 0, g, 0x200)
	assert.InDelta(t, 0, b, 0x200)
	assert.InDelta(t, 0xffff, a, 0x200)

	require.Len(t, got, 1)
	assert.Equal(t, event.ImageExported{Format: FormatPNG, Size: len(data)}, got[0])
}

func TestExportJPEG(t *testing.T) {
	ed := newExportEditor(t)
	for _, format := range []string{FormatJPEG, "jpg", "JPEG"} {
		t.Run(format, func(t *testing.T) {
			data, err := ed.Export(format, 0.8)
			require.NoError(t, err)
			cfg, err := jpeg.DecodeConfig(bytes.NewReader(data))
			require.NoError(t, err)
			assert.Equal(t, 8, cfg.Width)
			assert.Equal(t, 8, cfg.Height)
		})
	}
}

func TestExportDefaults(t *testing.T) {
	ed := newExportEditor(t)
	data, err := ed.Export("", -1)
	require.NoError(t, err)
	_, err = png.DecodeConfig(bytes.NewReader(data))
	assert.NoError(t, err, "empty format falls back to export.default_format")
}

func TestExportWebP(t *testing.T) {
	ed := newExportEditor(t)

	data, err := ed.Export(FormatWebP, 0.9)
	require.NoError(t, err)
	img, err := webp.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 8, 8), img.Bounds())

	r, g, b, a := img.At(4, 4).RGBA()
	assert.InDelta(t, 0xffff, r, 0x200)
	assert.InDelta(t, 0, g, 0x200)
	assert.InDelta(t, 0, b, 0x200)
	assert.InDelta(t, 0xffff, a, 0x200)

	url, err := ed.ExportDataURL(FormatWebP, 0.9)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "data:image/webp;base64,"))
}

func TestRegisterEncoderOverridesBuiltin(t *testing.T) {
	ed := newExportEditor(t)

	var quality float64
	RegisterEncoder(FormatWebP, func(w io.Writer, img image.Image, q float64) error {
		quality = q
		_, err := w.Write([]byte("RIFF"))
		return err
	})
	t.Cleanup(func() { RegisterEncoder(FormatWebP, nil) })
	data, err := ed.Export(FormatWebP, 0.9)
	require.NoError(t, err)
	assert.Equal(t, []byte("RIFF"), data)
	assert.Equal(t, 0.9, quality)

	RegisterEncoder(FormatWebP, nil)
	data, err = ed.Export(FormatWebP, 0.9)
	require.NoError(t, err)
	_, err = webp.DecodeConfig(bytes.NewReader(data))
	assert.NoError(t, err, "removing the override restores the built-in encoder")
}

func TestExportEncoderFailure(t *testing.T) {
	ed := newExportEditor(t)
	boom := errors.New("boom")
	RegisterEncoder(FormatPNG, func(io.Writer, image.Image, float64) error { return boom })
	t.Cleanup(func() { RegisterEncoder(FormatPNG, nil) })

	_, err := ed.Export(FormatPNG, 1)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, KindEncoding, KindOf(err))
}

func TestExportErrors(t *testing.T) {
	ed := newExportEditor(t)

	_, err := ed.Export("bmp", 1)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.Equal(t, KindEncoding, KindOf(err))

	require.NoError(t, ed.Close())
	_, err = ed.Export(FormatPNG, 1)
	assert.ErrorIs(t, err, ErrClosed)
}

func TestExportDataURL(t *testing.T) {
	ed := newExportEditor(t)

	url, err := ed.ExportDataURL(FormatPNG, 1)
	require.NoError(t, err)
	const prefix = "data:image/png;base64,"
	require.True(t, strings.HasPrefix(url, prefix), url)

	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(url, prefix))
	require.NoError(t, err)
	_, err = png.DecodeConfig(bytes.NewReader(raw))
	assert.NoError(t, err)

	url, err = ed.ExportDataURL("jpg", 0.5)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "data:image/jpeg;base64,"))
}

func TestJPEGQuality(t *testing.T) {
	tests := []struct {
		in   float64
		want int
	}{
		{0, 1},
		{0.004, 1},
		{0.5, 50},
		{0.93, 93},
		{1, 100},
		{2, 100},
	}
	for _, tt := range tests {
		if got := jpegQuality(tt.in); got != tt.want {
			t.Errorf("jpegQuality(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
