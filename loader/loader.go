// Package loader turns files, URLs, byte blobs and in-memory images into
// drawable handles.
//
// Content is sniffed before decoding, so a non-image payload fails with
// ErrNotImage whatever its name or Content-Type claims. Images larger than
// the configured maximum dimension are downscaled on load.
package loader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // register GIF
	_ "image/jpeg" // register JPEG
	_ "image/png"  // register PNG
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/anthonynsimon/bild/transform"
	"github.com/gogpu/gg"
	"github.com/h2non/filetype"
	_ "golang.org/x/image/bmp"  // register BMP
	_ "golang.org/x/image/tiff" // register TIFF
	_ "golang.org/x/image/webp" // register WebP

	"github.com/gogpu/ggedit/internal/imgconv"
	"github.com/gogpu/ggedit/internal/logx"
)

// Defaults for a Loader created without options.
const (
	DefaultMaxDimension = 4096
	DefaultMaxBytes     = 64 << 20
	DefaultMaxPixels    = 100_000_000
	DefaultHTTPTimeout  = 30 * time.Second
)

// Load errors. Every failure wraps one of them.
var (
	ErrUnsupportedSource = errors.New("loader: unsupported source")
	ErrNotImage          = errors.New("loader: content is not an image")
	ErrUnsupportedFormat = errors.New("loader: unsupported image format")
	ErrTooLarge          = errors.New("loader: image too large")
)

// Option configures a Loader.
type Option func(*Loader)

// WithHTTPClient sets the client used for URL sources.
func WithHTTPClient(c *http.Client) Option {
	return func(l *Loader) { l.client = c }
}

// WithTimeout sets the timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(l *Loader) { l.timeout = d }
}

// WithMaxDimension sets the longest edge kept on load. Zero disables
// downscaling.
func WithMaxDimension(n int) Option {
	return func(l *Loader) { l.maxDim = n }
}

// WithMaxBytes caps the encoded size read from a source.
func WithMaxBytes(n int64) Option {
	return func(l *Loader) { l.maxBytes = n }
}

// WithMaxPixels caps the decoded pixel count.
func WithMaxPixels(n int) Option {
	return func(l *Loader) { l.maxPixels = n }
}

// WithLogger sets the logger.
func WithLogger(lg *slog.Logger) Option {
	return func(l *Loader) { l.logger = lg }
}

// Loader decodes images from sources. It is safe for concurrent use.
type Loader struct {
	client    *http.Client
	timeout   time.Duration
	maxDim    int
	maxBytes  int64
	maxPixels int
	logger    *slog.Logger
}

// New creates a Loader.
func New(opts ...Option) *Loader {
	l := &Loader{
		timeout:   DefaultHTTPTimeout,
		maxDim:    DefaultMaxDimension,
		maxBytes:  DefaultMaxBytes,
		maxPixels: DefaultMaxPixels,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.client == nil {
		l.client = &http.Client{Timeout: l.timeout}
	}
	l.logger = logx.OrNop(l.logger)
	return l
}

// Result is a loaded image.
type Result struct {
	Image *gg.ImageBuf
	// Format is the detected format extension, or "" for pixel sources.
	Format string
	MIME   string
	// Natural is the decoded size before any downscale.
	Natural image.Point
	Scaled  bool
}

// Load reads, sniffs, decodes and optionally downscales src.
func (l *Loader) Load(ctx context.Context, src Source) (*Result, error) {
	if src == nil {
		return nil, fmt.Errorf("%w: nil source", ErrUnsupportedSource)
	}
	var (
		img image.Image
		res Result
		err error
	)
	if ps, ok := src.(PixelSource); ok {
		if img = ps.Pixels(); img == nil {
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedSource, src)
		}
	} else if img, res, err = l.decode(ctx, src); err != nil {
		return nil, err
	}

	size := img.Bounds().Size()
	if size.X <= 0 || size.Y <= 0 {
		return nil, fmt.Errorf("loader: %s: empty image", src)
	}
	res.Natural = size
	if w, h := fitWithin(size, l.maxDim); w != size.X || h != size.Y {
		img = transform.Resize(img, w, h, transform.Linear)
		res.Scaled = true
		l.logger.Debug("loader: downscaled", "source", src.String(), "from", size, "to", image.Pt(w, h))
	}
	res.Image = imgconv.ToBuf(img)
	l.logger.Info("loader: loaded", "source", src.String(), "format", res.Format, "size", img.Bounds().Size())
	return &res, nil
}

func (l *Loader) decode(ctx context.Context, src Source) (image.Image, Result, error) {
	rc, err := src.Open(ctx, l.client)
	if err != nil {
		if errors.Is(err, ErrUnsupportedSource) {
			return nil, Result{}, err
		}
		return nil, Result{}, fmt.Errorf("loader: open %s: %w", src, err)
	}
	if rc == nil {
		return nil, Result{}, fmt.Errorf("%w: %s", ErrUnsupportedSource, src)
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, l.maxBytes+1))
	if err != nil {
		return nil, Result{}, fmt.Errorf("loader: read %s: %w", src, err)
	}
	if int64(len(data)) > l.maxBytes {
		return nil, Result{}, fmt.Errorf("%w: %s exceeds %d bytes", ErrTooLarge, src, l.maxBytes)
	}
	if err := ctx.Err(); err != nil {
		return nil, Result{}, err
	}

	kind, _ := filetype.Match(data)
	if !filetype.IsImage(data) {
		return nil, Result{}, fmt.Errorf("%w: %s (detected %q)", ErrNotImage, src, kind.MIME.Value)
	}
	res := Result{Format: kind.Extension, MIME: kind.MIME.Value}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return nil, Result{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, kind.MIME.Value)
		}
		return nil, Result{}, fmt.Errorf("loader: decode %s: %w", src, err)
	}
	if l.maxPixels > 0 && cfg.Width*cfg.Height > l.maxPixels {
		return nil, Result{}, fmt.Errorf("%w: %dx%d", ErrTooLarge, cfg.Width, cfg.Height)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, Result{}, fmt.Errorf("loader: decode %s: %w", src, err)
	}
	return img, res, nil
}

// fitWithin scales size so its longest edge is at most maxDim, keeping the
// aspect ratio. Sizes already within bounds, or maxDim <= 0, are unchanged.
func fitWithin(size image.Point, maxDim int) (w, h int) {
	if maxDim <= 0 || (size.X <= maxDim && size.Y <= maxDim) {
		return size.X, size.Y
	}
	if size.X >= size.Y {
		return maxDim, max(1, size.Y*maxDim/size.X)
	}
	return max(1, size.X*maxDim/size.Y), maxDim
}
