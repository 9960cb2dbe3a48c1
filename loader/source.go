package loader

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
)

// Source is where an image comes from.
type Source interface {
	// Open returns the encoded bytes. Sources holding decoded pixels
	// return a nil reader and implement Pixels instead.
	Open(ctx context.Context, client *http.Client) (io.ReadCloser, error)
	String() string
}

// PixelSource is a Source that already holds decoded pixels.
type PixelSource interface {
	Source
	Pixels() image.Image
}

// File loads an encoded image from disk.
func File(path string) Source { return fileSource(path) }

type fileSource string

func (s fileSource) Open(ctx context.Context, _ *http.Client) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return os.Open(string(s))
}

func (s fileSource) String() string { return "file:" + string(s) }

// URL loads an image over HTTP(S). "data:" URLs are decoded in place.
func URL(rawURL string) Source { return urlSource(rawURL) }

type urlSource string

func (s urlSource) Open(ctx context.Context, client *http.Client) (io.ReadCloser, error) {
	raw := string(s)
	if strings.HasPrefix(raw, "data:") {
		data, err := decodeDataURL(raw)
		if err != nil {
			return nil, err
		}
		return io.NopCloser(bytes.NewReader(data)), nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: scheme %q", ErrUnsupportedSource, u.Scheme)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, raw, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "image/*")
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, fmt.Errorf("http status %s", resp.Status)
	}
	return resp.Body, nil
}

func (s urlSource) String() string {
	raw := string(s)
	if strings.HasPrefix(raw, "data:") && len(raw) > 32 {
		return raw[:32] + "…"
	}
	return raw
}

// decodeDataURL handles data:[<mediatype>][;base64],<data>.
func decodeDataURL(raw string) ([]byte, error) {
	meta, payload, ok := strings.Cut(strings.TrimPrefix(raw, "data:"), ",")
	if !ok {
		return nil, fmt.Errorf("%w: malformed data URL", ErrUnsupportedSource)
	}
	if strings.HasSuffix(meta, ";base64") {
		return base64.StdEncoding.DecodeString(payload)
	}
	s, err := url.PathUnescape(payload)
	return []byte(s), err
}

// Blob loads an encoded image held in memory. name is used in logs.
func Blob(name string, data []byte) Source { return blobSource{name: name, data: data} }

type blobSource struct {
	name string
	data []byte
}

func (s blobSource) Open(context.Context, *http.Client) (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(s.data)), nil
}

func (s blobSource) String() string {
	if s.name == "" {
		return fmt.Sprintf("blob(%d bytes)", len(s.data))
	}
	return "blob:" + s.name
}

// Pixels wraps an already decoded image.
func Pixels(img image.Image) Source { return pixelSource{img} }

type pixelSource struct{ img image.Image }

func (pixelSource) Open(context.Context, *http.Client) (io.ReadCloser, error) { return nil, nil }

func (s pixelSource) Pixels() image.Image { return s.img }

func (s pixelSource) String() string {
	if s.img == nil {
		return "pixels(nil)"
	}
	return fmt.Sprintf("pixels(%v)", s.img.Bounds().Size())
}
