package history

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image/png"
	"io"
	"runtime"

	"github.com/gogpu/gg"
	"golang.org/x/sync/errgroup"

	"github.com/gogpu/ggedit/geom"
	"github.com/gogpu/ggedit/internal/cache"
	"github.com/gogpu/ggedit/internal/imgconv"
	"github.com/gogpu/ggedit/layer"
)

// SnapshotVersion is written into every encoded snapshot.
const SnapshotVersion = 1

// Decode errors.
var (
	ErrBadSnapshot     = errors.New("history: malformed snapshot")
	ErrVersionMismatch = errors.New("history: unsupported snapshot version")
)

// ImageCodec turns drawable handles into bytes and back.
type ImageCodec interface {
	Encode(w io.Writer, img *gg.ImageBuf) error
	Decode(r io.Reader) (*gg.ImageBuf, error)
}

// PNGCodec stores payloads losslessly as PNG.
type PNGCodec struct{}

// Encode implements ImageCodec.
func (PNGCodec) Encode(w io.Writer, img *gg.ImageBuf) error {
	return img.EncodePNG(w)
}

// Decode implements ImageCodec.
func (PNGCodec) Decode(r io.Reader) (*gg.ImageBuf, error) {
	img, err := png.Decode(r)
	if err != nil {
		return nil, err
	}
	return imgconv.ToBuf(img), nil
}

// State is the live engine state captured by a snapshot.
type State struct {
	Layers      []*layer.Layer
	ActiveID    string
	SelectedIDs []string
	Tool        string
	Zoom        float64
	Pan         geom.Point
	CanvasSize  geom.Size
	Dirty       bool
}

// noPayload marks a handle slot with no image.
const noPayload = -1

type snapshotLayer struct {
	*layer.Layer
	Source   int `json:"source"`
	Original int `json:"original"`
}

type document struct {
	Version     int             `json:"version"`
	Layers      []snapshotLayer `json:"layers"`
	ActiveID    string          `json:"activeId,omitempty"`
	SelectedIDs []string        `json:"selectedIds,omitempty"`
	Tool        string          `json:"tool,omitempty"`
	Zoom        float64         `json:"zoom"`
	Pan         geom.Point      `json:"pan"`
	CanvasSize  geom.Size       `json:"canvasSize"`
	Dirty       bool            `json:"dirty"`
	Payloads    [][]byte        `json:"payloads"`
}

// payloadCache maps live handles to their encoded bytes. Handles are never
// mutated in place, so an entry stays valid for the handle's lifetime.
type payloadCache = cache.Cache[*gg.ImageBuf, []byte]

// Encode serializes st. Every image handle is encoded once into the payload
// arena, however many layers share it; layers refer to payloads by index.
func Encode(st State, codec ImageCodec) ([]byte, error) {
	return encode(st, codec, nil)
}

func encode(st State, codec ImageCodec, payloads *payloadCache) ([]byte, error) {
	if codec == nil {
		codec = PNGCodec{}
	}
	doc := document{
		Version:     SnapshotVersion,
		Layers:      make([]snapshotLayer, 0, len(st.Layers)),
		ActiveID:    st.ActiveID,
		SelectedIDs: st.SelectedIDs,
		Tool:        st.Tool,
		Zoom:        st.Zoom,
		Pan:         st.Pan,
		CanvasSize:  st.CanvasSize,
		Dirty:       st.Dirty,
		Payloads:    [][]byte{},
	}
	arena := map[*gg.ImageBuf]int{}
	ref := func(img *gg.ImageBuf) (int, error) {
		if img == nil {
			return noPayload, nil
		}
		if i, ok := arena[img]; ok {
			return i, nil
		}
		data, ok := cachedPayload(payloads, img)
		if !ok {
			var buf bytes.Buffer
			if err := codec.Encode(&buf, img); err != nil {
				return 0, err
			}
			data = buf.Bytes()
			storePayload(payloads, img, data)
		}
		i := len(doc.Payloads)
		doc.Payloads = append(doc.Payloads, data)
		arena[img] = i
		return i, nil
	}

	for _, l := range st.Layers {
		if l == nil {
			continue
		}
		sl := snapshotLayer{Layer: l, Source: noPayload, Original: noPayload}
		if l.Image != nil {
			var err error
			if sl.Source, err = ref(l.Image.Source); err != nil {
				return nil, fmt.Errorf("history: encode layer %s: %w", l.ID, err)
			}
			if sl.Original, err = ref(l.Image.Original); err != nil {
				return nil, fmt.Errorf("history: encode layer %s: %w", l.ID, err)
			}
		}
		doc.Layers = append(doc.Layers, sl)
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("history: encode: %w", err)
	}
	return data, nil
}

// Decode rebuilds a State from data. Payloads are decoded concurrently, at
// most workers at a time (GOMAXPROCS when workers <= 0). Decode returns only
// once every handle is rebuilt, or with the first error or cancellation; no
// partially restored state is ever returned.
func Decode(ctx context.Context, data []byte, codec ImageCodec, workers int) (State, error) {
	return decode(ctx, data, codec, workers, nil)
}

func decode(ctx context.Context, data []byte, codec ImageCodec, workers int, payloads *payloadCache) (State, error) {
	if codec == nil {
		codec = PNGCodec{}
	}
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return State{}, fmt.Errorf("%w: %w", ErrBadSnapshot, err)
	}
	if doc.Version != SnapshotVersion {
		return State{}, fmt.Errorf("%w: %d", ErrVersionMismatch, doc.Version)
	}

	images := make([]*gg.ImageBuf, len(doc.Payloads))
	g, gctx := errgroup.WithContext(ctx)
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	g.SetLimit(workers)
	for i, payload := range doc.Payloads {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			img, err := codec.Decode(bytes.NewReader(payload))
			if err != nil {
				return fmt.Errorf("history: decode payload %d: %w", i, err)
			}
			images[i] = img
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return State{}, err
	}
	if err := ctx.Err(); err != nil {
		return State{}, err
	}
	for i, img := range images {
		storePayload(payloads, img, doc.Payloads[i])
	}

	lookup := func(i int) (*gg.ImageBuf, error) {
		switch {
		case i == noPayload:
			return nil, nil
		case i < 0 || i >= len(images):
			return nil, fmt.Errorf("%w: payload index %d out of range", ErrBadSnapshot, i)
		}
		return images[i], nil
	}

	st := State{
		Layers:      make([]*layer.Layer, 0, len(doc.Layers)),
		ActiveID:    doc.ActiveID,
		SelectedIDs: doc.SelectedIDs,
		Tool:        doc.Tool,
		Zoom:        doc.Zoom,
		Pan:         doc.Pan,
		CanvasSize:  doc.CanvasSize,
		Dirty:       doc.Dirty,
	}
	for _, sl := range doc.Layers {
		l := sl.Layer
		if l == nil {
			continue
		}
		if l.Image != nil {
			var err error
			if l.Image.Source, err = lookup(sl.Source); err != nil {
				return State{}, err
			}
			if l.Image.Original, err = lookup(sl.Original); err != nil {
				return State{}, err
			}
		}
		st.Layers = append(st.Layers, l)
	}
	return st, nil
}

// cachedPayload and storePayload tolerate a nil cache.
func cachedPayload(c *payloadCache, img *gg.ImageBuf) ([]byte, bool) {
	if c == nil {
		return nil, false
	}
	return c.Get(img)
}

func storePayload(c *payloadCache, img *gg.ImageBuf, data []byte) {
	if c != nil {
		c.Set(img, data)
	}
}
