// Package ggedit is an embeddable raster photo-editing engine for Go.
//
// # Overview
//
// An Editor holds a layered document: image, text, shape, drawing, sticker
// and adjustment layers placed with non-destructive affine transforms. It
// composites them through github.com/gogpu/gg, applies pixel filters and
// presets without losing the original pixels, keeps an undo/redo history
// of serialized snapshots, and drives pointer tools for crop, transform
// and freehand brush.
//
// # Quick Start
//
//	import "github.com/gogpu/ggedit"
//
//	ed, err := ggedit.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer ed.Close()
//
//	// Load a photo and give its layer a preset look
//	if err := ed.LoadImage(ctx, loader.File("photo.jpg")); err != nil {
//	    log.Fatal(err)
//	}
//	id := ed.ActiveLayer().ID
//	ed.ApplyPreset(id, "vintage")
//
//	// Encode the composite
//	data, err := ed.Export(ggedit.FormatJPEG, 0.9)
//
// # Rendering
//
// Mutations never render synchronously. They queue a render on the
// editor's frame scheduler, and any number of requests made before the
// frame runs produce a single pass. The default scheduler is a
// canvas.FrameQueue the host flushes once per frame; canvas.Immediate
// renders as soon as a request is made. Export and GetImageData render
// on demand.
//
// # History
//
// Every discrete operation records a post-action snapshot. Snapshots are
// JSON documents whose image handles are replaced by encoded payloads, so
// they survive serialization. Undo, Redo and RestoreState decode the
// payloads concurrently and block until all of them are ready; a result
// superseded by newer history while decoding is dropped with
// ErrStaleSnapshot.
//
// # Events
//
// Components publish on their own buses and the editor re-publishes
// everything on Bus. Subscribe with event.On:
//
//	event.On(ed.Bus(), func(e event.ZoomChanged) {
//	    fmt.Println("zoom", e.Zoom)
//	})
//
// # Coordinate System
//
// Canvas space has its origin at the top-left corner with Y growing down.
// Positive rotations are clockwise on screen. A layer's transform
// translate component is the centre of its content. Pointer input is in
// container coordinates and is mapped to canvas space through the
// viewport's zoom and pan.
//
// # Concurrency
//
// An Editor is not safe for concurrent use. The package logger (SetLogger)
// and encoder registry (RegisterEncoder) are.
package ggedit
