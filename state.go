package ggedit

import (
	"context"

	"github.com/gogpu/ggedit/event"
	"github.com/gogpu/ggedit/history"
	"github.com/gogpu/ggedit/layer"
)

// GetState captures the document and view. Layers are copies; image
// handles are shared.
func (e *Editor) GetState() history.State {
	return history.State{
		Layers:      e.Layers(),
		ActiveID:    e.store.ActiveID(),
		SelectedIDs: e.store.SelectedIDs(),
		Tool:        e.tools.ActiveName(),
		Zoom:        e.canvas.Zoom(),
		Pan:         e.canvas.Pan(),
		CanvasSize:  e.canvas.CanvasSize(),
		Dirty:       e.dirty,
	}
}

// ApplyState replaces the document and view with st. It does not record
// history.
func (e *Editor) ApplyState(st history.State) {
	if e.closed {
		return
	}
	e.restoring = true
	defer func() { e.restoring = false }()

	if sz := st.CanvasSize; !sz.Empty() && sz != e.canvas.CanvasSize() {
		if err := e.canvas.SetCanvasSize(int(sz.Width), int(sz.Height)); err != nil {
			e.logger.Warn("ggedit: restore canvas size", "size", sz, "err", err)
		}
	}
	layers := make([]*layer.Layer, len(st.Layers))
	for i, l := range st.Layers {
		layers[i] = l.Clone()
	}
	e.store.Reset(layers, st.ActiveID, st.SelectedIDs)

	if st.Tool != e.tools.ActiveName() {
		if err := e.SetTool(st.Tool); err != nil {
			e.logger.Warn("ggedit: restore tool", "tool", st.Tool, "err", err)
		}
	}
	if st.Zoom > 0 {
		e.canvas.SetZoom(st.Zoom)
		e.canvas.SetPan(st.Pan)
	}
	e.dirty = st.Dirty
	e.bus.Publish(event.StateRestored{Layers: e.store.Len()})
	e.canvas.QueueRender()
}

// Snapshot serializes the current state in the history snapshot format.
func (e *Editor) Snapshot() ([]byte, error) {
	data, err := e.history.Encode(e.GetState())
	if err != nil {
		return nil, opError("Snapshot", KindEncoding, err)
	}
	return data, nil
}

// RestoreState decodes a snapshot produced by Snapshot and applies it. It
// blocks until every image in the snapshot has been decoded.
func (e *Editor) RestoreState(ctx context.Context, data []byte) error {
	return e.restore(ctx, "RestoreState", data)
}

// restore decodes data and applies it unless history moved while decoding,
// in which case the result is stale and dropped.
func (e *Editor) restore(ctx context.Context, op string, data []byte) error {
	if e.closed {
		return opError(op, KindState, ErrClosed)
	}
	gen := e.history.Generation()
	st, err := e.history.Decode(ctx, data)
	if err != nil {
		e.logger.Warn("ggedit: snapshot decode failed", "op", op, "err", err)
		return opError(op, KindDecode, err)
	}
	if e.history.Generation() != gen {
		e.logger.Warn("ggedit: stale snapshot dropped", "op", op)
		return opError(op, KindState, ErrStaleSnapshot)
	}
	e.ApplyState(st)
	return nil
}

// SaveHistory records the current state under label. Inside a batch, or
// while a state is being restored, it does nothing.
func (e *Editor) SaveHistory(label string) {
	if e.closed || e.restoring {
		return
	}
	if err := e.history.Push(label, e.GetState()); err != nil {
		e.logger.Warn("ggedit: history push failed", "label", label, "err", err)
	}
}

// Undo steps back one history entry and restores it.
func (e *Editor) Undo(ctx context.Context) error {
	entry, ok := e.history.Undo()
	if !ok {
		return opError("Undo", KindState, ErrNothingToUndo)
	}
	return e.restore(ctx, "Undo", entry.Data)
}

// Redo steps forward one history entry and restores it.
func (e *Editor) Redo(ctx context.Context) error {
	entry, ok := e.history.Redo()
	if !ok {
		return opError("Redo", KindState, ErrNothingToRedo)
	}
	return e.restore(ctx, "Redo", entry.Data)
}

// CanUndo reports whether Undo would succeed.
func (e *Editor) CanUndo() bool { return e.history.CanUndo() }

// CanRedo reports whether Redo would succeed.
func (e *Editor) CanRedo() bool { return e.history.CanRedo() }

// History returns the history log.
func (e *Editor) History() *history.Manager { return e.history }

// StartBatch groups the following operations into one history entry,
// recorded by the matching EndBatch. Batches nest.
func (e *Editor) StartBatch() { e.history.StartBatch() }

// EndBatch closes a batch; closing the outermost one records the current
// state under label.
func (e *Editor) EndBatch(label string) {
	if err := e.history.EndBatch(label, e.GetState()); err != nil {
		e.logger.Warn("ggedit: history push failed", "label", label, "err", err)
	}
}

// CancelBatch closes every open batch without recording anything.
func (e *Editor) CancelBatch() { e.history.CancelBatch() }
