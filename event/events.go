package event

import (
	"time"

	"github.com/gogpu/ggedit/geom"
)

// Topics published by the editor and its components.
const (
	TopicZoomChange    Topic = "zoom:change"
	TopicPanChange     Topic = "pan:change"
	TopicRender        Topic = "render"
	TopicLayerAdd      Topic = "layer:add"
	TopicLayerRemove   Topic = "layer:remove"
	TopicLayerUpdate   Topic = "layer:update"
	TopicLayerSelect   Topic = "layer:select"
	TopicLayerReorder  Topic = "layer:reorder"
	TopicHistoryChange Topic = "history:change"
	TopicHistoryUndo   Topic = "history:undo"
	TopicHistoryRedo   Topic = "history:redo"
	TopicToolChange    Topic = "tool:change"
	TopicImageLoad     Topic = "image:load"
	TopicImageExport   Topic = "image:export"
	TopicStateRestore  Topic = "state:restore"
)

// ZoomChanged is published when the viewport zoom changes.
type ZoomChanged struct {
	Zoom float64
}

func (ZoomChanged) Topic() Topic { return TopicZoomChange }

// PanChanged is published when the viewport pan changes.
type PanChanged struct {
	Pan geom.Point
}

func (PanChanged) Topic() Topic { return TopicPanChange }

// Rendered is published after every completed render pass.
type Rendered struct {
	Layers int
}

func (Rendered) Topic() Topic { return TopicRender }

// LayerAdded is published when a layer enters the store.
type LayerAdded struct {
	ID    string
	Kind  string
	Index int
}

func (LayerAdded) Topic() Topic { return TopicLayerAdd }

// LayerRemoved is published when a layer leaves the store.
type LayerRemoved struct {
	ID string
}

func (LayerRemoved) Topic() Topic { return TopicLayerRemove }

// LayerUpdated is published when a layer's fields change.
type LayerUpdated struct {
	ID string
}

func (LayerUpdated) Topic() Topic { return TopicLayerUpdate }

// LayerSelected is published when the selection or active layer changes.
type LayerSelected struct {
	Selected []string
	Active   string
}

func (LayerSelected) Topic() Topic { return TopicLayerSelect }

// LayersReordered is published with the new bottom-to-top order.
type LayersReordered struct {
	Order []string
}

func (LayersReordered) Topic() Topic { return TopicLayerReorder }

// HistoryChanged reports the undo/redo boundary state.
type HistoryChanged struct {
	CanUndo bool
	CanRedo bool
}

func (HistoryChanged) Topic() Topic { return TopicHistoryChange }

// EntryInfo describes a history entry without its snapshot payload.
type EntryInfo struct {
	ID        string
	Label     string
	Timestamp time.Time
}

// HistoryUndone is published when the cursor moves back.
type HistoryUndone struct {
	Entry EntryInfo
}

func (HistoryUndone) Topic() Topic { return TopicHistoryUndo }

// HistoryRedone is published when the cursor moves forward.
type HistoryRedone struct {
	Entry EntryInfo
}

func (HistoryRedone) Topic() Topic { return TopicHistoryRedo }

// ToolChanged is published when the active tool changes.
type ToolChanged struct {
	Tool     string
	Previous string
}

func (ToolChanged) Topic() Topic { return TopicToolChange }

// ImageLoaded is published after LoadImage replaced the document.
type ImageLoaded struct {
	Size geom.Size
}

func (ImageLoaded) Topic() Topic { return TopicImageLoad }

// ImageExported is published after a successful export.
type ImageExported struct {
	Format string
	Size   int
}

func (ImageExported) Topic() Topic { return TopicImageExport }

// StateRestored is published after a snapshot has been applied.
type StateRestored struct {
	Layers int
}

func (StateRestored) Topic() Topic { return TopicStateRestore }
