package layer

import (
	"log/slog"
	"slices"

	"github.com/gogpu/ggedit/event"
	"github.com/gogpu/ggedit/internal/logx"
)

// Store is the ordered layer collection. Order runs bottom to top: index 0
// is drawn first.
//
// The order slice and the id map always hold exactly the same id set and no
// id appears twice in the order. Operations on unknown ids and reorders that
// are not a permutation of the current ids are ignored without error.
//
// Store is not safe for concurrent use.
type Store struct {
	layers   map[string]*Layer
	order    []string
	selected map[string]struct{}
	active   string

	ids    IDGenerator
	bus    *event.Bus
	logger *slog.Logger
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithIDGenerator sets the id source.
func WithIDGenerator(gen IDGenerator) StoreOption {
	return func(s *Store) {
		if gen != nil {
			s.ids = gen
		}
	}
}

// WithBus makes the store publish on bus instead of a private one.
func WithBus(bus *event.Bus) StoreOption {
	return func(s *Store) {
		if bus != nil {
			s.bus = bus
		}
	}
}

// WithLogger sets the store logger.
func WithLogger(l *slog.Logger) StoreOption {
	return func(s *Store) {
		s.logger = logx.OrNop(l)
	}
}

// NewStore creates an empty store.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		layers:   make(map[string]*Layer),
		selected: make(map[string]struct{}),
		ids:      DefaultIDGenerator(),
		bus:      event.NewBus(),
		logger:   logx.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Bus returns the bus the store publishes layer events on.
func (s *Store) Bus() *event.Bus { return s.bus }

// Len returns the number of layers.
func (s *Store) Len() int { return len(s.order) }

// Get returns the layer with the given id.
func (s *Store) Get(id string) (*Layer, bool) {
	l, ok := s.layers[id]
	return l, ok
}

// Layers returns the layers bottom to top. The layers must not be modified.
func (s *Store) Layers() []*Layer {
	out := make([]*Layer, len(s.order))
	for i, id := range s.order {
		out[i] = s.layers[id]
	}
	return out
}

// Order returns a copy of the id order.
func (s *Store) Order() []string {
	return slices.Clone(s.order)
}

// IndexOf returns the position of id in the order, or -1.
func (s *Store) IndexOf(id string) int {
	return slices.Index(s.order, id)
}

// Add appends l on top of the stack and makes it the active, sole selected
// layer. An empty or already used ID is replaced by a generated one. The
// stored layer is returned.
func (s *Store) Add(l *Layer) *Layer {
	return s.Insert(l, len(s.order))
}

// Insert places l at index (clamped to the valid range).
func (s *Store) Insert(l *Layer, index int) *Layer {
	if l == nil {
		return nil
	}
	l = l.Clone()
	if _, taken := s.layers[l.ID]; l.ID == "" || taken {
		l.ID = s.newID()
	}
	index = min(max(index, 0), len(s.order))

	s.layers[l.ID] = l
	s.order = slices.Insert(s.order, index, l.ID)
	s.bus.Publish(event.LayerAdded{ID: l.ID, Kind: string(l.Kind), Index: index})

	s.selectOnly(l.ID)
	return l
}

func (s *Store) newID() string {
	for {
		id := s.ids()
		if _, taken := s.layers[id]; !taken {
			return id
		}
	}
}

// Update merges p into the layer with the given id, replacing it with an
// updated copy. Unknown ids are ignored.
func (s *Store) Update(id string, p Patch) {
	cur, ok := s.layers[id]
	if !ok {
		s.logger.Debug("layer: update of unknown layer ignored", "id", id)
		return
	}
	if p.IsEmpty() {
		return
	}
	s.replace(p.Apply(cur))
}

// Modify replaces the layer with a copy changed by fn. The ID and kind
// cannot be changed. Unknown ids are ignored.
func (s *Store) Modify(id string, fn func(*Layer)) {
	cur, ok := s.layers[id]
	if !ok {
		s.logger.Debug("layer: modify of unknown layer ignored", "id", id)
		return
	}
	next := cur.Clone()
	fn(next)
	next.ID, next.Kind = cur.ID, cur.Kind
	next.Opacity = clampUnit(next.Opacity)
	s.replace(next)
}

func (s *Store) replace(l *Layer) {
	s.layers[l.ID] = l
	s.bus.Publish(event.LayerUpdated{ID: l.ID})
}

// Remove deletes a layer. If it was active, the new topmost layer becomes
// active.
func (s *Store) Remove(id string) {
	idx := s.IndexOf(id)
	if idx < 0 {
		s.logger.Debug("layer: remove of unknown layer ignored", "id", id)
		return
	}
	delete(s.layers, id)
	s.order = slices.Delete(s.order, idx, idx+1)
	_, wasSelected := s.selected[id]
	delete(s.selected, id)
	s.bus.Publish(event.LayerRemoved{ID: id})

	if s.active == id {
		s.active = ""
		if n := len(s.order); n > 0 {
			s.active = s.order[n-1]
			s.selected[s.active] = struct{}{}
		}
		s.publishSelection()
	} else if wasSelected {
		s.publishSelection()
	}
}

// Reorder replaces the order. newOrder must be a permutation of the current
// ids; anything else is ignored.
func (s *Store) Reorder(newOrder []string) {
	if !s.isPermutation(newOrder) {
		s.logger.Debug("layer: reorder with non-permutation ignored", "order", newOrder)
		return
	}
	s.order = slices.Clone(newOrder)
	s.publishOrder()
}

func (s *Store) isPermutation(ids []string) bool {
	if len(ids) != len(s.order) {
		return false
	}
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := s.layers[id]; !ok {
			return false
		}
		if _, dup := seen[id]; dup {
			return false
		}
		seen[id] = struct{}{}
	}
	return true
}

// MoveUp swaps the layer with the one above it.
func (s *Store) MoveUp(id string) {
	idx := s.IndexOf(id)
	if idx < 0 || idx == len(s.order)-1 {
		return
	}
	s.order[idx], s.order[idx+1] = s.order[idx+1], s.order[idx]
	s.publishOrder()
}

// MoveDown swaps the layer with the one below it.
func (s *Store) MoveDown(id string) {
	idx := s.IndexOf(id)
	if idx <= 0 {
		return
	}
	s.order[idx], s.order[idx-1] = s.order[idx-1], s.order[idx]
	s.publishOrder()
}

func (s *Store) publishOrder() {
	s.bus.Publish(event.LayersReordered{Order: s.Order()})
}

// Duplicate deep-copies a layer, gives the copy a new id and a " (Copy)"
// name suffix, and inserts it directly above the source. It returns nil for
// an unknown id.
func (s *Store) Duplicate(id string) *Layer {
	src, ok := s.layers[id]
	if !ok {
		s.logger.Debug("layer: duplicate of unknown layer ignored", "id", id)
		return nil
	}
	cp := src.Clone()
	cp.ID = ""
	cp.Name = src.Name + " (Copy)"
	return s.Insert(cp, s.IndexOf(id)+1)
}

// Reset replaces the whole collection. IDs are kept as given; duplicate ids
// after the first occurrence are dropped and empty ids are generated.
// Unknown active or selected ids are ignored.
func (s *Store) Reset(layers []*Layer, active string, selected []string) {
	s.layers = make(map[string]*Layer, len(layers))
	s.order = make([]string, 0, len(layers))
	s.selected = make(map[string]struct{})

	for _, l := range layers {
		if l == nil {
			continue
		}
		if l.ID == "" {
			l = l.Clone()
			l.ID = s.newID()
		}
		if _, dup := s.layers[l.ID]; dup {
			s.logger.Debug("layer: duplicate id dropped on reset", "id", l.ID)
			continue
		}
		s.layers[l.ID] = l
		s.order = append(s.order, l.ID)
	}
	for _, id := range selected {
		if _, ok := s.layers[id]; ok {
			s.selected[id] = struct{}{}
		}
	}
	s.active = ""
	if _, ok := s.layers[active]; ok {
		s.active = active
	}
	s.publishOrder()
	s.publishSelection()
}

// Clear removes every layer.
func (s *Store) Clear() {
	s.Reset(nil, "", nil)
}

// Select makes id the active layer. Without additive the previous selection
// is cleared first.
func (s *Store) Select(id string, additive bool) {
	if _, ok := s.layers[id]; !ok {
		s.logger.Debug("layer: select of unknown layer ignored", "id", id)
		return
	}
	if !additive {
		clear(s.selected)
	}
	s.selected[id] = struct{}{}
	s.active = id
	s.publishSelection()
}

func (s *Store) selectOnly(id string) {
	clear(s.selected)
	s.selected[id] = struct{}{}
	s.active = id
	s.publishSelection()
}

// Deselect removes id from the selection. If it was active, the active
// layer is cleared.
func (s *Store) Deselect(id string) {
	if _, ok := s.selected[id]; !ok {
		return
	}
	delete(s.selected, id)
	if s.active == id {
		s.active = ""
	}
	s.publishSelection()
}

// ClearSelection empties the selection and the active layer.
func (s *Store) ClearSelection() {
	clear(s.selected)
	s.active = ""
	s.publishSelection()
}

// SetActive makes id active without touching the rest of the selection.
func (s *Store) SetActive(id string) {
	if _, ok := s.layers[id]; !ok {
		return
	}
	s.active = id
	s.selected[id] = struct{}{}
	s.publishSelection()
}

// IsSelected reports whether id is in the selection.
func (s *Store) IsSelected(id string) bool {
	_, ok := s.selected[id]
	return ok
}

// SelectedIDs returns the selection in layer order.
func (s *Store) SelectedIDs() []string {
	out := make([]string, 0, len(s.selected))
	for _, id := range s.order {
		if _, ok := s.selected[id]; ok {
			out = append(out, id)
		}
	}
	return out
}

// ActiveID returns the active layer id, or "".
func (s *Store) ActiveID() string { return s.active }

// Active returns the active layer, or nil.
func (s *Store) Active() *Layer {
	return s.layers[s.active]
}

// TopmostOfKind returns the highest layer of kind k, or nil.
func (s *Store) TopmostOfKind(k Kind) *Layer {
	for i := len(s.order) - 1; i >= 0; i-- {
		if l := s.layers[s.order[i]]; l.Kind == k {
			return l
		}
	}
	return nil
}

func (s *Store) publishSelection() {
	s.bus.Publish(event.LayerSelected{Selected: s.SelectedIDs(), Active: s.active})
}
