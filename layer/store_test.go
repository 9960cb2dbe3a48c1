package layer

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/ggedit/event"
	"github.com/gogpu/ggedit/geom"
)

func newTestStore() *Store {
	return NewStore(WithIDGenerator(Sequential("L")))
}

func addNamed(s *Store, names ...string) []string {
	ids := make([]string, len(names))
	for i, n := range names {
		l := New(KindShape)
		l.Name = n
		ids[i] = s.Add(l).ID
	}
	return ids
}

func names(s *Store) []string {
	var out []string
	for _, l := range s.Layers() {
		out = append(out, l.Name)
	}
	return out
}

func TestStoreAddActivates(t *testing.T) {
	s := newTestStore()
	var added []event.LayerAdded
	event.On(s.Bus(), func(e event.LayerAdded) { added = append(added, e) })

	ids := addNamed(s, "A", "B")
	assert.Equal(t, []string{"L1", "L2"}, ids)
	assert.Equal(t, "L2", s.ActiveID())
	assert.Equal(t, []string{"L2"}, s.SelectedIDs())
	require.Len(t, added, 2)
	assert.Equal(t, event.LayerAdded{ID: "L2", Kind: "shape", Index: 1}, added[1])
}

func TestStoreAddReplacesTakenID(t *testing.T) {
	s := newTestStore()
	a := New(KindText)
	a.ID = "same"
	first := s.Add(a)
	second := s.Add(a)
	assert.Equal(t, "same", first.ID)
	assert.NotEqual(t, "same", second.ID)
	assert.Equal(t, 2, s.Len())
}

func TestStoreDuplicate(t *testing.T) {
	s := newTestStore()
	ids := addNamed(s, "A", "B", "C")
	s.Update(ids[1], Patch{Transform: &geom.Transform{X: 5, ScaleX: 2, ScaleY: 2}})

	cp := s.Duplicate(ids[1])
	require.NotNil(t, cp)
	assert.Equal(t, []string{"A", "B", "B (Copy)", "C"}, names(s))
	assert.NotEqual(t, ids[1], cp.ID)
	assert.Equal(t, cp.ID, s.ActiveID())

	src, _ := s.Get(ids[1])
	assert.Equal(t, src.Transform, cp.Transform)
	assert.NotSame(t, src.Shape, cp.Shape)

	assert.Nil(t, s.Duplicate("missing"))
}

func TestStoreUpdateIsCopyOnWrite(t *testing.T) {
	s := newTestStore()
	id := addNamed(s, "A")[0]
	before, _ := s.Get(id)

	s.Update(id, Patch{Opacity: Ref(0.4), Visible: Ref(false)})
	after, _ := s.Get(id)

	assert.NotSame(t, before, after)
	assert.Equal(t, 1.0, before.Opacity)
	assert.Equal(t, 0.4, after.Opacity)
	assert.False(t, after.Visible)

	s.Update("missing", Patch{Opacity: Ref(0.1)})
	assert.Equal(t, 1, s.Len())
}

func TestStoreModifyKeepsIdentity(t *testing.T) {
	s := newTestStore()
	id := addNamed(s, "A")[0]
	s.Modify(id, func(l *Layer) {
		l.ID = "hijack"
		l.Kind = KindText
		l.Opacity = 3
		l.Shape.Width = 10
	})
	l, ok := s.Get(id)
	require.True(t, ok)
	assert.Equal(t, KindShape, l.Kind)
	assert.Equal(t, 1.0, l.Opacity)
	assert.Equal(t, 10.0, l.Shape.Width)
}

func TestStoreRemoveActiveFallsBackToTopmost(t *testing.T) {
	s := newTestStore()
	ids := addNamed(s, "A", "B", "C")
	s.Select(ids[2], false)
	s.Remove(ids[2])
	assert.Equal(t, ids[1], s.ActiveID())
	assert.True(t, s.IsSelected(ids[1]), "the new active layer is selected")
	assert.Equal(t, []string{ids[1]}, s.SelectedIDs())

	s.Select(ids[0], false)
	s.Remove(ids[1])
	assert.Equal(t, ids[0], s.ActiveID(), "removing an inactive layer keeps the active one")
	assert.Equal(t, []string{ids[0]}, s.SelectedIDs())

	s.Remove(ids[0])
	assert.Empty(t, s.ActiveID())
	assert.Nil(t, s.Active())
	assert.Empty(t, s.SelectedIDs())
}

func TestStoreRemoveActivePublishesSelection(t *testing.T) {
	s := newTestStore()
	ids := addNamed(s, "A", "B")

	var got []event.LayerSelected
	event.On(s.Bus(), func(e event.LayerSelected) { got = append(got, e) })
	s.Remove(ids[1])

	require.Len(t, got, 1)
	assert.Equal(t, event.LayerSelected{Selected: []string{ids[0]}, Active: ids[0]}, got[0])
}

func TestStoreReorder(t *testing.T) {
	s := newTestStore()
	ids := addNamed(s, "A", "B", "C")

	var orders [][]string
	event.On(s.Bus(), func(e event.LayersReordered) { orders = append(orders, e.Order) })

	s.Reorder([]string{ids[2], ids[0], ids[1]})
	assert.Equal(t, []string{"C", "A", "B"}, names(s))

	for _, bad := range [][]string{
		{ids[0], ids[1]},
		{ids[0], ids[0], ids[1]},
		{ids[0], ids[1], "x"},
		nil,
	} {
		s.Reorder(bad)
	}
	assert.Equal(t, []string{"C", "A", "B"}, names(s))
	assert.Len(t, orders, 1)
}

func TestStoreMoveUpDown(t *testing.T) {
	s := newTestStore()
	ids := addNamed(s, "A", "B", "C")
	s.MoveUp(ids[0])
	assert.Equal(t, []string{"B", "A", "C"}, names(s))
	s.MoveUp(ids[2]) // already on top
	s.MoveDown(ids[2])
	assert.Equal(t, []string{"B", "C", "A"}, names(s))
	s.MoveDown(ids[1]) // already at the bottom
	assert.Equal(t, []string{"B", "C", "A"}, names(s))
}

func TestStoreSelection(t *testing.T) {
	s := newTestStore()
	ids := addNamed(s, "A", "B", "C")

	s.Select(ids[0], false)
	s.Select(ids[2], true)
	assert.Equal(t, []string{ids[0], ids[2]}, s.SelectedIDs())
	assert.Equal(t, ids[2], s.ActiveID())

	s.Deselect(ids[2])
	assert.Equal(t, []string{ids[0]}, s.SelectedIDs())
	assert.Empty(t, s.ActiveID())

	s.SetActive(ids[1])
	assert.True(t, s.IsSelected(ids[1]))
	s.Select("missing", false)
	assert.Equal(t, ids[1], s.ActiveID())

	s.ClearSelection()
	assert.Empty(t, s.SelectedIDs())
}

func TestStoreReset(t *testing.T) {
	s := newTestStore()
	a, b := New(KindShape), New(KindText)
	a.ID, b.ID = "a", "b"
	dup := New(KindShape)
	dup.ID = "a"

	s.Reset([]*Layer{a, b, dup, New(KindDrawing)}, "b", []string{"b", "zzz"})
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, "b", s.ActiveID())
	assert.Equal(t, []string{"b"}, s.SelectedIDs())
	assert.Equal(t, b, s.TopmostOfKind(KindText))

	s.Clear()
	assert.Zero(t, s.Len())
	assert.Empty(t, s.ActiveID())
}

func TestStoreTopmostOfKind(t *testing.T) {
	s := newTestStore()
	first := s.Add(New(KindDrawing))
	s.Add(New(KindShape))
	second := s.Add(New(KindDrawing))
	assert.Equal(t, second.ID, s.TopmostOfKind(KindDrawing).ID)
	s.Remove(second.ID)
	assert.Equal(t, first.ID, s.TopmostOfKind(KindDrawing).ID)
	assert.Nil(t, s.TopmostOfKind(KindSticker))
}

// checkInvariants verifies that order and the layer map agree, the
// selection only names live layers and ids are unique.
func checkInvariants(t *testing.T, s *Store) {
	t.Helper()
	order := s.Order()
	require.Len(t, s.layers, len(order))
	seen := map[string]bool{}
	for _, id := range order {
		require.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
		l, ok := s.Get(id)
		require.True(t, ok)
		require.Equal(t, id, l.ID)
	}
	for id := range s.selected {
		require.True(t, seen[id], "selection holds removed id %s", id)
	}
	if s.ActiveID() != "" {
		require.True(t, seen[s.ActiveID()], "active id %s not in store", s.ActiveID())
	}
}

func TestStoreRandomOperations(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	s := newTestStore()
	pick := func() string {
		order := s.Order()
		if len(order) == 0 || rng.IntN(10) == 0 {
			return "ghost"
		}
		return order[rng.IntN(len(order))]
	}

	for range 2000 {
		switch rng.IntN(9) {
		case 0, 1:
			s.Add(New([]Kind{KindImage, KindText, KindShape, KindDrawing}[rng.IntN(4)]))
		case 2:
			s.Remove(pick())
		case 3:
			s.Duplicate(pick())
		case 4:
			order := s.Order()
			rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
			if rng.IntN(4) == 0 && len(order) > 0 {
				order = order[1:]
			}
			s.Reorder(order)
		case 5:
			s.MoveUp(pick())
		case 6:
			s.MoveDown(pick())
		case 7:
			s.Select(pick(), rng.IntN(2) == 0)
		case 8:
			s.Update(pick(), Patch{Opacity: Ref(rng.Float64())})
		}
		checkInvariants(t, s)
	}
}

func TestSequentialIDsNeverRepeat(t *testing.T) {
	gen := Sequential("x")
	seen := map[string]bool{}
	for range 100 {
		id := gen()
		if seen[id] {
			t.Fatalf("Sequential repeated %q", id)
		}
		seen[id] = true
	}
}

func TestDefaultIDGenerator(t *testing.T) {
	gen := DefaultIDGenerator()
	a, b := gen(), gen()
	if len(a) != len("layer_")+36 || a[:6] != "layer_" {
		t.Errorf("DefaultIDGenerator() = %q, want layer_<uuid>", a)
	}
	if a == b {
		t.Errorf("DefaultIDGenerator repeated %q", a)
	}
}
