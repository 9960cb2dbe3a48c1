// Package history keeps a linear undo/redo log of encoded editor snapshots.
//
// Each entry holds a self-contained byte snapshot. Live image handles never
// enter the log: Encode writes them into a payload arena and Decode rebuilds
// them, so an entry can be restored any number of times.
package history

import (
	"context"
	"log/slog"
	"slices"
	"time"

	"github.com/gogpu/gg"
	"github.com/google/uuid"

	"github.com/gogpu/ggedit/event"
	"github.com/gogpu/ggedit/internal/cache"
	"github.com/gogpu/ggedit/internal/logx"
)

// DefaultMaxSteps is the log depth used when none is configured.
const DefaultMaxSteps = 50

// DefaultPayloadCache is the number of encoded image payloads a Manager
// keeps for reuse by later snapshots.
const DefaultPayloadCache = 64

// Entry is one recorded step.
type Entry struct {
	ID        string
	Label     string
	Timestamp time.Time
	Data      []byte
}

// Info describes e without its payload.
func (e Entry) Info() event.EntryInfo {
	return event.EntryInfo{ID: e.ID, Label: e.Label, Timestamp: e.Timestamp}
}

// Option configures a Manager.
type Option func(*Manager)

// WithMaxSteps caps the number of entries. Values below 1 are ignored.
func WithMaxSteps(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.maxSteps = n
		}
	}
}

// WithCodec sets the image payload codec.
func WithCodec(c ImageCodec) Option {
	return func(m *Manager) { m.codec = c }
}

// WithWorkers bounds concurrent payload decodes.
func WithWorkers(n int) Option {
	return func(m *Manager) { m.workers = n }
}

// WithPayloadCache sets how many encoded payloads are kept so handles
// shared between snapshots are encoded once. 0 disables the cache.
func WithPayloadCache(n int) Option {
	return func(m *Manager) { m.cacheSize = n }
}

// WithBus publishes history events on b.
func WithBus(b *event.Bus) Option {
	return func(m *Manager) { m.bus = b }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// WithClock overrides the entry timestamp source.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithIDGenerator overrides the entry id source.
func WithIDGenerator(gen func() string) Option {
	return func(m *Manager) { m.newID = gen }
}

// Manager is the undo/redo log. It is not safe for concurrent use; Decode
// may run on any goroutine.
type Manager struct {
	entries  []Entry
	cursor   int
	maxSteps int
	batch    int
	gen      uint64

	codec     ImageCodec
	workers   int
	cacheSize int
	payloads  *payloadCache
	bus       *event.Bus
	logger    *slog.Logger
	now       func() time.Time
	newID     func() string
}

// New creates an empty log.
func New(opts ...Option) *Manager {
	m := &Manager{
		cursor:    -1,
		maxSteps:  DefaultMaxSteps,
		codec:     PNGCodec{},
		cacheSize: DefaultPayloadCache,
		now:       time.Now,
		newID:     func() string { return "hist_" + uuid.Must(uuid.NewV7()).String() },
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.bus == nil {
		m.bus = event.NewBus()
	}
	m.logger = logx.OrNop(m.logger)
	if m.cacheSize > 0 {
		m.payloads = cache.New[*gg.ImageBuf, []byte](m.cacheSize)
	}
	return m
}

// Bus returns the bus the manager publishes on.
func (m *Manager) Bus() *event.Bus { return m.bus }

// MaxSteps returns the depth cap.
func (m *Manager) MaxSteps() int { return m.maxSteps }

// Encode serializes st with the manager's codec.
func (m *Manager) Encode(st State) ([]byte, error) {
	return encode(st, m.codec, m.payloads)
}

// Decode rebuilds a State with the manager's codec and worker bound.
func (m *Manager) Decode(ctx context.Context, data []byte) (State, error) {
	return decode(ctx, data, m.codec, m.workers, m.payloads)
}

// PayloadStats reports the encoded payload cache counters.
func (m *Manager) PayloadStats() cache.Stats {
	if m.payloads == nil {
		return cache.Stats{}
	}
	return m.payloads.Stats()
}

// Push records st under label. Entries after the cursor are discarded and
// the oldest entry is evicted once the cap is exceeded. While a batch is
// open Push does nothing.
func (m *Manager) Push(label string, st State) error {
	if m.batch > 0 {
		m.logger.Debug("history: push suppressed by batch", "label", label)
		return nil
	}
	data, err := m.Encode(st)
	if err != nil {
		return err
	}
	m.entries = append(m.entries[:m.cursor+1], Entry{
		ID:        m.newID(),
		Label:     label,
		Timestamp: m.now(),
		Data:      data,
	})
	m.cursor = len(m.entries) - 1
	if over := len(m.entries) - m.maxSteps; over > 0 {
		m.entries = slices.Delete(m.entries, 0, over)
		m.cursor -= over
	}
	m.gen++
	m.logger.Debug("history: push", "label", label, "entries", len(m.entries), "bytes", len(data))
	m.publishChange()
	return nil
}

// Undo moves the cursor back and returns the entry now current. It
// returns false at the oldest entry.
func (m *Manager) Undo() (Entry, bool) {
	if !m.CanUndo() {
		return Entry{}, false
	}
	m.cursor--
	m.gen++
	e := m.entries[m.cursor]
	m.bus.Publish(event.HistoryUndone{Entry: e.Info()})
	m.publishChange()
	return e, true
}

// Redo moves the cursor forward and returns the entry now current. It
// returns false at the newest entry.
func (m *Manager) Redo() (Entry, bool) {
	if !m.CanRedo() {
		return Entry{}, false
	}
	m.cursor++
	m.gen++
	e := m.entries[m.cursor]
	m.bus.Publish(event.HistoryRedone{Entry: e.Info()})
	m.publishChange()
	return e, true
}

// CanUndo reports whether an older entry exists.
func (m *Manager) CanUndo() bool { return m.cursor > 0 }

// CanRedo reports whether a newer entry exists.
func (m *Manager) CanRedo() bool { return m.cursor >= 0 && m.cursor < len(m.entries)-1 }

// StartBatch suppresses Push until the matching EndBatch. Batches nest.
func (m *Manager) StartBatch() { m.batch++ }

// EndBatch closes a batch. Closing the outermost batch pushes st once.
// Without an open batch it is a plain Push.
func (m *Manager) EndBatch(label string, st State) error {
	if m.batch > 0 {
		m.batch--
	}
	if m.batch > 0 {
		return nil
	}
	return m.Push(label, st)
}

// CancelBatch closes every open batch without pushing.
func (m *Manager) CancelBatch() { m.batch = 0 }

// InBatch reports whether a batch is open.
func (m *Manager) InBatch() bool { return m.batch > 0 }

// Clear drops every entry and the payload cache.
func (m *Manager) Clear() {
	if m.payloads != nil {
		m.payloads.Clear()
	}
	m.entries = nil
	m.cursor = -1
	m.batch = 0
	m.gen++
	m.publishChange()
}

// Entries returns the log oldest first.
func (m *Manager) Entries() []Entry { return slices.Clone(m.entries) }

// Current returns the entry at the cursor.
func (m *Manager) Current() (Entry, bool) {
	if m.cursor < 0 {
		return Entry{}, false
	}
	return m.entries[m.cursor], true
}

// Len returns the number of entries.
func (m *Manager) Len() int { return len(m.entries) }

// Cursor returns the index of the current entry, or -1.
func (m *Manager) Cursor() int { return m.cursor }

// Generation changes whenever the log or its cursor moves. A caller that
// decodes an entry asynchronously compares generations to detect that its
// result has been superseded.
func (m *Manager) Generation() uint64 { return m.gen }

func (m *Manager) publishChange() {
	m.bus.Publish(event.HistoryChanged{CanUndo: m.CanUndo(), CanRedo: m.CanRedo()})
}
