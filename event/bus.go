// Package event provides the typed publish/subscribe bus every editor
// component uses to announce state changes.
//
// A component owns its own Bus and publishes plain value events on it. The
// editor forwards each component bus onto its public bus, so listeners never
// reach into component internals.
//
//	bus := event.NewBus()
//	sub := event.On(bus, func(e event.ZoomChanged) {
//	    fmt.Println("zoom is now", e.Zoom)
//	})
//	defer sub.Cancel()
package event

import (
	"sync"
	"sync/atomic"
)

// Topic names an event kind. Topics use the "area:action" form.
type Topic string

// Event is implemented by every payload published on a Bus.
type Event interface {
	Topic() Topic
}

// Handler receives published events.
type Handler func(Event)

// Wildcard subscribes a handler to every topic.
const Wildcard Topic = "*"

type subscriber struct {
	id uint64
	fn Handler
}

// Bus is a synchronous publish/subscribe hub.
//
// Publish calls handlers on the publishing goroutine, in subscription order.
// Handlers may subscribe, cancel or publish from inside a callback.
// Bus is safe for concurrent use; the editor itself only drives it from one
// goroutine.
type Bus struct {
	mu     sync.RWMutex
	subs   map[Topic][]subscriber
	nextID atomic.Uint64
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[Topic][]subscriber)}
}

// Subscription is returned by Subscribe and On. Cancel is idempotent.
type Subscription struct {
	once   sync.Once
	cancel func()
}

// Cancel removes the handler from the bus.
func (s *Subscription) Cancel() {
	if s == nil {
		return
	}
	s.once.Do(s.cancel)
}

// Subscribe registers fn for topic. Use Wildcard to receive everything.
func (b *Bus) Subscribe(topic Topic, fn Handler) *Subscription {
	id := b.nextID.Add(1)

	b.mu.Lock()
	b.subs[topic] = append(b.subs[topic], subscriber{id: id, fn: fn})
	b.mu.Unlock()

	return &Subscription{cancel: func() { b.remove(topic, id) }}
}

func (b *Bus) remove(topic Topic, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	list := b.subs[topic]
	for i, s := range list {
		if s.id == id {
			// Copy so a Publish iterating the old slice is unaffected.
			next := make([]subscriber, 0, len(list)-1)
			next = append(next, list[:i]...)
			next = append(next, list[i+1:]...)
			b.subs[topic] = next
			return
		}
	}
}

// Publish delivers e to the topic's handlers, then to wildcard handlers.
// There is no acknowledgement and no error path.
func (b *Bus) Publish(e Event) {
	if e == nil {
		return
	}
	b.mu.RLock()
	direct := b.subs[e.Topic()]
	wild := b.subs[Wildcard]
	b.mu.RUnlock()

	for _, s := range direct {
		s.fn(e)
	}
	for _, s := range wild {
		s.fn(e)
	}
}

// HandlerCount returns the number of handlers registered for topic.
func (b *Bus) HandlerCount(topic Topic) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[topic])
}

// Forward republishes every event from b onto dst.
func (b *Bus) Forward(dst *Bus) *Subscription {
	return b.Subscribe(Wildcard, dst.Publish)
}

// On subscribes a handler typed to a concrete event payload. The topic is
// taken from the zero value of T.
func On[T Event](b *Bus, fn func(T)) *Subscription {
	var zero T
	return b.Subscribe(zero.Topic(), func(e Event) {
		if v, ok := e.(T); ok {
			fn(v)
		}
	})
}
