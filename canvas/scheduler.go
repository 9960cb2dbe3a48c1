package canvas

// FrameScheduler defers a callback to the host's next frame tick.
//
// Implementations decide when fn runs but must never run two callbacks at
// the same time or on another goroutine than the editor's.
type FrameScheduler interface {
	RequestFrame(fn func())
}

// FrameQueue collects frame callbacks until the host calls Flush, typically
// once per vsync or event-loop iteration.
type FrameQueue struct {
	queue []func()
}

// NewFrameQueue returns an empty queue.
func NewFrameQueue() *FrameQueue {
	return &FrameQueue{}
}

// RequestFrame implements FrameScheduler.
func (q *FrameQueue) RequestFrame(fn func()) {
	q.queue = append(q.queue, fn)
}

// Pending returns the number of queued callbacks.
func (q *FrameQueue) Pending() int { return len(q.queue) }

// Flush runs the callbacks queued before the call. Callbacks they request
// wait for the next Flush. It returns how many callbacks ran.
func (q *FrameQueue) Flush() int {
	batch := q.queue
	q.queue = nil
	for _, fn := range batch {
		fn()
	}
	return len(batch)
}

// Immediate runs callbacks on the caller's turn. A request made while a
// callback is running is deferred until that callback returns, so frames
// never nest.
type Immediate struct {
	running bool
	queue   []func()
}

// RequestFrame implements FrameScheduler.
func (s *Immediate) RequestFrame(fn func()) {
	s.queue = append(s.queue, fn)
	if s.running {
		return
	}
	s.running = true
	defer func() { s.running = false }()
	for len(s.queue) > 0 {
		next := s.queue[0]
		s.queue = s.queue[1:]
		next()
	}
}
