package canvas

import "testing"

func TestFrameQueueFlush(t *testing.T) {
	q := NewFrameQueue()
	var ran []int
	q.RequestFrame(func() {
		ran = append(ran, 1)
		q.RequestFrame(func() { ran = append(ran, 3) })
	})
	q.RequestFrame(func() { ran = append(ran, 2) })

	if n := q.Flush(); n != 2 {
		t.Errorf("Flush() = %d, want 2", n)
	}
	if len(ran) != 2 {
		t.Fatalf("ran = %v, want callbacks requested during Flush deferred", ran)
	}
	if q.Pending() != 1 {
		t.Errorf("Pending() = %d, want 1", q.Pending())
	}
	q.Flush()
	if len(ran) != 3 || ran[2] != 3 {
		t.Errorf("ran = %v, want [1 2 3]", ran)
	}
}

func TestImmediateDoesNotNest(t *testing.T) {
	var s Immediate
	depth, maxDepth := 0, 0
	calls := 0
	var fn func()
	fn = func() {
		depth++
		maxDepth = max(maxDepth, depth)
		calls++
		if calls < 3 {
			s.RequestFrame(fn)
		}
		depth--
	}
	s.RequestFrame(fn)
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
	if maxDepth != 1 {
		t.Errorf("max nesting = %d, want 1", maxDepth)
	}
}
