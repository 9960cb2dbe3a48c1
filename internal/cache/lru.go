package cache

// lruList is an intrusive doubly-linked list of entries, most recently
// used at the head. Callers synchronize.
type lruList[K comparable, V any] struct {
	head, tail *entry[K, V]
	len        int
}

func (l *lruList[K, V]) pushFront(e *entry[K, V]) {
	e.prev, e.next = nil, l.head
	if l.head != nil {
		l.head.prev = e
	} else {
		l.tail = e
	}
	l.head = e
	l.len++
}

func (l *lruList[K, V]) moveToFront(e *entry[K, V]) {
	if e == l.head {
		return
	}
	l.unlink(e)
	l.pushFront(e)
}

// unlink removes e and clears its links.
func (l *lruList[K, V]) unlink(e *entry[K, V]) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		l.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		l.tail = e.prev
	}
	e.prev, e.next = nil, nil
	l.len--
}
