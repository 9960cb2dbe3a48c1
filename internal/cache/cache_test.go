package cache

import (
	"sync"
	"testing"
)

func TestCacheGetSet(t *testing.T) {
	c := New[string, int](4)
	if _, ok := c.Get("a"); ok {
		t.Fatal("Get on empty cache succeeded")
	}
	c.Set("a", 1)
	c.Set("a", 2)
	if v, ok := c.Get("a"); !ok || v != 2 {
		t.Errorf("Get(a) = %v, %v, want 2, true", v, ok)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
}

func TestCacheEvictsLeastRecentlyUsed(t *testing.T) {
	c := New[int, int](3)
	for i := range 3 {
		c.Set(i, i)
	}
	c.Get(0) // 1 is now the oldest
	c.Set(3, 3)

	if _, ok := c.Get(1); ok {
		t.Error("least recently used key survived eviction")
	}
	for _, k := range []int{0, 2, 3} {
		if _, ok := c.Get(k); !ok {
			t.Errorf("Get(%d) missing", k)
		}
	}
	if s := c.Stats(); s.Evictions != 1 || s.Len != 3 {
		t.Errorf("Stats() = %+v, want 1 eviction and 3 entries", s)
	}
}

func TestCacheDeleteAndClear(t *testing.T) {
	c := New[string, int](0)
	if got := c.Stats().Capacity; got != 1 {
		t.Errorf("Capacity = %d, want 1", got)
	}

	c = New[string, int](8)
	c.Set("a", 1)
	c.Set("b", 2)
	if !c.Delete("a") || c.Delete("a") {
		t.Error("Delete reported the wrong presence")
	}
	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Len() after Clear = %d, want 0", c.Len())
	}
	c.Set("c", 3)
	if v, _ := c.Get("c"); v != 3 {
		t.Errorf("Get(c) after Clear = %d, want 3", v)
	}
}

func TestCacheStats(t *testing.T) {
	c := New[string, int](2)
	c.Set("a", 1)
	c.Get("a")
	c.Get("a")
	c.Get("b")
	s := c.Stats()
	if s.Hits != 2 || s.Misses != 1 {
		t.Errorf("Stats() = %+v, want 2 hits and 1 miss", s)
	}
	if want := 2.0 / 3; s.HitRate != want {
		t.Errorf("HitRate = %v, want %v", s.HitRate, want)
	}
}

func TestCacheConcurrent(t *testing.T) {
	c := New[int, int](16)
	var wg sync.WaitGroup
	for g := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 200 {
				c.Set((g*200+i)%32, i)
				c.Get(i % 32)
			}
		}()
	}
	wg.Wait()
	if c.Len() > 16 {
		t.Errorf("Len() = %d exceeds capacity 16", c.Len())
	}
}
