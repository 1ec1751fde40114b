package cache

import (
	"testing"
	"time"
)

type fakeClock struct{ t time.Time }

func (f *fakeClock) now() time.Time { return f.t }

func newTestLRU(maxSize int, ttl time.Duration) (*LRUCache[string], *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
	c := NewLRUCache[string](maxSize, ttl)
	c.now = clock.now
	return c, clock
}

func TestLRUCacheEvictsLeastRecentlyUsed(t *testing.T) {
	c, _ := newTestLRU(2, time.Hour)
	c.Set("a", "1")
	c.Set("b", "2")
	if _, ok := c.Get("a"); !ok {
		t.Fatal("a should be cached")
	}
	c.Set("c", "3")

	if _, ok := c.Get("b"); ok {
		t.Error("b should have been evicted")
	}
	if v, ok := c.Get("a"); !ok || v != "1" {
		t.Errorf("Get(a) = %q, %v", v, ok)
	}
	if c.Size() != 2 {
		t.Errorf("Size() = %d, want 2", c.Size())
	}
}

func TestLRUCacheExpiry(t *testing.T) {
	c, clock := newTestLRU(10, time.Minute)
	c.Set("a", "1")
	c.Set("b", "2")

	clock.t = clock.t.Add(30 * time.Second)
	c.Set("b", "3") // refreshes b only

	clock.t = clock.t.Add(45 * time.Second)
	if _, ok := c.Get("a"); ok {
		t.Error("a should have expired")
	}
	if v, ok := c.Get("b"); !ok || v != "3" {
		t.Errorf("Get(b) = %q, %v", v, ok)
	}

	clock.t = clock.t.Add(time.Hour)
	if n := c.CleanExpired(); n != 1 {
		t.Errorf("CleanExpired() = %d, want 1", n)
	}
	if c.Size() != 0 {
		t.Errorf("Size() = %d, want 0", c.Size())
	}
}

func TestExportLog(t *testing.T) {
	log := NewExportLog(8, time.Hour)

	fp1, err := Fingerprint([]string{"txn_1", "12.50"})
	if err != nil {
		t.Fatal(err)
	}
	fp2, _ := Fingerprint([]string{"txn_1", "12.51"})
	if fp1 == fp2 {
		t.Fatal("different rows should not share a fingerprint")
	}

	if log.Unchanged("Transactions", fp1) {
		t.Error("nothing recorded yet")
	}
	log.Record("Transactions", fp1)
	if !log.Unchanged("Transactions", fp1) {
		t.Error("same fingerprint should be unchanged")
	}
	if log.Unchanged("Transactions", fp2) {
		t.Error("new fingerprint should be a change")
	}
	log.Forget("Transactions")
	if log.Unchanged("Transactions", fp1) || log.Len() != 0 {
		t.Error("Forget should drop the entry")
	}
}
