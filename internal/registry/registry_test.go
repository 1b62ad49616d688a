package registry

import (
	"sync"
	"testing"
)

type handle struct{ id int }

func TestInsert_OnlyWhenAbsent(t *testing.T) {
	r := New[uint32, *handle]()
	first := &handle{1}
	if !r.Insert(10, first) {
		t.Fatalf("expected first insert to succeed")
	}
	if r.Insert(10, &handle{2}) {
		t.Fatalf("expected duplicate insert to fail")
	}
	got, ok := r.Lookup(10)
	if !ok || got != first {
		t.Fatalf("expected original handle to remain")
	}
	if r.Len() != 1 {
		t.Fatalf("expected 1 entry, got %d", r.Len())
	}
}

func TestRemoveIfPresent_ChecksIdentity(t *testing.T) {
	r := New[uint32, *handle]()
	old := &handle{1}
	r.Insert(10, old)
	r.RemoveIfPresent(10, old)

	replacement := &handle{2}
	r.Insert(10, replacement)
	if r.RemoveIfPresent(10, old) {
		t.Fatalf("expected stale handle not to remove the replacement")
	}
	if got, _ := r.Lookup(10); got != replacement {
		t.Fatalf("expected replacement to stay registered")
	}
	if !r.RemoveIfPresent(10, replacement) {
		t.Fatalf("expected matching remove to succeed")
	}
	if _, ok := r.Lookup(10); ok {
		t.Fatalf("expected entry gone")
	}
}

func TestSnapshot_IsACopy(t *testing.T) {
	r := New[uint32, *handle]()
	for i := uint32(0); i < 5; i++ {
		r.Insert(i, &handle{int(i)})
	}
	snap := r.Snapshot()
	r.RemoveIfPresent(0, snap[0].Value)
	if len(snap) != 5 {
		t.Fatalf("expected snapshot unaffected by later removal, got %d", len(snap))
	}
}

func TestConcurrentInsertRemove(t *testing.T) {
	r := New[uint32, *handle]()
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(id uint32) {
			defer wg.Done()
			h := &handle{int(id)}
			r.Insert(id%8, h)
			r.Snapshot()
			r.RemoveIfPresent(id%8, h)
		}(uint32(i))
	}
	wg.Wait()
	if r.Len() > 8 {
		t.Fatalf("expected at most 8 entries, got %d", r.Len())
	}
}
