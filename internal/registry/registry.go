// Package registry is a lock-guarded map from tracked window to border handle.
package registry

import "sync"

// Registry maps keys to values under one mutex. Values are handles; callers
// never reach through them while holding the lock.
type Registry[K comparable, V comparable] struct {
	mu    sync.Mutex
	items map[K]V
}

func New[K comparable, V comparable]() *Registry[K, V] {
	return &Registry[K, V]{items: make(map[K]V)}
}

func (r *Registry[K, V]) Lookup(k K) (V, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.items[k]
	return v, ok
}

// Insert stores v only if k is absent and reports whether it did.
func (r *Registry[K, V]) Insert(k K, v V) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[k]; ok {
		return false
	}
	r.items[k] = v
	return true
}

// RemoveIfPresent deletes k only while it still maps to v, so a stale owner
// cannot remove its replacement.
func (r *Registry[K, V]) RemoveIfPresent(k K, v V) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur, ok := r.items[k]; !ok || cur != v {
		return false
	}
	delete(r.items, k)
	return true
}

// Entry is one key/value pair of a snapshot.
type Entry[K comparable, V comparable] struct {
	Key   K
	Value V
}

// Snapshot copies the current contents.
func (r *Registry[K, V]) Snapshot() []Entry[K, V] {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Entry[K, V], 0, len(r.items))
	for k, v := range r.items {
		out = append(out, Entry[K, V]{Key: k, Value: v})
	}
	return out
}

func (r *Registry[K, V]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}
