// Package timer runs per-window repeating animation timers, sharded by
// window id so unrelated windows do not contend on one lock.
package timer

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrTimerExists is returned by Add when the id already has a running timer.
var ErrTimerExists = errors.New("timer already running")

const shardCount = 16

type entry struct {
	stop chan struct{}
	done chan struct{}
}

type shard struct {
	mu     sync.Mutex
	timers map[uint32]*entry
}

// Manager owns every running timer.
type Manager struct {
	shards [shardCount]shard
}

func New() *Manager {
	m := &Manager{}
	for i := range m.shards {
		m.shards[i].timers = make(map[uint32]*entry)
	}
	return m
}

func (m *Manager) shard(id uint32) *shard {
	return &m.shards[id%shardCount]
}

// Add starts a timer calling fire every interval. fire runs on the timer's
// goroutine and must not block.
func (m *Manager) Add(id uint32, interval time.Duration, fire func()) error {
	if interval <= 0 {
		return fmt.Errorf("add timer %d: interval must be positive, got %v", id, interval)
	}
	s := m.shard(id)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.timers[id]; ok {
		return fmt.Errorf("add timer %d: %w", id, ErrTimerExists)
	}

	e := &entry{stop: make(chan struct{}), done: make(chan struct{})}
	s.timers[id] = e
	go run(e, interval, fire)
	return nil
}

// Remove stops the timer for id and waits for its goroutine to exit. It
// reports whether a timer was running.
func (m *Manager) Remove(id uint32) bool {
	s := m.shard(id)
	s.mu.Lock()
	e, ok := s.timers[id]
	delete(s.timers, id)
	s.mu.Unlock()

	if !ok {
		return false
	}
	close(e.stop)
	<-e.done
	return true
}

func (m *Manager) Has(id uint32) bool {
	s := m.shard(id)
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.timers[id]
	return ok
}

// Len returns the number of running timers.
func (m *Manager) Len() int {
	n := 0
	for i := range m.shards {
		s := &m.shards[i]
		s.mu.Lock()
		n += len(s.timers)
		s.mu.Unlock()
	}
	return n
}

// StopAll stops every timer.
func (m *Manager) StopAll() {
	for i := range m.shards {
		s := &m.shards[i]
		s.mu.Lock()
		ids := make([]uint32, 0, len(s.timers))
		for id := range s.timers {
			ids = append(ids, id)
		}
		s.mu.Unlock()
		for _, id := range ids {
			m.Remove(id)
		}
	}
}

// run fires on a fixed schedule. Ticks missed while fire ran late are
// dropped rather than replayed.
func run(e *entry, interval time.Duration, fire func()) {
	defer close(e.done)

	next := time.Now().Add(interval)
	t := time.NewTimer(interval)
	defer t.Stop()

	for {
		select {
		case <-e.stop:
			return
		case <-t.C:
		}

		fire()

		now := time.Now()
		next = next.Add(interval)
		if !next.After(now) {
			next = now.Add(interval)
		}
		t.Reset(next.Sub(now))
	}
}
