// Package store provides a small observable state container. State is
// replaced as a whole; subscribers are notified synchronously, in
// subscription order, after each change has been committed.
package store

import (
	"sync"
)

// Listener is called with the new and the previous state.
type Listener[S any] func(state, prev S)

type subscription[S any] struct {
	id int
	fn Listener[S]
}

// Store holds a value of type S. It is safe for concurrent use.
type Store[S any] struct {
	mu     sync.RWMutex
	state  S
	subs   []subscription[S]
	nextID int
	// serializes notification so listeners observe changes in order
	notifyMu sync.Mutex
}

// New returns a Store holding initial.
func New[S any](initial S) *Store[S] {
	return &Store[S]{state: initial}
}

// Get returns the current state.
func (s *Store[S]) Get() S {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Set replaces the state and notifies subscribers.
func (s *Store[S]) Set(state S) {
	s.Update(func(S) S { return state })
}

// Update replaces the state with fn applied to the current state.
// fn must not call back into the store.
func (s *Store[S]) Update(fn func(S) S) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	prev := s.state
	s.state = fn(prev)
	next := s.state
	subs := append([]subscription[S](nil), s.subs...)
	s.mu.Unlock()

	for _, sub := range subs {
		sub.fn(next, prev)
	}
}

// Subscribe registers fn and returns a function that removes it.
// Calling the returned function more than once is harmless. Listeners
// must not call Set or Update.
func (s *Store[S]) Subscribe(fn Listener[S]) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, subscription[S]{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, sub := range s.subs {
				if sub.id == id {
					s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
					return
				}
			}
		})
	}
}

// Len returns the number of subscribers.
func (s *Store[S]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subs)
}
