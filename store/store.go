// Package store holds the client-side state containers: immutable state
// values with pure transitions, and a Store that serializes updates and
// notifies subscribers.
package store

import "sync"

type Store[S any] struct {
	mu        sync.RWMutex
	state     S
	nextID    int
	listeners map[int]func(S)
}

func New[S any](initial S) *Store[S] {
	return &Store[S]{state: initial, listeners: make(map[int]func(S))}
}

func (s *Store[S]) Get() S {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Update applies fn to the current state under the write lock and then
// notifies subscribers with the new state.
func (s *Store[S]) Update(fn func(S) S) S {
	s.mu.Lock()
	s.state = fn(s.state)
	next := s.state
	listeners := make([]func(S), 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.Unlock()

	for _, l := range listeners {
		l(next)
	}
	return next
}

// TryUpdate is Update for transitions that can reject their input. On error
// the state is left as it was and nobody is notified.
func (s *Store[S]) TryUpdate(fn func(S) (S, error)) (S, error) {
	s.mu.Lock()
	next, err := fn(s.state)
	if err != nil {
		cur := s.state
		s.mu.Unlock()
		return cur, err
	}
	s.state = next
	listeners := make([]func(S), 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.Unlock()

	for _, l := range listeners {
		l(next)
	}
	return next, nil
}

func (s *Store[S]) Subscribe(fn func(S)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}

// Select reads a derived value from the current state.
func Select[S, T any](s *Store[S], fn func(S) T) T {
	return fn(s.Get())
}
