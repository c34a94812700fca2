// Package signals provides observable values. No build tags, so everything
// here is testable outside WASM.
package signals

import "sync"

// Signal[T] holds a value and notifies subscribers with each new value.
type Signal[T any] struct {
	mu     sync.RWMutex
	value  T
	nextID int
	subs   []subscription[T]
}

type subscription[T any] struct {
	id int
	fn func(T)
}

// NewSignal creates a Signal with an initial value.
func NewSignal[T any](initial T) *Signal[T] {
	return &Signal[T]{value: initial}
}

// Get returns the current value.
func (s *Signal[T]) Get() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

// Set stores v and then calls every subscriber, in subscription order, with v.
// Subscribers run without the lock held and may call Get, Set or Subscribe.
func (s *Signal[T]) Set(v T) {
	s.Publish(v)()
}

// Publish stores v and returns a func that notifies the subscribers present
// at the time of the call. Callers holding their own locks can store under
// them and notify after releasing them.
func (s *Signal[T]) Publish(v T) (notify func()) {
	s.mu.Lock()
	s.value = v
	subs := make([]subscription[T], len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	return func() {
		for _, sub := range subs {
			sub.fn(v)
		}
	}
}

// Subscribe registers fn for future values.
// The returned func removes it and is safe to call more than once.
func (s *Signal[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, subscription[T]{id: id, fn: fn})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

// Len returns the number of subscribers.
func (s *Signal[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subs)
}
