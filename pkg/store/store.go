// Package store provides Store, a mutable value container that notifies
// subscribers when its value changes. It is the building block for shared
// reactive state: components subscribe through nano.UseStore and are
// re-rendered in the next scheduler pass after a change.
//
// Equality: a Set only notifies when the new value differs from the current
// one. Values whose dynamic type is comparable are compared with ==, which is
// value equality for numbers, strings and structs and reference equality for
// pointers, channels and interfaces holding them. Slices, maps and funcs are
// not comparable and always count as a change. WithEquals overrides this.
package store

import (
	"reflect"
	"sync"
	"sync/atomic"
)

// Subscriber receives the new and the previous value of a change.
type Subscriber[T any] func(next, prev T)

type subscription[T any] struct {
	fn     Subscriber[T]
	active atomic.Bool
}

// Store is a subscribable value container. It is safe for concurrent use;
// subscribers run synchronously on the goroutine that changed the value.
type Store[T any] struct {
	mu    sync.RWMutex
	value T
	equal func(a, b T) bool

	subMu sync.Mutex
	subs  []*subscription[T]
}

// New creates a store holding initial.
func New[T any](initial T) *Store[T] {
	return &Store[T]{value: initial}
}

// WithEquals returns the store configured with a custom equality function.
func (s *Store[T]) WithEquals(fn func(a, b T) bool) *Store[T] {
	s.mu.Lock()
	s.equal = fn
	s.mu.Unlock()
	return s
}

// Get returns the current value.
func (s *Store[T]) Get() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

// Set replaces the value. Subscribers are notified when next differs from
// the current value. It reports whether a notification was sent.
func (s *Store[T]) Set(next T) bool {
	s.mu.Lock()
	prev := s.value
	s.value = next
	changed := !s.equals(prev, next)
	s.mu.Unlock()

	if changed {
		s.notify(next, prev)
	}
	return changed
}

// Update atomically derives the next value from the current one.
func (s *Store[T]) Update(fn func(T) T) bool {
	s.mu.Lock()
	prev := s.value
	next := fn(prev)
	s.value = next
	changed := !s.equals(prev, next)
	s.mu.Unlock()

	if changed {
		s.notify(next, prev)
	}
	return changed
}

// Subscribe registers fn and returns a function that removes it. A
// subscription added while a notification is running does not receive that
// notification. Removal takes effect immediately, including for a
// notification already in progress. The returned function is idempotent.
func (s *Store[T]) Subscribe(fn Subscriber[T]) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}
	sub := &subscription[T]{fn: fn}
	sub.active.Store(true)

	s.subMu.Lock()
	s.subs = append(s.subs, sub)
	s.subMu.Unlock()

	return func() {
		if !sub.active.Swap(false) {
			return
		}
		s.subMu.Lock()
		defer s.subMu.Unlock()
		for i, existing := range s.subs {
			if existing == sub {
				s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

// Len returns the number of active subscribers.
func (s *Store[T]) Len() int {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	return len(s.subs)
}

// notify calls every subscriber registered at the time of the call, in
// subscription order. Panics propagate to the caller of Set.
func (s *Store[T]) notify(next, prev T) {
	s.subMu.Lock()
	subs := make([]*subscription[T], len(s.subs))
	copy(subs, s.subs)
	s.subMu.Unlock()

	for _, sub := range subs {
		if sub.active.Load() {
			sub.fn(next, prev)
		}
	}
}

func (s *Store[T]) equals(a, b T) bool {
	if s.equal != nil {
		return s.equal(a, b)
	}
	return defaultEquals(a, b)
}

// defaultEquals compares with == when the dynamic types allow it. Values that
// cannot be compared are never equal.
func defaultEquals[T any](a, b T) bool {
	av, bv := any(a), any(b)
	if av == nil || bv == nil {
		return av == nil && bv == nil
	}
	ra := reflect.ValueOf(av)
	if ra.Type() != reflect.TypeOf(bv) {
		return false
	}
	if !ra.Comparable() || !reflect.ValueOf(bv).Comparable() {
		return false
	}
	return av == bv
}
