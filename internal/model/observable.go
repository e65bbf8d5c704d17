package model

import (
	"slices"
	"sync"
	"trip-planner/internal/platform/slicex"
)

// Action tags a state change delivered to observers.
type Action string

const (
	ActionInit        Action = "INIT"
	ActionPatch       Action = "PATCH"
	ActionMinorUpdate Action = "MINOR_UPDATE"
	ActionMajorUpdate Action = "MAJOR_UPDATE"
)

// Observer receives the action tag and an optional payload.
type Observer[P any] func(action Action, payload P)

type subscription[P any] struct {
	id uint64
	fn Observer[P]
}

// Observable holds the current value of type T and a list of observers that
// are notified with payloads of type P.
//
// The value and the observer list are both replaced wholesale on change, so a
// snapshot taken by a reader stays valid after the lock is released.
// Observable is safe for concurrent use.
type Observable[T any, P any] struct {
	mu        sync.RWMutex
	value     T
	observers []subscription[P]
	nextID    uint64
}

func NewObservable[T any, P any](initial T) *Observable[T, P] {
	return &Observable[T, P]{value: initial}
}

// Subscribe registers fn and returns a function that removes it again.
// The returned function may be called any number of times.
func (o *Observable[T, P]) Subscribe(fn Observer[P]) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}

	o.mu.Lock()
	o.nextID++
	id := o.nextID
	o.observers = append(slices.Clip(o.observers), subscription[P]{id: id, fn: fn})
	o.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { o.unsubscribe(id) })
	}
}

func (o *Observable[T, P]) unsubscribe(id uint64) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.observers = slicex.RemoveFunc(o.observers, func(s subscription[P]) bool { return s.id == id })
}

// Notify calls every observer synchronously in subscription order.
// Changes to the subscription list made by an observer apply from the next call.
func (o *Observable[T, P]) Notify(action Action, payload P) {
	o.mu.RLock()
	observers := o.observers
	o.mu.RUnlock()

	for _, s := range observers {
		s.fn(action, payload)
	}
}

// Value returns the current snapshot. Callers must not modify it.
func (o *Observable[T, P]) Value() T {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.value
}

// Observers reports how many observers are registered.
func (o *Observable[T, P]) Observers() int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return len(o.observers)
}

// update replaces the value with next(current) while holding the lock.
func (o *Observable[T, P]) update(next func(current T) T) T {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.value = next(o.value)
	return o.value
}
