package ecs

import (
	"fmt"
	"iter"
)

// DeferredMap is a keyed collection whose structural changes are buffered until Update
// is called. Queries and iteration only ever observe the committed state, which makes it
// safe to stage additions and removals while ranging over the map.
type DeferredMap[K comparable, V comparable] struct {
	items    map[K]V
	adds     []deferredPair[K, V]
	removes  []K
	removing map[K]struct{}

	onAdd    []func(K, V)
	onRemove []func(K, V)
}

type deferredPair[K comparable, V comparable] struct {
	key   K
	value V
}

// NewDeferredMap creates an empty DeferredMap.
func NewDeferredMap[K comparable, V comparable]() *DeferredMap[K, V] {
	return &DeferredMap[K, V]{
		items:    make(map[K]V),
		removing: make(map[K]struct{}),
	}
}

// OnAdd registers a listener fired for every value committed by Update.
func (m *DeferredMap[K, V]) OnAdd(fn func(K, V)) {
	m.onAdd = append(m.onAdd, fn)
}

// OnRemove registers a listener fired for every value dropped by Update. The listener
// receives the value that was committed under the key.
func (m *DeferredMap[K, V]) OnRemove(fn func(K, V)) {
	m.onRemove = append(m.onRemove, fn)
}

// Add stages value under key. Nothing is visible until the next Update.
func (m *DeferredMap[K, V]) Add(value V, key K) {
	m.adds = append(m.adds, deferredPair[K, V]{key: key, value: value})
}

// Remove stages the removal of key. Nothing is visible until the next Update.
func (m *DeferredMap[K, V]) Remove(key K) {
	if _, ok := m.removing[key]; ok {
		return
	}
	m.removing[key] = struct{}{}
	m.removes = append(m.removes, key)
}

// Update commits staged operations: every staged removal is applied and notified first,
// then every staged addition in staging order. Removals of keys that are not committed
// are dropped. Adding a key that is already committed replaces its value, notifying the
// removal of the old value before the addition of the new one.
//
// Operations staged by listeners while Update runs are kept for the next Update.
func (m *DeferredMap[K, V]) Update() {
	removes, adds := m.removes, m.adds
	m.removes, m.adds = nil, nil
	clear(m.removing)

	for _, key := range removes {
		value, ok := m.items[key]
		if !ok {
			continue
		}
		delete(m.items, key)
		m.notify(m.onRemove, key, value)
	}

	for _, pair := range adds {
		if old, ok := m.items[pair.key]; ok {
			delete(m.items, pair.key)
			m.notify(m.onRemove, pair.key, old)
		}
		m.items[pair.key] = pair.value
		m.notify(m.onAdd, pair.key, pair.value)
	}
}

func (m *DeferredMap[K, V]) notify(listeners []func(K, V), key K, value V) {
	for _, fn := range listeners {
		fn(key, value)
	}
}

// Clear discards every staged operation and stages the removal of every committed key.
func (m *DeferredMap[K, V]) Clear() {
	m.EraseRequests()
	for key := range m.items {
		m.Remove(key)
	}
}

// EraseRequests discards every staged operation without touching committed values.
func (m *DeferredMap[K, V]) EraseRequests() {
	m.adds = nil
	m.removes = nil
	clear(m.removing)
}

// HasKey reports whether key is committed.
func (m *DeferredMap[K, V]) HasKey(key K) bool {
	_, ok := m.items[key]
	return ok
}

// HasValue reports whether value is committed under any key.
func (m *DeferredMap[K, V]) HasValue(value V) bool {
	for _, v := range m.items {
		if v == value {
			return true
		}
	}
	return false
}

// Lookup returns the committed value for key.
func (m *DeferredMap[K, V]) Lookup(key K) (V, bool) {
	v, ok := m.items[key]
	return v, ok
}

// Get returns the committed value for key, or ErrKeyNotFound.
func (m *DeferredMap[K, V]) Get(key K) (V, error) {
	v, ok := m.items[key]
	if !ok {
		return v, fmt.Errorf("%w: %v", ErrKeyNotFound, key)
	}
	return v, nil
}

// Len returns the number of committed values.
func (m *DeferredMap[K, V]) Len() int {
	return len(m.items)
}

// Pending returns the number of staged additions and removals.
func (m *DeferredMap[K, V]) Pending() (adds int, removes int) {
	return len(m.adds), len(m.removes)
}

// Keys returns an iterator over the committed keys.
func (m *DeferredMap[K, V]) Keys() iter.Seq[K] {
	return func(yield func(K) bool) {
		for k := range m.items {
			if !yield(k) {
				return
			}
		}
	}
}

// Values returns an iterator over the committed values.
func (m *DeferredMap[K, V]) Values() iter.Seq[V] {
	return func(yield func(V) bool) {
		for _, v := range m.items {
			if !yield(v) {
				return
			}
		}
	}
}

// All returns an iterator over the committed key/value pairs.
func (m *DeferredMap[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for k, v := range m.items {
			if !yield(k, v) {
				return
			}
		}
	}
}
