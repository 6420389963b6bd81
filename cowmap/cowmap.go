// Package cowmap provides a generic copy-on-write map.
//
// Readers load the current snapshot through an atomic pointer and never
// block. Every mutation builds a fresh Backing from the configured Factory,
// copies the current entries into it, applies the change and publishes the
// result with a compare-and-swap. A reader therefore observes either the
// snapshot before a mutation or the one after it, never a mix of both.
//
// Concurrent writers are serialised by the compare-and-swap: a writer that
// loses the race rebuilds its copy from the newly published snapshot. Writes
// cost O(n), so the map suits read-mostly data such as loaded datasets and
// compiled program caches.
package cowmap

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync/atomic"
)

var (
	// ErrNilValue is returned when a nil value is inserted.
	ErrNilValue = errors.New("cowmap: value must not be nil")
	// ErrUnsupported is returned by PutIfAbsent. Check-then-act is not atomic
	// across the copy boundary, so the operation is disabled instead.
	ErrUnsupported = fmt.Errorf("cowmap: put if absent: %w", errors.ErrUnsupported)
)

// Entry is a key/value pair taken from one snapshot.
type Entry[K comparable, V any] struct {
	Key   K
	Value V
}

type snapshot[K comparable, V any] struct {
	data Backing[K, V]
}

// Map is a copy-on-write map. The zero value is not usable; call New.
type Map[K comparable, V any] struct {
	factory Factory[K, V]
	current atomic.Pointer[snapshot[K, V]]
}

// New constructs an empty Map. A nil factory falls back to HashBacking.
func New[K comparable, V any](factory Factory[K, V]) *Map[K, V] {
	if factory == nil {
		factory = HashBacking[K, V]()
	}
	m := &Map[K, V]{factory: factory}
	m.current.Store(&snapshot[K, V]{data: factory(0)})
	return m
}

func (m *Map[K, V]) load() Backing[K, V] {
	return m.current.Load().data
}

func (m *Map[K, V]) copyOf(src Backing[K, V], extra int) Backing[K, V] {
	dst := m.factory(src.Len() + extra)
	src.Range(func(key K, value V) bool {
		dst.Set(key, value)
		return true
	})
	return dst
}

// mutate copies the current snapshot, applies fn and publishes the copy. fn
// may run more than once when writers race; it must only touch next.
func (m *Map[K, V]) mutate(extra int, fn func(prev, next Backing[K, V])) {
	for {
		old := m.current.Load()
		next := m.copyOf(old.data, extra)
		fn(old.data, next)
		if m.current.CompareAndSwap(old, &snapshot[K, V]{data: next}) {
			return
		}
	}
}

// Put stores value under key and returns the previous value, if any.
func (m *Map[K, V]) Put(key K, value V) (V, error) {
	var prev V
	if isNil(value) {
		return prev, ErrNilValue
	}
	m.mutate(1, func(_, next Backing[K, V]) {
		prev, _ = next.Get(key)
		next.Set(key, value)
	})
	return prev, nil
}

// PutAll stores every entry of entries in a single published mutation. No
// entry is stored when any value is nil.
func (m *Map[K, V]) PutAll(entries map[K]V) error {
	for key, value := range entries {
		if isNil(value) {
			return fmt.Errorf("%w: key %v", ErrNilValue, key)
		}
	}
	if len(entries) == 0 {
		return nil
	}
	m.mutate(len(entries), func(_, next Backing[K, V]) {
		for key, value := range entries {
			next.Set(key, value)
		}
	})
	return nil
}

// PutIfAbsent is not supported and always returns ErrUnsupported.
func (m *Map[K, V]) PutIfAbsent(key K, value V) (V, error) {
	var zero V
	return zero, ErrUnsupported
}

// Remove deletes key and returns the value it held.
func (m *Map[K, V]) Remove(key K) (V, bool) {
	var (
		prev  V
		found bool
	)
	for {
		old := m.current.Load()
		prev, found = old.data.Get(key)
		if !found {
			return prev, false
		}
		next := m.copyOf(old.data, 0)
		next.Delete(key)
		if m.current.CompareAndSwap(old, &snapshot[K, V]{data: next}) {
			return prev, true
		}
	}
}

// Clear publishes an empty snapshot.
func (m *Map[K, V]) Clear() {
	m.current.Store(&snapshot[K, V]{data: m.factory(0)})
}

// Get returns the value stored under key.
func (m *Map[K, V]) Get(key K) (V, bool) {
	return m.load().Get(key)
}

// GetOrDefault returns the value stored under key or def when absent.
func (m *Map[K, V]) GetOrDefault(key K, def V) V {
	if value, ok := m.load().Get(key); ok {
		return value
	}
	return def
}

// ContainsKey reports whether key is present.
func (m *Map[K, V]) ContainsKey(key K) bool {
	_, ok := m.load().Get(key)
	return ok
}

// ContainsValue reports whether any entry holds a value deeply equal to value.
func (m *Map[K, V]) ContainsValue(value V) bool {
	found := false
	m.load().Range(func(_ K, candidate V) bool {
		if reflect.DeepEqual(candidate, value) {
			found = true
			return false
		}
		return true
	})
	return found
}

// Len returns the number of entries.
func (m *Map[K, V]) Len() int {
	return m.load().Len()
}

// IsEmpty reports whether the map holds no entries.
func (m *Map[K, V]) IsEmpty() bool {
	return m.load().Len() == 0
}

// Keys returns the keys in backing order.
func (m *Map[K, V]) Keys() []K {
	data := m.load()
	keys := make([]K, 0, data.Len())
	data.Range(func(key K, _ V) bool {
		keys = append(keys, key)
		return true
	})
	return keys
}

// Values returns the values in backing order.
func (m *Map[K, V]) Values() []V {
	data := m.load()
	values := make([]V, 0, data.Len())
	data.Range(func(_ K, value V) bool {
		values = append(values, value)
		return true
	})
	return values
}

// Entries returns the key/value pairs in backing order.
func (m *Map[K, V]) Entries() []Entry[K, V] {
	data := m.load()
	entries := make([]Entry[K, V], 0, data.Len())
	data.Range(func(key K, value V) bool {
		entries = append(entries, Entry[K, V]{Key: key, Value: value})
		return true
	})
	return entries
}

// Range visits the entries of one snapshot until fn returns false.
func (m *Map[K, V]) Range(fn func(key K, value V) bool) {
	m.load().Range(fn)
}

// Snapshot copies the current entries into a plain map.
func (m *Map[K, V]) Snapshot() map[K]V {
	data := m.load()
	out := make(map[K]V, data.Len())
	data.Range(func(key K, value V) bool {
		out[key] = value
		return true
	})
	return out
}

// String renders the entries in backing order, e.g. "{a=1, b=2}".
func (m *Map[K, V]) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	first := true
	m.load().Range(func(key K, value V) bool {
		if !first {
			sb.WriteString(", ")
		}
		first = false
		fmt.Fprintf(&sb, "%v=%v", key, value)
		return true
	})
	sb.WriteByte('}')
	return sb.String()
}

func isNil(value any) bool {
	if value == nil {
		return true
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface,
		reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return rv.IsNil()
	default:
		return false
	}
}
