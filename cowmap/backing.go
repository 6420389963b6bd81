package cowmap

// Backing is the concrete storage behind one snapshot. A Backing is only
// written while it is private to a mutation; once published it is read-only.
type Backing[K comparable, V any] interface {
	Get(key K) (V, bool)
	Set(key K, value V)
	Delete(key K)
	Len() int
	// Range visits entries until fn returns false.
	Range(fn func(key K, value V) bool)
}

// Factory builds an empty Backing sized for capacity entries. The factory
// decides ordering and key semantics of the map.
type Factory[K comparable, V any] func(capacity int) Backing[K, V]

// HashBacking returns a factory backed by a builtin Go map. Iteration order is
// unspecified.
func HashBacking[K comparable, V any]() Factory[K, V] {
	return func(capacity int) Backing[K, V] {
		return hashBacking[K, V](make(map[K]V, capacity))
	}
}

// OrderedBacking returns a factory that preserves insertion order. Replacing
// the value of an existing key keeps its position.
func OrderedBacking[K comparable, V any]() Factory[K, V] {
	return func(capacity int) Backing[K, V] {
		return &orderedBacking[K, V]{
			index:  make(map[K]int, capacity),
			keys:   make([]K, 0, capacity),
			values: make([]V, 0, capacity),
		}
	}
}

type hashBacking[K comparable, V any] map[K]V

func (b hashBacking[K, V]) Get(key K) (V, bool) {
	value, ok := b[key]
	return value, ok
}

func (b hashBacking[K, V]) Set(key K, value V) {
	b[key] = value
}

func (b hashBacking[K, V]) Delete(key K) {
	delete(b, key)
}

func (b hashBacking[K, V]) Len() int {
	return len(b)
}

func (b hashBacking[K, V]) Range(fn func(K, V) bool) {
	for key, value := range b {
		if !fn(key, value) {
			return
		}
	}
}

type orderedBacking[K comparable, V any] struct {
	index  map[K]int
	keys   []K
	values []V
}

func (b *orderedBacking[K, V]) Get(key K) (V, bool) {
	i, ok := b.index[key]
	if !ok {
		var zero V
		return zero, false
	}
	return b.values[i], true
}

func (b *orderedBacking[K, V]) Set(key K, value V) {
	if i, ok := b.index[key]; ok {
		b.values[i] = value
		return
	}
	b.index[key] = len(b.keys)
	b.keys = append(b.keys, key)
	b.values = append(b.values, value)
}

func (b *orderedBacking[K, V]) Delete(key K) {
	i, ok := b.index[key]
	if !ok {
		return
	}
	delete(b.index, key)
	b.keys = append(b.keys[:i], b.keys[i+1:]...)
	b.values = append(b.values[:i], b.values[i+1:]...)
	for j := i; j < len(b.keys); j++ {
		b.index[b.keys[j]] = j
	}
}

func (b *orderedBacking[K, V]) Len() int {
	return len(b.keys)
}

func (b *orderedBacking[K, V]) Range(fn func(K, V) bool) {
	for i := range b.keys {
		if !fn(b.keys[i], b.values[i]) {
			return
		}
	}
}
