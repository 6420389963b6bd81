package fakevalues

import (
	"fmt"
	"sort"
	"sync"

	"github.com/goliatone/go-fakevalues/cowmap"
)

// entry is one slot of a Grouping: either a *Values or a nested *Grouping.
type entry interface {
	provider() Provider
}

type entryValues struct {
	values *Values
}

func (e entryValues) provider() Provider { return e.values }

type entryGrouping struct {
	grouping *Grouping
}

func (e entryGrouping) provider() Provider { return e.grouping }

// Grouping merges several providers into one key space. Reads never block;
// Add calls are serialised.
type Grouping struct {
	mu      sync.Mutex
	entries *cowmap.Map[string, entry]
}

// NewGrouping returns an empty Grouping.
func NewGrouping() *Grouping {
	return &Grouping{entries: cowmap.New[string, entry](nil)}
}

// Add registers p. A *Values lands under its descriptor key, or its path stem
// when the descriptor has no key. A *Grouping has its entries merged in:
// nested groupings under the same key are merged recursively, any other
// collision is won by the incoming entry. Other provider kinds are rejected
// with an *UnsupportedProviderError.
func (g *Grouping) Add(p Provider) error {
	switch typed := p.(type) {
	case *Values:
		if typed == nil {
			return &UnsupportedProviderError{Provider: p}
		}
		g.mu.Lock()
		defer g.mu.Unlock()
		_, err := g.entries.Put(typed.desc.groupKey(), entryValues{values: typed})
		return err
	case *Grouping:
		if typed == nil {
			return &UnsupportedProviderError{Provider: p}
		}
		for _, item := range typed.entries.Entries() {
			if nested, ok := item.Value.(entryGrouping); ok && nested.grouping.reaches(g) {
				return fmt.Errorf("%w: entry %q contains the receiving grouping", ErrGroupingCycle, item.Key)
			}
		}
		return g.merge(typed)
	default:
		return &UnsupportedProviderError{Provider: p}
	}
}

// Nest registers child under key. Get(key) then asks child for the same key.
// A grouping already nested under key is merged with child; any other entry
// is replaced. A child that is, or contains, g is rejected with
// ErrGroupingCycle.
func (g *Grouping) Nest(key string, child *Grouping) error {
	if child == nil {
		return &UnsupportedProviderError{Provider: child}
	}
	if child.reaches(g) {
		return fmt.Errorf("%w: nesting under %q", ErrGroupingCycle, key)
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	var next entry = entryGrouping{grouping: child}
	if existing, ok := g.entries.Get(key); ok {
		merged, err := mergeEntries(existing, next)
		if err != nil {
			return err
		}
		next = merged
	}
	_, err := g.entries.Put(key, next)
	return err
}

// reaches reports whether target is g or is nested anywhere below it.
func (g *Grouping) reaches(target *Grouping) bool {
	seen := map[*Grouping]struct{}{}
	pending := []*Grouping{g}
	for len(pending) > 0 {
		current := pending[len(pending)-1]
		pending = pending[:len(pending)-1]
		if current == target {
			return true
		}
		if _, ok := seen[current]; ok {
			continue
		}
		seen[current] = struct{}{}
		current.entries.Range(func(_ string, value entry) bool {
			if nested, ok := value.(entryGrouping); ok {
				pending = append(pending, nested.grouping)
			}
			return true
		})
	}
	return false
}

func (g *Grouping) merge(other *Grouping) error {
	incoming := other.entries.Entries()

	g.mu.Lock()
	defer g.mu.Unlock()

	updates := make(map[string]entry, len(incoming))
	for _, item := range incoming {
		next := item.Value
		if existing, ok := g.entries.Get(item.Key); ok {
			merged, err := mergeEntries(existing, next)
			if err != nil {
				return err
			}
			next = merged
		}
		updates[item.Key] = next
	}
	return g.entries.PutAll(updates)
}

func mergeEntries(existing, incoming entry) (entry, error) {
	left, ok := existing.(entryGrouping)
	if !ok {
		return incoming, nil
	}
	right, ok := incoming.(entryGrouping)
	if !ok {
		return incoming, nil
	}
	// Neither side is mutated; both may be shared with other groupings.
	merged := NewGrouping()
	if err := merged.merge(left.grouping); err != nil {
		return nil, err
	}
	if err := merged.merge(right.grouping); err != nil {
		return nil, err
	}
	return entryGrouping{grouping: merged}, nil
}

// Get delegates to the provider registered under key, asking it for the same
// key. An unknown key yields nil with a nil error.
func (g *Grouping) Get(key string) (any, error) {
	found, ok := g.entries.Get(key)
	if !ok {
		return nil, nil
	}
	switch typed := found.(type) {
	case entryValues:
		return typed.values.Get(key)
	case entryGrouping:
		return typed.grouping.Get(key)
	default:
		panic(fmt.Sprintf("fakevalues: unexpected grouping entry %T", found))
	}
}

// Provider returns the provider registered under key.
func (g *Grouping) Provider(key string) (Provider, bool) {
	found, ok := g.entries.Get(key)
	if !ok {
		return nil, false
	}
	return found.provider(), true
}

// Keys returns the registered keys in sorted order.
func (g *Grouping) Keys() []string {
	keys := g.entries.Keys()
	sort.Strings(keys)
	return keys
}

// Len returns the number of registered keys.
func (g *Grouping) Len() int {
	return g.entries.Len()
}

// Equal reports whether other is a *Grouping with the same keys mapped to
// equal providers.
func (g *Grouping) Equal(other any) bool {
	o, ok := other.(*Grouping)
	if !ok || g == nil || o == nil {
		return ok && g == o
	}
	if g == o {
		return true
	}
	left, right := g.entries.Snapshot(), o.entries.Snapshot()
	if len(left) != len(right) {
		return false
	}
	for key, l := range left {
		r, ok := right[key]
		if !ok {
			return false
		}
		switch lt := l.(type) {
		case entryValues:
			rt, ok := r.(entryValues)
			if !ok || !lt.values.Equal(rt.values) {
				return false
			}
		case entryGrouping:
			rt, ok := r.(entryGrouping)
			if !ok || !lt.grouping.Equal(rt.grouping) {
				return false
			}
		}
	}
	return true
}

func (g *Grouping) String() string {
	return "Grouping" + g.entries.String()
}
