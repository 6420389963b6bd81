package fakevalues

import (
	"errors"
	"fmt"
	"sort"
	"sync/atomic"

	"github.com/goliatone/go-fakevalues/cowmap"
	"github.com/goliatone/go-fakevalues/layering"
)

const (
	stateUnloaded int32 = iota
	stateLoading
	stateLoaded
)

// Values is a lazily loaded set of fake values for one Descriptor.
//
// Nothing is read until the first Get. The first caller loads the data; any
// caller arriving while the load runs waits for it; every later call reads
// the published result without locking. A Values loads at most once and
// never reloads.
type Values struct {
	desc Descriptor
	cfg  config

	state  atomic.Int32
	done   chan struct{}
	result atomic.Pointer[loadResult]
}

// loadResult is published once. err is set only for explicit resources that
// could not be read; otherwise data holds the found entries, possibly none.
type loadResult struct {
	data     *cowmap.Map[string, any]
	resource string
	err      error
}

// New returns an unloaded Values for desc.
func New(desc Descriptor, opts ...Option) *Values {
	return newValues(desc, applyOptions(opts))
}

// NewForLocale is shorthand for New(NewDescriptor(locale), opts...).
func NewForLocale(locale string, opts ...Option) *Values {
	return New(NewDescriptor(locale), opts...)
}

func newValues(desc Descriptor, cfg config) *Values {
	return &Values{
		desc: desc,
		cfg:  cfg,
		done: make(chan struct{}),
	}
}

// Get returns a deep copy of the value stored under key, so callers may
// mutate it. Unknown keys, unresolvable locales and missing documents all
// yield nil with a nil error. Errors are terminal *LoadErrors returned on
// every call: an explicit resource that cannot be read or decoded, or a
// decoder that panicked during the load.
func (v *Values) Get(key string) (any, error) {
	result := v.load()
	if result.err != nil {
		return nil, result.err
	}
	value, ok := result.data.Get(key)
	if !ok {
		return nil, nil
	}
	return layering.CloneValue(value), nil
}

// Keys returns the loaded top-level keys in sorted order.
func (v *Values) Keys() ([]string, error) {
	result := v.load()
	if result.err != nil {
		return nil, result.err
	}
	keys := result.data.Keys()
	if len(keys) == 0 {
		return nil, nil
	}
	sort.Strings(keys)
	return keys, nil
}

// Snapshot returns a deep copy of the loaded data. Callers may mutate it
// freely.
func (v *Values) Snapshot() (map[string]any, error) {
	result := v.load()
	if result.err != nil {
		return nil, result.err
	}
	return layering.Clone(result.data.Snapshot()), nil
}

// Resource names the resource the data was read from. It triggers the load
// and is empty when nothing was found.
func (v *Values) Resource() string {
	return v.load().resource
}

// Loaded reports whether the one-time load has completed.
func (v *Values) Loaded() bool {
	return v.state.Load() == stateLoaded
}

// Descriptor returns the descriptor this instance was built from.
func (v *Values) Descriptor() Descriptor {
	return v.desc
}

// Locale returns the requested locale.
func (v *Values) Locale() string {
	return v.desc.Locale()
}

// CandidatePaths returns the locale fragments probed for data.
func (v *Values) CandidatePaths() []string {
	return v.desc.CandidatePaths()
}

// Equal reports whether other is a *Values with an equal descriptor. Load
// state is ignored.
func (v *Values) Equal(other any) bool {
	o, ok := other.(*Values)
	if !ok || v == nil || o == nil {
		return ok && v == o
	}
	return v.desc.Equal(o.desc)
}

func (v *Values) String() string {
	return fmt.Sprintf("Values{%s}", v.desc.Identifier())
}

// load returns the published result, running the load if this caller wins
// the unloaded to loading transition.
func (v *Values) load() *loadResult {
	if result := v.result.Load(); result != nil {
		return result
	}
	if !v.state.CompareAndSwap(stateUnloaded, stateLoading) {
		<-v.done
		return v.result.Load()
	}

	published := false
	defer func() {
		if published {
			return
		}
		// The loader panicked. Waiters must not block forever.
		v.publish(&loadResult{
			data: cowmap.New[string, any](nil),
			err:  &LoadError{Resource: v.desc.Identifier(), Locale: v.desc.Locale(), Err: errLoadAborted},
		})
	}()

	result := v.loadOnce()
	v.publish(result)
	published = true
	return result
}

var errLoadAborted = errors.New("load aborted")

func (v *Values) publish(result *loadResult) {
	v.result.Store(result)
	v.state.Store(stateLoaded)
	close(v.done)
}
