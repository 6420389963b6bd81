package fakevalues

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
)

var functionNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Function is a helper callable from expressions, e.g. a picker over a
// category list.
type Function func(args ...any) (any, error)

// FunctionRegistry stores custom functions keyed by name.
type FunctionRegistry struct {
	mu        sync.RWMutex
	functions map[string]Function
}

// NewFunctionRegistry constructs an empty registry.
func NewFunctionRegistry() *FunctionRegistry {
	return &FunctionRegistry{
		functions: make(map[string]Function),
	}
}

// Register stores fn under name. Names are case-insensitive identifiers and
// may be registered once.
func (r *FunctionRegistry) Register(name string, fn Function) error {
	if fn == nil {
		return fmt.Errorf("fakevalues: function %q is nil", name)
	}
	if name == "" {
		return fmt.Errorf("fakevalues: function name must not be empty")
	}
	if !functionNamePattern.MatchString(name) {
		return fmt.Errorf("fakevalues: function name %q is not an identifier", name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.functions == nil {
		r.functions = make(map[string]Function)
	}
	key := strings.ToLower(name)
	if _, exists := r.functions[key]; exists {
		return fmt.Errorf("fakevalues: function %q already registered", name)
	}
	r.functions[key] = fn
	return nil
}

// Clone returns a shallow copy of the registry.
func (r *FunctionRegistry) Clone() *FunctionRegistry {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	clone := &FunctionRegistry{
		functions: make(map[string]Function, len(r.functions)),
	}
	for name, fn := range r.functions {
		clone.functions[name] = fn
	}
	return clone
}

// Merge copies the functions of other that are not registered yet.
func (r *FunctionRegistry) Merge(other *FunctionRegistry) {
	if r == nil || other == nil || r == other {
		return
	}
	other.mu.RLock()
	incoming := make(map[string]Function, len(other.functions))
	for name, fn := range other.functions {
		incoming[name] = fn
	}
	other.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.functions == nil {
		r.functions = make(map[string]Function, len(incoming))
	}
	for name, fn := range incoming {
		if _, exists := r.functions[name]; !exists {
			r.functions[name] = fn
		}
	}
}

// Has reports whether name is registered.
func (r *FunctionRegistry) Has(name string) bool {
	if r == nil {
		return false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.functions[strings.ToLower(name)]
	return ok
}

// Call executes the function registered for name.
func (r *FunctionRegistry) Call(name string, args ...any) (any, error) {
	if r == nil {
		return nil, fmt.Errorf("fakevalues: function registry is nil")
	}
	r.mu.RLock()
	fn := r.functions[strings.ToLower(name)]
	r.mu.RUnlock()
	if fn == nil {
		return nil, fmt.Errorf("fakevalues: function %q not registered", name)
	}
	return fn(args...)
}

// Names returns registered function names sorted alphabetically.
func (r *FunctionRegistry) Names() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.functions))
	for name := range r.functions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// WithFunctionRegistry exposes the functions in registry to the default
// evaluator. Functions already configured keep precedence.
func WithFunctionRegistry(registry *FunctionRegistry) Option {
	return func(cfg *config) {
		if registry == nil {
			return
		}
		if cfg.functions == nil {
			cfg.functions = registry.Clone()
			return
		}
		cfg.functions.Merge(registry)
	}
}

// WithCustomFunction registers fn under name for the default evaluator.
// Invalid or duplicate registrations are ignored.
func WithCustomFunction(name string, fn Function) Option {
	return func(cfg *config) {
		if cfg.functions == nil {
			cfg.functions = NewFunctionRegistry()
		}
		_ = cfg.functions.Register(name, fn)
	}
}
