package fakevalues

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
)

// BuiltinFunctions returns a registry with helpers for fake value lists:
//
//	pick(list)          one random element of list
//	numerify(pattern)   every '#' replaced by a random digit
//	letterify(pattern)  every '?' replaced by a random upper case letter
//	bothify(pattern)    numerify and letterify combined
//
// A nil rng uses the shared generator of math/rand/v2.
func BuiltinFunctions(rng *rand.Rand) *FunctionRegistry {
	src := &randomSource{rng: rng}
	registry := NewFunctionRegistry()
	_ = registry.Register("pick", func(args ...any) (any, error) {
		list, err := listArg("pick", args)
		if err != nil {
			return nil, err
		}
		if len(list) == 0 {
			return nil, nil
		}
		return list[src.intN(len(list))], nil
	})
	_ = registry.Register("numerify", patternFunc("numerify", src, true, false))
	_ = registry.Register("letterify", patternFunc("letterify", src, false, true))
	_ = registry.Register("bothify", patternFunc("bothify", src, true, true))
	return registry
}

type randomSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func (s *randomSource) intN(n int) int {
	if s.rng == nil {
		return rand.IntN(n)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.IntN(n)
}

func patternFunc(name string, src *randomSource, digits, letters bool) Function {
	return func(args ...any) (any, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("fakevalues: %s expects 1 argument, got %d", name, len(args))
		}
		pattern, ok := args[0].(string)
		if !ok {
			return nil, fmt.Errorf("fakevalues: %s expects a string, got %T", name, args[0])
		}
		var b strings.Builder
		b.Grow(len(pattern))
		for _, r := range pattern {
			switch {
			case digits && r == '#':
				b.WriteByte(byte('0' + src.intN(10)))
			case letters && r == '?':
				b.WriteByte(byte('A' + src.intN(26)))
			default:
				b.WriteRune(r)
			}
		}
		return b.String(), nil
	}
}

func listArg(name string, args []any) ([]any, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("fakevalues: %s expects 1 argument, got %d", name, len(args))
	}
	switch typed := args[0].(type) {
	case nil:
		return nil, nil
	case []any:
		return typed, nil
	case []string:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = item
		}
		return out, nil
	default:
		return nil, fmt.Errorf("fakevalues: %s expects a list, got %T", name, args[0])
	}
}
