package fakevalues

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedProvider matches every *UnsupportedProviderError.
	ErrUnsupportedProvider = errors.New("fakevalues: unsupported provider")
	// ErrInvalidManifest is returned when the catalog manifest cannot be used.
	ErrInvalidManifest = errors.New("fakevalues: invalid manifest")
	// ErrNoEvaluator is returned when no expression engine can be resolved.
	ErrNoEvaluator = errors.New("fakevalues: evaluator not configured")
	// ErrGroupingCycle is returned when a grouping would end up containing
	// itself.
	ErrGroupingCycle = errors.New("fakevalues: grouping cycle")
)

// LoadError reports an explicit resource that could not be opened or decoded.
// It is terminal: the Values that produced it returns the same error on
// every lookup.
type LoadError struct {
	Resource string
	Locale   string
	Err      error
}

func (e *LoadError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("fakevalues: failed to read fake values from %s: %v", e.Resource, e.Err)
}

func (e *LoadError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// UnsupportedProviderError is returned by Grouping.Add for provider kinds it
// cannot merge.
type UnsupportedProviderError struct {
	Provider Provider
}

func (e *UnsupportedProviderError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("fakevalues: provider kind %T not supported (please raise an issue)", e.Provider)
}

// Is lets errors.Is match ErrUnsupportedProvider.
func (e *UnsupportedProviderError) Is(target error) bool {
	return target == ErrUnsupportedProvider
}
