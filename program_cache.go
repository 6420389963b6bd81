package fakevalues

import "github.com/goliatone/go-fakevalues/cowmap"

// ProgramCache stores compiled expression programs keyed by expression.
type ProgramCache interface {
	Get(key string) (any, bool)
	Set(key string, value any)
}

// NewProgramCache returns a ProgramCache backed by a copy-on-write map, so
// lookups from concurrent evaluations never block.
func NewProgramCache() ProgramCache {
	return &programCache{programs: cowmap.New[string, any](nil)}
}

type programCache struct {
	programs *cowmap.Map[string, any]
}

func (c *programCache) Get(key string) (any, bool) {
	return c.programs.Get(key)
}

// Set ignores nil programs.
func (c *programCache) Set(key string, value any) {
	_, _ = c.programs.Put(key, value)
}

// Len reports the number of cached programs.
func (c *programCache) Len() int {
	return c.programs.Len()
}
