package fakevalues

import "sort"

// KeysOf returns the top-level keys of doc in sorted order, or nil when doc
// is nil or empty.
func KeysOf(doc map[string]any) []string {
	if len(doc) == 0 {
		return nil
	}
	keys := make([]string, 0, len(doc))
	for key := range doc {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
