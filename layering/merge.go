// Package layering deep-merges decoded fake value documents. Mappings merge
// key by key; lists and scalars are taken whole from the strongest layer that
// sets them.
package layering

// MergeDocuments composes documents ordered from strongest to weakest. A nil
// value never shadows a weaker layer. The result shares nothing with the
// inputs, which are never mutated.
func MergeDocuments(layers ...map[string]any) map[string]any {
	var merged map[string]any
	for i := len(layers) - 1; i >= 0; i-- {
		if layers[i] == nil {
			continue
		}
		merged = mergeMaps(layers[i], merged)
	}
	return merged
}

// Clone returns a deep copy of doc.
func Clone(doc map[string]any) map[string]any {
	if doc == nil {
		return nil
	}
	return cloneMap(doc)
}

// CloneValue returns a deep copy of a decoded value. Mappings and lists are
// copied, scalars returned as is.
func CloneValue(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		return cloneMap(typed)
	case map[any]any:
		out := make(map[any]any, len(typed))
		for key, item := range typed {
			out[key] = CloneValue(item)
		}
		return out
	case []any:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = CloneValue(item)
		}
		return out
	case []string:
		return append([]string(nil), typed...)
	default:
		return value
	}
}

func mergeMaps(strong, weak map[string]any) map[string]any {
	out := make(map[string]any, len(strong)+len(weak))
	for key, value := range weak {
		out[key] = CloneValue(value)
	}
	for key, value := range strong {
		if value == nil {
			continue
		}
		out[key] = mergeValue(value, out[key])
	}
	return out
}

func mergeValue(strong, weak any) any {
	strongMap, ok := strong.(map[string]any)
	if !ok {
		return CloneValue(strong)
	}
	weakMap, ok := weak.(map[string]any)
	if !ok {
		return cloneMap(strongMap)
	}
	return mergeMaps(strongMap, weakMap)
}

func cloneMap(src map[string]any) map[string]any {
	out := make(map[string]any, len(src))
	for key, value := range src {
		out[key] = CloneValue(value)
	}
	return out
}
