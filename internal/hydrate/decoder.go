// Package hydrate decodes YAML data documents into plain string-keyed maps.
package hydrate

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// PreHook lets callers reshape a decoded document before it is returned.
// Returning a nil map keeps the current document.
type PreHook func(resource string, doc map[string]any) (map[string]any, error)

// DecoderOption configures a Decoder instance.
type DecoderOption func(*Decoder)

// Decoder converts YAML documents into map[string]any trees.
type Decoder struct {
	preHooks []PreHook
}

// WithPreHook applies hook after decoding, in registration order.
func WithPreHook(hook PreHook) DecoderOption {
	return func(d *Decoder) {
		if hook != nil {
			d.preHooks = append(d.preHooks, hook)
		}
	}
}

func NewDecoder(opts ...DecoderOption) *Decoder {
	d := &Decoder{}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d
}

// Decode reads one document from r. An empty document decodes to nil with no
// error; a document whose root is not a mapping is an error.
func (d *Decoder) Decode(resource string, r io.Reader) (map[string]any, error) {
	if r == nil {
		return nil, fmt.Errorf("hydrate: reader is nil for %q", resource)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("hydrate: read %q: %w", resource, err)
	}

	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("hydrate: parse %q: %w", resource, err)
	}
	if raw == nil {
		return nil, nil
	}

	current, ok := Normalize(raw).(map[string]any)
	if !ok {
		return nil, fmt.Errorf("hydrate: %q: root is %T, want a mapping", resource, raw)
	}

	for _, hook := range d.preHooks {
		next, err := hook(resource, current)
		if err != nil {
			return nil, fmt.Errorf("hydrate: pre-hook for %q failed: %w", resource, err)
		}
		if next != nil {
			current = next
		}
	}
	return current, nil
}

// Normalize converts every nested mapping to map[string]any and every
// sequence to []any. Non-string keys are formatted with fmt.
func Normalize(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(typed))
		for key, item := range typed {
			out[key] = Normalize(item)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(typed))
		for key, item := range typed {
			out[fmt.Sprint(key)] = Normalize(item)
		}
		return out
	case []any:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = Normalize(item)
		}
		return out
	default:
		return value
	}
}

// UnwrapEnvelope strips the "<locale>: faker:" wrapper used by bundled data
// files so that categories become top-level keys. A bare "faker:" root is
// stripped too. Other documents are returned unchanged.
func UnwrapEnvelope(_ string, doc map[string]any) (map[string]any, error) {
	name, ok := singleEntry(doc)
	if !ok {
		return doc, nil
	}
	nested, ok := doc[name].(map[string]any)
	if !ok {
		return doc, nil
	}
	if name == "faker" {
		return nested, nil
	}
	if inner, ok := singleEntry(nested); ok && inner == "faker" {
		if faker, ok := nested["faker"].(map[string]any); ok {
			return faker, nil
		}
	}
	return doc, nil
}

func singleEntry(doc map[string]any) (string, bool) {
	if len(doc) != 1 {
		return "", false
	}
	for key := range doc {
		return key, true
	}
	return "", false
}
