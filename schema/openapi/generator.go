// Package openapi describes resolved fake value data sets as OpenAPI 3
// documents. Every top-level category becomes a component schema and the
// whole set is served by a single GET operation.
package openapi

import (
	"fmt"
	"reflect"
	"sort"
	"time"
)

// Generator builds OpenAPI documents from category data. It is safe for
// concurrent use.
type Generator struct {
	config generatorConfig
}

// NewGenerator constructs a Generator.
func NewGenerator(opts ...GeneratorOption) *Generator {
	cfg := defaultGeneratorConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return &Generator{config: cfg}
}

// Generate returns the OpenAPI document for categories, a map from category
// key ("address") to its data.
func (g *Generator) Generate(categories map[string]any) (map[string]any, error) {
	registry := newComponentRegistry()
	keys := make([]string, 0, len(categories))
	for key := range categories {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	properties := make(map[string]any, len(keys))
	for _, key := range keys {
		schema, err := g.buildSchema(reflect.ValueOf(categories[key]))
		if err != nil {
			return nil, fmt.Errorf("openapi: category %q: %w", key, err)
		}
		properties[key] = map[string]any{"$ref": registry.publish(pascalCase(key), schema)}
	}
	root := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	rootRef := registry.publish(g.config.rootComponent, root)

	document := newDocumentBuilder(g.config, registry, rootRef).build()
	if err := validateDocument(document); err != nil {
		return nil, err
	}
	return document, nil
}

// Schema returns the inline JSON schema of a single value.
func (g *Generator) Schema(value any) (map[string]any, error) {
	return g.buildSchema(reflect.ValueOf(value))
}

func (g *Generator) buildSchema(rv reflect.Value) (map[string]any, error) {
	if !rv.IsValid() {
		return map[string]any{"nullable": true}, nil
	}

	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return map[string]any{"nullable": true}, nil
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Interface:
		if rv.IsNil() {
			return map[string]any{"nullable": true}, nil
		}
		return g.buildSchema(rv.Elem())
	case reflect.Bool:
		return map[string]any{"type": "boolean"}, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return map[string]any{"type": "integer"}, nil
	case reflect.Float32, reflect.Float64:
		return map[string]any{"type": "number"}, nil
	case reflect.String:
		return map[string]any{"type": "string"}, nil
	case reflect.Struct:
		if rv.Type() == reflect.TypeOf(time.Time{}) {
			return map[string]any{
				"type":   "string",
				"format": "date-time",
			}, nil
		}
		return nil, fmt.Errorf("openapi: struct type %s unsupported", rv.Type())
	case reflect.Map:
		return g.schemaForMap(rv)
	case reflect.Slice, reflect.Array:
		return g.schemaForSlice(rv)
	default:
		return map[string]any{
			"type":   "string",
			"format": fmt.Sprintf("go:%s", rv.Type().String()),
		}, nil
	}
}

func (g *Generator) schemaForMap(rv reflect.Value) (map[string]any, error) {
	if rv.Type().Key().Kind() != reflect.String {
		return nil, fmt.Errorf("openapi: map key type %s unsupported", rv.Type().Key())
	}

	keys := rv.MapKeys()
	names := make([]string, 0, len(keys))
	for _, key := range keys {
		names = append(names, key.String())
	}
	sort.Strings(names)

	properties := make(map[string]any, len(names))
	for _, name := range names {
		child, err := g.buildSchema(rv.MapIndex(reflect.ValueOf(name).Convert(rv.Type().Key())))
		if err != nil {
			return nil, err
		}
		properties[name] = child
	}
	return map[string]any{
		"type":       "object",
		"properties": properties,
	}, nil
}

// schemaForSlice describes a list by its first element. Fake value lists are
// homogeneous, so the first element is representative.
func (g *Generator) schemaForSlice(rv reflect.Value) (map[string]any, error) {
	if rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8 {
		return map[string]any{
			"type":   "string",
			"format": "byte",
		}, nil
	}

	schema := map[string]any{
		"type":  "array",
		"items": map[string]any{},
	}
	if rv.Len() == 0 {
		return schema, nil
	}
	first := rv.Index(0)
	items, err := g.buildSchema(first)
	if err != nil {
		return nil, err
	}
	schema["items"] = items
	if g.config.examples {
		for first.Kind() == reflect.Interface && !first.IsNil() {
			first = first.Elem()
		}
		if first.Kind() == reflect.String {
			schema["example"] = []any{first.String()}
		}
	}
	return schema, nil
}
