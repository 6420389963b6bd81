package fakevalues

import (
	"fmt"
	"sort"
	"strings"
)

// FieldDescriptor describes one leaf path of a data set.
type FieldDescriptor struct {
	Path string `json:"path"`
	Type string `json:"type"`
	// Choices is the number of entries of a list field.
	Choices int `json:"choices,omitempty"`
	// Pattern marks string lists holding numerify or letterify templates
	// such as "#####" or "??-###".
	Pattern bool `json:"pattern,omitempty"`
}

// DescribeValue flattens value into field descriptors sorted by path. Lists
// are typed by their first element.
func DescribeValue(value any) []FieldDescriptor {
	fields := describe(value, "")
	if fields == nil {
		return []FieldDescriptor{}
	}
	return fields
}

func describe(value any, prefix string) []FieldDescriptor {
	switch typed := value.(type) {
	case nil:
		return nil
	case map[string]any:
		if len(typed) == 0 {
			if prefix == "" {
				return nil
			}
			return []FieldDescriptor{{Path: prefix, Type: "map[string]any"}}
		}
		keys := make([]string, 0, len(typed))
		for key := range typed {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		var fields []FieldDescriptor
		for _, key := range keys {
			fields = append(fields, describe(typed[key], joinPath(prefix, key))...)
		}
		return fields
	case []any:
		field := FieldDescriptor{Path: prefix, Type: "[]any", Choices: len(typed)}
		if len(typed) > 0 {
			field.Type = "[]" + typeName(typed[0])
		}
		field.Pattern = hasPattern(typed)
		return []FieldDescriptor{field}
	default:
		if prefix == "" {
			return nil
		}
		return []FieldDescriptor{{Path: prefix, Type: typeName(typed)}}
	}
}

func hasPattern(list []any) bool {
	for _, item := range list {
		if text, ok := item.(string); ok && strings.ContainsAny(text, "#?") {
			return true
		}
	}
	return false
}

func typeName(value any) string {
	if value == nil {
		return "nil"
	}
	return fmt.Sprintf("%T", value)
}

func joinPath(prefix, segment string) string {
	if prefix == "" {
		return segment
	}
	return prefix + "." + segment
}
