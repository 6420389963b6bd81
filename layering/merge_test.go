package layering

import (
	"reflect"
	"testing"
)

func TestMergeDocuments(t *testing.T) {
	strong := map[string]any{
		"address": map[string]any{
			"postcode": []any{"?#? #?#"},
			"state":    nil,
		},
	}
	weak := map[string]any{
		"address": map[string]any{
			"postcode":    []any{"#####"},
			"city_prefix": []any{"North"},
			"state":       []any{"Ontario"},
		},
		"color": map[string]any{"name": []any{"red"}},
	}

	got := MergeDocuments(strong, weak)
	want := map[string]any{
		"address": map[string]any{
			"postcode":    []any{"?#? #?#"},
			"city_prefix": []any{"North"},
			"state":       []any{"Ontario"},
		},
		"color": map[string]any{"name": []any{"red"}},
	}
	if !reflect.DeepEqual(want, got) {
		t.Fatalf("merged document mismatch:\nwant: %#v\n got: %#v", want, got)
	}

	got["color"].(map[string]any)["name"].([]any)[0] = "mutated"
	got["address"].(map[string]any)["postcode"].([]any)[0] = "mutated"
	if weak["color"].(map[string]any)["name"].([]any)[0] != "red" {
		t.Fatalf("merge must not alias weaker layers")
	}
	if strong["address"].(map[string]any)["postcode"].([]any)[0] != "?#? #?#" {
		t.Fatalf("merge must not alias stronger layers")
	}
}

func TestMergeDocumentsScalarReplacesMapping(t *testing.T) {
	got := MergeDocuments(
		map[string]any{"name": []any{"Ada"}},
		map[string]any{"name": map[string]any{"first_name": []any{"Grace"}}},
	)
	if !reflect.DeepEqual(got, map[string]any{"name": []any{"Ada"}}) {
		t.Fatalf("expected stronger list to win, got %#v", got)
	}
}

func TestMergeDocumentsEmptyInput(t *testing.T) {
	if got := MergeDocuments(); got != nil {
		t.Fatalf("expected nil document, got %#v", got)
	}
	if got := MergeDocuments(nil, nil); got != nil {
		t.Fatalf("expected nil document, got %#v", got)
	}
	single := map[string]any{"color": []any{"red"}}
	if got := MergeDocuments(nil, single); !reflect.DeepEqual(got, single) {
		t.Fatalf("expected copy of the only layer, got %#v", got)
	}
}

func TestCloneDetachesNestedValues(t *testing.T) {
	doc := map[string]any{
		"creature": map[string]any{"cat": map[string]any{"name": []any{"Felix"}}},
		"legacy":   map[any]any{1: []string{"one"}},
	}
	clone := Clone(doc)
	clone["creature"].(map[string]any)["cat"].(map[string]any)["name"].([]any)[0] = "Tom"
	clone["legacy"].(map[any]any)[1].([]string)[0] = "uno"

	name := doc["creature"].(map[string]any)["cat"].(map[string]any)["name"].([]any)[0]
	if name != "Felix" {
		t.Fatalf("clone must not share nested slices, original now %v", name)
	}
	if doc["legacy"].(map[any]any)[1].([]string)[0] != "one" {
		t.Fatalf("clone must copy non-string keyed mappings")
	}
	if Clone(nil) != nil {
		t.Fatalf("expected nil clone of nil document")
	}
}
