package openapi

import (
	"encoding/json"
	"reflect"
	"strings"
	"sync"
	"testing"
)

func TestNewGeneratorOptions(t *testing.T) {
	custom := NewGenerator(
		WithOpenAPIVersion("3.1.0"),
		WithInfo("Custom Data", "2.0.0", WithInfoDescription("fixtures")),
		WithOperation("/data/{locale}", "getData", " Fetch data "),
		WithContentType("application/yaml"),
		WithRootComponent("Dataset"),
		WithExamples(false),
	)

	cfg := custom.config
	if got := cfg.openAPIVersion; got != "3.1.0" {
		t.Fatalf("expected openapi version 3.1.0, got %q", got)
	}
	if got := cfg.info.Title; got != "Custom Data" {
		t.Fatalf("expected info title Custom Data, got %q", got)
	}
	if got := cfg.info.Version; got != "2.0.0" {
		t.Fatalf("expected info version 2.0.0, got %q", got)
	}
	if got := cfg.info.Description; got != "fixtures" {
		t.Fatalf("expected info description fixtures, got %q", got)
	}
	if got := cfg.operation.Path; got != "/data/{locale}" {
		t.Fatalf("expected operation path /data/{locale}, got %q", got)
	}
	if got := cfg.operation.OperationID; got != "getData" {
		t.Fatalf("expected operation id getData, got %q", got)
	}
	if got := cfg.operation.Summary; got != "Fetch data" {
		t.Fatalf("expected trimmed summary, got %q", got)
	}
	if got := cfg.contentType; got != "application/yaml" {
		t.Fatalf("expected content type application/yaml, got %q", got)
	}
	if got := cfg.rootComponent; got != "Dataset" {
		t.Fatalf("expected root component Dataset, got %q", got)
	}
	if cfg.examples {
		t.Fatalf("expected examples disabled")
	}
}

func TestGeneratorOptionsKeepDefaultsOnEmptyInput(t *testing.T) {
	gen := NewGenerator(
		WithOpenAPIVersion(""),
		WithInfo("", ""),
		WithContentType(""),
		WithRootComponent(""),
		nil,
	)
	want := defaultGeneratorConfig()
	if !reflect.DeepEqual(gen.config, want) {
		t.Fatalf("expected defaults %+v, got %+v", want, gen.config)
	}

	gen = NewGenerator(WithOperation("/people", "", ""))
	if got := gen.config.operation.OperationID; got != "get:/people" {
		t.Fatalf("expected derived operation id, got %q", got)
	}
}

func TestGeneratorDocument(t *testing.T) {
	gen := NewGenerator()
	doc, err := gen.Generate(map[string]any{
		"address": map[string]any{
			"city_name": []any{"Paris", "Lyon"},
			"postcode":  []any{"#####"},
		},
		"street_name": []any{"Rue de Rivoli"},
	})
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	if got := doc["openapi"]; got != "3.0.3" {
		t.Fatalf("expected openapi 3.0.3, got %v", got)
	}

	schemas := componentSchemas(t, doc)
	names := make([]string, 0, len(schemas))
	for name := range schemas {
		names = append(names, name)
	}
	for _, want := range []string{"Address", "StreetName", "FakeValues"} {
		if _, ok := schemas[want]; !ok {
			t.Fatalf("expected component %s, got %v", want, names)
		}
	}

	root := schemas["FakeValues"].(map[string]any)
	properties := root["properties"].(map[string]any)
	ref := properties["address"].(map[string]any)["$ref"]
	if ref != "#/components/schemas/Address" {
		t.Fatalf("expected address ref, got %v", ref)
	}

	address := schemas["Address"].(map[string]any)
	city := address["properties"].(map[string]any)["city_name"].(map[string]any)
	if city["type"] != "array" {
		t.Fatalf("expected array schema, got %v", city["type"])
	}
	if items := city["items"].(map[string]any); items["type"] != "string" {
		t.Fatalf("expected string items, got %v", items["type"])
	}
	if example := city["example"].([]any); len(example) != 1 || example[0] != "Paris" {
		t.Fatalf("expected first element example, got %v", example)
	}

	paths := doc["paths"].(map[string]any)
	get := paths["/fakevalues/{locale}"].(map[string]any)["get"].(map[string]any)
	if got := get["operationId"]; got != "get:/fakevalues/{locale}" {
		t.Fatalf("unexpected operationId %v", got)
	}
	params := get["parameters"].([]any)
	if len(params) != 1 || params[0].(map[string]any)["name"] != "locale" {
		t.Fatalf("expected locale path parameter, got %v", params)
	}
	content := get["responses"].(map[string]any)["200"].(map[string]any)["content"].(map[string]any)
	schemaRef := content["application/json"].(map[string]any)["schema"].(map[string]any)["$ref"]
	if schemaRef != "#/components/schemas/FakeValues" {
		t.Fatalf("expected root ref, got %v", schemaRef)
	}

	if _, err := json.Marshal(doc); err != nil {
		t.Fatalf("document should marshal: %v", err)
	}
}

func TestGeneratorWithoutLocaleParameter(t *testing.T) {
	doc, err := NewGenerator(WithOperation("/fixtures", "", "All fixtures")).Generate(map[string]any{
		"color": []any{"red"},
	})
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	get := doc["paths"].(map[string]any)["/fixtures"].(map[string]any)["get"].(map[string]any)
	if _, ok := get["parameters"]; ok {
		t.Fatalf("expected no parameters for static path")
	}
	if got := get["summary"]; got != "All fixtures" {
		t.Fatalf("expected summary, got %v", got)
	}
}

func TestGeneratorRejectsInvalidPath(t *testing.T) {
	_, err := NewGenerator(WithOperation("fixtures", "", "")).Generate(map[string]any{})
	if err == nil || !strings.Contains(err.Error(), "must start with /") {
		t.Fatalf("expected path validation error, got %v", err)
	}
}

func TestGeneratorComponentCollision(t *testing.T) {
	doc, err := NewGenerator().Generate(map[string]any{
		"fake_values": []any{"x"},
	})
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	schemas := componentSchemas(t, doc)
	if _, ok := schemas["FakeValues"]; !ok {
		t.Fatalf("expected category component FakeValues")
	}
	if _, ok := schemas["FakeValues1"]; !ok {
		t.Fatalf("expected root component to be suffixed, got %v", schemas)
	}
}

func TestGeneratorSchemaScalars(t *testing.T) {
	gen := NewGenerator(WithExamples(false))
	cases := []struct {
		name  string
		value any
		want  map[string]any
	}{
		{"nil", nil, map[string]any{"nullable": true}},
		{"bool", true, map[string]any{"type": "boolean"}},
		{"int", 42, map[string]any{"type": "integer"}},
		{"float", 1.5, map[string]any{"type": "number"}},
		{"string", "x", map[string]any{"type": "string"}},
		{"bytes", []byte("x"), map[string]any{"type": "string", "format": "byte"}},
		{"empty list", []any{}, map[string]any{"type": "array", "items": map[string]any{}}},
		{"list", []any{"a"}, map[string]any{"type": "array", "items": map[string]any{"type": "string"}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := gen.Schema(tc.value)
			if err != nil {
				t.Fatalf("Schema returned error: %v", err)
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestGeneratorSchemaErrors(t *testing.T) {
	gen := NewGenerator()
	if _, err := gen.Schema(map[int]any{1: "x"}); err == nil {
		t.Fatalf("expected error for non-string map keys")
	}
	if _, err := gen.Schema(struct{ Name string }{"x"}); err == nil {
		t.Fatalf("expected error for struct values")
	}
	_, err := gen.Generate(map[string]any{"bad": map[int]any{1: "x"}})
	if err == nil || !strings.Contains(err.Error(), `category "bad"`) {
		t.Fatalf("expected category error, got %v", err)
	}
}

func TestGeneratorConcurrentAccess(t *testing.T) {
	gen := NewGenerator()
	categories := map[string]any{
		"name": map[string]any{"first_name": []any{"Ada"}},
	}

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := gen.Generate(categories); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("concurrent Generate failed: %v", err)
	}
}

func TestComponentRegistryNames(t *testing.T) {
	registry := newComponentRegistry()
	registry.publish("1st-choice", map[string]any{})
	registry.publish("", map[string]any{})
	registry.publish("", map[string]any{})

	got := registry.names()
	want := []string{"Schema", "Schema1", "_1st_choice"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestPascalCase(t *testing.T) {
	cases := map[string]string{
		"address":      "Address",
		"street_name":  "StreetName",
		"phone-number": "PhoneNumber",
		"élan vital":   "ÉlanVital",
		"":             "",
	}
	for in, want := range cases {
		if got := pascalCase(in); got != want {
			t.Fatalf("pascalCase(%q) = %q, want %q", in, got, want)
		}
	}
}

func componentSchemas(t *testing.T, doc map[string]any) map[string]any {
	t.Helper()
	components, ok := doc["components"].(map[string]any)
	if !ok {
		t.Fatalf("expected components map, got %T", doc["components"])
	}
	schemas, ok := components["schemas"].(map[string]any)
	if !ok {
		t.Fatalf("expected schemas map, got %T", components["schemas"])
	}
	return schemas
}
