package openapi

import (
	"strings"
)

type generatorConfig struct {
	openAPIVersion string
	info           openapiInfo
	operation      operationConfig
	contentType    string
	rootComponent  string
	examples       bool
}

type openapiInfo struct {
	Title       string
	Version     string
	Description string
}

type operationConfig struct {
	Path        string
	OperationID string
	Summary     string
}

func defaultGeneratorConfig() generatorConfig {
	return generatorConfig{
		openAPIVersion: "3.0.3",
		info: openapiInfo{
			Title:   "Fake Values",
			Version: "1.0.0",
		},
		operation: operationConfig{
			Path:        "/fakevalues/{locale}",
			OperationID: "get:/fakevalues/{locale}",
		},
		contentType:   "application/json",
		rootComponent: "FakeValues",
		examples:      true,
	}
}

// GeneratorOption configures the OpenAPI generator behaviour.
type GeneratorOption func(*generatorConfig)

// WithOpenAPIVersion overrides the OpenAPI version string (default: 3.0.3).
func WithOpenAPIVersion(version string) GeneratorOption {
	return func(cfg *generatorConfig) {
		if version == "" {
			return
		}
		cfg.openAPIVersion = version
	}
}

// InfoOption configures optional fields on the OpenAPI info section.
type InfoOption func(*openapiInfo)

// WithInfoDescription sets the optional description field for the info section.
func WithInfoDescription(description string) InfoOption {
	return func(info *openapiInfo) {
		info.Description = description
	}
}

// WithInfo configures the info block. Empty strings retain the existing
// values.
func WithInfo(title, version string, opts ...InfoOption) GeneratorOption {
	return func(cfg *generatorConfig) {
		if title != "" {
			cfg.info.Title = title
		}
		if version != "" {
			cfg.info.Version = version
		}
		for _, opt := range opts {
			if opt != nil {
				opt(&cfg.info)
			}
		}
	}
}

// WithOperation sets the GET path serving the data set and its operationId.
// Empty inputs retain the defaults.
func WithOperation(path, operationID, summary string) GeneratorOption {
	return func(cfg *generatorConfig) {
		if path != "" {
			cfg.operation.Path = path
			cfg.operation.OperationID = "get:" + path
		}
		if operationID != "" {
			cfg.operation.OperationID = operationID
		}
		cfg.operation.Summary = strings.TrimSpace(summary)
	}
}

// WithContentType sets the response content type.
func WithContentType(contentType string) GeneratorOption {
	return func(cfg *generatorConfig) {
		if contentType == "" {
			return
		}
		cfg.contentType = contentType
	}
}

// WithRootComponent names the component holding the whole data set.
func WithRootComponent(name string) GeneratorOption {
	return func(cfg *generatorConfig) {
		if name != "" {
			cfg.rootComponent = name
		}
	}
}

// WithExamples toggles the "example" entry taken from the first list element.
func WithExamples(enabled bool) GeneratorOption {
	return func(cfg *generatorConfig) {
		cfg.examples = enabled
	}
}
