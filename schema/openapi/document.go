package openapi

import (
	"fmt"
	"strings"
)

type documentBuilder struct {
	config   generatorConfig
	registry *componentRegistry
	rootRef  string
}

func newDocumentBuilder(config generatorConfig, registry *componentRegistry, rootRef string) *documentBuilder {
	return &documentBuilder{
		config:   config,
		registry: registry,
		rootRef:  rootRef,
	}
}

func (b *documentBuilder) build() map[string]any {
	document := map[string]any{
		"openapi": b.config.openAPIVersion,
		"info":    b.buildInfo(),
		"paths":   b.buildPaths(),
	}
	if components := b.registry.componentsMap(); components != nil {
		document["components"] = map[string]any{
			"schemas": components,
		}
	}
	return document
}

func (b *documentBuilder) buildInfo() map[string]any {
	info := map[string]any{
		"title":   b.config.info.Title,
		"version": b.config.info.Version,
	}
	if b.config.info.Description != "" {
		info["description"] = b.config.info.Description
	}
	return info
}

func (b *documentBuilder) buildPaths() map[string]any {
	operation := map[string]any{
		"operationId": b.operationID(),
		"responses": map[string]any{
			"200": map[string]any{
				"description": "Fake values for the requested locale",
				"content": map[string]any{
					b.config.contentType: map[string]any{
						"schema": map[string]any{"$ref": b.rootRef},
					},
				},
			},
		},
	}
	if strings.Contains(b.config.operation.Path, "{locale}") {
		operation["parameters"] = []any{
			map[string]any{
				"name":     "locale",
				"in":       "path",
				"required": true,
				"schema":   map[string]any{"type": "string"},
			},
		}
	}
	if summary := b.config.operation.Summary; summary != "" {
		operation["summary"] = summary
	}

	return map[string]any{
		b.config.operation.Path: map[string]any{
			"get": operation,
		},
	}
}

func (b *documentBuilder) operationID() string {
	if b.config.operation.OperationID != "" {
		return b.config.operation.OperationID
	}
	return fmt.Sprintf("get:%s", b.config.operation.Path)
}

func validateDocument(document map[string]any) error {
	if document == nil {
		return fmt.Errorf("openapi: document cannot be nil")
	}
	openapi, _ := document["openapi"].(string)
	if openapi == "" {
		return fmt.Errorf("openapi: document missing version string")
	}
	info, _ := document["info"].(map[string]any)
	if info == nil {
		return fmt.Errorf("openapi: document missing info section")
	}
	if title, _ := info["title"].(string); title == "" {
		return fmt.Errorf("openapi: info.title must be set")
	}
	if version, _ := info["version"].(string); version == "" {
		return fmt.Errorf("openapi: info.version must be set")
	}
	paths, _ := document["paths"].(map[string]any)
	if len(paths) == 0 {
		return fmt.Errorf("openapi: document must define at least one path")
	}
	for pathKey, pathValue := range paths {
		if !strings.HasPrefix(pathKey, "/") {
			return fmt.Errorf("openapi: path %q must start with /", pathKey)
		}
		pathItem, _ := pathValue.(map[string]any)
		if len(pathItem) == 0 {
			return fmt.Errorf("openapi: path %q missing operations", pathKey)
		}
		for method, operationValue := range pathItem {
			operation, _ := operationValue.(map[string]any)
			if operation == nil {
				return fmt.Errorf("openapi: operation %s %s invalid payload", method, pathKey)
			}
			if _, ok := operation["operationId"].(string); !ok {
				return fmt.Errorf("openapi: operation %s %s missing operationId", method, pathKey)
			}
			if _, ok := operation["responses"].(map[string]any); !ok {
				return fmt.Errorf("openapi: operation %s %s missing responses", method, pathKey)
			}
		}
	}
	return nil
}
