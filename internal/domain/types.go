// Package domain contains core domain types shared across the core-schemas
// application. These types represent schema sources, the unified composite
// schema, and the generated document tree that injection operates on.
package domain

import (
	"github.com/go-openapi/spec"
	json "github.com/goccy/go-json"
)

const (
	// SchemaDialect is the JSON Schema dialect the unified composite declares.
	SchemaDialect = "https://json-schema.org/draft-07/schema#"

	// NoSchemasDescription is the description of the empty composite sentinel.
	NoSchemasDescription = "No schemas available"
)

// Source is a named, immutable pointer to one schema document's location.
// Sources are created by the hosting application at startup and handed to the
// registry once.
type Source struct {
	// Name is the unique, stable identifier of the source.
	Name string `json:"name"`

	// Location is a resolvable path to the schema document.
	Location string `json:"location"`
}

// FieldSchemaProvider is the dynamic per-field capability a model type may
// implement: given a schema name, synthesize a schema document at call time.
// Returning nil means "no dynamic schema for this field".
type FieldSchemaProvider interface {
	SchemaForField(name string) *spec.Schema
}

// UnifiedSchema is the anyOf composite built from all registered sources.
// AnyOf holds the raw source documents in registration order. It is a
// derived, cached value, never independently persisted.
type UnifiedSchema struct {
	Schema      string            `json:"$schema"`
	Description string            `json:"description"`
	AnyOf       []json.RawMessage `json:"anyOf"`
}

// Document is the generated document tree being decorated: a set of named
// sub-schema definitions plus any root-level properties declared outside the
// named definitions. The external document pipeline owns it for the duration
// of one build call; injection mutates it in place.
type Document struct {
	Definitions spec.Definitions       `json:"definitions,omitempty"`
	Properties  map[string]spec.Schema `json:"properties,omitempty"`
}

// NewDocument creates an empty document tree.
func NewDocument() *Document {
	return &Document{
		Definitions: make(spec.Definitions),
		Properties:  make(map[string]spec.Schema),
	}
}

// IsPureChoice reports whether a schema body expresses only "match one of N
// alternatives": an anyOf with no direct type.
func IsPureChoice(s *spec.Schema) bool {
	return s != nil && len(s.AnyOf) > 0 && len(s.Type) == 0
}
