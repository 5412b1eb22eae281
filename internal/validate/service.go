// Package validate checks arbitrary data against the unified composite
// schema. Validation itself is delegated to an external JSON Schema engine
// behind a plain boolean contract.
package validate

import (
	"bytes"

	json "github.com/goccy/go-json"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/griffnb/core-schemas/internal/console"
	"github.com/griffnb/core-schemas/internal/registry"
)

const resourceURL = "unified.schema.json"

// Service validates data against the registry's current unified schema.
type Service struct {
	registry *registry.Service
}

// NewService creates a validator reading the composite from the given
// registry.
func NewService(reg *registry.Service) *Service {
	return &Service{registry: reg}
}

// Validate reports whether data matches the unified composite. Callers get a
// plain boolean; engine and composite errors are logged, never propagated.
func (s *Service) Validate(data interface{}) bool {
	unified, err := s.registry.UnifiedSchema()
	if err != nil {
		console.Logger.Warn("unified schema unavailable: %v", err)
		return false
	}

	payload, err := json.Marshal(unified)
	if err != nil {
		console.Logger.Warn("unified schema is not serializable: %v", err)
		return false
	}

	// Pin the draft on the compiler rather than trusting the engine to map
	// the dialect URI.
	payload = stripDialect(payload)

	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft7

	if err := compiler.AddResource(resourceURL, bytes.NewReader(payload)); err != nil {
		console.Logger.Debug("unified schema rejected by engine: %v", err)
		return false
	}

	schema, err := compiler.Compile(resourceURL)
	if err != nil {
		console.Logger.Debug("unified schema does not compile: %v", err)
		return false
	}

	// The engine validates decoded JSON values, so round-trip Go values
	// through the codec first.
	raw, err := json.Marshal(data)
	if err != nil {
		console.Logger.Debug("data is not serializable: %v", err)
		return false
	}

	var decoded interface{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		console.Logger.Debug("data does not decode: %v", err)
		return false
	}

	if err := schema.Validate(decoded); err != nil {
		console.Logger.Debug("validation failed: %v", err)
		return false
	}

	return true
}

// stripDialect removes the $schema key from a serialized composite so the
// compiler's pinned draft governs compilation.
func stripDialect(payload []byte) []byte {
	var doc map[string]interface{}
	if err := json.Unmarshal(payload, &doc); err != nil {
		return payload
	}

	delete(doc, "$schema")

	stripped, err := json.Marshal(doc)
	if err != nil {
		return payload
	}

	return stripped
}
