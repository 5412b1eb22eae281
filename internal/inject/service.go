// Package inject decorates a generated document tree with per-field schema
// bodies. For every marked field it resolves a body (dynamic provider first,
// then schema file, else skip), rewrites the field's sub-schema according to
// the pure-choice vs typed-object policy, and removes redundant
// alternate-convention field names.
package inject

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"

	"github.com/go-openapi/spec"
	json "github.com/goccy/go-json"

	"github.com/griffnb/core-schemas/internal/annotation"
	"github.com/griffnb/core-schemas/internal/console"
	"github.com/griffnb/core-schemas/internal/domain"
)

// Service performs schema injection for one document-build call at a time.
type Service struct {
	resolver *annotation.Resolver
	baseDir  string
}

// NewService creates an injector that resolves field markings through the
// given resolver and loads per-field schema files from baseDir.
func NewService(resolver *annotation.Resolver, baseDir string) *Service {
	return &Service{
		resolver: resolver,
		baseDir:  baseDir,
	}
}

// Inject decorates the document tree for the given model type and returns
// it. Per-field failures are isolated: a missing schema file leaves the
// generated sub-schema untouched, a malformed one is warned and skipped.
// Only a model type the resolver knows nothing about aborts the build.
func (s *Service) Inject(doc *domain.Document, model interface{}) (*domain.Document, error) {
	if doc == nil {
		return nil, fmt.Errorf("cannot inject into a nil document")
	}

	typeName := modelTypeName(model)

	info, ok := s.resolver.Lookup(typeName)
	if !ok {
		return nil, fmt.Errorf("type %q is not registered for schema injection", typeName)
	}

	var provider domain.FieldSchemaProvider
	if info.HasProvider {
		provider, _ = model.(domain.FieldSchemaProvider)
	}

	// Named definitions and root-level properties get identical treatment.
	for name := range doc.Definitions {
		s.injectProperties(doc.Definitions[name].Properties, info, provider)
	}
	s.injectProperties(doc.Properties, info, provider)

	for name := range doc.Definitions {
		removeConventionDuplicates(doc.Definitions[name].Properties)
	}
	removeConventionDuplicates(doc.Properties)

	return doc, nil
}

// injectProperties rewrites every marked field in one properties mapping.
func (s *Service) injectProperties(props map[string]spec.Schema, info *annotation.TypeInfo, provider domain.FieldSchemaProvider) {
	for fieldName := range props {
		schemaName, ok := info.SchemaName(fieldName)
		if !ok {
			console.Logger.Debug("field %s.%s is not marked for schema injection", info.Name, fieldName)
			continue
		}

		body := s.resolveBody(info, provider, schemaName)
		if body == nil {
			continue
		}

		props[fieldName] = rewriteFieldSchema(body)
	}
}

// resolveBody resolves a field's schema body: the dynamic provider wins when
// it returns one, otherwise the schema file store is consulted. Returns nil
// when the field has no override.
func (s *Service) resolveBody(info *annotation.TypeInfo, provider domain.FieldSchemaProvider, schemaName string) *spec.Schema {
	if provider != nil {
		if body := provider.SchemaForField(schemaName); body != nil {
			return body
		}
	}

	path := filepath.Join(s.baseDir, info.ShortName+"-"+schemaName+".json")

	data, err := os.ReadFile(path)
	if err != nil {
		console.Logger.Debug("no schema file for %q at %s, leaving field unchanged", schemaName, path)
		return nil
	}

	var body spec.Schema
	if err := json.Unmarshal(data, &body); err != nil {
		console.Logger.Warn("skipping malformed schema file %s: %v", path, err)
		return nil
	}

	return &body
}

// rewriteFieldSchema replaces a field's generated sub-schema with the
// resolved body.
//
// A pure-choice body keeps only description and anyOf; any type, properties,
// required or additionalProperties the base generator produced would
// contradict the choice and must not leak through. A typed-object body keeps
// all four object keys, defaulted when the body omits them, plus anyOf when
// the body carries both constraints at once.
func rewriteFieldSchema(body *spec.Schema) spec.Schema {
	if domain.IsPureChoice(body) {
		return spec.Schema{SchemaProps: spec.SchemaProps{
			Description: body.Description,
			AnyOf:       body.AnyOf,
		}}
	}

	out := spec.Schema{SchemaProps: spec.SchemaProps{
		Type:                 body.Type,
		Description:          body.Description,
		Properties:           body.Properties,
		Required:             body.Required,
		AdditionalProperties: body.AdditionalProperties,
	}}

	if len(out.Type) == 0 {
		out.Type = []string{"object"}
	}
	if out.Properties == nil {
		out.Properties = make(map[string]spec.Schema)
	}
	if out.Required == nil {
		out.Required = []string{}
	}
	if out.AdditionalProperties == nil {
		out.AdditionalProperties = &spec.SchemaOrBool{Allows: false}
	}

	if len(body.AnyOf) > 0 {
		out.AnyOf = body.AnyOf
	}

	return out
}

// modelTypeName returns the declared type name of a model value, indirecting
// through pointers.
func modelTypeName(model interface{}) string {
	if model == nil {
		return ""
	}

	t := reflect.TypeOf(model)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	return t.Name()
}
