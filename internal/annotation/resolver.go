// Package annotation resolves which fields of a model type are marked for
// schema injection and what schema name each marked field uses.
//
// Fields are marked with a `schema` struct tag: an empty tag value derives
// the schema name from the field's document name, a non-empty value names it
// explicitly. The per-type field table is built once at registration via
// reflection, so document builds never re-reflect.
package annotation

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/griffnb/core-schemas/internal/console"
	"github.com/griffnb/core-schemas/internal/domain"
	"github.com/griffnb/core-schemas/internal/naming"
)

// TagName is the struct tag that marks a field for schema injection.
const TagName = "schema"

// TypeInfo is the resolved field table for one registered model type.
type TypeInfo struct {
	// Name is the declared type name.
	Name string

	// ShortName is the lowercased type name used for schema file lookup.
	ShortName string

	// HasProvider reports whether the type implements the dynamic
	// FieldSchemaProvider capability.
	HasProvider bool

	// fields maps document property names (both naming conventions) to the
	// effective schema name.
	fields map[string]string
}

// SchemaName returns the effective schema name for a document field, or
// false if the field is not marked.
func (ti *TypeInfo) SchemaName(fieldName string) (string, bool) {
	name, ok := ti.fields[fieldName]
	return name, ok
}

// Resolver holds the static field tables of all registered model types.
// Registration happens once at startup; lookups are read-only afterwards.
type Resolver struct {
	types map[string]*TypeInfo
}

// NewResolver creates an empty resolver.
func NewResolver() *Resolver {
	return &Resolver{
		types: make(map[string]*TypeInfo),
	}
}

// RegisterType builds the field table for a model type. Registering anything
// but a struct (or pointer to struct) fails; callers treat that type as
// unmarked.
func (r *Resolver) RegisterType(model interface{}) error {
	if model == nil {
		return fmt.Errorf("cannot register nil model")
	}

	t := reflect.TypeOf(model)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	if t.Kind() != reflect.Struct {
		return fmt.Errorf("cannot register %s: schema injection requires a struct type", t)
	}

	info := &TypeInfo{
		Name:      t.Name(),
		ShortName: strings.ToLower(t.Name()),
		fields:    make(map[string]string),
	}

	if _, ok := model.(domain.FieldSchemaProvider); ok {
		info.HasProvider = true
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		tag, marked := field.Tag.Lookup(TagName)
		if !marked {
			continue
		}

		propName := documentFieldName(field)
		if propName == "" {
			continue
		}

		schemaName := strings.TrimSpace(tag)
		if schemaName == "" {
			schemaName = naming.DeriveSchemaName(propName)
		}

		info.fields[propName] = schemaName

		// The document tree may carry the snake_case variant of the same
		// field; both naming conventions resolve to the same schema.
		if snake := naming.ToSnakeCase(propName); snake != propName {
			if _, taken := info.fields[snake]; !taken {
				info.fields[snake] = schemaName
			}
		}
	}

	r.types[t.Name()] = info

	console.Logger.Debug("registered %d schema-marked field(s) on %s", len(info.fields), t.Name())

	return nil
}

// Lookup returns the field table for a registered type name.
func (r *Resolver) Lookup(typeName string) (*TypeInfo, bool) {
	info, ok := r.types[typeName]
	return info, ok
}

// Resolve returns the effective schema name for a field of a registered
// type, or false if the type is unknown or the field is not marked.
func (r *Resolver) Resolve(typeName, fieldName string) (string, bool) {
	info, ok := r.types[typeName]
	if !ok {
		return "", false
	}

	return info.SchemaName(fieldName)
}

// documentFieldName returns the name a field carries in the generated
// document tree: the json tag name when present, otherwise the declared name.
func documentFieldName(field reflect.StructField) string {
	tag := field.Tag.Get("json")
	if tag == "" {
		return field.Name
	}

	name := strings.TrimSpace(strings.Split(tag, ",")[0])
	if name == "-" {
		return ""
	}
	if name == "" {
		return field.Name
	}

	return name
}
