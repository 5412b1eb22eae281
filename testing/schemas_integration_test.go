package testing_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-openapi/spec"
	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/griffnb/core-schemas/internal/annotation"
	"github.com/griffnb/core-schemas/internal/domain"
	"github.com/griffnb/core-schemas/internal/gen"
	"github.com/griffnb/core-schemas/internal/inject"
	"github.com/griffnb/core-schemas/internal/registry"
	"github.com/griffnb/core-schemas/internal/validate"
)

// Union is a representative data class whose JSON-typed fields get schemas
// injected at document-build time.
type Union struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	MetadataJson string `json:"metadataJson" schema:""`
}

const (
	basecampSchema = `{
		"type": "object",
		"properties": {
			"type": {"const": "basecamp"},
			"token": {"type": "string"}
		},
		"required": ["type", "token"],
		"additionalProperties": false
	}`
	githubSchema = `{
		"type": "object",
		"properties": {
			"type": {"const": "github"},
			"token": {"type": "string"},
			"repository": {"type": "string"},
			"owner": {"type": "string"}
		},
		"required": ["type", "token", "repository", "owner"],
		"additionalProperties": false
	}`
	gitlabSchema = `{
		"type": "object",
		"properties": {
			"type": {"const": "gitlab"},
			"token": {"type": "string"},
			"project": {"type": "string"}
		},
		"required": ["type", "token", "project"],
		"additionalProperties": false
	}`
)

// setupRegistry writes the three provider documents and registers them in a
// fixed order.
func setupRegistry(t *testing.T) *registry.Service {
	t.Helper()

	dir := t.TempDir()
	reg := registry.NewService(nil)

	for _, provider := range []struct {
		name string
		doc  string
	}{
		{"basecamp", basecampSchema},
		{"github", githubSchema},
		{"gitlab", gitlabSchema},
	} {
		path := filepath.Join(dir, provider.name+".json")
		require.NoError(t, os.WriteFile(path, []byte(provider.doc), 0o600))
		reg.Register(domain.Source{Name: provider.name, Location: path})
	}

	return reg
}

func TestEndToEnd_UnifiedSchemaAndValidation(t *testing.T) {
	reg := setupRegistry(t)

	unified, err := reg.UnifiedSchema()
	require.NoError(t, err)

	// All three providers, in registration order.
	require.Len(t, unified.AnyOf, 3)
	assert.Equal(t, "Unified schema from 3 provider(s). Must match one of the available schemas.", unified.Description)

	for idx, kind := range []string{"basecamp", "github", "gitlab"} {
		var doc map[string]interface{}
		require.NoError(t, json.Unmarshal(unified.AnyOf[idx], &doc))

		props := doc["properties"].(map[string]interface{})
		discriminator := props["type"].(map[string]interface{})
		assert.Equal(t, kind, discriminator["const"])
	}

	validator := validate.NewService(reg)

	assert.True(t, validator.Validate(map[string]interface{}{
		"type":       "github",
		"token":      "x",
		"repository": "r",
		"owner":      "o",
	}))

	assert.False(t, validator.Validate(map[string]interface{}{
		"type": "unknown",
	}))
}

func TestEndToEnd_DocumentInjection(t *testing.T) {
	reg := setupRegistry(t)

	unified, err := reg.UnifiedSchema()
	require.NoError(t, err)

	// The host pipeline materializes the composite into the per-field schema
	// file for Union's metadata field.
	schemaDir := t.TempDir()
	composite, err := json.Marshal(unified)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(schemaDir, "union-metadata.json"), composite, 0o600))

	resolver := annotation.NewResolver()
	require.NoError(t, resolver.RegisterType(Union{}))

	injector := inject.NewService(resolver, schemaDir)

	doc := domain.NewDocument()
	doc.Definitions["Union"] = spec.Schema{SchemaProps: spec.SchemaProps{
		Type: []string{"object"},
		Properties: map[string]spec.Schema{
			"id":            {SchemaProps: spec.SchemaProps{Type: []string{"string"}}},
			"name":          {SchemaProps: spec.SchemaProps{Type: []string{"string"}}},
			"metadataJson":  {SchemaProps: spec.SchemaProps{Type: []string{"string"}}},
			"metadata_json": {SchemaProps: spec.SchemaProps{Type: []string{"string"}}},
		},
	}}

	doc, err = injector.Inject(doc, Union{})
	require.NoError(t, err)

	props := doc.Definitions["Union"].Properties

	// The composite is a pure choice: the generated string typing is gone
	// and the three alternatives are in place.
	field := props["metadataJson"]
	assert.Empty(t, field.Type)
	assert.Len(t, field.AnyOf, 3)

	// The snake_case duplicate is cleaned up, unmarked fields are untouched.
	assert.NotContains(t, props, "metadata_json")
	assert.Equal(t, spec.StringOrArray{"string"}, props["id"].Type)
}

func TestEndToEnd_GeneratedArtifacts(t *testing.T) {
	reg := setupRegistry(t)

	unified, err := reg.UnifiedSchema()
	require.NoError(t, err)

	outDir := t.TempDir()
	err = gen.New().Build(&gen.Config{
		OutputDir:    outDir,
		OutputTypes:  []string{"json", "yaml"},
		InstanceName: "unions",
	}, unified, nil)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(outDir, "unions.schema.json"))
	require.NoError(t, err)

	var written domain.UnifiedSchema
	require.NoError(t, json.Unmarshal(data, &written))
	assert.Equal(t, domain.SchemaDialect, written.Schema)
	assert.Len(t, written.AnyOf, 3)

	_, err = os.Stat(filepath.Join(outDir, "unions.schema.yaml"))
	assert.NoError(t, err)
}
