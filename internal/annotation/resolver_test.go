package annotation

import (
	"testing"

	"github.com/go-openapi/spec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type account struct {
	ID           string `json:"id"`
	MetadataJson string `json:"metadataJson" schema:""`
	APIConfig    string `json:"apiConfigJson" schema:""`
	Integrations string `json:"integrations" schema:"integration_settings"`
	Tags         string `json:"tags" schema:""`
	internal     string `schema:""` //nolint:unused
}

type dynamicAccount struct {
	MetadataJson string `json:"metadataJson" schema:""`
}

func (dynamicAccount) SchemaForField(name string) *spec.Schema {
	return &spec.Schema{SchemaProps: spec.SchemaProps{Description: name}}
}

func TestResolver_RegisterType(t *testing.T) {
	t.Run("builds field table for struct", func(t *testing.T) {
		r := NewResolver()
		require.NoError(t, r.RegisterType(account{}))

		info, ok := r.Lookup("account")
		require.True(t, ok)
		assert.Equal(t, "account", info.ShortName)
		assert.False(t, info.HasProvider)
	})

	t.Run("accepts pointer to struct", func(t *testing.T) {
		r := NewResolver()
		require.NoError(t, r.RegisterType(&account{}))

		_, ok := r.Lookup("account")
		assert.True(t, ok)
	})

	t.Run("rejects non-struct types", func(t *testing.T) {
		r := NewResolver()

		assert.Error(t, r.RegisterType("not a struct"))
		assert.Error(t, r.RegisterType(42))
		assert.Error(t, r.RegisterType(nil))
	})

	t.Run("detects the dynamic provider capability", func(t *testing.T) {
		r := NewResolver()
		require.NoError(t, r.RegisterType(dynamicAccount{}))

		info, ok := r.Lookup("dynamicAccount")
		require.True(t, ok)
		assert.True(t, info.HasProvider)
	})
}

func TestResolver_Resolve(t *testing.T) {
	r := NewResolver()
	require.NoError(t, r.RegisterType(account{}))

	tests := []struct {
		name      string
		fieldName string
		want      string
		wantOK    bool
	}{
		{"derived name strips suffix", "metadataJson", "metadata", true},
		{"derived name converts case boundaries", "apiConfigJson", "api_config", true},
		{"explicit name wins", "integrations", "integration_settings", true},
		{"no suffix derives as-is", "tags", "tags", true},
		{"unmarked field", "id", "", false},
		{"unknown field", "doesNotExist", "", false},
		{"unexported field is never marked", "internal", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := r.Resolve("account", tt.fieldName)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("unknown type resolves to nothing", func(t *testing.T) {
		_, ok := r.Resolve("unknown", "metadataJson")
		assert.False(t, ok)
	})
}

func TestResolver_SnakeCaseVariants(t *testing.T) {
	r := NewResolver()
	require.NoError(t, r.RegisterType(account{}))

	// The snake_case convention variant of a marked camelCase field resolves
	// to the same schema name.
	got, ok := r.Resolve("account", "metadata_json")
	require.True(t, ok)
	assert.Equal(t, "metadata", got)

	got, ok = r.Resolve("account", "api_config_json")
	require.True(t, ok)
	assert.Equal(t, "api_config", got)
}
