package inject

import (
	"strings"

	"github.com/go-openapi/spec"

	"github.com/griffnb/core-schemas/internal/console"
	"github.com/griffnb/core-schemas/internal/naming"
)

// removeConventionDuplicates deletes snake_case *_json properties whose
// camelCase equivalent also exists in the same properties mapping. The
// camelCase form is the canonical public one.
func removeConventionDuplicates(props map[string]spec.Schema) {
	for name := range props {
		if !strings.HasSuffix(name, naming.SnakeJSONSuffix) {
			continue
		}

		camel := naming.ToLowerCamelCase(name)
		if camel == name {
			continue
		}

		if _, exists := props[camel]; exists {
			console.Logger.Debug("dropping duplicate property %q in favor of %q", name, camel)
			delete(props, name)
		}
	}
}
