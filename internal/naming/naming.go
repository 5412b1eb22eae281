// Package naming converts field names between the two naming conventions the
// document tree uses: lowerCamelCase public names and snake_case variants.
package naming

import (
	"strings"
	"unicode"
)

const (
	// CamelJSONSuffix is the trailing token on a camelCase field name that
	// marks the field as JSON-typed, e.g. metadataJson.
	CamelJSONSuffix = "Json"

	// SnakeJSONSuffix is the snake_case form of the same marker,
	// e.g. metadata_json.
	SnakeJSONSuffix = "_json"
)

// ToSnakeCase converts a camelCase name to snake_case: a separator is
// inserted before every uppercase letter that immediately follows a lowercase
// letter, then the whole string is lowercased.
func ToSnakeCase(in string) string {
	var (
		runes = []rune(in)
		out   []rune
	)

	for idx, r := range runes {
		if idx > 0 && unicode.IsUpper(r) && unicode.IsLower(runes[idx-1]) {
			out = append(out, '_')
		}

		out = append(out, unicode.ToLower(r))
	}

	return string(out)
}

// ToLowerCamelCase converts a snake_case name to lowerCamelCase: the first
// segment stays lowercase, each following segment is capitalized, and the
// separators are removed.
func ToLowerCamelCase(in string) string {
	segments := strings.Split(in, "_")

	var sb strings.Builder
	for idx, segment := range segments {
		if segment == "" {
			continue
		}

		if idx == 0 {
			sb.WriteString(strings.ToLower(segment))
			continue
		}

		runes := []rune(segment)
		sb.WriteRune(unicode.ToUpper(runes[0]))
		sb.WriteString(string(runes[1:]))
	}

	return sb.String()
}

// DeriveSchemaName derives the effective schema name from a field's declared
// name: drop a trailing Json token if present, then snake-case the remainder.
// Examples: metadataJson → metadata, apiConfigJson → api_config, tags → tags.
func DeriveSchemaName(fieldName string) string {
	trimmed := strings.TrimSuffix(fieldName, CamelJSONSuffix)
	if trimmed == "" {
		trimmed = fieldName
	}

	return ToSnakeCase(trimmed)
}
