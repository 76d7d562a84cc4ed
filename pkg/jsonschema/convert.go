// Package jsonschema converts inferred schemas to JSON Schema Draft 2020-12
// documents for export and self-validation.
package jsonschema

import (
	"encoding/json"
	"sort"

	"github.com/invopop/jsonschema"

	"github.com/usestring/trafficspec/pkg/types"
)

// typeNames maps the inferred primitive tags to JSON Schema type names.
// TypeAny maps to the empty string: an untyped schema matches anything.
var typeNames = map[types.ParameterType]string{
	types.TypeString:  "string",
	types.TypeInteger: "integer",
	types.TypeFloat:   "number",
	types.TypeBoolean: "boolean",
	types.TypeArray:   "array",
	types.TypeObject:  "object",
	types.TypeNull:    "null",
	types.TypeAny:     "",
}

// Convert maps an inferred schema to a JSON Schema. Nullable schemas become
// anyOf the base schema and null, so validation accepts both shapes.
// A nil input converts to the empty schema, which matches anything.
func Convert(s *types.Schema) *jsonschema.Schema {
	if s == nil {
		return &jsonschema.Schema{}
	}

	base := &jsonschema.Schema{Type: typeNames[s.Type]}
	if s.Format != "" {
		base.Format = s.Format
	}

	switch s.Type {
	case types.TypeObject:
		if len(s.Properties) > 0 {
			base.Properties = jsonschema.NewProperties()
			names := make([]string, 0, len(s.Properties))
			for name := range s.Properties {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				base.Properties.Set(name, Convert(s.Properties[name]))
			}
		}
	case types.TypeArray:
		if s.Items != nil {
			base.Items = Convert(s.Items)
		}
	}

	if !s.Nullable || s.Type == types.TypeNull || s.Type == types.TypeAny {
		return base
	}
	return &jsonschema.Schema{
		AnyOf: []*jsonschema.Schema{base, {Type: "null"}},
	}
}

// Marshal converts an inferred schema and serializes it as a JSON document.
func Marshal(s *types.Schema) ([]byte, error) {
	return json.Marshal(Convert(s))
}

// MarshalIndent is Marshal with two-space indentation, for embedding in
// rendered documentation.
func MarshalIndent(s *types.Schema) ([]byte, error) {
	return json.MarshalIndent(Convert(s), "", "  ")
}
