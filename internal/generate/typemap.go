package generate

import "github.com/usestring/trafficspec/pkg/types"

// typeTable maps the primitive tags to concrete type names for one target
// language. Array and object recursion and nullable wrapping are handled by
// the functions below, not the table.
type typeTable map[types.ParameterType]string

var pythonTypes = typeTable{
	types.TypeString:  "str",
	types.TypeInteger: "int",
	types.TypeFloat:   "float",
	types.TypeBoolean: "bool",
	types.TypeObject:  "Dict[str, Any]",
	types.TypeNull:    "None",
	types.TypeAny:     "Any",
}

var typeScriptTypes = typeTable{
	types.TypeString:  "string",
	types.TypeInteger: "number",
	types.TypeFloat:   "number",
	types.TypeBoolean: "boolean",
	types.TypeObject:  "Record<string, any>",
	types.TypeNull:    "null",
	types.TypeAny:     "any",
}

var goTypes = typeTable{
	types.TypeString:  "string",
	types.TypeInteger: "int64",
	types.TypeFloat:   "float64",
	types.TypeBoolean: "bool",
	types.TypeObject:  "map[string]any",
	types.TypeNull:    "any",
	types.TypeAny:     "any",
}

// pythonType maps a schema to a Python type annotation.
func pythonType(s *types.Schema) string {
	if s == nil {
		return "Any"
	}
	var t string
	if s.Type == types.TypeArray {
		if s.Items != nil {
			t = "List[" + pythonType(s.Items) + "]"
		} else {
			t = "List[Any]"
		}
	} else {
		t = pythonTypes[s.Type]
		if t == "" {
			t = "Any"
		}
	}
	if s.Nullable && t != "Any" && t != "None" {
		t = "Optional[" + t + "]"
	}
	return t
}

// typeScriptType maps a schema to a TypeScript type expression.
func typeScriptType(s *types.Schema) string {
	if s == nil {
		return "any"
	}
	var t string
	if s.Type == types.TypeArray {
		if s.Items != nil {
			inner := typeScriptType(s.Items)
			t = "Array<" + inner + ">"
		} else {
			t = "any[]"
		}
	} else {
		t = typeScriptTypes[s.Type]
		if t == "" {
			t = "any"
		}
	}
	if s.Nullable && t != "any" && t != "null" {
		t = t + " | null"
	}
	return t
}

// goType maps a schema to a Go type. Only scalar types gain a pointer for
// nullability; slices, maps and any are already nil-able.
func goType(s *types.Schema) string {
	if s == nil {
		return "any"
	}
	var t string
	if s.Type == types.TypeArray {
		if s.Items != nil {
			t = "[]" + goType(s.Items)
		} else {
			t = "[]any"
		}
	} else {
		t = goTypes[s.Type]
		if t == "" {
			t = "any"
		}
	}
	if s.Nullable && isGoScalar(t) {
		t = "*" + t
	}
	return t
}

func isGoScalar(t string) bool {
	switch t {
	case "string", "int64", "float64", "bool":
		return true
	}
	return false
}

// pythonParamType, typeScriptParamType and goParamType map a bare parameter
// tag (path, query, header parameters carry a tag but no structure).
func pythonParamType(t types.ParameterType) string {
	return pythonType(&types.Schema{Type: t})
}

func typeScriptParamType(t types.ParameterType) string {
	return typeScriptType(&types.Schema{Type: t})
}

func goParamType(t types.ParameterType) string {
	return goType(&types.Schema{Type: t})
}
