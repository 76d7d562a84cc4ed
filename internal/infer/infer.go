// Package infer maps concrete JSON values to type tags and structural
// schemas, and unifies schemas observed across repeated samples.
package infer

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/usestring/trafficspec/pkg/types"
)

// MaxDepth caps structural recursion during schema inference. Past the cap
// the value is described as "any" rather than recursing further, so
// adversarially nested payloads terminate instead of exhausting the stack.
const MaxDepth = 10

// maxExampleLen bounds retained string examples.
const maxExampleLen = 100

// maxArraySamples bounds how many array elements contribute to the items schema.
const maxArraySamples = 10

var (
	dateTimePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}`)
	emailPattern    = regexp.MustCompile(`^[\w.-]+@[\w.-]+\.\w+$`)
	uriPattern      = regexp.MustCompile(`^https?://`)
)

// InferValue returns the primitive type tag for a decoded JSON value.
func InferValue(v any) types.ParameterType {
	switch val := v.(type) {
	case nil:
		return types.TypeNull
	case bool:
		return types.TypeBoolean
	case float64:
		if val == float64(int64(val)) {
			return types.TypeInteger
		}
		return types.TypeFloat
	case int, int32, int64:
		return types.TypeInteger
	case string:
		return types.TypeString
	case []any:
		return types.TypeArray
	case map[string]any:
		return types.TypeObject
	default:
		return types.TypeString
	}
}

// InferString returns the type tag for a raw string value, sniffing boolean
// and numeric coercions. Query parameters and headers arrive as strings, so
// "42" reports integer and "true" reports boolean.
func InferString(s string) types.ParameterType {
	switch strings.ToLower(s) {
	case "true", "false":
		return types.TypeBoolean
	}
	if _, err := strconv.ParseInt(s, 10, 64); err == nil {
		return types.TypeInteger
	}
	if _, err := strconv.ParseFloat(s, 64); err == nil {
		return types.TypeFloat
	}
	return types.TypeString
}

// InferSchema derives a structural schema from a decoded JSON value.
func InferSchema(v any) *types.Schema {
	return inferSchema(v, 0)
}

func inferSchema(v any, depth int) *types.Schema {
	if depth > MaxDepth {
		return &types.Schema{Type: types.TypeAny}
	}

	switch val := v.(type) {
	case nil:
		return &types.Schema{Type: types.TypeNull, Nullable: true}

	case bool:
		return &types.Schema{Type: types.TypeBoolean, Example: val}

	case float64:
		if val == float64(int64(val)) {
			return &types.Schema{Type: types.TypeInteger, Example: val}
		}
		return &types.Schema{Type: types.TypeFloat, Example: val}

	case string:
		s := &types.Schema{Type: types.TypeString, Example: truncate(val)}
		switch {
		case dateTimePattern.MatchString(val):
			s.Format = "date-time"
		case emailPattern.MatchString(val):
			s.Format = "email"
		case uriPattern.MatchString(val):
			s.Format = "uri"
		}
		return s

	case []any:
		s := &types.Schema{Type: types.TypeArray}
		if len(val) == 0 {
			// No items schema: merging must not invent one from nothing.
			return s
		}
		n := len(val)
		if n > maxArraySamples {
			n = maxArraySamples
		}
		items := inferSchema(val[0], depth+1)
		for _, item := range val[1:n] {
			items = Merge(items, inferSchema(item, depth+1))
		}
		s.Items = items
		return s

	case map[string]any:
		s := &types.Schema{
			Type:       types.TypeObject,
			Properties: make(map[string]*types.Schema, len(val)),
		}
		for k, pv := range val {
			s.Properties[k] = inferSchema(pv, depth+1)
		}
		return s

	default:
		return &types.Schema{Type: types.TypeAny}
	}
}

func truncate(s string) string {
	if len(s) > maxExampleLen {
		return s[:maxExampleLen]
	}
	return s
}
