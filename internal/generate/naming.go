package generate

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/usestring/trafficspec/internal/normalize"
	"github.com/usestring/trafficspec/pkg/types"
)

var titleCaser = cases.Title(language.English)

// MethodName derives the language-neutral operation name for an endpoint as
// a word list: an HTTP-verb word plus the sanitized last meaningful path
// segment. GET becomes "list" when that segment is plural (a collection)
// and "get" otherwise; every emitter then applies its own casing.
func MethodName(ep *types.Endpoint) []string {
	resource := lastResourceSegment(ep.Path)

	var verb string
	switch ep.Method {
	case "GET":
		if isPlural(resource) && !endsWithParameter(ep.Path) {
			verb = "list"
		} else {
			verb = "get"
		}
	case "POST":
		verb = "create"
	case "PUT":
		verb = "update"
	case "PATCH":
		verb = "patch"
	case "DELETE":
		verb = "delete"
	default:
		verb = strings.ToLower(ep.Method)
	}

	// Collection listings keep the plural; every other operation addresses
	// one item of the resource: list_users but get_user, create_user.
	if verb != "list" {
		resource = normalize.Singularize(resource)
	}

	return append([]string{verb}, splitWords(resource)...)
}

// lastResourceSegment returns the last non-placeholder path segment, or
// "resource" for paths made entirely of placeholders.
func lastResourceSegment(path string) string {
	resource := "resource"
	for _, seg := range strings.Split(path, "/") {
		if seg != "" && !strings.HasPrefix(seg, "{") {
			resource = seg
		}
	}
	return resource
}

// endsWithParameter reports whether the final path segment is a placeholder,
// i.e. the operation addresses a single item rather than a collection.
func endsWithParameter(path string) bool {
	segs := strings.Split(strings.TrimSuffix(path, "/"), "/")
	if len(segs) == 0 {
		return false
	}
	return strings.HasPrefix(segs[len(segs)-1], "{")
}

func isPlural(word string) bool {
	return normalize.Singularize(word) != word
}

// splitWords breaks an identifier into lowercase words on non-alphanumeric
// separators and camelCase boundaries.
func splitWords(s string) []string {
	var words []string
	var cur strings.Builder

	flush := func() {
		if cur.Len() > 0 {
			words = append(words, strings.ToLower(cur.String()))
			cur.Reset()
		}
	}

	var prev rune
	for _, r := range s {
		switch {
		case !unicode.IsLetter(r) && !unicode.IsDigit(r):
			flush()
		case unicode.IsUpper(r) && unicode.IsLower(prev):
			flush()
			cur.WriteRune(r)
		default:
			cur.WriteRune(r)
		}
		prev = r
	}
	flush()

	if len(words) == 0 {
		return []string{"unknown"}
	}
	// Identifiers cannot start with a digit.
	if first := words[0]; first[0] >= '0' && first[0] <= '9' {
		words[0] = "n" + first
	}
	return words
}

// SnakeCase joins words with underscores: []{"get", "user"} -> "get_user".
func SnakeCase(words []string) string {
	return strings.Join(words, "_")
}

// CamelCase joins words in lowerCamelCase: []{"get", "user"} -> "getUser".
func CamelCase(words []string) string {
	if len(words) == 0 {
		return ""
	}
	return words[0] + PascalCase(words[1:])
}

// PascalCase joins words in UpperCamelCase: []{"get", "user"} -> "GetUser".
func PascalCase(words []string) string {
	var b strings.Builder
	for _, w := range words {
		b.WriteString(titleCaser.String(w))
	}
	return b.String()
}

// ParamWords splits a parameter or property name for casing.
func ParamWords(name string) []string {
	return splitWords(name)
}
