// Package generate emits client libraries from a frozen APISpec.
//
// Every emitter is a pure function from spec to a file manifest and shares
// the same naming and type-mapping rules, so generated clients are
// structurally parallel across languages: matching method names (modulo
// casing convention), matching required-parameter sets, matching auth
// wiring. Emitters never re-derive schemas or re-run inference.
package generate

import (
	"errors"
	"fmt"

	"github.com/usestring/trafficspec/pkg/types"
)

// ErrUnsupportedLanguage is returned when no emitter exists for the
// requested target. Distinct from analysis errors by design.
var ErrUnsupportedLanguage = errors.New("unsupported target language")

// Generator emits a client library for one target language.
// Generate returns a manifest of relative file paths to file contents;
// writing them to disk is the caller's concern. Generation is
// deterministic: the same spec always produces byte-identical output.
type Generator interface {
	Language() string
	Generate(spec *types.APISpec) (map[string]string, error)
}

// New returns the emitter for the given language name.
func New(language string) (Generator, error) {
	switch language {
	case "python":
		return &PythonGenerator{}, nil
	case "typescript":
		return &TypeScriptGenerator{}, nil
	case "go":
		return &GoGenerator{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedLanguage, language)
	}
}

// Languages lists the supported target languages.
func Languages() []string {
	return []string{"go", "python", "typescript"}
}
