// Package validate checks inferred schemas against the very examples they
// were inferred from. A disagreement means inference or merging lost
// information, so the self-check runs after analysis and before export.
package validate

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/usestring/trafficspec/pkg/jsoncompact"
	schemaconv "github.com/usestring/trafficspec/pkg/jsonschema"
	"github.com/usestring/trafficspec/pkg/types"
)

// Result is the outcome of validating one JSON document.
type Result struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

// Issue is one failed example found during a spec self-check.
type Issue struct {
	Endpoint     string   `json:"endpoint"`
	StatusCode   int      `json:"status_code"`
	ContentType  string   `json:"content_type"`
	ExampleIndex int      `json:"example_index"`
	Errors       []string `json:"errors"`
}

// Validator validates JSON documents against one inferred schema.
type Validator struct {
	compiled *jsonschema.Schema
}

// New compiles an inferred schema into a validator.
func New(s *types.Schema) (*Validator, error) {
	raw, err := schemaconv.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshaling schema: %w", err)
	}

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("unmarshaling schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", doc); err != nil {
		return nil, fmt.Errorf("adding schema resource: %w", err)
	}
	compiled, err := compiler.Compile("schema.json")
	if err != nil {
		return nil, fmt.Errorf("compiling schema: %w", err)
	}

	return &Validator{compiled: compiled}, nil
}

// Validate checks a raw JSON document against the schema.
func (v *Validator) Validate(data []byte) Result {
	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return Result{Errors: []string{fmt.Sprintf("invalid JSON: %s", err)}}
	}
	return v.ValidateValue(value)
}

// ValidateValue checks an already-parsed value against the schema.
func (v *Validator) ValidateValue(value any) Result {
	err := v.compiled.Validate(value)
	if err == nil {
		return Result{Valid: true}
	}
	return Result{Errors: extractErrors(err)}
}

// Spec validates every retained response example against its inferred
// schema. Retained examples are stored compacted, so trimming markers are
// stripped before validation; a compacted example disagreeing with its
// schema otherwise means inference or merging lost information. The
// returned issues are empty when the spec is self-consistent.
func Spec(spec *types.APISpec) ([]Issue, error) {
	var issues []Issue

	for i := range spec.Endpoints {
		ep := &spec.Endpoints[i]
		for _, resp := range ep.Responses {
			if resp.Schema == nil || len(resp.Examples) == 0 {
				continue
			}
			v, err := New(resp.Schema)
			if err != nil {
				return nil, fmt.Errorf("endpoint %s response %d: %w", ep.Key(), resp.StatusCode, err)
			}
			for idx, example := range resp.Examples {
				var value any
				if err := json.Unmarshal(example, &value); err != nil {
					issues = append(issues, Issue{
						Endpoint:     ep.Key(),
						StatusCode:   resp.StatusCode,
						ContentType:  resp.ContentType,
						ExampleIndex: idx,
						Errors:       []string{fmt.Sprintf("invalid JSON: %s", err)},
					})
					continue
				}
				if res := v.ValidateValue(jsoncompact.StripMarkers(value)); !res.Valid {
					issues = append(issues, Issue{
						Endpoint:     ep.Key(),
						StatusCode:   resp.StatusCode,
						ContentType:  resp.ContentType,
						ExampleIndex: idx,
						Errors:       res.Errors,
					})
				}
			}
		}
	}
	return issues, nil
}

// printer renders validation errors as English text.
var printer = message.NewPrinter(language.English)

func extractErrors(err error) []string {
	var validationErr *jsonschema.ValidationError
	if errors.As(err, &validationErr) {
		byPath := make(map[string][]string)
		collectErrors(validationErr, byPath)

		var out []string
		for path, msgs := range byPath {
			seen := make(map[string]bool)
			for _, msg := range msgs {
				if seen[msg] {
					continue
				}
				seen[msg] = true
				if path != "" {
					out = append(out, fmt.Sprintf("%s: %s", path, msg))
				} else {
					out = append(out, msg)
				}
			}
		}
		return out
	}
	return []string{err.Error()}
}

// collectErrors walks the cause tree and keeps leaf errors, which carry the
// concrete failures. Reference bookkeeping messages are skipped.
func collectErrors(err *jsonschema.ValidationError, byPath map[string][]string) {
	path := ""
	if len(err.InstanceLocation) > 0 {
		path = "/" + strings.Join(err.InstanceLocation, "/")
	}

	if err.ErrorKind != nil && len(err.Causes) == 0 {
		msg := err.ErrorKind.LocalizedString(printer)
		if !strings.HasPrefix(msg, "$ref ") && !strings.HasPrefix(msg, "doesn't validate with") {
			byPath[path] = append(byPath[path], msg)
		}
	}
	for _, cause := range err.Causes {
		collectErrors(cause, byPath)
	}
}
