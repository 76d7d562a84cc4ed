// Package filter scopes a captured call set with a jq expression before
// analysis. The expression is evaluated against each call's JSON form; calls
// for which it yields a truthy value are kept. This lets users analyze one
// host or path subset out of a mixed capture without touching the analyzer.
package filter

import (
	"encoding/json"
	"fmt"

	"github.com/itchyny/gojq"

	"github.com/usestring/trafficspec/pkg/types"
)

// Filter is a compiled jq predicate over captured calls.
type Filter struct {
	expression string
	code       *gojq.Code
}

// Compile parses and compiles a jq expression, e.g.
// `.request.url | contains("api.example.com")`.
func Compile(expression string) (*Filter, error) {
	query, err := gojq.Parse(expression)
	if err != nil {
		return nil, fmt.Errorf("invalid jq expression: %w", err)
	}
	code, err := gojq.Compile(query)
	if err != nil {
		return nil, fmt.Errorf("compiling jq expression: %w", err)
	}
	return &Filter{expression: expression, code: code}, nil
}

// Expression returns the source expression.
func (f *Filter) Expression() string {
	return f.expression
}

// Apply returns the calls for which the expression yields a truthy first
// value. Evaluation errors on individual calls drop the call rather than
// aborting the whole set; jq type errors are expected on heterogeneous
// captures.
func (f *Filter) Apply(calls []types.CapturedCall) ([]types.CapturedCall, error) {
	kept := make([]types.CapturedCall, 0, len(calls))
	for _, call := range calls {
		v, err := callToValue(call)
		if err != nil {
			return nil, err
		}
		if f.matches(v) {
			kept = append(kept, call)
		}
	}
	return kept, nil
}

func (f *Filter) matches(v any) bool {
	iter := f.code.Run(v)
	result, ok := iter.Next()
	if !ok {
		return false
	}
	if _, isErr := result.(error); isErr {
		return false
	}
	return result != nil && result != false
}

// callToValue round-trips a call through JSON to the untyped form gojq
// operates on.
func callToValue(call types.CapturedCall) (any, error) {
	data, err := json.Marshal(call)
	if err != nil {
		return nil, fmt.Errorf("encoding call for filter: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("decoding call for filter: %w", err)
	}
	return v, nil
}
