package types

import (
	"encoding/json"
	"fmt"
)

// APISpec is the root aggregate produced by analysis: base URL, endpoint
// list, globally detected auth patterns, and rate-limit info. It is built
// exactly once from a complete call set and is immutable thereafter; the
// generators and exporters are strictly downstream renderers of it.
type APISpec struct {
	BaseURL      string        `json:"base_url"`
	Title        string        `json:"title"`
	Version      string        `json:"version"`
	Description  string        `json:"description,omitempty"`
	Endpoints    []Endpoint    `json:"endpoints"`
	AuthPatterns []AuthPattern `json:"auth_patterns"`
	RateLimit    *RateLimit    `json:"rate_limit,omitempty"`
}

// JSON serializes the spec to indented JSON, the wire format consumed by
// generators and exporters.
func (s *APISpec) JSON() ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// ParseSpec deserializes a spec previously produced by JSON.
func ParseSpec(data []byte) (*APISpec, error) {
	var spec APISpec
	if err := json.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("parsing API spec: %w", err)
	}
	return &spec, nil
}

// Endpoint returns the endpoint with the given method and path pattern,
// or nil if the spec has none.
func (s *APISpec) Endpoint(method, path string) *Endpoint {
	for i := range s.Endpoints {
		if s.Endpoints[i].Method == method && s.Endpoints[i].Path == path {
			return &s.Endpoints[i]
		}
	}
	return nil
}

// PrimaryAuth returns the first detected auth pattern, or nil when the API
// is unauthenticated. Generators wire exactly one auth mechanism; first
// detected wins.
func (s *APISpec) PrimaryAuth() *AuthPattern {
	if len(s.AuthPatterns) == 0 {
		return nil
	}
	return &s.AuthPatterns[0]
}
