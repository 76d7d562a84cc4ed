// Package types provides shared types for trafficspec.
// These types are used across multiple packages and are designed for external consumption.
package types

import "encoding/json"

// ParameterType is the primitive type tag inferred for a value.
type ParameterType string

// Primitive type tags. TypeAny is not inferred directly; it is the widening
// result when samples disagree on a tag (or when the inference depth cap is hit).
const (
	TypeString  ParameterType = "string"
	TypeInteger ParameterType = "integer"
	TypeFloat   ParameterType = "float"
	TypeBoolean ParameterType = "boolean"
	TypeArray   ParameterType = "array"
	TypeObject  ParameterType = "object"
	TypeNull    ParameterType = "null"
	TypeAny     ParameterType = "any"
)

// CapturedRequest is one observed HTTP request.
type CapturedRequest struct {
	URL         string            `json:"url"`
	Method      string            `json:"method"`
	Headers     map[string]string `json:"headers,omitempty"`
	QueryParams map[string]string `json:"query_params,omitempty"`
	Body        string            `json:"body,omitempty"`
	TsMs        int64             `json:"ts_ms,omitempty"`
}

// CapturedResponse is one observed HTTP response.
type CapturedResponse struct {
	StatusCode  int               `json:"status_code"`
	Headers     map[string]string `json:"headers,omitempty"`
	Body        string            `json:"body,omitempty"`
	ContentType string            `json:"content_type,omitempty"`
}

// CapturedCall is an immutable record of one request/response exchange.
// It is the source of truth for analysis and is never mutated after capture.
type CapturedCall struct {
	Request    CapturedRequest  `json:"request"`
	Response   CapturedResponse `json:"response"`
	DurationMs float64          `json:"duration_ms,omitempty"`
}

// Parameter describes one path segment, query parameter, or header.
// Required is a statistic derived from sample presence, not an assertion:
// a query parameter is required when it appears in more than half of the
// group's calls, a header when it appears in more than 80%.
type Parameter struct {
	Name        string        `json:"name"`
	Type        ParameterType `json:"type"`
	Required    bool          `json:"required"`
	Description string        `json:"description,omitempty"`
	Example     any           `json:"example,omitempty"`
	Enum        []any         `json:"enum,omitempty"`
	Minimum     *float64      `json:"minimum,omitempty"`
	Maximum     *float64      `json:"maximum,omitempty"`
}

// ResponseSchema describes responses observed for one (status, content type) pair.
type ResponseSchema struct {
	StatusCode  int               `json:"status_code"`
	ContentType string            `json:"content_type"`
	Schema      *Schema           `json:"schema,omitempty"`
	Examples    []json.RawMessage `json:"examples,omitempty"`
}

// Endpoint is a logical API operation identified by (method, path pattern).
// Built once per call group by the analyzer, then frozen.
type Endpoint struct {
	Path         string           `json:"path"`
	Method       string           `json:"method"`
	Summary      string           `json:"summary,omitempty"`
	Description  string           `json:"description,omitempty"`
	Parameters   []Parameter      `json:"parameters"`
	QueryParams  []Parameter      `json:"query_params"`
	Headers      []Parameter      `json:"headers,omitempty"`
	RequestBody  *Schema          `json:"request_body,omitempty"`
	Responses    []ResponseSchema `json:"responses"`
	AuthRequired bool             `json:"auth_required"`
}

// Key returns the identity of the endpoint: "METHOD /path/pattern".
// An APISpec never contains two endpoints with the same key.
func (e *Endpoint) Key() string {
	return e.Method + " " + e.Path
}

// AuthType is a detected authentication convention.
type AuthType string

const (
	AuthNone         AuthType = "none"
	AuthAPIKey       AuthType = "api_key"
	AuthBearerToken  AuthType = "bearer_token"
	AuthBasicAuth    AuthType = "basic_auth"
	AuthOAuth        AuthType = "oauth"
	AuthCustomHeader AuthType = "custom_header"
)

// MaxAuthExamples caps how many example token values an AuthPattern retains.
// Large capture sets can carry thousands of distinct tokens; keeping a handful
// is enough for documentation and keeps memory bounded.
const MaxAuthExamples = 3

// AuthPattern is a detected authentication convention: a header name plus
// an optional token prefix (e.g. "Bearer").
type AuthPattern struct {
	Type          AuthType `json:"type"`
	HeaderName    string   `json:"header_name,omitempty"`
	ParameterName string   `json:"parameter_name,omitempty"`
	TokenPrefix   string   `json:"token_prefix,omitempty"`
	Examples      []string `json:"examples,omitempty"`
}

// RateLimit captures rate-limiting conventions observed in response headers.
// Numeric budgets are best-effort parses of header values; Headers always
// records the raw header names and a sample value.
type RateLimit struct {
	RequestsPerMinute *int              `json:"requests_per_minute,omitempty"`
	RequestsPerHour   *int              `json:"requests_per_hour,omitempty"`
	RequestsPerDay    *int              `json:"requests_per_day,omitempty"`
	Headers           map[string]string `json:"headers,omitempty"`
}
