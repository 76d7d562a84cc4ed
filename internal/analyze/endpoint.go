package analyze

import (
	"encoding/json"
	"mime"
	"net/url"
	"sort"
	"strings"

	"github.com/usestring/trafficspec/internal/infer"
	"github.com/usestring/trafficspec/pkg/contenttype"
	"github.com/usestring/trafficspec/pkg/jsoncompact"
	"github.com/usestring/trafficspec/pkg/types"
)

// transportHeaders are excluded from header analysis: they describe the
// transport, not the API contract.
var transportHeaders = map[string]bool{
	"host":           true,
	"user-agent":     true,
	"accept":         true,
	"content-length": true,
}

// authHeaders mark a call as authenticated, matched case-insensitively.
var authHeaders = map[string]bool{
	"authorization": true,
	"x-api-key":     true,
	"apikey":        true,
	"api-key":       true,
}

// analyzeGroup aggregates one (method, pattern) group into an Endpoint.
func (a *Analyzer) analyzeGroup(group *callGroup) types.Endpoint {
	return types.Endpoint{
		Path:         group.pattern,
		Method:       group.method,
		Summary:      summarize(group.method, group.pattern),
		Parameters:   pathParameters(group.params),
		QueryParams:  a.queryParameters(group.calls),
		Headers:      a.requiredHeaders(group.calls),
		RequestBody:  requestBodySchema(group.calls),
		Responses:    a.responseSchemas(group.calls),
		AuthRequired: authRequired(group.calls),
	}
}

// pathParameters converts pattern placeholders into parameters. Path
// segments cannot be absent, so they are always string and always required.
func pathParameters(names []string) []types.Parameter {
	params := make([]types.Parameter, 0, len(names))
	for _, name := range names {
		params = append(params, types.Parameter{
			Name:        name,
			Type:        types.TypeString,
			Required:    true,
			Description: "Path parameter: " + name,
		})
	}
	return params
}

// queryParameters tracks, for every parameter name seen anywhere in the
// group, which calls carried it and the histogram of inferred type tags.
// Required means present in strictly more than half of the group's calls;
// the reported type is the most frequent tag with first-seen tie-break.
func (a *Analyzer) queryParameters(calls []types.CapturedCall) []types.Parameter {
	stats := newParamStats()
	for i, call := range calls {
		for name, value := range callQueryParams(call) {
			stats.observe(name, uint32(i), infer.InferString(value), value)
		}
	}
	return stats.parameters(len(calls), requiredMajority)
}

// callQueryParams merges parameters parsed from the URL with the explicitly
// captured map; the explicit map wins on conflicts.
func callQueryParams(call types.CapturedCall) map[string]string {
	merged := make(map[string]string)
	if parsed, err := url.Parse(call.Request.URL); err == nil {
		for name, values := range parsed.Query() {
			if len(values) > 0 {
				merged[name] = values[0]
			}
		}
	}
	for name, value := range call.Request.QueryParams {
		merged[name] = value
	}
	return merged
}

// requiredHeaders promotes a header to the contract only when present in
// more than 80% of the group's calls. The threshold is stricter than for
// query parameters because incidental per-client headers are common noise;
// headers below it are omitted entirely.
func (a *Analyzer) requiredHeaders(calls []types.CapturedCall) []types.Parameter {
	stats := newParamStats()
	for i, call := range calls {
		for name, value := range call.Request.Headers {
			if transportHeaders[strings.ToLower(name)] {
				continue
			}
			stats.observe(name, uint32(i), types.TypeString, value)
		}
	}

	headers := stats.parameters(len(calls), requiredStrict)
	kept := headers[:0]
	for _, h := range headers {
		if !h.Required {
			continue
		}
		h.Description = "Required header: " + h.Name
		kept = append(kept, h)
	}
	return kept
}

// requestBodySchema infers the body schema from the first JSON-parseable
// request body in the group. Later bodies are not merged in; that precision
// gap is a documented trade-off. Non-JSON bodies are skipped, and a group
// with no parseable body legitimately has no schema.
func requestBodySchema(calls []types.CapturedCall) *types.Schema {
	for _, call := range calls {
		if call.Request.Body == "" {
			continue
		}
		var v any
		if err := json.Unmarshal([]byte(call.Request.Body), &v); err != nil {
			continue
		}
		return infer.InferSchema(v)
	}
	return nil
}

// responseSchemas groups responses by (status code, content type) and
// progressively unifies the schema across up to MaxRetainedExamples parsed
// payloads per group. Retained example payloads are compacted so memory
// stays bounded on large captures.
func (a *Analyzer) responseSchemas(calls []types.CapturedCall) []types.ResponseSchema {
	type respKey struct {
		status      int
		contentType string
	}

	groups := make(map[respKey][]types.CapturedResponse)
	var order []respKey
	for _, call := range calls {
		key := respKey{call.Response.StatusCode, responseContentType(call.Response)}
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], call.Response)
	}

	sort.Slice(order, func(i, j int) bool {
		if order[i].status != order[j].status {
			return order[i].status < order[j].status
		}
		return order[i].contentType < order[j].contentType
	})

	schemas := make([]types.ResponseSchema, 0, len(order))
	for _, key := range order {
		rs := types.ResponseSchema{
			StatusCode:  key.status,
			ContentType: key.contentType,
		}

		// Schema inference and example retention only apply to JSON
		// payloads. Other content types keep the (status, content type)
		// entry with no schema. Responses with no recorded content type
		// still get a parse attempt.
		if key.contentType != "unknown" && contenttype.Classify(key.contentType) != contenttype.JSON {
			schemas = append(schemas, rs)
			continue
		}

		var unified *types.Schema
		for _, resp := range groups[key] {
			if len(rs.Examples) >= a.opts.MaxRetainedExamples {
				break
			}
			if resp.Body == "" {
				continue
			}
			var v any
			if err := json.Unmarshal([]byte(resp.Body), &v); err != nil {
				continue
			}
			unified = infer.Merge(unified, infer.InferSchema(v))

			compacted, err := jsoncompact.Compact([]byte(resp.Body), a.opts.Compact)
			if err == nil {
				rs.Examples = append(rs.Examples, json.RawMessage(compacted))
			}
		}
		rs.Schema = unified

		schemas = append(schemas, rs)
	}
	return schemas
}

// responseContentType returns the canonical media type used as a response
// group key. Parameters are stripped so "application/json" and
// "application/json; charset=utf-8" land in the same group.
func responseContentType(resp types.CapturedResponse) string {
	ct := resp.ContentType
	if ct == "" {
		for name, value := range resp.Headers {
			if strings.EqualFold(name, "content-type") {
				ct = value
				break
			}
		}
	}
	if ct == "" {
		return "unknown"
	}
	if mediaType, _, err := mime.ParseMediaType(ct); err == nil {
		return mediaType
	}
	return ct
}

// authRequired is true when any call in the group carries a recognized
// auth-bearing header.
func authRequired(calls []types.CapturedCall) bool {
	for _, call := range calls {
		for name := range call.Request.Headers {
			if authHeaders[strings.ToLower(name)] {
				return true
			}
		}
	}
	return false
}

// summarize produces a human-readable operation summary from the method and
// the last non-placeholder path segment.
func summarize(method, pattern string) string {
	verbs := map[string]string{
		"GET":    "Get",
		"POST":   "Create",
		"PUT":    "Update",
		"PATCH":  "Partially update",
		"DELETE": "Delete",
	}
	verb, ok := verbs[method]
	if !ok {
		verb = method
	}

	resource := "resource"
	for _, seg := range strings.Split(pattern, "/") {
		if seg != "" && !strings.HasPrefix(seg, "{") {
			resource = seg
		}
	}
	return verb + " " + resource
}
