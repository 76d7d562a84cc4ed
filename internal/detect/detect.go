// Package detect derives cross-endpoint conventions from a full call set:
// authentication patterns, rate-limit header signatures, and path-pattern
// groups. Detection scans all calls globally rather than per endpoint, since
// an API's auth and throttling conventions span endpoints.
package detect

import (
	"net/url"
	"sort"
	"strings"

	"github.com/usestring/trafficspec/internal/normalize"
	"github.com/usestring/trafficspec/pkg/types"
)

// apiKeyHeaders are header names treated as API key carriers.
var apiKeyHeaders = map[string]bool{
	"x-api-key": true,
	"apikey":    true,
	"api-key":   true,
}

// tokenQueryParams are query parameter names treated as credential carriers.
var tokenQueryParams = map[string]bool{
	"api_key":      true,
	"apikey":       true,
	"access_token": true,
	"auth_token":   true,
	"token":        true,
}

// AuthPatterns scans all calls for authentication conventions. Multiple
// distinct patterns may coexist; an API can support several mechanisms.
// Example token values are capped at types.MaxAuthExamples.
func AuthPatterns(calls []types.CapturedCall) []types.AuthPattern {
	var bearerExamples []string
	basicSeen := false
	apiKeyExamples := make(map[string][]string)   // canonical header name -> values
	customExamples := make(map[string][]string)   // canonical header name -> values
	queryExamples := make(map[string][]string)    // query parameter name -> values
	var apiKeyOrder, customOrder, queryOrder []string

	for _, call := range calls {
		for param, value := range call.Request.QueryParams {
			lower := strings.ToLower(param)
			if !tokenQueryParams[lower] {
				continue
			}
			if _, ok := queryExamples[lower]; !ok {
				queryOrder = append(queryOrder, lower)
			}
			queryExamples[lower] = appendCapped(queryExamples[lower], value)
		}

		for header, value := range call.Request.Headers {
			lower := strings.ToLower(header)

			switch {
			case lower == "authorization":
				switch {
				case strings.HasPrefix(value, "Bearer "):
					bearerExamples = appendCapped(bearerExamples, strings.TrimPrefix(value, "Bearer "))
				case strings.HasPrefix(value, "Basic "):
					basicSeen = true
				}

			case apiKeyHeaders[lower]:
				if _, ok := apiKeyExamples[lower]; !ok {
					apiKeyOrder = append(apiKeyOrder, lower)
				}
				apiKeyExamples[lower] = appendCapped(apiKeyExamples[lower], value)

			case strings.Contains(lower, "token") || strings.Contains(lower, "auth"):
				if _, ok := customExamples[lower]; !ok {
					customOrder = append(customOrder, lower)
				}
				customExamples[lower] = appendCapped(customExamples[lower], value)
			}
		}
	}

	var patterns []types.AuthPattern
	if len(bearerExamples) > 0 {
		patterns = append(patterns, types.AuthPattern{
			Type:        types.AuthBearerToken,
			HeaderName:  "Authorization",
			TokenPrefix: "Bearer",
			Examples:    bearerExamples,
		})
	}
	if basicSeen {
		patterns = append(patterns, types.AuthPattern{
			Type:        types.AuthBasicAuth,
			HeaderName:  "Authorization",
			TokenPrefix: "Basic",
		})
	}

	sort.Strings(apiKeyOrder)
	for _, header := range apiKeyOrder {
		patterns = append(patterns, types.AuthPattern{
			Type:       types.AuthAPIKey,
			HeaderName: header,
			Examples:   apiKeyExamples[header],
		})
	}

	sort.Strings(customOrder)
	for _, header := range customOrder {
		patterns = append(patterns, types.AuthPattern{
			Type:       types.AuthCustomHeader,
			HeaderName: header,
			Examples:   customExamples[header],
		})
	}

	// Query-carried credentials rank after header mechanisms: when both
	// appear in a capture the header convention is the primary one.
	sort.Strings(queryOrder)
	for _, param := range queryOrder {
		patterns = append(patterns, types.AuthPattern{
			Type:          types.AuthAPIKey,
			ParameterName: param,
			Examples:      queryExamples[param],
		})
	}

	return patterns
}

func appendCapped(values []string, v string) []string {
	if len(values) >= types.MaxAuthExamples {
		return values
	}
	for _, existing := range values {
		if existing == v {
			return values
		}
	}
	return append(values, v)
}

// PathGroups groups the concrete request paths in the call set by their
// normalized pattern. Used for diagnostics; the analyzer performs its own
// (method, pattern) grouping.
func PathGroups(calls []types.CapturedCall, n *normalize.Normalizer) map[string][]string {
	groups := make(map[string][]string)
	for _, call := range calls {
		parsed, err := url.Parse(call.Request.URL)
		if err != nil {
			continue
		}
		res := n.Normalize(parsed.Path)
		groups[res.Pattern] = append(groups[res.Pattern], parsed.Path)
	}
	return groups
}
