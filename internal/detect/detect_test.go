package detect

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usestring/trafficspec/internal/normalize"
	"github.com/usestring/trafficspec/pkg/types"
)

func callWithHeaders(headers map[string]string) types.CapturedCall {
	return types.CapturedCall{
		Request: types.CapturedRequest{
			URL:     "https://api.example.com/users",
			Method:  "GET",
			Headers: headers,
		},
		Response: types.CapturedResponse{StatusCode: 200},
	}
}

func TestAuthPatternsBearer(t *testing.T) {
	calls := []types.CapturedCall{
		callWithHeaders(map[string]string{"Authorization": "Bearer abc"}),
		callWithHeaders(map[string]string{"Authorization": "Bearer def"}),
		callWithHeaders(nil),
	}

	patterns := AuthPatterns(calls)
	require.Len(t, patterns, 1)
	assert.Equal(t, types.AuthBearerToken, patterns[0].Type)
	assert.Equal(t, "Authorization", patterns[0].HeaderName)
	assert.Equal(t, "Bearer", patterns[0].TokenPrefix)
	assert.Equal(t, []string{"abc", "def"}, patterns[0].Examples)
}

func TestAuthPatternsExamplesCapped(t *testing.T) {
	var calls []types.CapturedCall
	for i := 0; i < 50; i++ {
		calls = append(calls, callWithHeaders(map[string]string{
			"Authorization": fmt.Sprintf("Bearer tok-%d", i),
		}))
	}

	patterns := AuthPatterns(calls)
	require.Len(t, patterns, 1)
	assert.Len(t, patterns[0].Examples, types.MaxAuthExamples)
}

func TestAuthPatternsBasic(t *testing.T) {
	calls := []types.CapturedCall{
		callWithHeaders(map[string]string{"Authorization": "Basic dXNlcjpwYXNz"}),
		callWithHeaders(map[string]string{"Authorization": "Basic dXNlcjpwYXNz"}),
	}

	patterns := AuthPatterns(calls)
	require.Len(t, patterns, 1, "repeated basic auth yields one pattern")
	assert.Equal(t, types.AuthBasicAuth, patterns[0].Type)
	assert.Equal(t, "Basic", patterns[0].TokenPrefix)
}

func TestAuthPatternsAPIKeyAndCustom(t *testing.T) {
	calls := []types.CapturedCall{
		callWithHeaders(map[string]string{
			"X-API-Key":       "key-1",
			"X-Session-Token": "sess-1",
		}),
	}

	patterns := AuthPatterns(calls)
	require.Len(t, patterns, 2)

	assert.Equal(t, types.AuthAPIKey, patterns[0].Type)
	assert.Equal(t, "x-api-key", patterns[0].HeaderName)
	assert.Equal(t, []string{"key-1"}, patterns[0].Examples)

	assert.Equal(t, types.AuthCustomHeader, patterns[1].Type)
	assert.Equal(t, "x-session-token", patterns[1].HeaderName)
}

func TestAuthPatternsCoexist(t *testing.T) {
	calls := []types.CapturedCall{
		callWithHeaders(map[string]string{"Authorization": "Bearer abc"}),
		callWithHeaders(map[string]string{"X-API-Key": "key-1"}),
	}

	patterns := AuthPatterns(calls)
	require.Len(t, patterns, 2)
	assert.Equal(t, types.AuthBearerToken, patterns[0].Type)
	assert.Equal(t, types.AuthAPIKey, patterns[1].Type)
}

func TestAuthPatternsQueryToken(t *testing.T) {
	calls := []types.CapturedCall{
		{
			Request: types.CapturedRequest{
				URL:         "https://api.example.com/users",
				Method:      "GET",
				QueryParams: map[string]string{"api_key": "qk-1", "page": "2"},
			},
			Response: types.CapturedResponse{StatusCode: 200},
		},
	}

	patterns := AuthPatterns(calls)
	require.Len(t, patterns, 1)
	assert.Equal(t, types.AuthAPIKey, patterns[0].Type)
	assert.Empty(t, patterns[0].HeaderName)
	assert.Equal(t, "api_key", patterns[0].ParameterName)
	assert.Equal(t, []string{"qk-1"}, patterns[0].Examples)
}

func TestAuthPatternsQueryTokenRanksAfterHeaders(t *testing.T) {
	calls := []types.CapturedCall{
		callWithHeaders(map[string]string{"Authorization": "Bearer abc"}),
		{
			Request: types.CapturedRequest{
				URL:         "https://api.example.com/users",
				Method:      "GET",
				QueryParams: map[string]string{"access_token": "qk-1"},
			},
			Response: types.CapturedResponse{StatusCode: 200},
		},
	}

	patterns := AuthPatterns(calls)
	require.Len(t, patterns, 2)
	assert.Equal(t, types.AuthBearerToken, patterns[0].Type)
	assert.Equal(t, "access_token", patterns[1].ParameterName)
}

func TestAuthPatternsNone(t *testing.T) {
	calls := []types.CapturedCall{
		callWithHeaders(map[string]string{"Accept": "application/json"}),
	}
	assert.Empty(t, AuthPatterns(calls))
}

func responseWithHeaders(headers map[string]string) types.CapturedCall {
	return types.CapturedCall{
		Request:  types.CapturedRequest{URL: "https://api.example.com/users", Method: "GET"},
		Response: types.CapturedResponse{StatusCode: 200, Headers: headers},
	}
}

func TestRateLimits(t *testing.T) {
	calls := []types.CapturedCall{
		responseWithHeaders(map[string]string{
			"X-RateLimit-Limit":     "5000",
			"X-RateLimit-Remaining": "4999",
		}),
		responseWithHeaders(map[string]string{"Retry-After": "30"}),
	}

	rl := RateLimits(calls)
	require.NotNil(t, rl)
	assert.Contains(t, rl.Headers, "X-RateLimit-Limit")
	assert.Contains(t, rl.Headers, "X-RateLimit-Remaining")
	assert.Contains(t, rl.Headers, "Retry-After")

	// Bare limit header has no discoverable window, so no budget is claimed.
	assert.Nil(t, rl.RequestsPerMinute)
	assert.Nil(t, rl.RequestsPerHour)
}

func TestRateLimitsWindowQualified(t *testing.T) {
	calls := []types.CapturedCall{
		responseWithHeaders(map[string]string{"X-RateLimit-Limit-Minute": "60"}),
	}

	rl := RateLimits(calls)
	require.NotNil(t, rl)
	require.NotNil(t, rl.RequestsPerMinute)
	assert.Equal(t, 60, *rl.RequestsPerMinute)
}

func TestRateLimitsAbsent(t *testing.T) {
	calls := []types.CapturedCall{
		responseWithHeaders(map[string]string{"Content-Type": "application/json"}),
	}
	assert.Nil(t, RateLimits(calls))
}

func TestPathGroups(t *testing.T) {
	n, err := normalize.New(0)
	require.NoError(t, err)

	calls := []types.CapturedCall{
		{Request: types.CapturedRequest{URL: "https://api.example.com/users/1"}},
		{Request: types.CapturedRequest{URL: "https://api.example.com/users/2"}},
		{Request: types.CapturedRequest{URL: "https://api.example.com/health"}},
	}

	groups := PathGroups(calls, n)
	assert.Len(t, groups, 2)
	assert.Len(t, groups["/users/{id}"], 2)
	assert.Len(t, groups["/health"], 1)
}
