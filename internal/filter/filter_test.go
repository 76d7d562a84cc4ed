package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usestring/trafficspec/pkg/types"
)

func call(url string, status int) types.CapturedCall {
	return types.CapturedCall{
		Request:  types.CapturedRequest{URL: url, Method: "GET"},
		Response: types.CapturedResponse{StatusCode: status},
	}
}

func TestCompileInvalidExpression(t *testing.T) {
	_, err := Compile(".request |")
	assert.Error(t, err)
}

func TestApplyHostFilter(t *testing.T) {
	f, err := Compile(`.request.url | contains("api.example.com")`)
	require.NoError(t, err)

	calls := []types.CapturedCall{
		call("https://api.example.com/users", 200),
		call("https://cdn.example.com/app.js", 200),
		call("https://api.example.com/posts", 200),
	}

	kept, err := f.Apply(calls)
	require.NoError(t, err)
	require.Len(t, kept, 2)
	assert.Equal(t, "https://api.example.com/users", kept[0].Request.URL)
	assert.Equal(t, "https://api.example.com/posts", kept[1].Request.URL)
}

func TestApplyStatusFilter(t *testing.T) {
	f, err := Compile(`.response.status_code < 400`)
	require.NoError(t, err)

	kept, err := f.Apply([]types.CapturedCall{
		call("https://x.test/a", 200),
		call("https://x.test/b", 500),
	})
	require.NoError(t, err)
	require.Len(t, kept, 1)
	assert.Equal(t, 200, kept[0].Response.StatusCode)
}

func TestApplyTypeErrorDropsCall(t *testing.T) {
	// Indexing a string errors per-call; the call is dropped, not fatal.
	f, err := Compile(`.request.url.missing`)
	require.NoError(t, err)

	kept, err := f.Apply([]types.CapturedCall{call("https://x.test/a", 200)})
	require.NoError(t, err)
	assert.Empty(t, kept)
}
