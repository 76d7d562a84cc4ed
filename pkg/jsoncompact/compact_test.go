package jsoncompact

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func roundTrip(t *testing.T, input string, opts *Options) any {
	t.Helper()
	result, err := Compact([]byte(input), opts)
	require.NoError(t, err)
	var parsed any
	require.NoError(t, json.Unmarshal(result, &parsed))
	return parsed
}

func TestCompactArrayTrimming(t *testing.T) {
	parsed := roundTrip(t, `{"items": [1, 2, 3, 4, 5, 6, 7]}`, &Options{MaxArrayItems: 3})

	items := parsed.(map[string]any)["items"].([]any)
	require.Len(t, items, 4)
	assert.Equal(t, float64(1), items[0])
	assert.Equal(t, "... (4 more items)", items[3])
}

func TestCompactArrayWithinLimit(t *testing.T) {
	parsed := roundTrip(t, `[1, 2]`, &Options{MaxArrayItems: 5})
	assert.Len(t, parsed.([]any), 2)
}

func TestCompactStringTruncation(t *testing.T) {
	long := strings.Repeat("x", 300)
	parsed := roundTrip(t, `{"body": "`+long+`"}`, &Options{MaxStringLen: 100})

	body := parsed.(map[string]any)["body"].(string)
	assert.True(t, strings.HasPrefix(body, strings.Repeat("x", 100)))
	assert.Contains(t, body, "(200 more chars)")
}

func TestCompactObjectKeyCap(t *testing.T) {
	obj := make(map[string]any, 10)
	for _, k := range []string{"a", "b", "c", "d", "e", "f"} {
		obj[k] = 1
	}
	raw, err := json.Marshal(obj)
	require.NoError(t, err)

	parsed := roundTrip(t, string(raw), &Options{MaxObjectKeys: 4})
	out := parsed.(map[string]any)
	assert.Len(t, out, 5) // 4 kept keys + marker
	assert.Equal(t, "(2 more keys)", out["..."])
	assert.Contains(t, out, "a")
	assert.NotContains(t, out, "f")
}

func TestCompactDepthCap(t *testing.T) {
	parsed := roundTrip(t, `{"a": {"b": {"c": {"d": 1}}}}`, &Options{MaxDepth: 2})

	a := parsed.(map[string]any)["a"].(map[string]any)
	assert.Equal(t, "[max depth]", a["b"])
}

func TestCompactInvalidJSON(t *testing.T) {
	_, err := Compact([]byte("{not json"), nil)
	assert.Error(t, err)
}

func TestCompactEmptyInput(t *testing.T) {
	out, err := Compact(nil, nil)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestCompactValueDoesNotMutateInput(t *testing.T) {
	in := map[string]any{"items": []any{1, 2, 3, 4, 5}}
	_ = CompactValue(in, &Options{MaxArrayItems: 2})
	assert.Len(t, in["items"], 5)
}

func TestStripMarkersArray(t *testing.T) {
	compacted := CompactValue([]any{1.0, 2.0, 3.0, 4.0, 5.0}, &Options{MaxArrayItems: 3})

	stripped := StripMarkers(compacted)
	assert.Equal(t, []any{1.0, 2.0, 3.0}, stripped)
}

func TestStripMarkersObject(t *testing.T) {
	in := map[string]any{"a": 1.0, "b": 2.0, "c": 3.0}
	compacted := CompactValue(in, &Options{MaxObjectKeys: 2})

	stripped := StripMarkers(compacted).(map[string]any)
	assert.NotContains(t, stripped, "...")
	assert.Len(t, stripped, 2)
}

func TestStripMarkersDepth(t *testing.T) {
	in := map[string]any{"a": map[string]any{"b": map[string]any{"c": 1.0}}}
	compacted := CompactValue(in, &Options{MaxDepth: 2})

	stripped := StripMarkers(compacted).(map[string]any)
	// The depth-replaced value is removed entirely rather than left as a
	// string that would contradict an object schema.
	a := stripped["a"].(map[string]any)
	assert.NotContains(t, a, "b")
}

func TestStripMarkersLeavesOrdinaryValues(t *testing.T) {
	in := []any{"... not a marker", "plain", 1.0, map[string]any{"k": "v"}}
	assert.Equal(t, in, StripMarkers(in))
}
