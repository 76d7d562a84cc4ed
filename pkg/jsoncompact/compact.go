// Package jsoncompact bounds JSON payloads before they are retained as
// endpoint examples: long arrays, long strings, wide objects, and deep
// nesting are trimmed with explicit markers so a stored example stays small
// no matter how large the captured body was.
package jsoncompact

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Options controls how aggressively a payload is trimmed. A zero value for
// any field means no limit on that axis.
type Options struct {
	MaxArrayItems int // keep at most N array elements
	MaxStringLen  int // truncate strings beyond N characters
	MaxObjectKeys int // keep at most N object keys (sorted)
	MaxDepth      int // replace values nested deeper than N levels
}

// Defaults used when Compact is called with nil options.
const (
	DefaultMaxArrayItems = 3
	DefaultMaxStringLen  = 200
	DefaultMaxObjectKeys = 50
	DefaultMaxDepth      = 8
)

// Trimming markers. StripMarkers recognizes exactly these shapes.
const (
	depthMarker       = "[max depth]"
	droppedKeysMarker = "..."
	moreItemsSuffix   = " more items)"
	markerPrefix      = "... ("
)

// DefaultOptions returns the default trimming limits.
func DefaultOptions() *Options {
	return &Options{
		MaxArrayItems: DefaultMaxArrayItems,
		MaxStringLen:  DefaultMaxStringLen,
		MaxObjectKeys: DefaultMaxObjectKeys,
		MaxDepth:      DefaultMaxDepth,
	}
}

// Compact trims a JSON document per opts. Returns an error only when the
// input is not valid JSON. Nil opts uses DefaultOptions.
func Compact(data []byte, opts *Options) ([]byte, error) {
	if len(data) == 0 {
		return data, nil
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	return json.Marshal(CompactValue(v, opts))
}

// CompactValue trims an already-decoded JSON value. Nil opts uses
// DefaultOptions. The input is not modified.
func CompactValue(v any, opts *Options) any {
	if opts == nil {
		opts = DefaultOptions()
	}
	return trim(v, opts, 0)
}

func trim(v any, opts *Options, depth int) any {
	if opts.MaxDepth > 0 && depth >= opts.MaxDepth {
		return depthMarker
	}

	switch val := v.(type) {
	case string:
		if opts.MaxStringLen > 0 && len(val) > opts.MaxStringLen {
			return fmt.Sprintf("%s... (%d more chars)", val[:opts.MaxStringLen], len(val)-opts.MaxStringLen)
		}
		return val

	case []any:
		n := len(val)
		if opts.MaxArrayItems > 0 && n > opts.MaxArrayItems {
			out := make([]any, 0, opts.MaxArrayItems+1)
			for _, item := range val[:opts.MaxArrayItems] {
				out = append(out, trim(item, opts, depth+1))
			}
			return append(out, fmt.Sprintf("%s%d%s", markerPrefix, n-opts.MaxArrayItems, moreItemsSuffix))
		}
		out := make([]any, 0, n)
		for _, item := range val {
			out = append(out, trim(item, opts, depth+1))
		}
		return out

	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		dropped := 0
		if opts.MaxObjectKeys > 0 && len(keys) > opts.MaxObjectKeys {
			sort.Strings(keys)
			dropped = len(keys) - opts.MaxObjectKeys
			keys = keys[:opts.MaxObjectKeys]
		}
		out := make(map[string]any, len(keys))
		for _, k := range keys {
			out[k] = trim(val[k], opts, depth+1)
		}
		if dropped > 0 {
			out[droppedKeysMarker] = fmt.Sprintf("(%d more keys)", dropped)
		}
		return out

	default:
		return v
	}
}

// StripMarkers removes trimming artifacts from a decoded compacted value
// so it can be compared against a schema inferred from the full payload:
// the trailing "... (N more items)" array element, the "..." object key,
// and values replaced by the depth marker. The input is not modified.
func StripMarkers(v any) any {
	switch val := v.(type) {
	case []any:
		out := make([]any, 0, len(val))
		for _, item := range val {
			if isMarker(item) {
				continue
			}
			out = append(out, StripMarkers(item))
		}
		return out

	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			if k == droppedKeysMarker || isMarker(item) {
				continue
			}
			out[k] = StripMarkers(item)
		}
		return out

	default:
		return v
	}
}

func isMarker(v any) bool {
	s, ok := v.(string)
	if !ok {
		return false
	}
	if s == depthMarker {
		return true
	}
	return strings.HasPrefix(s, markerPrefix) && strings.HasSuffix(s, moreItemsSuffix)
}
