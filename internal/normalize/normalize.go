// Package normalize collapses concrete URL paths into canonical patterns.
//
// Volatile segments (numeric ids, UUIDs, Mongo ObjectIds, opaque tokens) are
// replaced with named placeholders so that calls to the same logical endpoint
// group together despite differing literal values. Classification is
// heuristic: a literal slug that happens to contain digits and is longer than
// five characters is misread as a token, and opaque tokens of five characters
// or fewer are left literal. Both are accepted trade-offs.
package normalize

import (
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize is the default number of memoized path normalizations.
const DefaultCacheSize = 4096

// Result is the outcome of normalizing one path: the canonical pattern and
// the placeholder parameter names it contains, in path order.
type Result struct {
	Pattern string
	Params  []string
}

// Normalizer rewrites concrete paths into patterns. Normalization runs once
// per captured call and real captures repeat paths heavily, so results are
// memoized in an LRU cache. Safe for concurrent use.
type Normalizer struct {
	cache *lru.Cache[string, Result]
}

// New creates a Normalizer with a memoization cache of the given size.
// A size of zero or less uses DefaultCacheSize.
func New(cacheSize int) (*Normalizer, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	c, err := lru.New[string, Result](cacheSize)
	if err != nil {
		return nil, err
	}
	return &Normalizer{cache: c}, nil
}

// Normalize rewrites a concrete URL path into its canonical pattern.
func (n *Normalizer) Normalize(path string) Result {
	if cached, ok := n.cache.Get(path); ok {
		return cached
	}
	res := NormalizePath(path)
	n.cache.Add(path, res)
	return res
}

// NormalizePath is the uncached form of Normalize.
func NormalizePath(path string) Result {
	segments := strings.Split(path, "/")
	out := make([]string, len(segments))
	var params []string
	seen := make(map[string]bool)

	for i, seg := range segments {
		if seg == "" {
			out[i] = seg
			continue
		}

		name, matched := classifySegment(seg, segments, out, i)
		if !matched {
			out[i] = seg
			continue
		}

		out[i] = "{" + name + "}"
		if !seen[name] {
			seen[name] = true
			params = append(params, name)
		}
	}

	return Result{Pattern: strings.Join(out, "/"), Params: params}
}

// classifySegment runs the segment rules in order and returns the parameter
// name of the first rule that matches.
func classifySegment(seg string, segments, normalized []string, idx int) (string, bool) {
	for _, r := range segmentRules {
		if name, ok := r.apply(seg, segments, normalized, idx); ok {
			return name, true
		}
	}
	return "", false
}
