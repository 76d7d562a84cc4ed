package normalize

import (
	"regexp"
	"strings"
)

// segmentRule classifies one path segment. apply receives the raw segment,
// the full raw segment list, the normalized output produced so far, and the
// segment index; it returns the placeholder parameter name when it matches.
//
// Rules are ordered most-specific first and evaluated independently, so a
// new placeholder heuristic is a new entry in the list rather than a change
// to existing branches.
type segmentRule struct {
	name  string
	apply func(seg string, segments, normalized []string, idx int) (string, bool)
}

var (
	numericPattern  = regexp.MustCompile(`^\d+$`)
	uuidPattern     = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)
	objectIDPattern = regexp.MustCompile(`^[0-9a-f]{24}$`)
)

var segmentRules = []segmentRule{
	{
		name: "numeric",
		apply: func(seg string, _, _ []string, _ int) (string, bool) {
			if numericPattern.MatchString(seg) {
				return "id", true
			}
			return "", false
		},
	},
	{
		name: "uuid",
		apply: func(seg string, _, _ []string, _ int) (string, bool) {
			if uuidPattern.MatchString(strings.ToLower(seg)) {
				return "uuid", true
			}
			return "", false
		},
	},
	{
		name: "objectId",
		apply: func(seg string, _, _ []string, _ int) (string, bool) {
			if objectIDPattern.MatchString(strings.ToLower(seg)) {
				return "objectId", true
			}
			return "", false
		},
	},
	{
		// Opaque token heuristic: at least one digit and longer than five
		// characters. Short tokens slip through; that is the documented
		// false-negative trade-off.
		name: "opaqueToken",
		apply: func(seg string, segments, normalized []string, idx int) (string, bool) {
			if len(seg) <= 5 || !containsDigit(seg) {
				return "", false
			}
			return contextParamName(segments, normalized, idx), true
		},
	},
}

// contextParamName derives a parameter name for an opaque token from its
// neighbors: the singularized previous literal segment + "Id" (so
// /users/u12345 becomes /users/{userId}), falling back to the next segment,
// falling back to a generic "id".
func contextParamName(segments, normalized []string, idx int) string {
	if idx > 0 {
		prev := segments[idx-1]
		if prev != "" && !strings.HasPrefix(normalized[idx-1], "{") {
			return Singularize(prev) + "Id"
		}
	}
	if idx < len(segments)-1 {
		next := segments[idx+1]
		if next != "" {
			return Singularize(next) + "Id"
		}
	}
	return "id"
}

func containsDigit(s string) bool {
	for _, r := range s {
		if r >= '0' && r <= '9' {
			return true
		}
	}
	return false
}

// Singularize strips a plural suffix from a resource name. It covers the
// common English forms seen in REST paths (users, categories, statuses);
// anything irregular passes through unchanged.
func Singularize(word string) string {
	lower := strings.ToLower(word)
	switch {
	case strings.HasSuffix(lower, "ies") && len(word) > 3:
		return word[:len(word)-3] + "y"
	case strings.HasSuffix(lower, "ses") && len(word) > 3:
		return word[:len(word)-2]
	case strings.HasSuffix(lower, "s") && !strings.HasSuffix(lower, "ss") && len(word) > 1:
		return word[:len(word)-1]
	default:
		return word
	}
}
