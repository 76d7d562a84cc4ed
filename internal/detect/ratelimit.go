package detect

import (
	"strconv"
	"strings"

	"github.com/usestring/trafficspec/pkg/types"
)

// wellKnownRateHeaders are throttling headers whose names do not contain
// "ratelimit" and so need explicit matching.
var wellKnownRateHeaders = map[string]bool{
	"retry-after": true,
}

// RateLimits scans response headers across all calls for rate-limiting
// signatures. Any header whose name contains "rate-limit"/"ratelimit", or
// matches a well-known throttling header, yields a RateLimit recording the
// raw header names with a sample value.
//
// Numeric budgets are parsed best-effort: a limit-bearing header is assigned
// to a window only when its name says which window it covers (minute, hour,
// day). A bare "x-ratelimit-limit" has no discoverable window, so its value
// stays in Headers without a budget claim.
func RateLimits(calls []types.CapturedCall) *types.RateLimit {
	headers := make(map[string]string)

	for _, call := range calls {
		for header, value := range call.Response.Headers {
			lower := strings.ToLower(header)
			if strings.Contains(lower, "rate-limit") ||
				strings.Contains(lower, "ratelimit") ||
				wellKnownRateHeaders[lower] {
				if _, ok := headers[header]; !ok {
					headers[header] = value
				}
			}
		}
	}

	if len(headers) == 0 {
		return nil
	}

	rl := &types.RateLimit{Headers: headers}
	for header, value := range headers {
		lower := strings.ToLower(header)
		if !strings.Contains(lower, "limit") ||
			strings.Contains(lower, "remaining") ||
			strings.Contains(lower, "reset") {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil || n <= 0 {
			continue
		}
		switch {
		case strings.Contains(lower, "minute"):
			rl.RequestsPerMinute = &n
		case strings.Contains(lower, "hour"):
			rl.RequestsPerHour = &n
		case strings.Contains(lower, "day"):
			rl.RequestsPerDay = &n
		}
	}

	return rl
}
