package generate

import "github.com/usestring/trafficspec/pkg/types"

// authInfo is the single auth mechanism wired into a generated client.
// Exactly one of {none, bearer, api-key, basic} is selected per client;
// the first header-carried pattern wins, and every emitter produces
// parallel constructor parameters and header injection from the same
// selection.
type authInfo struct {
	kind   types.AuthType
	header string
	prefix string
}

func selectAuth(spec *types.APISpec) authInfo {
	// Clients wire header-carried auth only. Query-carried tokens surface
	// as ordinary query parameters on the endpoints that use them, so
	// methods already accept them without a dedicated setter.
	for i := range spec.AuthPatterns {
		p := &spec.AuthPatterns[i]
		if p.HeaderName == "" {
			continue
		}
		switch p.Type {
		case types.AuthBearerToken:
			return authInfo{kind: types.AuthBearerToken, header: "Authorization", prefix: "Bearer"}
		case types.AuthBasicAuth:
			return authInfo{kind: types.AuthBasicAuth, header: "Authorization", prefix: "Basic"}
		case types.AuthAPIKey, types.AuthCustomHeader:
			return authInfo{kind: types.AuthAPIKey, header: p.HeaderName}
		}
	}
	return authInfo{kind: types.AuthNone}
}
