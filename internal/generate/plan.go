package generate

import (
	"strings"

	"github.com/usestring/trafficspec/pkg/types"
)

// methodPlan is the language-neutral shape of one generated client method.
// Every emitter renders the same plan, so the generated signatures agree
// across languages: same name words, same parameter order (path params,
// then required query params, then optional ones, then the body).
type methodPlan struct {
	words    []string
	ep       *types.Endpoint
	path     []types.Parameter
	required []types.Parameter
	optional []types.Parameter
	body     *types.Schema
	ok       *types.Schema
}

func planMethod(ep *types.Endpoint) methodPlan {
	p := methodPlan{words: MethodName(ep), ep: ep, body: ep.RequestBody}
	p.path = append(p.path, ep.Parameters...)
	for _, q := range ep.QueryParams {
		if q.Required {
			p.required = append(p.required, q)
		} else {
			p.optional = append(p.optional, q)
		}
	}
	for _, r := range ep.Responses {
		if r.StatusCode >= 200 && r.StatusCode < 300 && r.Schema != nil {
			p.ok = r.Schema
			break
		}
	}
	return p
}

func planSpec(spec *types.APISpec) []methodPlan {
	plans := make([]methodPlan, 0, len(spec.Endpoints))
	for i := range spec.Endpoints {
		plans = append(plans, planMethod(&spec.Endpoints[i]))
	}
	return plans
}

// clientName derives the generated client class name from the spec title.
func clientName(spec *types.APISpec) string {
	words := splitWords(spec.Title)
	name := PascalCase(words)
	if name == "" || name == "Unknown" {
		name = "Api"
	}
	return name + "Client"
}

// substitutePath rewrites {param} placeholders in a path pattern using the
// given per-parameter replacement, e.g. Python f-string expressions or Go
// strings.Replace targets.
func substitutePath(pattern string, params []types.Parameter, repl func(name string) string) string {
	out := pattern
	for _, p := range params {
		out = strings.ReplaceAll(out, "{"+p.Name+"}", repl(p.Name))
	}
	return out
}
