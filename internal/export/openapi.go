package export

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"gopkg.in/yaml.v3"

	"github.com/usestring/trafficspec/internal/generate"
	"github.com/usestring/trafficspec/pkg/types"
)

// Security scheme names used in the generated components section.
const (
	schemeBearer = "bearerAuth"
	schemeBasic  = "basicAuth"
	schemeAPIKey = "apiKeyAuth"
)

// OpenAPI builds an OpenAPI 3.0 document from the spec. Operation IDs reuse
// the client generators' naming rules, so documentation and generated
// clients agree on operation names.
func OpenAPI(spec *types.APISpec) *openapi3.T {
	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:       spec.Title,
			Version:     spec.Version,
			Description: spec.Description,
		},
		Paths: openapi3.NewPaths(),
	}
	if spec.BaseURL != "" {
		doc.Servers = openapi3.Servers{&openapi3.Server{URL: spec.BaseURL}}
	}

	securityName := securitySchemes(spec, doc)

	for i := range spec.Endpoints {
		ep := &spec.Endpoints[i]
		item := doc.Paths.Find(ep.Path)
		if item == nil {
			item = &openapi3.PathItem{}
			doc.Paths.Set(ep.Path, item)
		}
		item.SetOperation(ep.Method, operation(ep, securityName))
	}
	return doc
}

// OpenAPIYAML serializes the OpenAPI document as YAML.
func OpenAPIYAML(spec *types.APISpec) ([]byte, error) {
	doc := OpenAPI(spec)
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal openapi document: %w", err)
	}
	var tree map[string]any
	if err := json.Unmarshal(raw, &tree); err != nil {
		return nil, fmt.Errorf("rebuild openapi document: %w", err)
	}
	return yaml.Marshal(tree)
}

// securitySchemes registers component schemes for the detected auth patterns
// and returns the scheme name endpoints should reference, or "" when no
// pattern was detected.
func securitySchemes(spec *types.APISpec, doc *openapi3.T) string {
	primary := spec.PrimaryAuth()
	if primary == nil {
		return ""
	}

	doc.Components = &openapi3.Components{SecuritySchemes: openapi3.SecuritySchemes{}}
	var name string
	switch primary.Type {
	case types.AuthBearerToken:
		name = schemeBearer
		doc.Components.SecuritySchemes[name] = &openapi3.SecuritySchemeRef{
			Value: &openapi3.SecurityScheme{Type: "http", Scheme: "bearer"},
		}
	case types.AuthBasicAuth:
		name = schemeBasic
		doc.Components.SecuritySchemes[name] = &openapi3.SecuritySchemeRef{
			Value: &openapi3.SecurityScheme{Type: "http", Scheme: "basic"},
		}
	case types.AuthAPIKey, types.AuthCustomHeader:
		name = schemeAPIKey
		in, keyName := "header", primary.HeaderName
		if keyName == "" && primary.ParameterName != "" {
			in, keyName = "query", primary.ParameterName
		}
		doc.Components.SecuritySchemes[name] = &openapi3.SecuritySchemeRef{
			Value: &openapi3.SecurityScheme{Type: "apiKey", In: in, Name: keyName},
		}
	default:
		doc.Components = nil
		return ""
	}
	return name
}

func operation(ep *types.Endpoint, securityName string) *openapi3.Operation {
	op := &openapi3.Operation{
		OperationID: generate.CamelCase(generate.MethodName(ep)),
		Summary:     ep.Summary,
		Description: ep.Description,
	}

	for _, p := range ep.Parameters {
		op.Parameters = append(op.Parameters, parameterRef(p, "path"))
	}
	for _, p := range ep.QueryParams {
		op.Parameters = append(op.Parameters, parameterRef(p, "query"))
	}
	for _, p := range ep.Headers {
		op.Parameters = append(op.Parameters, parameterRef(p, "header"))
	}

	if ep.RequestBody != nil {
		body := openapi3.NewRequestBody().WithJSONSchema(openAPISchema(ep.RequestBody))
		op.RequestBody = &openapi3.RequestBodyRef{Value: body}
	}

	var opts []openapi3.NewResponsesOption
	for _, r := range ep.Responses {
		desc := http.StatusText(r.StatusCode)
		if desc == "" {
			desc = fmt.Sprintf("Status %d", r.StatusCode)
		}
		resp := openapi3.NewResponse().WithDescription(desc)
		if r.Schema != nil {
			resp = resp.WithContent(openapi3.NewContentWithSchema(openAPISchema(r.Schema), []string{r.ContentType}))
		}
		opts = append(opts, openapi3.WithStatus(r.StatusCode, &openapi3.ResponseRef{Value: resp}))
	}
	op.Responses = openapi3.NewResponses(opts...)

	if ep.AuthRequired && securityName != "" {
		op.Security = openapi3.NewSecurityRequirements().
			With(openapi3.SecurityRequirement{securityName: []string{}})
	}
	return op
}

func parameterRef(p types.Parameter, in string) *openapi3.ParameterRef {
	required := p.Required
	if in == "path" {
		required = true
	}
	return &openapi3.ParameterRef{Value: &openapi3.Parameter{
		Name:        p.Name,
		In:          in,
		Required:    required,
		Description: p.Description,
		Schema:      openapi3.NewSchemaRef("", paramSchema(p)),
	}}
}

func paramSchema(p types.Parameter) *openapi3.Schema {
	s := openAPISchema(&types.Schema{Type: p.Type})
	if p.Example != nil {
		s.Example = p.Example
	}
	if len(p.Enum) > 0 {
		s.Enum = p.Enum
	}
	if p.Minimum != nil {
		s.Min = p.Minimum
	}
	if p.Maximum != nil {
		s.Max = p.Maximum
	}
	return s
}

// openAPISchema maps an inferred schema to an OpenAPI 3.0 schema. OpenAPI
// 3.0 has no null type, so TypeNull and Nullable both map to the nullable
// flag; TypeAny maps to the untyped schema.
func openAPISchema(s *types.Schema) *openapi3.Schema {
	out := openapi3.NewSchema()
	if s == nil {
		return out
	}

	switch s.Type {
	case types.TypeString:
		out.Type = &openapi3.Types{"string"}
	case types.TypeInteger:
		out.Type = &openapi3.Types{"integer"}
	case types.TypeFloat:
		out.Type = &openapi3.Types{"number"}
	case types.TypeBoolean:
		out.Type = &openapi3.Types{"boolean"}
	case types.TypeNull:
		out.Nullable = true
	case types.TypeArray:
		out.Type = &openapi3.Types{"array"}
		if s.Items != nil {
			out.Items = openapi3.NewSchemaRef("", openAPISchema(s.Items))
		}
	case types.TypeObject:
		out.Type = &openapi3.Types{"object"}
		if len(s.Properties) > 0 {
			out.Properties = openapi3.Schemas{}
			for name, prop := range s.Properties {
				out.Properties[name] = openapi3.NewSchemaRef("", openAPISchema(prop))
			}
		}
	}

	out.Format = s.Format
	if s.Nullable {
		out.Nullable = true
	}
	if s.Example != nil {
		out.Example = s.Example
	}
	return out
}
