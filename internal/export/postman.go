package export

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/usestring/trafficspec/pkg/types"
)

const postmanSchema = "https://schema.getpostman.com/json/collection/v2.1.0/collection.json"

// Postman collection v2.1 document shape. Only the fields the importer
// needs are modeled.
type postmanCollection struct {
	Info     postmanInfo       `json:"info"`
	Items    []postmanItem     `json:"item"`
	Auth     *postmanAuth      `json:"auth,omitempty"`
	Variable []postmanVariable `json:"variable,omitempty"`
}

type postmanInfo struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Schema      string `json:"schema"`
}

type postmanItem struct {
	Name    string         `json:"name"`
	Request postmanRequest `json:"request"`
}

type postmanRequest struct {
	Method      string          `json:"method"`
	Description string          `json:"description,omitempty"`
	Header      []postmanPair   `json:"header,omitempty"`
	URL         postmanURL      `json:"url"`
	Body        *postmanRawBody `json:"body,omitempty"`
}

type postmanURL struct {
	Raw      string            `json:"raw"`
	Host     []string          `json:"host"`
	Path     []string          `json:"path"`
	Query    []postmanPair     `json:"query,omitempty"`
	Variable []postmanVariable `json:"variable,omitempty"`
}

type postmanPair struct {
	Key         string `json:"key"`
	Value       string `json:"value"`
	Description string `json:"description,omitempty"`
	Disabled    bool   `json:"disabled,omitempty"`
}

type postmanVariable struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type postmanRawBody struct {
	Mode    string          `json:"mode"`
	Raw     string          `json:"raw"`
	Options postmanBodyOpts `json:"options"`
}

type postmanBodyOpts struct {
	Raw struct {
		Language string `json:"language"`
	} `json:"raw"`
}

type postmanAuth struct {
	Type   string        `json:"type"`
	Bearer []postmanPair `json:"bearer,omitempty"`
	APIKey []postmanPair `json:"apikey,omitempty"`
	Basic  []postmanPair `json:"basic,omitempty"`
}

// Postman renders the spec as a Postman collection v2.1 JSON document.
// The base URL is exposed as a {{baseUrl}} collection variable so imported
// requests stay editable.
func Postman(spec *types.APISpec) ([]byte, error) {
	coll := postmanCollection{
		Info: postmanInfo{
			Name:        spec.Title,
			Description: spec.Description,
			Schema:      postmanSchema,
		},
		Auth: collectionAuth(spec),
	}
	if spec.BaseURL != "" {
		coll.Variable = []postmanVariable{{Key: "baseUrl", Value: spec.BaseURL}}
	}

	for i := range spec.Endpoints {
		coll.Items = append(coll.Items, requestItem(&spec.Endpoints[i]))
	}
	return json.MarshalIndent(coll, "", "  ")
}

func collectionAuth(spec *types.APISpec) *postmanAuth {
	primary := spec.PrimaryAuth()
	if primary == nil {
		return nil
	}
	switch primary.Type {
	case types.AuthBearerToken:
		return &postmanAuth{Type: "bearer", Bearer: []postmanPair{{Key: "token", Value: "{{token}}"}}}
	case types.AuthBasicAuth:
		return &postmanAuth{Type: "basic", Basic: []postmanPair{
			{Key: "username", Value: "{{username}}"},
			{Key: "password", Value: "{{password}}"},
		}}
	case types.AuthAPIKey, types.AuthCustomHeader:
		in, keyName := "header", primary.HeaderName
		if keyName == "" && primary.ParameterName != "" {
			in, keyName = "query", primary.ParameterName
		}
		return &postmanAuth{Type: "apikey", APIKey: []postmanPair{
			{Key: "key", Value: keyName},
			{Key: "value", Value: "{{apiKey}}"},
			{Key: "in", Value: in},
		}}
	default:
		return nil
	}
}

func requestItem(ep *types.Endpoint) postmanItem {
	// Postman path variables use :name segments instead of {name}.
	var segments []string
	for _, seg := range strings.Split(strings.TrimPrefix(ep.Path, "/"), "/") {
		if strings.HasPrefix(seg, "{") && strings.HasSuffix(seg, "}") {
			segments = append(segments, ":"+strings.Trim(seg, "{}"))
		} else if seg != "" {
			segments = append(segments, seg)
		}
	}

	url := postmanURL{
		Raw:  "{{baseUrl}}/" + strings.Join(segments, "/"),
		Host: []string{"{{baseUrl}}"},
		Path: segments,
	}
	for _, p := range ep.Parameters {
		url.Variable = append(url.Variable, postmanVariable{Key: p.Name, Value: exampleString(p)})
	}
	for _, q := range ep.QueryParams {
		url.Query = append(url.Query, postmanPair{
			Key:         q.Name,
			Value:       exampleString(q),
			Description: queryDescription(q),
			Disabled:    !q.Required,
		})
	}

	req := postmanRequest{
		Method:      ep.Method,
		Description: ep.Summary,
		URL:         url,
	}
	for _, h := range ep.Headers {
		req.Header = append(req.Header, postmanPair{Key: h.Name, Value: exampleString(h)})
	}
	if ep.RequestBody != nil {
		body := &postmanRawBody{Mode: "raw", Raw: bodyPlaceholder(ep.RequestBody)}
		body.Options.Raw.Language = "json"
		req.Body = body
	}

	return postmanItem{Name: ep.Method + " " + ep.Path, Request: req}
}

func queryDescription(p types.Parameter) string {
	if p.Required {
		return fmt.Sprintf("required, %s", p.Type)
	}
	return fmt.Sprintf("optional, %s", p.Type)
}

func exampleString(p types.Parameter) string {
	if p.Example == nil {
		return ""
	}
	return fmt.Sprint(p.Example)
}

// bodyPlaceholder builds a skeleton request body from the inferred schema,
// with zero values for each property.
func bodyPlaceholder(s *types.Schema) string {
	raw, err := json.MarshalIndent(placeholderValue(s, 0), "", "  ")
	if err != nil {
		return "{}"
	}
	return string(raw)
}

func placeholderValue(s *types.Schema, depth int) any {
	if s == nil || depth > 6 {
		return nil
	}
	switch s.Type {
	case types.TypeString:
		if s.Example != nil {
			return s.Example
		}
		return ""
	case types.TypeInteger:
		return 0
	case types.TypeFloat:
		return 0.0
	case types.TypeBoolean:
		return false
	case types.TypeArray:
		if s.Items == nil {
			return []any{}
		}
		return []any{placeholderValue(s.Items, depth+1)}
	case types.TypeObject:
		obj := map[string]any{}
		for name, prop := range s.Properties {
			obj[name] = placeholderValue(prop, depth+1)
		}
		return obj
	default:
		return nil
	}
}
