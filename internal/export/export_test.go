package export

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usestring/trafficspec/pkg/types"
)

func intPtr(v int) *int { return &v }

func sampleSpec() *types.APISpec {
	return &types.APISpec{
		BaseURL:     "https://api.example.com",
		Title:       "Orders API",
		Version:     "1.0.0",
		Description: "Reconstructed from captured traffic.",
		Endpoints: []types.Endpoint{
			{
				Path:    "/orders",
				Method:  "GET",
				Summary: "List orders",
				QueryParams: []types.Parameter{
					{Name: "page", Type: types.TypeInteger, Required: true, Example: 1},
					{Name: "state", Type: types.TypeString, Required: false},
				},
				Responses: []types.ResponseSchema{
					{
						StatusCode:  200,
						ContentType: "application/json",
						Schema:      &types.Schema{Type: types.TypeArray, Items: &types.Schema{Type: types.TypeObject}},
						Examples:    []json.RawMessage{json.RawMessage(`[{"id":1}]`)},
					},
				},
				AuthRequired: true,
			},
			{
				Path:    "/orders/{id}",
				Method:  "GET",
				Summary: "Get order",
				Parameters: []types.Parameter{
					{Name: "id", Type: types.TypeString, Required: true, Description: "Path parameter: id"},
				},
				Responses: []types.ResponseSchema{
					{StatusCode: 200, ContentType: "application/json", Schema: &types.Schema{
						Type: types.TypeObject,
						Properties: map[string]*types.Schema{
							"id":    {Type: types.TypeInteger},
							"total": {Type: types.TypeFloat, Nullable: true},
						},
					}},
				},
				AuthRequired: true,
			},
			{
				Path:        "/orders",
				Method:      "POST",
				Summary:     "Create order",
				RequestBody: &types.Schema{Type: types.TypeObject, Properties: map[string]*types.Schema{"sku": {Type: types.TypeString}}},
				Responses: []types.ResponseSchema{
					{StatusCode: 201, ContentType: "application/json"},
				},
			},
		},
		AuthPatterns: []types.AuthPattern{
			{Type: types.AuthBearerToken, HeaderName: "Authorization", TokenPrefix: "Bearer"},
		},
		RateLimit: &types.RateLimit{
			RequestsPerMinute: intPtr(60),
			Headers:           map[string]string{"X-RateLimit-Limit": "60"},
		},
	}
}

func TestMarkdownSections(t *testing.T) {
	out := Markdown(sampleSpec())

	assert.Contains(t, out, "# Orders API")
	assert.Contains(t, out, "- Base URL: `https://api.example.com`")
	assert.Contains(t, out, "Bearer token in the `Authorization` header")
	assert.Contains(t, out, "60 requests per minute")
	assert.Contains(t, out, "### GET /orders/{id}")
	assert.Contains(t, out, "| `page` | integer | yes |")
	assert.Contains(t, out, "| `state` | string | no |")
	assert.Contains(t, out, "**Response 200** (`application/json`)")
	assert.Contains(t, out, `[{"id":1}]`)
	assert.Contains(t, out, "Requires authentication.")
}

func TestMarkdownDeterministic(t *testing.T) {
	spec := sampleSpec()
	assert.Equal(t, Markdown(spec), Markdown(spec))
}

func TestOpenAPIDocument(t *testing.T) {
	doc := OpenAPI(sampleSpec())

	require.NotNil(t, doc.Info)
	assert.Equal(t, "Orders API", doc.Info.Title)
	require.Len(t, doc.Servers, 1)
	assert.Equal(t, "https://api.example.com", doc.Servers[0].URL)

	item := doc.Paths.Find("/orders/{id}")
	require.NotNil(t, item)
	op := item.GetOperation("GET")
	require.NotNil(t, op)
	assert.Equal(t, "getOrder", op.OperationID)
	require.NotEmpty(t, op.Parameters)
	assert.Equal(t, "id", op.Parameters[0].Value.Name)
	assert.Equal(t, "path", op.Parameters[0].Value.In)
	assert.True(t, op.Parameters[0].Value.Required)
	require.NotNil(t, op.Security)

	listItem := doc.Paths.Find("/orders")
	require.NotNil(t, listItem)
	require.NotNil(t, listItem.Get)
	require.NotNil(t, listItem.Post)
	require.NotNil(t, listItem.Post.RequestBody)

	require.NotNil(t, doc.Components)
	assert.Contains(t, doc.Components.SecuritySchemes, "bearerAuth")
}

func TestOpenAPIQueryAPIKeyScheme(t *testing.T) {
	spec := sampleSpec()
	spec.AuthPatterns = []types.AuthPattern{
		{Type: types.AuthAPIKey, ParameterName: "api_key"},
	}

	doc := OpenAPI(spec)
	require.NotNil(t, doc.Components)
	scheme := doc.Components.SecuritySchemes["apiKeyAuth"]
	require.NotNil(t, scheme)
	assert.Equal(t, "apiKey", scheme.Value.Type)
	assert.Equal(t, "query", scheme.Value.In)
	assert.Equal(t, "api_key", scheme.Value.Name)
}

func TestOpenAPISchemaMapping(t *testing.T) {
	s := openAPISchema(&types.Schema{
		Type: types.TypeObject,
		Properties: map[string]*types.Schema{
			"total": {Type: types.TypeFloat, Nullable: true},
			"tags":  {Type: types.TypeArray, Items: &types.Schema{Type: types.TypeString}},
		},
	})

	assert.True(t, s.Type.Is("object"))
	total := s.Properties["total"].Value
	assert.True(t, total.Type.Is("number"))
	assert.True(t, total.Nullable)
	tags := s.Properties["tags"].Value
	assert.True(t, tags.Type.Is("array"))
	assert.True(t, tags.Items.Value.Type.Is("string"))
}

func TestOpenAPIYAML(t *testing.T) {
	out, err := OpenAPIYAML(sampleSpec())
	require.NoError(t, err)
	assert.Contains(t, string(out), "openapi: 3.0.3")
	assert.Contains(t, string(out), "/orders/{id}")

	again, err := OpenAPIYAML(sampleSpec())
	require.NoError(t, err)
	assert.Equal(t, out, again)
}

func TestPostmanCollection(t *testing.T) {
	raw, err := Postman(sampleSpec())
	require.NoError(t, err)

	var coll map[string]any
	require.NoError(t, json.Unmarshal(raw, &coll))

	info := coll["info"].(map[string]any)
	assert.Equal(t, "Orders API", info["name"])
	assert.Contains(t, info["schema"], "v2.1.0")

	items := coll["item"].([]any)
	require.Len(t, items, 3)

	get := items[1].(map[string]any)
	assert.Equal(t, "GET /orders/{id}", get["name"])
	req := get["request"].(map[string]any)
	url := req["url"].(map[string]any)
	assert.Equal(t, "{{baseUrl}}/orders/:id", url["raw"])

	list := items[0].(map[string]any)
	query := list["request"].(map[string]any)["url"].(map[string]any)["query"].([]any)
	var optional map[string]any
	for _, q := range query {
		if q.(map[string]any)["key"] == "state" {
			optional = q.(map[string]any)
		}
	}
	require.NotNil(t, optional)
	assert.Equal(t, true, optional["disabled"])

	auth := coll["auth"].(map[string]any)
	assert.Equal(t, "bearer", auth["type"])

	create := items[2].(map[string]any)
	body := create["request"].(map[string]any)["body"].(map[string]any)
	assert.Equal(t, "raw", body["mode"])
	assert.Contains(t, body["raw"], "sku")
}
