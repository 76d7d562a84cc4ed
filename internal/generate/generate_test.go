package generate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usestring/trafficspec/pkg/types"
)

func sampleSpec() *types.APISpec {
	return &types.APISpec{
		BaseURL: "https://api.example.com",
		Title:   "Generated API",
		Version: "1.0.0",
		Endpoints: []types.Endpoint{
			{
				Path:   "/users",
				Method: "GET",
				QueryParams: []types.Parameter{
					{Name: "page", Type: types.TypeInteger, Required: true},
					{Name: "verbose", Type: types.TypeBoolean, Required: false},
				},
				Responses: []types.ResponseSchema{
					{StatusCode: 200, ContentType: "application/json", Schema: &types.Schema{
						Type:  types.TypeArray,
						Items: &types.Schema{Type: types.TypeObject},
					}},
				},
			},
			{
				Path:   "/users/{id}",
				Method: "GET",
				Parameters: []types.Parameter{
					{Name: "id", Type: types.TypeString, Required: true},
				},
				Responses: []types.ResponseSchema{
					{StatusCode: 200, ContentType: "application/json", Schema: &types.Schema{Type: types.TypeObject}},
				},
			},
			{
				Path:        "/users",
				Method:      "POST",
				RequestBody: &types.Schema{Type: types.TypeObject, Properties: map[string]*types.Schema{"name": {Type: types.TypeString}}},
				Responses: []types.ResponseSchema{
					{StatusCode: 201, ContentType: "application/json", Schema: &types.Schema{Type: types.TypeObject}},
				},
			},
		},
		AuthPatterns: []types.AuthPattern{
			{Type: types.AuthBearerToken, HeaderName: "Authorization", TokenPrefix: "Bearer"},
		},
	}
}

func TestNewUnsupportedLanguage(t *testing.T) {
	_, err := New("ruby")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedLanguage)
	assert.Contains(t, err.Error(), "ruby")
}

func TestNewSupportedLanguages(t *testing.T) {
	for _, lang := range Languages() {
		g, err := New(lang)
		require.NoError(t, err, lang)
		assert.Equal(t, lang, g.Language())
	}
}

func TestParallelMethodNames(t *testing.T) {
	spec := sampleSpec()

	py, err := (&PythonGenerator{}).Generate(spec)
	require.NoError(t, err)
	ts, err := (&TypeScriptGenerator{}).Generate(spec)
	require.NoError(t, err)
	gc, err := (&GoGenerator{}).Generate(spec)
	require.NoError(t, err)

	assert.Contains(t, py["client.py"], "def list_users(")
	assert.Contains(t, py["client.py"], "def get_user(")
	assert.Contains(t, py["client.py"], "def create_user(")

	assert.Contains(t, ts["client.ts"], "async listUsers(")
	assert.Contains(t, ts["client.ts"], "async getUser(")
	assert.Contains(t, ts["client.ts"], "async createUser(")

	assert.Contains(t, gc["client.go"], "func (c *Client) ListUsers(")
	assert.Contains(t, gc["client.go"], "func (c *Client) GetUser(")
	assert.Contains(t, gc["client.go"], "func (c *Client) CreateUser(")
}

func TestRequiredAndOptionalParameters(t *testing.T) {
	spec := sampleSpec()

	py, err := (&PythonGenerator{}).Generate(spec)
	require.NoError(t, err)
	assert.Contains(t, py["client.py"], "page: int")
	assert.Contains(t, py["client.py"], "verbose: Optional[bool] = None")

	ts, err := (&TypeScriptGenerator{}).Generate(spec)
	require.NoError(t, err)
	assert.Contains(t, ts["client.ts"], "page: number")
	assert.Contains(t, ts["client.ts"], "verbose?: boolean")

	gc, err := (&GoGenerator{}).Generate(spec)
	require.NoError(t, err)
	assert.Contains(t, gc["client.go"], "page int64")
	assert.Contains(t, gc["client.go"], "verbose *bool")
}

func TestPathParameterSubstitution(t *testing.T) {
	spec := sampleSpec()

	py, err := (&PythonGenerator{}).Generate(spec)
	require.NoError(t, err)
	assert.Contains(t, py["client.py"], `f"/users/{quote(str(id))}"`)

	ts, err := (&TypeScriptGenerator{}).Generate(spec)
	require.NoError(t, err)
	assert.Contains(t, ts["client.ts"], "`/users/${encodeURIComponent(id)}`")

	gc, err := (&GoGenerator{}).Generate(spec)
	require.NoError(t, err)
	assert.Contains(t, gc["client.go"], `strings.Replace(path, "{id}", url.PathEscape(id), 1)`)
}

func TestAuthWiring(t *testing.T) {
	tests := []struct {
		name     string
		patterns []types.AuthPattern
		python   string
		ts       string
		golang   string
	}{
		{
			name:     "bearer",
			patterns: []types.AuthPattern{{Type: types.AuthBearerToken, HeaderName: "Authorization", TokenPrefix: "Bearer"}},
			python:   "def set_token(",
			ts:       "setToken(",
			golang:   "func (c *Client) SetToken(",
		},
		{
			name:     "api key",
			patterns: []types.AuthPattern{{Type: types.AuthAPIKey, HeaderName: "X-Api-Key"}},
			python:   "def set_api_key(",
			ts:       "setApiKey(",
			golang:   "func (c *Client) SetAPIKey(",
		},
		{
			name:     "basic",
			patterns: []types.AuthPattern{{Type: types.AuthBasicAuth, HeaderName: "Authorization", TokenPrefix: "Basic"}},
			python:   "def set_basic_auth(",
			ts:       "setBasicAuth(",
			golang:   "func (c *Client) SetBasicAuth(",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := sampleSpec()
			spec.AuthPatterns = tt.patterns

			py, err := (&PythonGenerator{}).Generate(spec)
			require.NoError(t, err)
			assert.Contains(t, py["client.py"], tt.python)

			ts, err := (&TypeScriptGenerator{}).Generate(spec)
			require.NoError(t, err)
			assert.Contains(t, ts["client.ts"], tt.ts)

			gc, err := (&GoGenerator{}).Generate(spec)
			require.NoError(t, err)
			assert.Contains(t, gc["client.go"], tt.golang)
		})
	}
}

func TestNoAuthNoSetters(t *testing.T) {
	spec := sampleSpec()
	spec.AuthPatterns = nil

	py, err := (&PythonGenerator{}).Generate(spec)
	require.NoError(t, err)
	assert.NotContains(t, py["client.py"], "set_token")
	assert.NotContains(t, py["client.py"], "set_api_key")
}

func TestQueryTokenAuthNoHeaderSetters(t *testing.T) {
	// A credential carried in a query parameter has no header to inject;
	// the methods that need it already accept it as a query argument.
	spec := sampleSpec()
	spec.AuthPatterns = []types.AuthPattern{
		{Type: types.AuthAPIKey, ParameterName: "api_key"},
	}

	py, err := (&PythonGenerator{}).Generate(spec)
	require.NoError(t, err)
	assert.NotContains(t, py["client.py"], "set_api_key")

	gc, err := (&GoGenerator{}).Generate(spec)
	require.NoError(t, err)
	assert.NotContains(t, gc["client.go"], "SetAPIKey")
	assert.NotContains(t, gc["client.go"], `req.Header.Set("",`)
}

func TestManifests(t *testing.T) {
	spec := sampleSpec()

	py, err := (&PythonGenerator{}).Generate(spec)
	require.NoError(t, err)
	for _, f := range []string{"client.py", "requirements.txt", "README.md"} {
		assert.Contains(t, py, f)
	}

	ts, err := (&TypeScriptGenerator{}).Generate(spec)
	require.NoError(t, err)
	for _, f := range []string{"client.ts", "package.json", "README.md"} {
		assert.Contains(t, ts, f)
	}

	gc, err := (&GoGenerator{}).Generate(spec)
	require.NoError(t, err)
	for _, f := range []string{"client.go", "go.mod", "README.md"} {
		assert.Contains(t, gc, f)
	}
	assert.Contains(t, gc["client.go"], "package generatedapi")
}

func TestDeterministicOutput(t *testing.T) {
	spec := sampleSpec()
	for _, lang := range Languages() {
		g, err := New(lang)
		require.NoError(t, err)
		first, err := g.Generate(spec)
		require.NoError(t, err)
		second, err := g.Generate(spec)
		require.NoError(t, err)
		assert.Equal(t, first, second, lang)
	}
}

func TestReadmeListsMethods(t *testing.T) {
	spec := sampleSpec()

	py, err := (&PythonGenerator{}).Generate(spec)
	require.NoError(t, err)
	assert.Contains(t, py["README.md"], "`list_users()`")
	assert.Contains(t, py["README.md"], "GET /users/{id}")
}

func TestMethodNameWords(t *testing.T) {
	tests := []struct {
		method string
		path   string
		want   string
	}{
		{"GET", "/users", "list_users"},
		{"GET", "/users/{id}", "get_user"},
		{"POST", "/users", "create_user"},
		{"PUT", "/users/{id}", "update_user"},
		{"PATCH", "/users/{id}", "patch_user"},
		{"DELETE", "/users/{id}", "delete_user"},
		{"GET", "/orders/{orderId}/items", "list_items"},
		{"GET", "/search", "get_search"},
	}

	for _, tt := range tests {
		ep := &types.Endpoint{Method: tt.method, Path: tt.path}
		assert.Equal(t, tt.want, SnakeCase(MethodName(ep)), "%s %s", tt.method, tt.path)
	}
}
