package generate

import (
	"fmt"
	"strings"

	"github.com/usestring/trafficspec/pkg/types"
)

// GoGenerator emits a net/http-based Go client package.
type GoGenerator struct{}

func (g *GoGenerator) Language() string { return "go" }

func (g *GoGenerator) Generate(spec *types.APISpec) (map[string]string, error) {
	auth := selectAuth(spec)
	plans := planSpec(spec)
	pkg := goPackageName(spec)

	return map[string]string{
		"client.go": g.client(spec, auth, plans, pkg),
		"go.mod":    fmt.Sprintf("module example.com/%s\n\ngo 1.24\n", pkg),
		"README.md": g.readme(spec, auth, plans),
	}, nil
}

// goPackageName derives a legal Go package name from the spec title.
func goPackageName(spec *types.APISpec) string {
	pkg := strings.ReplaceAll(SnakeCase(splitWords(spec.Title)), "_", "")
	if pkg == "" || pkg == "unknown" {
		return "apiclient"
	}
	return pkg
}

func (g *GoGenerator) client(spec *types.APISpec, auth authInfo, plans []methodPlan, pkg string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "// Package %s is a client for the %s.\n", pkg, spec.Title)
	fmt.Fprintf(&b, "// Generated from captured traffic. Base URL: %s\n", spec.BaseURL)
	fmt.Fprintf(&b, "package %s\n\n", pkg)

	b.WriteString("import (\n")
	for _, imp := range []string{"bytes", "encoding/json", "fmt", "io", "net/http", "net/url", "strings", "time"} {
		fmt.Fprintf(&b, "\t%q\n", imp)
	}
	b.WriteString(")\n\n")

	b.WriteString("type Client struct {\n")
	b.WriteString("\tBaseURL    string\n")
	b.WriteString("\tHTTPClient *http.Client\n")
	b.WriteString("\tHeaders    map[string]string\n")
	b.WriteString("}\n\n")

	b.WriteString("func New(baseURL string) *Client {\n")
	b.WriteString("\tif baseURL == \"\" {\n")
	fmt.Fprintf(&b, "\t\tbaseURL = %q\n", spec.BaseURL)
	b.WriteString("\t}\n")
	b.WriteString("\treturn &Client{\n")
	b.WriteString("\t\tBaseURL:    strings.TrimSuffix(baseURL, \"/\"),\n")
	b.WriteString("\t\tHTTPClient: &http.Client{Timeout: 30 * time.Second},\n")
	b.WriteString("\t\tHeaders:    make(map[string]string),\n")
	b.WriteString("\t}\n")
	b.WriteString("}\n\n")

	switch auth.kind {
	case types.AuthBearerToken:
		b.WriteString("// SetToken sends every request with a bearer token.\n")
		b.WriteString("func (c *Client) SetToken(token string) {\n")
		fmt.Fprintf(&b, "\tc.Headers[%q] = \"Bearer \" + token\n", auth.header)
		b.WriteString("}\n\n")
	case types.AuthBasicAuth:
		b.WriteString("// SetBasicAuth sends every request with HTTP basic credentials.\n")
		b.WriteString("func (c *Client) SetBasicAuth(username, password string) {\n")
		b.WriteString("\treq := &http.Request{Header: http.Header{}}\n")
		b.WriteString("\treq.SetBasicAuth(username, password)\n")
		fmt.Fprintf(&b, "\tc.Headers[%q] = req.Header.Get(%q)\n", auth.header, auth.header)
		b.WriteString("}\n\n")
	case types.AuthAPIKey:
		fmt.Fprintf(&b, "// SetAPIKey sends every request with the %s header.\n", auth.header)
		b.WriteString("func (c *Client) SetAPIKey(key string) {\n")
		fmt.Fprintf(&b, "\tc.Headers[%q] = key\n", auth.header)
		b.WriteString("}\n\n")
	}

	b.WriteString("// SetHeader sets a header sent with every request.\n")
	b.WriteString("func (c *Client) SetHeader(key, value string) {\n")
	b.WriteString("\tc.Headers[key] = value\n")
	b.WriteString("}\n\n")

	b.WriteString("func (c *Client) do(method, path string, params url.Values, body any) ([]byte, error) {\n")
	b.WriteString("\tfullURL := c.BaseURL + path\n")
	b.WriteString("\tif len(params) > 0 {\n")
	b.WriteString("\t\tfullURL += \"?\" + params.Encode()\n")
	b.WriteString("\t}\n")
	b.WriteString("\tvar bodyReader io.Reader\n")
	b.WriteString("\tif body != nil {\n")
	b.WriteString("\t\tencoded, err := json.Marshal(body)\n")
	b.WriteString("\t\tif err != nil {\n")
	b.WriteString("\t\t\treturn nil, err\n")
	b.WriteString("\t\t}\n")
	b.WriteString("\t\tbodyReader = bytes.NewReader(encoded)\n")
	b.WriteString("\t}\n")
	b.WriteString("\treq, err := http.NewRequest(method, fullURL, bodyReader)\n")
	b.WriteString("\tif err != nil {\n")
	b.WriteString("\t\treturn nil, err\n")
	b.WriteString("\t}\n")
	b.WriteString("\tif body != nil {\n")
	b.WriteString("\t\treq.Header.Set(\"Content-Type\", \"application/json\")\n")
	b.WriteString("\t}\n")
	b.WriteString("\tfor key, value := range c.Headers {\n")
	b.WriteString("\t\treq.Header.Set(key, value)\n")
	b.WriteString("\t}\n")
	b.WriteString("\tresp, err := c.HTTPClient.Do(req)\n")
	b.WriteString("\tif err != nil {\n")
	b.WriteString("\t\treturn nil, err\n")
	b.WriteString("\t}\n")
	b.WriteString("\tdefer resp.Body.Close()\n")
	b.WriteString("\tdata, err := io.ReadAll(resp.Body)\n")
	b.WriteString("\tif err != nil {\n")
	b.WriteString("\t\treturn nil, err\n")
	b.WriteString("\t}\n")
	b.WriteString("\tif resp.StatusCode >= 400 {\n")
	b.WriteString("\t\treturn nil, fmt.Errorf(\"%s %s: status %d: %s\", method, path, resp.StatusCode, data)\n")
	b.WriteString("\t}\n")
	b.WriteString("\treturn data, nil\n")
	b.WriteString("}\n")

	for _, p := range plans {
		b.WriteString("\n")
		g.method(&b, p)
	}
	return b.String()
}

func (g *GoGenerator) method(b *strings.Builder, p methodPlan) {
	name := PascalCase(p.words)

	var args []string
	for _, pp := range p.path {
		args = append(args, fmt.Sprintf("%s string", CamelCase(ParamWords(pp.Name))))
	}
	for _, q := range p.required {
		args = append(args, fmt.Sprintf("%s %s", CamelCase(ParamWords(q.Name)), goParamType(q.Type)))
	}
	for _, q := range p.optional {
		args = append(args, fmt.Sprintf("%s %s", CamelCase(ParamWords(q.Name)), goOptionalType(q.Type)))
	}
	if p.body != nil {
		args = append(args, fmt.Sprintf("data %s", goType(p.body)))
	}

	ret := "map[string]any"
	if p.ok != nil {
		ret = goType(p.ok)
	}

	fmt.Fprintf(b, "// %s performs %s %s.\n", name, p.ep.Method, p.ep.Path)
	fmt.Fprintf(b, "func (c *Client) %s(%s) (%s, error) {\n", name, strings.Join(args, ", "), ret)

	fmt.Fprintf(b, "\tpath := %q\n", p.ep.Path)
	for _, pp := range p.path {
		arg := CamelCase(ParamWords(pp.Name))
		fmt.Fprintf(b, "\tpath = strings.Replace(path, %q, url.PathEscape(%s), 1)\n", "{"+pp.Name+"}", arg)
	}

	hasQuery := len(p.required)+len(p.optional) > 0
	paramsExpr := "nil"
	if hasQuery {
		paramsExpr = "params"
		b.WriteString("\tparams := url.Values{}\n")
		for _, q := range p.required {
			fmt.Fprintf(b, "\tparams.Set(%q, fmt.Sprint(%s))\n", q.Name, CamelCase(ParamWords(q.Name)))
		}
		for _, q := range p.optional {
			arg := CamelCase(ParamWords(q.Name))
			fmt.Fprintf(b, "\tif %s != nil {\n", arg)
			if strings.HasPrefix(goOptionalType(q.Type), "*") {
				fmt.Fprintf(b, "\t\tparams.Set(%q, fmt.Sprint(*%s))\n", q.Name, arg)
			} else {
				fmt.Fprintf(b, "\t\tparams.Set(%q, fmt.Sprint(%s))\n", q.Name, arg)
			}
			b.WriteString("\t}\n")
		}
	}

	bodyExpr := "nil"
	if p.body != nil {
		bodyExpr = "data"
	}

	fmt.Fprintf(b, "\traw, err := c.do(%q, path, %s, %s)\n", p.ep.Method, paramsExpr, bodyExpr)
	b.WriteString("\tif err != nil {\n")
	if ret == "map[string]any" || strings.HasPrefix(ret, "[]") || ret == "any" || strings.HasPrefix(ret, "map[") || strings.HasPrefix(ret, "*") {
		b.WriteString("\t\treturn nil, err\n")
	} else {
		fmt.Fprintf(b, "\t\tvar zero %s\n", ret)
		b.WriteString("\t\treturn zero, err\n")
	}
	b.WriteString("\t}\n")
	fmt.Fprintf(b, "\tvar out %s\n", ret)
	b.WriteString("\tif len(raw) > 0 {\n")
	b.WriteString("\t\tif err := json.Unmarshal(raw, &out); err != nil {\n")
	if ret == "map[string]any" || strings.HasPrefix(ret, "[]") || ret == "any" || strings.HasPrefix(ret, "map[") || strings.HasPrefix(ret, "*") {
		b.WriteString("\t\t\treturn nil, err\n")
	} else {
		fmt.Fprintf(b, "\t\t\tvar zero %s\n", ret)
		b.WriteString("\t\t\treturn zero, err\n")
	}
	b.WriteString("\t\t}\n")
	b.WriteString("\t}\n")
	b.WriteString("\treturn out, nil\n")
	b.WriteString("}\n")
}

// goOptionalType is the parameter type for an optional query parameter:
// scalars become pointers so absence is expressible, nil-able types pass
// through unchanged.
func goOptionalType(t types.ParameterType) string {
	base := goParamType(t)
	if isGoScalar(base) {
		return "*" + base
	}
	return base
}

func (g *GoGenerator) readme(spec *types.APISpec, auth authInfo, plans []methodPlan) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s client (Go)\n\nClient for the %s, generated from captured traffic.\n\n", spec.Title, spec.Title)
	b.WriteString("## Usage\n\n```go\n")
	fmt.Fprintf(&b, "client := %s.New(%q)\n", goPackageName(spec), spec.BaseURL)
	switch auth.kind {
	case types.AuthBearerToken:
		b.WriteString("client.SetToken(\"your-token\")\n")
	case types.AuthBasicAuth:
		b.WriteString("client.SetBasicAuth(\"user\", \"password\")\n")
	case types.AuthAPIKey:
		b.WriteString("client.SetAPIKey(\"your-key\")\n")
	}
	b.WriteString("```\n\n## Methods\n\n")
	for _, p := range plans {
		fmt.Fprintf(&b, "- `%s()` - %s %s\n", PascalCase(p.words), p.ep.Method, p.ep.Path)
	}
	return b.String()
}
