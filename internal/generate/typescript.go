package generate

import (
	"fmt"
	"strings"

	"github.com/usestring/trafficspec/pkg/types"
)

// TypeScriptGenerator emits a fetch-based TypeScript client.
type TypeScriptGenerator struct{}

func (g *TypeScriptGenerator) Language() string { return "typescript" }

func (g *TypeScriptGenerator) Generate(spec *types.APISpec) (map[string]string, error) {
	auth := selectAuth(spec)
	plans := planSpec(spec)

	return map[string]string{
		"client.ts":    g.client(spec, auth, plans),
		"package.json": g.packageJSON(spec),
		"README.md":    g.readme(spec, auth, plans),
	}, nil
}

func (g *TypeScriptGenerator) client(spec *types.APISpec, auth authInfo, plans []methodPlan) string {
	var b strings.Builder
	name := clientName(spec)

	fmt.Fprintf(&b, "// Client for the %s.\n// Generated from captured traffic. Base URL: %s\n\n", spec.Title, spec.BaseURL)

	fmt.Fprintf(&b, "export class %s {\n", name)
	b.WriteString("  private baseUrl: string;\n")
	b.WriteString("  private headers: Record<string, string>;\n\n")

	fmt.Fprintf(&b, "  constructor(baseUrl: string = %q, headers: Record<string, string> = {}) {\n", spec.BaseURL)
	b.WriteString("    this.baseUrl = baseUrl.replace(/\\/+$/, \"\");\n")
	b.WriteString("    this.headers = { \"Content-Type\": \"application/json\", ...headers };\n")
	b.WriteString("  }\n\n")

	switch auth.kind {
	case types.AuthBearerToken:
		b.WriteString("  /** Send every request with a bearer token. */\n")
		b.WriteString("  setToken(token: string): void {\n")
		fmt.Fprintf(&b, "    this.headers[%q] = `Bearer ${token}`;\n", auth.header)
		b.WriteString("  }\n\n")
	case types.AuthBasicAuth:
		b.WriteString("  /** Send every request with HTTP basic credentials. */\n")
		b.WriteString("  setBasicAuth(username: string, password: string): void {\n")
		fmt.Fprintf(&b, "    this.headers[%q] = `Basic ${btoa(`${username}:${password}`)}`;\n", auth.header)
		b.WriteString("  }\n\n")
	case types.AuthAPIKey:
		fmt.Fprintf(&b, "  /** Send every request with the %s header. */\n", auth.header)
		b.WriteString("  setApiKey(key: string): void {\n")
		fmt.Fprintf(&b, "    this.headers[%q] = key;\n", auth.header)
		b.WriteString("  }\n\n")
	}

	b.WriteString("  setHeader(key: string, value: string): void {\n")
	b.WriteString("    this.headers[key] = value;\n")
	b.WriteString("  }\n\n")

	b.WriteString("  private async request<T>(method: string, path: string, params?: Record<string, unknown>, body?: unknown): Promise<T> {\n")
	b.WriteString("    const url = new URL(this.baseUrl + path);\n")
	b.WriteString("    if (params) {\n")
	b.WriteString("      for (const [key, value] of Object.entries(params)) {\n")
	b.WriteString("        if (value !== null && value !== undefined) {\n")
	b.WriteString("          url.searchParams.append(key, String(value));\n")
	b.WriteString("        }\n")
	b.WriteString("      }\n")
	b.WriteString("    }\n")
	b.WriteString("    const response = await fetch(url.toString(), {\n")
	b.WriteString("      method,\n")
	b.WriteString("      headers: this.headers,\n")
	b.WriteString("      body: body === undefined ? undefined : JSON.stringify(body),\n")
	b.WriteString("    });\n")
	b.WriteString("    if (!response.ok) {\n")
	b.WriteString("      throw new Error(`HTTP ${response.status} for ${method} ${path}`);\n")
	b.WriteString("    }\n")
	b.WriteString("    const contentType = response.headers.get(\"content-type\");\n")
	b.WriteString("    if (contentType && contentType.includes(\"application/json\")) {\n")
	b.WriteString("      return (await response.json()) as T;\n")
	b.WriteString("    }\n")
	b.WriteString("    return undefined as T;\n")
	b.WriteString("  }\n")

	for _, p := range plans {
		b.WriteString("\n")
		g.method(&b, p)
	}

	b.WriteString("}\n")
	return b.String()
}

func (g *TypeScriptGenerator) method(b *strings.Builder, p methodPlan) {
	var args []string
	for _, pp := range p.path {
		args = append(args, fmt.Sprintf("%s: string", CamelCase(ParamWords(pp.Name))))
	}
	for _, q := range p.required {
		args = append(args, fmt.Sprintf("%s: %s", CamelCase(ParamWords(q.Name)), typeScriptParamType(q.Type)))
	}
	for _, q := range p.optional {
		args = append(args, fmt.Sprintf("%s?: %s", CamelCase(ParamWords(q.Name)), typeScriptParamType(q.Type)))
	}
	if p.body != nil {
		args = append(args, fmt.Sprintf("data?: %s", typeScriptType(p.body)))
	}

	ret := "any"
	if p.ok != nil {
		ret = typeScriptType(p.ok)
	}

	fmt.Fprintf(b, "  /** %s %s */\n", p.ep.Method, p.ep.Path)
	fmt.Fprintf(b, "  async %s(%s): Promise<%s> {\n", CamelCase(p.words), strings.Join(args, ", "), ret)

	path := substitutePath(p.ep.Path, p.path, func(name string) string {
		return "${encodeURIComponent(" + CamelCase(ParamWords(name)) + ")}"
	})
	if len(p.path) > 0 {
		fmt.Fprintf(b, "    const path = `%s`;\n", path)
	} else {
		fmt.Fprintf(b, "    const path = %q;\n", path)
	}

	call := []string{fmt.Sprintf("%q", p.ep.Method), "path"}
	if len(p.required)+len(p.optional) > 0 {
		var entries []string
		for _, q := range p.required {
			entries = append(entries, fmt.Sprintf("%q: %s", q.Name, CamelCase(ParamWords(q.Name))))
		}
		for _, q := range p.optional {
			entries = append(entries, fmt.Sprintf("%q: %s", q.Name, CamelCase(ParamWords(q.Name))))
		}
		fmt.Fprintf(b, "    const params = { %s };\n", strings.Join(entries, ", "))
		call = append(call, "params")
	} else if p.body != nil {
		call = append(call, "undefined")
	}
	if p.body != nil {
		call = append(call, "data")
	}

	fmt.Fprintf(b, "    return this.request<%s>(%s);\n", ret, strings.Join(call, ", "))
	b.WriteString("  }\n")
}

func (g *TypeScriptGenerator) packageJSON(spec *types.APISpec) string {
	pkg := strings.ReplaceAll(SnakeCase(splitWords(spec.Title)), "_", "-")
	return fmt.Sprintf(`{
  "name": %q,
  "version": %q,
  "description": "Client for the %s, generated from captured traffic.",
  "main": "client.ts",
  "devDependencies": {
    "typescript": "^5.0.0"
  }
}
`, pkg+"-client", versionOr(spec.Version), spec.Title)
}

func versionOr(v string) string {
	if v == "" {
		return "1.0.0"
	}
	return v
}

func (g *TypeScriptGenerator) readme(spec *types.APISpec, auth authInfo, plans []methodPlan) string {
	var b strings.Builder
	name := clientName(spec)

	fmt.Fprintf(&b, "# %s (TypeScript)\n\nClient for the %s, generated from captured traffic.\n\n", name, spec.Title)
	b.WriteString("## Usage\n\n```typescript\nimport { " + name + " } from \"./client\";\n\n")
	fmt.Fprintf(&b, "const client = new %s(%q);\n", name, spec.BaseURL)
	switch auth.kind {
	case types.AuthBearerToken:
		b.WriteString("client.setToken(\"your-token\");\n")
	case types.AuthBasicAuth:
		b.WriteString("client.setBasicAuth(\"user\", \"password\");\n")
	case types.AuthAPIKey:
		b.WriteString("client.setApiKey(\"your-key\");\n")
	}
	b.WriteString("```\n\n## Methods\n\n")
	for _, p := range plans {
		fmt.Fprintf(&b, "- `%s()` - %s %s\n", CamelCase(p.words), p.ep.Method, p.ep.Path)
	}
	return b.String()
}
