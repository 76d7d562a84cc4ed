package generate

import (
	"fmt"
	"strings"

	"github.com/usestring/trafficspec/pkg/types"
)

// PythonGenerator emits a requests-based Python client.
type PythonGenerator struct{}

func (g *PythonGenerator) Language() string { return "python" }

func (g *PythonGenerator) Generate(spec *types.APISpec) (map[string]string, error) {
	auth := selectAuth(spec)
	plans := planSpec(spec)

	return map[string]string{
		"client.py":        g.client(spec, auth, plans),
		"requirements.txt": "requests>=2.28.0\n",
		"README.md":        g.readme(spec, auth, plans),
	}, nil
}

func (g *PythonGenerator) client(spec *types.APISpec, auth authInfo, plans []methodPlan) string {
	var b strings.Builder
	name := clientName(spec)

	fmt.Fprintf(&b, "\"\"\"Client for the %s.\n\nGenerated from captured traffic. Base URL: %s\n\"\"\"\n\n", spec.Title, spec.BaseURL)
	b.WriteString("from typing import Any, Dict, List, Optional\n")
	b.WriteString("from urllib.parse import quote\n\n")
	b.WriteString("import requests\n\n\n")

	fmt.Fprintf(&b, "class %s:\n", name)
	fmt.Fprintf(&b, "    def __init__(self, base_url: str = %q, headers: Optional[Dict[str, str]] = None):\n", spec.BaseURL)
	b.WriteString("        self.base_url = base_url.rstrip(\"/\")\n")
	b.WriteString("        self.session = requests.Session()\n")
	b.WriteString("        if headers:\n")
	b.WriteString("            self.session.headers.update(headers)\n\n")

	switch auth.kind {
	case types.AuthBearerToken:
		b.WriteString("    def set_token(self, token: str) -> None:\n")
		b.WriteString("        \"\"\"Send every request with a bearer token.\"\"\"\n")
		fmt.Fprintf(&b, "        self.session.headers[%q] = f\"Bearer {token}\"\n\n", auth.header)
	case types.AuthBasicAuth:
		b.WriteString("    def set_basic_auth(self, username: str, password: str) -> None:\n")
		b.WriteString("        \"\"\"Send every request with HTTP basic credentials.\"\"\"\n")
		b.WriteString("        self.session.auth = (username, password)\n\n")
	case types.AuthAPIKey:
		b.WriteString("    def set_api_key(self, key: str) -> None:\n")
		fmt.Fprintf(&b, "        \"\"\"Send every request with the %s header.\"\"\"\n", auth.header)
		fmt.Fprintf(&b, "        self.session.headers[%q] = key\n\n", auth.header)
	}

	b.WriteString("    def set_header(self, key: str, value: str) -> None:\n")
	b.WriteString("        self.session.headers[key] = value\n")

	for _, p := range plans {
		b.WriteString("\n")
		g.method(&b, p)
	}
	return b.String()
}

func (g *PythonGenerator) method(b *strings.Builder, p methodPlan) {
	args := []string{"self"}
	for _, pp := range p.path {
		args = append(args, fmt.Sprintf("%s: str", SnakeCase(ParamWords(pp.Name))))
	}
	for _, q := range p.required {
		args = append(args, fmt.Sprintf("%s: %s", SnakeCase(ParamWords(q.Name)), pythonParamType(q.Type)))
	}
	for _, q := range p.optional {
		args = append(args, fmt.Sprintf("%s: Optional[%s] = None", SnakeCase(ParamWords(q.Name)), pythonParamType(q.Type)))
	}
	if p.body != nil {
		args = append(args, fmt.Sprintf("data: Optional[%s] = None", pythonType(p.body)))
	}
	args = append(args, "**kwargs")

	ret := "Dict[str, Any]"
	if p.ok != nil {
		ret = pythonType(p.ok)
	}

	fmt.Fprintf(b, "    def %s(%s) -> %s:\n", SnakeCase(p.words), strings.Join(args, ", "), ret)
	fmt.Fprintf(b, "        \"\"\"%s %s\"\"\"\n", p.ep.Method, p.ep.Path)

	path := substitutePath(p.ep.Path, p.path, func(name string) string {
		return "{quote(str(" + SnakeCase(ParamWords(name)) + "))}"
	})
	if len(p.path) > 0 {
		fmt.Fprintf(b, "        url = self.base_url + f%q\n", path)
	} else {
		fmt.Fprintf(b, "        url = self.base_url + %q\n", path)
	}

	hasQuery := len(p.required)+len(p.optional) > 0
	if hasQuery {
		b.WriteString("        params = {}\n")
		for _, q := range p.required {
			fmt.Fprintf(b, "        params[%q] = %s\n", q.Name, SnakeCase(ParamWords(q.Name)))
		}
		for _, q := range p.optional {
			snake := SnakeCase(ParamWords(q.Name))
			fmt.Fprintf(b, "        if %s is not None:\n", snake)
			fmt.Fprintf(b, "            params[%q] = %s\n", q.Name, snake)
		}
	}

	call := []string{fmt.Sprintf("%q", p.ep.Method), "url"}
	if hasQuery {
		call = append(call, "params=params")
	}
	if p.body != nil {
		call = append(call, "json=data")
	}
	call = append(call, "**kwargs")

	fmt.Fprintf(b, "        response = self.session.request(%s)\n", strings.Join(call, ", "))
	b.WriteString("        response.raise_for_status()\n")
	b.WriteString("        return response.json() if response.content else {}\n")
}

func (g *PythonGenerator) readme(spec *types.APISpec, auth authInfo, plans []methodPlan) string {
	var b strings.Builder
	name := clientName(spec)

	fmt.Fprintf(&b, "# %s (Python)\n\nClient for the %s, generated from captured traffic.\n\n", name, spec.Title)
	b.WriteString("## Installation\n\n```bash\npip install -r requirements.txt\n```\n\n")
	b.WriteString("## Usage\n\n```python\nfrom client import " + name + "\n\n")
	fmt.Fprintf(&b, "client = %s(base_url=%q)\n", name, spec.BaseURL)
	switch auth.kind {
	case types.AuthBearerToken:
		b.WriteString("client.set_token(\"your-token\")\n")
	case types.AuthBasicAuth:
		b.WriteString("client.set_basic_auth(\"user\", \"password\")\n")
	case types.AuthAPIKey:
		b.WriteString("client.set_api_key(\"your-key\")\n")
	}
	b.WriteString("```\n\n## Methods\n\n")
	for _, p := range plans {
		fmt.Fprintf(&b, "- `%s()` - %s %s\n", SnakeCase(p.words), p.ep.Method, p.ep.Path)
	}
	return b.String()
}
