// Package export renders a frozen APISpec as human- and tool-facing
// documents: Markdown reference docs, an OpenAPI 3 document, and a Postman
// collection. Exporters never mutate the spec.
package export

import (
	"fmt"
	"sort"
	"strings"

	"github.com/usestring/trafficspec/pkg/jsonschema"
	"github.com/usestring/trafficspec/pkg/types"
)

// Markdown renders the spec as a reference document. Endpoint order follows
// the spec, so output is deterministic.
func Markdown(spec *types.APISpec) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", spec.Title)
	if spec.Description != "" {
		fmt.Fprintf(&b, "%s\n\n", spec.Description)
	}
	fmt.Fprintf(&b, "- Version: %s\n", spec.Version)
	if spec.BaseURL != "" {
		fmt.Fprintf(&b, "- Base URL: `%s`\n", spec.BaseURL)
	}
	fmt.Fprintf(&b, "- Endpoints: %d\n\n", len(spec.Endpoints))

	if len(spec.AuthPatterns) > 0 {
		b.WriteString("## Authentication\n\n")
		for _, p := range spec.AuthPatterns {
			b.WriteString(authLine(p))
		}
		b.WriteString("\n")
	}

	if rl := spec.RateLimit; rl != nil {
		b.WriteString("## Rate limits\n\n")
		if rl.RequestsPerMinute != nil {
			fmt.Fprintf(&b, "- %d requests per minute\n", *rl.RequestsPerMinute)
		}
		if rl.RequestsPerHour != nil {
			fmt.Fprintf(&b, "- %d requests per hour\n", *rl.RequestsPerHour)
		}
		if rl.RequestsPerDay != nil {
			fmt.Fprintf(&b, "- %d requests per day\n", *rl.RequestsPerDay)
		}
		if len(rl.Headers) > 0 {
			b.WriteString("- Headers:\n")
			for _, name := range sortedKeys(rl.Headers) {
				fmt.Fprintf(&b, "  - `%s` (e.g. `%s`)\n", name, rl.Headers[name])
			}
		}
		b.WriteString("\n")
	}

	b.WriteString("## Endpoints\n")
	for i := range spec.Endpoints {
		b.WriteString("\n")
		endpointSection(&b, &spec.Endpoints[i])
	}
	return b.String()
}

func authLine(p types.AuthPattern) string {
	switch p.Type {
	case types.AuthBearerToken:
		return fmt.Sprintf("- Bearer token in the `%s` header\n", p.HeaderName)
	case types.AuthBasicAuth:
		return fmt.Sprintf("- HTTP basic credentials in the `%s` header\n", p.HeaderName)
	case types.AuthAPIKey:
		if p.HeaderName == "" && p.ParameterName != "" {
			return fmt.Sprintf("- API key in the `%s` query parameter\n", p.ParameterName)
		}
		return fmt.Sprintf("- API key in the `%s` header\n", p.HeaderName)
	case types.AuthCustomHeader:
		return fmt.Sprintf("- Custom auth header `%s`\n", p.HeaderName)
	default:
		return fmt.Sprintf("- %s\n", p.Type)
	}
}

func endpointSection(b *strings.Builder, ep *types.Endpoint) {
	fmt.Fprintf(b, "### %s %s\n\n", ep.Method, ep.Path)
	if ep.Summary != "" {
		fmt.Fprintf(b, "%s\n\n", ep.Summary)
	}
	if ep.AuthRequired {
		b.WriteString("Requires authentication.\n\n")
	}

	parameterTable(b, "Path parameters", ep.Parameters)
	parameterTable(b, "Query parameters", ep.QueryParams)
	parameterTable(b, "Headers", ep.Headers)

	if ep.RequestBody != nil {
		b.WriteString("**Request body**\n\n")
		schemaBlock(b, ep.RequestBody)
	}

	for _, r := range ep.Responses {
		fmt.Fprintf(b, "**Response %d** (`%s`)\n\n", r.StatusCode, r.ContentType)
		if r.Schema != nil {
			schemaBlock(b, r.Schema)
		}
		if len(r.Examples) > 0 {
			b.WriteString("Example:\n\n```json\n")
			b.Write(r.Examples[0])
			b.WriteString("\n```\n\n")
		}
	}
}

func parameterTable(b *strings.Builder, title string, params []types.Parameter) {
	if len(params) == 0 {
		return
	}
	fmt.Fprintf(b, "**%s**\n\n", title)
	b.WriteString("| Name | Type | Required | Description |\n")
	b.WriteString("| --- | --- | --- | --- |\n")
	for _, p := range params {
		required := "no"
		if p.Required {
			required = "yes"
		}
		fmt.Fprintf(b, "| `%s` | %s | %s | %s |\n", p.Name, p.Type, required, p.Description)
	}
	b.WriteString("\n")
}

func schemaBlock(b *strings.Builder, s *types.Schema) {
	doc, err := jsonschema.MarshalIndent(s)
	if err != nil {
		return
	}
	b.WriteString("```json\n")
	b.Write(doc)
	b.WriteString("\n```\n\n")
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
