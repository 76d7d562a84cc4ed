package tools

import (
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Register registers all tools with the MCP server.
func Register(srv *sdkmcp.Server, d *Deps) {
	AddTool(srv, &sdkmcp.Tool{
		Name: "trafficspec_analyze_capture",
		Description: "Analyze a capture JSON or HAR file into an API specification. " +
			"Groups calls by normalized endpoint, infers schemas from bodies, and detects " +
			"auth and rate-limit conventions. An optional jq filter narrows the call set " +
			"(e.g. '.response.status_code < 400'). Returns the spec as a JSON document " +
			"to pass to generate_client, export_spec, or validate_spec.",
	}, ToolAnalyzeCapture(d))

	AddTool(srv, &sdkmcp.Tool{
		Name: "trafficspec_generate_client",
		Description: "Generate a client library from an API spec document. Supported " +
			"languages: python, typescript, go. Returns a manifest of file paths to contents.",
	}, ToolGenerateClient(d))

	AddTool(srv, &sdkmcp.Tool{
		Name: "trafficspec_export_spec",
		Description: "Render an API spec document as markdown reference docs, an OpenAPI 3 " +
			"YAML document, or a Postman collection.",
	}, ToolExportSpec(d))

	AddTool(srv, &sdkmcp.Tool{
		Name: "trafficspec_validate_spec",
		Description: "Self-check an API spec document: validate every retained response " +
			"example against the schema inferred from it and report mismatches.",
	}, ToolValidateSpec(d))
}
