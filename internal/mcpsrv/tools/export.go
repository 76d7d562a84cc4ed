package tools

import (
	"context"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/trafficspec/internal/export"
	"github.com/usestring/trafficspec/internal/validate"
)

// ExportSpecInput is the input for trafficspec_export_spec.
type ExportSpecInput struct {
	Spec   string `json:"spec" jsonschema:"API spec JSON, as produced by analyze_capture"`
	Format string `json:"format" jsonschema:"output format: markdown, openapi or postman"`
}

// ExportSpecOutput is the output for trafficspec_export_spec.
type ExportSpecOutput struct {
	Format   string `json:"format"`
	Document string `json:"document"`
}

// ValidateSpecInput is the input for trafficspec_validate_spec.
type ValidateSpecInput struct {
	Spec string `json:"spec" jsonschema:"API spec JSON, as produced by analyze_capture"`
}

// ValidateSpecOutput is the output for trafficspec_validate_spec.
type ValidateSpecOutput struct {
	Valid  bool             `json:"valid"`
	Issues []validate.Issue `json:"issues,omitzero"`
}

// ToolExportSpec renders a spec document in one of the supported formats.
func ToolExportSpec(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input ExportSpecInput) (*sdkmcp.CallToolResult, ExportSpecOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input ExportSpecInput) (*sdkmcp.CallToolResult, ExportSpecOutput, error) {
		spec, err := parseSpecInput(input.Spec)
		if err != nil {
			return nil, ExportSpecOutput{}, err
		}

		format := strings.ToLower(input.Format)
		var doc []byte
		switch format {
		case "markdown", "md":
			format = "markdown"
			doc = []byte(export.Markdown(spec))
		case "openapi":
			doc, err = export.OpenAPIYAML(spec)
		case "postman":
			doc, err = export.Postman(spec)
		default:
			return nil, ExportSpecOutput{}, ErrInvalidInput("unknown format: " + input.Format)
		}
		if err != nil {
			return nil, ExportSpecOutput{}, WrapAnalyzeError(err)
		}

		return nil, ExportSpecOutput{Format: format, Document: string(doc)}, nil
	}
}

// ToolValidateSpec runs the schema self-check: every retained example must
// validate against the schema inferred from it.
func ToolValidateSpec(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input ValidateSpecInput) (*sdkmcp.CallToolResult, ValidateSpecOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input ValidateSpecInput) (*sdkmcp.CallToolResult, ValidateSpecOutput, error) {
		spec, err := parseSpecInput(input.Spec)
		if err != nil {
			return nil, ValidateSpecOutput{}, err
		}

		issues, err := validate.Spec(spec)
		if err != nil {
			return nil, ValidateSpecOutput{}, WrapAnalyzeError(err)
		}

		return nil, ValidateSpecOutput{Valid: len(issues) == 0, Issues: issues}, nil
	}
}
