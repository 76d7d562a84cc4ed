package tools

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/trafficspec/internal/filter"
)

// AnalyzeCaptureInput is the input for trafficspec_analyze_capture.
type AnalyzeCaptureInput struct {
	Path   string `json:"path" jsonschema:"path to a capture JSON or HAR file"`
	Filter string `json:"filter,omitempty" jsonschema:"optional jq expression; only calls it selects are analyzed"`
	Title  string `json:"title,omitempty" jsonschema:"spec title override"`
}

// AnalyzeCaptureOutput is the output for trafficspec_analyze_capture.
type AnalyzeCaptureOutput struct {
	BaseURL   string `json:"base_url,omitempty"`
	Endpoints int    `json:"endpoints"`
	Calls     int    `json:"calls"`
	Spec      string `json:"spec"`
}

// ToolAnalyzeCapture loads a capture file, optionally filters it, and runs
// the full analysis pipeline. The spec is returned as a JSON document.
func ToolAnalyzeCapture(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input AnalyzeCaptureInput) (*sdkmcp.CallToolResult, AnalyzeCaptureOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input AnalyzeCaptureInput) (*sdkmcp.CallToolResult, AnalyzeCaptureOutput, error) {
		if input.Path == "" {
			return nil, AnalyzeCaptureOutput{}, ErrInvalidInput("path is required")
		}

		calls, err := d.LoadCalls(input.Path)
		if err != nil {
			return nil, AnalyzeCaptureOutput{}, ErrIO(err)
		}

		if input.Filter != "" {
			f, err := filter.Compile(input.Filter)
			if err != nil {
				return nil, AnalyzeCaptureOutput{}, ErrInvalidInput(err.Error())
			}
			calls, err = f.Apply(calls)
			if err != nil {
				return nil, AnalyzeCaptureOutput{}, WrapAnalyzeError(err)
			}
		}

		analyzer := d.Analyzer
		if input.Title != "" {
			opts := analyzer.Options()
			opts.Title = input.Title
			analyzer = analyzer.WithOptions(opts)
		}

		spec, err := analyzer.Analyze(ctx, calls)
		if err != nil {
			return nil, AnalyzeCaptureOutput{}, WrapAnalyzeError(err)
		}

		doc, err := spec.JSON()
		if err != nil {
			return nil, AnalyzeCaptureOutput{}, WrapAnalyzeError(err)
		}

		return nil, AnalyzeCaptureOutput{
			BaseURL:   spec.BaseURL,
			Endpoints: len(spec.Endpoints),
			Calls:     len(calls),
			Spec:      string(doc),
		}, nil
	}
}
