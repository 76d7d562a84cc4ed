package tools

import (
	"context"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/trafficspec/internal/generate"
	"github.com/usestring/trafficspec/pkg/types"
)

// GenerateClientInput is the input for trafficspec_generate_client.
type GenerateClientInput struct {
	Spec     string `json:"spec" jsonschema:"API spec JSON, as produced by analyze_capture"`
	Language string `json:"language" jsonschema:"target language: python, typescript or go"`
}

// GenerateClientOutput is the output for trafficspec_generate_client.
type GenerateClientOutput struct {
	Language string            `json:"language"`
	Files    map[string]string `json:"files,omitzero"`
}

// ToolGenerateClient renders a client library for one language from a spec
// document.
func ToolGenerateClient(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input GenerateClientInput) (*sdkmcp.CallToolResult, GenerateClientOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input GenerateClientInput) (*sdkmcp.CallToolResult, GenerateClientOutput, error) {
		spec, err := parseSpecInput(input.Spec)
		if err != nil {
			return nil, GenerateClientOutput{}, err
		}

		gen, err := generate.New(strings.ToLower(input.Language))
		if err != nil {
			return nil, GenerateClientOutput{}, WrapAnalyzeError(err)
		}

		files, err := gen.Generate(spec)
		if err != nil {
			return nil, GenerateClientOutput{}, WrapAnalyzeError(err)
		}

		return nil, GenerateClientOutput{Language: gen.Language(), Files: files}, nil
	}
}

func parseSpecInput(doc string) (*types.APISpec, error) {
	if doc == "" {
		return nil, ErrInvalidInput("spec is required")
	}
	spec, err := types.ParseSpec([]byte(doc))
	if err != nil {
		return nil, ErrInvalidInput("invalid spec document: " + err.Error())
	}
	return spec, nil
}
