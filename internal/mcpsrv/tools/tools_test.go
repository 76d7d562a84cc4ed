package tools

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usestring/trafficspec/internal/analyze"
	"github.com/usestring/trafficspec/internal/config"
	"github.com/usestring/trafficspec/internal/normalize"
	"github.com/usestring/trafficspec/pkg/types"
)

func testDeps(t *testing.T) *Deps {
	t.Helper()
	n, err := normalize.New(normalize.DefaultCacheSize)
	require.NoError(t, err)
	return &Deps{
		Config:   config.Load(),
		Analyzer: analyze.New(n, analyze.DefaultOptions()),
	}
}

func writeCapture(t *testing.T, calls []types.CapturedCall) string {
	t.Helper()
	raw, err := json.Marshal(calls)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "capture.json")
	require.NoError(t, os.WriteFile(path, raw, 0644))
	return path
}

func sampleCalls() []types.CapturedCall {
	return []types.CapturedCall{
		{
			Request: types.CapturedRequest{
				URL:     "https://api.example.com/users/123",
				Method:  "GET",
				Headers: map[string]string{"Authorization": "Bearer tok-1"},
			},
			Response: types.CapturedResponse{
				StatusCode:  200,
				Body:        `{"id": 123, "name": "Ada"}`,
				ContentType: "application/json",
			},
		},
		{
			Request: types.CapturedRequest{
				URL:    "https://api.example.com/users/456",
				Method: "GET",
			},
			Response: types.CapturedResponse{
				StatusCode:  404,
				Body:        `{"error": "not found"}`,
				ContentType: "application/json",
			},
		},
	}
}

func TestToolAnalyzeCapture(t *testing.T) {
	d := testDeps(t)
	path := writeCapture(t, sampleCalls())

	_, out, err := ToolAnalyzeCapture(d)(context.Background(), nil, AnalyzeCaptureInput{Path: path})
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.com", out.BaseURL)
	assert.Equal(t, 1, out.Endpoints)
	assert.Equal(t, 2, out.Calls)

	spec, err := types.ParseSpec([]byte(out.Spec))
	require.NoError(t, err)
	require.NotNil(t, spec.Endpoint("GET", "/users/{id}"))
}

func TestToolAnalyzeCaptureWithFilter(t *testing.T) {
	d := testDeps(t)
	path := writeCapture(t, sampleCalls())

	_, out, err := ToolAnalyzeCapture(d)(context.Background(), nil, AnalyzeCaptureInput{
		Path:   path,
		Filter: ".response.status_code < 400",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, out.Calls)
}

func TestToolAnalyzeCaptureMissingPath(t *testing.T) {
	d := testDeps(t)

	_, _, err := ToolAnalyzeCapture(d)(context.Background(), nil, AnalyzeCaptureInput{})
	require.Error(t, err)

	var coded *CodedError
	require.ErrorAs(t, err, &coded)
	assert.Equal(t, ErrCodeInvalidInput, coded.Code)
}

func TestToolAnalyzeCaptureBadFilter(t *testing.T) {
	d := testDeps(t)
	path := writeCapture(t, sampleCalls())

	_, _, err := ToolAnalyzeCapture(d)(context.Background(), nil, AnalyzeCaptureInput{
		Path:   path,
		Filter: ".[broken",
	})
	require.Error(t, err)

	var coded *CodedError
	require.ErrorAs(t, err, &coded)
	assert.Equal(t, ErrCodeInvalidInput, coded.Code)
}

func analyzedSpec(t *testing.T, d *Deps) string {
	t.Helper()
	path := writeCapture(t, sampleCalls())
	_, out, err := ToolAnalyzeCapture(d)(context.Background(), nil, AnalyzeCaptureInput{Path: path})
	require.NoError(t, err)
	return out.Spec
}

func TestToolGenerateClient(t *testing.T) {
	d := testDeps(t)
	spec := analyzedSpec(t, d)

	_, out, err := ToolGenerateClient(d)(context.Background(), nil, GenerateClientInput{
		Spec:     spec,
		Language: "python",
	})
	require.NoError(t, err)
	assert.Equal(t, "python", out.Language)
	assert.Contains(t, out.Files, "client.py")
	assert.Contains(t, out.Files["client.py"], "def get_user(")
}

func TestToolGenerateClientUnsupportedLanguage(t *testing.T) {
	d := testDeps(t)
	spec := analyzedSpec(t, d)

	_, _, err := ToolGenerateClient(d)(context.Background(), nil, GenerateClientInput{
		Spec:     spec,
		Language: "ruby",
	})
	require.Error(t, err)

	var coded *CodedError
	require.ErrorAs(t, err, &coded)
	assert.Equal(t, ErrCodeInvalidInput, coded.Code)
}

func TestToolExportSpec(t *testing.T) {
	d := testDeps(t)
	spec := analyzedSpec(t, d)

	tests := []struct {
		format string
		expect string
	}{
		{"markdown", "### GET /users/{id}"},
		{"openapi", "openapi: 3.0.3"},
		{"postman", "schema.getpostman.com"},
	}
	for _, tt := range tests {
		_, out, err := ToolExportSpec(d)(context.Background(), nil, ExportSpecInput{
			Spec:   spec,
			Format: tt.format,
		})
		require.NoError(t, err, tt.format)
		assert.Equal(t, tt.format, out.Format)
		assert.Contains(t, out.Document, tt.expect, tt.format)
	}
}

func TestToolExportSpecUnknownFormat(t *testing.T) {
	d := testDeps(t)
	spec := analyzedSpec(t, d)

	_, _, err := ToolExportSpec(d)(context.Background(), nil, ExportSpecInput{Spec: spec, Format: "pdf"})
	require.Error(t, err)
}

func TestToolValidateSpec(t *testing.T) {
	d := testDeps(t)
	spec := analyzedSpec(t, d)

	_, out, err := ToolValidateSpec(d)(context.Background(), nil, ValidateSpecInput{Spec: spec})
	require.NoError(t, err)
	assert.True(t, out.Valid)
	assert.Empty(t, out.Issues)
}

func TestCheckOutputSchemas(t *testing.T) {
	assert.NotPanics(t, func() {
		CheckOutputSchema[AnalyzeCaptureOutput]("trafficspec_analyze_capture")
		CheckOutputSchema[GenerateClientOutput]("trafficspec_generate_client")
		CheckOutputSchema[ExportSpecOutput]("trafficspec_export_spec")
		CheckOutputSchema[ValidateSpecOutput]("trafficspec_validate_spec")
	})
}
