package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/usestring/trafficspec/internal/analyze"
	"github.com/usestring/trafficspec/internal/capture"
	"github.com/usestring/trafficspec/internal/config"
	"github.com/usestring/trafficspec/internal/detect"
	"github.com/usestring/trafficspec/internal/export"
	"github.com/usestring/trafficspec/internal/filter"
	"github.com/usestring/trafficspec/internal/generate"
	"github.com/usestring/trafficspec/internal/logging"
	"github.com/usestring/trafficspec/internal/mcpsrv"
	"github.com/usestring/trafficspec/internal/mcpsrv/tools"
	"github.com/usestring/trafficspec/internal/normalize"
	"github.com/usestring/trafficspec/internal/validate"
	"github.com/usestring/trafficspec/pkg/jsoncompact"
	"github.com/usestring/trafficspec/pkg/types"
)

var (
	version = "1.0.0"

	// Global flags
	verbose bool

	// Analyze flags
	analyzeOutput  string
	analyzeFilter  string
	analyzeTitle   string
	analyzeBaseURL string
	analyzeWorkers int

	// Generate flags
	generateLanguages []string
	generateOutput    string

	// Export flags
	exportFormat string
	exportOutput string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "trafficspec",
		Short: "trafficspec - API specifications from captured HTTP traffic",
		Long: `trafficspec reconstructs API specifications from captured HTTP traffic.

It groups request/response samples by normalized endpoint, infers JSON
schemas from observed bodies, detects authentication and rate-limit
conventions, and emits documentation and typed client libraries.`,
		Version: version,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [capture-file]",
		Short: "Analyze a capture into an API spec",
		Long:  "Analyze a capture JSON or HAR file and write the resulting API spec as JSON.",
		Args:  cobra.ExactArgs(1),
		RunE:  runAnalyze,
	}
	analyzeCmd.Flags().StringVarP(&analyzeOutput, "output", "o", "spec.json", "Output spec file")
	analyzeCmd.Flags().StringVar(&analyzeFilter, "filter", "", "jq expression selecting calls to analyze")
	analyzeCmd.Flags().StringVar(&analyzeTitle, "title", "", "Spec title")
	analyzeCmd.Flags().StringVar(&analyzeBaseURL, "base-url", "", "Override the detected base URL")
	analyzeCmd.Flags().IntVar(&analyzeWorkers, "workers", 0, "Concurrent endpoint analyzers (default from ANALYZE_WORKERS)")

	generateCmd := &cobra.Command{
		Use:   "generate [spec-file]",
		Short: "Generate client libraries from a spec",
		Long:  "Generate client libraries for one or more languages from an API spec file.",
		Args:  cobra.ExactArgs(1),
		RunE:  runGenerate,
	}
	generateCmd.Flags().StringSliceVarP(&generateLanguages, "languages", "l", []string{"all"}, "Languages to generate (python, typescript, go, all)")
	generateCmd.Flags().StringVarP(&generateOutput, "output", "o", "generated", "Output directory")

	exportCmd := &cobra.Command{
		Use:   "export [spec-file]",
		Short: "Export a spec as documentation",
		Long:  "Render an API spec file as Markdown, OpenAPI 3 YAML, or a Postman collection.",
		Args:  cobra.ExactArgs(1),
		RunE:  runExport,
	}
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "markdown", "Output format (markdown, openapi, postman)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file (default stdout)")

	mcpCmd := &cobra.Command{
		Use:   "mcp",
		Short: "Run the MCP stdio server",
		Long:  "Run an MCP server on stdio exposing the analyze, generate, export and validate tools.",
		RunE:  runMCP,
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose (debug) logging")
	rootCmd.AddCommand(analyzeCmd, generateCmd, exportCmd, mcpCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setup loads configuration and installs the global logger. The returned
// cleanup flushes the log file, when one is configured.
func setup() (*config.Config, func() error, error) {
	cfg := config.Load()

	logCfg := logging.Config{
		Level:      cfg.LogLevel,
		Format:     cfg.LogFormat,
		FilePath:   cfg.LogFile,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		MaxAgeDays: cfg.LogMaxAgeDays,
		Compress:   cfg.LogCompress,
	}
	if verbose {
		logCfg.Level = "debug"
	}

	cleanup, err := logging.Setup(logCfg)
	if err != nil {
		return nil, nil, fmt.Errorf("setting up logging: %w", err)
	}
	return cfg, cleanup, nil
}

func newAnalyzer(cfg *config.Config) (*analyze.Analyzer, error) {
	n, err := normalize.New(cfg.NormalizeCacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating normalizer: %w", err)
	}

	opts := analyze.Options{
		Workers:             cfg.AnalyzeWorkers,
		MaxRetainedExamples: cfg.MaxRetainedExamples,
		Title:               cfg.SpecTitle,
		Version:             cfg.SpecVersion,
		Compact: &jsoncompact.Options{
			MaxArrayItems: cfg.CompactMaxArrayItems,
			MaxStringLen:  cfg.CompactMaxStringLen,
			MaxObjectKeys: cfg.CompactMaxObjectKeys,
			MaxDepth:      cfg.CompactMaxDepth,
		},
	}
	if analyzeWorkers > 0 {
		opts.Workers = analyzeWorkers
	}
	if analyzeTitle != "" {
		opts.Title = analyzeTitle
	}
	return analyze.New(n, opts), nil
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, cleanup, err := setup()
	if err != nil {
		return err
	}
	defer cleanup()

	calls, err := capture.LoadFile(args[0])
	if err != nil {
		return fmt.Errorf("loading capture: %w", err)
	}
	slog.Info("capture loaded", "file", args[0], "calls", len(calls))

	if analyzeFilter != "" {
		f, err := filter.Compile(analyzeFilter)
		if err != nil {
			return fmt.Errorf("compiling filter: %w", err)
		}
		calls, err = f.Apply(calls)
		if err != nil {
			return fmt.Errorf("applying filter: %w", err)
		}
		slog.Info("filter applied", "expression", analyzeFilter, "calls", len(calls))
	}

	if verbose {
		n, err := normalize.New(cfg.NormalizeCacheSize)
		if err == nil {
			for pattern, paths := range detect.PathGroups(calls, n) {
				slog.Debug("path group", "pattern", pattern, "paths", len(paths))
			}
		}
	}

	analyzer, err := newAnalyzer(cfg)
	if err != nil {
		return err
	}
	spec, err := analyzer.Analyze(cmd.Context(), calls)
	if err != nil {
		return fmt.Errorf("analyzing capture: %w", err)
	}
	if analyzeBaseURL != "" {
		spec.BaseURL = analyzeBaseURL
	}

	issues, err := validate.Spec(spec)
	if err != nil {
		return fmt.Errorf("validating spec: %w", err)
	}
	for _, issue := range issues {
		slog.Warn("example does not match inferred schema",
			"endpoint", issue.Endpoint,
			"status", issue.StatusCode,
			"example", issue.ExampleIndex,
		)
	}

	doc, err := spec.JSON()
	if err != nil {
		return fmt.Errorf("encoding spec: %w", err)
	}
	if err := os.WriteFile(analyzeOutput, doc, 0644); err != nil {
		return fmt.Errorf("writing spec: %w", err)
	}

	fmt.Printf("Analyzed %d calls into %d endpoints\n", len(calls), len(spec.Endpoints))
	if spec.BaseURL != "" {
		fmt.Printf("Base URL: %s\n", spec.BaseURL)
	}
	fmt.Printf("Spec written to %s\n", analyzeOutput)
	return nil
}

func runGenerate(cmd *cobra.Command, args []string) error {
	_, cleanup, err := setup()
	if err != nil {
		return err
	}
	defer cleanup()

	spec, err := loadSpec(args[0])
	if err != nil {
		return err
	}

	languages := generateLanguages
	for _, l := range languages {
		if l == "all" {
			languages = generate.Languages()
			break
		}
	}

	for _, lang := range languages {
		gen, err := generate.New(lang)
		if err != nil {
			return err
		}
		files, err := gen.Generate(spec)
		if err != nil {
			return fmt.Errorf("generating %s client: %w", lang, err)
		}

		dir := filepath.Join(generateOutput, lang)
		if err := writeFiles(dir, files); err != nil {
			return err
		}
		fmt.Printf("Generated %s client in %s (%d files)\n", lang, dir, len(files))
	}
	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
	_, cleanup, err := setup()
	if err != nil {
		return err
	}
	defer cleanup()

	spec, err := loadSpec(args[0])
	if err != nil {
		return err
	}

	var doc []byte
	switch exportFormat {
	case "markdown", "md":
		doc = []byte(export.Markdown(spec))
	case "openapi":
		doc, err = export.OpenAPIYAML(spec)
	case "postman":
		doc, err = export.Postman(spec)
	default:
		return fmt.Errorf("unknown format %q (expected markdown, openapi or postman)", exportFormat)
	}
	if err != nil {
		return fmt.Errorf("rendering %s: %w", exportFormat, err)
	}

	if exportOutput == "" {
		_, err = os.Stdout.Write(doc)
		return err
	}
	if err := os.WriteFile(exportOutput, doc, 0644); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	fmt.Printf("Exported %s to %s\n", exportFormat, exportOutput)
	return nil
}

func runMCP(cmd *cobra.Command, args []string) error {
	cfg, cleanup, err := setup()
	if err != nil {
		return err
	}
	defer cleanup()

	analyzer, err := newAnalyzer(cfg)
	if err != nil {
		return err
	}

	server, err := mcpsrv.NewServer(&tools.Deps{Config: cfg, Analyzer: analyzer})
	if err != nil {
		return fmt.Errorf("creating MCP server: %w", err)
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	slog.Info("starting trafficspec MCP server on stdio")
	if err := server.Run(ctx); err != nil && err != context.Canceled {
		return err
	}
	slog.Info("server stopped")
	return nil
}

func loadSpec(path string) (*types.APISpec, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading spec: %w", err)
	}
	spec, err := types.ParseSpec(raw)
	if err != nil {
		return nil, fmt.Errorf("parsing spec: %w", err)
	}
	return spec, nil
}

func writeFiles(dir string, files map[string]string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}
	return nil
}
