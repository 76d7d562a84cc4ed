// Package analyze turns a captured call set into an APISpec.
//
// Calls are grouped by (method, normalized path pattern); each group is
// analyzed independently into one Endpoint, then the spec is assembled with
// the globally detected auth and rate-limit conventions. The pipeline is a
// pure batch transform: no stage mutates a previous stage's output, and
// per-group analysis is fanned out across workers only as a throughput
// optimization.
package analyze

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/usestring/trafficspec/internal/detect"
	"github.com/usestring/trafficspec/internal/normalize"
	"github.com/usestring/trafficspec/pkg/jsoncompact"
	"github.com/usestring/trafficspec/pkg/types"
)

// ErrNoCalls is returned when the input call set is empty. Analysis has
// nothing to infer from, so this is a hard failure rather than an empty spec.
var ErrNoCalls = errors.New("no captured calls to analyze")

// Options controls analysis behavior.
type Options struct {
	// Workers caps concurrent per-group analysis. Values below 2 run serially.
	Workers int
	// MaxRetainedExamples bounds example payloads kept per response group.
	MaxRetainedExamples int
	// Title, Version and Description seed the spec metadata.
	Title       string
	Version     string
	Description string
	// Compact bounds retained example payloads. Nil uses the
	// jsoncompact defaults.
	Compact *jsoncompact.Options
}

// DefaultOptions returns the default analysis options.
func DefaultOptions() Options {
	return Options{
		Workers:             4,
		MaxRetainedExamples: 3,
		Title:               "Generated API",
		Version:             "1.0.0",
		Description:         "API specification generated from captured traffic",
	}
}

// Analyzer builds API specifications from captured call sets.
type Analyzer struct {
	normalizer *normalize.Normalizer
	opts       Options
}

// New creates an Analyzer. Zero-value option fields fall back to defaults.
func New(n *normalize.Normalizer, opts Options) *Analyzer {
	def := DefaultOptions()
	if opts.Workers <= 0 {
		opts.Workers = def.Workers
	}
	if opts.MaxRetainedExamples <= 0 {
		opts.MaxRetainedExamples = def.MaxRetainedExamples
	}
	if opts.Title == "" {
		opts.Title = def.Title
	}
	if opts.Version == "" {
		opts.Version = def.Version
	}
	if opts.Description == "" {
		opts.Description = def.Description
	}
	return &Analyzer{normalizer: n, opts: opts}
}

// Options returns a copy of the analyzer's effective options.
func (a *Analyzer) Options() Options {
	return a.opts
}

// WithOptions returns a new Analyzer sharing the normalizer (and its cache)
// but using the given options.
func (a *Analyzer) WithOptions(opts Options) *Analyzer {
	return New(a.normalizer, opts)
}

// callGroup holds all calls sharing one (method, pattern) key.
type callGroup struct {
	method  string
	pattern string
	params  []string
	calls   []types.CapturedCall
}

// Analyze produces an immutable APISpec from the call set.
func (a *Analyzer) Analyze(ctx context.Context, calls []types.CapturedCall) (*types.APISpec, error) {
	if len(calls) == 0 {
		return nil, ErrNoCalls
	}

	slog.Info("analyzing captured calls", slog.Int("calls", len(calls)))

	groups := a.groupByEndpoint(calls)

	// Deterministic group order regardless of input call order.
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	endpoints := make([]types.Endpoint, len(keys))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(a.opts.Workers)
	for i, key := range keys {
		group := groups[key]
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			endpoints[i] = a.analyzeGroup(group)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("analyzing endpoint groups: %w", err)
	}

	sort.Slice(endpoints, func(i, j int) bool {
		if endpoints[i].Path != endpoints[j].Path {
			return endpoints[i].Path < endpoints[j].Path
		}
		return endpoints[i].Method < endpoints[j].Method
	})

	spec := &types.APISpec{
		BaseURL:      baseURL(calls),
		Title:        a.opts.Title,
		Version:      a.opts.Version,
		Description:  a.opts.Description,
		Endpoints:    endpoints,
		AuthPatterns: detect.AuthPatterns(calls),
		RateLimit:    detect.RateLimits(calls),
	}

	slog.Info("built API spec",
		slog.Int("endpoints", len(spec.Endpoints)),
		slog.Int("auth_patterns", len(spec.AuthPatterns)),
	)
	return spec, nil
}

// groupByEndpoint buckets calls by "METHOD pattern". The same raw key never
// produces two groups, which upholds endpoint uniqueness in the spec.
func (a *Analyzer) groupByEndpoint(calls []types.CapturedCall) map[string]*callGroup {
	groups := make(map[string]*callGroup)

	for _, call := range calls {
		parsed, err := url.Parse(call.Request.URL)
		if err != nil {
			slog.Warn("skipping call with unparseable URL",
				slog.String("url", call.Request.URL),
				slog.String("error", err.Error()),
			)
			continue
		}

		method := strings.ToUpper(call.Request.Method)
		if method == "" {
			method = "GET"
		}

		res := a.normalizer.Normalize(parsed.Path)
		key := method + " " + res.Pattern

		group, ok := groups[key]
		if !ok {
			group = &callGroup{method: method, pattern: res.Pattern, params: res.Params}
			groups[key] = group
		}
		group.calls = append(group.calls, call)
	}

	return groups
}

// baseURL derives scheme://host from the first parseable call.
func baseURL(calls []types.CapturedCall) string {
	for _, call := range calls {
		parsed, err := url.Parse(call.Request.URL)
		if err != nil || parsed.Host == "" {
			continue
		}
		return parsed.Scheme + "://" + parsed.Host
	}
	return ""
}
