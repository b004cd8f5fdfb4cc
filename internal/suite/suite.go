// Package suite runs YAML-defined query suites: each entry is a query
// evaluated against a shared dataset, optionally compared with an expected
// result and checked with JSONPath assertions.
package suite

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/docq/docq/internal/assert"
	"github.com/docq/docq/internal/builtins"
	"github.com/docq/docq/internal/dataset"
	"github.com/docq/docq/internal/eval"
	"github.com/docq/docq/internal/number"
	"github.com/docq/docq/internal/parser"
	"github.com/docq/docq/internal/ratelimit"
)

// ErrInvalidSuite indicates a suite file that fails validation.
var ErrInvalidSuite = errors.New("suite: invalid suite")

// Suite is one suite file: a dataset plus the queries to run against it.
type Suite struct {
	// Dataset is the collection file, resolved relative to the suite file.
	Dataset string `yaml:"dataset,omitempty"`

	// RateLimit caps queries per second; zero means unlimited.
	RateLimit float64 `yaml:"rate_limit,omitempty"`

	Queries []Query `yaml:"queries"`
}

// Query is a single suite entry. A nil Expect means no full-result
// comparison is performed.
type Query struct {
	Name    string             `yaml:"name"`
	Query   string             `yaml:"query"`
	Params  map[string]any     `yaml:"params,omitempty"`
	Expect  any                `yaml:"expect,omitempty"`
	Asserts []assert.Assertion `yaml:"asserts,omitempty"`
}

// Load reads and validates a suite file. The dataset path is resolved
// against the suite file's directory.
func Load(path string) (*Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read suite: %w", err)
	}

	var s Suite
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidSuite, err)
	}

	if s.Dataset != "" && !filepath.IsAbs(s.Dataset) {
		s.Dataset = filepath.Join(filepath.Dir(path), s.Dataset)
	}

	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("suite %s: %w", path, err)
	}
	return &s, nil
}

// Validate checks every query parses and every assertion is well-formed
// before anything runs.
func (s *Suite) Validate() error {
	if len(s.Queries) == 0 {
		return fmt.Errorf("%w: no queries", ErrInvalidSuite)
	}

	for i, q := range s.Queries {
		if q.Query == "" {
			return fmt.Errorf("%w: query %d is empty", ErrInvalidSuite, i)
		}
		if _, err := parser.Parse(q.Query); err != nil {
			return fmt.Errorf("%w: query %q: %s", ErrInvalidSuite, q.Name, err)
		}
		for _, a := range q.Asserts {
			if err := a.Validate(); err != nil {
				return fmt.Errorf("%w: query %q: %s", ErrInvalidSuite, q.Name, err)
			}
		}
	}
	return nil
}

// Result is the outcome of one suite entry. Err reports structural
// failures (parse or evaluation errors); Failures lists expectations that
// did not hold.
type Result struct {
	Name     string
	Err      error
	Failures []string
	Elapsed  time.Duration
}

// Passed reports whether the entry evaluated cleanly with every
// expectation holding.
func (r Result) Passed() bool {
	return r.Err == nil && len(r.Failures) == 0
}

// Run executes every query in order, pacing by the suite's rate limit.
// Per-query failures are collected in the results; only setup problems
// (dataset loading, cancellation) abort the run.
func Run(ctx context.Context, s *Suite) ([]Result, error) {
	var documents []any
	if s.Dataset != "" {
		loaded, err := dataset.Load(s.Dataset)
		if err != nil {
			return nil, err
		}
		documents = dataset.Documents(loaded)
	}

	operators := builtins.Operators()
	functions := builtins.Functions()
	limiter := ratelimit.New(s.RateLimit)

	results := make([]Result, 0, len(s.Queries))
	for _, q := range s.Queries {
		if err := limiter.Wait(ctx); err != nil {
			return nil, err
		}
		results = append(results, runQuery(ctx, q, documents, operators, functions))
	}
	return results, nil
}

func runQuery(ctx context.Context, q Query, documents []any, operators map[string]eval.Operator, functions map[string]eval.Function) Result {
	result := Result{Name: q.Name}
	start := time.Now()
	defer func() { result.Elapsed = time.Since(start) }()

	node, err := parser.Parse(q.Query)
	if err != nil {
		result.Err = err
		return result
	}

	evaluated, err := eval.Evaluate(ctx, node, eval.Options{
		Documents: documents,
		Params:    q.Params,
		Operators: operators,
		Functions: functions,
	})
	if err != nil {
		result.Err = err
		return result
	}

	materialized, err := evaluated.Materialize(ctx)
	if err != nil {
		result.Err = err
		return result
	}

	if q.Expect != nil && !resultEquals(materialized, q.Expect) {
		result.Failures = append(result.Failures,
			fmt.Sprintf("result %v does not equal expected %v", materialized, q.Expect))
	}

	for _, a := range q.Asserts {
		if err := a.Check(materialized); err != nil {
			result.Failures = append(result.Failures, err.Error())
		}
	}

	return result
}

// resultEquals compares a materialized result with a decoded expectation,
// coercing numeric types so YAML integers match evaluator floats.
func resultEquals(got, want any) bool {
	if number.Equal(got, want) {
		return true
	}

	switch wanted := want.(type) {
	case []any:
		gotSlice, ok := got.([]any)
		if !ok || len(gotSlice) != len(wanted) {
			return false
		}
		for i := range wanted {
			if !resultEquals(gotSlice[i], wanted[i]) {
				return false
			}
		}
		return true
	case map[string]any:
		gotMap, ok := got.(map[string]any)
		if !ok || len(gotMap) != len(wanted) {
			return false
		}
		for key, wantedValue := range wanted {
			gotValue, ok := gotMap[key]
			if !ok || !resultEquals(gotValue, wantedValue) {
				return false
			}
		}
		return true
	default:
		switch got.(type) {
		case []any, map[string]any:
			return false
		}
		return got == want
	}
}
