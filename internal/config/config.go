package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/goccy/go-yaml"
)

var (
	ErrNoArguments        = errors.New("no arguments provided")
	ErrNoQuery            = errors.New("no query specified")
	ErrNoSuiteFiles       = errors.New("no suite files specified")
	ErrInvalidParamFormat = errors.New("param must be in format name=value")
	ErrEmptyParamName     = errors.New("param name cannot be empty")
)

// Mode selects between evaluating a single query and running suite files.
type Mode int

const (
	ModeQuery Mode = iota
	ModeSuite
)

// Config represents the complete configuration for the docq tool.
type Config struct {
	Mode Mode

	// Query execution
	Query   string
	Dataset string
	Params  map[string]any

	// Suite execution
	SuiteFiles []string
	RateLimit  float64 // Queries per second (0 = unlimited)
}

// Validate checks that every referenced file exists.
func (c *Config) Validate() error {
	if c.Dataset != "" {
		if _, err := os.Stat(c.Dataset); err != nil {
			return fmt.Errorf("dataset file %s not found: %w", c.Dataset, err)
		}
	}

	for _, file := range c.SuiteFiles {
		if _, err := os.Stat(file); err != nil {
			return fmt.Errorf("suite file %s not found: %w", file, err)
		}
	}

	return nil
}

// paramsFlag implements flag.Value for repeated -p flags. Pairs are
// collected raw and validated after flag parsing; the flag package wraps
// Set errors with a plain %v, which would cut callers off from the
// sentinel errors.
type paramsFlag []string

func (p *paramsFlag) String() string {
	return strings.Join(*p, ",")
}

func (p *paramsFlag) Set(value string) error {
	*p = append(*p, value)
	return nil
}

// parseParams splits name=value pairs. Values are decoded as YAML
// scalars so numbers and booleans keep their type.
func parseParams(pairs []string) (map[string]any, error) {
	params := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		parts := strings.SplitN(pair, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("%w, got: %s", ErrInvalidParamFormat, pair)
		}

		name := strings.TrimSpace(parts[0])
		if name == "" {
			return nil, fmt.Errorf("%w, got: %s", ErrEmptyParamName, pair)
		}

		var parsed any
		if err := yaml.Unmarshal([]byte(parts[1]), &parsed); err != nil {
			parsed = parts[1]
		}
		params[name] = parsed
	}
	return params, nil
}

// Parse parses command-line arguments and returns a validated Config.
// flag.ErrHelp is returned when help is requested.
func Parse(args []string) (*Config, error) {
	if len(args) == 0 {
		return nil, ErrNoArguments
	}

	rest := args[1:]
	mode := ModeQuery
	if len(rest) > 0 && rest[0] == "run" {
		mode = ModeSuite
		rest = rest[1:]
	}

	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)
	fs.Usage = func() {}
	fs.SetOutput(io.Discard)

	var (
		dataset   = fs.String("d", "", "Path to dataset file (YAML or JSON documents)")
		params    paramsFlag
		rateLimit = fs.Float64("rate-limit", 0, "Rate limit in queries per second (0 for unlimited)")
	)
	fs.Var(&params, "p", "Query parameter in format name=value (can be used multiple times)")

	if err := fs.Parse(rest); err != nil {
		return nil, err
	}

	parsedParams, err := parseParams(params)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Mode:      mode,
		Dataset:   *dataset,
		Params:    parsedParams,
		RateLimit: *rateLimit,
	}

	switch mode {
	case ModeQuery:
		if fs.NArg() == 0 {
			return nil, ErrNoQuery
		}
		cfg.Query = strings.Join(fs.Args(), " ")
	case ModeSuite:
		if fs.NArg() == 0 {
			return nil, ErrNoSuiteFiles
		}
		cfg.SuiteFiles = fs.Args()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Usage returns a usage string for the CLI tool.
func Usage() string {
	return `docq - document query tool

Usage:
  docq [options] <query>           Evaluate a query against a dataset
  docq run [options] <file> ...    Run query suite files

Options:
  -d <file>          Dataset file with documents (YAML or JSON)
  -p name=value      Query parameter (can be used multiple times)
  -rate-limit <n>    Queries per second for suite runs (0 for unlimited)

Examples:
  docq -d people.yaml '*[age >= 18]{name}'
  docq -d people.yaml -p min=21 '*[age >= $min]'
  docq run smoke.yaml regression.yaml
`
}
