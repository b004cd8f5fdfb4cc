package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/docq/docq/internal/builtins"
	"github.com/docq/docq/internal/config"
	"github.com/docq/docq/internal/dataset"
	"github.com/docq/docq/internal/eval"
	"github.com/docq/docq/internal/output"
	"github.com/docq/docq/internal/parser"
	"github.com/docq/docq/internal/suite"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Parse(os.Args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			fmt.Fprint(os.Stdout, config.Usage())
			return 0
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n\n%s", err, config.Usage())
		return 1
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	switch cfg.Mode {
	case config.ModeSuite:
		return runSuites(ctx, cfg)
	default:
		return runQuery(ctx, cfg)
	}
}

func runQuery(ctx context.Context, cfg *config.Config) int {
	var documents []any
	if cfg.Dataset != "" {
		loaded, err := dataset.Load(cfg.Dataset)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		documents = dataset.Documents(loaded)
	}

	node, err := parser.Parse(cfg.Query)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	result, err := eval.Evaluate(ctx, node, eval.Options{
		Documents: documents,
		Params:    cfg.Params,
		Operators: builtins.Operators(),
		Functions: builtins.Functions(),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	materialized, err := result.Materialize(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	if err := output.Value(os.Stdout, materialized); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	return 0
}

func runSuites(ctx context.Context, cfg *config.Config) int {
	exitCode := 0

	for _, file := range cfg.SuiteFiles {
		s, err := suite.Load(file)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		if cfg.RateLimit > 0 {
			s.RateLimit = cfg.RateLimit
		}

		results, err := suite.Run(ctx, s)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}

		summary := output.NewSummary(file)
		for _, r := range results {
			summary.Add(r)
		}

		if err := summary.FormatText(os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		if !summary.Passed() {
			exitCode = 1
		}
	}

	return exitCode
}
