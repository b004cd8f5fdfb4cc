package config

import (
	"errors"
	"flag"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseQueryMode(t *testing.T) {
	dataset := writeFile(t, "people.yaml", "- name: alice\n")

	cfg, err := Parse([]string{"docq", "-d", dataset, "-p", "min=21", "*[age >= $min]"})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if cfg.Mode != ModeQuery {
		t.Errorf("Mode = %v, want ModeQuery", cfg.Mode)
	}
	if cfg.Query != "*[age >= $min]" {
		t.Errorf("Query = %q", cfg.Query)
	}
	if cfg.Dataset != dataset {
		t.Errorf("Dataset = %q, want %q", cfg.Dataset, dataset)
	}
	if want := map[string]any{"min": uint64(21)}; !reflect.DeepEqual(cfg.Params, want) {
		t.Errorf("Params = %v, want %v", cfg.Params, want)
	}
}

func TestParamTypes(t *testing.T) {
	dataset := writeFile(t, "people.yaml", "- name: alice\n")

	cfg, err := Parse([]string{"docq", "-d", dataset, "-p", "name=alice", "-p", "active=true", "*"})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if got := cfg.Params["name"]; got != "alice" {
		t.Errorf("name = %v (%T), want alice", got, got)
	}
	if got := cfg.Params["active"]; got != true {
		t.Errorf("active = %v (%T), want true", got, got)
	}
}

func TestParseSuiteMode(t *testing.T) {
	suite := writeFile(t, "smoke.yaml", "queries: []\n")

	cfg, err := Parse([]string{"docq", "run", "-rate-limit", "5", suite})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if cfg.Mode != ModeSuite {
		t.Errorf("Mode = %v, want ModeSuite", cfg.Mode)
	}
	if len(cfg.SuiteFiles) != 1 || cfg.SuiteFiles[0] != suite {
		t.Errorf("SuiteFiles = %v", cfg.SuiteFiles)
	}
	if cfg.RateLimit != 5 {
		t.Errorf("RateLimit = %v, want 5", cfg.RateLimit)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want error
	}{
		{name: "no_arguments", args: nil, want: ErrNoArguments},
		{name: "no_query", args: []string{"docq"}, want: ErrNoQuery},
		{name: "no_suite_files", args: []string{"docq", "run"}, want: ErrNoSuiteFiles},
		{name: "bad_param", args: []string{"docq", "-p", "oops", "*"}, want: ErrInvalidParamFormat},
		{name: "empty_param_name", args: []string{"docq", "-p", "=1", "*"}, want: ErrEmptyParamName},
		{name: "help", args: []string{"docq", "-h"}, want: flag.ErrHelp},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.args)
			if !errors.Is(err, tt.want) {
				t.Errorf("Parse() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestValidateMissingFiles(t *testing.T) {
	cfg := &Config{Dataset: "missing.yaml"}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for missing dataset")
	}

	cfg = &Config{SuiteFiles: []string{"missing.yaml"}}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for missing suite file")
	}
}
