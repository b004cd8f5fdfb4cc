// Package dataset loads document collections from JSON or YAML files. A
// dataset is a sequence of documents; every loaded document carries a
// string _id so it can be a dereference target, generated when absent.
package dataset

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/google/uuid"
)

// ErrInvalidDataset indicates the input did not decode to a sequence of
// documents.
var ErrInvalidDataset = errors.New("dataset: expected a sequence of documents")

// Load reads a document collection from a file. YAML and JSON are both
// accepted.
func Load(path string) ([]map[string]any, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	documents, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("dataset %s: %w", path, err)
	}
	return documents, nil
}

// Parse decodes a document collection. Documents missing a string _id get
// a generated one.
func Parse(r io.Reader) ([]map[string]any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var documents []map[string]any
	if err := yaml.Unmarshal(data, &documents); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidDataset, err)
	}

	for _, document := range documents {
		if _, ok := document["_id"].(string); !ok {
			document["_id"] = uuid.NewString()
		}
	}

	return documents, nil
}

// Documents converts a loaded dataset to the []any shape the evaluator's
// documents option accepts.
func Documents(documents []map[string]any) []any {
	converted := make([]any, len(documents))
	for i, document := range documents {
		converted[i] = document
	}
	return converted
}
