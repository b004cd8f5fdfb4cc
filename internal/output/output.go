package output

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/docq/docq/internal/suite"
)

const divider = "--------------------------------------------------------------------------------"

// Summary aggregates the results of a suite run.
type Summary struct {
	Suite         string
	Results       []suite.Result
	PassedQueries int
	FailedQueries int
	TotalElapsed  time.Duration
}

// NewSummary creates an empty summary for the named suite file.
func NewSummary(name string) *Summary {
	return &Summary{Suite: name}
}

// Add records a query result in the summary.
func (s *Summary) Add(r suite.Result) {
	s.Results = append(s.Results, r)
	s.TotalElapsed += r.Elapsed

	if r.Passed() {
		s.PassedQueries++
	} else {
		s.FailedQueries++
	}
}

// Passed reports whether every query in the suite passed.
func (s *Summary) Passed() bool {
	return s.FailedQueries == 0
}

// PassPercentage returns the share of passing queries, 0 to 100.
func (s *Summary) PassPercentage() float64 {
	total := s.PassedQueries + s.FailedQueries
	if total == 0 {
		return 0
	}
	return float64(s.PassedQueries) / float64(total) * 100
}

// FormatText writes a per-query report followed by suite totals.
func (s *Summary) FormatText(w io.Writer) error {
	for _, r := range s.Results {
		status := "Passed"
		switch {
		case r.Err != nil:
			status = fmt.Sprintf("Error: %v", r.Err)
		case len(r.Failures) > 0:
			status = "Failed"
		}

		if _, err := fmt.Fprintf(w, "%s: %s (%d ms)\n", r.Name, status, r.Elapsed.Milliseconds()); err != nil {
			return err
		}
		for _, failure := range r.Failures {
			if _, err := fmt.Fprintf(w, "  %s\n", failure); err != nil {
				return err
			}
		}
	}

	if _, err := fmt.Fprintln(w, divider); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Suite:          %s\n", s.Suite); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Passed queries: %d (%.1f%%)\n", s.PassedQueries, s.PassPercentage()); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Failed queries: %d\n", s.FailedQueries); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Duration:       %d ms\n", s.TotalElapsed.Milliseconds()); err != nil {
		return err
	}

	return nil
}

// Value writes a query result as indented JSON followed by a newline.
func Value(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
