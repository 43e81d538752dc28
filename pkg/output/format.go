// Package output provides utilities for formatting and displaying budget
// projections.
package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/iwvelando/lead-budget/internal/projection"
	"github.com/iwvelando/lead-budget/pkg/constants"
	"github.com/iwvelando/lead-budget/pkg/format"
	"github.com/iwvelando/lead-budget/pkg/validation"
	"github.com/rotisserie/eris"
)

// Render writes results to w in the named output format.
func Render(w io.Writer, outputFormat string, results []projection.Projection, opts Options) error {
	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		return err
	}
	switch outputFormat {
	case constants.OutputFormatCSV:
		return CsvFormat(w, results)
	case constants.OutputFormatJSON:
		return JSONFormat(w, results)
	}
	return PrettyFormat(w, results, opts)
}

// PrettyFormat outputs a human-readable rather than machine-readable table.
func PrettyFormat(w io.Writer, results []projection.Projection, opts Options) error {
	ew := &errWriter{w: w}
	for i, result := range results {
		ew.printf("--- Results for scenario %s ---\n", result.Name)
		section := ""
		for _, line := range Lines(result.Result) {
			if line.Section != section {
				section = line.Section
				ew.printf("%s\n", section)
			}
			ew.printf("  %-26s %16s\n", line.Label, opts.Value(line))
		}
		for _, adjustment := range result.Adjustments {
			ew.printf("note: %s\n", adjustment)
		}
		for _, summary := range result.Optimizations {
			ew.printf("optimized: %s\n", summary)
			for _, note := range summary.Notes {
				ew.printf("note: %s\n", note)
			}
		}
		for _, warning := range result.Warnings {
			ew.printf("warning: %s\n", warning)
		}
		if i < len(results)-1 {
			ew.printf("\n")
		}
	}
	return ew.err
}

// CsvFormat outputs in comma-separated value format with one column per
// scenario.
func CsvFormat(w io.Writer, results []projection.Projection) error {
	writer := csv.NewWriter(w)

	header := make([]string, 0, len(results)+1)
	header = append(header, "metric")
	for _, result := range results {
		header = append(header, result.Name)
	}
	if err := writer.Write(header); err != nil {
		return eris.Wrap(err, "output: write csv header")
	}

	if len(results) > 0 {
		columns := make([][]Line, len(results))
		for i, result := range results {
			columns[i] = Lines(result.Result)
		}
		for row, line := range columns[0] {
			record := make([]string, 0, len(results)+1)
			record = append(record, line.Key)
			for _, column := range columns {
				record = append(record, csvValue(column[row]))
			}
			if err := writer.Write(record); err != nil {
				return eris.Wrapf(err, "output: write csv row %s", line.Key)
			}
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return eris.Wrap(err, "output: flush csv")
	}
	return nil
}

// CsvString renders results as CSV text.
func CsvString(results []projection.Projection) (string, error) {
	var buf bytes.Buffer
	if err := CsvFormat(&buf, results); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// JSONFormat outputs the projections as indented JSON.
func JSONFormat(w io.Writer, results []projection.Projection) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if results == nil {
		results = []projection.Projection{}
	}
	if err := encoder.Encode(results); err != nil {
		return eris.Wrap(err, "output: encode json")
	}
	return nil
}

func csvValue(l Line) string {
	switch l.Kind {
	case KindCurrency, KindUnitCost:
		return format.NumericCurrency(l.Value)
	}
	return strconv.FormatFloat(l.Value, 'f', 2, 64)
}

type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(layout string, args ...any) {
	if ew.err != nil {
		return
	}
	if _, err := fmt.Fprintf(ew.w, layout, args...); err != nil {
		ew.err = eris.Wrap(err, "output: write")
	}
}
