package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/iwvelando/lead-budget/internal/config"
	"github.com/iwvelando/lead-budget/internal/projection"
)

func testProjections() []projection.Projection {
	return []projection.Projection{
		projection.Calculate(nil, "baseline", nil),
		projection.Calculate(nil, "all google", map[string]float64{"googleSplit": 1, "regions": 0}),
	}
}

func TestPrettyFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := PrettyFormat(&buf, testProjections(), DefaultOptions()); err != nil {
		t.Fatalf("PrettyFormat() error = %v", err)
	}
	output := buf.String()

	expected := []string{
		"--- Results for scenario baseline ---",
		"--- Results for scenario all google ---",
		SectionLeads,
		SectionBudget,
		"15,404",
		"$149,844",
		"$11,044,800",
		"7,270.9%",
		"$39.07",
		"73.7:1",
		"$9.73",
		"note: regions 0 below minimum, using 1",
	}
	for _, want := range expected {
		if !strings.Contains(output, want) {
			t.Errorf("PrettyFormat output missing %q", want)
		}
	}
}

func TestPrettyFormatWarnings(t *testing.T) {
	results := []projection.Projection{
		projection.Calculate(nil, "typo", map[string]float64{"googelSplit": 1}),
	}

	var buf bytes.Buffer
	if err := PrettyFormat(&buf, results, DefaultOptions()); err != nil {
		t.Fatalf("PrettyFormat() error = %v", err)
	}
	if !strings.Contains(buf.String(), "warning: unknown input \"googelSplit\" ignored") {
		t.Errorf("PrettyFormat missing warning, got:\n%s", buf.String())
	}
}

func TestCsvFormat(t *testing.T) {
	csvText, err := CsvString(testProjections())
	if err != nil {
		t.Fatalf("CsvString() error = %v", err)
	}
	lines := strings.Split(strings.TrimSpace(csvText), "\n")

	if lines[0] != "metric,baseline,all google" {
		t.Errorf("unexpected header %q", lines[0])
	}
	if len(lines) != len(Lines(testProjections()[0].Result))+1 {
		t.Errorf("expected one row per metric, got %d rows", len(lines)-1)
	}

	tests := []struct {
		prefix   string
		expected string
	}{
		{"leads.total,", "leads.total,15404.00,"},
		{"budget.total,", `budget.total,"149,844.00",`},
		{"financials.ltvToCac,", "financials.ltvToCac,73.71,"},
	}
	for _, tt := range tests {
		found := false
		for _, line := range lines {
			if strings.HasPrefix(line, tt.prefix) {
				found = true
				if !strings.HasPrefix(line, tt.expected) {
					t.Errorf("row = %q, expected prefix %q", line, tt.expected)
				}
			}
		}
		if !found {
			t.Errorf("missing row %s", tt.prefix)
		}
	}
}

func TestCsvFormatQuotesNames(t *testing.T) {
	results := []projection.Projection{projection.Calculate(nil, `north, "east"`, nil)}

	csvText, err := CsvString(results)
	if err != nil {
		t.Fatalf("CsvString() error = %v", err)
	}
	if !strings.HasPrefix(csvText, `metric,"north, ""east"""`) {
		t.Errorf("scenario name not quoted: %q", strings.SplitN(csvText, "\n", 2)[0])
	}
}

func TestCsvFormatEmpty(t *testing.T) {
	csvText, err := CsvString(nil)
	if err != nil {
		t.Fatalf("CsvString() error = %v", err)
	}
	if csvText != "metric\n" {
		t.Errorf("CsvString(nil) = %q, expected header only", csvText)
	}
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := JSONFormat(&buf, testProjections()); err != nil {
		t.Fatalf("JSONFormat() error = %v", err)
	}

	var decoded []projection.Projection
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(decoded) != 2 || decoded[1].Name != "all google" {
		t.Fatalf("unexpected decoded projections: %+v", decoded)
	}
	if decoded[1].Result.Budget.MetaService != 0 {
		t.Errorf("expected no meta service spend, got %v", decoded[1].Result.Budget.MetaService)
	}
	if len(decoded[1].Adjustments) != 1 {
		t.Errorf("expected adjustment to survive encoding, got %v", decoded[1].Adjustments)
	}
}

func TestRender(t *testing.T) {
	tests := []struct {
		format    string
		contains  string
		expectErr bool
	}{
		{"pretty", "--- Results for scenario baseline ---", false},
		{"csv", "metric,baseline", false},
		{"json", `"name": "baseline"`, false},
		{"xml", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var buf bytes.Buffer
			err := Render(&buf, tt.format, testProjections()[:1], DefaultOptions())
			if tt.expectErr {
				if err == nil {
					t.Errorf("Render(%s) expected error but got none", tt.format)
				}
				return
			}
			if err != nil {
				t.Fatalf("Render(%s) error = %v", tt.format, err)
			}
			if !strings.Contains(buf.String(), tt.contains) {
				t.Errorf("Render(%s) missing %q", tt.format, tt.contains)
			}
		})
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestPrettyFormatWriteError(t *testing.T) {
	if err := PrettyFormat(failingWriter{}, testProjections(), DefaultOptions()); err == nil {
		t.Errorf("PrettyFormat() expected write error")
	}
	if err := CsvFormat(failingWriter{}, testProjections()); err == nil {
		t.Errorf("CsvFormat() expected write error")
	}
}

func TestDisplayAndOptions(t *testing.T) {
	opts := NewOptions(config.OutputConfig{Locale: "en-NZ", CurrencySymbol: "NZ$", PercentDecimals: 0})
	display := opts.Display(testProjections()[0].Result)

	tests := []struct {
		key      string
		expected string
	}{
		{"budget.total", "NZ$149,844"},
		{"budget.monthly", "NZ$12,487"},
		{"financials.roiPercent", "7,271%"},
		{"financials.blendedCpl", "NZ$9.73"},
		{"leads.commercial", "4"},
	}
	for _, tt := range tests {
		if got := display[tt.key]; got != tt.expected {
			t.Errorf("Display[%s] = %q, expected %q", tt.key, got, tt.expected)
		}
	}
	if len(display) != len(Lines(testProjections()[0].Result)) {
		t.Errorf("expected one display entry per line")
	}
}

func TestNewOptionsDefaults(t *testing.T) {
	opts := NewOptions(config.OutputConfig{})
	if opts.Formatter == nil {
		t.Fatalf("expected default formatter")
	}
	if got := opts.Value(Line{Kind: KindCurrency, Value: 1000}); got != "$1,000" {
		t.Errorf("Value() = %q, expected $1,000", got)
	}
}
