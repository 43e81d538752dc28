// Package inputs describes the calculator's editable fields and turns raw,
// possibly out-of-range user input into a bounded budget.Inputs record.
package inputs

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/iwvelando/lead-budget/internal/budget"
	"github.com/iwvelando/lead-budget/pkg/mathutil"
)

// Field describes one editable input: its seed value, valid bounds and how to
// read and write it on a budget.Inputs.
type Field struct {
	Key     string  `json:"key" yaml:"key"`
	Label   string  `json:"label" yaml:"label"`
	Unit    string  `json:"unit" yaml:"unit"`
	Default float64 `json:"default" yaml:"default"`
	Min     float64 `json:"min" yaml:"min"`
	Max     float64 `json:"max" yaml:"max"`
	Step    float64 `json:"step" yaml:"step"`
	Integer bool    `json:"integer" yaml:"integer"`

	get func(budget.Inputs) float64
	set func(*budget.Inputs, float64)
}

// Units
const (
	UnitCount    = "count"
	UnitLeads    = "leads"
	UnitCurrency = "currency"
	UnitMonths   = "months"
	UnitFraction = "fraction"
)

var fields = []Field{
	{
		Key: "regions", Label: "Regions", Unit: UnitCount,
		Default: 13, Min: 1, Max: 100, Step: 1, Integer: true,
		get: func(in budget.Inputs) float64 { return float64(in.Regions) },
		set: func(in *budget.Inputs, v float64) { in.Regions = int(math.Round(v)) },
	},
	{
		Key: "rmfLeadsPerWeek", Label: "RMF leads per region / week", Unit: UnitLeads,
		Default: 15, Min: 0, Max: 1000, Step: 1,
		get: func(in budget.Inputs) float64 { return in.RMFLeadsPerWeek },
		set: func(in *budget.Inputs, v float64) { in.RMFLeadsPerWeek = v },
	},
	{
		Key: "aucklandLeadsPerWeek", Label: "Auckland leads / week", Unit: UnitLeads,
		Default: 100, Min: 0, Max: 5000, Step: 1,
		get: func(in budget.Inputs) float64 { return in.AucklandLeadsPerWeek },
		set: func(in *budget.Inputs, v float64) { in.AucklandLeadsPerWeek = v },
	},
	{
		Key: "franchiseLeadsPerMonth", Label: "Franchise leads / month", Unit: UnitLeads,
		Default: 5, Min: 0, Max: 500, Step: 1,
		get: func(in budget.Inputs) float64 { return in.FranchiseLeadsPerMonth },
		set: func(in *budget.Inputs, v float64) { in.FranchiseLeadsPerMonth = v },
	},
	{
		Key: "commercialLeadsPerQuarter", Label: "Commercial leads / quarter", Unit: UnitLeads,
		Default: 1, Min: 0, Max: 500, Step: 1,
		get: func(in budget.Inputs) float64 { return in.CommercialLeadsPerQuarter },
		set: func(in *budget.Inputs, v float64) { in.CommercialLeadsPerQuarter = v },
	},
	{
		Key: "googleServiceCpl", Label: "Google CPL (service)", Unit: UnitCurrency,
		Default: 10, Min: 0.5, Max: 1000, Step: 0.5,
		get: func(in budget.Inputs) float64 { return in.GoogleServiceCPL },
		set: func(in *budget.Inputs, v float64) { in.GoogleServiceCPL = v },
	},
	{
		Key: "metaServiceCpl", Label: "Meta CPL (service)", Unit: UnitCurrency,
		Default: 8, Min: 0.5, Max: 1000, Step: 0.5,
		get: func(in budget.Inputs) float64 { return in.MetaServiceCPL },
		set: func(in *budget.Inputs, v float64) { in.MetaServiceCPL = v },
	},
	{
		Key: "googleFranchiseCpl", Label: "Google CPL (franchise)", Unit: UnitCurrency,
		Default: 15, Min: 0.5, Max: 1000, Step: 0.5,
		get: func(in budget.Inputs) float64 { return in.GoogleFranchiseCPL },
		set: func(in *budget.Inputs, v float64) { in.GoogleFranchiseCPL = v },
	},
	{
		Key: "metaFranchiseCpl", Label: "Meta CPL (franchise)", Unit: UnitCurrency,
		Default: 12, Min: 0.5, Max: 1000, Step: 0.5,
		get: func(in budget.Inputs) float64 { return in.MetaFranchiseCPL },
		set: func(in *budget.Inputs, v float64) { in.MetaFranchiseCPL = v },
	},
	{
		Key: "linkedinCpl", Label: "LinkedIn CPL (commercial)", Unit: UnitCurrency,
		Default: 50, Min: 0.5, Max: 5000, Step: 0.5,
		get: func(in budget.Inputs) float64 { return in.LinkedInCPL },
		set: func(in *budget.Inputs, v float64) { in.LinkedInCPL = v },
	},
	{
		Key: "monthlyFee", Label: "Average monthly fee", Unit: UnitCurrency,
		Default: 120, Min: 0, Max: 10000, Step: 1,
		get: func(in budget.Inputs) float64 { return in.MonthlyFee },
		set: func(in *budget.Inputs, v float64) { in.MonthlyFee = v },
	},
	{
		Key: "retentionMonths", Label: "Average retention", Unit: UnitMonths,
		Default: 24, Min: 0, Max: 240, Step: 1,
		get: func(in budget.Inputs) float64 { return in.RetentionMonths },
		set: func(in *budget.Inputs, v float64) { in.RetentionMonths = v },
	},
	{
		Key: "conversionRate", Label: "Lead to customer conversion", Unit: UnitFraction,
		Default: 0.25, Min: 0, Max: 1, Step: 0.01,
		get: func(in budget.Inputs) float64 { return in.ConversionRate },
		set: func(in *budget.Inputs, v float64) { in.ConversionRate = v },
	},
	{
		Key: "googleSplit", Label: "Google share of service leads", Unit: UnitFraction,
		Default: 0.85, Min: 0, Max: 1, Step: 0.01,
		get: func(in budget.Inputs) float64 { return in.GoogleSplit },
		set: func(in *budget.Inputs, v float64) { in.GoogleSplit = v },
	},
}

// Fields returns the ordered field table. The returned slice is a copy.
func Fields() []Field {
	out := make([]Field, len(fields))
	copy(out, fields)
	return out
}

// Lookup returns the field with the given key. Keys match case-insensitively
// because viper lowercases map keys read from config files.
func Lookup(key string) (Field, bool) {
	for _, f := range fields {
		if strings.EqualFold(f.Key, key) {
			return f, true
		}
	}
	return Field{}, false
}

// Defaults returns an Inputs record seeded from the field table.
func Defaults() budget.Inputs {
	var in budget.Inputs
	for _, f := range fields {
		f.set(&in, f.Default)
	}
	return in
}

// Get reads the field's value from in.
func (f Field) Get(in budget.Inputs) float64 {
	return f.get(in)
}

// Set writes v to the field on in without clamping.
func (f Field) Set(in *budget.Inputs, v float64) {
	f.set(in, v)
}

// Clamp bounds v to the field's range. NaN becomes the default, infinities
// become the nearest bound and integer fields are rounded. The boolean reports
// whether v was changed.
func (f Field) Clamp(v float64) (float64, bool) {
	if math.IsNaN(v) {
		return f.Default, true
	}
	applied := mathutil.Clamp(v, f.Min, f.Max)
	if f.Integer {
		applied = math.Round(applied)
	}
	return applied, applied != v
}

// Parse converts raw text into a value for the field. Currency symbols,
// percent signs and grouping commas are ignored. When the text is not a
// number the current value is returned along with the parse error.
func (f Field) Parse(raw string, current float64) (float64, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "$")
	cleaned = strings.TrimSuffix(cleaned, "%")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return current, fmt.Errorf("%s: value is required", f.Key)
	}

	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return current, fmt.Errorf("%s: %q is not a number", f.Key, raw)
	}
	if !mathutil.IsFinite(v) {
		return current, fmt.Errorf("%s: %q is not a finite number", f.Key, raw)
	}
	return v, nil
}

// Format renders the field's value for editing.
func (f Field) Format(v float64) string {
	if f.Integer {
		return strconv.FormatFloat(math.Round(v), 'f', 0, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Validate reports an error when v is outside the field's bounds.
func (f Field) Validate(v float64) error {
	if !mathutil.IsFinite(v) {
		return fmt.Errorf("%s must be a finite number", f.Label)
	}
	if v < f.Min || v > f.Max {
		return fmt.Errorf("%s must be between %s and %s", f.Label, f.Format(f.Min), f.Format(f.Max))
	}
	return nil
}
