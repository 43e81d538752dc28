package inputs

import (
	"math"
	"testing"

	"github.com/iwvelando/lead-budget/internal/budget"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsMatchBaseline(t *testing.T) {
	in := Defaults()

	assert.Equal(t, budget.Inputs{
		Regions:                   13,
		RMFLeadsPerWeek:           15,
		AucklandLeadsPerWeek:      100,
		FranchiseLeadsPerMonth:    5,
		CommercialLeadsPerQuarter: 1,
		GoogleServiceCPL:          10,
		MetaServiceCPL:            8,
		GoogleFranchiseCPL:        15,
		MetaFranchiseCPL:          12,
		LinkedInCPL:               50,
		MonthlyFee:                120,
		RetentionMonths:           24,
		ConversionRate:            0.25,
		GoogleSplit:               0.85,
	}, in)

	r := budget.Compute(in, budget.DefaultConstants())
	assert.Equal(t, 15340.0, r.Leads.TotalService)
	assert.Equal(t, 60.0, r.Leads.Franchise)
	assert.Equal(t, 4.0, r.Leads.Commercial)
	assert.Equal(t, 2880.0, r.Financials.CustomerLTV)
}

func TestFieldTableIsConsistent(t *testing.T) {
	seen := make(map[string]bool)
	for _, f := range Fields() {
		require.False(t, seen[f.Key], "duplicate key %s", f.Key)
		seen[f.Key] = true

		assert.NotEmpty(t, f.Label, f.Key)
		assert.LessOrEqual(t, f.Min, f.Default, f.Key)
		assert.GreaterOrEqual(t, f.Max, f.Default, f.Key)
		assert.Positive(t, f.Step, f.Key)
	}
	assert.Len(t, seen, 14)
}

func TestFieldsReturnsCopy(t *testing.T) {
	table := Fields()
	table[0].Default = 999

	f, ok := Lookup(table[0].Key)
	require.True(t, ok)
	assert.NotEqual(t, 999.0, f.Default)
}

func TestLookup(t *testing.T) {
	f, ok := Lookup("googleSplit")
	require.True(t, ok)
	assert.Equal(t, 0.0, f.Min)
	assert.Equal(t, 1.0, f.Max)

	_, ok = Lookup("bingSplit")
	assert.False(t, ok)
}

func TestClamp(t *testing.T) {
	split, _ := Lookup("googleSplit")
	regions, _ := Lookup("regions")

	tests := []struct {
		name    string
		field   Field
		input   float64
		want    float64
		changed bool
	}{
		{"in range", split, 0.4, 0.4, false},
		{"below minimum", split, -0.5, 0, true},
		{"above maximum", split, 1.5, 1, true},
		{"not a number", split, math.NaN(), 0.85, true},
		{"positive infinity", split, math.Inf(1), 1, true},
		{"negative infinity", split, math.Inf(-1), 0, true},
		{"integer rounded", regions, 12.6, 13, true},
		{"integer below minimum", regions, 0, 1, true},
		{"integer above maximum", regions, 150, 100, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, changed := tt.field.Clamp(tt.input)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.changed, changed)
		})
	}
}

func TestSanitize(t *testing.T) {
	in := Defaults()
	in.Regions = 0
	in.ConversionRate = 1.4
	in.GoogleSplit = math.NaN()
	in.LinkedInCPL = math.Inf(1)

	out, adjustments := Sanitize(in)

	assert.Equal(t, 1, out.Regions)
	assert.Equal(t, 1.0, out.ConversionRate)
	assert.Equal(t, 0.85, out.GoogleSplit)
	assert.Equal(t, 5000.0, out.LinkedInCPL)
	require.Len(t, adjustments, 4)

	reasons := make(map[string]string)
	for _, a := range adjustments {
		reasons[a.Field] = a.Reason
		assert.NotEmpty(t, a.String())
	}
	assert.Equal(t, ReasonBelowMin, reasons["regions"])
	assert.Equal(t, ReasonAboveMax, reasons["conversionRate"])
	assert.Equal(t, ReasonNotANum, reasons["googleSplit"])
	assert.Equal(t, ReasonInfinite, reasons["linkedinCpl"])

	for _, f := range Fields() {
		v := f.Get(out)
		assert.False(t, math.IsNaN(v) || math.IsInf(v, 0), f.Key)
	}
}

func TestSanitizeLeavesValidInputAlone(t *testing.T) {
	out, adjustments := Sanitize(Defaults())
	assert.Empty(t, adjustments)
	assert.Equal(t, Defaults(), out)
}

func TestApply(t *testing.T) {
	out, adjustments, warnings := Apply(Defaults(), map[string]float64{
		"googleSplit":    1,
		"regions":        7.4,
		"conversionRate": -1,
		"tiktokCpl":      3,
	})

	assert.Equal(t, 1.0, out.GoogleSplit)
	assert.Equal(t, 7, out.Regions)
	assert.Equal(t, 0.0, out.ConversionRate)
	assert.Equal(t, 10.0, out.GoogleServiceCPL)

	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "tiktokCpl")

	require.Len(t, adjustments, 2)
	assert.Equal(t, "conversionRate", adjustments[0].Field)
	assert.Equal(t, ReasonBelowMin, adjustments[0].Reason)
	assert.Equal(t, "regions", adjustments[1].Field)
	assert.Equal(t, ReasonRounded, adjustments[1].Reason)
}

func TestParse(t *testing.T) {
	cpl, _ := Lookup("googleServiceCpl")

	tests := []struct {
		name      string
		raw       string
		want      float64
		expectErr bool
	}{
		{"plain number", "12.5", 12.5, false},
		{"currency symbol", "$1,250", 1250, false},
		{"surrounding spaces", "  8 ", 8, false},
		{"percent sign", "85%", 85, false},
		{"empty keeps current", "", 10, true},
		{"text keeps current", "ten", 10, true},
		{"infinity rejected", "Inf", 10, true},
		{"nan rejected", "NaN", 10, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := cpl.Parse(tt.raw, 10)
			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidateAndFormat(t *testing.T) {
	regions, _ := Lookup("regions")
	assert.NoError(t, regions.Validate(13))
	assert.Error(t, regions.Validate(0))
	assert.Error(t, regions.Validate(math.NaN()))
	assert.Equal(t, "13", regions.Format(13))

	split, _ := Lookup("googleSplit")
	assert.Equal(t, "0.85", split.Format(0.85))
}

func TestToMapRoundTrip(t *testing.T) {
	in := Defaults()
	in.MonthlyFee = 99

	m := ToMap(in)
	assert.Len(t, m, len(Fields()))
	assert.Equal(t, 99.0, m["monthlyFee"])

	out, adjustments, warnings := Apply(budget.Inputs{}, m)
	assert.Empty(t, warnings)
	assert.Empty(t, adjustments)
	assert.Equal(t, in, out)
}

func TestLookupIgnoresCase(t *testing.T) {
	f, ok := Lookup("googlesplit")
	require.True(t, ok)
	assert.Equal(t, "googleSplit", f.Key)

	out, _, warnings := Apply(Defaults(), map[string]float64{"linkedincpl": 75})
	assert.Empty(t, warnings)
	assert.Equal(t, 75.0, out.LinkedInCPL)
}
