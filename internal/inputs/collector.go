package inputs

import (
	"fmt"
	"math"
	"sort"

	"github.com/iwvelando/lead-budget/internal/budget"
)

// Adjustment records a value that was moved into range before reaching the
// calculation.
type Adjustment struct {
	Field     string  `json:"field"`
	Requested float64 `json:"requested"`
	Applied   float64 `json:"applied"`
	Reason    string  `json:"reason"`
}

// Adjustment reasons
const (
	ReasonBelowMin = "below minimum"
	ReasonAboveMax = "above maximum"
	ReasonNotANum  = "not a number"
	ReasonInfinite = "not finite"
	ReasonRounded  = "rounded to whole number"
)

func (a Adjustment) String() string {
	switch a.Reason {
	case ReasonNotANum:
		return fmt.Sprintf("%s was %s, using default %v", a.Field, a.Reason, a.Applied)
	case ReasonInfinite:
		return fmt.Sprintf("%s was %s, using %v", a.Field, a.Reason, a.Applied)
	}
	return fmt.Sprintf("%s %v %s, using %v", a.Field, a.Requested, a.Reason, a.Applied)
}

func adjustmentFor(f Field, requested, applied float64) Adjustment {
	reason := ReasonRounded
	switch {
	case math.IsNaN(requested):
		// Non-finite values cannot be encoded as JSON; the reason carries them.
		return Adjustment{Field: f.Key, Applied: applied, Reason: ReasonNotANum}
	case math.IsInf(requested, 0):
		return Adjustment{Field: f.Key, Applied: applied, Reason: ReasonInfinite}
	case requested < f.Min:
		reason = ReasonBelowMin
	case requested > f.Max:
		reason = ReasonAboveMax
	}
	return Adjustment{Field: f.Key, Requested: requested, Applied: applied, Reason: reason}
}

// Sanitize clamps every field of in to its bounds and reports what changed.
// The returned record never holds a non-finite value.
func Sanitize(in budget.Inputs) (budget.Inputs, []Adjustment) {
	var adjustments []Adjustment
	out := in
	for _, f := range fields {
		requested := f.get(in)
		applied, changed := f.Clamp(requested)
		if !changed {
			continue
		}
		f.set(&out, applied)
		adjustments = append(adjustments, adjustmentFor(f, requested, applied))
	}
	return out, adjustments
}

// Apply overlays overrides onto base by field key and sanitizes the result.
// Keys that do not name a field are skipped and reported as warnings.
func Apply(base budget.Inputs, overrides map[string]float64) (budget.Inputs, []Adjustment, []string) {
	var warnings []string
	out := base

	keys := make([]string, 0, len(overrides))
	for key := range overrides {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var adjustments []Adjustment
	for _, key := range keys {
		f, ok := Lookup(key)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("unknown input %q ignored", key))
			continue
		}
		requested := overrides[key]
		applied, changed := f.Clamp(requested)
		if changed {
			adjustments = append(adjustments, adjustmentFor(f, requested, applied))
		}
		f.set(&out, applied)
	}

	// The base record may itself be out of range.
	out, rest := Sanitize(out)
	return out, append(adjustments, rest...), warnings
}

// ToMap returns in keyed by field key.
func ToMap(in budget.Inputs) map[string]float64 {
	out := make(map[string]float64, len(fields))
	for _, f := range fields {
		out[f.Key] = f.get(in)
	}
	return out
}
