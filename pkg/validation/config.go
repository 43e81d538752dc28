package validation

import (
	"fmt"
	"math"
	"sort"

	"github.com/iwvelando/lead-budget/internal/inputs"
)

// ValidateInputValue checks a single override against its field and returns a
// warning when the value will be changed before calculation.
func ValidateInputValue(key string, value float64) (string, bool) {
	field, ok := inputs.Lookup(key)
	if !ok {
		return fmt.Sprintf("unknown input '%s' will be ignored", key), true
	}

	applied, changed := field.Clamp(value)
	if !changed {
		return "", false
	}
	if math.IsNaN(value) {
		return fmt.Sprintf("input '%s' is not a number - default %s will be used",
			field.Key, field.Format(applied)), true
	}
	return fmt.Sprintf("input '%s' value %v is outside %s..%s - %s will be used",
		field.Key, value, field.Format(field.Min), field.Format(field.Max), field.Format(applied)), true
}

// ValidateScenarioInputs checks every override of a scenario and returns
// warnings in key order.
func ValidateScenarioInputs(scenarioName string, overrides map[string]float64) []string {
	keys := make([]string, 0, len(overrides))
	for key := range overrides {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var warnings []string
	for _, key := range keys {
		if warning, ok := ValidateInputValue(key, overrides[key]); ok {
			warnings = append(warnings, fmt.Sprintf("Scenario '%s': %s", scenarioName, warning))
		}
	}
	return warnings
}
