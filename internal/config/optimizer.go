package config

import (
	"strings"

	"github.com/iwvelando/lead-budget/internal/inputs"
	"github.com/rotisserie/eris"
)

const (
	OptimizerKindBudgetCap = "budget_cap"
	OptimizerKindROIFloor  = "roi_floor"

	defaultToleranceAmount   = 0.01
	defaultToleranceDiscrete = 1
	defaultMaxIterations     = 50
)

// OptimizerConfig defines a single-input goal seek. The runner searches the
// named input between Min and Max for the boundary where the scenario stops
// meeting Target: a ceiling on the total budget for budget_cap, a floor on
// ROI percent for roi_floor.
type OptimizerConfig struct {
	Field         string   `yaml:"field" json:"field" mapstructure:"field"`
	Kind          string   `yaml:"kind,omitempty" json:"kind,omitempty" mapstructure:"kind"`
	Target        float64  `yaml:"target" json:"target" mapstructure:"target"`
	Min           *float64 `yaml:"min,omitempty" json:"min,omitempty" mapstructure:"min"`
	Max           *float64 `yaml:"max,omitempty" json:"max,omitempty" mapstructure:"max"`
	Tolerance     float64  `yaml:"tolerance,omitempty" json:"tolerance,omitempty" mapstructure:"tolerance"`
	MaxIterations int      `yaml:"maxIterations,omitempty" json:"maxIterations,omitempty" mapstructure:"maxIterations"`
}

// CanonicalOptimizerKind returns the canonical identifier for an optimizer kind.
func CanonicalOptimizerKind(value string) string {
	trimmed := strings.ToLower(strings.TrimSpace(value))
	switch trimmed {
	case "":
		return OptimizerKindBudgetCap
	case "budget_cap", "budget-cap", "budgetcap", "budget":
		return OptimizerKindBudgetCap
	case "roi_floor", "roi-floor", "roifloor", "roi":
		return OptimizerKindROIFloor
	default:
		return trimmed
	}
}

// Normalize ensures defaults and canonical values are applied before validation.
func (o *OptimizerConfig) Normalize() {
	if o == nil {
		return
	}
	o.Kind = CanonicalOptimizerKind(o.Kind)

	o.Field = strings.TrimSpace(o.Field)
	field, ok := inputs.Lookup(o.Field)
	if ok {
		o.Field = field.Key
	}

	if o.Tolerance <= 0 {
		if ok && field.Integer {
			o.Tolerance = defaultToleranceDiscrete
		} else {
			o.Tolerance = defaultToleranceAmount
		}
	}
	if o.MaxIterations <= 0 {
		o.MaxIterations = defaultMaxIterations
	}
}

// Validate returns an error when the optimizer configuration is unsupported.
func (o *OptimizerConfig) Validate() error {
	if o == nil {
		return eris.New("optimizer configuration cannot be nil")
	}

	o.Normalize()

	field, ok := inputs.Lookup(o.Field)
	if !ok {
		return eris.Errorf("optimizer field %q is not an input", o.Field)
	}

	switch o.Kind {
	case OptimizerKindBudgetCap:
		if o.Target <= 0 {
			return eris.Errorf("optimizer budget cap %.2f must be positive", o.Target)
		}
	case OptimizerKindROIFloor:
		// any ROI floor is reachable in principle
	default:
		return eris.Errorf("optimizer kind %q is not supported", o.Kind)
	}

	lo, hi := o.Bounds(field)
	if lo >= hi {
		return eris.Errorf("optimizer minimum %g must be less than maximum %g", lo, hi)
	}
	return nil
}

// Bounds returns the search interval for field: the configured Min and Max
// where given, limited to the field's own bounds.
func (o *OptimizerConfig) Bounds(field inputs.Field) (float64, float64) {
	lo, hi := field.Min, field.Max
	if o.Min != nil && *o.Min > lo {
		lo = *o.Min
	}
	if o.Max != nil && *o.Max < hi {
		hi = *o.Max
	}
	return lo, hi
}
