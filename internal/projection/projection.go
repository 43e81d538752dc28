// Package projection defines the data structures related to a calculated
// scenario and includes functions for running the configured scenarios.
package projection

import (
	"fmt"

	"github.com/iwvelando/lead-budget/internal/budget"
	"github.com/iwvelando/lead-budget/internal/config"
	"github.com/iwvelando/lead-budget/internal/inputs"
	"github.com/iwvelando/lead-budget/pkg/optimization"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// ErrNoActiveScenarios is returned when a configuration has nothing to run.
var ErrNoActiveScenarios = eris.New("projection: no active scenarios")

// Projection holds the calculated budget for one scenario together with the
// inputs that produced it.
type Projection struct {
	Name          string                 `json:"name"`
	Inputs        budget.Inputs          `json:"inputs"`
	Result        budget.Result          `json:"result"`
	Adjustments   []inputs.Adjustment    `json:"adjustments,omitempty"`
	Warnings      []string               `json:"warnings,omitempty"`
	Optimizations []optimization.Summary `json:"optimizations,omitempty"`
}

// Calculate overlays overrides on the field defaults and runs the engine.
func Calculate(logger *zap.Logger, name string, overrides map[string]float64) Projection {
	if logger == nil {
		logger = zap.NewNop()
	}

	in, adjustments, warnings := inputs.Apply(inputs.Defaults(), overrides)
	for _, adjustment := range adjustments {
		logger.Debug(fmt.Sprintf("scenario %s: %s", name, adjustment),
			zap.String("op", "projection.Calculate"),
		)
	}
	for _, warning := range warnings {
		logger.Warn(fmt.Sprintf("scenario %s: %s", name, warning),
			zap.String("op", "projection.Calculate"),
		)
	}

	return Projection{
		Name:        name,
		Inputs:      in,
		Result:      budget.Compute(in, budget.DefaultConstants()),
		Adjustments: adjustments,
		Warnings:    warnings,
	}
}

// GetProjections processes every active scenario in file order.
func GetProjections(logger *zap.Logger, conf config.Configuration) ([]Projection, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var results []Projection
	for _, scenario := range conf.Scenarios {
		if !scenario.Active {
			logger.Debug(fmt.Sprintf("skipping scenario %s because it is inactive", scenario.Name),
				zap.String("op", "projection.GetProjections"),
			)
			continue
		}
		results = append(results, Calculate(logger, scenario.Name, scenario.Inputs))
	}

	if len(results) == 0 {
		return nil, ErrNoActiveScenarios
	}
	return results, nil
}
