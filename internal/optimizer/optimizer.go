// Package optimizer runs single-input goal seeks declared on scenarios. Each
// directive searches one input for the value where the scenario stops
// meeting its budget cap or ROI floor and writes that value back into the
// scenario's overrides.
package optimizer

import (
	"fmt"
	"math"
	"strings"

	"github.com/iwvelando/lead-budget/internal/budget"
	"github.com/iwvelando/lead-budget/internal/config"
	"github.com/iwvelando/lead-budget/internal/inputs"
	"github.com/iwvelando/lead-budget/internal/projection"
	"github.com/iwvelando/lead-budget/pkg/format"
	"github.com/iwvelando/lead-budget/pkg/optimization"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

type Runner struct {
	logger    *zap.Logger
	conf      *config.Configuration
	constants budget.Constants
}

type scenarioTarget struct {
	scenarioIndex int
	scenarioName  string
	cfg           *config.OptimizerConfig
	field         inputs.Field
	minValue      float64
	maxValue      float64
	original      float64
}

type evaluation struct {
	value  float64
	metric float64
	target float64
	kind   string
}

// headroom is positive while the target is met.
func (e evaluation) headroom() float64 {
	if e.kind == config.OptimizerKindROIFloor {
		return e.metric - e.target
	}
	return e.target - e.metric
}

func (e evaluation) feasible() bool {
	return e.headroom() >= 0
}

// Result summarizes optimizer adjustments keyed by scenario name.
type Result struct {
	Summaries map[string][]optimization.Summary
}

// Empty indicates whether any optimizer adjustments were produced.
func (r Result) Empty() bool {
	return len(r.Summaries) == 0
}

// Apply attaches optimizer summaries to the matching projections.
func (r Result) Apply(projections []projection.Projection) {
	if len(r.Summaries) == 0 {
		return
	}
	for i := range projections {
		summaries, ok := r.Summaries[projections[i].Name]
		if !ok {
			continue
		}
		projections[i].Optimizations = append(projections[i].Optimizations, summaries...)
	}
}

// NewRunner constructs a Runner for the provided configuration.
func NewRunner(logger *zap.Logger, conf *config.Configuration) (*Runner, error) {
	if conf == nil {
		return nil, eris.New("optimizer: configuration cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{logger: logger, conf: conf, constants: budget.DefaultConstants()}, nil
}

// Run executes all optimizer directives and mutates the configuration in place.
func (r *Runner) Run() (*Result, error) {
	targets, err := r.collectTargets()
	if err != nil {
		return nil, err
	}

	summaries := make(map[string][]optimization.Summary)
	for _, target := range targets {
		summary := r.optimize(target)
		r.setOverride(target, summary.Value)
		summaries[target.scenarioName] = append(summaries[target.scenarioName], summary)

		r.logger.Info("optimizer adjusted scenario input",
			zap.String("op", "optimizer.Run"),
			zap.String("scenario", target.scenarioName),
			zap.String("field", target.field.Key),
			zap.String("kind", target.cfg.Kind),
			zap.Float64("target", target.cfg.Target),
			zap.Float64("original", summary.Original),
			zap.Float64("optimized", summary.Value),
			zap.Float64("metric", summary.Metric),
			zap.Float64("headroom", summary.Headroom),
			zap.Int("iterations", summary.Iterations),
			zap.Bool("converged", summary.Converged),
		)
	}

	return &Result{Summaries: summaries}, nil
}

func (r *Runner) collectTargets() ([]scenarioTarget, error) {
	var targets []scenarioTarget

	for i := range r.conf.Scenarios {
		scenario := &r.conf.Scenarios[i]
		if !scenario.Active || scenario.Optimizer == nil {
			continue
		}
		if err := scenario.Optimizer.Validate(); err != nil {
			return nil, eris.Wrapf(err, "scenario %s", scenario.Name)
		}
		field, _ := inputs.Lookup(scenario.Optimizer.Field)
		minValue, maxValue := scenario.Optimizer.Bounds(field)

		in, _, _ := inputs.Apply(inputs.Defaults(), scenario.Inputs)
		targets = append(targets, scenarioTarget{
			scenarioIndex: i,
			scenarioName:  scenario.Name,
			cfg:           scenario.Optimizer,
			field:         field,
			minValue:      minValue,
			maxValue:      maxValue,
			original:      field.Get(in),
		})
	}

	return targets, nil
}

// overridesWith copies the scenario overrides with the target field set to
// value. Keys are compared case-insensitively since viper lowercases them.
func (r *Runner) overridesWith(target scenarioTarget, value float64) map[string]float64 {
	current := r.conf.Scenarios[target.scenarioIndex].Inputs
	overrides := make(map[string]float64, len(current)+1)
	for key, v := range current {
		if strings.EqualFold(key, target.field.Key) {
			continue
		}
		overrides[key] = v
	}
	overrides[target.field.Key] = value
	return overrides
}

func (r *Runner) setOverride(target scenarioTarget, value float64) {
	r.conf.Scenarios[target.scenarioIndex].Inputs = r.overridesWith(target, value)
}

func (r *Runner) evaluate(target scenarioTarget, value float64) evaluation {
	in, _, _ := inputs.Apply(inputs.Defaults(), r.overridesWith(target, value))
	result := budget.Compute(in, r.constants)

	eval := evaluation{
		value:  target.field.Get(in),
		target: target.cfg.Target,
		kind:   target.cfg.Kind,
	}
	if target.cfg.Kind == config.OptimizerKindROIFloor {
		eval.metric = result.Financials.ROIPercent
	} else {
		eval.metric = result.Budget.Total
	}
	return eval
}

// optimize looks for the feasibility boundary between the two bounds. When
// only the lower bound meets the target the largest feasible value wins, when
// only the upper bound does the smallest feasible value wins. A fully
// feasible range resolves to the upper bound.
func (r *Runner) optimize(target scenarioTarget) optimization.Summary {
	cfg := target.cfg
	lowerEval := r.evaluate(target, target.minValue)
	upperEval := r.evaluate(target, target.maxValue)

	summary := optimization.Summary{
		Scenario:        target.scenarioName,
		Field:           target.field.Key,
		Kind:            cfg.Kind,
		Target:          cfg.Target,
		Original:        target.original,
		OriginalDisplay: target.field.Format(target.original),
	}

	finish := func(eval evaluation, iterations int) optimization.Summary {
		summary.Value = eval.value
		summary.ValueDisplay = target.field.Format(eval.value)
		summary.Metric = eval.metric
		summary.Headroom = eval.headroom()
		summary.Iterations = iterations
		summary.Converged = eval.feasible()
		if !eval.feasible() {
			summary.Notes = []string{r.unreachableNote(target)}
		}
		return summary
	}

	switch {
	case !lowerEval.feasible() && !upperEval.feasible():
		closest := upperEval
		if lowerEval.headroom() > upperEval.headroom() {
			closest = lowerEval
		}
		return finish(closest, 0)
	case lowerEval.feasible() && upperEval.feasible():
		return finish(upperEval, 0)
	}

	// Exactly one bound is feasible: bisect towards the other.
	feasible, infeasible := lowerEval, upperEval
	if upperEval.feasible() {
		feasible, infeasible = upperEval, lowerEval
	}

	iterations := 0
	for iterations < cfg.MaxIterations && math.Abs(infeasible.value-feasible.value) > cfg.Tolerance {
		mid := feasible.value + (infeasible.value-feasible.value)/2
		evalMid := r.evaluate(target, mid)
		iterations++
		if evalMid.value == feasible.value || evalMid.value == infeasible.value {
			// integer fields snap onto a bound once the gap closes
			break
		}
		if evalMid.feasible() {
			feasible = evalMid
		} else {
			infeasible = evalMid
		}
	}

	return finish(feasible, iterations)
}

func (r *Runner) unreachableNote(target scenarioTarget) string {
	lo := target.field.Format(target.minValue)
	hi := target.field.Format(target.maxValue)
	if target.cfg.Kind == config.OptimizerKindROIFloor {
		return fmt.Sprintf("unable to reach ROI of %g%% with %s between %s and %s",
			target.cfg.Target, target.field.Key, lo, hi)
	}
	return fmt.Sprintf("unable to keep total budget under %s with %s between %s and %s",
		format.Default().Currency(target.cfg.Target), target.field.Key, lo, hi)
}
