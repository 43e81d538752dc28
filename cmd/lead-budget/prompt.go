package main

import (
	"github.com/charmbracelet/huh"
	"github.com/iwvelando/lead-budget/internal/inputs"
	"github.com/iwvelando/lead-budget/internal/projection"
	"github.com/iwvelando/lead-budget/pkg/output"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var promptAccessible bool

var promptCmd = &cobra.Command{
	Use:   "prompt",
	Short: "Enter every input interactively and print the result",
	RunE: func(cmd *cobra.Command, _ []string) error {
		outputFormat, err := resolveOutputFormat()
		if err != nil {
			return err
		}

		answers := promptDefaults()
		form := newPromptForm(answers).WithAccessible(promptAccessible)
		if err := form.Run(); err != nil {
			return eris.Wrap(err, "prompt")
		}

		overrides, err := promptOverrides(answers)
		if err != nil {
			return err
		}

		result := projection.Calculate(logger, "prompt", overrides)
		return output.Render(cmd.OutOrStdout(), outputFormat, []projection.Projection{result}, output.NewOptions(conf.Output))
	},
}

func init() {
	promptCmd.Flags().BoolVar(&promptAccessible, "accessible", false, "use plain line-by-line prompts")
}

// promptGroups splits the form into pages by unit.
var promptGroups = []struct {
	title string
	units []string
}{
	{"Lead targets", []string{inputs.UnitCount, inputs.UnitLeads}},
	{"Cost per lead", []string{inputs.UnitCurrency}},
	{"Customer value", []string{inputs.UnitMonths, inputs.UnitFraction}},
}

// promptDefaults returns the editable text for each field, seeded from the
// first active scenario.
func promptDefaults() map[string]*string {
	start := inputs.Defaults()
	if active := conf.ActiveScenarios(); len(active) > 0 {
		start, _, _ = inputs.Apply(start, active[0].Inputs)
	}

	answers := make(map[string]*string)
	for _, f := range inputs.Fields() {
		text := f.Format(f.Get(start))
		answers[f.Key] = &text
	}
	return answers
}

func newPromptForm(answers map[string]*string) *huh.Form {
	var groups []*huh.Group
	for _, g := range promptGroups {
		var fields []huh.Field
		for _, f := range inputs.Fields() {
			if !containsUnit(g.units, f.Unit) {
				continue
			}
			fields = append(fields, huh.NewInput().
				Key(f.Key).
				Title(f.Label).
				Description(f.Format(f.Min)+" to "+f.Format(f.Max)).
				Value(answers[f.Key]).
				Validate(validateAnswer(f)))
		}
		groups = append(groups, huh.NewGroup(fields...).Title(g.title))
	}
	return huh.NewForm(groups...)
}

func validateAnswer(f inputs.Field) func(string) error {
	return func(s string) error {
		v, err := f.Parse(s, f.Default)
		if err != nil {
			return err
		}
		return f.Validate(v)
	}
}

func promptOverrides(answers map[string]*string) (map[string]float64, error) {
	overrides := make(map[string]float64, len(answers))
	for key, text := range answers {
		f, ok := inputs.Lookup(key)
		if !ok {
			continue
		}
		v, err := f.Parse(*text, f.Default)
		if err != nil {
			return nil, eris.Wrapf(err, "prompt: %s", key)
		}
		overrides[key] = v
	}
	return overrides, nil
}

func containsUnit(units []string, unit string) bool {
	for _, u := range units {
		if u == unit {
			return true
		}
	}
	return false
}
