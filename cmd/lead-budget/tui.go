package main

import (
	"github.com/iwvelando/lead-budget/internal/inputs"
	"github.com/iwvelando/lead-budget/internal/projection"
	"github.com/iwvelando/lead-budget/internal/tui"
	"github.com/iwvelando/lead-budget/pkg/constants"
	"github.com/iwvelando/lead-budget/pkg/output"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the live calculator",
	Long:  "Edits the inputs of the first active scenario and recalculates the budget on every change.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		start := inputs.Defaults()
		name := constants.DefaultScenarioName
		if active := conf.ActiveScenarios(); len(active) > 0 {
			start, _, _ = inputs.Apply(start, active[0].Inputs)
			name = active[0].Name
		}

		opts := output.NewOptions(conf.Output)
		final, err := tui.Run(start, opts)
		if err != nil {
			return eris.Wrap(err, "tui")
		}

		logger.Debug("calculator closed",
			zap.String("op", "main.tui"),
			zap.String("scenario", name),
		)

		// leave the last calculation on screen
		result := projection.Calculate(logger, name, inputs.ToMap(final))
		return output.PrettyFormat(cmd.OutOrStdout(), []projection.Projection{result}, opts)
	},
}
