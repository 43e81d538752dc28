package main

import (
	"github.com/iwvelando/lead-budget/internal/optimizer"
	"github.com/iwvelando/lead-budget/internal/projection"
	"github.com/iwvelando/lead-budget/pkg/constants"
	"github.com/iwvelando/lead-budget/pkg/output"
	"github.com/iwvelando/lead-budget/pkg/validation"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var calculateCmd = &cobra.Command{
	Use:   "calculate",
	Short: "Calculate budgets for every active scenario",
	Long:  "Runs each active scenario in the configuration through the calculator and prints the results.",
	RunE:  runCalculate,
}

// resolveOutputFormat picks the CLI override, then the config, then pretty.
func resolveOutputFormat() (string, error) {
	outputFormat := conf.Output.Format
	if outputFormatFlag != "" {
		outputFormat = outputFormatFlag
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty
	}
	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		return "", err
	}
	return outputFormat, nil
}

func runCalculate(cmd *cobra.Command, args []string) error {
	outputFormat, err := resolveOutputFormat()
	if err != nil {
		return err
	}

	for _, warning := range conf.ValidateConfiguration() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main.runCalculate"),
		)
	}

	runner, err := optimizer.NewRunner(logger, conf)
	if err != nil {
		return err
	}
	optimized, err := runner.Run()
	if err != nil {
		return eris.Wrap(err, "failed to run optimizer")
	}

	results, err := projection.GetProjections(logger, *conf)
	if err != nil {
		return eris.Wrap(err, "failed to compute projections")
	}
	optimized.Apply(results)

	return output.Render(cmd.OutOrStdout(), outputFormat, results, output.NewOptions(conf.Output))
}
