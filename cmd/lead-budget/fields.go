package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/iwvelando/lead-budget/internal/inputs"
	"github.com/iwvelando/lead-budget/pkg/constants"
	"github.com/iwvelando/lead-budget/pkg/format"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var fieldsCmd = &cobra.Command{
	Use:   "fields",
	Short: "List the calculator inputs with defaults and bounds",
	RunE: func(cmd *cobra.Command, _ []string) error {
		outputFormat, err := resolveOutputFormat()
		if err != nil {
			return err
		}

		fields := inputs.Fields()
		if outputFormat == constants.OutputFormatJSON {
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			return eris.Wrap(encoder.Encode(fields), "encode fields")
		}

		formatter := format.Default()
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "KEY\tLABEL\tUNIT\tDEFAULT\tMIN\tMAX\tSTEP") //nolint:errcheck
		for _, f := range fields {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%v\n", //nolint:errcheck
				f.Key, f.Label, f.Unit, displayValue(formatter, f, f.Default),
				displayValue(formatter, f, f.Min), displayValue(formatter, f, f.Max), f.Step)
		}
		return eris.Wrap(w.Flush(), "write fields")
	},
}

// displayValue renders fraction inputs as percentages for the table.
func displayValue(formatter *format.Formatter, f inputs.Field, v float64) string {
	if f.Unit == inputs.UnitFraction {
		return formatter.Fraction(v, 0)
	}
	return f.Format(v)
}
