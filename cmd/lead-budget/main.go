package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/iwvelando/lead-budget/internal/config"
	"github.com/iwvelando/lead-budget/pkg/constants"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

var (
	configLocation   string
	logLevel         string
	outputFormatFlag string

	conf   *config.Configuration
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "lead-budget",
	Short: "Marketing lead budget calculator",
	Long: "Turns lead targets, cost-per-lead assumptions and customer value " +
		"into annual lead counts, channel budgets and return metrics.",
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadRuntime,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runCalculate,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configLocation, "config", constants.DefaultConfigFile, "path to configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&outputFormatFlag, "output-format", "", "type of output override: pretty, csv, json")

	rootCmd.AddCommand(calculateCmd, fieldsCmd, promptCmd, tuiCmd, serveCmd, versionCmd)
}

// loadRuntime loads the scenario configuration and builds the logger. A
// missing file at the default location falls back to the built-in scenario.
func loadRuntime(cmd *cobra.Command, args []string) error {
	_, statErr := os.Stat(configLocation)
	if errors.Is(statErr, fs.ErrNotExist) && !cmd.Flags().Changed("config") {
		conf = config.DefaultConfiguration()
	} else {
		c, err := config.LoadConfiguration(configLocation)
		if err != nil {
			return eris.Wrapf(err, "failed to load configuration at %s", configLocation)
		}
		conf = c
	}

	l, err := config.NewLogger(conf.Logging, logLevel)
	if err != nil {
		return eris.Wrap(err, "failed to initialize logger")
	}
	logger = l
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if logger != nil {
			logger.Error("command failed",
				zap.String("op", "main"),
				zap.Error(err),
			)
			_ = logger.Sync()
		} else {
			line, _ := json.Marshal(map[string]string{
				"op":    "main",
				"level": "fatal",
				"msg":   "failed to start",
				"error": err.Error(),
			})
			fmt.Fprintln(os.Stderr, string(line))
		}
		os.Exit(1)
	}
}
