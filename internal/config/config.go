// Package config defines the data structures related to configuration and
// includes functions for loading, validating and defaulting the scenario file.
package config

import (
	"io"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/iwvelando/lead-budget/pkg/constants"
	"github.com/iwvelando/lead-budget/pkg/validation"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for lead-budget.
type Configuration struct {
	Logging   LoggingConfig `yaml:"logging,omitempty" json:"logging,omitempty"`
	Output    OutputConfig  `yaml:"output,omitempty" json:"output,omitempty"`
	Scenarios []Scenario    `yaml:"scenarios" json:"scenarios" validate:"dive"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty" json:"level,omitempty" validate:"omitempty,oneof=debug info warn warning error"`
	Format     string `yaml:"format,omitempty" json:"format,omitempty" validate:"omitempty,oneof=json console"`
	OutputFile string `yaml:"outputFile,omitempty" json:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format and display options
type OutputConfig struct {
	Format          string `yaml:"format,omitempty" json:"format,omitempty" validate:"omitempty,oneof=pretty csv json"`
	Locale          string `yaml:"locale,omitempty" json:"locale,omitempty"`
	CurrencySymbol  string `yaml:"currencySymbol,omitempty" json:"currencySymbol,omitempty"`
	PercentDecimals int    `yaml:"percentDecimals" json:"percentDecimals" validate:"gte=0,lte=6"`
}

// Scenario is a named set of input overrides applied on top of the defaults.
type Scenario struct {
	Name      string             `yaml:"name" json:"name" validate:"required"`
	Active    bool               `yaml:"active" json:"active"`
	Inputs    map[string]float64 `yaml:"inputs,omitempty" json:"inputs,omitempty"`
	Optimizer *OptimizerConfig   `yaml:"optimizer,omitempty" json:"optimizer,omitempty"`
}

// DefaultConfiguration returns the configuration used when no file is given:
// one active scenario with every input at its default.
func DefaultConfiguration() *Configuration {
	return &Configuration{
		Output: OutputConfig{
			Format:          constants.OutputFormatPretty,
			Locale:          constants.DefaultLocale,
			CurrencySymbol:  constants.DefaultCurrencySymbol,
			PercentDecimals: constants.DefaultPercentDecimals,
		},
		Scenarios: []Scenario{
			{Name: constants.DefaultScenarioName, Active: true},
		},
	}
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("output.format", constants.OutputFormatPretty)
	v.SetDefault("output.locale", constants.DefaultLocale)
	v.SetDefault("output.currencySymbol", constants.DefaultCurrencySymbol)
	v.SetDefault("output.percentDecimals", constants.DefaultPercentDecimals)
	return v
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := newViper()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, eris.Wrapf(err, "config: read file %s", configPath)
	}
	return decode(v)
}

// LoadConfigurationFromReader loads YAML configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := newViper()
	v.SetConfigType("yaml")

	if err := v.ReadConfig(r); err != nil {
		return nil, eris.Wrap(err, "config: read data")
	}
	return decode(v)
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}
	if err := configuration.Validate(); err != nil {
		return nil, err
	}
	return &configuration, nil
}

// Validate checks the configuration for errors that make it unusable.
func (c *Configuration) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return eris.Wrap(err, "config: invalid configuration")
	}

	seen := make(map[string]struct{}, len(c.Scenarios))
	for _, scenario := range c.Scenarios {
		if _, dup := seen[scenario.Name]; dup {
			return eris.Errorf("config: duplicate scenario name %q", scenario.Name)
		}
		seen[scenario.Name] = struct{}{}

		if scenario.Optimizer != nil {
			if err := scenario.Optimizer.Validate(); err != nil {
				return eris.Wrapf(err, "config: scenario %s", scenario.Name)
			}
		}
	}
	return nil
}

// ValidateConfiguration performs general validation of the configuration and
// returns non-fatal warnings.
func (c *Configuration) ValidateConfiguration() []string {
	var warnings []string

	active := 0
	for _, scenario := range c.Scenarios {
		if !scenario.Active {
			continue
		}
		active++
		warnings = append(warnings, validation.ValidateScenarioInputs(scenario.Name, scenario.Inputs)...)
	}

	if active == 0 {
		warnings = append(warnings, "no active scenarios configured")
	}
	return warnings
}

// ActiveScenarios returns the scenarios marked active, in file order.
func (c *Configuration) ActiveScenarios() []Scenario {
	var out []Scenario
	for _, scenario := range c.Scenarios {
		if scenario.Active {
			out = append(out, scenario)
		}
	}
	return out
}
