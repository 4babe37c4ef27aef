// Package config defines the data structures related to configuration and the
// business plan input, and includes functions for loading and validating them.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/iwvelando/plan-autofill/pkg/constants"
	"github.com/spf13/viper"
)

// Configuration holds all application configuration for plan-autofill.
type Configuration struct {
	Logging   LoggingConfig   `mapstructure:"logging" yaml:"logging,omitempty"`
	Output    OutputConfig    `mapstructure:"output" yaml:"output,omitempty"`
	Narrative NarrativeConfig `mapstructure:"narrative" yaml:"narrative,omitempty"`
	Policy    Policy          `mapstructure:"policy" yaml:"policy,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `mapstructure:"level" yaml:"level,omitempty"`           // debug, info, warn, error
	Format     string `mapstructure:"format" yaml:"format,omitempty"`         // json, console
	OutputFile string `mapstructure:"outputFile" yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format and destination options
type OutputConfig struct {
	Format         string `mapstructure:"format" yaml:"format,omitempty"` // pretty, csv
	Directory      string `mapstructure:"directory" yaml:"directory,omitempty"`
	WorkbookName   string `mapstructure:"workbookName" yaml:"workbookName,omitempty"`
	DocumentName   string `mapstructure:"documentName" yaml:"documentName,omitempty"`
	DocumentFormat string `mapstructure:"documentFormat" yaml:"documentFormat,omitempty"` // html, markdown
}

// NarrativeConfig controls optional language-model drafting of empty
// narrative sections.
type NarrativeConfig struct {
	Enabled   bool          `mapstructure:"enabled" yaml:"enabled,omitempty"`
	Model     string        `mapstructure:"model" yaml:"model,omitempty"`
	Timeout   time.Duration `mapstructure:"timeout" yaml:"timeout,omitempty"`
	Language  string        `mapstructure:"language" yaml:"language,omitempty"`
	APIKeyEnv string        `mapstructure:"apiKeyEnv" yaml:"apiKeyEnv,omitempty"`
}

// DefaultConfiguration returns the configuration used when no file is given.
func DefaultConfiguration() *Configuration {
	return &Configuration{
		Output: OutputConfig{
			Format:         constants.OutputFormatPretty,
			Directory:      ".",
			WorkbookName:   constants.DefaultWorkbookName,
			DocumentName:   constants.DefaultDocumentName,
			DocumentFormat: constants.DocumentFormatHTML,
		},
		Narrative: DefaultNarrativeConfig(),
		Policy:    DefaultPolicy(),
	}
}

// DefaultNarrativeConfig returns narrative drafting settings with generation disabled.
func DefaultNarrativeConfig() NarrativeConfig {
	return NarrativeConfig{
		Model:     constants.DefaultNarrativeModel,
		Timeout:   constants.DefaultNarrativeTimeoutSeconds * time.Second,
		Language:  constants.DefaultNarrativeLanguage,
		APIKeyEnv: constants.DefaultNarrativeAPIKeyEnv,
	}
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there on top of the defaults. A missing file yields the
// defaults.
func LoadConfiguration(configPath string) (*Configuration, error) {
	configuration := DefaultConfiguration()
	if configPath == "" {
		return configuration, nil
	}

	if _, err := os.Stat(configPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return configuration, nil
		}
		return nil, fmt.Errorf("error reading config file, %w", err)
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yml")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %w", err)
	}

	if err := v.Unmarshal(configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}

	configuration.normalize()
	return configuration, nil
}

func (conf *Configuration) normalize() {
	defaults := DefaultConfiguration()
	if conf.Output.Format == "" {
		conf.Output.Format = defaults.Output.Format
	}
	if conf.Output.Directory == "" {
		conf.Output.Directory = defaults.Output.Directory
	}
	if conf.Output.WorkbookName == "" {
		conf.Output.WorkbookName = defaults.Output.WorkbookName
	}
	if conf.Output.DocumentName == "" {
		conf.Output.DocumentName = defaults.Output.DocumentName
	}
	if conf.Output.DocumentFormat == "" {
		conf.Output.DocumentFormat = defaults.Output.DocumentFormat
	}
	conf.Narrative.Normalize()
	conf.Policy.Normalize()
}

// Normalize fills unset narrative settings with their defaults.
func (n *NarrativeConfig) Normalize() {
	defaults := DefaultNarrativeConfig()
	if n.Model == "" {
		n.Model = defaults.Model
	}
	if n.Timeout <= 0 {
		n.Timeout = defaults.Timeout
	}
	if n.Language == "" {
		n.Language = defaults.Language
	}
	if n.APIKeyEnv == "" {
		n.APIKeyEnv = defaults.APIKeyEnv
	}
}
