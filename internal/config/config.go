// Package config loads gatepatch settings from file, environment and
// defaults.
package config

import (
	"fmt"

	"github.com/spf13/viper"

	m "github.com/droidmod/gatepatch/internal/model"
)

// Config holds the tool paths, directories and feature toggles for a
// run. File values come from gatepatch.yaml; every key can be
// overridden with a GATEPATCH_* environment variable.
type Config struct {
	Apktool        string   `mapstructure:"apktool"`
	Apksigner      string   `mapstructure:"apksigner"`
	ToolTimeoutSec int      `mapstructure:"tool_timeout_sec"`
	OutputDir      string   `mapstructure:"output_dir"`
	ReportDir      string   `mapstructure:"report_dir"`
	KeystoreDir    string   `mapstructure:"keystore_dir"`
	ExpandedScope  bool     `mapstructure:"expanded_scope"`
	Rename         bool     `mapstructure:"rename"`
	RenameTarget   string   `mapstructure:"rename_target"`
	KeepTree       bool     `mapstructure:"keep_tree"`
	Enable         []string `mapstructure:"enable"`
	Disable        []string `mapstructure:"disable"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Apktool:        "apktool",
		Apksigner:      "apksigner",
		ToolTimeoutSec: 600,
		ReportDir:      ".gatepatch-reports",
		KeystoreDir:    ".gatepatch-keystore",
	}
}

// Load reads configuration from the given file, or from gatepatch.yaml
// in the working directory when path is empty. A missing default file
// is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()

	defaults := Default()
	v.SetDefault("apktool", defaults.Apktool)
	v.SetDefault("apksigner", defaults.Apksigner)
	v.SetDefault("tool_timeout_sec", defaults.ToolTimeoutSec)
	v.SetDefault("report_dir", defaults.ReportDir)
	v.SetDefault("keystore_dir", defaults.KeystoreDir)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("gatepatch")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("GATEPATCH")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	return cfg, nil
}

// FeatureEnabled resolves a feature's toggle: an explicit disable wins,
// then an explicit enable, then the catalog default. Low-confidence
// features therefore stay off unless named in Enable.
func (c *Config) FeatureEnabled(feature m.Feature) bool {
	for _, name := range c.Disable {
		if name == feature.Name {
			return false
		}
	}

	for _, name := range c.Enable {
		if name == feature.Name {
			return true
		}
	}

	return feature.Default
}

// EnabledFeatures filters a catalog down to the enabled features,
// preserving catalog order.
func (c *Config) EnabledFeatures(catalog []m.Feature) []m.Feature {
	var enabled []m.Feature

	for _, feature := range catalog {
		if c.FeatureEnabled(feature) {
			enabled = append(enabled, feature)
		}
	}

	return enabled
}
