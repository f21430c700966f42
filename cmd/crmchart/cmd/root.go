package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// Version information (set via ldflags at build time)
var (
	Version = "0.0.1-dev"
	Commit  = "unknown"
)

// CLI flags that override config file values
var (
	cfgFile    string
	logLevel   string
	logFormat  string
	sourceType string
	pretty     bool
)

var rootCmd = &cobra.Command{
	Use:   "crmchart",
	Short: "CRM chart configuration builder",
	Long: `Builds a chart configuration from a CRM chart definition, the metadata
of the entities it queries and its aggregate result rows.

Features:
  - Data descriptions with nested link-entities and implicit categories
  - Concurrent entity metadata resolution from MySQL or Redis
  - Option set colors and labels applied to category points
  - Column, bar and funnel post-processing`,
	Version:       Version,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Config file flag; empty means built-in defaults
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"Path to configuration file")

	// Logging overrides
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"Override log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "",
		"Override log format (json, text)")

	// Metadata source override
	rootCmd.PersistentFlags().StringVar(&sourceType, "source", "",
		"Override metadata source type (none, mysql, redis)")

	// Output overrides
	rootCmd.PersistentFlags().BoolVar(&pretty, "pretty", false,
		"Indent the generated chart config")
}

// GetConfigFile returns the config file path
func GetConfigFile() string {
	return cfgFile
}

// CLIOverrides contains flag values that override config file settings
type CLIOverrides struct {
	LogLevel  string
	LogFormat string
	Source    string
	Pretty    bool
}

// GetCLIOverrides returns the CLI flag override values
func GetCLIOverrides() CLIOverrides {
	return CLIOverrides{
		LogLevel:  logLevel,
		LogFormat: logFormat,
		Source:    sourceType,
		Pretty:    pretty,
	}
}
