package cmd

import (
	"strings"

	"github.com/bradjones1/maestro-ng/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var noColor bool

var rootCmd = &cobra.Command{
	Use:   "maestro",
	Short: "Service orchestrator with live per-task status output",
	Long: `Maestro runs plays: named sets of interdependent tasks that start,
stop or check services. Every task owns one terminal row that updates
in place, so a play across many services reads as a single live status
block instead of interleaved log lines.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.config/maestro/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "minimum log level: debug, info, warn or error")
	rootCmd.PersistentFlags().String("log-file", "", "write structured logs to this file")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("logging.file", rootCmd.PersistentFlags().Lookup("log-file"))
}

func initConfig() {
	// Set defaults first so they're available even without a config file
	config.SetDefaults()

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(config.ConfigDir())
		viper.AddConfigPath("$HOME/.config/maestro")
		viper.AddConfigPath(".")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("MAESTRO")
	// Replace dots with underscores for nested keys in env vars
	// e.g., MAESTRO_OUTPUT_COLORS for output.colors
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file if it exists (ignore error if not found)
	_ = viper.ReadInConfig()
}
