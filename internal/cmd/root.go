package cmd

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Iron-Ham/triage/internal/config"
	"github.com/Iron-Ham/triage/internal/errors"
)

// Version is set at build time via -ldflags.
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:   "triage",
	Short: "Rank a queue of tasks with a scoring service",
	Long: `Triage keeps a local queue of tasks, sends them to a scoring service
for ranking under a selectable strategy, and explains the ranked
recommendations it gets back.

Run 'triage tui' for the interactive interface, or use the subcommands
below from scripts.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and prints any error to stderr.
func Execute() error {
	rootCmd.Version = Version
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(rootCmd.ErrOrStderr(), "Error:", describeError(err))
	}
	return err
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.config/triage/config.yaml)")
	rootCmd.PersistentFlags().String("strategy", "", "ranking strategy for this invocation (smart_balance, fastest_wins, high_impact, deadline_driven)")
	rootCmd.PersistentFlags().String("format", "", "output format: text or json")
	rootCmd.PersistentFlags().String("state-dir", "", "directory holding the queue, last analysis and logs")
}

// bindFlags maps global flags onto configuration keys. A bound flag only
// overrides the config file when it was set on the command line.
func bindFlags() {
	flags := rootCmd.PersistentFlags()
	_ = viper.BindPFlag("config", flags.Lookup("config"))
	_ = viper.BindPFlag("analysis.strategy", flags.Lookup("strategy"))
	_ = viper.BindPFlag("output.format", flags.Lookup("format"))
	_ = viper.BindPFlag("paths.state_dir", flags.Lookup("state-dir"))
}

func initConfig() {
	// A .env file in the working directory may carry TRIAGE_* overrides.
	_ = godotenv.Load()

	// Set defaults first so they're available even without a config file
	config.SetDefaults()
	bindFlags()

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(config.ConfigDir())
		viper.AddConfigPath(".")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("TRIAGE")
	// Replace dots with underscores for nested keys in env vars
	// e.g., TRIAGE_API_BASE_URL for api.base_url
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file if it exists (ignore error if not found)
	_ = viper.ReadInConfig()
}

// describeError turns err into the line shown to the user. Domain errors
// carry their own message; anything else is printed as is.
func describeError(err error) string {
	if errors.IsUserFacing(err) || errors.IsServiceError(err) {
		return errors.UserMessage(err)
	}
	return err.Error()
}
