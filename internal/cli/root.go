// Package cli wires the claimlens commands: document readiness checks,
// index lifecycle operations, and fraud risk assessment.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	verbose bool
	asJSON  bool
	dbPath  string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "claimlens",
	Short: "ClaimLens - claims intake decisioning and document retrieval",
	Long: `ClaimLens evaluates insurance claim submissions at intake:

- Decides whether a claim's uploaded documents are sufficient to index
- Builds and manages time-bounded retrieval indexes over claim documents
- Scores fraud risk from claim history, submission timing, network
  connections, and claim attributes
- Validates submissions for duplicates and policy-timing issues

Scores are advisory. ClaimLens routes claims to the right review queue;
it does not approve or deny anything.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Display the version number and build information for ClaimLens.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("claimlens v0.1.0")
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.claimlens/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&asJSON, "json", false, "emit JSON instead of text")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "claims database path (default from config)")

	// Bind flags to viper
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("store.path", rootCmd.PersistentFlags().Lookup("db"))

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		viper.AddConfigPath(home + "/.claimlens")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// Read in environment variables that match CLAIMLENS_*
	viper.SetEnvPrefix("CLAIMLENS")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}
