package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Funmitez/hng13-stage1-devops/internal/logger"
)

var (
	verbose bool
	noColor bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "deployctl",
	Short: "CLI for deploying a Dockerised app to a single host over SSH",
	Long: `deployctl automates single-host deployments end to end.

It provisions the target host (Docker, compose, nginx), clones your
repository, syncs it over, builds and runs it in a container, and puts
an nginx reverse proxy in front on port 80.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			logger.Global().SetLevel(logger.LevelDebug)
		}
		if noColor {
			color.NoColor = true
			logger.SetColorEnabled(false)
			// Spawned tools (git, rsync) honour this themselves.
			os.Setenv("NO_COLOR", "1")
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("🚀 deployctl is ready. Use --help to see available commands.")
	},
}

// Execute runs the root command
func Execute() {
	defer logger.CloseLogFile()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "❌ Error: %v\n", err)
		logger.CloseLogFile()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
}
