package cmd

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Funmitez/hng13-stage1-devops/internal/config"
	"github.com/Funmitez/hng13-stage1-devops/internal/failfast"
	"github.com/Funmitez/hng13-stage1-devops/internal/logger"
)

var initLogs = logger.PackageLogger("init", "🌱 INIT")

var forceInit bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a deployment configuration interactively",
	Long: `Walks through every deployment setting (repository, target host,
app port, remote path) and writes deployctl.yml in the current
directory. The git token is only persisted when you opt in.`,
	Run: runInit,
}

func init() {
	initCmd.Flags().BoolVarP(&forceInit, "force", "f", false, "overwrite an existing deployctl.yml")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) {
	if _, err := os.Stat(config.ConfigFile); err == nil && !forceInit {
		failfast.Failfast(
			fmt.Errorf("%s already exists (use --force to overwrite)", config.ConfigFile),
			failfast.Validation, "Refusing to overwrite configuration")
	}

	reader := bufio.NewReader(os.Stdin)
	cfg, err := config.InteractiveConfigPrompt(reader)
	failfast.Failfast(err, failfast.Validation, "Configuration wizard failed")

	err = cfg.Validate()
	failfast.Failfast(err, failfast.Validation, "Configuration is invalid")

	err = config.Save(cfg, config.ConfigFile)
	failfast.Failfast(err, failfast.Validation, "Failed to save configuration")

	initLogs.Success("Configuration written to %s", config.ConfigFile)
	if cfg.Repository.Token != "" && !cfg.Repository.SaveToken {
		initLogs.Info("Token was not saved. Export DEPLOY_GIT_TOKEN before running deploy.")
	}
}
