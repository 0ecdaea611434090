package cmd

import (
	"github.com/spf13/cobra"
)

// cleanupCmd is sugar for `deploy --cleanup`.
var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Tear down the deployment on the remote host",
	Long: `Stops and removes the app container(s), removes the built image,
removes the nginx site and the remote app directory. Equivalent to
'deployctl deploy --cleanup'.`,
	Run: func(cmd *cobra.Command, args []string) {
		cleanupFlag = true
		runDeploy(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(cleanupCmd)
}
