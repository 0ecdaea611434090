package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/Funmitez/hng13-stage1-devops/internal/config"
	"github.com/Funmitez/hng13-stage1-devops/internal/deploy"
	"github.com/Funmitez/hng13-stage1-devops/internal/failfast"
	"github.com/Funmitez/hng13-stage1-devops/internal/logger"
	"github.com/Funmitez/hng13-stage1-devops/internal/sshx"
)

var statusLogs = logger.PackageLogger("status", "📊 STATUS")

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the deployment's containers on the remote host",
	Run:   runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	cfg, err := config.Load()
	failfast.Failfast(err, failfast.Validation, "Failed to load configuration")
	err = cfg.Validate()
	failfast.Failfast(err, failfast.Validation, "Configuration validation failed")

	client, err := sshx.Connect(cfg.Server)
	failfast.Failfast(err, failfast.SSH, "Failed to connect to remote host")
	defer client.Close()

	d := deploy.New(cfg, client, nil, verbose)
	containers, err := d.Status(ctx)
	failfast.Failfast(err, failfast.RemoteExec, "Failed to query container status")

	if len(containers) == 0 {
		statusLogs.Warn("No containers found for %s on %s", cfg.App.Name, cfg.Server.Host)
		return
	}

	fmt.Printf("\n🐳 Containers for %s on %s:\n\n", cfg.App.Name, cfg.Server.Host)
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Name", "Image", "State", "Ports", "Status")
	for _, c := range containers {
		table.Append(c.Name, c.Image, c.State, c.Ports, c.Uptime)
	}
	table.Render()
}
