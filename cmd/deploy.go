package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Funmitez/hng13-stage1-devops/internal/config"
	"github.com/Funmitez/hng13-stage1-devops/internal/deploy"
	"github.com/Funmitez/hng13-stage1-devops/internal/failfast"
	"github.com/Funmitez/hng13-stage1-devops/internal/git"
	"github.com/Funmitez/hng13-stage1-devops/internal/logger"
	"github.com/Funmitez/hng13-stage1-devops/internal/prereq"
	"github.com/Funmitez/hng13-stage1-devops/internal/sshx"
	"github.com/Funmitez/hng13-stage1-devops/internal/transfer"
)

var deployLogs = logger.PackageLogger("deploy", "🚀 DEPLOY")

var (
	cleanupFlag   bool
	streamMode    bool
	skipProvision bool
	assumeYes     bool
	deployTimeout time.Duration
)

var deployCmd = &cobra.Command{
	Use:   "deploy",
	Short: "Deploy the configured app to the remote host",
	Long: `Runs the full deployment sequence:

1. Check local prerequisites (git, ssh, rsync/scp)
2. Load deployctl.yml (prompting for anything missing)
3. Test SSH reachability
4. Provision the host (Docker, compose, nginx)
5. Clone the repository into a temp workspace
6. Sync it to the remote app directory
7. Build and run it (compose when a compose file exists)
8. Point nginx port 80 at the app port and health-check it

With --cleanup the deployment is torn down instead.

Exit codes: 0 success, 10 missing prerequisite, 20 invalid
configuration, 30 SSH unreachable, 40 remote command failure,
50 deployment failure.`,
	Run: runDeploy,
}

func init() {
	deployCmd.Flags().BoolVar(&cleanupFlag, "cleanup", false, "tear down the deployment instead of deploying")
	deployCmd.Flags().BoolVar(&streamMode, "stream", true, "stream remote command output")
	deployCmd.Flags().BoolVar(&skipProvision, "skip-provision", false, "assume docker and nginx are already installed")
	deployCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "never prompt; fail when configuration is incomplete")
	deployCmd.Flags().DurationVar(&deployTimeout, "timeout", 30*time.Minute, "overall deployment timeout")
	rootCmd.AddCommand(deployCmd)
}

func runDeploy(cmd *cobra.Command, args []string) {
	ctx, cancel := context.WithTimeout(context.Background(), deployTimeout)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
		deployLogs.Warn("Received interrupt signal, cancelling...")
	}()

	// Every run leaves a local transcript, with credentials redacted.
	// Opened before any phase so even a prerequisite failure is logged.
	logger.AddRedactor(git.Redact)
	if path, err := logger.OpenLogFile("."); err != nil {
		deployLogs.Warn("Could not open log file: %v", err)
	} else {
		deployLogs.Info("Logging this run to %s", path)
	}

	// Phase 1: local prerequisites.
	err := prereq.CheckLocalTools()
	failfast.Failfast(err, failfast.Prereq, "Local prerequisite check failed")

	// Phase 2: configuration.
	cfg, err := resolveConfig(assumeYes)
	failfast.Failfast(err, failfast.Validation, "Failed to load configuration")
	err = cfg.Validate()
	failfast.Failfast(err, failfast.Validation, "Configuration validation failed")

	var stream io.Writer
	if streamMode {
		stream = cmd.OutOrStdout()
	}

	// Phase 3: SSH reachability.
	deployLogs.Info("Testing SSH connectivity to %s@%s:%d...", cfg.Server.User, cfg.Server.Host, cfg.Server.Port)
	err = sshx.Ping(cfg.Server)
	failfast.Failfast(err, failfast.SSH, "Remote host is unreachable over SSH")
	deployLogs.Success("SSH connection OK")

	client, err := sshx.Connect(cfg.Server)
	failfast.Failfast(err, failfast.SSH, "Failed to establish SSH connection")
	defer client.Close()

	d := deploy.New(cfg, client, stream, verbose)
	defer d.Close()

	if cleanupFlag {
		err = d.Cleanup(ctx)
		failfast.Failfast(err, failfast.RemoteExec, "Cleanup failed")
		deployLogs.Success("✅ Deployment of %s removed from %s", cfg.App.Name, cfg.Server.Host)
		return
	}

	// Phase 4: host provisioning.
	if skipProvision {
		deployLogs.Info("Skipping host provisioning (--skip-provision)")
	} else {
		err = d.Provision(ctx)
		failfast.Failfast(err, failfast.RemoteExec, "Host provisioning failed")
	}

	// Phase 5: source checkout.
	err = d.FetchSource(ctx)
	failfast.Failfast(err, failfast.Deploy, "Failed to fetch project source")

	// Phase 6: transfer.
	err = transfer.Sync(ctx, cfg.Server, d.CheckoutDir(), cfg.AppDir())
	failfast.Failfast(err, failfast.Deploy, "File transfer failed")

	// Phase 7: build and run.
	err = d.BuildAndRun(ctx)
	failfast.Failfast(err, failfast.Deploy, "Remote build/run failed")

	// Phase 8: reverse proxy + health.
	err = d.ConfigureProxy(ctx)
	failfast.Failfast(err, failfast.Deploy, "nginx configuration failed")

	err = d.HealthCheck(ctx)
	failfast.Failfast(err, failfast.Deploy, "Deployment health check failed")

	deployLogs.Success("✅ %s (%s) deployed to http://%s/", cfg.App.Name, d.Commit(), cfg.Server.Host)
}

// resolveConfig loads deployctl.yml when present and falls back to the
// interactive wizard, then fills any gaps from prompts. With
// nonInteractive set no prompt is ever shown: a missing config file is
// an error and incomplete fields are left for Validate to reject.
func resolveConfig(nonInteractive bool) (*config.DeployConfig, error) {
	cfg, err := config.Load()
	if err == config.ErrNoConfig {
		if nonInteractive {
			return nil, fmt.Errorf("no %s found and --yes given, run `deployctl init` first", config.ConfigFile)
		}

		reader := bufio.NewReader(os.Stdin)
		deployLogs.Info("No %s found, starting interactive setup", config.ConfigFile)
		cfg, err = config.InteractiveConfigPrompt(reader)
		if err != nil {
			return nil, err
		}

		if err := config.Save(cfg, config.ConfigFile); err != nil {
			deployLogs.Warn("Could not save configuration: %v", err)
		}
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}

	if !nonInteractive {
		config.FillMissing(cfg, bufio.NewReader(os.Stdin))
	}
	return cfg, nil
}
