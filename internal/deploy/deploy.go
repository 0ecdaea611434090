package deploy

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/Funmitez/hng13-stage1-devops/internal/config"
	"github.com/Funmitez/hng13-stage1-devops/internal/git"
	"github.com/Funmitez/hng13-stage1-devops/internal/logger"
	"github.com/Funmitez/hng13-stage1-devops/internal/nginx"
	"github.com/Funmitez/hng13-stage1-devops/internal/provision"
)

var dlog = logger.PackageLogger("deploy", "🚀 DEPLOY")

// envFileName is the name the forwarded env file gets inside the
// synced project, referenced by docker run/compose on the host.
const envFileName = ".deploy.env"

// Deployer drives one deployment (or teardown) end to end.
type Deployer struct {
	cfg     *config.DeployConfig
	runner  provision.Runner
	stream  io.Writer
	verbose bool

	workDir string // local temp checkout
	commit  string // short HEAD hash once the source is fetched
}

func New(cfg *config.DeployConfig, runner provision.Runner, stream io.Writer, verbose bool) *Deployer {
	return &Deployer{
		cfg:     cfg,
		runner:  runner,
		stream:  stream,
		verbose: verbose,
	}
}

// Provision brings the remote host to a deployable state.
func (d *Deployer) Provision(ctx context.Context) error {
	pm, err := provision.PackageManagerFactory(ctx, d.runner, d.stream)
	if err != nil {
		return err
	}

	prov := provision.New(d.runner, pm, false, d.verbose)
	if err := prov.VerifyPrerequisites(ctx, d.stream); err != nil {
		return err
	}
	if err := prov.InstallPackages(ctx, d.stream); err != nil {
		return err
	}
	if err := prov.VerifyInstallation(ctx, d.stream); err != nil {
		return err
	}
	return prov.SetupAppDirectory(ctx, d.cfg.AppDir(), d.stream)
}

// FetchSource clones the repository into a fresh local temp directory
// and stages the optional env file alongside it.
func (d *Deployer) FetchSource(ctx context.Context) error {
	workDir, err := os.MkdirTemp("", "deployctl-*")
	if err != nil {
		return fmt.Errorf("failed to create temp workspace: %w", err)
	}
	d.workDir = workDir

	repo := d.cfg.Repository
	checkout := filepath.Join(workDir, d.cfg.App.Name)
	if err := git.Clone(ctx, repo.URL, repo.Token, repo.Branch, checkout); err != nil {
		return err
	}

	commit, err := git.HeadCommit(checkout)
	if err != nil {
		return fmt.Errorf("failed to resolve HEAD commit: %w", err)
	}
	d.commit = commit
	dlog.Info("Deploying %s@%s (%s)", d.cfg.App.Name, repo.Branch, commit)

	if d.cfg.App.EnvFile != "" {
		if err := d.stageEnvFile(checkout); err != nil {
			return err
		}
	}

	return nil
}

// stageEnvFile validates the operator's env file and copies it into
// the checkout so the transfer picks it up.
func (d *Deployer) stageEnvFile(checkout string) error {
	path := config.ExpandHome(d.cfg.App.EnvFile)
	vars, err := godotenv.Read(path)
	if err != nil {
		return fmt.Errorf("failed to read env file %s: %w", path, err)
	}
	dlog.Info("Forwarding %d environment variables from %s", len(vars), path)

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read env file %s: %w", path, err)
	}
	dest := filepath.Join(checkout, envFileName)
	if err := os.WriteFile(dest, data, 0o600); err != nil {
		return fmt.Errorf("failed to stage env file: %w", err)
	}
	return nil
}

// CheckoutDir returns the local checkout path; valid after FetchSource.
func (d *Deployer) CheckoutDir() string {
	if d.workDir == "" {
		return ""
	}
	return filepath.Join(d.workDir, d.cfg.App.Name)
}

// Commit returns the deployed short commit hash; valid after
// FetchSource.
func (d *Deployer) Commit() string {
	return d.commit
}

// ConfigureProxy writes and activates the nginx reverse proxy site.
func (d *Deployer) ConfigureProxy(ctx context.Context) error {
	configurator := nginx.NewConfigurator(d.runner)
	return configurator.Apply(ctx, nginx.SiteConfig{
		AppName:    d.cfg.App.Name,
		ServerName: d.cfg.App.Domain,
		AppPort:    d.cfg.App.Port,
	}, d.stream)
}

// Close removes the local temp workspace.
func (d *Deployer) Close() {
	if d.workDir == "" {
		return
	}
	if err := os.RemoveAll(d.workDir); err != nil {
		dlog.Warn("Failed to remove temp workspace %s: %v", d.workDir, err)
	}
	d.workDir = ""
}
