package provision

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/Funmitez/hng13-stage1-devops/internal/logger"
)

var plog = logger.PackageLogger("provision", "🔧 PROVISION")

// Provisioner installs and verifies the toolchain a deployment needs
// on the remote host: Docker, the compose plugin, and nginx.
type Provisioner struct {
	runner       Runner
	pkgManager   PackageManager
	forceInstall bool
	verbose      bool
}

func New(runner Runner, pm PackageManager, forceInstall, verbose bool) *Provisioner {
	return &Provisioner{
		runner:       runner,
		pkgManager:   pm,
		forceInstall: forceInstall,
		verbose:      verbose,
	}
}

// VerifyPrerequisites runs basic host sanity checks before installing
// anything.
func (p *Provisioner) VerifyPrerequisites(ctx context.Context, stream io.Writer) error {
	plog.Info("Verifying remote host prerequisites")

	checks := []struct {
		command string
		message string
	}{
		{"uname -a", "system information"},
		{"df -h /", "disk space"},
		{"free -m", "memory"},
		{"cat /etc/os-release", "OS release"},
	}

	for _, check := range checks {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			output, err := p.runner.ExecuteCommand(ctx, check.command, stream)
			if err != nil {
				return fmt.Errorf("failed to check %s: %w", check.message, err)
			}
			if p.verbose {
				plog.Debug("%s:\n%s", check.message, strings.TrimSpace(output))
			}
		}
	}

	plog.Success("Host prerequisite checks completed")
	return nil
}

// InstallPackages brings the host to a deployable state.
func (p *Provisioner) InstallPackages(ctx context.Context, stream io.Writer) error {
	if err := p.pkgManager.Update(ctx, stream); err != nil {
		logToStream(stream, "Failed to update package lists", color.FgRed)
		return fmt.Errorf("package update failed: %w", err)
	}

	basePkgs := []string{"curl", "git", "ca-certificates"}
	if err := p.installBasePackages(ctx, basePkgs, stream); err != nil {
		return err
	}

	if err := p.installDocker(ctx, stream); err != nil {
		return err
	}

	if err := p.installCompose(ctx, stream); err != nil {
		return err
	}

	if err := p.installNginx(ctx, stream); err != nil {
		return err
	}

	return nil
}

func (p *Provisioner) installBasePackages(ctx context.Context, packages []string, stream io.Writer) error {
	logToStream(stream, "Installing base packages...", color.FgYellow)
	if err := p.pkgManager.Install(ctx, packages, stream); err != nil {
		return fmt.Errorf("base package installation failed: %w", err)
	}
	logToStream(stream, "✓ Base packages installed", color.FgGreen)
	return nil
}

func (p *Provisioner) installDocker(ctx context.Context, stream io.Writer) error {
	logToStream(stream, "Checking Docker installation...", color.FgCyan)

	if p.runner.CommandExists(ctx, "docker") && !p.forceInstall {
		logToStream(stream, "✓ Docker already installed", color.FgGreen)
		return nil
	}

	logToStream(stream, "Installing Docker...", color.FgYellow)
	if _, err := p.runner.ExecuteCommand(ctx, "curl -fsSL https://get.docker.com | sudo sh", stream); err != nil {
		return fmt.Errorf("docker installation failed: %w", err)
	}
	post := []string{
		"usermod -aG docker $USER",
		"systemctl enable docker",
		"systemctl start docker",
	}
	for _, cmd := range post {
		if _, err := p.runner.ExecuteSudo(ctx, cmd, stream); err != nil {
			return fmt.Errorf("docker installation failed: %w", err)
		}
	}
	logToStream(stream, "✓ Docker installed", color.FgGreen)
	return nil
}

// installCompose ensures some compose entrypoint exists. get.docker.com
// ships the plugin on recent distros; older hosts get the standalone
// binary.
func (p *Provisioner) installCompose(ctx context.Context, stream io.Writer) error {
	logToStream(stream, "Checking docker compose...", color.FgCyan)

	if _, err := p.runner.ExecuteCommand(ctx, "docker compose version >/dev/null 2>&1 || command -v docker-compose >/dev/null 2>&1", nil); err == nil && !p.forceInstall {
		logToStream(stream, "✓ docker compose available", color.FgGreen)
		return nil
	}

	logToStream(stream, "Installing docker compose plugin...", color.FgYellow)
	if err := p.pkgManager.Install(ctx, []string{"docker-compose-plugin"}, stream); err != nil {
		plog.Warn("compose plugin package unavailable, installing standalone binary")
		cmds := []string{
			`curl -fsSL "https://github.com/docker/compose/releases/latest/download/docker-compose-linux-$(uname -m)" -o /usr/local/bin/docker-compose`,
			"chmod +x /usr/local/bin/docker-compose",
		}
		for _, cmd := range cmds {
			if _, err := p.runner.ExecuteSudo(ctx, cmd, stream); err != nil {
				return fmt.Errorf("docker compose installation failed: %w", err)
			}
		}
	}
	logToStream(stream, "✓ docker compose installed", color.FgGreen)
	return nil
}

func (p *Provisioner) installNginx(ctx context.Context, stream io.Writer) error {
	logToStream(stream, "Checking nginx installation...", color.FgCyan)

	installed, err := p.pkgManager.IsInstalled(ctx, "nginx")
	if err != nil {
		return fmt.Errorf("failed to check nginx installation: %w", err)
	}

	if installed && !p.forceInstall {
		logToStream(stream, "✓ nginx already installed", color.FgGreen)
		return nil
	}

	logToStream(stream, "Installing nginx...", color.FgYellow)
	if err := p.pkgManager.Install(ctx, []string{"nginx"}, stream); err != nil {
		return fmt.Errorf("nginx installation failed: %w", err)
	}
	for _, cmd := range []string{"systemctl enable nginx", "systemctl start nginx"} {
		if _, err := p.runner.ExecuteSudo(ctx, cmd, stream); err != nil {
			return fmt.Errorf("nginx service setup failed: %w", err)
		}
	}
	logToStream(stream, "✓ nginx installed", color.FgGreen)
	return nil
}

// SetupAppDirectory creates the remote deployment directory owned by
// the SSH user.
func (p *Provisioner) SetupAppDirectory(ctx context.Context, appDir string, stream io.Writer) error {
	logToStream(stream, fmt.Sprintf("Creating application directory at %s", appDir), color.FgBlue)

	cmds := []string{
		fmt.Sprintf("mkdir -p %s", appDir),
		fmt.Sprintf("chown -R $(whoami): %s", appDir),
		fmt.Sprintf("chmod 755 %s", appDir),
	}
	for _, cmd := range cmds {
		if _, err := p.runner.ExecuteSudo(ctx, cmd, stream); err != nil {
			return fmt.Errorf("failed to create application directory: %w", err)
		}
	}

	logToStream(stream, fmt.Sprintf("✓ Application directory ready at %s", appDir), color.FgGreen)
	return nil
}

// VerifyInstallation confirms every installed tool answers.
func (p *Provisioner) VerifyInstallation(ctx context.Context, stream io.Writer) error {
	logToStream(stream, "🔍 Verifying installations...", color.FgBlue)

	tools := []struct {
		name    string
		command string
		sudo    bool
	}{
		{"Docker", "docker --version", false},
		{"docker compose", "docker compose version 2>/dev/null || docker-compose --version", false},
		{"nginx", "nginx -v", true},
	}

	for _, tool := range tools {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			run := p.runner.ExecuteCommand
			if tool.sudo {
				run = p.runner.ExecuteSudo
			}
			output, err := run(ctx, tool.command, stream)
			if err != nil {
				return fmt.Errorf("%s verification failed: %w", tool.name, err)
			}
			if p.verbose {
				plog.Debug("%s: %s", tool.name, strings.TrimSpace(output))
			}
		}
	}

	logToStream(stream, "✓ All tools verified successfully", color.FgGreen)
	return nil
}
