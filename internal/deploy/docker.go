package deploy

import (
	"context"
	"fmt"
	"strings"
)

// composeFiles are the names, in lookup order, that switch the build
// to docker compose.
var composeFiles = []string{"docker-compose.yml", "docker-compose.yaml", "compose.yaml", "compose.yml"}

// usesCompose reports whether the synced project carries a compose
// file on the remote host.
func (d *Deployer) usesCompose(ctx context.Context) (string, bool) {
	appDir := d.cfg.AppDir()
	for _, name := range composeFiles {
		if _, err := d.runner.ExecuteCommand(ctx, fmt.Sprintf("test -f %s/%s", appDir, name), nil); err == nil {
			return name, true
		}
	}
	return "", false
}

// composeCommand resolves to the plugin form when present, the
// standalone binary otherwise.
func (d *Deployer) composeCommand(ctx context.Context) string {
	if _, err := d.runner.ExecuteCommand(ctx, "sudo docker compose version >/dev/null 2>&1", nil); err == nil {
		return "sudo docker compose"
	}
	return "sudo docker-compose"
}

// BuildAndRun builds the project on the remote host and (re)starts it:
// compose when a compose file exists, docker build + docker run
// otherwise.
func (d *Deployer) BuildAndRun(ctx context.Context) error {
	appDir := d.cfg.AppDir()

	if file, ok := d.usesCompose(ctx); ok {
		dlog.Info("Compose file %s detected, deploying via docker compose", file)
		return d.runCompose(ctx, appDir, file)
	}

	dlog.Info("No compose file found, deploying via docker build + run")
	return d.runPlainDocker(ctx, appDir)
}

func (d *Deployer) runCompose(ctx context.Context, appDir, file string) error {
	compose := d.composeCommand(ctx)

	up := fmt.Sprintf("cd %s && %s -f %s up -d --build --remove-orphans", appDir, compose, file)
	if d.cfg.App.EnvFile != "" {
		up = fmt.Sprintf("cd %s && %s -f %s --env-file %s up -d --build --remove-orphans", appDir, compose, file, envFileName)
	}

	if _, err := d.runner.ExecuteCommand(ctx, up, d.stream); err != nil {
		return fmt.Errorf("docker compose up failed: %w", err)
	}
	dlog.Success("Compose stack is up")
	return nil
}

func (d *Deployer) runPlainDocker(ctx context.Context, appDir string) error {
	image := fmt.Sprintf("%s:%s", d.cfg.App.Name, d.imageTag())
	container := d.cfg.ContainerName()
	port := d.cfg.App.Port

	build := fmt.Sprintf("docker build -t %s -t %s %s", image, d.cfg.ImageName(), appDir)
	if _, err := d.runner.ExecuteSudo(ctx, build, d.stream); err != nil {
		return fmt.Errorf("docker build failed: %w", err)
	}
	dlog.Success("Image %s built", image)

	// Replace, not update: the old container keeps serving until the
	// new image is ready, then is swapped out.
	stop := fmt.Sprintf("docker rm -f %s >/dev/null 2>&1 || true", container)
	if _, err := d.runner.ExecuteSudo(ctx, stop, d.stream); err != nil {
		return fmt.Errorf("failed to remove previous container: %w", err)
	}

	runArgs := []string{
		"docker run -d",
		fmt.Sprintf("--name %s", container),
		"--restart unless-stopped",
		fmt.Sprintf("-p 127.0.0.1:%d:%d", port, port),
	}
	if d.cfg.App.EnvFile != "" {
		runArgs = append(runArgs, fmt.Sprintf("--env-file %s/%s", appDir, envFileName))
	}
	runArgs = append(runArgs,
		fmt.Sprintf("--label deployctl.app=%s", d.cfg.App.Name),
		fmt.Sprintf("--label deployctl.commit=%s", d.imageTag()),
		image,
	)

	if _, err := d.runner.ExecuteSudo(ctx, strings.Join(runArgs, " "), d.stream); err != nil {
		return fmt.Errorf("docker run failed: %w", err)
	}
	dlog.Success("Container %s running on port %d", container, port)
	return nil
}

func (d *Deployer) imageTag() string {
	if d.commit != "" {
		return d.commit
	}
	return "latest"
}
