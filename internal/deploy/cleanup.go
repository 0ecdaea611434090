package deploy

import (
	"context"
	"fmt"

	"github.com/Funmitez/hng13-stage1-devops/internal/nginx"
)

// Cleanup tears the deployment down: containers, images, the nginx
// site, and the remote app directory. Each step is best-effort so a
// half-deployed host can still be cleaned; failures are logged and the
// teardown continues.
func (d *Deployer) Cleanup(ctx context.Context) error {
	appDir := d.cfg.AppDir()
	container := d.cfg.ContainerName()
	dlog.Info("Tearing down %s on %s", d.cfg.App.Name, appDir)

	var failed int

	if file, ok := d.usesCompose(ctx); ok {
		compose := d.composeCommand(ctx)
		down := fmt.Sprintf("cd %s && %s -f %s down --rmi local --remove-orphans", appDir, compose, file)
		if _, err := d.runner.ExecuteCommand(ctx, down, d.stream); err != nil {
			dlog.Warn("compose down failed: %v", err)
			failed++
		}
	}

	steps := []struct {
		label   string
		command string
	}{
		{"remove container", fmt.Sprintf("docker rm -f %s", container)},
		{"remove images", fmt.Sprintf("docker image rm -f $(sudo docker image ls -q %s) 2>/dev/null", d.cfg.App.Name)},
		{"remove app directory", fmt.Sprintf("rm -rf %s", appDir)},
	}

	for _, step := range steps {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if _, err := d.runner.ExecuteSudo(ctx, step.command, d.stream); err != nil {
			dlog.Warn("Cleanup step %q failed: %v", step.label, err)
			failed++
		} else {
			dlog.Info("✓ %s", step.label)
		}
	}

	configurator := nginx.NewConfigurator(d.runner)
	if err := configurator.Remove(ctx, d.cfg.App.Name, d.stream); err != nil {
		dlog.Warn("nginx site removal failed: %v", err)
		failed++
	} else {
		dlog.Info("✓ nginx site removed")
	}

	if failed > 0 {
		dlog.Warn("Cleanup finished with %d step(s) skipped", failed)
	} else {
		dlog.Success("Cleanup complete")
	}
	return nil
}
