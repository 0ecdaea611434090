package deploy

import (
	"context"
	"fmt"
	"strings"
	"time"
)

const (
	healthAttempts = 10
	healthInterval = 3 * time.Second
)

// HealthCheck curls the app from the remote host: first directly on
// the app port, then through the nginx front on port 80. Any HTTP
// response counts as alive; a refused connection does not.
func (d *Deployer) HealthCheck(ctx context.Context) error {
	dlog.Info("Waiting for the app to answer on port %d...", d.cfg.App.Port)

	direct := fmt.Sprintf("curl -s -o /dev/null -w '%%{http_code}' --max-time 5 http://127.0.0.1:%d/", d.cfg.App.Port)
	if err := d.retryHealth(ctx, direct, "app"); err != nil {
		return err
	}

	proxied := "curl -s -o /dev/null -w '%{http_code}' --max-time 5 http://127.0.0.1:80/"
	if err := d.retryHealth(ctx, proxied, "nginx proxy"); err != nil {
		return err
	}

	dlog.Success("Deployment is healthy: port 80 -> 127.0.0.1:%d", d.cfg.App.Port)
	return nil
}

func (d *Deployer) retryHealth(ctx context.Context, command, label string) error {
	var lastCode string
	for attempt := 1; attempt <= healthAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		output, err := d.runner.ExecuteCommand(ctx, command, nil)
		code := strings.TrimSpace(output)
		if err == nil && code != "" && code != "000" {
			dlog.Debug("%s answered HTTP %s (attempt %d)", label, code, attempt)
			return nil
		}
		lastCode = code

		dlog.Debug("%s not ready yet (attempt %d/%d)", label, attempt, healthAttempts)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(healthInterval):
		}
	}

	if lastCode != "" && lastCode != "000" {
		return fmt.Errorf("%s health check failed: last HTTP status %s", label, lastCode)
	}
	return fmt.Errorf("%s health check failed: no HTTP response after %d attempts", label, healthAttempts)
}
