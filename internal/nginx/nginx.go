package nginx

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/fatih/color"

	"github.com/Funmitez/hng13-stage1-devops/internal/logger"
	"github.com/Funmitez/hng13-stage1-devops/internal/provision"
)

var nlog = logger.PackageLogger("nginx", "🌐 NGINX")

// SiteConfig holds everything the site template needs.
type SiteConfig struct {
	AppName    string
	ServerName string
	AppPort    int
}

var siteTemplate = template.Must(template.New("site").Parse(`# Managed by deployctl. Manual edits are overwritten on deploy.
server {
    listen 80;
    server_name {{.ServerName}};

    location / {
        proxy_pass http://127.0.0.1:{{.AppPort}};
        proxy_http_version 1.1;
        proxy_set_header Upgrade $http_upgrade;
        proxy_set_header Connection 'upgrade';
        proxy_set_header Host $host;
        proxy_set_header X-Real-IP $remote_addr;
        proxy_set_header X-Forwarded-For $proxy_add_x_forwarded_for;
        proxy_set_header X-Forwarded-Proto $scheme;
        proxy_cache_bypass $http_upgrade;
    }
}
`))

// Render produces the nginx site file for a deployment.
func Render(cfg SiteConfig) (string, error) {
	if cfg.ServerName == "" {
		cfg.ServerName = "_"
	}

	var buf bytes.Buffer
	if err := siteTemplate.Execute(&buf, cfg); err != nil {
		return "", fmt.Errorf("failed to render nginx config: %w", err)
	}
	return buf.String(), nil
}

// Configurator writes and activates site configs on the remote host.
type Configurator struct {
	runner provision.Runner
}

func NewConfigurator(runner provision.Runner) *Configurator {
	return &Configurator{runner: runner}
}

// Apply writes the site config, wires it into whichever layout the
// host's nginx uses, validates it and reloads nginx.
func (c *Configurator) Apply(ctx context.Context, cfg SiteConfig, stream io.Writer) error {
	logToStream(stream, "Configuring nginx reverse proxy...", color.FgYellow)

	content, err := Render(cfg)
	if err != nil {
		return err
	}

	path, cmds, err := c.installCommands(ctx, cfg.AppName, content)
	if err != nil {
		return err
	}

	nlog.Info("Writing site config to %s (proxying :80 -> :%d)", path, cfg.AppPort)
	for _, cmd := range cmds {
		if _, err := c.runner.ExecuteSudo(ctx, cmd, stream); err != nil {
			return fmt.Errorf("nginx configuration failed: %w", err)
		}
	}

	if _, err := c.runner.ExecuteSudo(ctx, "nginx -t", stream); err != nil {
		return fmt.Errorf("nginx config validation failed: %w", err)
	}
	if _, err := c.runner.ExecuteSudo(ctx, "systemctl reload nginx", stream); err != nil {
		return fmt.Errorf("nginx reload failed: %w", err)
	}

	logToStream(stream, "✓ nginx configured", color.FgGreen)
	return nil
}

// Remove deactivates and deletes the deployment's site config.
// Best-effort: a missing file is not an error during cleanup.
func (c *Configurator) Remove(ctx context.Context, appName string, stream io.Writer) error {
	rm := fmt.Sprintf("rm -f /etc/nginx/sites-enabled/%s.conf /etc/nginx/sites-available/%s.conf /etc/nginx/conf.d/%s.conf", appName, appName, appName)
	if _, err := c.runner.ExecuteSudo(ctx, rm, stream); err != nil {
		return fmt.Errorf("nginx cleanup failed: %w", err)
	}
	if _, err := c.runner.ExecuteCommand(ctx, "sudo nginx -t && sudo systemctl reload nginx", stream); err != nil {
		return fmt.Errorf("nginx cleanup failed: %w", err)
	}
	return nil
}

// installCommands picks the sites-available/sites-enabled layout when
// the host has it (Debian family), conf.d otherwise (RHEL family).
func (c *Configurator) installCommands(ctx context.Context, appName, content string) (string, []string, error) {
	hasSitesDir := false
	if _, err := c.runner.ExecuteCommand(ctx, "test -d /etc/nginx/sites-available", nil); err == nil {
		hasSitesDir = true
	}

	if hasSitesDir {
		path := fmt.Sprintf("/etc/nginx/sites-available/%s.conf", appName)
		return path, []string{
			writeFileCommand(path, content),
			fmt.Sprintf("ln -sf %s /etc/nginx/sites-enabled/%s.conf", path, appName),
			// The stock default site also listens on :80 catch-all.
			"rm -f /etc/nginx/sites-enabled/default",
		}, nil
	}

	path := fmt.Sprintf("/etc/nginx/conf.d/%s.conf", appName)
	return path, []string{writeFileCommand(path, content)}, nil
}

// writeFileCommand streams content into a root-owned file through a
// quoted heredoc, so no shell expansion touches the config body. The
// caller runs it with sudo.
func writeFileCommand(path, content string) string {
	return fmt.Sprintf("tee %s > /dev/null <<'DEPLOYCTL_EOF'\n%s\nDEPLOYCTL_EOF", path, strings.TrimRight(content, "\n"))
}

func logToStream(stream io.Writer, message string, colorAttr color.Attribute) {
	if stream != nil {
		c := color.New(colorAttr)
		c.Fprintln(stream, message)
	}
}
