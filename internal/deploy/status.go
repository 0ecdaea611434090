package deploy

import (
	"context"
	"fmt"
	"strings"
)

// ContainerStatus is one row of `deployctl status`.
type ContainerStatus struct {
	Name   string
	Image  string
	State  string
	Ports  string
	Uptime string
}

// Status lists the deployment's containers on the remote host.
func (d *Deployer) Status(ctx context.Context) ([]ContainerStatus, error) {
	// Label filter catches plain-docker deployments; the name filter
	// catches compose services prefixed with the app name.
	cmd := fmt.Sprintf(
		`sudo docker ps -a --filter "label=deployctl.app=%s" --format '{{.Names}}|{{.Image}}|{{.State}}|{{.Ports}}|{{.Status}}'; `+
			`sudo docker ps -a --filter "name=%s" --format '{{.Names}}|{{.Image}}|{{.State}}|{{.Ports}}|{{.Status}}'`,
		d.cfg.App.Name, d.cfg.App.Name)

	output, err := d.runner.ExecuteCommand(ctx, cmd, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list containers: %w", err)
	}

	return ParseContainerList(output), nil
}

// ParseContainerList turns the pipe-delimited docker ps output into
// status rows, deduplicating containers matched by both filters.
func ParseContainerList(output string) []ContainerStatus {
	seen := make(map[string]bool)
	var rows []ContainerStatus

	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fields := strings.SplitN(line, "|", 5)
		if len(fields) < 5 || seen[fields[0]] {
			continue
		}
		seen[fields[0]] = true
		rows = append(rows, ContainerStatus{
			Name:   fields[0],
			Image:  fields[1],
			State:  fields[2],
			Ports:  fields[3],
			Uptime: fields[4],
		})
	}
	return rows
}
