package provision

import (
	"context"
	"fmt"
	"io"
	"strings"
)

// AptManager implements PackageManager for APT systems
type AptManager struct {
	runner Runner
}

func NewAptManager(runner Runner) *AptManager {
	return &AptManager{runner: runner}
}

func (am *AptManager) Update(ctx context.Context, stream io.Writer) error {
	_, err := am.runner.ExecuteSudo(ctx, "apt-get update -y", stream)
	return err
}

func (am *AptManager) Install(ctx context.Context, packages []string, stream io.Writer) error {
	cmd := fmt.Sprintf("DEBIAN_FRONTEND=noninteractive apt-get install -y %s", strings.Join(packages, " "))
	if _, err := am.runner.ExecuteSudo(ctx, cmd, stream); err != nil {
		return fmt.Errorf("failed to install packages: %w", err)
	}
	return nil
}

func (am *AptManager) IsInstalled(ctx context.Context, packageName string) (bool, error) {
	cmd := fmt.Sprintf("dpkg -l %s 2>/dev/null | grep -q ^ii && echo installed || echo missing", packageName)
	output, err := am.runner.ExecuteCommand(ctx, cmd, nil)
	if err != nil {
		return false, fmt.Errorf("failed to check package installation: %w", err)
	}
	return strings.TrimSpace(output) == "installed", nil
}
