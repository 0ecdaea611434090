package provision

import (
	"context"
	"fmt"
	"io"
	"strings"
)

// YumManager implements PackageManager for YUM/DNF systems
type YumManager struct {
	runner Runner
}

func NewYumManager(runner Runner) *YumManager {
	return &YumManager{runner: runner}
}

func (ym *YumManager) Update(ctx context.Context, stream io.Writer) error {
	// Try DNF first (newer systems), fall back to YUM
	cmd := "if command -v dnf >/dev/null; then sudo dnf makecache -y; else sudo yum makecache -y; fi"
	if _, err := ym.runner.ExecuteCommand(ctx, cmd, stream); err != nil {
		return fmt.Errorf("failed to update package cache: %w", err)
	}
	return nil
}

func (ym *YumManager) Install(ctx context.Context, packages []string, stream io.Writer) error {
	cmd := fmt.Sprintf(
		"if command -v dnf >/dev/null; then sudo dnf install -y %s; else sudo yum install -y %s; fi",
		strings.Join(packages, " "),
		strings.Join(packages, " "),
	)
	output, err := ym.runner.ExecuteCommand(ctx, cmd, stream)
	if err != nil {
		return fmt.Errorf("failed to install packages: %w", err)
	}
	if strings.Contains(output, "No match for argument") {
		return fmt.Errorf("no packages found to install: %s", strings.Join(packages, ", "))
	}
	return nil
}

func (ym *YumManager) IsInstalled(ctx context.Context, packageName string) (bool, error) {
	cmd := fmt.Sprintf(
		"if command -v dnf >/dev/null; then "+
			"dnf list installed %[1]s >/dev/null 2>&1 && echo installed || echo missing; "+
			"else "+
			"yum list installed %[1]s >/dev/null 2>&1 && echo installed || echo missing; "+
			"fi",
		packageName,
	)
	output, err := ym.runner.ExecuteCommand(ctx, cmd, nil)
	if err != nil {
		return false, fmt.Errorf("failed to check package installation: %w", err)
	}
	return strings.TrimSpace(output) == "installed", nil
}
