package provision

import (
	"context"
	"fmt"
	"io"
	"strings"
)

// PackageManagerFactory detects the host's package tooling and returns
// the matching manager.
func PackageManagerFactory(ctx context.Context, runner Runner, stream io.Writer) (PackageManager, error) {
	pkgType, err := detectPackageManager(ctx, runner, stream)
	if err != nil {
		return nil, err
	}
	plog.Debug("Detected package manager: %s", pkgType)

	switch pkgType {
	case Apt:
		return NewAptManager(runner), nil
	case Yum, Dnf:
		return NewYumManager(runner), nil
	default:
		return nil, fmt.Errorf("unsupported package manager: %s", pkgType)
	}
}

func detectPackageManager(ctx context.Context, runner Runner, stream io.Writer) (PackageManagerType, error) {
	detectCmd := `
		if command -v apt-get >/dev/null 2>&1; then echo "apt";
		elif command -v dnf >/dev/null 2>&1; then echo "dnf";
		elif command -v yum >/dev/null 2>&1; then echo "yum";
		else echo "unknown"; fi
	`

	output, err := runner.ExecuteCommand(ctx, detectCmd, stream)
	if err != nil {
		return "", fmt.Errorf("failed to detect package manager: %w", err)
	}

	return PackageManagerType(strings.TrimSpace(output)), nil
}
