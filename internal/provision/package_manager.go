package provision

import (
	"context"
	"io"
)

// Runner executes commands on the deployment host. Satisfied by
// *sshx.Client; narrowed here so tests can fake the remote side.
type Runner interface {
	ExecuteCommand(ctx context.Context, command string, stream io.Writer) (string, error)
	ExecuteSudo(ctx context.Context, command string, stream io.Writer) (string, error)
	CommandExists(ctx context.Context, name string) bool
}

// PackageManager abstracts the host's package tooling.
type PackageManager interface {
	Update(ctx context.Context, stream io.Writer) error
	Install(ctx context.Context, packages []string, stream io.Writer) error
	IsInstalled(ctx context.Context, packageName string) (bool, error)
}

type PackageManagerType string

const (
	Apt PackageManagerType = "apt"
	Yum PackageManagerType = "yum"
	Dnf PackageManagerType = "dnf"
)
