package provision

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRunner struct {
	commands []string
	respond  func(command string) (string, error)
}

func (f *fakeRunner) ExecuteCommand(ctx context.Context, command string, stream io.Writer) (string, error) {
	f.commands = append(f.commands, command)
	if f.respond != nil {
		return f.respond(command)
	}
	return "", nil
}

func (f *fakeRunner) ExecuteSudo(ctx context.Context, command string, stream io.Writer) (string, error) {
	return f.ExecuteCommand(ctx, "sudo "+command, stream)
}

func (f *fakeRunner) CommandExists(ctx context.Context, name string) bool {
	_, err := f.ExecuteCommand(context.Background(), fmt.Sprintf("command -v %s >/dev/null 2>&1", name), nil)
	return err == nil
}

func TestPackageManagerFactory(t *testing.T) {
	tests := []struct {
		detected string
		wantType interface{}
		wantErr  bool
	}{
		{"apt", &AptManager{}, false},
		{"dnf", &YumManager{}, false},
		{"yum", &YumManager{}, false},
		{"unknown", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.detected, func(t *testing.T) {
			runner := &fakeRunner{
				respond: func(command string) (string, error) {
					return tt.detected + "\n", nil
				},
			}

			pm, err := PackageManagerFactory(context.Background(), runner, nil)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "unsupported package manager")
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.wantType, pm)
		})
	}
}

func TestAptIsInstalled(t *testing.T) {
	runner := &fakeRunner{
		respond: func(command string) (string, error) {
			if strings.Contains(command, "dpkg -l nginx") {
				return "installed\n", nil
			}
			return "missing\n", nil
		},
	}

	am := NewAptManager(runner)

	installed, err := am.IsInstalled(context.Background(), "nginx")
	require.NoError(t, err)
	assert.True(t, installed)

	installed, err = am.IsInstalled(context.Background(), "docker")
	require.NoError(t, err)
	assert.False(t, installed)
}

func TestAptInstallBuildsNoninteractiveCommand(t *testing.T) {
	runner := &fakeRunner{}
	am := NewAptManager(runner)

	require.NoError(t, am.Install(context.Background(), []string{"curl", "git"}, nil))
	require.Len(t, runner.commands, 1)
	assert.Equal(t, "sudo DEBIAN_FRONTEND=noninteractive apt-get install -y curl git", runner.commands[0])
}

func TestSetupAppDirectoryRunsPrivileged(t *testing.T) {
	runner := &fakeRunner{}
	p := New(runner, NewAptManager(runner), false, false)

	require.NoError(t, p.SetupAppDirectory(context.Background(), "/opt/apps/shop", nil))

	require.Len(t, runner.commands, 3)
	assert.Equal(t, "sudo mkdir -p /opt/apps/shop", runner.commands[0])
	assert.Equal(t, "sudo chown -R $(whoami): /opt/apps/shop", runner.commands[1])
	assert.Equal(t, "sudo chmod 755 /opt/apps/shop", runner.commands[2])
}

func TestProvisionerInstallSkipsPresentDocker(t *testing.T) {
	runner := &fakeRunner{
		respond: func(command string) (string, error) {
			// Everything exists already.
			return "installed\n", nil
		},
	}

	p := New(runner, NewAptManager(runner), false, false)
	require.NoError(t, p.InstallPackages(context.Background(), nil))

	for _, cmd := range runner.commands {
		assert.NotContains(t, cmd, "get.docker.com")
	}
}

func TestProvisionerInstallDockerWhenMissing(t *testing.T) {
	runner := &fakeRunner{
		respond: func(command string) (string, error) {
			if strings.Contains(command, "command -v docker") {
				return "", errors.New("exit status 1")
			}
			return "installed\n", nil
		},
	}

	p := New(runner, NewAptManager(runner), false, false)
	require.NoError(t, p.InstallPackages(context.Background(), nil))

	var sawInstall bool
	for _, cmd := range runner.commands {
		if strings.Contains(cmd, "get.docker.com") {
			sawInstall = true
		}
	}
	assert.True(t, sawInstall, "expected the Docker install script to run")
}
