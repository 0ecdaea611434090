package deploy

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Funmitez/hng13-stage1-devops/internal/config"
)

// fakeRunner records remote commands and answers them from a script of
// substring-matched responses.
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

func (f *fakeRunner) ran(substr string) bool {
	for _, cmd := range f.commands {
		if strings.Contains(cmd, substr) {
			return true
		}
	}
	return false
}

func testConfig() *config.DeployConfig {
	return &config.DeployConfig{
		App:        config.AppConfig{Name: "shop", Port: 3000},
		Repository: config.Repository{URL: "https://github.com/example/shop.git", Branch: "main"},
		Server:     config.Server{Host: "203.0.113.10", Port: 22, User: "deploy", SSHKey: "~/.ssh/id_rsa"},
		Remote:     config.Remote{BasePath: "/opt/apps"},
	}
}

func TestBuildAndRunPlainDocker(t *testing.T) {
	runner := &fakeRunner{
		respond: func(command string) (string, error) {
			// No compose file on the host.
			if strings.Contains(command, "test -f") {
				return "", errors.New("exit status 1")
			}
			return "", nil
		},
	}

	d := New(testConfig(), runner, nil, false)
	d.commit = "abc1234"

	require.NoError(t, d.BuildAndRun(context.Background()))

	assert.True(t, runner.ran("sudo docker build -t shop:abc1234 -t shop:latest /opt/apps/shop"))
	assert.True(t, runner.ran("sudo docker rm -f shop-app"))
	assert.True(t, runner.ran("-p 127.0.0.1:3000:3000"))
	assert.True(t, runner.ran("--restart unless-stopped"))
	assert.True(t, runner.ran("--label deployctl.app=shop"))
}

func TestBuildAndRunPrefersCompose(t *testing.T) {
	runner := &fakeRunner{
		respond: func(command string) (string, error) {
			if strings.Contains(command, "test -f /opt/apps/shop/docker-compose.yml") {
				return "", nil
			}
			if strings.Contains(command, "test -f") {
				return "", errors.New("exit status 1")
			}
			return "", nil
		},
	}

	d := New(testConfig(), runner, nil, false)

	require.NoError(t, d.BuildAndRun(context.Background()))

	assert.True(t, runner.ran("docker compose -f docker-compose.yml up -d --build"))
	assert.False(t, runner.ran("sudo docker build -t shop:"))
}

func TestBuildAndRunComposeFallsBackToStandalone(t *testing.T) {
	runner := &fakeRunner{
		respond: func(command string) (string, error) {
			if strings.Contains(command, "test -f /opt/apps/shop/compose.yaml") {
				return "", nil
			}
			if strings.Contains(command, "test -f") {
				return "", errors.New("exit status 1")
			}
			if strings.Contains(command, "docker compose version") {
				return "", errors.New("exit status 1")
			}
			return "", nil
		},
	}

	d := New(testConfig(), runner, nil, false)

	require.NoError(t, d.BuildAndRun(context.Background()))
	assert.True(t, runner.ran("sudo docker-compose -f compose.yaml up -d"))
}

func TestBuildAndRunSurfacesBuildFailure(t *testing.T) {
	runner := &fakeRunner{
		respond: func(command string) (string, error) {
			if strings.Contains(command, "test -f") {
				return "", errors.New("exit status 1")
			}
			if strings.Contains(command, "docker build") {
				return "", errors.New("exit status 1")
			}
			return "", nil
		},
	}

	d := New(testConfig(), runner, nil, false)

	err := d.BuildAndRun(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "docker build failed")
	// The running container must not be touched after a failed build.
	assert.False(t, runner.ran("docker rm -f"))
}

func TestCleanupContinuesPastFailures(t *testing.T) {
	runner := &fakeRunner{
		respond: func(command string) (string, error) {
			if strings.Contains(command, "test -f") {
				return "", errors.New("exit status 1")
			}
			if strings.Contains(command, "docker rm -f") {
				return "", errors.New("no such container")
			}
			return "", nil
		},
	}

	d := New(testConfig(), runner, nil, false)

	require.NoError(t, d.Cleanup(context.Background()))

	// Later steps still ran despite the container removal failing.
	assert.True(t, runner.ran("sudo rm -rf /opt/apps/shop"))
	assert.True(t, runner.ran("rm -f /etc/nginx/sites-enabled/shop.conf"))
}

func TestStageEnvFile(t *testing.T) {
	envPath := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envPath, []byte("FOO=bar\nBAZ=1\n"), 0o600))

	cfg := testConfig()
	cfg.App.EnvFile = envPath
	d := New(cfg, &fakeRunner{}, nil, false)

	checkout := t.TempDir()
	require.NoError(t, d.stageEnvFile(checkout))

	data, err := os.ReadFile(filepath.Join(checkout, envFileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), "FOO=bar")
}

func TestStageEnvFileRejectsMalformed(t *testing.T) {
	envPath := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envPath, []byte("NO_SEPARATOR_HERE\n"), 0o600))

	cfg := testConfig()
	cfg.App.EnvFile = envPath
	d := New(cfg, &fakeRunner{}, nil, false)

	err := d.stageEnvFile(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read env file")
}

func TestImageTagFallsBackToLatest(t *testing.T) {
	d := New(testConfig(), &fakeRunner{}, nil, false)
	assert.Equal(t, "latest", d.imageTag())

	d.commit = "f00dfee"
	assert.Equal(t, "f00dfee", d.imageTag())
}
