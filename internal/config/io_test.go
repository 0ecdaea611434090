package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveStripsTokenByDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deployctl.yml")

	cfg := &DeployConfig{
		Version: "1.0",
		App:     AppConfig{Name: "shop", Port: 3000},
		Repository: Repository{
			URL:    "https://github.com/example/shop.git",
			Branch: "main",
			Token:  "ghp_secret",
		},
	}

	require.NoError(t, Save(cfg, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "ghp_secret")

	// Opting in persists it.
	cfg.Repository.SaveToken = true
	require.NoError(t, Save(cfg, path))
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "ghp_secret")
}

func TestLoadFromAppliesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deployctl.yml")
	raw := `
version: "1.0"
app:
  name: shop
repository:
  url: https://github.com/example/shop.git
server:
  host: 203.0.113.10
  user: deploy
  sshKey: ~/.ssh/id_rsa
`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o600))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, DefaultBranch, cfg.Repository.Branch)
	assert.Equal(t, DefaultPort, cfg.App.Port)
	assert.Equal(t, DefaultSSHPort, cfg.Server.Port)
	assert.Equal(t, DefaultBasePath, cfg.Remote.BasePath)
}

func TestLoadFromTokenEnvFallback(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deployctl.yml")
	raw := `
app:
  name: shop
repository:
  url: https://github.com/example/shop.git
`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o600))
	t.Setenv("DEPLOY_GIT_TOKEN", "env-token")

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "env-token", cfg.Repository.Token)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := LoadFrom(filepath.Join(t.TempDir(), "nope.yml"))
	assert.ErrorIs(t, err, ErrNoConfig)
}

func TestLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deployctl.yml")

	in := &DeployConfig{
		Version:    "1.0",
		App:        AppConfig{Name: "shop", Port: 8080, Domain: "shop.example.com"},
		Repository: Repository{URL: "https://github.com/example/shop.git", Branch: "release"},
		Server:     Server{Host: "203.0.113.10", Port: 2222, User: "deploy", SSHKey: "~/.ssh/deploy_key"},
		Remote:     Remote{BasePath: "/srv/apps"},
	}
	require.NoError(t, Save(in, path))

	out, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, in.App, out.App)
	assert.Equal(t, in.Server, out.Server)
	assert.Equal(t, in.Remote, out.Remote)
}
