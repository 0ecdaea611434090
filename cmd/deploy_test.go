package cmd

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(wd) })
}

func TestDeployFlags(t *testing.T) {
	for _, name := range []string{"cleanup", "stream", "skip-provision", "timeout", "yes"} {
		assert.NotNil(t, deployCmd.Flags().Lookup(name), "flag --%s", name)
	}
}

func TestResolveConfigNonInteractiveRequiresFile(t *testing.T) {
	chdir(t, t.TempDir())

	_, err := resolveConfig(true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "deployctl.yml")
	assert.Contains(t, err.Error(), "--yes")
}

func TestResolveConfigNonInteractiveLoadsWithoutPrompting(t *testing.T) {
	chdir(t, t.TempDir())

	yml := `version: "1"
app:
  name: shop
  port: 3000
repository:
  url: https://github.com/example/shop.git
  branch: main
server:
  host: 203.0.113.10
  user: deploy
  sshKey: ~/.ssh/id_rsa
`
	require.NoError(t, os.WriteFile("deployctl.yml", []byte(yml), 0o600))

	// Stdin is untouched in non-interactive mode, so a config with a
	// missing optional field loads without blocking on a prompt.
	cfg, err := resolveConfig(true)
	require.NoError(t, err)
	assert.Equal(t, "shop", cfg.App.Name)
	assert.Equal(t, 22, cfg.Server.Port)
	assert.Equal(t, "/opt/apps", cfg.Remote.BasePath)
}
