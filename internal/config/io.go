package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	ConfigFile      = "deployctl.yml"
	DefaultBranch   = "main"
	DefaultPort     = 3000
	DefaultSSHPort  = 22
	DefaultBasePath = "/opt/apps"

	EmojiSuccess   = "✅"
	EmojiWarning   = "⚠️"
	EmojiInput     = "🖊️"
	EmojiQuestion  = "❓"
	EmojiImportant = "🔑"
	EmojiNetwork   = "🌐"
	EmojiContainer = "🐳"
)

var ErrNoConfig = errors.New("config file not found")

// Load reads the deployment configuration from deployctl.yml in the
// current directory. The git token is taken from DEPLOY_GIT_TOKEN when
// the file carries none.
func Load() (*DeployConfig, error) {
	return LoadFrom(ConfigFile)
}

// LoadFrom reads the deployment configuration from the given path.
func LoadFrom(path string) (*DeployConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoConfig
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg DeployConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("invalid config format: %w", err)
	}

	applyDefaults(&cfg)

	if cfg.Repository.Token == "" {
		cfg.Repository.Token = os.Getenv("DEPLOY_GIT_TOKEN")
	}

	return &cfg, nil
}

// Save writes the configuration to path. The token is stripped unless
// the operator opted into persisting it.
func Save(cfg *DeployConfig, path string) error {
	out := *cfg
	if !cfg.Repository.SaveToken {
		out.Repository.Token = ""
	}

	data, err := yaml.Marshal(&out)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func applyDefaults(cfg *DeployConfig) {
	if cfg.Version == "" {
		cfg.Version = "1.0"
	}
	if cfg.Repository.Branch == "" {
		cfg.Repository.Branch = DefaultBranch
	}
	if cfg.App.Port == 0 {
		cfg.App.Port = DefaultPort
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultSSHPort
	}
	if cfg.Remote.BasePath == "" {
		cfg.Remote.BasePath = DefaultBasePath
	}
}
