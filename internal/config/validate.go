package config

import (
	"fmt"
	"net/url"
	"os"
	"regexp"
	"strings"
)

var appNamePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_.-]*$`)

// Validate checks the configuration for the mistakes that otherwise
// only surface halfway through a deployment.
func (c *DeployConfig) Validate() error {
	var problems []string

	if c.App.Name == "" {
		problems = append(problems, "app name is required")
	} else if !appNamePattern.MatchString(c.App.Name) {
		problems = append(problems, fmt.Sprintf("app name %q must be lowercase alphanumeric (dots, dashes, underscores allowed)", c.App.Name))
	}

	if c.App.Port < 1 || c.App.Port > 65535 {
		problems = append(problems, fmt.Sprintf("app port %d is out of range (1-65535)", c.App.Port))
	}

	if c.Repository.URL == "" {
		problems = append(problems, "repository URL is required")
	} else if err := validateRepoURL(c.Repository.URL); err != nil {
		problems = append(problems, err.Error())
	}

	if c.Repository.Branch == "" {
		problems = append(problems, "repository branch is required")
	}

	if c.Server.Host == "" {
		problems = append(problems, "server host is required")
	}
	if c.Server.User == "" {
		problems = append(problems, "SSH user is required")
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		problems = append(problems, fmt.Sprintf("SSH port %d is out of range (1-65535)", c.Server.Port))
	}

	if c.Server.SSHKey != "" {
		key := ExpandHome(c.Server.SSHKey)
		if _, err := os.Stat(key); err != nil {
			problems = append(problems, fmt.Sprintf("SSH key %s is not readable", key))
		}
	} else {
		problems = append(problems, "SSH key path is required")
	}

	if !strings.HasPrefix(c.Remote.BasePath, "/") {
		problems = append(problems, fmt.Sprintf("remote base path %q must be absolute", c.Remote.BasePath))
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration invalid:\n  - %s", strings.Join(problems, "\n  - "))
	}
	return nil
}

func validateRepoURL(raw string) error {
	// SSH-style git URLs (git@host:path) need no token handling.
	if strings.HasPrefix(raw, "git@") {
		return nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("repository URL %q is not a valid URL", raw)
	}
	if u.Scheme != "https" && u.Scheme != "http" {
		return fmt.Errorf("repository URL %q must use https (or git@ SSH form)", raw)
	}
	if u.User != nil {
		// Credentials belong in the token field, not baked into the
		// URL where they end up in process listings and logs.
		return fmt.Errorf("repository URL must not embed credentials; use the token prompt instead")
	}
	return nil
}

// ExpandHome resolves a leading ~/ against the user's home directory.
func ExpandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		if path == "~" {
			return home
		}
		return home + path[1:]
	}
	return path
}
