package git

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"os/exec"
	"regexp"
	"strings"

	"github.com/Funmitez/hng13-stage1-devops/internal/logger"
)

var glog = logger.PackageLogger("git", "🌿 GIT")

var tokenInURL = regexp.MustCompile(`(https?://)[^/@\s]+@`)

// Redact strips any credential baked into an HTTPS URL so it never
// reaches logs or error messages.
func Redact(s string) string {
	return tokenInURL.ReplaceAllString(s, "${1}***@")
}

// AuthenticatedURL injects the PAT into an HTTPS clone URL. The result
// is passed to git only and must never be logged.
func AuthenticatedURL(rawURL, token string) (string, error) {
	if token == "" {
		return rawURL, nil
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid repository URL: %w", err)
	}
	if u.Scheme != "https" && u.Scheme != "http" {
		// SSH-form URLs authenticate via the agent, not the token.
		return rawURL, nil
	}
	u.User = url.UserPassword("x-access-token", token)
	return u.String(), nil
}

// Clone makes dir a fresh shallow checkout of the branch. The caller
// always hands over a directory that does not exist yet.
func Clone(ctx context.Context, rawURL, token, branch, dir string) error {
	authURL, err := AuthenticatedURL(rawURL, token)
	if err != nil {
		return err
	}

	glog.Info("Cloning %s (branch %s)", Redact(rawURL), branch)
	if err := run(ctx, "git", "clone", "--depth", "1", "--branch", branch, authURL, dir); err != nil {
		return err
	}
	glog.Success("Repository cloned")
	return nil
}

// HeadCommit returns the short commit hash of the checkout at dir.
func HeadCommit(dir string) (string, error) {
	cmd := exec.Command("git", "-C", dir, "rev-parse", "--short=7", "HEAD")

	var out bytes.Buffer
	cmd.Stdout = &out

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("git command failed: %w", err)
	}

	return strings.TrimSpace(out.String()), nil
}

func run(ctx context.Context, args ...string) error {
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	glog.Debug("$ %s", Redact(strings.Join(args, " ")))

	if err := cmd.Run(); err != nil {
		detail := Redact(strings.TrimSpace(stderr.String()))
		if detail != "" {
			return fmt.Errorf("git failed: %w: %s", err, detail)
		}
		return fmt.Errorf("git failed: %w", err)
	}
	return nil
}
