package transfer

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/Funmitez/hng13-stage1-devops/internal/config"
	"github.com/Funmitez/hng13-stage1-devops/internal/logger"
	"github.com/Funmitez/hng13-stage1-devops/internal/prereq"
)

var tlog = logger.PackageLogger("transfer", "📤 TRANSFER")

// Sync copies the local checkout at srcDir to destDir on the remote
// host, preferring rsync (incremental, deletes stale files) and
// falling back to scp -r when rsync is unavailable.
func Sync(ctx context.Context, server config.Server, srcDir, destDir string) error {
	if prereq.HasRsync() {
		err := rsync(ctx, server, srcDir, destDir)
		if err == nil {
			return nil
		}
		tlog.Warn("rsync failed, falling back to scp: %v", err)
	} else {
		tlog.Info("rsync not found locally, using scp")
	}
	return scp(ctx, server, srcDir, destDir)
}

func rsync(ctx context.Context, server config.Server, srcDir, destDir string) error {
	sshCmd := fmt.Sprintf("ssh -i %s -p %d -o BatchMode=yes",
		config.ExpandHome(server.SSHKey), server.Port)

	args := []string{
		"-az", "--delete",
		"--exclude", ".git",
		"--exclude", "node_modules",
		"-e", sshCmd,
		srcDir + "/",
		fmt.Sprintf("%s@%s:%s/", server.User, server.Host, destDir),
	}

	tlog.Info("Syncing %s -> %s:%s via rsync", srcDir, server.Host, destDir)
	if err := runLocal(ctx, "rsync", args...); err != nil {
		return fmt.Errorf("rsync transfer failed: %w", err)
	}
	tlog.Success("Project synced to %s", destDir)
	return nil
}

func scp(ctx context.Context, server config.Server, srcDir, destDir string) error {
	args := []string{
		"-r", "-q",
		"-i", config.ExpandHome(server.SSHKey),
		"-P", strconv.Itoa(server.Port),
		"-o", "BatchMode=yes",
		srcDir + "/.",
		fmt.Sprintf("%s@%s:%s/", server.User, server.Host, destDir),
	}

	tlog.Info("Copying %s -> %s:%s via scp", srcDir, server.Host, destDir)
	if err := runLocal(ctx, "scp", args...); err != nil {
		return fmt.Errorf("scp transfer failed: %w", err)
	}
	tlog.Success("Project copied to %s", destDir)
	return nil
}

func runLocal(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	tlog.Debug("$ %s %s", name, strings.Join(args, " "))

	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail != "" {
			return fmt.Errorf("%s failed: %w: %s", name, err, detail)
		}
		return fmt.Errorf("%s failed: %w", name, err)
	}
	return nil
}
