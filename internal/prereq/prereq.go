package prereq

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/Funmitez/hng13-stage1-devops/internal/logger"
)

var plog = logger.PackageLogger("prereq", "🔍 PREREQ")

// required tools must resolve locally before a deployment starts.
// docker is deliberately absent: builds happen on the remote host.
var required = []string{"git", "ssh"}

// transferTools: at least one must be present, rsync preferred.
var transferTools = []string{"rsync", "scp"}

// CheckLocalTools verifies every required CLI tool is on PATH.
func CheckLocalTools() error {
	var missing []string

	for _, tool := range required {
		if path, err := exec.LookPath(tool); err != nil {
			missing = append(missing, tool)
		} else {
			plog.Debug("Found %s at %s", tool, path)
		}
	}

	if !HasTransferTool() {
		missing = append(missing, strings.Join(transferTools, " or "))
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required tools: %s", strings.Join(missing, ", "))
	}

	plog.Success("All local prerequisites present")
	return nil
}

// HasTransferTool reports whether any file transfer tool is available.
func HasTransferTool() bool {
	for _, tool := range transferTools {
		if _, err := exec.LookPath(tool); err == nil {
			return true
		}
	}
	return false
}

// HasRsync reports whether rsync specifically is available; the
// transfer layer falls back to scp without it.
func HasRsync() bool {
	_, err := exec.LookPath("rsync")
	return err == nil
}
