package failfast

import (
	"os"

	"github.com/Funmitez/hng13-stage1-devops/internal/logger"
)

// Category classifies a failure and carries its documented exit code.
type Category int

const (
	Ignore     Category = iota // log and continue
	Warn                       // log a warning and continue
	Prereq                     // missing local tool, exit 10
	Validation                 // bad operator input or config, exit 20
	SSH                        // host unreachable or auth failed, exit 30
	RemoteExec                 // remote command failed, exit 40
	Deploy                     // build/run/proxy/health failure, exit 50
)

// Exit codes are part of the CLI contract; scripts wrapping deployctl
// branch on them.
var exitCodes = map[Category]int{
	Prereq:     10,
	Validation: 20,
	SSH:        30,
	RemoteExec: 40,
	Deploy:     50,
}

var failLogger = logger.PackageLogger("failfast", "🚨 FAIL")

// ExitCode returns the documented exit code for a category.
func ExitCode(c Category) int {
	if code, ok := exitCodes[c]; ok {
		return code
	}
	return 0
}

// Failfast logs err with its context message and, for fatal
// categories, exits the process with the documented code.
func Failfast(err error, category Category, message string) {
	if err == nil {
		return
	}

	switch category {
	case Ignore:
		failLogger.Debug("%s: %v (ignored)", message, err)
	case Warn:
		failLogger.Warn("%s: %v", message, err)
	default:
		failLogger.Error("%s: %v", message, err)
		if path := logger.LogFilePath(); path != "" {
			failLogger.Info("Full transcript: %s", path)
		}
		logger.CloseLogFile()
		os.Exit(ExitCode(category))
	}
}
