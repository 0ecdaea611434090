package failfast

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExitCodes(t *testing.T) {
	// Documented CLI contract; wrapping scripts branch on these.
	assert.Equal(t, 10, ExitCode(Prereq))
	assert.Equal(t, 20, ExitCode(Validation))
	assert.Equal(t, 30, ExitCode(SSH))
	assert.Equal(t, 40, ExitCode(RemoteExec))
	assert.Equal(t, 50, ExitCode(Deploy))
	assert.Equal(t, 0, ExitCode(Ignore))
	assert.Equal(t, 0, ExitCode(Warn))
}

func TestFailfastNilErrorIsNoop(t *testing.T) {
	// Must not exit the test process.
	Failfast(nil, Deploy, "should not happen")
}

func TestFailfastNonFatalCategories(t *testing.T) {
	// Warn and Ignore log but never exit.
	Failfast(errors.New("transient"), Warn, "warn only")
	Failfast(errors.New("noise"), Ignore, "ignored")
}
