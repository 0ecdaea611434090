package logger

import (
	"bytes"
	"log"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "", 0, LevelWarn)

	l.Debug("hidden debug")
	l.Info("hidden info")
	l.Warn("visible warning")
	l.Error("visible error")

	out := buf.String()
	assert.NotContains(t, out, "hidden debug")
	assert.NotContains(t, out, "hidden info")
	assert.Contains(t, out, "visible warning")
	assert.Contains(t, out, "visible error")
}

func TestRedactorApplied(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "", 0, LevelDebug)
	l.AddRedactor(func(s string) string {
		return strings.ReplaceAll(s, "supersecret", "***")
	})

	l.Info("cloning https://supersecret@github.com/x/y.git")

	out := buf.String()
	assert.NotContains(t, out, "supersecret")
	assert.Contains(t, out, "***")
}

func TestGlobalRedactorAppliesToExistingLoggers(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "", 0, LevelDebug)

	// Registered after the logger was created.
	AddRedactor(func(s string) string {
		return strings.ReplaceAll(s, "tok_123", "[redacted]")
	})

	l.Info("using token tok_123")

	assert.NotContains(t, buf.String(), "tok_123")
	assert.Contains(t, buf.String(), "[redacted]")
}

func TestWithPrefixSharesOutput(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "", log.Lmsgprefix, LevelDebug)

	child := l.WithPrefix("GIT ")
	child.Info("cloned")

	assert.Contains(t, buf.String(), "GIT ")
	assert.Contains(t, buf.String(), "cloned")
}

func TestDerivedLoggerFollowsSharedLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "", 0, LevelInfo)
	child := l.WithPrefix("DEPLOY ")

	child.Debug("quiet")
	l.SetLevel(LevelDebug)
	child.Debug("loud")

	assert.NotContains(t, buf.String(), "quiet")
	assert.Contains(t, buf.String(), "loud")
}

func TestDerivedLoggerDetachesOnSetLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "", 0, LevelDebug)
	child := l.WithPrefix("GIT ")

	child.SetLevel(LevelError)
	l.SetLevel(LevelDebug)
	child.Info("suppressed")

	assert.NotContains(t, buf.String(), "suppressed")
}

func TestSetColorEnabled(t *testing.T) {
	defer SetColorEnabled(true)

	var buf bytes.Buffer
	l := New(&buf, "", 0, LevelDebug)

	SetColorEnabled(false)
	l.Info("plain line")

	assert.NotContains(t, buf.String(), "\033[")
	assert.Contains(t, buf.String(), "plain line")
}

func TestOpenLogFileWritesPlainTranscript(t *testing.T) {
	dir := t.TempDir()
	path, err := OpenLogFile(dir)
	require.NoError(t, err)
	defer CloseLogFile()

	var buf bytes.Buffer
	l := New(&buf, "", 0, LevelDebug)
	l.Info("transcript entry")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "transcript entry")
	assert.NotContains(t, string(data), "\033[")

	// A second open keeps appending to the same file.
	again, err := OpenLogFile(dir)
	require.NoError(t, err)
	assert.Equal(t, path, again)
}

func TestSetLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "", 0, LevelInfo)

	l.Debug("before")
	l.SetLevel(LevelDebug)
	l.Debug("after")

	assert.NotContains(t, buf.String(), "before")
	assert.Contains(t, buf.String(), "after")
}
