package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"sync"
	"time"
)

// LogLevel represents different log levels
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelSuccess
	LevelError
	LevelFatal
)

var levelNames = map[LogLevel]string{
	LevelDebug:   "DEBUG",
	LevelInfo:    "INFO",
	LevelWarn:    "WARN",
	LevelError:   "ERROR",
	LevelFatal:   "FATAL",
	LevelSuccess: "SUCCESS",
}

var levelColors = map[LogLevel]string{
	LevelDebug:   "\033[36m",   // Cyan
	LevelInfo:    "\033[32m",   // Green
	LevelWarn:    "\033[33m",   // Yellow
	LevelError:   "\033[31m",   // Red
	LevelFatal:   "\033[31;1m", // Bright Red
	LevelSuccess: "\033[32;1m", // Bright Green
}

var levelEmojis = map[LogLevel]string{
	LevelDebug:   "🐛",
	LevelInfo:    "ℹ️",
	LevelWarn:    "⚠️",
	LevelError:   "❌",
	LevelFatal:   "💀",
	LevelSuccess: "✅",
}

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*m`)

var (
	colorMu sync.RWMutex
	colorOn = os.Getenv("NO_COLOR") == ""
)

// SetColorEnabled toggles ANSI escapes on terminal output. Color is on
// unless NO_COLOR is set in the environment.
func SetColorEnabled(enabled bool) {
	colorMu.Lock()
	defer colorMu.Unlock()
	colorOn = enabled
}

func colorEnabled() bool {
	colorMu.RLock()
	defer colorMu.RUnlock()
	return colorOn
}

// Logger is the main logger struct
type Logger struct {
	mu         sync.Mutex
	minLevel   LogLevel
	parent     *Logger // level authority for derived loggers
	logger     *log.Logger
	showCaller bool
	redactors  []func(string) string
}

// New creates a new Logger instance
func New(out io.Writer, prefix string, flag int, minLevel LogLevel) *Logger {
	return &Logger{
		minLevel:   minLevel,
		logger:     log.New(out, prefix, flag),
		showCaller: false,
	}
}

// DefaultLogger creates a logger with default settings
func DefaultLogger() *Logger {
	return New(os.Stdout, "", log.Ldate|log.Ltime, LevelInfo)
}

var (
	global     *Logger
	globalOnce sync.Once

	logFileMu   sync.Mutex
	logFile     *os.File
	logFilePath string
)

// Global returns the process-wide logger shared by all packages.
func Global() *Logger {
	globalOnce.Do(func() {
		global = DefaultLogger()
	})
	return global
}

// OpenLogFile attaches a timestamped log file in dir to every logger
// created by PackageLogger, so each run leaves a local transcript.
// Calling it twice is a no-op; the first file wins.
func OpenLogFile(dir string) (string, error) {
	logFileMu.Lock()
	defer logFileMu.Unlock()

	if logFile != nil {
		return logFilePath, nil
	}

	name := fmt.Sprintf("deployctl-%s.log", time.Now().Format("20060102-150405"))
	path := filepath.Join(dir, name)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to open log file: %w", err)
	}

	logFile = f
	logFilePath = path
	return path, nil
}

// LogFilePath returns the path of the attached log file, if any.
func LogFilePath() string {
	logFileMu.Lock()
	defer logFileMu.Unlock()
	return logFilePath
}

// CloseLogFile flushes and closes the attached log file.
func CloseLogFile() error {
	logFileMu.Lock()
	defer logFileMu.Unlock()

	if logFile == nil {
		return nil
	}
	err := logFile.Close()
	logFile = nil
	return err
}

// SetLevel sets the minimum log level. A derived logger that had been
// following its parent's level is detached and keeps its own from here
// on.
func (l *Logger) SetLevel(level LogLevel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.minLevel = level
	l.parent = nil
}

// level resolves the effective minimum level, walking up to the root
// so SetLevel on the shared logger reaches every derived one.
func (l *Logger) level() LogLevel {
	l.mu.Lock()
	parent := l.parent
	min := l.minLevel
	l.mu.Unlock()

	if parent != nil {
		return parent.level()
	}
	return min
}

// SetOutput sets the output destination
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.logger.SetOutput(w)
}

// EnableCallerInfo enables/disables caller information
func (l *Logger) EnableCallerInfo(enable bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.showCaller = enable
}

// AddRedactor registers a function applied to every formatted message
// before it is written. Used to keep credentials out of transcripts.
func (l *Logger) AddRedactor(fn func(string) string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.redactors = append(l.redactors, fn)
}

var (
	globalRedactMu sync.RWMutex
	globalRedact   []func(string) string
)

// AddRedactor registers a redactor applied by every logger in the
// process, including ones created before the call.
func AddRedactor(fn func(string) string) {
	globalRedactMu.Lock()
	defer globalRedactMu.Unlock()
	globalRedact = append(globalRedact, fn)
}

// Log logs a message at a specific level
func (l *Logger) Log(level LogLevel, msg string, args ...interface{}) {
	if level < l.level() {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	var callerInfo string
	if l.showCaller {
		_, file, line, ok := runtime.Caller(2)
		if ok {
			parts := strings.Split(file, "/")
			if len(parts) > 3 {
				file = strings.Join(parts[len(parts)-3:], "/")
			}
			callerInfo = fmt.Sprintf("%s:%d", file, line)
		}
	}

	levelName := levelNames[level]
	levelColor := levelColors[level]
	levelEmoji := levelEmojis[level]
	resetColor := "\033[0m"
	if !colorEnabled() {
		levelColor, resetColor = "", ""
	}

	formattedMsg := fmt.Sprintf(msg, args...)
	for _, redact := range l.redactors {
		formattedMsg = redact(formattedMsg)
	}
	globalRedactMu.RLock()
	for _, redact := range globalRedact {
		formattedMsg = redact(formattedMsg)
	}
	globalRedactMu.RUnlock()

	logLine := fmt.Sprintf("%s%s%s %s %s",
		levelColor, levelName, resetColor,
		levelEmoji,
		formattedMsg)

	if callerInfo != "" {
		if colorEnabled() {
			logLine += fmt.Sprintf(" \033[90m(%s)\033[0m", callerInfo)
		} else {
			logLine += fmt.Sprintf(" (%s)", callerInfo)
		}
	}

	l.logger.Println(logLine)

	logFileMu.Lock()
	if logFile != nil {
		plain := fmt.Sprintf("%s %s %s %s",
			time.Now().Format("2006/01/02 15:04:05"),
			levelName,
			l.logger.Prefix(),
			ansiPattern.ReplaceAllString(formattedMsg, ""))
		fmt.Fprintln(logFile, plain)
	}
	logFileMu.Unlock()
}

// Debug logs a debug message
func (l *Logger) Debug(msg string, args ...interface{}) {
	l.Log(LevelDebug, msg, args...)
}

// Info logs an info message
func (l *Logger) Info(msg string, args ...interface{}) {
	l.Log(LevelInfo, msg, args...)
}

// Warn logs a warning message
func (l *Logger) Warn(msg string, args ...interface{}) {
	l.Log(LevelWarn, msg, args...)
}

// Error logs an error message
func (l *Logger) Error(msg string, args ...interface{}) {
	l.Log(LevelError, msg, args...)
}

// Fatal logs a fatal message and exits
func (l *Logger) Fatal(msg string, args ...interface{}) {
	l.Log(LevelFatal, msg, args...)
	os.Exit(1)
}

// Success logs a success message
func (l *Logger) Success(msg string, args ...interface{}) {
	l.Log(LevelSuccess, msg, args...)
}

// WithPrefix returns a new Logger writing to the same destination with
// the specified prefix. The derived logger follows the parent's level
// until SetLevel is called on it directly.
func (l *Logger) WithPrefix(prefix string) *Logger {
	l.mu.Lock()
	defer l.mu.Unlock()

	return &Logger{
		minLevel:   l.minLevel,
		parent:     l,
		logger:     log.New(l.logger.Writer(), prefix, l.logger.Flags()),
		showCaller: l.showCaller,
		redactors:  l.redactors,
	}
}

// PackageLogger creates a logger with a package-specific display prefix
func PackageLogger(pkgName string, displayName string) *Logger {
	return Global().WithPrefix(displayName + " ")
}

// Timed logs the duration of a function execution
func (l *Logger) Timed(label string, fn func()) {
	start := time.Now()
	l.Info("⏳ Starting %s...", label)
	fn()
	l.Info("✅ Completed %s in %v", label, time.Since(start))
}
