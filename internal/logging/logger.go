// Package logging provides the colored, leveled logger shared by anxietyd,
// anxietyctl and every internal package.
//
// Log calls are printf-style package functions so call sites stay short
// inside hot scheduler and device paths:
//
//	logging.Info("device %s: queue depth %d", name, depth)
//
// OUTPUT ROUTING:
//   - INFO and SUCCESS go to stdout
//   - WARN, ERROR and DEBUG go to stderr
//   - SetOutput(file) sends everything to a single file
//   - SetOutput(nil) silences all output
//
// THIRD-PARTY INTEGRATION:
// LevelWriter turns any io.Writer based logger (gin's default writers, the
// standard library log package) into lines on this logger at a fixed level.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	stdlog "log"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

var (
	// INFO/SUCCESS messages
	stdoutLogger = newLogger(os.Stdout)

	// WARN/ERROR/DEBUG messages
	stderrLogger = newLogger(os.Stderr)

	// Set once a CLI has called SuppressOutput or RestoreOutput
	cliConfigured = false

	// Non-nil when every level goes to the same destination
	sharedOutput io.Writer
)

// Level colors, kept in one place so Success can reuse the palette.
var levelColors = map[log.Level]struct {
	label string
	color string
}{
	log.DebugLevel: {"DEBUG", "#7F6DFF"},
	log.InfoLevel:  {"INFO", "#42E7FF"},
	log.WarnLevel:  {"WARN", "#FFE763"},
	log.ErrorLevel: {"ERROR", "#FF4473"},
}

const successColor = "#60F281"

func newLogger(w io.Writer) *log.Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
	})
	l.SetStyles(levelStyles())
	return l
}

// levelStyles builds the lipgloss styles for each level label.
func levelStyles() *log.Styles {
	styles := log.DefaultStyles()
	for level, c := range levelColors {
		styles.Levels[level] = lipgloss.NewStyle().
			SetString(c.label).
			Foreground(lipgloss.Color(c.color))
	}
	return styles
}

// useWriter points both loggers at w, keeping the current level.
func useWriter(w io.Writer) {
	level := stdoutLogger.GetLevel()
	sharedOutput = w
	stdoutLogger = newLogger(w)
	stderrLogger = newLogger(w)
	stdoutLogger.SetLevel(level)
	stderrLogger.SetLevel(level)
}

func stdoutDestination() io.Writer {
	if sharedOutput != nil {
		return sharedOutput
	}
	return os.Stdout
}

// Info logs routine operational messages.
func Info(format string, v ...any) {
	stdoutLogger.Info(fmt.Sprintf(format, v...))
}

// Warn logs conditions an operator should look at, such as a drained queue
// that still had requests at teardown.
func Warn(format string, v ...any) {
	stderrLogger.Warn(fmt.Sprintf(format, v...))
}

// Error logs failures.
func Error(format string, v ...any) {
	stderrLogger.Error(fmt.Sprintf(format, v...))
}

// Debug logs per-request detail. Dispatch and merge decisions log here.
func Debug(format string, v ...any) {
	stderrLogger.Debug(fmt.Sprintf(format, v...))
}

// Success logs a completed operation with a green SUCCESS label. It is
// filtered like INFO.
func Success(format string, v ...any) {
	if stdoutLogger.GetLevel() > log.InfoLevel {
		return
	}

	styles := levelStyles()
	styles.Levels[log.InfoLevel] = lipgloss.NewStyle().
		SetString("SUCCESS").
		Foreground(lipgloss.Color(successColor))

	l := log.NewWithOptions(stdoutDestination(), log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
	})
	l.SetStyles(styles)
	l.Info(fmt.Sprintf(format, v...))
}

// SetLevel sets the minimum level on both loggers. Unknown strings fall back
// to INFO; validate with ValidateLogLevel first when the input comes from a
// user.
func SetLevel(level string) {
	logLevel := parseLevel(level)
	stdoutLogger.SetLevel(logLevel)
	stderrLogger.SetLevel(logLevel)
}

func parseLevel(level string) log.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return log.DebugLevel
	case "WARN":
		return log.WarnLevel
	case "ERROR":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// IsDebug reports whether DEBUG messages are currently emitted.
func IsDebug() bool {
	return stderrLogger.GetLevel() <= log.DebugLevel
}

// SetOutput sends every level to w. A nil file suppresses all output.
func SetOutput(w *os.File) {
	if w == nil {
		stdoutLogger.SetLevel(log.FatalLevel + 1)
		stderrLogger.SetLevel(log.FatalLevel + 1)
		sharedOutput = nil
		return
	}
	useWriter(w)
}

// SuppressOutput keeps only ERROR messages. anxietyctl calls this unless
// --verbose is given.
func SuppressOutput() {
	stdoutLogger.SetLevel(log.ErrorLevel)
	stderrLogger.SetLevel(log.ErrorLevel)
	cliConfigured = true
}

// RestoreOutput resets both loggers to stdout/stderr at INFO.
func RestoreOutput() {
	sharedOutput = nil
	stdoutLogger = newLogger(os.Stdout)
	stderrLogger = newLogger(os.Stderr)
	stdoutLogger.SetLevel(log.InfoLevel)
	stderrLogger.SetLevel(log.InfoLevel)
	cliConfigured = true
}

// IsConfiguredByCLI returns true if logging has been explicitly configured by CLI tools.
func IsConfiguredByCLI() bool {
	return cliConfigured
}

// ============================================================================
// WRITER INTEGRATION - route io.Writer based loggers through this package
// ============================================================================

// LevelWriter forwards each written line to one level with an optional prefix.
type LevelWriter struct {
	level  string
	prefix string
}

// NewLevelWriter returns a writer that logs each line at level (DEBUG, INFO,
// WARN or ERROR) with prefix.
func NewLevelWriter(level, prefix string) io.Writer {
	return &LevelWriter{level: strings.ToUpper(level), prefix: prefix}
}

// Write splits p into lines and logs each non-blank one.
func (w *LevelWriter) Write(p []byte) (int, error) {
	for _, line := range strings.Split(string(p), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if w.prefix != "" {
			line = w.prefix + ": " + line
		}
		switch w.level {
		case "DEBUG":
			Debug("%s", line)
		case "WARN":
			Warn("%s", line)
		case "ERROR":
			Error("%s", line)
		default:
			Info("%s", line)
		}
	}
	return len(p), nil
}

// RedirectStandardLog sends the standard library logger to w, or discards
// it when w is nil.
func RedirectStandardLog(w io.Writer) {
	if w == nil {
		stdlog.SetOutput(io.Discard)
		return
	}
	stdlog.SetOutput(w)
}
