package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/fatih/color"
)

// Logger wraps a few log.Logger instances in private fields.
// They are accessible via their respective methods.
type Logger struct {
	debug   *log.Logger
	info    *log.Logger
	warn    *log.Logger
	error   *log.Logger
	verbose bool
	actions bool

	warnPrefix  *color.Color
	errorPrefix *color.Color
}

// NewLogger returns a reference to a Logger writing to the process streams.
// By default debug, warnings and errors go to os.Stderr, and info goes to os.Stdout.
//
// When actions is set, debug, warning and error lines are written as GitHub Actions
// workflow commands so the runner can annotate them. Debug lines are then always
// emitted; the runner decides whether to show them.
func NewLogger(verbose, actions bool) *Logger {
	return New(os.Stdout, os.Stderr, verbose, actions)
}

// New returns a Logger writing info to stdout and everything else to stderr.
func New(stdout, stderr io.Writer, verbose, actions bool) *Logger {
	l := &Logger{
		debug:       log.New(stderr, "", 0),
		info:        log.New(stdout, "", 0),
		warn:        log.New(stderr, "", 0),
		error:       log.New(stderr, "", 0),
		verbose:     verbose,
		actions:     actions,
		warnPrefix:  color.New(color.FgYellow, color.Bold),
		errorPrefix: color.New(color.FgRed, color.Bold),
	}
	if stderr != os.Stderr || actions {
		l.warnPrefix.DisableColor()
		l.errorPrefix.DisableColor()
	}
	return l
}

// Verbose reports whether debug output is enabled.
func (l *Logger) Verbose() bool {
	return l.verbose
}

// Debug prints a formatted message to stderr only if verbose is set or when running
// under GitHub Actions.
func (l *Logger) Debug(format string, args ...interface{}) {
	switch {
	case l.actions:
		l.debug.Print(command("debug", format, args...))
	case l.verbose:
		l.debug.Printf(format, args...)
	}
}

// Info prints all args to stdout.
// This method wraps log.Logger.Print
func (l *Logger) Info(args ...interface{}) {
	l.info.Print(args...)
}

// Infof prints a formatted message to stdout
func (l *Logger) Infof(format string, args ...interface{}) {
	l.info.Printf(format, args...)
}

// Warnf prints a formatted warning to stderr.
func (l *Logger) Warnf(format string, args ...interface{}) {
	if l.actions {
		l.warn.Print(command("warning", format, args...))
		return
	}
	l.warn.Print(l.warnPrefix.Sprint("Warning: "), sprintf(format, args...))
}

// Error prints a message and the given error's message to stderr.
// Nothing is printed for a nil error.
func (l *Logger) Error(msg string, err error) {
	if err == nil {
		return
	}
	l.Errorf("%s%s", msg, err.Error())
}

// Errorf prints a formatted error to stderr.
func (l *Logger) Errorf(format string, args ...interface{}) {
	if l.actions {
		l.error.Print(command("error", format, args...))
		return
	}
	l.error.Print(l.errorPrefix.Sprint("Error: "), sprintf(format, args...))
}

func sprintf(format string, args ...interface{}) string {
	if len(args) == 0 {
		return format
	}
	return strings.TrimSuffix(fmt.Sprintf(format, args...), "\n")
}

// command formats a workflow command. Message data is escaped the way the Actions
// runner expects so multi-line messages stay in one annotation.
func command(name, format string, args ...interface{}) string {
	msg := sprintf(format, args...)
	msg = strings.NewReplacer("%", "%25", "\r", "%0D", "\n", "%0A").Replace(msg)
	return "::" + name + "::" + msg
}
