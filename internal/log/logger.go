package log

import "strings"

// Logger is the logging capability handed to components that need to report
// recoverable problems.
type Logger interface {
	Printf(format string, args ...any)
	Warnf(format string, args ...any)
}

type debugLog struct{}

func (debugLog) Printf(format string, args ...any) { Printf(format, args...) }

func (debugLog) Warnf(format string, args ...any) { Warnf(format, args...) }

// Default returns a Logger writing to the package debug log.
func Default() Logger {
	return debugLog{}
}

type nopLogger struct{}

func (nopLogger) Printf(string, ...any) {}

func (nopLogger) Warnf(string, ...any) {}

// Nop returns a Logger that drops every message.
func Nop() Logger {
	return nopLogger{}
}

type taggedLogger struct {
	base   Logger
	prefix string
}

// Tagged returns a Logger that starts every message with the component and
// its subject, e.g. "[delete-branch feature/x] ".
func Tagged(base Logger, component, subject string) Logger {
	if base == nil {
		base = Nop()
	}
	tag := component
	if subject != "" {
		tag += " " + subject
	}
	// the tag becomes part of the format string
	prefix := "[" + strings.ReplaceAll(tag, "%", "%%") + "] "
	return taggedLogger{base: base, prefix: prefix}
}

func (l taggedLogger) Printf(format string, args ...any) {
	l.base.Printf(l.prefix+format, args...)
}

func (l taggedLogger) Warnf(format string, args ...any) {
	l.base.Warnf(l.prefix+format, args...)
}
