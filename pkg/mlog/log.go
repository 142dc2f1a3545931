// Package mlog defines the logging interface every service in this
// repository depends on. No component ever imports zap directly;
// everything depends on Logger so a test can substitute NopLogger.
package mlog

// Logger is the common interface for log implementations.
type Logger interface {
	Info(args ...any)
	Infof(format string, args ...any)
	Infoln(args ...any)

	Error(args ...any)
	Errorf(format string, args ...any)
	Errorln(args ...any)

	Warn(args ...any)
	Warnf(format string, args ...any)
	Warnln(args ...any)

	Debug(args ...any)
	Debugf(format string, args ...any)
	Debugln(args ...any)

	Fatal(args ...any)
	Fatalf(format string, args ...any)
	Fatalln(args ...any)

	// WithFields returns a new Logger with the given structured
	// key/value pairs attached to every subsequent entry.
	WithFields(fields ...any) Logger

	Sync() error
}
