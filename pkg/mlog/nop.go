package mlog

// NopLogger discards everything. Used in tests and anywhere a Logger
// is required but output is not wanted.
type NopLogger struct{}

func (l *NopLogger) Info(args ...any)                  {}
func (l *NopLogger) Infof(format string, args ...any)  {}
func (l *NopLogger) Infoln(args ...any)                {}
func (l *NopLogger) Error(args ...any)                 {}
func (l *NopLogger) Errorf(format string, args ...any) {}
func (l *NopLogger) Errorln(args ...any)               {}
func (l *NopLogger) Warn(args ...any)                  {}
func (l *NopLogger) Warnf(format string, args ...any)  {}
func (l *NopLogger) Warnln(args ...any)                {}
func (l *NopLogger) Debug(args ...any)                 {}
func (l *NopLogger) Debugf(format string, args ...any) {}
func (l *NopLogger) Debugln(args ...any)               {}
func (l *NopLogger) Fatal(args ...any)                 {}
func (l *NopLogger) Fatalf(format string, args ...any) {}
func (l *NopLogger) Fatalln(args ...any)               {}

func (l *NopLogger) WithFields(fields ...any) Logger { return l }
func (l *NopLogger) Sync() error                     { return nil }
