package mlog

import "go.uber.org/zap"

// ZapLogger is the zap-backed implementation of Logger used in every
// running binary. Tests use NopLogger instead.
type ZapLogger struct {
	Sugar *zap.SugaredLogger
}

// NewZapLogger builds a production zap configuration with an ISO8601
// timestamp and the given level, then wraps it as a Logger.
func NewZapLogger(level string) (*ZapLogger, error) {
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.TimeKey = "timestamp"

	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		lvl = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	cfg.Level = lvl

	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}

	return &ZapLogger{Sugar: logger.Sugar()}, nil
}

func (l *ZapLogger) Info(args ...any)                  { l.Sugar.Info(args...) }
func (l *ZapLogger) Infof(format string, args ...any)  { l.Sugar.Infof(format, args...) }
func (l *ZapLogger) Infoln(args ...any)                { l.Sugar.Infoln(args...) }
func (l *ZapLogger) Error(args ...any)                 { l.Sugar.Error(args...) }
func (l *ZapLogger) Errorf(format string, args ...any) { l.Sugar.Errorf(format, args...) }
func (l *ZapLogger) Errorln(args ...any)               { l.Sugar.Errorln(args...) }
func (l *ZapLogger) Warn(args ...any)                  { l.Sugar.Warn(args...) }
func (l *ZapLogger) Warnf(format string, args ...any)  { l.Sugar.Warnf(format, args...) }
func (l *ZapLogger) Warnln(args ...any)                { l.Sugar.Warnln(args...) }
func (l *ZapLogger) Debug(args ...any)                 { l.Sugar.Debug(args...) }
func (l *ZapLogger) Debugf(format string, args ...any) { l.Sugar.Debugf(format, args...) }
func (l *ZapLogger) Debugln(args ...any)               { l.Sugar.Debugln(args...) }
func (l *ZapLogger) Fatal(args ...any)                 { l.Sugar.Fatal(args...) }
func (l *ZapLogger) Fatalf(format string, args ...any) { l.Sugar.Fatalf(format, args...) }
func (l *ZapLogger) Fatalln(args ...any)               { l.Sugar.Fatalln(args...) }

func (l *ZapLogger) WithFields(fields ...any) Logger {
	return &ZapLogger{Sugar: l.Sugar.With(fields...)}
}

func (l *ZapLogger) Sync() error { return l.Sugar.Sync() }
