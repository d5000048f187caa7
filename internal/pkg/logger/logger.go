package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps a sugared zap logger
type Logger struct {
	SugaredLogger *zap.SugaredLogger
}

// std is replaced by Init; until then logging is discarded
var std = &Logger{SugaredLogger: zap.NewNop().Sugar()}

// NewLogger builds a development or production logger
func NewLogger(dev bool) (*Logger, error) {
	config := zap.NewProductionConfig()
	if dev {
		config = zap.NewDevelopmentConfig()
	}
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, err := config.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, err
	}
	return &Logger{SugaredLogger: logger.Sugar()}, nil
}

// Init installs the process-wide logger
func Init(dev bool) error {
	l, err := NewLogger(dev)
	if err != nil {
		return err
	}
	std = l
	return nil
}

// Set installs l as the process-wide logger
func Set(l *Logger) {
	if l != nil {
		std = l
	}
}

// Get returns the process-wide logger
func Get() *Logger {
	return std
}

func (l *Logger) Infof(format string, args ...interface{}) {
	l.SugaredLogger.Infof(format, args...)
}

func (l *Logger) Warnf(format string, args ...interface{}) {
	l.SugaredLogger.Warnf(format, args...)
}

func (l *Logger) Errorf(format string, args ...interface{}) {
	l.SugaredLogger.Errorf(format, args...)
}

func (l *Logger) Fatalf(format string, args ...interface{}) {
	l.SugaredLogger.Fatalf(format, args...)
}

func Infof(format string, args ...interface{})  { std.Infof(format, args...) }
func Warnf(format string, args ...interface{})  { std.Warnf(format, args...) }
func Errorf(format string, args ...interface{}) { std.Errorf(format, args...) }
func Fatalf(format string, args ...interface{}) { std.Fatalf(format, args...) }

// Sync flushes buffered entries
func Sync() {
	_ = std.SugaredLogger.Sync()
}
