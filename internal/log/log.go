// Package log is a thin package-level facade over zap's sugared logger,
// so call sites can write log.Info("msg", "key", value) without threading
// a logger through every constructor.
package log

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var sugar *zap.SugaredLogger

func init() {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		panic(err)
	}
	sugar = l.Sugar()
}

// SetDebug switches the process logger to development settings.
func SetDebug() {
	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		panic(err)
	}
	sugar = l.Sugar()
}

func Debug(msg string, kv ...any) { sugar.Debugw(msg, kv...) }
func Info(msg string, kv ...any)  { sugar.Infow(msg, kv...) }
func Warn(msg string, kv ...any)  { sugar.Warnw(msg, kv...) }
func Error(msg string, kv ...any) { sugar.Errorw(msg, kv...) }
func Fatal(msg string, kv ...any) { sugar.Fatalw(msg, kv...) }

// Sync flushes buffered log entries; call before process exit.
func Sync() { _ = sugar.Sync() }
