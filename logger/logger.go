package logger

import (
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	global *zap.SugaredLogger
	once   sync.Once
)

// Init builds the global logger. Console output always; when jsonPath is
// non-empty a JSON copy of every entry is appended there as well.
func Init(debug bool, jsonPath string) error {
	var initErr error
	once.Do(func() {
		level := zapcore.InfoLevel
		if debug {
			level = zapcore.DebugLevel
		}

		encCfg := zap.NewProductionEncoderConfig()
		encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder

		cores := []zapcore.Core{
			zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(os.Stderr), level),
		}

		if jsonPath != "" {
			f, err := os.OpenFile(jsonPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
			if err != nil {
				initErr = err
				return
			}
			cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(f), level))
		}

		global = zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddCallerSkip(1)).Sugar()
	})
	return initErr
}

// L returns the global sugared logger, initializing a console-only
// logger on first use if Init was never called (tests, one-shot CLI).
func L() *zap.SugaredLogger {
	if global == nil {
		_ = Init(false, "")
	}
	return global
}

func Debugw(msg string, kv ...any) { L().Debugw(msg, kv...) }
func Infow(msg string, kv ...any)  { L().Infow(msg, kv...) }
func Warnw(msg string, kv ...any)  { L().Warnw(msg, kv...) }
func Errorw(msg string, kv ...any) { L().Errorw(msg, kv...) }

// Sync flushes buffered log entries. Safe to call at process exit.
func Sync() {
	if global != nil {
		_ = global.Sync()
	}
}
