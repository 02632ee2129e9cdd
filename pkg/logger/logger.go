// Package logger holds the process-wide zap logger and the small printf-style
// helpers the rest of the agent logs through.
package logger

import (
	"fmt"
	"log"
	"os"
	"sync"

	"network-rrd/pkg/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	mu   sync.RWMutex
	base = zap.NewNop()
)

// New builds a logger from cfg. Output goes to a rotated file when cfg.File is
// set, to stderr otherwise; stdout is reserved for the report.
func New(cfg config.Logging) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	var encoder zapcore.Encoder
	switch cfg.Format {
	case "console", "":
		encoder = zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	case "json":
		encoder = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	default:
		return nil, fmt.Errorf("invalid log format %q: must be \"json\" or \"console\"", cfg.Format)
	}

	var sink zapcore.WriteSyncer
	if cfg.File != "" {
		sink = zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSize, // megabytes
			MaxBackups: cfg.MaxBackups,
			Compress:   cfg.Compress,
		})
	} else {
		sink = zapcore.Lock(os.Stderr)
	}

	return zap.New(zapcore.NewCore(encoder, sink, level), zap.AddCaller()), nil
}

func SetDefault(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	mu.Lock()
	base = l
	mu.Unlock()
}

func L() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return base
}

// StdLog adapts the logger for libraries that want a *log.Logger; lines are
// written at debug level.
func StdLog() *log.Logger {
	l, err := zap.NewStdLogAt(L(), zapcore.DebugLevel)
	if err != nil {
		return zap.NewStdLog(L())
	}
	return l
}

func Printf(format string, args ...interface{}) {
	L().WithOptions(zap.AddCallerSkip(1)).Sugar().Infof(format, args...)
}

func LogIfErr(err error) {
	if err != nil {
		L().WithOptions(zap.AddCallerSkip(1)).Error(err.Error())
	}
}

func Sync() {
	_ = L().Sync()
}
