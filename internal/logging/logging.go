// Package logging builds the process logger: zap for encoding and levels,
// lumberjack for the optional rotating file, exposed as a logr.Logger.
package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Options struct {
	// Level is one of debug, info, warn, error.
	Level string
	// File, when set, receives JSON logs with rotation.
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	// Development switches the console encoder to colored, human output.
	Development bool
	// Console overrides stderr.
	Console io.Writer
}

func DefaultOptions() Options {
	return Options{
		Level:      "info",
		MaxSizeMB:  10,
		MaxBackups: 3,
		MaxAgeDays: 28,
	}
}

// New returns the logger and a function that flushes it.
func New(opts Options) (logr.Logger, func(), error) {
	level, err := zapcore.ParseLevel(opts.Level)
	if err != nil {
		return logr.Discard(), func() {}, fmt.Errorf("logging: %w", err)
	}
	console := opts.Console
	if console == nil {
		console = os.Stderr
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	consoleCfg := encCfg
	if opts.Development {
		consoleCfg = zap.NewDevelopmentEncoderConfig()
		consoleCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(consoleCfg), zapcore.AddSync(console), level),
	}

	var fileLog *lumberjack.Logger
	if opts.File != "" {
		fileLog = &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAgeDays,
		}
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(fileLog), level))
	}

	zl := zap.New(zapcore.NewTee(cores...))
	flush := func() {
		_ = zl.Sync()
		if fileLog != nil {
			_ = fileLog.Close()
		}
	}
	return zapr.NewLogger(zl), flush, nil
}
