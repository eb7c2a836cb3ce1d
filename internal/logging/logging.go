// Package logging builds the zap logger shared by the CLI, the controller and the backends.
package logging

import (
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configure New.
type Options struct {
	// Debug lowers the level to debug. Otherwise only warnings and errors are written.
	Debug bool

	// File, when set, sends output to a rotating log file instead of Writer.
	File string

	// Writer receives console output when File is empty (usually stderr).
	Writer io.Writer
}

// New builds a logger from opts.
// Console output uses a terse encoder; file output is JSON.
func New(opts Options) *zap.Logger {
	level := zapcore.WarnLevel
	if opts.Debug {
		level = zapcore.DebugLevel
	}

	encCfg := zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "message",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.MillisDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	var (
		encoder zapcore.Encoder
		sink    zapcore.WriteSyncer
	)
	if opts.File != "" {
		encoder = zapcore.NewJSONEncoder(encCfg)
		sink = zapcore.AddSync(&lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    10, // MB
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		})
	} else {
		if opts.Writer == nil {
			return zap.NewNop()
		}
		// Console lines stay short: no timestamp or caller on a terminal.
		encCfg.TimeKey = zapcore.OmitKey
		encCfg.CallerKey = zapcore.OmitKey
		encoder = zapcore.NewConsoleEncoder(encCfg)
		sink = zapcore.AddSync(opts.Writer)
	}

	return zap.New(zapcore.NewCore(encoder, sink, level))
}
