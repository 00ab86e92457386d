// Package logger configures structured logging: zap does the encoding and
// writing, callers see a logr.Logger.
package logger

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime/debug"
	"strings"
	"sync"
	"syscall"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"pullrefresh/internal/settings"
)

type loggerContextKey struct{}

const (
	CommitKey    = "commit"
	VersionKey   = "version"
	GoVersionKey = "go_version"
	TimeStampKey = "timestamp"
	MessageKey   = "message"
)

var (
	once sync.Once

	// globalZapLogger backs globalLogrLogger and is kept for Sync.
	globalZapLogger  *zap.Logger
	globalLogrLogger *logr.Logger

	defaultNoopLogger = logr.Discard()
)

// Get builds the global logger on first use and returns it. Later calls
// return the same logger regardless of arguments.
//
// The terminal belongs to the UI, so logs only go to a file: with an empty
// path the logger discards everything. logLevel follows logr verbosity, so
// 1 enables V(1) debug messages.
func Get(logLevel int8, path string) *logr.Logger {
	once.Do(func() {
		if path == "" {
			globalLogrLogger = &defaultNoopLogger
			return
		}
		sink, _, err := zap.Open(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "WARNING: cannot open log file %s: %v\n", path, err)
			globalLogrLogger = &defaultNoopLogger
			return
		}

		encoderCfg := zap.NewProductionEncoderConfig()
		encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		encoderCfg.TimeKey = TimeStampKey
		encoderCfg.MessageKey = MessageKey

		goVersion := "unknown"
		if bi, ok := debug.ReadBuildInfo(); ok {
			goVersion = bi.GoVersion
		}

		// logr verbosity V(n) maps to zap level -n.
		core := zapcore.NewCore(
			zapcore.NewJSONEncoder(encoderCfg),
			sink,
			zap.NewAtomicLevelAt(zapcore.Level(-logLevel)),
		).With([]zapcore.Field{
			zap.String(CommitKey, settings.VersionInformation.Commit),
			zap.String(VersionKey, settings.VersionInformation.BuildVersion),
			zap.String(GoVersionKey, goVersion),
		})

		globalZapLogger = zap.New(core,
			zap.AddCaller(),
			zap.AddStacktrace(zap.ErrorLevel),
		)
		gl := zapr.NewLogger(globalZapLogger)
		globalLogrLogger = &gl
	})
	if globalLogrLogger == nil {
		return &defaultNoopLogger
	}
	return globalLogrLogger
}

// WithLogger returns ctx carrying log.
func WithLogger(ctx context.Context, log *logr.Logger) context.Context {
	if lp, ok := ctx.Value(loggerContextKey{}).(*logr.Logger); ok && lp == log {
		return ctx
	}
	return context.WithValue(ctx, loggerContextKey{}, log)
}

// FromContext returns the logger in ctx, else the global logger, else a
// no-op logger.
func FromContext(ctx context.Context) *logr.Logger {
	if log, ok := ctx.Value(loggerContextKey{}).(*logr.Logger); ok {
		return log
	}
	if globalLogrLogger != nil {
		return globalLogrLogger
	}
	return &defaultNoopLogger
}

// Sync flushes buffered entries. Call it before exit.
func Sync() {
	if globalZapLogger == nil {
		return
	}
	if err := globalZapLogger.Sync(); err != nil && !isIgnorableSyncError(err) {
		fmt.Fprintf(os.Stderr, "WARNING: failed to sync zap logger: %v\n", err)
	}
}

// isIgnorableSyncError matches the errors Sync returns for pipes and TTYs.
func isIgnorableSyncError(err error) bool {
	if errors.Is(err, syscall.ENOTTY) || errors.Is(err, syscall.EINVAL) || errors.Is(err, syscall.EBADF) {
		return true
	}
	return strings.Contains(err.Error(), "The handle is invalid")
}

// GetNoopLogger returns a logger that discards everything.
func GetNoopLogger() *logr.Logger {
	return &defaultNoopLogger
}
