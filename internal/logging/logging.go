package logging

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

const (
	ModeProduction = "prod"
	ModeDebug      = "debug"
)

var logger = zap.NewNop()

func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger = l
}

// Build creates a logger for the given mode. Empty mode is treated as debug.
// The returned mode is the normalized one.
func Build(mode string, logFilePath string) (l *zap.Logger, normMode string, err error) {
	var cfg zap.Config
	switch mode {
	case ModeProduction:
		cfg = zap.NewProductionConfig()
	case ModeDebug, "":
		mode = ModeDebug
		cfg = zap.NewDevelopmentConfig()
	default:
		return nil, mode, fmt.Errorf("unknown mode %q: only %q, %q or empty are allowed", mode, ModeProduction, ModeDebug)
	}
	if logFilePath != "" {
		cfg.OutputPaths = append(cfg.OutputPaths, logFilePath)
	}
	l, err = cfg.Build()
	if err != nil {
		return nil, mode, fmt.Errorf("failed to build %s logger: %w", mode, err)
	}
	return l, mode, nil
}

type loggingCtxKey int

const (
	logKey = loggingCtxKey(iota)
)

func FromContextS(ctx context.Context) *zap.SugaredLogger {
	return FromContext(ctx).Sugar()
}

func FromContext(ctx context.Context) *zap.Logger {
	v := ctx.Value(logKey)
	if v == nil {
		return logger
	}
	if vlog, ok := v.(*zap.Logger); ok {
		return vlog
	} else {
		return logger
	}
}

func NewContextS(ctx context.Context, fields ...interface{}) (nctx context.Context) {
	nctx, _ = NewContextSL(ctx, fields...)
	return
}

func NewContextSL(ctx context.Context, fields ...interface{}) (nctx context.Context, slog *zap.SugaredLogger) {
	slog = FromContextS(ctx).With(fields...)
	nctx = context.WithValue(ctx, logKey, slog.Desugar())
	return
}

// CopyContext moves the logger of from into to. Used to detach long running
// work from a short-lived request context without losing its log fields.
func CopyContext(from, to context.Context) (nctx context.Context) {
	return context.WithValue(to, logKey, FromContext(from))
}
