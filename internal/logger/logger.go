// Package logger builds the process logger and hands request-scoped copies
// to resolvers through the context.
package logger

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New creates the process logger for env. prod writes JSON; local, dev and
// docker write console lines. Everything goes to stderr: stdout belongs to
// documents written by the fetch command.
// A non-empty level (debug, info, warn, error) overrides the env default.
func New(env, level string) (*zap.Logger, error) {
	var cfg zap.Config
	switch env {
	case "prod":
		cfg = zap.NewProductionConfig()
		cfg.InitialFields = map[string]any{"service": "patchwork"}
	case "local", "dev":
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	case "docker":
		cfg = zap.NewDevelopmentConfig()
	default:
		return nil, fmt.Errorf("unknown environment %q for logger", env)
	}
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	if level != "" {
		var lvl zapcore.Level
		if err := lvl.UnmarshalText([]byte(level)); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", level, err)
		}
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}

	l, err := cfg.Build(zap.AddStacktrace(zapcore.ErrorLevel))
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return l, nil
}

type requestKey struct{}

// WithRequest derives the logger for one HTTP request, tagged with its id,
// and stores it in ctx for the resolvers that serve the request.
func WithRequest(ctx context.Context, base *zap.Logger, requestID string) (context.Context, *zap.Logger) {
	l := base.With(zap.String("request_id", requestID))
	return ContextWithLogger(ctx, l), l
}

// ContextWithLogger stores l as the request logger.
func ContextWithLogger(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, requestKey{}, l)
}

// FromContext returns the request logger. Resolvers called outside an HTTP
// request, e.g. by the fetch command, get a no-op logger.
func FromContext(ctx context.Context) *zap.Logger {
	if l, ok := ctx.Value(requestKey{}).(*zap.Logger); ok {
		return l
	}
	return zap.NewNop()
}
