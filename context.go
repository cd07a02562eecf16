package cosign

import (
	"context"

	"github.com/tendermint/tendermint/libs/log"
)

// DefaultLogger is used for all context that have not
// set anything themselves
var DefaultLogger = log.NewNopLogger()

type contextKey int // local to the cosign module

const (
	contextKeyLogger contextKey = iota
)

// WithLogger sets the logger for this context
func WithLogger(ctx context.Context, logger log.Logger) context.Context {
	return context.WithValue(ctx, contextKeyLogger, logger)
}

// WithLogInfo accepts keyvalue pairs, and returns another
// context like this, after passing all the keyvals to the
// Logger. A context without a logger is returned unchanged, so that
// components keep using their own logger.
func WithLogInfo(ctx context.Context, keyvals ...interface{}) context.Context {
	logger, ok := ContextLogger(ctx)
	if !ok {
		return ctx
	}
	return WithLogger(ctx, logger.With(keyvals...))
}

// GetLogger returns the currently set logger, or
// DefaultLogger if none was set
func GetLogger(ctx context.Context) log.Logger {
	if logger, ok := ContextLogger(ctx); ok {
		return logger
	}
	return DefaultLogger
}

// ContextLogger returns the logger set with WithLogger, if any.
func ContextLogger(ctx context.Context) (log.Logger, bool) {
	logger, ok := ctx.Value(contextKeyLogger).(log.Logger)
	return logger, ok
}

// LoggerOr returns given logger, or DefaultLogger when it is nil.
func LoggerOr(logger log.Logger) log.Logger {
	if logger == nil {
		return DefaultLogger
	}
	return logger
}
