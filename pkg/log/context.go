package log

import (
	"context"

	"github.com/rs/zerolog"
)

type loggerKey struct{}

// WithLogger returns a copy of ctx carrying logger.
func WithLogger(ctx context.Context, logger zerolog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// ConnContext derives a context whose logger is tagged with a realtime
// connection and the event being handled.
func ConnContext(parent context.Context, connID, event string) context.Context {
	l := Ctx(parent).With().
		Str(FieldConnID, connID).
		Str(FieldEvent, event).
		Logger()
	return WithLogger(parent, l)
}

// Ctx returns the context logger, or the global one.
func Ctx(ctx context.Context) zerolog.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(loggerKey{}).(zerolog.Logger); ok {
			return l
		}
	}
	return L()
}
