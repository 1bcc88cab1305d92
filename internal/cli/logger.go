package cli

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/SscSPs/nonprofit_ledger/internal/middleware"
)

// newLogger returns a console logger on w at the named level
// (trace, debug, info, warn, error).
func newLogger(level string, w io.Writer) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return zerolog.Nop(), err
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339, NoColor: true}).
		Level(lvl).
		With().
		Timestamp().
		Logger(), nil
}

// serviceContext carries the slog logger the core services read from the
// context. Service logs only surface at debug level.
func serviceContext(ctx context.Context, log zerolog.Logger, w io.Writer) context.Context {
	if log.GetLevel() > zerolog.DebugLevel {
		return middleware.WithLogger(ctx, slog.New(slog.NewTextHandler(io.Discard, nil)))
	}
	return middleware.WithLogger(ctx, slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})))
}
