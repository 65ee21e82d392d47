// Package logging defines the structured, context-aware logger used by
// services and handlers.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// Logger takes key-value pairs after the message:
//
//	log.Info(ctx, "temple saved", "user_id", userID, "temple_id", templeID)
type Logger interface {
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)
	With(args ...any) Logger
}

// New returns a JSON logger writing to stdout.
func New() Logger {
	return NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))
}

// Discard drops everything. Handy in tests.
func Discard() Logger {
	return NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}
