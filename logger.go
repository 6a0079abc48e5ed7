package main

import (
	"io"
	"log/slog"

	"github.com/google/uuid"
)

// newRunLogger builds the stderr logger for a single run. Every record carries
// the run id so output from the HTTP and browser steps can be correlated.
func newRunLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
	})).With("run_id", uuid.NewString())
}
