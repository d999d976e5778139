// Package logging provides core.Logger adapters for common structured
// logging backends.
package logging

import (
	"github.com/rs/zerolog"

	"github.com/Swind/go-timed-worker/core"
)

// Zerolog adapts a zerolog.Logger to core.Logger.
type Zerolog struct {
	L zerolog.Logger
}

var _ core.Logger = Zerolog{}

// Debug logs a debug message with the given fields.
func (z Zerolog) Debug(msg string, fields ...core.Field) {
	emit(z.L.Debug(), msg, fields)
}

// Info logs an info message with the given fields.
func (z Zerolog) Info(msg string, fields ...core.Field) {
	emit(z.L.Info(), msg, fields)
}

// Warn logs a warning message with the given fields.
func (z Zerolog) Warn(msg string, fields ...core.Field) {
	emit(z.L.Warn(), msg, fields)
}

// Error logs an error message with the given fields.
func (z Zerolog) Error(msg string, fields ...core.Field) {
	emit(z.L.Error(), msg, fields)
}

func emit(ev *zerolog.Event, msg string, fields []core.Field) {
	for _, f := range fields {
		switch v := f.Value.(type) {
		case error:
			ev = ev.AnErr(f.Key, v)
		default:
			ev = ev.Interface(f.Key, v)
		}
	}
	ev.Msg(msg)
}
