package logging

import (
	"github.com/sirupsen/logrus"

	"github.com/Swind/go-timed-worker/core"
)

// Logrus adapts a logrus FieldLogger to core.Logger.
type Logrus struct {
	L logrus.FieldLogger
}

var _ core.Logger = Logrus{}

// Debug logs a debug message with the given fields.
func (l Logrus) Debug(msg string, fields ...core.Field) {
	l.entry(fields).Debug(msg)
}

// Info logs an info message with the given fields.
func (l Logrus) Info(msg string, fields ...core.Field) {
	l.entry(fields).Info(msg)
}

// Warn logs a warning message with the given fields.
func (l Logrus) Warn(msg string, fields ...core.Field) {
	l.entry(fields).Warn(msg)
}

// Error logs an error message with the given fields.
func (l Logrus) Error(msg string, fields ...core.Field) {
	l.entry(fields).Error(msg)
}

func (l Logrus) entry(fields []core.Field) logrus.FieldLogger {
	if len(fields) == 0 {
		return l.L
	}
	out := make(logrus.Fields, len(fields))
	for _, f := range fields {
		out[f.Key] = f.Value
	}
	return l.L.WithFields(out)
}
