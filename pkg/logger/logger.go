// Package logger wraps logrus behind a small structured-logging interface
// shared by every storefront component.
package logger

import (
	"io"
	"net/http"
	"os"

	"github.com/sirupsen/logrus"
)

// LogField is a single structured key/value pair. Values are pre-rendered
// strings so that every backend formats them identically.
type LogField struct {
	Key   string
	Value string
}

// Logger is the logging contract passed to every component.
type Logger interface {
	Info(msg string, fields ...LogField)
	Error(msg string, fields ...LogField)
	Debug(msg string, fields ...LogField)
	Warn(msg string, fields ...LogField)
	WithFields(fields ...LogField) Logger
	WithCorrelationID(id string) Logger
	HTTPMiddleware(next http.Handler) http.Handler
}

// Config represents logger configuration
type Config struct {
	Level   Level
	Format  string    // "json" (default) or "text"
	Service string    // added to every entry as "service" when set
	Output  io.Writer // defaults to os.Stdout
}

type logger struct {
	entry  *logrus.Logger
	fields []LogField
}

// NewLogger creates a new logger instance with the given configuration
func NewLogger(cfg Config) Logger {
	base := logrus.New()

	switch cfg.Format {
	case "text":
		base.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		base.SetFormatter(&logrus.JSONFormatter{})
	}

	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}
	base.SetOutput(out)
	base.SetLevel(cfg.Level.logrusLevel())

	l := &logger{entry: base}
	if cfg.Service != "" {
		l.fields = []LogField{StringField("service", cfg.Service)}
	}
	return l
}

// NewNop returns a logger that discards everything. Handy for tests and for
// components constructed without an explicit logger.
func NewNop() Logger {
	return NewLogger(Config{Level: ErrorLevel, Output: io.Discard})
}

func (l *logger) WithFields(fields ...LogField) Logger {
	merged := make([]LogField, 0, len(l.fields)+len(fields))
	merged = append(merged, l.fields...)
	merged = append(merged, fields...)
	return &logger{entry: l.entry, fields: merged}
}

func (l *logger) WithCorrelationID(id string) Logger {
	return l.WithFields(CorrelationIDField(id))
}

func (l *logger) Info(msg string, fields ...LogField) {
	l.write(logrus.InfoLevel, msg, fields)
}

func (l *logger) Error(msg string, fields ...LogField) {
	l.write(logrus.ErrorLevel, msg, fields)
}

func (l *logger) Debug(msg string, fields ...LogField) {
	l.write(logrus.DebugLevel, msg, fields)
}

func (l *logger) Warn(msg string, fields ...LogField) {
	l.write(logrus.WarnLevel, msg, fields)
}

func (l *logger) write(level logrus.Level, msg string, extra []LogField) {
	if !l.entry.IsLevelEnabled(level) {
		return
	}
	data := make(logrus.Fields, len(l.fields)+len(extra))
	for _, f := range l.fields {
		data[f.Key] = f.Value
	}
	for _, f := range extra {
		data[f.Key] = f.Value
	}
	l.entry.WithFields(data).Log(level, msg)
}
