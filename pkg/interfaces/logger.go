package interfaces

import "context"

// Logger is the leveled logger every package writes to. The method set
// matches github.com/goliatone/go-logger so its loggers plug in directly.
type Logger interface {
	Trace(msg string, args ...any)
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	Fatal(msg string, args ...any)
	WithContext(ctx context.Context) Logger
}

// FieldsLogger is implemented by loggers that can carry structured fields.
type FieldsLogger interface {
	WithFields(fields map[string]any) Logger
}

// LoggerProvider hands out a logger per module name.
type LoggerProvider interface {
	GetLogger(name string) Logger
}
