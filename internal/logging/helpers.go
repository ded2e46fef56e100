package logging

import (
	"maps"

	"github.com/goliatone/go-messageml/pkg/interfaces"
)

// WithFields scopes logger to fields when it implements
// interfaces.FieldsLogger and returns it unchanged otherwise.
func WithFields(logger interfaces.Logger, fields map[string]any) interfaces.Logger {
	scoped, ok := logger.(interfaces.FieldsLogger)
	if !ok || len(fields) == 0 {
		return logger
	}
	return scoped.WithFields(maps.Clone(fields))
}

// WithError records err under the "error" key. A nil err is ignored.
func WithError(logger interfaces.Logger, err error) interfaces.Logger {
	if err == nil {
		return logger
	}
	return WithFields(logger, map[string]any{"error": err})
}
