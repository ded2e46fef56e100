package commands

import (
	"context"
	"time"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-messageml/internal/logging"
	"github.com/goliatone/go-messageml/pkg/interfaces"
)

// TelemetryStatus is the outcome of one execution.
type TelemetryStatus string

const (
	TelemetryStatusSuccess      TelemetryStatus = "success"
	TelemetryStatusFailed       TelemetryStatus = "failed"
	TelemetryStatusContextError TelemetryStatus = "context_error"
)

// Event is the log event name for the outcome.
func (s TelemetryStatus) Event() string {
	return "command.execute." + string(s)
}

// TelemetryInfo describes one finished execution. Logger is already scoped to
// Fields.
type TelemetryInfo struct {
	Command   string
	Operation string
	Fields    map[string]any
	Duration  time.Duration
	Error     error
	Status    TelemetryStatus
	Logger    interfaces.Logger
}

type Telemetry[T command.Message] func(ctx context.Context, msg T, info TelemetryInfo)

// DefaultTelemetry logs successes at info and everything else at error, with
// the duration in milliseconds. fallback is used only when the execution
// carries no logger of its own.
func DefaultTelemetry[T command.Message](fallback interfaces.Logger) Telemetry[T] {
	return func(_ context.Context, _ T, info TelemetryInfo) {
		logger := info.Logger
		if logger == nil {
			logger = logging.WithFields(ensure(fallback), info.Fields)
		}
		logger = logging.WithError(logger, info.Error)
		if info.Status == TelemetryStatusSuccess {
			logger.Info(info.Status.Event(), "duration_ms", info.Duration.Milliseconds())
			return
		}
		logger.Error(info.Status.Event(), "duration_ms", info.Duration.Milliseconds())
	}
}

func ensure(logger interfaces.Logger) interfaces.Logger {
	if logger == nil {
		return logging.NoOp()
	}
	return logger
}
