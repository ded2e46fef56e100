package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-messageml/internal/faults"
)

type pingMessage struct{ Body string }

func (pingMessage) Type() string { return "messageml.test.ping" }

func (m pingMessage) Validate() error {
	if m.Body == "" {
		return errors.New("body is required")
	}
	return nil
}

func TestHandlerExecuteSuccess(t *testing.T) {
	called := false
	h := NewHandler(func(ctx context.Context, msg pingMessage) error {
		called = true
		return nil
	})

	if err := h.Execute(context.Background(), pingMessage{Body: "x"}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !called {
		t.Fatal("expected handler to be invoked")
	}
}

func TestHandlerValidationShortCircuitsExecution(t *testing.T) {
	called := false
	h := NewHandler(func(ctx context.Context, msg pingMessage) error {
		called = true
		return nil
	})

	err := h.Execute(context.Background(), pingMessage{})
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
	if called {
		t.Fatal("expected handler not to run when validation fails")
	}
}

func TestHandlerContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	h := NewHandler(func(ctx context.Context, msg pingMessage) error {
		t.Fatal("expected handler not to run when context is cancelled")
		return nil
	})

	err := h.Execute(ctx, pingMessage{Body: "x"})
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
}

func TestHandlerWrapsExecutionError(t *testing.T) {
	h := NewHandler(func(ctx context.Context, msg pingMessage) error {
		return errors.New("boom")
	})

	err := h.Execute(context.Background(), pingMessage{Body: "x"})
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
}

func TestHandlerKeepsCompilerFaults(t *testing.T) {
	h := NewHandler(func(ctx context.Context, msg pingMessage) error {
		return faults.Structure("Invalid MessageML content")
	})

	err := h.Execute(context.Background(), pingMessage{Body: "x"})
	if !faults.IsInvalidStructure(err) {
		t.Fatalf("expected structure fault to pass through, got %v", err)
	}
}

func TestHandlerHonoursTimeoutOption(t *testing.T) {
	h := NewHandler(func(ctx context.Context, msg pingMessage) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(200 * time.Millisecond):
			return nil
		}
	}, WithTimeout[pingMessage](10*time.Millisecond))

	err := h.Execute(context.Background(), pingMessage{Body: "x"})
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category for timeout, got %v", err)
	}
}

func TestHandlerTelemetryReceivesFields(t *testing.T) {
	var info TelemetryInfo
	h := NewHandler(func(ctx context.Context, msg pingMessage) error { return nil },
		WithOperation[pingMessage]("ping"),
		WithMessageFields(func(msg pingMessage) map[string]any {
			return map[string]any{"body": msg.Body}
		}),
		WithTelemetry(func(_ context.Context, _ pingMessage, got TelemetryInfo) { info = got }),
	)

	if err := h.Execute(context.Background(), pingMessage{Body: "hello"}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if info.Status != TelemetryStatusSuccess || info.Command != "messageml.test.ping" || info.Operation != "ping" {
		t.Fatalf("unexpected telemetry %+v", info)
	}
	if info.Fields["body"] != "hello" {
		t.Fatalf("expected message fields, got %v", info.Fields)
	}
}

func TestTelemetryStatusEvents(t *testing.T) {
	cases := map[TelemetryStatus]string{
		TelemetryStatusSuccess:      "command.execute.success",
		TelemetryStatusFailed:       "command.execute.failed",
		TelemetryStatusContextError: "command.execute.context_error",
	}
	for status, want := range cases {
		if got := status.Event(); got != want {
			t.Fatalf("expected %s, got %s", want, got)
		}
	}
}
