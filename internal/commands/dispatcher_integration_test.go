package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-command/dispatcher"
	"github.com/goliatone/go-command/runner"

	"github.com/goliatone/go-messageml/internal/faults"
)

type dispatchedMessage struct {
	Markup string
}

func (dispatchedMessage) Type() string { return "messageml.test.dispatched" }

func (dispatchedMessage) Validate() error { return nil }

func TestDispatchRetriesTransientFailures(t *testing.T) {
	calls := 0
	handler := NewHandler(func(context.Context, dispatchedMessage) error {
		calls++
		if calls == 1 {
			return errors.New("identity backend unavailable")
		}
		return nil
	}, WithTimeout[dispatchedMessage](time.Second))

	sub := dispatcher.SubscribeCommand(handler, runner.WithMaxRetries(1))
	defer sub.Unsubscribe()

	if err := dispatcher.Dispatch(context.Background(), dispatchedMessage{Markup: "<messageML/>"}); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected a retry, got %d calls", calls)
	}
}

func TestDispatchSurfacesCompilerMessages(t *testing.T) {
	handler := NewHandler(func(context.Context, dispatchedMessage) error {
		return faults.Structure(`Invalid MessageML content at element "blink"`)
	})

	sub := dispatcher.SubscribeCommand(handler)
	defer sub.Unsubscribe()

	err := dispatcher.Dispatch(context.Background(), dispatchedMessage{Markup: "<messageML><blink/></messageML>"})
	if !faults.IsInvalidStructure(err) {
		t.Fatalf("expected structure error through the dispatcher, got %v", err)
	}
	if got := faults.Message(err); got != `Invalid MessageML content at element "blink"` {
		t.Fatalf("unexpected message %q", got)
	}
}
