package gologger

import (
	"context"
	"testing"

	glog "github.com/goliatone/go-logger/glog"

	"github.com/goliatone/go-messageml/pkg/interfaces"
)

func TestNewProviderRejectsUnknownSettings(t *testing.T) {
	if _, err := NewProvider(Config{Level: "loud"}); err == nil {
		t.Fatal("expected error for unknown level")
	}
	if _, err := NewProvider(Config{Format: "xml"}); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestProviderServesModuleLoggers(t *testing.T) {
	p, err := NewProvider(Config{Level: "debug", Format: "console", Focus: []string{" messageml.pipeline "}})
	if err != nil {
		t.Fatalf("NewProvider: %v", err)
	}
	logger := p.GetLogger("messageml.pipeline")
	if logger == nil {
		t.Fatal("expected logger")
	}
	logger.(interfaces.FieldsLogger).WithFields(map[string]any{"module": "messageml.pipeline"}).Debug("messageml.pipeline.ready")
}

func TestAdapterDelegates(t *testing.T) {
	stub := &stubLogger{}
	adapted := adapt(stub)

	adapted.Trace("t")
	adapted.Debug("d")
	adapted.Info("i")
	adapted.Warn("w")
	adapted.Error("e")
	adapted.Fatal("f")
	if len(stub.calls) != 6 || stub.calls[0] != "trace" || stub.calls[5] != "fatal" {
		t.Fatalf("unexpected calls %v", stub.calls)
	}

	fields := map[string]any{"kind": "mention"}
	adapted.(interfaces.FieldsLogger).WithFields(fields)
	fields["kind"] = "emoji"
	if len(stub.fields) != 1 || stub.fields[0]["kind"] != "mention" {
		t.Fatalf("expected cloned fields, got %v", stub.fields)
	}

	ctx := context.WithValue(context.Background(), struct{}{}, "v")
	adapted.WithContext(ctx)
	if len(stub.contexts) != 1 || stub.contexts[0] != ctx {
		t.Fatalf("expected context propagation, got %v", stub.contexts)
	}
}

type stubLogger struct {
	calls    []string
	fields   []map[string]any
	contexts []context.Context
}

var (
	_ glog.Logger       = (*stubLogger)(nil)
	_ glog.FieldsLogger = (*stubLogger)(nil)
)

func (s *stubLogger) Trace(string, ...any) { s.calls = append(s.calls, "trace") }
func (s *stubLogger) Debug(string, ...any) { s.calls = append(s.calls, "debug") }
func (s *stubLogger) Info(string, ...any)  { s.calls = append(s.calls, "info") }
func (s *stubLogger) Warn(string, ...any)  { s.calls = append(s.calls, "warn") }
func (s *stubLogger) Error(string, ...any) { s.calls = append(s.calls, "error") }
func (s *stubLogger) Fatal(string, ...any) { s.calls = append(s.calls, "fatal") }

func (s *stubLogger) WithContext(ctx context.Context) glog.Logger {
	s.contexts = append(s.contexts, ctx)
	return s
}

func (s *stubLogger) WithFields(fields map[string]any) glog.Logger {
	s.fields = append(s.fields, fields)
	return s
}
