package di

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/goliatone/go-messageml/internal/emoji"
	"github.com/goliatone/go-messageml/internal/identity"
	"github.com/goliatone/go-messageml/internal/instrument"
	"github.com/goliatone/go-messageml/internal/logging/console"
	"github.com/goliatone/go-messageml/internal/logging/gologger"
	"github.com/goliatone/go-messageml/internal/pipeline"
	"github.com/goliatone/go-messageml/internal/runtimeconfig"
	"github.com/goliatone/go-messageml/pkg/interfaces"
)

type recordingRegistry struct{ handlers []any }

func (r *recordingRegistry) RegisterCommand(handler any) error {
	r.handlers = append(r.handlers, handler)
	return nil
}

func TestNewContainerDefaults(t *testing.T) {
	c, err := NewContainer(runtimeconfig.DefaultConfig())
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}
	if c.LoggerProvider() != nil {
		t.Fatal("expected logging to be off by default")
	}
	if _, ok := c.Emoji().(*emoji.Table); !ok {
		t.Fatalf("expected the github table, got %T", c.Emoji())
	}
	if c.Service() == nil || c.Commands() == nil || c.Registry() == nil {
		t.Fatal("expected service, commands and registry")
	}
}

func TestNewContainerRejectsInvalidConfig(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Tokens.Strategy = "sequential"
	if _, err := NewContainer(cfg); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestConfigureLoggerProviderUsesConsole(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Features.Logger = true
	cfg.Logging.Level = "debug"

	var buf bytes.Buffer
	c, err := NewContainer(cfg, WithLogWriter(&buf))
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}
	if _, ok := c.LoggerProvider().(*console.Provider); !ok {
		t.Fatalf("expected console provider, got %T", c.LoggerProvider())
	}

	if _, err := c.Service().Parse(context.Background(), pipeline.Request{Markup: "<messageML>x</messageML>"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !strings.Contains(buf.String(), "messageml.pipeline.parsed") {
		t.Fatalf("expected pipeline log entry, got %q", buf.String())
	}
}

func TestConfigureLoggerProviderUsesGoLoggerAdapter(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Features.Logger = true
	cfg.Logging.Provider = "gologger"
	cfg.Logging.Level = "debug"
	cfg.Logging.Format = "json"

	c, err := NewContainer(cfg)
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}
	provider, ok := c.LoggerProvider().(*gologger.Provider)
	if !ok {
		t.Fatalf("expected go-logger provider, got %T", c.LoggerProvider())
	}
	if provider.GetLogger("messageml.test") == nil {
		t.Fatal("expected logger from go-logger provider")
	}
}

func TestContainerHonoursOverrides(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Tokens.Strategy = runtimeconfig.TokensDeterministic
	cfg.Tokens.Seed = "fixed"

	sink := &instrument.MemorySink{}
	reg := &recordingRegistry{}
	directory := identity.NewDirectory(interfaces.User{ID: 5, DisplayName: "Ann"})
	c, err := NewContainer(cfg,
		WithIdentity(directory),
		WithInstrumentationSink(sink),
		WithCommandRegistry(reg),
	)
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}
	if len(reg.handlers) != 3 {
		t.Fatalf("expected render handlers to be registered, got %d", len(reg.handlers))
	}

	result, err := c.Service().Parse(context.Background(), pipeline.Request{
		Markup: `<messageML><mention uid="5"/><dialog id="d"><title>T</title><body>B</body></dialog></messageML>`,
	})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !strings.HasPrefix(result.Markdown, "@Ann") {
		t.Fatalf("expected resolved mention, got %q", result.Markdown)
	}
	token := identity.NewDeterministicTokens("fixed").Next()
	if !strings.Contains(result.Presentation, `id="`+token+`-d"`) {
		t.Fatalf("expected seeded token in %s", result.Presentation)
	}
	if len(sink.Batches()) != 1 {
		t.Fatalf("expected one instrumentation batch, got %d", len(sink.Batches()))
	}
}
