// Package di wires the compiler collaborators from runtime configuration.
package di

import (
	"fmt"
	"io"
	"strings"

	rendercmd "github.com/goliatone/go-messageml/internal/commands/render"
	"github.com/goliatone/go-messageml/internal/emoji"
	"github.com/goliatone/go-messageml/internal/identity"
	"github.com/goliatone/go-messageml/internal/instrument"
	"github.com/goliatone/go-messageml/internal/logging"
	"github.com/goliatone/go-messageml/internal/logging/console"
	"github.com/goliatone/go-messageml/internal/logging/gologger"
	"github.com/goliatone/go-messageml/internal/pipeline"
	"github.com/goliatone/go-messageml/internal/rules"
	"github.com/goliatone/go-messageml/internal/runtimeconfig"
	"github.com/goliatone/go-messageml/internal/templating"
	"github.com/goliatone/go-messageml/pkg/interfaces"
)

// Container holds the configured collaborators. Overrides supplied as
// options win over anything derived from Config.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider
	logWriter      io.Writer
	registry       *rules.Registry
	identity       interfaces.IdentityProvider
	emoji          interfaces.EmojiTable
	tokens         interfaces.TokenGenerator
	templates      interfaces.TemplatePreprocessor
	sink           interfaces.InstrumentationSink
	commandReg     rendercmd.CommandRegistry
	resultSink     rendercmd.ResultSink

	service  *pipeline.Service
	commands *rendercmd.HandlerSet
}

type Option func(*Container)

func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) { c.loggerProvider = provider }
}

// WithLogWriter redirects the console provider, stderr otherwise.
func WithLogWriter(w io.Writer) Option {
	return func(c *Container) { c.logWriter = w }
}

func WithRegistry(registry *rules.Registry) Option {
	return func(c *Container) { c.registry = registry }
}

func WithIdentity(provider interfaces.IdentityProvider) Option {
	return func(c *Container) { c.identity = provider }
}

func WithEmoji(table interfaces.EmojiTable) Option {
	return func(c *Container) { c.emoji = table }
}

func WithTokens(tokens interfaces.TokenGenerator) Option {
	return func(c *Container) { c.tokens = tokens }
}

func WithTemplates(templates interfaces.TemplatePreprocessor) Option {
	return func(c *Container) { c.templates = templates }
}

func WithInstrumentationSink(sink interfaces.InstrumentationSink) Option {
	return func(c *Container) { c.sink = sink }
}

// WithCommandRegistry registers the render handlers with reg.
func WithCommandRegistry(reg rendercmd.CommandRegistry) Option {
	return func(c *Container) { c.commandReg = reg }
}

// WithResultSink receives results produced through the command handlers.
func WithResultSink(sink rendercmd.ResultSink) Option {
	return func(c *Container) { c.resultSink = sink }
}

func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Container{Config: cfg}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if err := c.configureLoggerProvider(); err != nil {
		return nil, err
	}
	c.configureCollaborators()

	c.service = pipeline.NewService(
		pipeline.WithConfig(cfg),
		pipeline.WithLoggerProvider(c.loggerProvider),
		pipeline.WithRegistry(c.registry),
		pipeline.WithIdentity(c.identity),
		pipeline.WithEmoji(c.emoji),
		pipeline.WithTokens(c.tokens),
		pipeline.WithTemplates(c.templates),
		pipeline.WithSink(c.sink),
	)

	set, err := rendercmd.RegisterRenderCommands(c.commandReg, c.service, c.loggerProvider, c.resultSink)
	if err != nil {
		return nil, fmt.Errorf("register render commands: %w", err)
	}
	c.commands = set
	return c, nil
}

func (c *Container) configureLoggerProvider() error {
	if c.loggerProvider != nil || !c.Config.Features.Logger {
		return nil
	}
	logCfg := c.Config.Logging
	switch strings.ToLower(strings.TrimSpace(logCfg.Provider)) {
	case "gologger":
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     logCfg.Level,
			Format:    logCfg.Format,
			AddSource: logCfg.AddSource,
			Focus:     logCfg.Focus,
		})
		if err != nil {
			return err
		}
		c.loggerProvider = provider
	default:
		level, err := console.ParseLevel(logCfg.Level)
		if err != nil {
			return err
		}
		c.loggerProvider = console.NewProvider(console.Options{Writer: c.logWriter, Level: level})
	}
	return nil
}

func (c *Container) configureCollaborators() {
	if c.registry == nil {
		c.registry = rules.DefaultRegistry()
	}
	if c.emoji == nil {
		if strings.EqualFold(strings.TrimSpace(c.Config.Emoji.Table), runtimeconfig.EmojiNone) {
			c.emoji = emoji.None{}
		} else {
			c.emoji = emoji.NewGitHubTable(c.Config.Emoji.Aliases)
		}
	}
	if c.tokens == nil {
		if strings.EqualFold(strings.TrimSpace(c.Config.Tokens.Strategy), runtimeconfig.TokensDeterministic) {
			c.tokens = identity.NewDeterministicTokens(c.Config.Tokens.Seed)
		} else {
			c.tokens = identity.NewRandomTokens()
		}
	}
	if c.templates == nil {
		c.templates = templating.NewPongo()
	}
	if c.sink == nil {
		c.sink = instrument.NoOpSink()
	}
}

// LoggerProvider returns the configured provider, nil when logging is off.
func (c *Container) LoggerProvider() interfaces.LoggerProvider { return c.loggerProvider }

// Logger returns a logger for module, a no-op one when logging is off.
func (c *Container) Logger(module string) interfaces.Logger {
	return logging.ModuleLogger(c.loggerProvider, module)
}

func (c *Container) Service() *pipeline.Service { return c.service }

func (c *Container) Commands() *rendercmd.HandlerSet { return c.commands }

func (c *Container) Registry() *rules.Registry { return c.registry }

func (c *Container) Emoji() interfaces.EmojiTable { return c.emoji }
