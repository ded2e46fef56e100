package rendercmd

import (
	"io/fs"

	"github.com/goliatone/go-command/dispatcher"

	"github.com/goliatone/go-messageml/internal/commands"
	"github.com/goliatone/go-messageml/internal/logging"
	"github.com/goliatone/go-messageml/pkg/interfaces"
)

// CommandRegistry is the registration contract used when wiring handlers.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

type HandlerSet struct {
	Message   *RenderMessageHandler
	Legacy    *RenderLegacyHandler
	Directory *RenderDirectoryHandler
}

// Subscribe attaches every handler to the process wide dispatcher and
// returns a function that detaches them again.
func (s *HandlerSet) Subscribe() func() {
	subs := []interface{ Unsubscribe() }{
		dispatcher.SubscribeCommand(s.Message),
		dispatcher.SubscribeCommand(s.Legacy),
		dispatcher.SubscribeCommand(s.Directory),
	}
	return func() {
		for _, sub := range subs {
			sub.Unsubscribe()
		}
	}
}

type Option func(*options)

type options struct {
	fs            fs.FS
	messageOpts   []commands.HandlerOption[RenderMessageCommand]
	legacyOpts    []commands.HandlerOption[RenderLegacyCommand]
	directoryOpts []commands.HandlerOption[RenderDirectoryCommand]
}

// WithFS makes directory rendering read from fsys instead of the disk.
func WithFS(fsys fs.FS) Option {
	return func(o *options) { o.fs = fsys }
}

func WithMessageHandlerOptions(opts ...commands.HandlerOption[RenderMessageCommand]) Option {
	return func(o *options) { o.messageOpts = append(o.messageOpts, opts...) }
}

func WithLegacyHandlerOptions(opts ...commands.HandlerOption[RenderLegacyCommand]) Option {
	return func(o *options) { o.legacyOpts = append(o.legacyOpts, opts...) }
}

func WithDirectoryHandlerOptions(opts ...commands.HandlerOption[RenderDirectoryCommand]) Option {
	return func(o *options) { o.directoryOpts = append(o.directoryOpts, opts...) }
}

// RegisterRenderCommands builds the render handlers and, when reg is not nil,
// registers them with it.
func RegisterRenderCommands(reg CommandRegistry, compiler Compiler, provider interfaces.LoggerProvider, sink ResultSink, opts ...Option) (*HandlerSet, error) {
	if compiler == nil {
		return nil, ErrNoCompiler
	}
	cfg := options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	logger := logging.CommandLogger(provider, "render")
	set := &HandlerSet{
		Message:   NewRenderMessageHandler(compiler, logger, sink, cfg.messageOpts...),
		Legacy:    NewRenderLegacyHandler(compiler, logger, sink, cfg.legacyOpts...),
		Directory: NewRenderDirectoryHandler(compiler, cfg.fs, logger, sink, cfg.directoryOpts...),
	}

	if reg != nil {
		for _, h := range []any{set.Message, set.Legacy, set.Directory} {
			if err := reg.RegisterCommand(h); err != nil {
				return nil, err
			}
		}
	}
	return set, nil
}
