// Package messageml compiles chat message markup. Authoring markup or its
// presentation rendering goes in; validated presentation markup, a markdown
// projection, the entity envelope and the legacy entity index come out.
package messageml

import (
	"context"
	"errors"

	rendercmd "github.com/goliatone/go-messageml/internal/commands/render"
	"github.com/goliatone/go-messageml/internal/di"
	"github.com/goliatone/go-messageml/internal/entities"
	"github.com/goliatone/go-messageml/internal/faults"
	"github.com/goliatone/go-messageml/internal/markdown"
	"github.com/goliatone/go-messageml/internal/pipeline"
	"github.com/goliatone/go-messageml/pkg/interfaces"
)

// ErrPreviewDisabled is returned by Preview when the preview feature is off.
var ErrPreviewDisabled = errors.New("messageml: preview feature disabled")

type (
	Request       = pipeline.Request
	LegacyRequest = pipeline.LegacyRequest
	Result        = pipeline.Result

	Annotation     = entities.Annotation
	AnnotationKind = entities.AnnotationKind
	Envelope       = entities.Envelope
	Entry          = entities.Entry
	Index          = entities.Index

	User             = interfaces.User
	IdentityProvider = interfaces.IdentityProvider
	Logger           = interfaces.Logger
	LoggerProvider   = interfaces.LoggerProvider

	RenderMessageCommand   = rendercmd.RenderMessageCommand
	RenderLegacyCommand    = rendercmd.RenderLegacyCommand
	RenderDirectoryCommand = rendercmd.RenderDirectoryCommand
	ResultSink             = rendercmd.ResultSink
	CommandHandlers        = rendercmd.HandlerSet

	Option = di.Option
)

const (
	AnnotationURL     = entities.AnnotationURL
	AnnotationMention = entities.AnnotationMention
	AnnotationHashtag = entities.AnnotationHashtag
	AnnotationCashtag = entities.AnnotationCashtag
	AnnotationEmoji   = entities.AnnotationEmoji
)

var (
	WithLoggerProvider      = di.WithLoggerProvider
	WithLogWriter           = di.WithLogWriter
	WithIdentity            = di.WithIdentity
	WithEmoji               = di.WithEmoji
	WithTokens              = di.WithTokens
	WithTemplates           = di.WithTemplates
	WithInstrumentationSink = di.WithInstrumentationSink
	WithCommandRegistry     = di.WithCommandRegistry
	WithResultSink          = di.WithResultSink
)

// Module is the compiler runtime.
type Module struct {
	container *di.Container
}

// New validates cfg and builds a module from it.
func New(cfg Config, opts ...Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the wiring for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Parse compiles an authoring or presentation message.
func (m *Module) Parse(ctx context.Context, req Request) (*Result, error) {
	return m.container.Service().Parse(ctx, req)
}

// ParseLegacy compiles plain text with entity annotations.
func (m *Module) ParseLegacy(ctx context.Context, req LegacyRequest) (*Result, error) {
	return m.container.Service().ParseLegacy(ctx, req)
}

// Commands returns the go-command handlers bound to this module.
func (m *Module) Commands() *CommandHandlers {
	return m.container.Commands()
}

// Preview renders a markdown projection to HTML with the configured
// preview settings.
func (m *Module) Preview(md string) ([]byte, error) {
	cfg := m.container.Config
	if !cfg.Features.Preview {
		return nil, ErrPreviewDisabled
	}
	return markdown.Preview([]byte(md), markdown.PreviewOptions{
		Extensions: cfg.Preview.Extensions,
		HardWraps:  cfg.Preview.HardWraps,
		SafeMode:   cfg.Preview.SafeMode,
	})
}

func IsSyntax(err error) bool           { return faults.IsSyntax(err) }
func IsTemplating(err error) bool       { return faults.IsTemplating(err) }
func IsInvalidStructure(err error) bool { return faults.IsInvalidStructure(err) }
func IsInvariant(err error) bool        { return faults.IsInvariant(err) }

// ErrorMessage returns the user facing message of a compiler error.
func ErrorMessage(err error) string { return faults.Message(err) }
