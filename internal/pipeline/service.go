// Package pipeline runs a message through parsing, validation, entity
// resolution and rendering.
package pipeline

import (
	"context"
	"regexp"
	"strings"
	"time"
	"unicode/utf16"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goccy/go-json"

	"github.com/goliatone/go-messageml/internal/emoji"
	"github.com/goliatone/go-messageml/internal/entities"
	"github.com/goliatone/go-messageml/internal/faults"
	"github.com/goliatone/go-messageml/internal/identity"
	"github.com/goliatone/go-messageml/internal/instrument"
	"github.com/goliatone/go-messageml/internal/logging"
	"github.com/goliatone/go-messageml/internal/markup"
	"github.com/goliatone/go-messageml/internal/node"
	"github.com/goliatone/go-messageml/internal/presentation"
	"github.com/goliatone/go-messageml/internal/rules"
	"github.com/goliatone/go-messageml/internal/runtimeconfig"
	"github.com/goliatone/go-messageml/internal/templating"
	"github.com/goliatone/go-messageml/internal/util"
	"github.com/goliatone/go-messageml/pkg/interfaces"
)

var versionPattern = regexp.MustCompile(`^\d+(\.\d+)*$`)

// Request is one authoring or presentation message to compile.
type Request struct {
	Markup string
	// EntityJSON is the caller entity envelope. Data is used instead when set.
	EntityJSON []byte
	Data       map[string]any
	// Version overrides the data-version written to the output.
	Version string
	// Format restricts the accepted input format when set.
	Format string
	// Document names the source in log entries.
	Document string
}

func (r Request) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Markup, validation.Required.Error("message is empty")),
		validation.Field(&r.Version, validation.Match(versionPattern).Error("must look like 2.0")),
		validation.Field(&r.Format, validation.By(func(value any) error {
			if _, ok := node.ParseFormat(value.(string)); !ok {
				return validation.NewError("validation_format_unknown", "must be MessageML or PresentationML")
			}
			return nil
		})),
	)
}

// LegacyRequest is a plain text message with entity annotations.
type LegacyRequest struct {
	Text        string
	Annotations []entities.Annotation
	EntityJSON  []byte
	Data        map[string]any
	Version     string
	Document    string
}

func (r LegacyRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Version, validation.Match(versionPattern).Error("must look like 2.0")),
	)
}

// Result carries every output of a compiled message.
type Result struct {
	Tree            *node.Tree
	Format          node.Format
	Version         string
	Presentation    string
	Markdown        string
	Envelope        entities.Envelope
	Index           entities.Index
	Instrumentation []interfaces.InstrumentationItem
}

// Service compiles messages. It is safe for concurrent use when its
// collaborators are.
type Service struct {
	registry  *rules.Registry
	builder   *markup.Builder
	validator *rules.Validator
	renderer  *presentation.Renderer
	identity  interfaces.IdentityProvider
	emoji     interfaces.EmojiTable
	tokens    interfaces.TokenGenerator
	templates interfaces.TemplatePreprocessor
	sink      interfaces.InstrumentationSink
	logger    interfaces.Logger
	config    runtimeconfig.Config
}

// ServiceOption customises the service.
type ServiceOption func(*Service)

func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithLoggerProvider scopes the service logger to the pipeline module.
func WithLoggerProvider(provider interfaces.LoggerProvider) ServiceOption {
	return func(s *Service) {
		if provider != nil {
			s.logger = logging.PipelineLogger(provider)
		}
	}
}

func WithRegistry(registry *rules.Registry) ServiceOption {
	return func(s *Service) {
		if registry != nil {
			s.registry = registry
		}
	}
}

// WithIdentity resolves mention keys into directory users.
func WithIdentity(provider interfaces.IdentityProvider) ServiceOption {
	return func(s *Service) {
		s.identity = provider
	}
}

func WithEmoji(table interfaces.EmojiTable) ServiceOption {
	return func(s *Service) {
		if table != nil {
			s.emoji = table
		}
	}
}

func WithTokens(tokens interfaces.TokenGenerator) ServiceOption {
	return func(s *Service) {
		if tokens != nil {
			s.tokens = tokens
		}
	}
}

func WithTemplates(templates interfaces.TemplatePreprocessor) ServiceOption {
	return func(s *Service) {
		if templates != nil {
			s.templates = templates
		}
	}
}

func WithSink(sink interfaces.InstrumentationSink) ServiceOption {
	return func(s *Service) {
		if sink != nil {
			s.sink = sink
		}
	}
}

// WithConfig replaces the runtime settings. Collaborators are not derived
// from it here; see the root package constructor for that.
func WithConfig(cfg runtimeconfig.Config) ServiceOption {
	return func(s *Service) {
		s.config = cfg
	}
}

func NewService(opts ...ServiceOption) *Service {
	s := &Service{
		registry:  rules.DefaultRegistry(),
		emoji:     emoji.None{},
		tokens:    identity.NewRandomTokens(),
		templates: templating.NewPongo(),
		sink:      instrument.NoOpSink(),
		logger:    logging.NoOp(),
		config:    runtimeconfig.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if !s.config.Templates.Enabled {
		s.templates = templating.Passthrough{}
	}
	s.builder = markup.NewBuilder(s.registry)
	s.validator = rules.NewValidator(s.registry)
	s.renderer = presentation.NewRenderer(s.registry, presentation.WithTokens(s.tokens))
	return s
}

// Registry exposes the element catalog in use.
func (s *Service) Registry() *rules.Registry { return s.registry }

// Parse compiles an authoring or presentation message.
func (s *Service) Parse(ctx context.Context, req Request) (*Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := logging.WithFields(
		logging.WithMessageContext(s.baseLogger(ctx), req.Format, req.Version, req.Document),
		map[string]any{"operation": "pipeline.parse"},
	)
	start := time.Now()

	if err := req.Validate(); err != nil {
		return nil, s.fail(logger, faults.Structure("Invalid request: "+err.Error()))
	}

	supplied, err := s.envelope(req.EntityJSON, req.Data)
	if err != nil {
		return nil, s.fail(logger, err)
	}
	data, err := templateData(req.EntityJSON, req.Data)
	if err != nil {
		return nil, s.fail(logger, err)
	}

	expanded, err := s.templates.Expand(ctx, req.Markup, data)
	if err != nil {
		return nil, s.fail(logger, err)
	}

	doc, err := markup.Parse(ctx, expanded)
	if err != nil {
		return nil, s.fail(logger, err)
	}
	if strings.TrimSpace(req.Format) != "" {
		want, _ := node.ParseFormat(req.Format)
		if doc.Format != want {
			return nil, s.fail(logger, faults.Structuref("Expected %s input, got %s", want, doc.Format))
		}
	}

	tree, err := s.builder.Build(doc, supplied)
	if err != nil {
		return nil, s.fail(logger, err)
	}

	version := util.FirstNonEmpty(req.Version, doc.Version, s.config.Format.Version)
	result, err := s.compile(ctx, logger, tree, supplied, version, expanded)
	if err != nil {
		return nil, s.fail(logger, err)
	}

	logging.WithFields(logger, map[string]any{
		"format":      result.Format.String(),
		"entities":    len(result.Envelope),
		"duration_ms": time.Since(start).Milliseconds(),
	}).Info("messageml.pipeline.parsed")
	return result, nil
}

// ParseLegacy rebuilds a message from plain text and its annotations, then
// compiles it like an authoring message.
func (s *Service) ParseLegacy(ctx context.Context, req LegacyRequest) (*Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := logging.WithFields(
		logging.WithMessageContext(s.baseLogger(ctx), node.MessageML.String(), req.Version, req.Document),
		map[string]any{"operation": "pipeline.parse_legacy"},
	)
	start := time.Now()

	if err := req.Validate(); err != nil {
		return nil, s.fail(logger, faults.Structure("Invalid request: "+err.Error()))
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	supplied, err := s.envelope(req.EntityJSON, req.Data)
	if err != nil {
		return nil, s.fail(logger, err)
	}

	annotations := append([]entities.Annotation(nil), req.Annotations...)
	entities.SortAnnotations(annotations)
	tree, err := entities.Reconstruct(req.Text, annotations, supplied)
	if err != nil {
		return nil, s.fail(logger, err)
	}

	version := util.FirstNonEmpty(req.Version, s.config.Format.Version)
	result, err := s.compile(ctx, logger, tree, supplied, version, req.Text)
	if err != nil {
		return nil, s.fail(logger, err)
	}

	logging.WithFields(logger, map[string]any{
		"annotations": len(annotations),
		"entities":    len(result.Envelope),
		"duration_ms": time.Since(start).Milliseconds(),
	}).Info("messageml.pipeline.parsed_legacy")
	return result, nil
}

// compile runs the shared tail: cross validation, resolution, structural
// validation and rendering. The tree is frozen before any output is made.
func (s *Service) compile(ctx context.Context, logger interfaces.Logger, tree *node.Tree, supplied entities.Envelope, version, source string) (*Result, error) {
	if err := entities.CrossValidate(tree, supplied); err != nil {
		return nil, err
	}
	if !s.config.Entities.TolerateUnreferenced {
		if keys := entities.Unreferenced(tree, supplied); len(keys) > 0 {
			return nil, faults.Structuref("Error processing EntityJSON: no element refers to %q", keys[0])
		}
	}
	if err := s.resolve(ctx, logger, tree); err != nil {
		return nil, err
	}

	acc := instrument.NewAccumulator()
	if err := s.validator.Validate(tree, acc); err != nil {
		return nil, err
	}
	acc.Finish(len(utf16.Encode([]rune(source))))
	if err := s.renderer.Bind(tree); err != nil {
		return nil, err
	}
	tree.Freeze()

	rendered, err := s.renderer.Render(tree, version)
	if err != nil {
		return nil, err
	}
	extraction, err := entities.Extract(tree, supplied)
	if err != nil {
		return nil, err
	}

	items := acc.Items()
	if s.config.Features.Instrumentation {
		s.sink.Record(ctx, items)
	}

	return &Result{
		Tree:            tree,
		Format:          tree.Format(),
		Version:         util.FirstNonEmpty(version, presentation.DefaultVersion),
		Presentation:    rendered,
		Markdown:        extraction.Markdown,
		Envelope:        extraction.Envelope,
		Index:           extraction.Index,
		Instrumentation: items,
	}, nil
}

// resolve enriches mention and emoji payloads. A miss leaves the payload as
// it is and is only logged.
func (s *Service) resolve(ctx context.Context, logger interfaces.Logger, tree *node.Tree) error {
	return tree.Walk(func(id node.ID, _ int) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		switch p := tree.Node(id).Payload.(type) {
		case *node.MentionPayload:
			if s.identity == nil || p.User != nil || p.Key == "" {
				return nil
			}
			user, err := s.identity.Lookup(ctx, p.Key)
			if err != nil || user == nil {
				s.miss(logger, faults.ResolutionMiss("mention", p.Key, err))
				return nil
			}
			return tree.SetPayload(id, &node.MentionPayload{Key: p.Key, User: user})
		case *node.EmojiPayload:
			if p.Unicode != "" {
				return nil
			}
			glyph, ok := s.emoji.Resolve(p.Shortcode)
			if !ok {
				s.miss(logger, faults.ResolutionMiss("emoji", p.Shortcode, nil))
				return nil
			}
			resolved := *p
			resolved.Unicode = glyph
			return tree.SetPayload(id, &resolved)
		}
		return nil
	})
}

func (s *Service) envelope(raw []byte, data map[string]any) (entities.Envelope, error) {
	if data != nil {
		return entities.EnvelopeFromMap(data, s.config.Entities.ValidateSchema)
	}
	return entities.DecodeEnvelope(raw, s.config.Entities.ValidateSchema)
}

func templateData(raw []byte, data map[string]any) (map[string]any, error) {
	if data != nil {
		return util.CloneAnyMap(data), nil
	}
	if len(strings.TrimSpace(string(raw))) == 0 {
		return map[string]any{}, nil
	}
	out := map[string]any{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, faults.Structure("Error parsing EntityJSON: " + err.Error())
	}
	return out, nil
}

func (s *Service) miss(logger interfaces.Logger, err error) {
	logging.WithError(logger, err).Debug("messageml.pipeline.resolution_miss")
}

func (s *Service) fail(logger interfaces.Logger, err error) error {
	logging.WithError(logger, err).Warn("messageml.pipeline.parse_failed")
	return err
}

func (s *Service) baseLogger(ctx context.Context) interfaces.Logger {
	logger := s.logger
	if logger == nil {
		logger = logging.NoOp()
	}
	if ctx != nil {
		logger = logger.WithContext(ctx)
	}
	return logger
}
