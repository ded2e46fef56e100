// Package rendercmd exposes the compiler as go-command handlers.
package rendercmd

import (
	"context"
	"errors"
	"io/fs"
	"os"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-messageml/internal/commands"
	"github.com/goliatone/go-messageml/internal/document"
	"github.com/goliatone/go-messageml/internal/logging"
	"github.com/goliatone/go-messageml/internal/pipeline"
	"github.com/goliatone/go-messageml/pkg/interfaces"
)

const (
	messageOperation   = "render.message"
	legacyOperation    = "render.legacy"
	directoryOperation = "render.directory"
)

// ErrNoCompiler is returned by registration without a compiler.
var ErrNoCompiler = errors.New("render command: compiler is nil")

// Compiler is the subset of the pipeline service the handlers need.
type Compiler interface {
	Parse(ctx context.Context, req pipeline.Request) (*pipeline.Result, error)
	ParseLegacy(ctx context.Context, req pipeline.LegacyRequest) (*pipeline.Result, error)
}

// ResultSink receives every compiled message with the name of its source.
type ResultSink func(ctx context.Context, source string, result *pipeline.Result) error

func discard(context.Context, string, *pipeline.Result) error { return nil }

var (
	_ command.Commander[RenderMessageCommand]   = (*RenderMessageHandler)(nil)
	_ command.Commander[RenderLegacyCommand]    = (*RenderLegacyHandler)(nil)
	_ command.Commander[RenderDirectoryCommand] = (*RenderDirectoryHandler)(nil)
)

type RenderMessageHandler struct {
	inner *commands.Handler[RenderMessageCommand]
}

func NewRenderMessageHandler(compiler Compiler, logger interfaces.Logger, sink ResultSink, opts ...commands.HandlerOption[RenderMessageCommand]) *RenderMessageHandler {
	logger = ensureLogger(logger)
	if sink == nil {
		sink = discard
	}

	exec := func(ctx context.Context, msg RenderMessageCommand) error {
		result, err := compiler.Parse(ctx, msg.request())
		if err != nil {
			return err
		}
		return sink(ctx, msg.Document, result)
	}

	handlerOpts := []commands.HandlerOption[RenderMessageCommand]{
		commands.WithLogger[RenderMessageCommand](logger),
		commands.WithOperation[RenderMessageCommand](messageOperation),
		commands.WithMessageFields(func(msg RenderMessageCommand) map[string]any {
			fields := map[string]any{"markup_bytes": len(msg.Markup)}
			if msg.Document != "" {
				fields["document"] = msg.Document
			}
			if msg.Format != "" {
				fields["format"] = msg.Format
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[RenderMessageCommand](logger)),
	}
	return &RenderMessageHandler{inner: commands.NewHandler(exec, append(handlerOpts, opts...)...)}
}

func (h *RenderMessageHandler) Execute(ctx context.Context, msg RenderMessageCommand) error {
	return h.inner.Execute(ctx, msg)
}

type RenderLegacyHandler struct {
	inner *commands.Handler[RenderLegacyCommand]
}

func NewRenderLegacyHandler(compiler Compiler, logger interfaces.Logger, sink ResultSink, opts ...commands.HandlerOption[RenderLegacyCommand]) *RenderLegacyHandler {
	logger = ensureLogger(logger)
	if sink == nil {
		sink = discard
	}

	exec := func(ctx context.Context, msg RenderLegacyCommand) error {
		result, err := compiler.ParseLegacy(ctx, msg.request())
		if err != nil {
			return err
		}
		return sink(ctx, msg.Document, result)
	}

	handlerOpts := []commands.HandlerOption[RenderLegacyCommand]{
		commands.WithLogger[RenderLegacyCommand](logger),
		commands.WithOperation[RenderLegacyCommand](legacyOperation),
		commands.WithMessageFields(func(msg RenderLegacyCommand) map[string]any {
			return map[string]any{
				"text_bytes":  len(msg.Text),
				"annotations": len(msg.Annotations),
			}
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[RenderLegacyCommand](logger)),
	}
	return &RenderLegacyHandler{inner: commands.NewHandler(exec, append(handlerOpts, opts...)...)}
}

func (h *RenderLegacyHandler) Execute(ctx context.Context, msg RenderLegacyCommand) error {
	return h.inner.Execute(ctx, msg)
}

// RenderDirectoryHandler loads documents with a document.Loader and compiles
// each one in path order.
type RenderDirectoryHandler struct {
	inner *commands.Handler[RenderDirectoryCommand]
}

// NewRenderDirectoryHandler reads from fsys, or from the operating system
// when fsys is nil.
func NewRenderDirectoryHandler(compiler Compiler, fsys fs.FS, logger interfaces.Logger, sink ResultSink, opts ...commands.HandlerOption[RenderDirectoryCommand]) *RenderDirectoryHandler {
	logger = ensureLogger(logger)
	if sink == nil {
		sink = discard
	}

	exec := func(ctx context.Context, msg RenderDirectoryCommand) error {
		root, dir := fsys, msg.Directory
		if root == nil {
			root, dir = os.DirFS(msg.Directory), "."
		}
		loader := document.NewLoader(root, document.LoaderConfig{Pattern: msg.Pattern, Recursive: msg.Recursive})
		loaded, err := loader.LoadDir(ctx, dir)
		if err != nil {
			return err
		}

		var first error
		failed := 0
		for _, item := range loaded {
			doc := item.Document
			result, err := compiler.Parse(ctx, pipeline.Request{
				Markup:   doc.Markup,
				Data:     doc.FrontMatter.Data,
				Version:  doc.FrontMatter.Version,
				Format:   doc.FrontMatter.Format,
				Document: doc.Path,
			})
			if err == nil {
				err = sink(ctx, doc.Path, result)
			}
			if err != nil {
				failed++
				logging.WithFields(logger, map[string]any{
					"document": doc.Path,
					"error":    err,
				}).Warn("messageml.commands.render.document_failed")
				if first == nil {
					first = err
				}
				if !msg.ContinueOnError {
					return err
				}
			}
		}

		logging.WithFields(logger, map[string]any{
			"documents": len(loaded),
			"failed":    failed,
		}).Info("messageml.commands.render.directory_completed")
		return first
	}

	handlerOpts := []commands.HandlerOption[RenderDirectoryCommand]{
		commands.WithLogger[RenderDirectoryCommand](logger),
		commands.WithOperation[RenderDirectoryCommand](directoryOperation),
		commands.WithTimeout[RenderDirectoryCommand](0),
		commands.WithMessageFields(func(msg RenderDirectoryCommand) map[string]any {
			return map[string]any{
				"directory": msg.Directory,
				"recursive": msg.Recursive,
			}
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[RenderDirectoryCommand](logger)),
	}
	return &RenderDirectoryHandler{inner: commands.NewHandler(exec, append(handlerOpts, opts...)...)}
}

func (h *RenderDirectoryHandler) Execute(ctx context.Context, msg RenderDirectoryCommand) error {
	return h.inner.Execute(ctx, msg)
}

func ensureLogger(logger interfaces.Logger) interfaces.Logger {
	if logger == nil {
		return logging.NoOp()
	}
	return logger
}
