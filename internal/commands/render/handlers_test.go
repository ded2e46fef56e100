package rendercmd

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-messageml/internal/entities"
	"github.com/goliatone/go-messageml/internal/faults"
	"github.com/goliatone/go-messageml/internal/pipeline"
)

type collected struct {
	sources []string
	results []*pipeline.Result
}

func (c *collected) sink(_ context.Context, source string, result *pipeline.Result) error {
	c.sources = append(c.sources, source)
	c.results = append(c.results, result)
	return nil
}

type recordingRegistry struct {
	handlers []any
	err      error
}

func (r *recordingRegistry) RegisterCommand(handler any) error {
	if r.err != nil {
		return r.err
	}
	r.handlers = append(r.handlers, handler)
	return nil
}

func TestRenderMessageHandlerDeliversResult(t *testing.T) {
	out := &collected{}
	h := NewRenderMessageHandler(pipeline.NewService(), nil, out.sink)

	err := h.Execute(context.Background(), RenderMessageCommand{
		Markup:   `<messageML>Hi <hash tag="go"/></messageML>`,
		Document: "hello.mml",
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(out.results) != 1 || out.sources[0] != "hello.mml" {
		t.Fatalf("expected one delivered result, got %v", out.sources)
	}
	if out.results[0].Markdown != "Hi #go" {
		t.Fatalf("unexpected markdown %q", out.results[0].Markdown)
	}
}

func TestRenderMessageHandlerValidation(t *testing.T) {
	h := NewRenderMessageHandler(pipeline.NewService(), nil, nil)

	err := h.Execute(context.Background(), RenderMessageCommand{Markup: "   "})
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRenderMessageHandlerKeepsFaults(t *testing.T) {
	h := NewRenderMessageHandler(pipeline.NewService(), nil, nil)

	err := h.Execute(context.Background(), RenderMessageCommand{Markup: `<messageML><blink/></messageML>`})
	if !faults.IsInvalidStructure(err) {
		t.Fatalf("expected structure fault, got %v", err)
	}
}

func TestRenderLegacyHandler(t *testing.T) {
	out := &collected{}
	h := NewRenderLegacyHandler(pipeline.NewService(), nil, out.sink)

	err := h.Execute(context.Background(), RenderLegacyCommand{
		Text:        "ping @42",
		Annotations: []entities.Annotation{{Kind: entities.AnnotationMention, IndexStart: 5, IndexEnd: 8, Value: "42"}},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if out.results[0].Markdown != "ping @42" || len(out.results[0].Index.UserMentions) != 1 {
		t.Fatalf("unexpected result %+v", out.results[0])
	}

	err = h.Execute(context.Background(), RenderLegacyCommand{
		Text:        "x",
		Annotations: []entities.Annotation{{Kind: entities.AnnotationHashtag, IndexStart: 1, IndexEnd: 1}},
	})
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation error for an empty range, got %v", err)
	}
}

func TestRenderDirectoryHandler(t *testing.T) {
	fsys := fstest.MapFS{
		"inbox/a.mml": {Data: []byte("---\nversion: \"2.1\"\n---\n<messageML>a</messageML>")},
		"inbox/b.mml": {Data: []byte("<messageML>b</messageML>")},
		"inbox/c.txt": {Data: []byte("skip")},
	}
	out := &collected{}
	h := NewRenderDirectoryHandler(pipeline.NewService(), fsys, nil, out.sink)

	if err := h.Execute(context.Background(), RenderDirectoryCommand{Directory: "inbox"}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(out.sources) != 2 || out.sources[0] != "inbox/a.mml" || out.sources[1] != "inbox/b.mml" {
		t.Fatalf("unexpected sources %v", out.sources)
	}
	if out.results[0].Version != "2.1" {
		t.Fatalf("expected front matter version, got %q", out.results[0].Version)
	}
}

func TestRenderDirectoryHandlerContinueOnError(t *testing.T) {
	fsys := fstest.MapFS{
		"inbox/a.mml": {Data: []byte("<messageML><blink/></messageML>")},
		"inbox/b.mml": {Data: []byte("<messageML>b</messageML>")},
	}

	out := &collected{}
	h := NewRenderDirectoryHandler(pipeline.NewService(), fsys, nil, out.sink)
	err := h.Execute(context.Background(), RenderDirectoryCommand{Directory: "inbox", ContinueOnError: true})
	if !faults.IsInvalidStructure(err) {
		t.Fatalf("expected the first fault, got %v", err)
	}
	if len(out.sources) != 1 || out.sources[0] != "inbox/b.mml" {
		t.Fatalf("expected the valid document to be rendered, got %v", out.sources)
	}

	out = &collected{}
	h = NewRenderDirectoryHandler(pipeline.NewService(), fsys, nil, out.sink)
	if err := h.Execute(context.Background(), RenderDirectoryCommand{Directory: "inbox"}); err == nil {
		t.Fatal("expected error")
	}
	if len(out.sources) != 0 {
		t.Fatalf("expected processing to stop, got %v", out.sources)
	}
}

func TestRegisterRenderCommands(t *testing.T) {
	reg := &recordingRegistry{}
	set, err := RegisterRenderCommands(reg, pipeline.NewService(), nil, nil)
	if err != nil {
		t.Fatalf("RegisterRenderCommands: %v", err)
	}
	if len(reg.handlers) != 3 || set.Message == nil || set.Legacy == nil || set.Directory == nil {
		t.Fatalf("expected three registered handlers, got %d", len(reg.handlers))
	}

	if _, err := RegisterRenderCommands(nil, nil, nil, nil); !errors.Is(err, ErrNoCompiler) {
		t.Fatalf("expected ErrNoCompiler, got %v", err)
	}

	boom := errors.New("boom")
	if _, err := RegisterRenderCommands(&recordingRegistry{err: boom}, pipeline.NewService(), nil, nil); !errors.Is(err, boom) {
		t.Fatalf("expected registry error, got %v", err)
	}
}
