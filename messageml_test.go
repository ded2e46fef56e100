package messageml_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	messageml "github.com/goliatone/go-messageml"
)

func newModule(t *testing.T, mutate func(*messageml.Config), opts ...messageml.Option) *messageml.Module {
	t.Helper()
	cfg := messageml.DefaultConfig()
	cfg.Tokens = messageml.TokensConfig{Strategy: messageml.TokensDeterministic, Seed: "test"}
	if mutate != nil {
		mutate(&cfg)
	}
	module, err := messageml.New(cfg, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return module
}

func TestModuleParse(t *testing.T) {
	module := newModule(t, nil, messageml.WithIdentity(directory{
		"42": {ID: 42, ScreenName: "bob", DisplayName: "Bob"},
	}))

	result, err := module.Parse(context.Background(), messageml.Request{
		Markup: `<messageML>Hello <mention uid="42"/>, see <a href="https://example.com">docs</a> <emoji shortcode="smiley"/></messageML>`,
	})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if result.Markdown != "Hello @Bob, see https://example.com :smiley:" {
		t.Fatalf("unexpected markdown %q", result.Markdown)
	}
	if !strings.HasPrefix(result.Presentation, `<div data-format="PresentationML" data-version="2.0">`) {
		t.Fatalf("unexpected presentation %s", result.Presentation)
	}
	if result.Envelope["emoji3"].Data["unicode"] != "😃" {
		t.Fatalf("expected emoji glyph, got %+v", result.Envelope)
	}
	if len(result.Index.UserMentions) != 1 || result.Index.UserMentions[0].ScreenName != "bob" {
		t.Fatalf("unexpected user mentions %+v", result.Index.UserMentions)
	}
}

func TestModuleParseErrors(t *testing.T) {
	module := newModule(t, nil)

	_, err := module.Parse(context.Background(), messageml.Request{Markup: `<messageML><b>x</messageML>`})
	if !messageml.IsSyntax(err) {
		t.Fatalf("expected syntax error, got %v", err)
	}

	_, err = module.Parse(context.Background(), messageml.Request{Markup: `<messageML><form id="f"><form id="g"/></form></messageML>`})
	if !messageml.IsInvalidStructure(err) {
		t.Fatalf("expected structure error, got %v", err)
	}

	_, err = module.Parse(context.Background(), messageml.Request{Markup: `<messageML>{% if %}</messageML>`})
	if !messageml.IsTemplating(err) || !strings.HasPrefix(messageml.ErrorMessage(err), "Error parsing template: ") {
		t.Fatalf("expected templating error, got %v", err)
	}
}

func TestModuleParseLegacy(t *testing.T) {
	module := newModule(t, nil)

	result, err := module.ParseLegacy(context.Background(), messageml.LegacyRequest{
		Text: "buy $AAPL\nnow",
		Annotations: []messageml.Annotation{
			{Kind: messageml.AnnotationCashtag, IndexStart: 4, IndexEnd: 9, Value: "AAPL"},
		},
	})
	if err != nil {
		t.Fatalf("ParseLegacy: %v", err)
	}
	if result.Markdown != "buy $AAPL\nnow" {
		t.Fatalf("unexpected markdown %q", result.Markdown)
	}
	if !strings.HasSuffix(result.Presentation, "</span>\nnow</div>") {
		t.Fatalf("expected the literal line feed to survive, got %s", result.Presentation)
	}
}

func TestModulePreview(t *testing.T) {
	module := newModule(t, nil)
	html, err := module.Preview("**bold**")
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}
	if !strings.Contains(string(html), "<strong>bold</strong>") {
		t.Fatalf("unexpected html %s", html)
	}

	disabled := newModule(t, func(cfg *messageml.Config) { cfg.Features.Preview = false })
	if _, err := disabled.Preview("x"); !errors.Is(err, messageml.ErrPreviewDisabled) {
		t.Fatalf("expected ErrPreviewDisabled, got %v", err)
	}
}

func TestModuleCommands(t *testing.T) {
	var got []string
	module := newModule(t, nil, messageml.WithResultSink(func(_ context.Context, source string, result *messageml.Result) error {
		got = append(got, source+"="+result.Markdown)
		return nil
	}))

	err := module.Commands().Message.Execute(context.Background(), messageml.RenderMessageCommand{
		Markup:   `<messageML><i>hi</i></messageML>`,
		Document: "inline",
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(got) != 1 || got[0] != "inline=_hi_" {
		t.Fatalf("unexpected results %v", got)
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := messageml.DefaultConfig()
	cfg.Format.Version = ""
	if _, err := messageml.New(cfg); !errors.Is(err, messageml.ErrFormatVersionRequired) {
		t.Fatalf("expected ErrFormatVersionRequired, got %v", err)
	}
}

type directory map[string]messageml.User

func (d directory) Lookup(_ context.Context, key string) (*messageml.User, error) {
	user, ok := d[key]
	if !ok {
		return nil, errors.New("not found")
	}
	return &user, nil
}
