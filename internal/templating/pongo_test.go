package templating

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-messageml/internal/faults"
)

func TestPongoExpandsEnvelopeData(t *testing.T) {
	data := map[string]any{
		"ticket": map[string]any{"id": "JIRA-1", "labels": []any{"a", "b"}},
	}
	raw := `<messageML>{{ data.ticket.id }}{% for l in entity.ticket.labels %} <hash tag="{{ l }}"/>{% endfor %}</messageML>`

	got, err := NewPongo().Expand(context.Background(), raw, data)
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	want := `<messageML>JIRA-1 <hash tag="a"/> <hash tag="b"/></messageML>`
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestPongoEscapesValues(t *testing.T) {
	got, err := NewPongo().Expand(context.Background(), `<messageML>{{ data.v }}</messageML>`, map[string]any{"v": "a<b"})
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	if got != `<messageML>a&lt;b</messageML>` {
		t.Fatalf("expected escaped output, got %q", got)
	}
}

func TestPongoPassesPlainMarkupThrough(t *testing.T) {
	raw := `<messageML>Hello {name}</messageML>`
	got, err := NewPongo().Expand(context.Background(), raw, nil)
	if err != nil || got != raw {
		t.Fatalf("expected passthrough, got %q %v", got, err)
	}
}

func TestPongoReportsTemplateErrors(t *testing.T) {
	_, err := NewPongo().Expand(context.Background(), `<messageML>{% if %}</messageML>`, nil)
	if !faults.IsTemplating(err) {
		t.Fatalf("expected templating error, got %v", err)
	}
}

func TestPongoHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewPongo().Expand(ctx, `{{ x }}`, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context error, got %v", err)
	}
}
