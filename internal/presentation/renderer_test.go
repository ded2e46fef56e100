package presentation

import (
	"context"
	"strings"
	"testing"

	"github.com/goliatone/go-messageml/internal/faults"
	"github.com/goliatone/go-messageml/internal/identity"
	"github.com/goliatone/go-messageml/internal/markup"
	"github.com/goliatone/go-messageml/internal/node"
	"github.com/goliatone/go-messageml/internal/rules"
)

// compile validates input, binds its identifiers with r and freezes it.
func compile(t *testing.T, r *Renderer, input string) *node.Tree {
	t.Helper()
	doc, err := markup.Parse(context.Background(), input)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	tree, err := markup.NewBuilder(nil).Build(doc, nil)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if err := rules.NewValidator(nil).Validate(tree); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if err := r.Bind(tree); err != nil {
		t.Fatalf("bind: %v", err)
	}
	tree.Freeze()
	return tree
}

func TestRenderCanonicalEncodings(t *testing.T) {
	r := NewRenderer(nil)
	tree := compile(t, r, `<messageML><p class="x">a &amp; b</p><hash tag="go"/>`+
		`<form id="f"><select name="s" label="Pick"><option value="a" selected="true">A</option></select>`+
		`<button name="b">Go</button></form></messageML>`)

	got, err := r.Render(tree, "")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	want := `<div data-format="PresentationML" data-version="2.0">` +
		`<p class="x">a &amp; b</p>` +
		`<span class="entity" data-entity-id="keyword2">#go</span>` +
		`<form id="f"><select data-label="Pick" name="s"><option selected="true" value="a">A</option></select>` +
		`<button name="b" type="action">Go</button></form></div>`
	if got != want {
		t.Fatalf("unexpected markup\nwant %s\ngot  %s", want, got)
	}
}

func TestRenderFormInputs(t *testing.T) {
	r := NewRenderer(nil)
	tree := compile(t, r, `<messageML><form id="f">`+
		`<checkbox name="c">Tick</checkbox>`+
		`<text-field name="t" label="Name">preset</text-field>`+
		`<person-selector name="p"/>`+
		`<button name="b">Go</button></form></messageML>`)

	got, err := r.Render(tree, "2.1")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	want := `<div data-format="PresentationML" data-version="2.1"><form id="f">` +
		`<div class="checkbox-group"><input name="c" type="checkbox" value="on"/><label>Tick</label></div>` +
		`<input data-label="Name" name="t" type="text" value="preset"/>` +
		`<div class="person-selector" data-name="p"></div>` +
		`<button name="b" type="action">Go</button></form></div>`
	if got != want {
		t.Fatalf("unexpected markup\nwant %s\ngot  %s", want, got)
	}
}

func TestRenderDialogRewritesIdentifier(t *testing.T) {
	r := NewRenderer(nil, WithTokens(identity.NewDeterministicTokens("seed")))
	tree := compile(t, r, `<messageML><dialog id="d1"><title>T</title><body>B</body></dialog></messageML>`)

	token := identity.NewDeterministicTokens("seed").Next()
	got, err := r.Render(tree, "")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	want := `<div data-format="PresentationML" data-version="2.0">` +
		`<dialog data-state="close" data-width="medium" id="` + token + `-d1" open="">` +
		`<div class="dialog-title">T</div><div class="dialog-body">B</div></dialog></div>`
	if got != want {
		t.Fatalf("unexpected markup\nwant %s\ngot  %s", want, got)
	}
}

func TestRenderIsDeterministicForSeededTokens(t *testing.T) {
	input := `<messageML><dialog id="d1"><title>T</title><body>B</body></dialog><mention uid="5"/></messageML>`

	first := NewRenderer(nil, WithTokens(identity.NewDeterministicTokens("x")))
	a, err := first.Render(compile(t, first, input), "")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	second := NewRenderer(nil, WithTokens(identity.NewDeterministicTokens("x")))
	b, err := second.Render(compile(t, second, input), "")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if a != b {
		t.Fatalf("expected identical output\n%s\n%s", a, b)
	}
}

func TestRenderSameTreeTwiceIsIdentical(t *testing.T) {
	r := NewRenderer(nil, WithTokens(identity.NewDeterministicTokens("x")))
	tree := compile(t, r, `<messageML><dialog id="d1"><title>T</title><body>B</body></dialog></messageML>`)

	first, err := r.Render(tree, "")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	second, err := r.Render(tree, "")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if first != second {
		t.Fatalf("expected one frozen tree to render identically\n%s\n%s", first, second)
	}
}

func TestRenderBindsUnfrozenTreeOnce(t *testing.T) {
	r := NewRenderer(nil, WithTokens(identity.NewDeterministicTokens("x")))
	doc, err := markup.Parse(context.Background(), `<messageML><dialog id="d1"><title>T</title><body>B</body></dialog></messageML>`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	tree, err := markup.NewBuilder(nil).Build(doc, nil)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if err := rules.NewValidator(nil).Validate(tree); err != nil {
		t.Fatalf("validate: %v", err)
	}

	first, err := r.Render(tree, "")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	tree.Freeze()
	second, err := r.Render(tree, "")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if first != second {
		t.Fatalf("expected the bound identifier to be reused\n%s\n%s", first, second)
	}
}

func TestRenderRejectsUnboundFrozenIdentifier(t *testing.T) {
	doc, err := markup.Parse(context.Background(), `<messageML><dialog id="d1"><title>T</title><body>B</body></dialog></messageML>`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	tree, err := markup.NewBuilder(nil).Build(doc, nil)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if err := rules.NewValidator(nil).Validate(tree); err != nil {
		t.Fatalf("validate: %v", err)
	}
	tree.Freeze()

	_, err = NewRenderer(nil).Render(tree, "")
	if !faults.IsInvariant(err) {
		t.Fatalf("expected an invariant error, got %v", err)
	}
}

func TestRenderEmojiKeepsContent(t *testing.T) {
	r := NewRenderer(nil)
	got, err := r.Render(compile(t, r, `<messageML><emoji shortcode="smiley"><b>Test of content</b></emoji></messageML>`), "")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	want := `<div data-format="PresentationML" data-version="2.0">` +
		`<span class="entity" data-entity-id="emoji1"><b>Test of content</b></span></div>`
	if got != want {
		t.Fatalf("unexpected markup\nwant %s\ngot  %s", want, got)
	}

	got, err = r.Render(compile(t, r, `<messageML><emoji shortcode="smiley"/></messageML>`), "")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(got, `data-entity-id="emoji1">:smiley:</span>`) {
		t.Fatalf("expected the shortcode for an empty emoji, got %s", got)
	}
}

func TestRenderLinkWithoutContent(t *testing.T) {
	r := NewRenderer(nil)
	got, err := r.Render(compile(t, r, `<messageML><a href="https://x.io"/></messageML>`), "")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	want := `<div data-format="PresentationML" data-version="2.0"><a href="https://x.io"></a></div>`
	if got != want {
		t.Fatalf("unexpected markup\nwant %s\ngot  %s", want, got)
	}
}

func TestRenderPresentationInputIsStable(t *testing.T) {
	input := `<div data-format="PresentationML" data-version="2.0">` +
		`<dialog data-state="close" data-width="medium" id="abc-d1" open="">` +
		`<div class="dialog-title">T</div><div class="dialog-body">B</div></dialog>` +
		`<ul><li>one</li><li><b>two</b></li></ul></div>`

	r := NewRenderer(nil)
	got, err := r.Render(compile(t, r, input), "")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got != input {
		t.Fatalf("expected canonical input to render unchanged\nwant %s\ngot  %s", input, got)
	}
}

func TestRenderEmptyTree(t *testing.T) {
	if _, err := NewRenderer(nil).Render(node.NewTree(node.MessageML), ""); err == nil {
		t.Fatal("expected error for an empty tree")
	}
}

func TestEntityText(t *testing.T) {
	cases := []struct {
		n    node.Node
		want string
	}{
		{node.Node{Kind: node.KindMention, Payload: &node.MentionPayload{Key: "9"}}, "@9"},
		{node.Node{Kind: node.KindCashtag, Payload: &node.TagPayload{Value: "AAPL"}}, "$AAPL"},
		{node.Node{Kind: node.KindHashtag, Payload: &node.TagPayload{Value: "go"}}, "#go"},
		{node.Node{Kind: node.KindEmoji, Payload: &node.EmojiPayload{Shortcode: "smiley"}}, ":smiley:"},
		{node.Node{Kind: node.KindLink, Payload: &node.LinkPayload{Href: "https://a.b"}}, "https://a.b"},
	}
	for _, tc := range cases {
		n := tc.n
		if got := EntityText(&n); got != tc.want {
			t.Fatalf("expected %q, got %q", tc.want, got)
		}
	}
}
