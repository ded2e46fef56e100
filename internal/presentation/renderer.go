// Package presentation renders validated trees into canonical presentation
// markup.
package presentation

import (
	"sort"
	"strings"

	"github.com/goliatone/go-messageml/internal/faults"
	"github.com/goliatone/go-messageml/internal/identity"
	"github.com/goliatone/go-messageml/internal/node"
	"github.com/goliatone/go-messageml/internal/rules"
	"github.com/goliatone/go-messageml/internal/taxonomy"
	"github.com/goliatone/go-messageml/pkg/interfaces"
)

// DefaultVersion is written to data-version when the caller supplies none.
const DefaultVersion = "2.0"

var (
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	attrEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
)

var groupClasses = map[node.Kind]string{
	node.KindCheckbox:       "checkbox-group",
	node.KindRadio:          "radio-group",
	node.KindPersonSelector: "person-selector",
	node.KindRoomSelector:   "room-selector",
	node.KindDialogTitle:    "dialog-title",
	node.KindDialogBody:     "dialog-body",
	node.KindDialogFooter:   "dialog-footer",
}

var inputTypes = map[node.Kind]string{
	node.KindTextField:  "text",
	node.KindDatePicker: "date",
	node.KindTimePicker: "time",
	node.KindCheckbox:   "checkbox",
	node.KindRadio:      "radio",
}

// Renderer folds a validated tree into presentation markup.
type Renderer struct {
	registry *rules.Registry
	tokens   interfaces.TokenGenerator
}

// RendererOption configures the renderer instance.
type RendererOption func(*Renderer)

// WithTokens supplies the generator used to disambiguate identifier
// attributes.
func WithTokens(tokens interfaces.TokenGenerator) RendererOption {
	return func(r *Renderer) {
		if tokens != nil {
			r.tokens = tokens
		}
	}
}

// NewRenderer constructs a renderer over registry; nil selects the default
// catalogue.
func NewRenderer(registry *rules.Registry, opts ...RendererOption) *Renderer {
	if registry == nil {
		registry = rules.DefaultRegistry()
	}
	r := &Renderer{
		registry: registry,
		tokens:   identity.NewRandomTokens(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Bind draws one token per identifier attribute of an authoring tree and
// stores the rewritten value on the node. It must run before Freeze; nodes
// already bound keep their value.
func (r *Renderer) Bind(tree *node.Tree) error {
	if tree == nil || tree.Format() != node.MessageML {
		return nil
	}
	return tree.Walk(func(id node.ID, _ int) error {
		n := tree.Node(id)
		if n.Kind == node.KindText || n.PresentationID != "" {
			return nil
		}
		rule, ok := r.registry.Get(n.Kind)
		if !ok || rule.Identifier == "" {
			return nil
		}
		value, ok := n.Attrs.Get(rule.Identifier)
		if !ok {
			return nil
		}
		return tree.SetPresentationID(id, r.tokens.Next()+"-"+value)
	})
}

// Render returns the presentation markup of tree. It never re-validates and
// never draws tokens, so a frozen tree renders the same bytes every time. An
// unfrozen tree is bound first.
func (r *Renderer) Render(tree *node.Tree, version string) (string, error) {
	if tree == nil || tree.Root() == node.NoID {
		return "", faults.Invariant("presentation: empty tree")
	}
	if !tree.Frozen() {
		if err := r.Bind(tree); err != nil {
			return "", err
		}
	}
	if version == "" {
		version = DefaultVersion
	}
	w := &writer{
		renderer: r,
		tree:     tree,
		keys:     taxonomy.Keys(tree),
		version:  version,
	}
	if err := w.node(tree.Root()); err != nil {
		return "", err
	}
	return w.b.String(), nil
}

type writer struct {
	renderer *Renderer
	tree     *node.Tree
	keys     map[node.ID]string
	version  string
	b        strings.Builder
}

func (w *writer) node(id node.ID) error {
	n := w.tree.Node(id)
	if n.Kind == node.KindText {
		w.b.WriteString(textEscaper.Replace(n.Text))
		return nil
	}
	rule, ok := w.renderer.registry.Get(n.Kind)
	if !ok {
		return faults.Invariant("presentation: no rule for kind %s", n.Kind)
	}

	switch n.Kind {
	case node.KindRoot:
		w.open("div", []node.Attr{
			{Name: "data-format", Value: node.PresentationML.String()},
			{Name: "data-version", Value: w.version},
		})
		return w.close("div", id)

	case node.KindMention, node.KindHashtag, node.KindCashtag, node.KindEmoji:
		w.open("span", []node.Attr{
			{Name: "class", Value: "entity"},
			{Name: "data-entity-id", Value: w.keys[id]},
		})
		if n.Kind == node.KindEmoji && len(w.tree.Children(id)) > 0 {
			return w.close("span", id)
		}
		w.b.WriteString(textEscaper.Replace(EntityText(n)))
		w.b.WriteString("</span>")
		return nil

	case node.KindTextField, node.KindDatePicker, node.KindTimePicker:
		attrs, err := w.attributes(n, rule)
		if err != nil {
			return err
		}
		attrs = append(attrs, node.Attr{Name: "type", Value: inputTypes[n.Kind]})
		if field, ok := n.Payload.(*node.FieldPayload); ok && field.HasInitial {
			attrs = append(attrs, node.Attr{Name: "value", Value: field.InitialValue})
		}
		w.void("input", attrs)
		return nil

	case node.KindCheckbox, node.KindRadio:
		attrs, err := w.attributes(n, rule)
		if err != nil {
			return err
		}
		attrs = append(attrs, node.Attr{Name: "type", Value: inputTypes[n.Kind]})
		w.open("div", []node.Attr{{Name: "class", Value: groupClasses[n.Kind]}})
		w.void("input", attrs)
		w.b.WriteString("<label>")
		if err := w.children(id); err != nil {
			return err
		}
		w.b.WriteString("</label></div>")
		return nil

	case node.KindPersonSelector, node.KindRoomSelector, node.KindDialogTitle, node.KindDialogBody, node.KindDialogFooter:
		attrs, err := w.attributes(n, rule)
		if err != nil {
			return err
		}
		w.open("div", append(attrs, node.Attr{Name: "class", Value: groupClasses[n.Kind]}))
		return w.close("div", id)

	case node.KindLink:
		attrs, err := w.attributes(n, rule)
		if err != nil {
			return err
		}
		w.open("a", attrs)
		return w.close("a", id)
	}

	attrs, err := w.attributes(n, rule)
	if err != nil {
		return err
	}
	if n.EntityID != "" {
		attrs = append(attrs, node.Attr{Name: "data-entity-id", Value: n.EntityID})
	}
	if rule.Content.Model == rules.Empty {
		w.void(n.Tag, attrs)
		return nil
	}
	w.open(n.Tag, attrs)
	return w.close(n.Tag, id)
}

// attributes canonicalizes the attribute set of n: non-standard names get
// the data- prefix and the identifier attribute of authoring trees is made
// document unique.
func (w *writer) attributes(n *node.Node, rule rules.Rule) ([]node.Attr, error) {
	authoring := w.tree.Format() == node.MessageML
	var out []node.Attr
	for _, a := range n.Attrs.All() {
		spec, ok := rule.Attribute(a.Name)
		if !ok {
			return nil, faults.Invariant("presentation: undeclared attribute %q on %s", a.Name, n.Tag)
		}
		name, value := a.Name, a.Value
		if !spec.Standard {
			name = "data-" + name
		}
		switch {
		case spec.Presence && authoring:
			value = ""
		case rule.Identifier == a.Name && authoring:
			if n.PresentationID == "" {
				return nil, faults.Invariant("presentation: %s %q was not bound before freeze", n.Tag, value)
			}
			value = n.PresentationID
		}
		out = append(out, node.Attr{Name: name, Value: value})
	}
	if authoring {
		for _, spec := range rule.Attributes {
			if spec.Presence && !n.Attrs.Has(spec.Name) {
				out = append(out, node.Attr{Name: spec.Name})
			}
		}
	}
	return out, nil
}

func (w *writer) open(tag string, attrs []node.Attr) {
	w.b.WriteByte('<')
	w.b.WriteString(tag)
	w.writeAttrs(attrs)
	w.b.WriteByte('>')
}

func (w *writer) void(tag string, attrs []node.Attr) {
	w.b.WriteByte('<')
	w.b.WriteString(tag)
	w.writeAttrs(attrs)
	w.b.WriteString("/>")
}

func (w *writer) close(tag string, id node.ID) error {
	if err := w.children(id); err != nil {
		return err
	}
	w.b.WriteString("</")
	w.b.WriteString(tag)
	w.b.WriteByte('>')
	return nil
}

func (w *writer) children(id node.ID) error {
	for _, child := range w.tree.Children(id) {
		if err := w.node(child); err != nil {
			return err
		}
	}
	return nil
}

func (w *writer) writeAttrs(attrs []node.Attr) {
	sort.SliceStable(attrs, func(i, j int) bool { return attrs[i].Name < attrs[j].Name })
	for _, a := range attrs {
		w.b.WriteByte(' ')
		w.b.WriteString(a.Name)
		w.b.WriteString(`="`)
		w.b.WriteString(attrEscaper.Replace(a.Value))
		w.b.WriteByte('"')
	}
}

// EntityText is the visible text of an entity node. Presentation spans and
// the markdown fold use the same text so their offsets agree.
func EntityText(n *node.Node) string {
	switch p := n.Payload.(type) {
	case *node.MentionPayload:
		if p.User != nil && p.User.DisplayName != "" {
			return "@" + p.User.DisplayName
		}
		return "@" + p.Key
	case *node.TagPayload:
		if n.Kind == node.KindCashtag {
			return "$" + p.Value
		}
		return "#" + p.Value
	case *node.EmojiPayload:
		return ":" + p.Shortcode + ":"
	case *node.LinkPayload:
		return p.Href
	}
	return ""
}
