package markup

import (
	"strings"

	"github.com/antchfx/xmlquery"

	"github.com/goliatone/go-messageml/internal/faults"
	"github.com/goliatone/go-messageml/internal/node"
	"github.com/goliatone/go-messageml/internal/rules"
)

// EntityAttribute carries the envelope back-reference on presentation spans
// and on authoring div/span elements.
const EntityAttribute = "data-entity-id"

const (
	entityClass = "entity"
	dataPrefix  = "data-"
)

// EntityResolver maps an envelope key to the entity kind and payload it
// describes. Presentation markup only carries the key; the envelope holds the
// rest.
type EntityResolver interface {
	ResolveEntity(key string) (node.Kind, node.Payload, bool)
}

// Canonical div classes that encode authoring kinds.
var classKinds = map[string]node.Kind{
	"checkbox-group":  node.KindCheckbox,
	"radio-group":     node.KindRadio,
	"person-selector": node.KindPersonSelector,
	"room-selector":   node.KindRoomSelector,
	"dialog-title":    node.KindDialogTitle,
	"dialog-body":     node.KindDialogBody,
	"dialog-footer":   node.KindDialogFooter,
}

var inputKinds = map[string]node.Kind{
	"text": node.KindTextField,
	"date": node.KindDatePicker,
	"time": node.KindTimePicker,
}

// Kinds that only exist as authoring tags; presentation markup encodes them.
var authoringOnly = map[node.Kind]bool{
	node.KindRoot:           true,
	node.KindMention:        true,
	node.KindHashtag:        true,
	node.KindCashtag:        true,
	node.KindEmoji:          true,
	node.KindDialogTitle:    true,
	node.KindDialogBody:     true,
	node.KindDialogFooter:   true,
	node.KindCheckbox:       true,
	node.KindRadio:          true,
	node.KindTextField:      true,
	node.KindDatePicker:     true,
	node.KindTimePicker:     true,
	node.KindPersonSelector: true,
	node.KindRoomSelector:   true,
}

// childMode tells the builder what to do with the source children of a
// bound element.
type childMode uint8

const (
	childrenKeep childMode = iota
	childrenSkip
	childrenLabel
	// childrenEntity keeps authored content but drops a lone text run equal
	// to the visible text the renderer writes for an empty entity.
	childrenEntity
)

type binding struct {
	kind     node.Kind
	tag      string
	rule     rules.Rule
	attrs    node.Attributes
	payload  node.Payload
	entityID string
	children childMode
	// source holds the element whose attributes are bound when it differs
	// from the element being built (checkbox-group inputs).
	source *xmlquery.Node
}

// Builder resolves generic markup into typed node trees.
type Builder struct {
	registry *rules.Registry
}

// NewBuilder returns a builder backed by registry; nil selects the default
// catalogue.
func NewBuilder(registry *rules.Registry) *Builder {
	if registry == nil {
		registry = rules.DefaultRegistry()
	}
	return &Builder{registry: registry}
}

// Build converts doc into an unvalidated tree. resolver may be nil, in which
// case presentation entity spans stay plain spans carrying their key.
func (b *Builder) Build(doc *Document, resolver EntityResolver) (*node.Tree, error) {
	if doc == nil || doc.Root == nil {
		return nil, faults.Structure(errRootMessage)
	}
	tree := node.NewTree(doc.Format)
	if err := b.element(tree, node.NoID, doc.Root, resolver); err != nil {
		return nil, err
	}
	return tree, nil
}

func (b *Builder) element(tree *node.Tree, parent node.ID, x *xmlquery.Node, resolver EntityResolver) error {
	var (
		bound binding
		err   error
	)
	if tree.Format() == node.PresentationML {
		bound, err = b.bindPresentation(x, parent == node.NoID, resolver)
	} else {
		bound, err = b.bindAuthoring(x)
	}
	if err != nil {
		return err
	}

	if bound.kind == node.KindTextField && tree.Format() == node.MessageML {
		field, err := fieldValue(x, bound.tag)
		if err != nil {
			return err
		}
		bound.payload = field
		bound.children = childrenSkip
	}

	id, err := tree.Add(parent, node.Node{
		Kind:     bound.kind,
		Tag:      bound.tag,
		Format:   tree.Format(),
		Attrs:    bound.attrs,
		Payload:  bound.payload,
		EntityID: bound.entityID,
	})
	if err != nil {
		return faults.Invariant("add %s: %v", bound.tag, err)
	}

	switch bound.children {
	case childrenSkip:
		return nil
	case childrenLabel:
		return labelText(tree, id, x)
	case childrenEntity:
		if placeholderOnly(x, bound.payload) {
			return nil
		}
	}

	for child := x.FirstChild; child != nil; child = child.NextSibling {
		switch child.Type {
		case xmlquery.ElementNode:
			if err := b.element(tree, id, child, resolver); err != nil {
				return err
			}
		case xmlquery.TextNode, xmlquery.CharDataNode:
			if strings.TrimSpace(child.Data) == "" && !bound.rule.AcceptsText() {
				continue
			}
			if _, err := tree.AddText(id, child.Data); err != nil {
				return faults.Invariant("add text under %s: %v", bound.tag, err)
			}
		}
	}
	return nil
}

func (b *Builder) bindAuthoring(x *xmlquery.Node) (binding, error) {
	tag := elementName(x)
	rule, ok := b.registry.Lookup(tag)
	if !ok {
		return binding{}, unknownElement(tag)
	}
	bound := binding{kind: rule.Kind, tag: tag, rule: rule}

	for _, a := range x.Attr {
		name := attrName(a)
		if name == EntityAttribute && acceptsEntityReference(rule.Kind) {
			bound.entityID = a.Value
			continue
		}
		spec, ok := rule.Attribute(name)
		if !ok || !spec.Formats.Allows(node.MessageML) {
			return binding{}, rules.ErrAttributeNotAllowed(name, tag)
		}
		bound.attrs.Set(name, a.Value)
	}

	bound.payload = authoringPayload(rule.Kind, bound.attrs)
	if rule.Kind.IsEntity() && rule.Kind != node.KindLink && rule.Kind != node.KindEmoji {
		bound.children = childrenSkip
	}
	return bound, nil
}

func (b *Builder) bindPresentation(x *xmlquery.Node, isRoot bool, resolver EntityResolver) (binding, error) {
	tag := elementName(x)
	if isRoot {
		rule, _ := b.registry.Get(node.KindRoot)
		return binding{kind: node.KindRoot, tag: rule.Tag(), rule: rule}, nil
	}

	class := attr(x, "class")
	skip := map[string]bool{}
	var (
		kind   node.Kind
		source = x
		mode   = childrenKeep
	)

	switch {
	case (tag == "span" || tag == "div") && class == entityClass && attr(x, EntityAttribute) != "":
		key := attr(x, EntityAttribute)
		if resolver != nil {
			if resolved, payload, ok := resolver.ResolveEntity(key); ok {
				rule, _ := b.registry.Get(resolved)
				mode := childrenSkip
				if resolved == node.KindEmoji {
					mode = childrenEntity
				}
				return binding{
					kind:     resolved,
					tag:      rule.Tag(),
					rule:     rule,
					payload:  payload,
					entityID: key,
					children: mode,
				}, nil
			}
		}
		kind = node.KindSpan
		if tag == "div" {
			kind = node.KindDiv
		}
	case tag == "div" && classKinds[class] != node.KindUnknown:
		kind = classKinds[class]
		skip["class"] = true
		if kind == node.KindCheckbox || kind == node.KindRadio {
			input := firstElement(x, "input")
			if input == nil {
				return binding{}, rules.ErrChildNotAllowed("div", kind.String())
			}
			source, mode = input, childrenLabel
			skip["type"] = true
		}
	case tag == "input":
		k, ok := inputKinds[attr(x, "type")]
		if !ok {
			return binding{}, unknownElement(tag)
		}
		kind = k
		skip["type"] = true
		if kind == node.KindTextField {
			skip["value"] = true
		}
	default:
		rule, ok := b.registry.Lookup(tag)
		if !ok || authoringOnly[rule.Kind] {
			return binding{}, unknownElement(tag)
		}
		kind = rule.Kind
	}

	rule, ok := b.registry.Get(kind)
	if !ok {
		return binding{}, unknownElement(tag)
	}
	display := tag
	if authoringOnly[kind] {
		display = rule.Tag()
	}
	bound := binding{kind: kind, tag: display, rule: rule, children: mode}

	for _, a := range source.Attr {
		name := attrName(a)
		if skip[name] {
			continue
		}
		if name == EntityAttribute && acceptsEntityReference(kind) {
			bound.entityID = a.Value
			continue
		}
		key, err := presentationAttribute(rule, name, display)
		if err != nil {
			return binding{}, err
		}
		bound.attrs.Set(key, a.Value)
	}

	switch kind {
	case node.KindTextField:
		value, has := attrValue(x, "value")
		bound.payload = &node.FieldPayload{InitialValue: value, HasInitial: has}
		bound.children = childrenSkip
	case node.KindPersonSelector, node.KindRoomSelector, node.KindDatePicker, node.KindTimePicker:
		bound.children = childrenSkip
	default:
		bound.payload = authoringPayload(kind, bound.attrs)
	}
	return bound, nil
}

// placeholderOnly reports whether the only content of an emoji span is the
// ":shortcode:" text written for an emoji without authored content.
func placeholderOnly(x *xmlquery.Node, payload node.Payload) bool {
	emoji, ok := payload.(*node.EmojiPayload)
	if !ok || x.FirstChild == nil || x.FirstChild != x.LastChild {
		return false
	}
	child := x.FirstChild
	if child.Type != xmlquery.TextNode && child.Type != xmlquery.CharDataNode {
		return false
	}
	return child.Data == ":"+emoji.Shortcode+":"
}

// presentationAttribute maps a presentation attribute name back to the
// authoring name. Standard attributes travel verbatim, the rest carry the
// data- prefix.
func presentationAttribute(rule rules.Rule, name, tag string) (string, error) {
	key := name
	prefixed := strings.HasPrefix(name, dataPrefix)
	if prefixed {
		key = strings.TrimPrefix(name, dataPrefix)
	}
	spec, ok := rule.Attribute(key)
	if !ok || spec.Standard == prefixed || !spec.Formats.Allows(node.PresentationML) {
		return "", rules.ErrAttributeNotAllowed(name, tag)
	}
	return key, nil
}

func authoringPayload(kind node.Kind, attrs node.Attributes) node.Payload {
	switch kind {
	case node.KindMention:
		key := strings.TrimSpace(attrs.Value("uid"))
		if key == "" {
			key = strings.TrimSpace(attrs.Value("email"))
		}
		return &node.MentionPayload{Key: key}
	case node.KindHashtag, node.KindCashtag:
		return &node.TagPayload{Value: attrs.Value("tag")}
	case node.KindEmoji:
		size := attrs.Value("size")
		if size == "" {
			size = "normal"
		}
		return &node.EmojiPayload{
			Shortcode:  attrs.Value("shortcode"),
			Annotation: attrs.Value("annotation"),
			Family:     attrs.Value("family"),
			Size:       size,
		}
	case node.KindLink:
		return &node.LinkPayload{Href: attrs.Value("href")}
	case node.KindImage:
		return &node.ImagePayload{Src: attrs.Value("src")}
	case node.KindOption:
		return &node.OptionPayload{Value: attrs.Value("value"), Selected: attrs.Value("selected") == "true"}
	default:
		return nil
	}
}

// fieldValue reads the initial value of an authoring text-field from its
// text content.
func fieldValue(x *xmlquery.Node, tag string) (*node.FieldPayload, error) {
	var b strings.Builder
	has := false
	for child := x.FirstChild; child != nil; child = child.NextSibling {
		switch child.Type {
		case xmlquery.ElementNode:
			return nil, rules.ErrChildNotAllowed(elementName(child), tag)
		case xmlquery.TextNode, xmlquery.CharDataNode:
			b.WriteString(child.Data)
			has = true
		}
	}
	return &node.FieldPayload{InitialValue: b.String(), HasInitial: has}, nil
}

func labelText(tree *node.Tree, id node.ID, x *xmlquery.Node) error {
	label := firstElement(x, "label")
	if label == nil {
		return nil
	}
	text := label.InnerText()
	if text == "" {
		return nil
	}
	if _, err := tree.AddText(id, text); err != nil {
		return faults.Invariant("add label text: %v", err)
	}
	return nil
}

func acceptsEntityReference(kind node.Kind) bool {
	return kind == node.KindSpan || kind == node.KindDiv
}

func firstElement(x *xmlquery.Node, tag string) *xmlquery.Node {
	for child := x.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == xmlquery.ElementNode && elementName(child) == tag {
			return child
		}
	}
	return nil
}

func attrValue(n *xmlquery.Node, name string) (string, bool) {
	for _, a := range n.Attr {
		if attrName(a) == name {
			return a.Value, true
		}
	}
	return "", false
}

func elementName(x *xmlquery.Node) string {
	if x.Prefix != "" {
		return x.Prefix + ":" + x.Data
	}
	return x.Data
}

func unknownElement(tag string) error {
	return faults.Structuref("Invalid MessageML content at element %q", tag)
}
