// Package rules holds the per-kind rule descriptors and the fail-fast
// validator that enforces them.
package rules

import (
	"github.com/goliatone/go-messageml/internal/node"
)

// FormatMask restricts an attribute to one authoring format. The zero value
// allows both.
type FormatMask uint8

const (
	AnyFormat FormatMask = iota
	MessageMLOnly
	PresentationMLOnly
)

// Allows reports whether the mask accepts format.
func (m FormatMask) Allows(format node.Format) bool {
	switch m {
	case MessageMLOnly:
		return format == node.MessageML
	case PresentationMLOnly:
		return format == node.PresentationML
	default:
		return true
	}
}

// AttrSpec declares one attribute a kind accepts.
type AttrSpec struct {
	Name string
	// Standard attributes are emitted verbatim in presentation output; the
	// rest are emitted with the data- prefix.
	Standard bool
	Formats  FormatMask
	Required bool
	Default  string
	Enum     []string
	// Presence marks attributes whose value is irrelevant (dialog open).
	Presence bool
}

// ContentModel selects how children are checked.
type ContentModel uint8

const (
	// Flow accepts text and any element kind.
	Flow ContentModel = iota
	// Whitelist accepts only Content.Kinds (plus text when Content.Text).
	Whitelist
	// TextOnly accepts text runs only.
	TextOnly
	// Empty accepts no children at all.
	Empty
	// Custom defers to a Check; the validator performs no child filtering and
	// blank text runs are dropped at construction.
	Custom
)

// Content describes the children a kind accepts.
type Content struct {
	Model ContentModel
	Kinds []node.Kind
	Text  bool
}

// Check is a kind specific rule run after the generic checks.
type Check func(tree *node.Tree, id node.ID) error

// Rule is the static descriptor registered for a kind.
type Rule struct {
	Kind node.Kind
	// Tags lists the authoring tags that build this kind. The first one is the
	// canonical tag.
	Tags       []string
	Attributes []AttrSpec
	Content    Content
	// Required lists child kinds of which at least one must be present.
	Required []node.Kind
	// Parents restricts the direct parent kind.
	Parents []node.Kind
	// Ancestors requires some ancestor of one of these kinds.
	Ancestors []node.Kind
	// Identifier names the attribute rewritten to a document-unique id in
	// presentation output.
	Identifier string
	Checks     []Check
}

// Attribute returns the spec for name.
func (r Rule) Attribute(name string) (AttrSpec, bool) {
	for _, spec := range r.Attributes {
		if spec.Name == name {
			return spec, true
		}
	}
	return AttrSpec{}, false
}

// AcceptsText reports whether the kind may hold non-blank text runs.
func (r Rule) AcceptsText() bool {
	switch r.Content.Model {
	case Flow, TextOnly:
		return true
	case Whitelist:
		return r.Content.Text
	default:
		return false
	}
}

// Accepts reports whether child kinds pass the content model.
func (r Rule) Accepts(child node.Kind) bool {
	if child == node.KindText {
		return r.AcceptsText()
	}
	switch r.Content.Model {
	case Flow, Custom:
		return child != node.KindRoot
	case Whitelist:
		for _, k := range r.Content.Kinds {
			if k == child {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// Tag returns the canonical authoring tag.
func (r Rule) Tag() string {
	if len(r.Tags) > 0 {
		return r.Tags[0]
	}
	return r.Kind.String()
}
