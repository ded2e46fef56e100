package rules

import (
	"strings"

	"github.com/goliatone/go-messageml/internal/faults"
	"github.com/goliatone/go-messageml/internal/node"
)

func errAttributeNotAllowed(attr, tag string) error {
	return faults.Structuref("Attribute %q is not allowed in %q", attr, tag)
}

func errAttributeRequired(attr string) error {
	return faults.Structuref("The attribute %q is required", attr)
}

func errAttributeEnum(attr, tag string, values []string) error {
	return faults.Structuref("Attribute %q of element %q can only be one of the following values: [%s].",
		attr, tag, strings.Join(values, ", "))
}

func errChildNotAllowed(child, tag string) error {
	return faults.Structuref("Element %q is not allowed in %q", child, tag)
}

func errRequiredChild(tag string, kinds []string) error {
	return faults.Structuref("The %q element must have at least one child that is any of the following elements: [%s].",
		tag, strings.Join(kinds, ", "))
}

func errParent(tag string, kinds []string) error {
	return faults.Structuref("Element %q can only be a child of the following elements: [%s]",
		tag, strings.Join(kinds, ", "))
}

func errAncestor(tag string, kinds []string) error {
	return faults.Structuref("Element %q can only be a inner child of the following elements: [%s]",
		tag, strings.Join(kinds, ", "))
}

// ErrAttributeNotAllowed is exported for the builder, which binds attributes
// before the validator runs.
func ErrAttributeNotAllowed(attr, tag string) error { return errAttributeNotAllowed(attr, tag) }

func tagNames(kinds []node.Kind) []string {
	out := make([]string, len(kinds))
	for i, k := range kinds {
		out[i] = k.String()
	}
	return out
}

func displayTag(n *node.Node) string {
	if n.Kind == node.KindText {
		return "text"
	}
	if n.Tag != "" {
		return n.Tag
	}
	return n.Kind.String()
}

// ErrChildNotAllowed is exported for builders that consume children while
// binding a node.
func ErrChildNotAllowed(child, tag string) error { return errChildNotAllowed(child, tag) }
