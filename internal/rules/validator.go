package rules

import (
	"strings"

	"github.com/goliatone/go-messageml/internal/faults"
	"github.com/goliatone/go-messageml/internal/node"
)

// Observer receives every element the validator accepts. Elements are
// reported in post-order, once their whole subtree has been accepted.
type Observer interface {
	Visit(tree *node.Tree, id node.ID)
}

// Validator walks a tree depth-first and stops at the first violated rule.
type Validator struct {
	registry *Registry
}

// NewValidator builds a validator over registry; nil selects DefaultRegistry.
func NewValidator(registry *Registry) *Validator {
	if registry == nil {
		registry = DefaultRegistry()
	}
	return &Validator{registry: registry}
}

// Validate checks every node of tree. Missing optional attributes receive
// their defaults before enumerations are checked, so the tree must not be
// frozen yet.
func (v *Validator) Validate(tree *node.Tree, observers ...Observer) error {
	if tree == nil || tree.Root() == node.NoID {
		return faults.Structure("Root tag must be <messageML>")
	}
	if root := tree.Node(tree.Root()); root.Kind != node.KindRoot {
		return faults.Structure("Root tag must be <messageML>")
	}
	if tree.Frozen() {
		return faults.Invariant("validate: tree is already frozen")
	}
	enter := func(id node.ID, _ int) error {
		n := tree.Node(id)
		if n.Kind == node.KindText {
			return nil
		}
		rule, ok := v.registry.Get(n.Kind)
		if !ok {
			return faults.Structuref("Invalid MessageML content at element %q", displayTag(n))
		}
		return v.validateNode(tree, id, rule)
	}
	leave := func(id node.ID, _ int) error {
		if tree.Node(id).Kind == node.KindText {
			return nil
		}
		for _, observer := range observers {
			if observer != nil {
				observer.Visit(tree, id)
			}
		}
		return nil
	}
	return tree.Traverse(enter, leave)
}

func (v *Validator) validateNode(tree *node.Tree, id node.ID, rule Rule) error {
	n := tree.Node(id)
	tag := displayTag(n)

	if len(rule.Parents) > 0 {
		parent := tree.Node(tree.Parent(id))
		if parent == nil || !kindIn(parent.Kind, rule.Parents) {
			return errParent(tag, tagNames(rule.Parents))
		}
	}
	if len(rule.Ancestors) > 0 && !tree.HasAncestor(id, rule.Ancestors...) {
		return errAncestor(tag, tagNames(rule.Ancestors))
	}

	if err := v.validateAttributes(tree, id, rule); err != nil {
		return err
	}

	children := tree.Children(id)
	if rule.Content.Model != Custom {
		for _, childID := range children {
			child := tree.Node(childID)
			if rule.Accepts(child.Kind) {
				continue
			}
			if child.Kind == node.KindText && strings.TrimSpace(child.Text) == "" {
				continue
			}
			return errChildNotAllowed(displayTag(child), tag)
		}
	}

	if len(rule.Required) > 0 && !hasChildOfKind(tree, children, rule.Required) {
		return errRequiredChild(tag, tagNames(rule.Required))
	}

	for _, check := range rule.Checks {
		if err := check(tree, id); err != nil {
			return err
		}
	}
	return nil
}

func (v *Validator) validateAttributes(tree *node.Tree, id node.ID, rule Rule) error {
	n := tree.Node(id)
	tag := displayTag(n)
	format := tree.Format()

	for _, attr := range n.Attrs.All() {
		spec, ok := rule.Attribute(attr.Name)
		if !ok || !spec.Formats.Allows(format) {
			return errAttributeNotAllowed(attr.Name, tag)
		}
	}

	for _, spec := range rule.Attributes {
		if !spec.Formats.Allows(format) {
			continue
		}
		value, present := n.Attrs.Get(spec.Name)
		if !present && spec.Default != "" {
			if err := tree.SetAttr(id, spec.Name, spec.Default); err != nil {
				return faults.Invariant("populate default %s on %s: %v", spec.Name, tag, err)
			}
			value, present = spec.Default, true
		}
		if spec.Required && (!present || strings.TrimSpace(value) == "") {
			return errAttributeRequired(spec.Name)
		}
		if present && len(spec.Enum) > 0 && !stringIn(value, spec.Enum) {
			return errAttributeEnum(spec.Name, tag, spec.Enum)
		}
	}
	return nil
}

func hasChildOfKind(tree *node.Tree, children []node.ID, kinds []node.Kind) bool {
	for _, childID := range children {
		if kindIn(tree.Node(childID).Kind, kinds) {
			return true
		}
	}
	return false
}

func kindIn(kind node.Kind, kinds []node.Kind) bool {
	for _, k := range kinds {
		if k == kind {
			return true
		}
	}
	return false
}

func stringIn(value string, values []string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}
