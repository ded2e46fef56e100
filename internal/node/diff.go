package node

import (
	"fmt"
	"reflect"
)

// AttrFilter reports attributes Diff should skip for a given node.
type AttrFilter func(n *Node, name string) bool

// Diff compares two trees structurally and describes the first difference,
// or returns "" when they are equivalent. Kinds, tags, attributes (minus
// filtered ones), text and payloads are compared; envelope back-references
// and the authoring format are not, so a tree re-read from its presentation
// rendering compares equal to the original.
func Diff(a, b *Tree, filters ...AttrFilter) string {
	if a.Len() == 0 || b.Len() == 0 {
		if a.Len() == b.Len() {
			return ""
		}
		return fmt.Sprintf("tree sizes differ: %d != %d", a.Len(), b.Len())
	}
	return diffNode(a, b, a.Root(), b.Root(), "/", filters)
}

func diffNode(a, b *Tree, ida, idb ID, path string, filters []AttrFilter) string {
	na, nb := a.Node(ida), b.Node(idb)
	here := path + na.Tag
	if na.Kind != nb.Kind {
		return fmt.Sprintf("%s: kind %s != %s", here, na.Kind, nb.Kind)
	}
	if na.Tag != nb.Tag {
		return fmt.Sprintf("%s: tag %s != %s", here, na.Tag, nb.Tag)
	}
	if na.Text != nb.Text {
		return fmt.Sprintf("%s: text %q != %q", here, na.Text, nb.Text)
	}
	if d := diffAttrs(na, nb, filters); d != "" {
		return here + ": " + d
	}
	if !reflect.DeepEqual(na.Payload, nb.Payload) {
		return fmt.Sprintf("%s: payload %+v != %+v", here, na.Payload, nb.Payload)
	}
	ca, cb := a.Children(ida), b.Children(idb)
	if len(ca) != len(cb) {
		return fmt.Sprintf("%s: %d children != %d", here, len(ca), len(cb))
	}
	for i := range ca {
		if d := diffNode(a, b, ca[i], cb[i], fmt.Sprintf("%s/%d:", here, i), filters); d != "" {
			return d
		}
	}
	return ""
}

func diffAttrs(na, nb *Node, filters []AttrFilter) string {
	keep := func(n *Node) map[string]string {
		out := map[string]string{}
		for _, attr := range n.Attrs.All() {
			skip := false
			for _, f := range filters {
				if f(n, attr.Name) {
					skip = true
					break
				}
			}
			if !skip {
				out[attr.Name] = attr.Value
			}
		}
		return out
	}
	ma, mb := keep(na), keep(nb)
	if reflect.DeepEqual(ma, mb) {
		return ""
	}
	return fmt.Sprintf("attributes %v != %v", ma, mb)
}
