package node

import (
	"errors"
	"fmt"
	"strings"
)

// ID addresses a node inside its Tree arena.
type ID int

// NoID marks the absence of a node (the parent of the root).
const NoID ID = -1

var (
	ErrFrozen       = errors.New("node: tree is frozen")
	ErrRootExists   = errors.New("node: tree already has a root")
	ErrUnknownNode  = errors.New("node: unknown node id")
	ErrTextChildren = errors.New("node: text runs cannot hold children")
)

// Node is a single element or text run. Children and parent are arena
// indexes so upward queries never need an owning back pointer.
type Node struct {
	ID     ID
	Kind   Kind
	Tag    string
	Format Format
	Attrs  Attributes
	// Text is the literal content of a text run.
	Text    string
	Payload Payload
	// EntityID is the back-reference into the entity envelope carried by the
	// input, if any.
	EntityID string
	// PresentationID is the document unique identifier written in place of
	// the authored one. It is bound once, before the tree is frozen.
	PresentationID string

	parent   ID
	children []ID
}

// Tree stores the nodes of one document in a flat table.
type Tree struct {
	format Format
	nodes  []*Node
	frozen bool
}

// NewTree allocates an empty tree for the given format.
func NewTree(format Format) *Tree {
	return &Tree{format: format}
}

func (t *Tree) Format() Format { return t.format }

// Len returns the number of nodes in the arena.
func (t *Tree) Len() int { return len(t.nodes) }

// Add appends n as the last child of parent. Passing NoID creates the root.
func (t *Tree) Add(parent ID, n Node) (ID, error) {
	if t.frozen {
		return NoID, ErrFrozen
	}
	if parent == NoID {
		if len(t.nodes) > 0 {
			return NoID, ErrRootExists
		}
	} else {
		p, err := t.lookup(parent)
		if err != nil {
			return NoID, err
		}
		if p.Kind == KindText {
			return NoID, ErrTextChildren
		}
	}
	if n.Tag == "" {
		n.Tag = n.Kind.String()
	}
	id := ID(len(t.nodes))
	stored := n
	stored.ID = id
	stored.parent = parent
	stored.children = nil
	stored.Attrs = n.Attrs.Clone()
	t.nodes = append(t.nodes, &stored)
	if parent != NoID {
		t.nodes[parent].children = append(t.nodes[parent].children, id)
	}
	return id, nil
}

// AddText appends a text run under parent.
func (t *Tree) AddText(parent ID, text string) (ID, error) {
	return t.Add(parent, Node{Kind: KindText, Format: t.format, Text: text})
}

// Root returns the root id or NoID for an empty tree.
func (t *Tree) Root() ID {
	if len(t.nodes) == 0 {
		return NoID
	}
	return 0
}

// Node returns the node stored under id, or nil. Mutation goes through the
// Tree setters. Once the tree is frozen the result is a detached copy, so
// writes to it never reach the tree.
func (t *Tree) Node(id ID) *Node {
	n, err := t.lookup(id)
	if err != nil {
		return nil
	}
	if t.frozen {
		return n.detach()
	}
	return n
}

// Children returns a copy of the child ids of id in document order.
func (t *Tree) Children(id ID) []ID {
	n, err := t.lookup(id)
	if err != nil || len(n.children) == 0 {
		return nil
	}
	out := make([]ID, len(n.children))
	copy(out, n.children)
	return out
}

// Parent returns the parent id of id, or NoID for the root.
func (t *Tree) Parent(id ID) ID {
	n, err := t.lookup(id)
	if err != nil {
		return NoID
	}
	return n.parent
}

// Ancestor returns the closest strict ancestor of id whose kind is one of kinds.
func (t *Tree) Ancestor(id ID, kinds ...Kind) (ID, bool) {
	for cur := t.Parent(id); cur != NoID; cur = t.Parent(cur) {
		if kindIn(t.nodes[cur].Kind, kinds) {
			return cur, true
		}
	}
	return NoID, false
}

// HasAncestor reports whether any strict ancestor of id has one of kinds.
func (t *Tree) HasAncestor(id ID, kinds ...Kind) bool {
	_, ok := t.Ancestor(id, kinds...)
	return ok
}

// Walk visits every node depth-first in preorder. Returning an error from fn
// stops the walk and propagates the error.
func (t *Tree) Walk(fn func(id ID, depth int) error) error {
	return t.Traverse(fn, nil)
}

// Traverse visits every node depth-first, calling enter before the children
// of a node and leave after them. Either callback may be nil.
func (t *Tree) Traverse(enter, leave func(id ID, depth int) error) error {
	if len(t.nodes) == 0 {
		return nil
	}
	return t.traverse(0, 0, enter, leave)
}

func (t *Tree) traverse(id ID, depth int, enter, leave func(ID, int) error) error {
	if enter != nil {
		if err := enter(id, depth); err != nil {
			return err
		}
	}
	for _, child := range t.nodes[id].children {
		if err := t.traverse(child, depth+1, enter, leave); err != nil {
			return err
		}
	}
	if leave != nil {
		return leave(id, depth)
	}
	return nil
}

// Text concatenates the literal text of every text run below id.
func (t *Tree) Text(id ID) string {
	n, err := t.lookup(id)
	if err != nil {
		return ""
	}
	if n.Kind == KindText {
		return n.Text
	}
	var b strings.Builder
	for _, child := range n.children {
		b.WriteString(t.Text(child))
	}
	return b.String()
}

// ElementOrdinals returns, per node id, the preorder position of the node
// among element nodes. Text runs map to -1 and the root is zero.
func (t *Tree) ElementOrdinals() []int {
	out := make([]int, len(t.nodes))
	next := 0
	_ = t.Walk(func(cur ID, _ int) error {
		if t.nodes[cur].Kind == KindText {
			out[cur] = -1
			return nil
		}
		out[cur] = next
		next++
		return nil
	})
	return out
}

// SetAttr updates an attribute on an unfrozen tree.
func (t *Tree) SetAttr(id ID, name, value string) error {
	n, err := t.mutable(id)
	if err != nil {
		return err
	}
	n.Attrs.Set(name, value)
	return nil
}

// SetPayload replaces the kind specific payload of id.
func (t *Tree) SetPayload(id ID, payload Payload) error {
	n, err := t.mutable(id)
	if err != nil {
		return err
	}
	n.Payload = payload
	return nil
}

// SetPresentationID binds the presentation identifier of id.
func (t *Tree) SetPresentationID(id ID, value string) error {
	n, err := t.mutable(id)
	if err != nil {
		return err
	}
	n.PresentationID = value
	return nil
}

// Freeze marks the tree immutable. It is called once validation succeeds and
// presentation identifiers are bound. Setters fail with ErrFrozen afterwards
// and Node hands out copies.
func (t *Tree) Freeze() { t.frozen = true }

func (t *Tree) Frozen() bool { return t.frozen }

func (t *Tree) mutable(id ID) (*Node, error) {
	if t.frozen {
		return nil, ErrFrozen
	}
	return t.lookup(id)
}

func (t *Tree) lookup(id ID) (*Node, error) {
	if id < 0 || int(id) >= len(t.nodes) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownNode, id)
	}
	return t.nodes[id], nil
}

func (n *Node) detach() *Node {
	out := *n
	out.Attrs = n.Attrs.Clone()
	out.Payload = clonePayload(n.Payload)
	out.children = append([]ID(nil), n.children...)
	return &out
}

func kindIn(kind Kind, kinds []Kind) bool {
	for _, k := range kinds {
		if k == kind {
			return true
		}
	}
	return false
}
