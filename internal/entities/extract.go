package entities

import (
	"strconv"

	"github.com/goliatone/go-messageml/internal/faults"
	"github.com/goliatone/go-messageml/internal/markdown"
	"github.com/goliatone/go-messageml/internal/markup"
	"github.com/goliatone/go-messageml/internal/node"
	"github.com/goliatone/go-messageml/internal/presentation"
	"github.com/goliatone/go-messageml/internal/taxonomy"
)

// Record is one entity span located in the markdown output. Offsets are
// UTF-16 code units, half open.
type Record struct {
	Key        string
	Kind       node.Kind
	Node       node.ID
	IndexStart int
	IndexEnd   int
	Text       string
}

// Extraction holds the outputs of the forward pass.
type Extraction struct {
	Records  []Record
	Envelope Envelope
	Index    Index
	Markdown string
}

// Extract walks the markdown fold of tree and records every entity span. The
// generated envelope is overlaid with supplied, whose keys win.
func Extract(tree *node.Tree, supplied Envelope) (*Extraction, error) {
	c := &collector{
		keys: taxonomy.Keys(tree),
		open: map[node.ID]int{},
	}
	text, err := markdown.NewRenderer().Fold(tree, c)
	if err != nil {
		return nil, err
	}

	generated := Envelope{}
	index := Index{}
	for _, rec := range c.records {
		if rec.IndexStart < 0 || rec.IndexStart >= rec.IndexEnd {
			return nil, faults.Invariant("entities: empty span for %s", rec.Key)
		}
		n := tree.Node(rec.Node)
		generated[rec.Key] = entryFor(n)
		index.add(n, rec)
	}

	return &Extraction{
		Records:  c.records,
		Envelope: generated.Merge(supplied),
		Index:    index,
		Markdown: text,
	}, nil
}

// CrossValidate checks that every back-reference in tree has an entry in
// envelope.
func CrossValidate(tree *node.Tree, envelope Envelope) error {
	return tree.Walk(func(id node.ID, _ int) error {
		key := tree.Node(id).EntityID
		if key == "" {
			return nil
		}
		if _, ok := envelope[key]; !ok {
			return faults.Structuref("Error processing EntityJSON: no entity data provided for %q=%q",
				markup.EntityAttribute, key)
		}
		return nil
	})
}

type collector struct {
	keys    map[node.ID]string
	open    map[node.ID]int
	records []Record
}

func (c *collector) Enter(tree *node.Tree, id node.ID, offset int) {
	if _, ok := taxonomy.ForKind(tree.Node(id).Kind); ok {
		c.open[id] = offset
	}
}

func (c *collector) Leave(tree *node.Tree, id node.ID, offset int) {
	start, ok := c.open[id]
	if !ok {
		return
	}
	delete(c.open, id)
	n := tree.Node(id)
	c.records = append(c.records, Record{
		Key:        c.keys[id],
		Kind:       n.Kind,
		Node:       id,
		IndexStart: start,
		IndexEnd:   offset,
		Text:       presentation.EntityText(n),
	})
}

func entryFor(n *node.Node) Entry {
	d, _ := taxonomy.ForKind(n.Kind)
	entry := Entry{Type: d.Type, Version: taxonomy.Version}

	switch p := n.Payload.(type) {
	case *node.MentionPayload:
		entry.ID = []Identifier{{Type: d.IDType, Value: mentionUserID(p)}}
	case *node.TagPayload:
		entry.ID = []Identifier{{Type: d.IDType, Value: p.Value}}
	case *node.LinkPayload:
		entry.ID = []Identifier{{Type: d.IDType, Value: p.Href}}
	case *node.EmojiPayload:
		data := map[string]any{
			"shortcode": p.Shortcode,
			"size":      p.Size,
		}
		if p.Annotation != "" {
			data["annotation"] = p.Annotation
		}
		if p.Family != "" {
			data["family"] = p.Family
		}
		if p.Unicode != "" {
			data["unicode"] = p.Unicode
		}
		entry.Data = data
	}
	return entry
}

// mentionUserID prefers the resolved numeric id and falls back to the key,
// numeric when it parses as one.
func mentionUserID(p *node.MentionPayload) any {
	if p.User != nil && p.User.ID != 0 {
		return p.User.ID
	}
	if id, err := strconv.ParseInt(p.Key, 10, 64); err == nil {
		return id
	}
	return p.Key
}

// Unreferenced lists the envelope keys that no node of tree refers to,
// neither by back-reference nor by generated key, in sorted order.
func Unreferenced(tree *node.Tree, envelope Envelope) []string {
	used := map[string]bool{}
	for _, key := range taxonomy.Keys(tree) {
		used[key] = true
	}
	_ = tree.Walk(func(id node.ID, _ int) error {
		if key := tree.Node(id).EntityID; key != "" {
			used[key] = true
		}
		return nil
	})

	var out []string
	for _, key := range envelope.Keys() {
		if !used[key] {
			out = append(out, key)
		}
	}
	return out
}
