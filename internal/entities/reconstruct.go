package entities

import (
	"sort"
	"strconv"
	"strings"
	"unicode/utf16"

	"github.com/goliatone/go-messageml/internal/faults"
	"github.com/goliatone/go-messageml/internal/node"
)

// AnnotationKind names the entity an annotation stands for.
type AnnotationKind string

const (
	AnnotationURL     AnnotationKind = "url"
	AnnotationMention AnnotationKind = "mention"
	AnnotationHashtag AnnotationKind = "hashtag"
	AnnotationCashtag AnnotationKind = "cashtag"
	AnnotationEmoji   AnnotationKind = "emoji"
)

// Annotation marks [IndexStart, IndexEnd) of a legacy plain text, in UTF-16
// code units. Value is the href, user id or email, tag or shortcode; sigils
// are optional.
type Annotation struct {
	Kind       AnnotationKind `json:"kind"`
	IndexStart int            `json:"indexStart"`
	IndexEnd   int            `json:"indexEnd"`
	Value      string         `json:"value"`
	// EntityID links the annotation to an envelope entry used for enrichment.
	EntityID string `json:"entityId,omitempty"`
}

// SortAnnotations orders list by start offset, keeping the input order of
// ties.
func SortAnnotations(list []Annotation) {
	sort.SliceStable(list, func(i, j int) bool { return list[i].IndexStart < list[j].IndexStart })
}

// Reconstruct rebuilds an authoring tree from plain text and its annotations.
// Annotations must be sorted by start and must not overlap. Every gap becomes
// one text run holding the literal substring, line feeds included. A URL
// annotation keeps its covered text as the link content. When envelope holds
// the annotation's EntityID, the entry payload replaces the one derived from
// Value.
func Reconstruct(text string, annotations []Annotation, envelope Envelope) (*node.Tree, error) {
	units := utf16.Encode([]rune(text))
	tree := node.NewTree(node.MessageML)
	root, err := tree.Add(node.NoID, node.Node{Kind: node.KindRoot})
	if err != nil {
		return nil, faults.Invariant("reconstruct root: %v", err)
	}

	cursor := 0
	for _, a := range annotations {
		if a.IndexStart < cursor || a.IndexStart >= a.IndexEnd || a.IndexEnd > len(units) {
			return nil, faults.Structuref("Invalid annotation range [%d, %d)", a.IndexStart, a.IndexEnd)
		}
		if err := addText(tree, root, units[cursor:a.IndexStart]); err != nil {
			return nil, err
		}
		if err := addAnnotation(tree, root, a, envelope, units[a.IndexStart:a.IndexEnd]); err != nil {
			return nil, err
		}
		cursor = a.IndexEnd
	}
	if err := addText(tree, root, units[cursor:]); err != nil {
		return nil, err
	}
	return tree, nil
}

func addText(tree *node.Tree, parent node.ID, units []uint16) error {
	if len(units) == 0 {
		return nil
	}
	if _, err := tree.AddText(parent, string(utf16.Decode(units))); err != nil {
		return faults.Invariant("reconstruct text: %v", err)
	}
	return nil
}

func addAnnotation(tree *node.Tree, parent node.ID, a Annotation, envelope Envelope, covered []uint16) error {
	value := strings.TrimSpace(a.Value)
	n := node.Node{Kind: node.KindUnknown, EntityID: a.EntityID}

	switch a.Kind {
	case AnnotationURL:
		n.Kind = node.KindLink
		n.Attrs = node.AttributesOf("href", value)
		n.Payload = &node.LinkPayload{Href: value}
	case AnnotationMention:
		value = strings.TrimPrefix(value, "@")
		n.Kind = node.KindMention
		if _, err := strconv.ParseInt(value, 10, 64); err == nil {
			n.Attrs = node.AttributesOf("uid", value)
		} else {
			n.Attrs = node.AttributesOf("email", value)
		}
		n.Payload = &node.MentionPayload{Key: value}
	case AnnotationHashtag:
		value = strings.TrimPrefix(value, "#")
		n.Kind = node.KindHashtag
		n.Attrs = node.AttributesOf("tag", value)
		n.Payload = &node.TagPayload{Value: value}
	case AnnotationCashtag:
		value = strings.TrimPrefix(value, "$")
		n.Kind = node.KindCashtag
		n.Attrs = node.AttributesOf("tag", value)
		n.Payload = &node.TagPayload{Value: value}
	case AnnotationEmoji:
		value = strings.Trim(value, ":")
		n.Kind = node.KindEmoji
		n.Attrs = node.AttributesOf("shortcode", value)
		n.Payload = &node.EmojiPayload{Shortcode: value, Size: "normal"}
	default:
		return faults.Structuref("Invalid annotation kind %q at [%d, %d)", a.Kind, a.IndexStart, a.IndexEnd)
	}

	if a.EntityID != "" && envelope != nil {
		if kind, payload, ok := envelope.ResolveEntity(a.EntityID); ok && kind == n.Kind {
			n.Payload = payload
		}
	}

	id, err := tree.Add(parent, n)
	if err != nil {
		return faults.Invariant("reconstruct %s: %v", n.Kind, err)
	}
	if n.Kind == node.KindLink {
		return addText(tree, id, covered)
	}
	return nil
}
