// Package markup turns raw authoring or presentation markup into node trees.
package markup

import (
	"context"
	"strings"

	"github.com/antchfx/xmlquery"

	"github.com/goliatone/go-messageml/internal/faults"
	"github.com/goliatone/go-messageml/internal/node"
)

const (
	rootTag              = "messageML"
	presentationRootTag  = "div"
	formatAttribute      = "data-format"
	versionAttribute     = "data-version"
	errRootMessage       = "Root tag must be <messageML>"
	errControlCharacters = "Invalid control characters in message"
)

// Document is the generic parse result: the root element and the format it
// declares.
type Document struct {
	Root    *xmlquery.Node
	Format  node.Format
	Version string
}

// Parse reads input as XML and locates its single root element. The root
// decides the format: <messageML> is authoring markup and
// <div data-format="PresentationML"> is canonical presentation markup.
func Parse(ctx context.Context, input string) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if hasControlCharacters(input) {
		return nil, faults.Syntax(nil, errControlCharacters)
	}

	doc, err := xmlquery.Parse(strings.NewReader(input))
	if err != nil {
		return nil, faults.Syntax(err, "Error parsing message: "+err.Error())
	}

	var root *xmlquery.Node
	for child := doc.FirstChild; child != nil; child = child.NextSibling {
		switch child.Type {
		case xmlquery.ElementNode:
			if root != nil {
				return nil, faults.Structure(errRootMessage)
			}
			root = child
		case xmlquery.TextNode, xmlquery.CharDataNode:
			if strings.TrimSpace(child.Data) != "" {
				return nil, faults.Structure(errRootMessage)
			}
		}
	}
	if root == nil || root.Prefix != "" {
		return nil, faults.Structure(errRootMessage)
	}

	switch {
	case root.Data == rootTag:
		return &Document{Root: root, Format: node.MessageML}, nil
	case root.Data == presentationRootTag && attr(root, formatAttribute) == node.PresentationML.String():
		return &Document{Root: root, Format: node.PresentationML, Version: attr(root, versionAttribute)}, nil
	default:
		return nil, faults.Structure(errRootMessage)
	}
}

func hasControlCharacters(input string) bool {
	for _, r := range input {
		if r < 0x20 && r != '\t' && r != '\n' && r != '\r' {
			return true
		}
	}
	return false
}

func attr(n *xmlquery.Node, name string) string {
	for _, a := range n.Attr {
		if attrName(a) == name {
			return a.Value
		}
	}
	return ""
}

func attrName(a xmlquery.Attr) string {
	if a.Name.Space != "" {
		return a.Name.Space + ":" + a.Name.Local
	}
	return a.Name.Local
}
