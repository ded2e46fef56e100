// Package markdown renders validated trees into the markdown approximation
// used for plain text clients and entity offsets.
package markdown

import (
	"strconv"
	"strings"
	"unicode/utf16"

	"github.com/goliatone/go-messageml/internal/faults"
	"github.com/goliatone/go-messageml/internal/node"
	"github.com/goliatone/go-messageml/internal/presentation"
)

const (
	dialogBanner = "Dialog (log into desktop client to answer):"
	bannerSpacer = "\n   \n"
	tableOpen    = "\n---\nTable:\n---\n"
	tableClose   = "---\n"
)

var escaper = strings.NewReplacer(`\`, `\\`, "*", `\*`, "_", `\_`, "`", "\\`", "~", `\~`)

// Escape backslash-escapes the characters that carry markdown meaning.
func Escape(text string) string {
	return escaper.Replace(text)
}

// Observer is notified around every node of the fold. Offsets count UTF-16
// code units of the markdown written so far.
type Observer interface {
	Enter(tree *node.Tree, id node.ID, offset int)
	Leave(tree *node.Tree, id node.ID, offset int)
}

// Renderer produces the markdown approximation of a validated tree.
type Renderer struct{}

func NewRenderer() *Renderer { return &Renderer{} }

// Render folds tree into markdown.
func (r *Renderer) Render(tree *node.Tree) (string, error) {
	return r.Fold(tree, nil)
}

// Fold renders tree while reporting node boundaries to observer.
func (r *Renderer) Fold(tree *node.Tree, observer Observer) (string, error) {
	if tree == nil || tree.Root() == node.NoID {
		return "", faults.Invariant("markdown: empty tree")
	}
	f := &fold{tree: tree, observer: observer}
	f.node(tree.Root())
	return f.b.String(), nil
}

type fold struct {
	tree     *node.Tree
	observer Observer
	b        strings.Builder
	offset   int
}

func (f *fold) write(s string) {
	f.b.WriteString(s)
	for _, r := range s {
		f.offset += utf16.RuneLen(r)
	}
}

func (f *fold) node(id node.ID) {
	n := f.tree.Node(id)
	if f.observer != nil {
		f.observer.Enter(f.tree, id, f.offset)
	}

	if n.Kind == node.KindText {
		f.write(Escape(n.Text))
	} else {
		opening, text, closing, descend := f.delimiters(id, n)
		f.write(opening)
		f.write(text)
		if descend {
			for _, child := range f.tree.Children(id) {
				f.node(child)
			}
		}
		f.write(closing)
	}

	if f.observer != nil {
		f.observer.Leave(f.tree, id, f.offset)
	}
}

// delimiters returns the opening delimiter, the node's own text, the closing
// delimiter and whether its children are rendered.
func (f *fold) delimiters(id node.ID, n *node.Node) (string, string, string, bool) {
	switch n.Kind {
	case node.KindParagraph, node.KindDiv:
		return "", "", "\n", true
	case node.KindBold:
		return "**", "", "**", true
	case node.KindItalic:
		return "_", "", "_", true
	case node.KindCode:
		return "`", "", "`", true
	case node.KindPreformatted:
		return "```\n", "", "\n```\n", true
	case node.KindHeading:
		return "**", "", "**\n", true
	case node.KindLineBreak:
		return "", "\n", "", false
	case node.KindHorizontalRule:
		return "", "\n---\n", "", false
	case node.KindListItem:
		if f.tree.Node(f.tree.Parent(id)).Kind == node.KindOrderedList {
			return strconv.Itoa(f.itemNumber(id)) + ". ", "", "\n", true
		}
		return "- ", "", "\n", true
	case node.KindTable:
		return tableOpen, "", tableClose, true
	case node.KindTableRow:
		return "", "", "\n", true
	case node.KindTableCell, node.KindTableHeaderCell:
		return "", "", " | ", true
	case node.KindImage:
		return "", "", "", false
	case node.KindLink, node.KindMention, node.KindHashtag, node.KindCashtag, node.KindEmoji:
		return "", presentation.EntityText(n), "", false

	case node.KindForm:
		return bannerSpacer, "", bannerSpacer, true
	case node.KindDialog:
		return bannerSpacer + dialogBanner + "\n", "", bannerSpacer, true
	case node.KindDialogTitle, node.KindDialogBody, node.KindDialogFooter:
		return "", "", "\n", true
	case node.KindSelect:
		// The label line precedes the options.
		return " ", Escape(n.Attrs.Value("label")) + " \n", "", true
	case node.KindOption:
		return "-", "", "\n", true
	case node.KindCheckbox, node.KindRadio:
		return " ", "", " ", true
	case node.KindButton:
		return "(Button:", "", ")", true
	case node.KindTextField:
		return "(Text Field", textFieldText(n), ")", false
	case node.KindDatePicker:
		return "(Date Picker", datePickerText(n), ")", false
	case node.KindTimePicker:
		return "(Time Picker", labelTooltipPlaceholder(n), ")", false
	case node.KindPersonSelector:
		return "(Person Selector", labelTooltipPlaceholder(n), ")", false
	case node.KindRoomSelector:
		return "(Room Selector", labelTooltipPlaceholder(n), ")", false
	}
	return "", "", "", true
}

func (f *fold) itemNumber(id node.ID) int {
	number := 0
	for _, sibling := range f.tree.Children(f.tree.Parent(id)) {
		if f.tree.Node(sibling).Kind == node.KindListItem {
			number++
		}
		if sibling == id {
			break
		}
	}
	return number
}

// labelTooltipPlaceholder renders ":[label][tooltip][placeholder]" with one
// bracket per non-empty value, or nothing.
func labelTooltipPlaceholder(n *node.Node) string {
	var b strings.Builder
	for _, name := range []string{"label", "title", "placeholder"} {
		if v := n.Attrs.Value(name); v != "" {
			b.WriteString("[" + v + "]")
		}
	}
	if b.Len() == 0 {
		return ""
	}
	return ":" + b.String()
}

func textFieldText(n *node.Node) string {
	text := labelTooltipPlaceholder(n)
	field, ok := n.Payload.(*node.FieldPayload)
	if !ok || !field.HasInitial {
		return text
	}
	if text == "" {
		text = ":"
	}
	return text + field.InitialValue
}

func datePickerText(n *node.Node) string {
	var parts []string
	for _, name := range []string{"label", "title", "placeholder"} {
		if v := n.Attrs.Value(name); v != "" {
			parts = append(parts, v)
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return ":[" + strings.Join(parts, "][") + "]"
}
