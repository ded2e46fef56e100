package node

// Kind is the closed set of element kinds a document tree can hold.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindRoot
	KindText

	KindDiv
	KindParagraph
	KindSpan
	KindBold
	KindItalic
	KindHeading
	KindPreformatted
	KindCode
	KindHorizontalRule
	KindLineBreak
	KindUnorderedList
	KindOrderedList
	KindListItem
	KindTable
	KindTableHead
	KindTableBody
	KindTableFoot
	KindTableRow
	KindTableCell
	KindTableHeaderCell

	KindLink
	KindImage

	KindMention
	KindHashtag
	KindCashtag
	KindEmoji

	KindForm
	KindDialog
	KindDialogTitle
	KindDialogBody
	KindDialogFooter
	KindSelect
	KindOption
	KindCheckbox
	KindRadio
	KindTextField
	KindDatePicker
	KindTimePicker
	KindPersonSelector
	KindRoomSelector
	KindButton

	kindCount
)

var kindTags = [...]string{
	KindUnknown:         "unknown",
	KindRoot:            "messageML",
	KindText:            "#text",
	KindDiv:             "div",
	KindParagraph:       "p",
	KindSpan:            "span",
	KindBold:            "b",
	KindItalic:          "i",
	KindHeading:         "h",
	KindPreformatted:    "pre",
	KindCode:            "code",
	KindHorizontalRule:  "hr",
	KindLineBreak:       "br",
	KindUnorderedList:   "ul",
	KindOrderedList:     "ol",
	KindListItem:        "li",
	KindTable:           "table",
	KindTableHead:       "thead",
	KindTableBody:       "tbody",
	KindTableFoot:       "tfoot",
	KindTableRow:        "tr",
	KindTableCell:       "td",
	KindTableHeaderCell: "th",
	KindLink:            "a",
	KindImage:           "img",
	KindMention:         "mention",
	KindHashtag:         "hash",
	KindCashtag:         "cash",
	KindEmoji:           "emoji",
	KindForm:            "form",
	KindDialog:          "dialog",
	KindDialogTitle:     "title",
	KindDialogBody:      "body",
	KindDialogFooter:    "footer",
	KindSelect:          "select",
	KindOption:          "option",
	KindCheckbox:        "checkbox",
	KindRadio:           "radio",
	KindTextField:       "text-field",
	KindDatePicker:      "date-picker",
	KindTimePicker:      "time-picker",
	KindPersonSelector:  "person-selector",
	KindRoomSelector:    "room-selector",
	KindButton:          "button",
}

// String returns the authoring tag of the kind. Headings report "h"; the
// concrete level lives on Node.Tag.
func (k Kind) String() string {
	if int(k) < len(kindTags) && kindTags[k] != "" {
		return kindTags[k]
	}
	return kindTags[KindUnknown]
}

// Kinds lists every concrete kind in declaration order.
func Kinds() []Kind {
	out := make([]Kind, 0, int(kindCount)-1)
	for k := KindRoot; k < kindCount; k++ {
		out = append(out, k)
	}
	return out
}

// IsEntity reports whether the kind produces an entity record.
func (k Kind) IsEntity() bool {
	switch k {
	case KindMention, KindHashtag, KindCashtag, KindEmoji, KindLink:
		return true
	default:
		return false
	}
}
