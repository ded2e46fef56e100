package rules

import (
	"github.com/goliatone/go-messageml/internal/node"
)

var (
	booleanValues   = []string{"true", "false"}
	dialogWidths    = []string{"small", "medium", "large", "full-width"}
	dialogStates    = []string{"open", "close"}
	emojiSizes      = []string{"tiny", "small", "normal", "big", "huge"}
	buttonTypes     = []string{"action", "reset"}
	buttonClasses   = []string{"primary", "secondary", "tertiary", "destructive"}
	formAncestor    = []node.Kind{node.KindForm}
	dialogChildren  = []node.Kind{node.KindDialogTitle, node.KindDialogBody, node.KindDialogFooter}
	tableSections   = []node.Kind{node.KindTableHead, node.KindTableBody, node.KindTableFoot, node.KindTableRow}
	tableCellKinds  = []node.Kind{node.KindTableCell, node.KindTableHeaderCell}
	listParentKinds = []node.Kind{node.KindUnorderedList, node.KindOrderedList}
	emojiContent    = []node.Kind{node.KindBold, node.KindItalic, node.KindSpan, node.KindCode, node.KindLineBreak}
)

func std(name string) AttrSpec { return AttrSpec{Name: name, Standard: true} }

func data(name string) AttrSpec { return AttrSpec{Name: name} }

func required(spec AttrSpec) AttrSpec {
	spec.Required = true
	return spec
}

func enum(spec AttrSpec, def string, values []string) AttrSpec {
	spec.Default = def
	spec.Enum = values
	return spec
}

func authoring(spec AttrSpec) AttrSpec {
	spec.Formats = MessageMLOnly
	return spec
}

func styled(extra ...AttrSpec) []AttrSpec {
	return append([]AttrSpec{std("class"), std("style")}, extra...)
}

func labelled(extra ...AttrSpec) []AttrSpec {
	base := []AttrSpec{
		required(std("name")),
		std("placeholder"),
		enum(std("required"), "", booleanValues),
		data("label"),
		data("title"),
	}
	return append(base, extra...)
}

// BuiltIns returns the rule catalogue for every element kind.
func BuiltIns() []Rule {
	return []Rule{
		{Kind: node.KindRoot, Tags: []string{"messageML"}},
		{Kind: node.KindDiv, Tags: []string{"div"}, Attributes: styled()},
		{Kind: node.KindParagraph, Tags: []string{"p"}, Attributes: styled()},
		{Kind: node.KindSpan, Tags: []string{"span"}, Attributes: styled()},
		{Kind: node.KindBold, Tags: []string{"b"}, Attributes: styled()},
		{Kind: node.KindItalic, Tags: []string{"i"}, Attributes: styled()},
		{Kind: node.KindHeading, Tags: []string{"h1", "h2", "h3", "h4", "h5", "h6"}, Attributes: styled()},
		{Kind: node.KindPreformatted, Tags: []string{"pre"}, Attributes: styled()},
		{Kind: node.KindCode, Tags: []string{"code"}, Attributes: styled()},
		{Kind: node.KindHorizontalRule, Tags: []string{"hr"}, Content: Content{Model: Empty}},
		{Kind: node.KindLineBreak, Tags: []string{"br"}, Content: Content{Model: Empty}},
		{
			Kind:       node.KindUnorderedList,
			Tags:       []string{"ul"},
			Attributes: styled(),
			Content:    Content{Model: Whitelist, Kinds: []node.Kind{node.KindListItem}},
		},
		{
			Kind:       node.KindOrderedList,
			Tags:       []string{"ol"},
			Attributes: styled(),
			Content:    Content{Model: Whitelist, Kinds: []node.Kind{node.KindListItem}},
		},
		{Kind: node.KindListItem, Tags: []string{"li"}, Attributes: styled(), Parents: listParentKinds},
		{
			Kind:       node.KindTable,
			Tags:       []string{"table"},
			Attributes: styled(),
			Content:    Content{Model: Whitelist, Kinds: tableSections},
		},
		{
			Kind:       node.KindTableHead,
			Tags:       []string{"thead"},
			Attributes: styled(),
			Content:    Content{Model: Whitelist, Kinds: []node.Kind{node.KindTableRow}},
			Parents:    []node.Kind{node.KindTable},
		},
		{
			Kind:       node.KindTableBody,
			Tags:       []string{"tbody"},
			Attributes: styled(),
			Content:    Content{Model: Whitelist, Kinds: []node.Kind{node.KindTableRow}},
			Parents:    []node.Kind{node.KindTable},
		},
		{
			Kind:       node.KindTableFoot,
			Tags:       []string{"tfoot"},
			Attributes: styled(),
			Content:    Content{Model: Whitelist, Kinds: []node.Kind{node.KindTableRow}},
			Parents:    []node.Kind{node.KindTable},
		},
		{
			Kind:       node.KindTableRow,
			Tags:       []string{"tr"},
			Attributes: styled(),
			Content:    Content{Model: Whitelist, Kinds: tableCellKinds},
			Parents:    []node.Kind{node.KindTable, node.KindTableHead, node.KindTableBody, node.KindTableFoot},
		},
		{
			Kind:       node.KindTableCell,
			Tags:       []string{"td"},
			Attributes: styled(std("rowspan"), std("colspan")),
			Parents:    []node.Kind{node.KindTableRow},
		},
		{
			Kind:       node.KindTableHeaderCell,
			Tags:       []string{"th"},
			Attributes: styled(std("rowspan"), std("colspan")),
			Parents:    []node.Kind{node.KindTableRow},
		},
		{
			Kind:       node.KindLink,
			Tags:       []string{"a"},
			Attributes: []AttrSpec{required(std("href")), std("class")},
		},
		{
			Kind:       node.KindImage,
			Tags:       []string{"img"},
			Attributes: []AttrSpec{required(std("src")), std("class")},
			Content:    Content{Model: Empty},
		},
		{
			Kind:       node.KindMention,
			Tags:       []string{"mention"},
			Attributes: []AttrSpec{authoring(data("uid")), authoring(data("email")), authoring(data("strict"))},
			Content:    Content{Model: Empty},
			Checks:     []Check{checkMention},
		},
		{
			Kind:       node.KindHashtag,
			Tags:       []string{"hash"},
			Attributes: []AttrSpec{authoring(required(data("tag")))},
			Content:    Content{Model: Empty},
		},
		{
			Kind:       node.KindCashtag,
			Tags:       []string{"cash"},
			Attributes: []AttrSpec{authoring(required(data("tag")))},
			Content:    Content{Model: Empty},
		},
		{
			Kind: node.KindEmoji,
			Tags: []string{"emoji"},
			Attributes: []AttrSpec{
				authoring(required(data("shortcode"))),
				authoring(data("annotation")),
				authoring(data("family")),
				authoring(enum(data("size"), "normal", emojiSizes)),
			},
			Content: Content{Model: Whitelist, Kinds: emojiContent, Text: true},
			Checks:  []Check{checkEmoji},
		},
		{
			Kind:       node.KindForm,
			Tags:       []string{"form"},
			Attributes: []AttrSpec{required(std("id"))},
			Checks:     []Check{checkFormNesting},
		},
		{
			Kind: node.KindDialog,
			Tags: []string{"dialog"},
			Attributes: []AttrSpec{
				required(std("id")),
				enum(data("width"), "medium", dialogWidths),
				enum(data("state"), "close", dialogStates),
				{Name: "open", Standard: true, Formats: PresentationMLOnly, Presence: true},
			},
			Content:    Content{Model: Custom},
			Identifier: "id",
			Checks:     []Check{checkDialogChildren},
		},
		{Kind: node.KindDialogTitle, Tags: []string{"title"}, Parents: []node.Kind{node.KindDialog}},
		{Kind: node.KindDialogBody, Tags: []string{"body"}, Parents: []node.Kind{node.KindDialog}},
		{Kind: node.KindDialogFooter, Tags: []string{"footer"}, Parents: []node.Kind{node.KindDialog}},
		{
			Kind: node.KindSelect,
			Tags: []string{"select"},
			Attributes: []AttrSpec{
				required(std("name")),
				enum(std("required"), "", booleanValues),
				enum(std("multiple"), "", booleanValues),
				data("min"),
				data("max"),
				data("placeholder"),
				data("label"),
				data("title"),
			},
			Content:   Content{Model: Whitelist, Kinds: []node.Kind{node.KindOption}},
			Required:  []node.Kind{node.KindOption},
			Ancestors: formAncestor,
			Checks:    []Check{checkSingleSelected, checkMultiSelect},
		},
		{
			Kind: node.KindOption,
			Tags: []string{"option"},
			Attributes: []AttrSpec{
				required(std("value")),
				enum(std("selected"), "", booleanValues),
			},
			Content: Content{Model: TextOnly},
			Parents: []node.Kind{node.KindSelect},
		},
		{
			Kind: node.KindCheckbox,
			Tags: []string{"checkbox"},
			Attributes: []AttrSpec{
				required(std("name")),
				{Name: "value", Standard: true, Default: "on"},
				enum(std("checked"), "", booleanValues),
			},
			Content:   Content{Model: TextOnly},
			Ancestors: formAncestor,
		},
		{
			Kind: node.KindRadio,
			Tags: []string{"radio"},
			Attributes: []AttrSpec{
				required(std("name")),
				{Name: "value", Standard: true, Default: "on"},
				enum(std("checked"), "", booleanValues),
			},
			Content:   Content{Model: TextOnly},
			Ancestors: formAncestor,
		},
		{
			Kind: node.KindTextField,
			Tags: []string{"text-field"},
			Attributes: labelled(
				std("minlength"),
				std("maxlength"),
				std("pattern"),
				data("pattern-error-message"),
				enum(data("masked"), "", booleanValues),
			),
			Content:   Content{Model: TextOnly},
			Ancestors: formAncestor,
		},
		{
			Kind:       node.KindDatePicker,
			Tags:       []string{"date-picker"},
			Attributes: labelled(std("value"), std("min"), std("max")),
			Content:    Content{Model: Empty},
			Ancestors:  formAncestor,
		},
		{
			Kind:       node.KindTimePicker,
			Tags:       []string{"time-picker"},
			Attributes: labelled(std("value"), std("min"), std("max")),
			Content:    Content{Model: Empty},
			Ancestors:  formAncestor,
		},
		{
			Kind:       node.KindPersonSelector,
			Tags:       []string{"person-selector"},
			Attributes: selectorAttributes(),
			Content:    Content{Model: Empty},
			Ancestors:  formAncestor,
		},
		{
			Kind:       node.KindRoomSelector,
			Tags:       []string{"room-selector"},
			Attributes: selectorAttributes(),
			Content:    Content{Model: Empty},
			Ancestors:  formAncestor,
		},
		{
			Kind: node.KindButton,
			Tags: []string{"button"},
			Attributes: []AttrSpec{
				std("name"),
				enum(std("type"), "action", buttonTypes),
				enum(std("class"), "", buttonClasses),
			},
			Content:   Content{Model: TextOnly},
			Ancestors: formAncestor,
			Checks:    []Check{checkButton},
		},
	}
}

// Selectors render as divs in presentation output, so every attribute
// travels with the data- prefix.
func selectorAttributes() []AttrSpec {
	return []AttrSpec{
		required(data("name")),
		data("placeholder"),
		enum(data("required"), "", booleanValues),
		data("label"),
		data("title"),
	}
}
