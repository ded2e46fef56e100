package rules

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/goliatone/go-messageml/internal/faults"
	"github.com/goliatone/go-messageml/internal/node"
)

var emojiTokenPattern = regexp.MustCompile(`^[\w+\-]+$`)

func checkMention(tree *node.Tree, id node.ID) error {
	if tree.Format() != node.MessageML {
		return nil
	}
	n := tree.Node(id)
	uid := strings.TrimSpace(n.Attrs.Value("uid"))
	email := strings.TrimSpace(n.Attrs.Value("email"))
	if uid == "" && email == "" {
		return faults.Structure(`The attribute "uid" or "email" is required`)
	}
	if uid != "" {
		if _, err := strconv.ParseInt(uid, 10, 64); err != nil {
			return faults.Structure(`The attribute "uid" must be a valid number`)
		}
	}
	return nil
}

func checkEmoji(tree *node.Tree, id node.ID) error {
	n := tree.Node(id)
	shortcode, annotation := n.Attrs.Value("shortcode"), n.Attrs.Value("annotation")
	if p, ok := n.Payload.(*node.EmojiPayload); ok {
		shortcode, annotation = p.Shortcode, p.Annotation
	}
	if tree.Format() == node.PresentationML && shortcode == "" {
		return nil
	}
	if !emojiTokenPattern.MatchString(shortcode) || (annotation != "" && !emojiTokenPattern.MatchString(annotation)) {
		return faults.Structure("Shortcode or Annotation parameter may only contain alphanumeric characters, underscore, plus sign and dash")
	}
	return nil
}

func checkFormNesting(tree *node.Tree, id node.ID) error {
	if tree.HasAncestor(id, node.KindForm) {
		return faults.Structure(`Element "form" cannot be nested inside another "form"`)
	}
	return nil
}

func checkDialogChildren(tree *node.Tree, id node.ID) error {
	var forms, others int
	present := map[node.Kind]int{}
	for _, childID := range tree.Children(id) {
		child := tree.Node(childID)
		switch {
		case child.Kind == node.KindText:
			if strings.TrimSpace(child.Text) != "" {
				return errChildNotAllowed("text", "dialog")
			}
		case child.Kind == node.KindForm:
			forms++
		default:
			others++
			present[child.Kind]++
		}
	}

	switch {
	case forms > 1:
		return faults.Structure(`A "dialog" element can contain only one "form" element`)
	case forms == 1 && others > 0:
		return faults.Structure(`A "dialog" element can't contain a "form" element and any other element.`)
	case forms == 1:
		return nil
	}

	for _, childID := range tree.Children(id) {
		child := tree.Node(childID)
		if child.Kind != node.KindText && !kindIn(child.Kind, dialogChildren) {
			return errChildNotAllowed(displayTag(child), "dialog")
		}
	}
	for _, kind := range dialogChildren {
		if present[kind] > 1 {
			return faults.Structuref("A %q element can contain only one %q element", "dialog", kind.String())
		}
	}

	if tree.Format() == node.MessageML {
		for _, kind := range []node.Kind{node.KindDialogTitle, node.KindDialogBody} {
			if present[kind] == 0 {
				return errRequiredChild("dialog", []string{kind.String()})
			}
		}
		return nil
	}
	if present[node.KindDialogTitle] == 0 && present[node.KindDialogBody] == 0 {
		return faults.Structure(`The "dialog" element must have at least one child that is any of the following elements: [title,body].`)
	}
	return nil
}

func checkSingleSelected(tree *node.Tree, id node.ID) error {
	selected := 0
	for _, childID := range tree.Children(id) {
		child := tree.Node(childID)
		if child.Kind == node.KindOption && child.Attrs.Value("selected") == "true" {
			selected++
		}
	}
	if selected > 1 && tree.Node(id).Attrs.Value("multiple") != "true" {
		return faults.Structure(`Element "select" can only have one selected "option"`)
	}
	return nil
}

func checkMultiSelect(tree *node.Tree, id node.ID) error {
	n := tree.Node(id)
	multiple := n.Attrs.Value("multiple") == "true"
	minValue, hasMin := n.Attrs.Get("min")
	maxValue, hasMax := n.Attrs.Get("max")

	if hasMin && !multiple {
		return faults.Structure(`Attribute "min" is not allowed. Attribute "multiple" missing`)
	}
	if hasMax && !multiple {
		return faults.Structure(`Attribute "max" is not allowed. Attribute "multiple" missing`)
	}

	var lower, upper int
	if hasMin {
		v, err := strconv.Atoi(strings.TrimSpace(minValue))
		if err != nil || v < 0 {
			return faults.Structure(`Attribute "min" is not valid`)
		}
		lower = v
	}
	if hasMax {
		v, err := strconv.Atoi(strings.TrimSpace(maxValue))
		if err != nil || v < 1 {
			return faults.Structure(`Attribute "max" is not valid`)
		}
		upper = v
	}
	if hasMin && hasMax && lower > upper {
		return faults.Structure(`Attribute "min" is greater than attribute "max"`)
	}
	if hasMin && lower == 0 && n.Attrs.Value("required") == "true" {
		return faults.Structure(`Attribute "min" cannot be 0 if "required" is true`)
	}
	return nil
}

func checkButton(tree *node.Tree, id node.ID) error {
	n := tree.Node(id)
	if n.Attrs.Value("type") == "action" && strings.TrimSpace(n.Attrs.Value("name")) == "" {
		return errAttributeRequired("name")
	}
	return nil
}
