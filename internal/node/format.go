package node

import "strings"

// Format is the authoring flavour a tree was built from.
type Format uint8

const (
	// MessageML is the author-facing markup.
	MessageML Format = iota
	// PresentationML is the canonical, machine rendered markup.
	PresentationML
)

func (f Format) String() string {
	if f == PresentationML {
		return "PresentationML"
	}
	return "MessageML"
}

// ParseFormat accepts the format names used in configuration and CLI flags.
func ParseFormat(value string) (Format, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "messageml", "mml", "authoring":
		return MessageML, true
	case "presentationml", "pml", "presentation", "canonical":
		return PresentationML, true
	default:
		return MessageML, false
	}
}
