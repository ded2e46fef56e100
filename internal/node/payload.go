package node

import "github.com/goliatone/go-messageml/pkg/interfaces"

// Payload is the kind specific data bound to a node during construction.
type Payload interface {
	payload()
}

// MentionPayload holds the mention key and, once resolved, the user record.
// User stays nil when the identity lookup missed.
type MentionPayload struct {
	Key  string
	User *interfaces.User
}

// TagPayload holds a hashtag or cashtag value without its sigil.
type TagPayload struct {
	Value string
}

// EmojiPayload mirrors the emoji attributes; Unicode is empty when the table
// has no glyph for the shortcode.
type EmojiPayload struct {
	Shortcode  string
	Annotation string
	Size       string
	Family     string
	Unicode    string
}

type LinkPayload struct {
	Href string
}

type ImagePayload struct {
	Src string
}

type OptionPayload struct {
	Value    string
	Selected bool
}

// FieldPayload carries the initial value of a text entry field.
type FieldPayload struct {
	InitialValue string
	HasInitial   bool
}

func (*MentionPayload) payload() {}
func (*TagPayload) payload()     {}
func (*EmojiPayload) payload()   {}
func (*LinkPayload) payload()    {}
func (*ImagePayload) payload()   {}
func (*OptionPayload) payload()  {}
func (*FieldPayload) payload()   {}

func clonePayload(p Payload) Payload {
	switch v := p.(type) {
	case *MentionPayload:
		out := *v
		if v.User != nil {
			user := *v.User
			out.User = &user
		}
		return &out
	case *TagPayload:
		out := *v
		return &out
	case *EmojiPayload:
		out := *v
		return &out
	case *LinkPayload:
		out := *v
		return &out
	case *ImagePayload:
		out := *v
		return &out
	case *OptionPayload:
		out := *v
		return &out
	case *FieldPayload:
		out := *v
		return &out
	}
	return p
}
