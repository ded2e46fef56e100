// Package taxonomy names the entity types written to the entity envelope.
package taxonomy

import (
	"strconv"

	"github.com/goliatone/go-messageml/internal/node"
)

const Version = "1.0"

const (
	MentionType = "com.symphony.user.mention"
	UserIDType  = "com.symphony.user.userId"
	HashtagType = "org.symphonyoss.taxonomy"
	HashtagID   = "org.symphonyoss.taxonomy.hashtag"
	CashtagType = "org.symphonyoss.fin.security"
	CashtagID   = "org.symphonyoss.fin.security.id.ticker"
	EmojiType   = "com.symphony.emoji"
	URLType     = "com.symphony.url"
	URLID       = "com.symphony.url"
)

// Legacy index type values.
const (
	LegacyURL     = "URL"
	LegacyUser    = "USER_FOLLOW"
	LegacyKeyword = "KEYWORD"
)

// Descriptor ties an entity kind to its envelope and legacy vocabulary.
type Descriptor struct {
	Kind       node.Kind
	Type       string
	IDType     string
	Prefix     string
	LegacyType string
}

var descriptors = map[node.Kind]Descriptor{
	node.KindMention: {Kind: node.KindMention, Type: MentionType, IDType: UserIDType, Prefix: "mention", LegacyType: LegacyUser},
	node.KindHashtag: {Kind: node.KindHashtag, Type: HashtagType, IDType: HashtagID, Prefix: "keyword", LegacyType: LegacyKeyword},
	node.KindCashtag: {Kind: node.KindCashtag, Type: CashtagType, IDType: CashtagID, Prefix: "keyword", LegacyType: LegacyKeyword},
	node.KindEmoji:   {Kind: node.KindEmoji, Type: EmojiType, Prefix: "emoji"},
	node.KindLink:    {Kind: node.KindLink, Type: URLType, IDType: URLID, Prefix: "url", LegacyType: LegacyURL},
}

// ForKind returns the descriptor of an entity bearing kind.
func ForKind(kind node.Kind) (Descriptor, bool) {
	d, ok := descriptors[kind]
	return d, ok
}

// KindForType maps an envelope entry back to the kind that produced it.
// The sub-identifier type disambiguates taxonomy entries.
func KindForType(entityType, idType string) (node.Kind, bool) {
	switch entityType {
	case MentionType:
		return node.KindMention, true
	case CashtagType:
		return node.KindCashtag, true
	case EmojiType:
		return node.KindEmoji, true
	case URLType:
		return node.KindLink, true
	case HashtagType:
		if idType == "" || idType == HashtagID {
			return node.KindHashtag, true
		}
	}
	return node.KindUnknown, false
}

// Keys assigns the envelope key of every entity node in tree. A node that
// already carries a back-reference keeps it; the others get the descriptor
// prefix followed by the node's element ordinal, so keys are stable for a
// given tree shape.
func Keys(tree *node.Tree) map[node.ID]string {
	keys := map[node.ID]string{}
	ordinals := tree.ElementOrdinals()
	_ = tree.Walk(func(id node.ID, _ int) error {
		n := tree.Node(id)
		d, ok := ForKind(n.Kind)
		if !ok {
			return nil
		}
		if n.EntityID != "" {
			keys[id] = n.EntityID
			return nil
		}
		keys[id] = d.Prefix + strconv.Itoa(ordinals[id])
		return nil
	})
	return keys
}
