package entities

import (
	"strconv"

	"github.com/goliatone/go-messageml/internal/node"
	"github.com/goliatone/go-messageml/internal/taxonomy"
)

const legacyUserType = "lc"

// Index is the legacy flat entity index, grouped by kind in document order.
type Index struct {
	Hashtags     []KeywordEntity `json:"hashtags,omitempty"`
	URLs         []URLEntity     `json:"urls,omitempty"`
	UserMentions []UserEntity    `json:"userMentions,omitempty"`
}

type URLEntity struct {
	Text        string `json:"text"`
	ID          string `json:"id"`
	ExpandedURL string `json:"expandedUrl"`
	IndexStart  int    `json:"indexStart"`
	IndexEnd    int    `json:"indexEnd"`
	Type        string `json:"type"`
}

type UserEntity struct {
	ID         int64  `json:"id"`
	ScreenName string `json:"screenName,omitempty"`
	PrettyName string `json:"prettyName,omitempty"`
	Text       string `json:"text"`
	IndexStart int    `json:"indexStart"`
	IndexEnd   int    `json:"indexEnd"`
	UserType   string `json:"userType"`
	Type       string `json:"type"`
}

// KeywordEntity covers both hashtags and cashtags; the sigil in Text tells
// them apart.
type KeywordEntity struct {
	Text       string `json:"text"`
	ID         string `json:"id"`
	IndexStart int    `json:"indexStart"`
	IndexEnd   int    `json:"indexEnd"`
	Type       string `json:"type"`
}

// Len reports the number of indexed entities.
func (i Index) Len() int {
	return len(i.Hashtags) + len(i.URLs) + len(i.UserMentions)
}

func (i *Index) add(n *node.Node, rec Record) {
	switch p := n.Payload.(type) {
	case *node.LinkPayload:
		i.URLs = append(i.URLs, URLEntity{
			Text:        rec.Text,
			ID:          p.Href,
			ExpandedURL: p.Href,
			IndexStart:  rec.IndexStart,
			IndexEnd:    rec.IndexEnd,
			Type:        taxonomy.LegacyURL,
		})
	case *node.MentionPayload:
		user := UserEntity{
			Text:       rec.Text,
			IndexStart: rec.IndexStart,
			IndexEnd:   rec.IndexEnd,
			UserType:   legacyUserType,
			Type:       taxonomy.LegacyUser,
		}
		if p.User != nil {
			user.ID = p.User.ID
			user.ScreenName = p.User.ScreenName
			user.PrettyName = p.User.DisplayName
		} else if id, err := strconv.ParseInt(p.Key, 10, 64); err == nil {
			user.ID = id
		}
		i.UserMentions = append(i.UserMentions, user)
	case *node.TagPayload:
		i.Hashtags = append(i.Hashtags, KeywordEntity{
			Text:       rec.Text,
			ID:         rec.Text,
			IndexStart: rec.IndexStart,
			IndexEnd:   rec.IndexEnd,
			Type:       taxonomy.LegacyKeyword,
		})
	}
}

// Annotations converts the index back into reverse pass annotations, sorted
// by start offset.
func (i Index) Annotations() []Annotation {
	out := make([]Annotation, 0, i.Len())
	for _, u := range i.URLs {
		out = append(out, Annotation{Kind: AnnotationURL, IndexStart: u.IndexStart, IndexEnd: u.IndexEnd, Value: u.ExpandedURL})
	}
	for _, m := range i.UserMentions {
		out = append(out, Annotation{Kind: AnnotationMention, IndexStart: m.IndexStart, IndexEnd: m.IndexEnd, Value: strconv.FormatInt(m.ID, 10)})
	}
	for _, h := range i.Hashtags {
		kind := AnnotationHashtag
		if len(h.Text) > 0 && h.Text[0] == '$' {
			kind = AnnotationCashtag
		}
		out = append(out, Annotation{Kind: kind, IndexStart: h.IndexStart, IndexEnd: h.IndexEnd, Value: h.Text})
	}
	SortAnnotations(out)
	return out
}
