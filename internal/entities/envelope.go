// Package entities extracts entity annotations from validated trees and
// rebuilds trees from legacy annotations.
package entities

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"

	"github.com/goccy/go-json"

	"github.com/goliatone/go-messageml/internal/faults"
	"github.com/goliatone/go-messageml/internal/node"
	"github.com/goliatone/go-messageml/internal/taxonomy"
	"github.com/goliatone/go-messageml/internal/validation"
)

// Identifier is one typed sub-identifier of an envelope entry.
type Identifier struct {
	Type  string `json:"type"`
	Value any    `json:"value"`
}

// String renders Value whatever JSON type the caller used for it.
func (i Identifier) String() string {
	switch v := i.Value.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

// Entry is one keyed record of the entity envelope.
type Entry struct {
	Type    string         `json:"type"`
	Version string         `json:"version"`
	ID      []Identifier   `json:"id,omitempty"`
	Data    map[string]any `json:"data,omitempty"`

	// raw preserves caller supplied entries verbatim on output.
	raw json.RawMessage
}

// IDValue returns the value of the first sub-identifier, preferring one of
// type idType when given.
func (e Entry) IDValue(idType string) string {
	for _, id := range e.ID {
		if idType == "" || id.Type == idType {
			return id.String()
		}
	}
	if len(e.ID) > 0 {
		return e.ID[0].String()
	}
	return ""
}

func (e Entry) MarshalJSON() ([]byte, error) {
	if len(e.raw) > 0 {
		return e.raw, nil
	}
	type plain Entry
	return json.Marshal(plain(e))
}

// Envelope maps entity keys to entries.
type Envelope map[string]Entry

const envelopeSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "additionalProperties": {
    "type": "object",
    "properties": {
      "type": {"type": "string"},
      "version": {"type": "string"},
      "id": {
        "type": "array",
        "items": {
          "type": "object",
          "properties": {"type": {"type": "string"}}
        }
      },
      "data": {"type": "object"}
    }
  }
}`

var compiledEnvelopeSchema = validation.MustCompile("envelope.json", envelopeSchema)

// DecodeEnvelope parses caller supplied entity JSON. Empty input yields an
// empty envelope.
func DecodeEnvelope(raw []byte, validateSchema bool) (Envelope, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return Envelope{}, nil
	}

	if validateSchema {
		if err := compiledEnvelopeSchema.ValidateJSON(raw); err != nil {
			return nil, faults.Structure("Error parsing EntityJSON: " + err.Error())
		}
	}

	var entries map[string]json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, faults.Structure("Error parsing EntityJSON: " + err.Error())
	}
	env := make(Envelope, len(entries))
	for key, data := range entries {
		var entry Entry
		decoder := json.NewDecoder(bytes.NewReader(data))
		decoder.UseNumber()
		if err := decoder.Decode(&entry); err != nil {
			return nil, faults.Structuref("Error parsing EntityJSON: entry %q: %v", key, err)
		}
		entry.raw = append(json.RawMessage(nil), data...)
		env[key] = entry
	}
	return env, nil
}

// EnvelopeFromMap converts an already decoded envelope, such as front matter
// data, by way of its JSON form.
func EnvelopeFromMap(data map[string]any, validateSchema bool) (Envelope, error) {
	if len(data) == 0 {
		return Envelope{}, nil
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, faults.Structure("Error parsing EntityJSON: " + err.Error())
	}
	return DecodeEnvelope(raw, validateSchema)
}

// Keys returns the envelope keys in sorted order.
func (e Envelope) Keys() []string {
	keys := make([]string, 0, len(e))
	for key := range e {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Merge returns a copy of e overlaid with other. Keys of other win.
func (e Envelope) Merge(other Envelope) Envelope {
	out := make(Envelope, len(e)+len(other))
	for key, entry := range e {
		out[key] = entry
	}
	for key, entry := range other {
		out[key] = entry
	}
	return out
}

// ResolveEntity maps key to the kind and payload its entry describes, so
// presentation spans can be rebuilt into entity nodes.
func (e Envelope) ResolveEntity(key string) (node.Kind, node.Payload, bool) {
	entry, ok := e[key]
	if !ok {
		return node.KindUnknown, nil, false
	}
	idType := ""
	if len(entry.ID) > 0 {
		idType = entry.ID[0].Type
	}
	kind, ok := taxonomy.KindForType(entry.Type, idType)
	if !ok || kind == node.KindLink {
		return node.KindUnknown, nil, false
	}

	switch kind {
	case node.KindMention:
		return kind, &node.MentionPayload{Key: entry.IDValue(taxonomy.UserIDType)}, true
	case node.KindHashtag:
		return kind, &node.TagPayload{Value: entry.IDValue(taxonomy.HashtagID)}, true
	case node.KindCashtag:
		return kind, &node.TagPayload{Value: entry.IDValue(taxonomy.CashtagID)}, true
	case node.KindEmoji:
		p := &node.EmojiPayload{
			Shortcode:  dataString(entry.Data, "shortcode"),
			Annotation: dataString(entry.Data, "annotation"),
			Size:       dataString(entry.Data, "size"),
			Family:     dataString(entry.Data, "family"),
			Unicode:    dataString(entry.Data, "unicode"),
		}
		if p.Size == "" {
			p.Size = "normal"
		}
		return kind, p, true
	}
	return node.KindUnknown, nil, false
}

func dataString(data map[string]any, key string) string {
	if s, ok := data[key].(string); ok {
		return s
	}
	return ""
}
