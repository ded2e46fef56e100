// Package instrument counts element usage for telemetry. Counting is pure;
// delivering the items is left to an interfaces.InstrumentationSink.
package instrument

import (
	"github.com/goliatone/go-messageml/internal/node"
	"github.com/goliatone/go-messageml/internal/taxonomy"
	"github.com/goliatone/go-messageml/pkg/interfaces"
)

const (
	Emojis        = "emojis"
	Mentions      = "mentions"
	Hashtags      = "hashtags"
	Cashtags      = "cashtags"
	URLs          = "urls"
	Images        = "images"
	Tables        = "tables"
	Forms         = "forms"
	Popups        = "popups"
	Entity        = "entity"
	MessageLength = "message length"
	Select        = "select"
	Button        = "button"

	CountField        = "count"
	EntityTypeField   = "entity type"
	TitleField        = "title"
	LabelField        = "label"
	PlaceholderField  = "placeholder"
	RequiredField     = "required"
	MultiSelectField  = "multi_select"
	OptionsCountField = "options_count"
	DefaultField      = "default"
	TypeField         = "type"
)

// Accumulator collects instrumentation items in the order the validator
// reports elements, children before their parents. It is call scoped and not
// safe for concurrent use.
type Accumulator struct {
	items    []interfaces.InstrumentationItem
	counters map[string]int
	entities map[string]bool
	finished bool
}

func NewAccumulator() *Accumulator {
	return &Accumulator{
		counters: map[string]int{},
		entities: map[string]bool{},
	}
}

// Count adds an item for name or bumps the count of the existing one.
func (a *Accumulator) Count(name string) {
	if idx, ok := a.counters[name]; ok {
		current, _ := a.items[idx].Attributes[CountField].(int)
		a.items[idx].Attributes[CountField] = current + 1
		return
	}
	a.counters[name] = len(a.items)
	a.items = append(a.items, interfaces.InstrumentationItem{
		Name:       name,
		Attributes: map[string]any{CountField: 1},
	})
}

// Entity records an entity type once per call.
func (a *Accumulator) Entity(entityType string) {
	if entityType == "" || a.entities[entityType] {
		return
	}
	a.entities[entityType] = true
	a.items = append(a.items, interfaces.InstrumentationItem{
		Name:       Entity,
		Attributes: map[string]any{EntityTypeField: entityType},
	})
}

// Finish appends the aggregate message length item. Later calls are ignored.
func (a *Accumulator) Finish(length int) {
	if a.finished {
		return
	}
	a.finished = true
	a.items = append(a.items, interfaces.InstrumentationItem{
		Name:       MessageLength,
		Attributes: map[string]any{CountField: length},
	})
}

// Visit counts a node accepted by the validator.
func (a *Accumulator) Visit(tree *node.Tree, id node.ID) {
	n := tree.Node(id)
	if n == nil {
		return
	}
	var category string
	switch n.Kind {
	case node.KindSelect:
		a.items = append(a.items, selectItem(tree, id, n))
		return
	case node.KindButton:
		a.items = append(a.items, interfaces.InstrumentationItem{
			Name:       Button,
			Attributes: map[string]any{TypeField: n.Attrs.Value("type")},
		})
		return
	case node.KindEmoji:
		category = Emojis
	case node.KindMention:
		category = Mentions
	case node.KindHashtag:
		category = Hashtags
	case node.KindCashtag:
		category = Cashtags
	case node.KindLink:
		category = URLs
	case node.KindImage:
		category = Images
	case node.KindTable:
		category = Tables
	case node.KindForm:
		category = Forms
	case node.KindDialog:
		category = Popups
	default:
		return
	}
	a.Count(category)
	if n.Kind == node.KindLink {
		return
	}
	if d, ok := taxonomy.ForKind(n.Kind); ok {
		a.Entity(d.Type)
	}
}

func selectItem(tree *node.Tree, id node.ID, n *node.Node) interfaces.InstrumentationItem {
	attrs := map[string]any{}
	for field, name := range map[string]string{
		TitleField:       "title",
		LabelField:       "label",
		PlaceholderField: "placeholder",
	} {
		if n.Attrs.Value(name) != "" {
			attrs[field] = 1
		}
	}
	if n.Attrs.Value("required") == "true" {
		attrs[RequiredField] = 1
	}
	if n.Attrs.Value("multiple") == "true" {
		attrs[MultiSelectField] = 1
	}

	options, selected := 0, 0
	for _, child := range tree.Children(id) {
		c := tree.Node(child)
		if c.Kind != node.KindOption {
			continue
		}
		options++
		if c.Attrs.Value("selected") == "true" {
			selected = 1
		}
	}
	attrs[OptionsCountField] = options
	attrs[DefaultField] = selected
	return interfaces.InstrumentationItem{Name: Select, Attributes: attrs}
}

// Items returns a copy of the collected items.
func (a *Accumulator) Items() []interfaces.InstrumentationItem {
	out := make([]interfaces.InstrumentationItem, len(a.items))
	for i, item := range a.items {
		attrs := make(map[string]any, len(item.Attributes))
		for k, v := range item.Attributes {
			attrs[k] = v
		}
		out[i] = interfaces.InstrumentationItem{Name: item.Name, Attributes: attrs}
	}
	return out
}
