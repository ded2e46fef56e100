// Package emoji resolves emoji shortcodes to their unicode glyphs.
package emoji

import (
	"strings"

	"github.com/yuin/goldmark-emoji/definition"
)

// Table resolves shortcodes against a goldmark-emoji definition set. It is
// read-only after construction and safe to share across parse calls.
type Table struct {
	emojis  definition.Emojis
	aliases map[string]string
}

// NewGitHubTable returns the table backed by the GitHub shortcode set.
func NewGitHubTable(aliases map[string]string) *Table {
	return NewTable(definition.Github(), aliases)
}

// NewTable wraps an arbitrary definition set. aliases maps extra shortcodes
// onto names known to the set.
func NewTable(emojis definition.Emojis, aliases map[string]string) *Table {
	t := &Table{emojis: emojis, aliases: map[string]string{}}
	for from, to := range aliases {
		t.aliases[normalize(from)] = normalize(to)
	}
	return t
}

func (t *Table) Resolve(shortcode string) (string, bool) {
	if t == nil || t.emojis == nil {
		return "", false
	}
	name := normalize(shortcode)
	if alias, ok := t.aliases[name]; ok {
		name = alias
	}
	if name == "" {
		return "", false
	}
	e, ok := t.emojis.Get(name)
	if !ok || e == nil || len(e.Unicode) == 0 {
		return "", false
	}
	return string(e.Unicode), true
}

func normalize(shortcode string) string {
	return strings.ToLower(strings.Trim(strings.TrimSpace(shortcode), ":"))
}

// None never resolves; emoji entities then carry no unicode field.
type None struct{}

func (None) Resolve(string) (string, bool) { return "", false }
