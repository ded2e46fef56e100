// Package templating expands template directives in authoring markup before
// it is parsed.
package templating

import (
	"context"
	"crypto/sha256"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-messageml/internal/faults"
)

// Pongo expands Django style templates with pongo2. The caller envelope is
// exposed as both "data" and "entity". Compiled templates are cached by
// source hash, so one instance can be shared across parse calls.
type Pongo struct {
	set   *pongo2.TemplateSet
	cache sync.Map
}

func NewPongo() *Pongo {
	set := pongo2.NewSet("messageml", pongo2.MustNewLocalFileSystemLoader(""))
	return &Pongo{set: set}
}

// Expand returns raw untouched when it carries no template markers.
func (p *Pongo) Expand(ctx context.Context, raw string, data map[string]any) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if !HasDirectives(raw) {
		return raw, nil
	}

	tpl, err := p.compile(raw)
	if err != nil {
		return "", faults.Templating(err)
	}
	if data == nil {
		data = map[string]any{}
	}
	out, err := tpl.Execute(pongo2.Context{"data": data, "entity": data})
	if err != nil {
		return "", faults.Templating(err)
	}
	return out, nil
}

func (p *Pongo) compile(raw string) (*pongo2.Template, error) {
	key := sha256.Sum256([]byte(raw))
	if cached, ok := p.cache.Load(key); ok {
		return cached.(*pongo2.Template), nil
	}
	tpl, err := p.set.FromString(raw)
	if err != nil {
		return nil, err
	}
	p.cache.Store(key, tpl)
	return tpl, nil
}

// HasDirectives reports whether raw contains template tags or variables.
func HasDirectives(raw string) bool {
	return strings.Contains(raw, "{{") || strings.Contains(raw, "{%")
}

// Passthrough leaves markup untouched.
type Passthrough struct{}

func (Passthrough) Expand(_ context.Context, raw string, _ map[string]any) (string, error) {
	return raw, nil
}
