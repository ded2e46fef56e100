package rules

import (
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-messageml/internal/node"
)

var (
	// ErrDuplicateRule indicates a kind or tag is already registered.
	ErrDuplicateRule = errors.New("rules: rule already registered")
	// ErrInvalidRule indicates a rule without a kind or tags.
	ErrInvalidRule = errors.New("rules: invalid rule")
)

// Registry is the thread-safe catalogue of rules keyed by kind and tag.
type Registry struct {
	mu    sync.RWMutex
	rules map[node.Kind]Rule
	tags  map[string]node.Kind
}

func NewRegistry() *Registry {
	return &Registry{
		rules: make(map[node.Kind]Rule),
		tags:  make(map[string]node.Kind),
	}
}

// DefaultRegistry returns a registry seeded with BuiltIns.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, rule := range BuiltIns() {
		if err := r.Register(rule); err != nil {
			panic(err)
		}
	}
	return r
}

// Register stores a rule if neither its kind nor any of its tags is taken.
func (r *Registry) Register(rule Rule) error {
	if rule.Kind == node.KindUnknown || rule.Kind == node.KindText || len(rule.Tags) == 0 {
		return ErrInvalidRule
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.rules[rule.Kind]; exists {
		return ErrDuplicateRule
	}
	for _, tag := range rule.Tags {
		if strings.TrimSpace(tag) == "" {
			return ErrInvalidRule
		}
		if _, exists := r.tags[tag]; exists {
			return ErrDuplicateRule
		}
	}
	r.rules[rule.Kind] = rule
	for _, tag := range rule.Tags {
		r.tags[tag] = rule.Kind
	}
	return nil
}

// Get returns the rule registered for kind.
func (r *Registry) Get(kind node.Kind) (Rule, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rule, ok := r.rules[kind]
	return rule, ok
}

// Lookup resolves an authoring tag. Tags are case sensitive.
func (r *Registry) Lookup(tag string) (Rule, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	kind, ok := r.tags[tag]
	if !ok {
		return Rule{}, false
	}
	return r.rules[kind], true
}

// List returns every rule ordered by kind.
func (r *Registry) List() []Rule {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Rule, 0, len(r.rules))
	for _, rule := range r.rules {
		out = append(out, rule)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Kind < out[j].Kind })
	return out
}
