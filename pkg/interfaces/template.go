package interfaces

import "context"

// TemplatePreprocessor expands template directives in raw authoring markup
// before any tree is built. data carries the caller supplied entity envelope.
type TemplatePreprocessor interface {
	Expand(ctx context.Context, raw string, data map[string]any) (string, error)
}
