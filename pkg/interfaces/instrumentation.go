package interfaces

import "context"

// InstrumentationItem is a counted usage record emitted by a parse call.
type InstrumentationItem struct {
	Name       string         `json:"name"`
	Attributes map[string]any `json:"attributes"`
}

// InstrumentationSink consumes the items produced by a parse call. Transport is
// the sink's concern; the compiler only counts.
type InstrumentationSink interface {
	Record(ctx context.Context, items []InstrumentationItem)
}
