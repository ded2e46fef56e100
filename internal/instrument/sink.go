package instrument

import (
	"context"
	"sync"

	"github.com/goliatone/go-messageml/pkg/interfaces"
)

// NoOpSink returns a sink that drops every item.
func NoOpSink() interfaces.InstrumentationSink {
	return noopSink{}
}

type noopSink struct{}

func (noopSink) Record(context.Context, []interfaces.InstrumentationItem) {}

// MemorySink keeps every recorded batch. It is safe for concurrent use and is
// mostly useful in tests and the CLI.
type MemorySink struct {
	mu      sync.Mutex
	batches [][]interfaces.InstrumentationItem
}

func (s *MemorySink) Record(_ context.Context, items []interfaces.InstrumentationItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batches = append(s.batches, items)
}

// Batches returns the recorded batches in arrival order.
func (s *MemorySink) Batches() [][]interfaces.InstrumentationItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([][]interfaces.InstrumentationItem, len(s.batches))
	copy(out, s.batches)
	return out
}

var (
	_ interfaces.InstrumentationSink = noopSink{}
	_ interfaces.InstrumentationSink = (*MemorySink)(nil)
)
