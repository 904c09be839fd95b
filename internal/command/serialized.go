package command

import (
	"context"
	"sync"

	"github.com/jrchoo/ip/internal/model"
)

// Serialized runs every call on next one at a time. The TUI and the web
// front end share a single interpreter through it.
type Serialized struct {
	mu   sync.Mutex
	next Handler
}

func NewSerialized(next Handler) *Serialized {
	return &Serialized{next: next}
}

func (s *Serialized) Interpret(ctx context.Context, line string) (Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.next.Interpret(ctx, line)
}

func (s *Serialized) Tasks() []model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.next.Tasks()
}
