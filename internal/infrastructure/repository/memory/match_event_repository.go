package memory

import (
	"context"
	"sync"

	"github.com/nfaconnect/matchday/internal/domain/matchevent"
)

// MatchEventRepository keeps the append-only event log in memory.
// Events are stored in arrival order and never mutated.
type MatchEventRepository struct {
	mu     sync.RWMutex
	events []matchevent.Event
}

func NewMatchEventRepository() *MatchEventRepository {
	return &MatchEventRepository{}
}

func (r *MatchEventRepository) Append(_ context.Context, event matchevent.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = append(r.events, event)
	return nil
}

func (r *MatchEventRepository) ListByMatch(_ context.Context, matchID string) ([]matchevent.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]matchevent.Event, 0)
	for _, event := range r.events {
		if event.MatchID == matchID {
			out = append(out, event)
		}
	}

	return out, nil
}
