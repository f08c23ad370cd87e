package memory

import (
	"context"
	"sync"

	"github.com/nfaconnect/matchday/internal/domain/lineup"
)

type lineupKey struct {
	matchID string
	teamID  string
}

type LineupRepository struct {
	mu      sync.RWMutex
	entries map[lineupKey][]lineup.Entry
}

func NewLineupRepository() *LineupRepository {
	return &LineupRepository{entries: make(map[lineupKey][]lineup.Entry)}
}

func (r *LineupRepository) ReplaceByMatchTeam(_ context.Context, matchID, teamID string, entries []lineup.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries[lineupKey{matchID: matchID, teamID: teamID}] = append([]lineup.Entry(nil), entries...)
	return nil
}

func (r *LineupRepository) ListByMatch(_ context.Context, matchID string) ([]lineup.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]lineup.Entry, 0)
	for key, entries := range r.entries {
		if key.matchID == matchID {
			out = append(out, entries...)
		}
	}

	return out, nil
}
