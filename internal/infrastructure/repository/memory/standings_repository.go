package memory

import (
	"context"
	"sync"

	"github.com/nfaconnect/matchday/internal/domain/standings"
)

type StandingsRepository struct {
	mu     sync.RWMutex
	tables map[string][]standings.Row
}

func NewStandingsRepository() *StandingsRepository {
	return &StandingsRepository{tables: make(map[string][]standings.Row)}
}

func (r *StandingsRepository) ReplaceByLeague(_ context.Context, leagueID string, rows []standings.Row) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.tables[leagueID] = append([]standings.Row(nil), rows...)
	return nil
}

func (r *StandingsRepository) ListByLeague(_ context.Context, leagueID string) ([]standings.Row, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]standings.Row(nil), r.tables[leagueID]...), nil
}
