package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/nfaconnect/matchday/internal/domain/match"
)

type MatchRepository struct {
	mu     sync.RWMutex
	items  map[string]match.Match
	orders []string
}

func NewMatchRepository(matches []match.Match) *MatchRepository {
	items := make(map[string]match.Match, len(matches))
	orders := make([]string, 0, len(matches))
	for _, item := range matches {
		items[item.ID] = item
		orders = append(orders, item.ID)
	}

	return &MatchRepository{
		items:  items,
		orders: orders,
	}
}

func (r *MatchRepository) List(_ context.Context) ([]match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]match.Match, 0, len(r.orders))
	for _, id := range r.orders {
		out = append(out, r.items[id])
	}

	return out, nil
}

func (r *MatchRepository) ListByLeague(_ context.Context, leagueID string) ([]match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]match.Match, 0, len(r.orders))
	for _, id := range r.orders {
		if item := r.items[id]; item.LeagueID == leagueID {
			out = append(out, item)
		}
	}

	return out, nil
}

func (r *MatchRepository) GetByID(_ context.Context, matchID string) (match.Match, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[matchID]
	if !ok {
		return match.Match{}, false, nil
	}

	return item, true, nil
}

func (r *MatchRepository) ApplyResult(_ context.Context, matchID string, homeScore, awayScore int, completedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[matchID]
	if !ok {
		return fmt.Errorf("apply match result: match %s not found", matchID)
	}

	item.HomeScore = &homeScore
	item.AwayScore = &awayScore
	item.Status = match.StatusCompleted
	item.CompletedAt = &completedAt
	r.items[matchID] = item

	return nil
}
