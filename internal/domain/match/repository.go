package match

import (
	"context"
	"time"
)

// Repository exposes match persistence operations.
type Repository interface {
	List(ctx context.Context) ([]Match, error)
	ListByLeague(ctx context.Context, leagueID string) ([]Match, error)
	GetByID(ctx context.Context, matchID string) (Match, bool, error)
	ApplyResult(ctx context.Context, matchID string, homeScore, awayScore int, completedAt time.Time) error
}
