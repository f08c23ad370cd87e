package standings

import "context"

// Repository stores computed league tables. ReplaceByLeague swaps the
// whole table in one transaction so concurrent recomputes stay safe.
type Repository interface {
	ReplaceByLeague(ctx context.Context, leagueID string, rows []Row) error
	ListByLeague(ctx context.Context, leagueID string) ([]Row, error)
}
