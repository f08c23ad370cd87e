package lineup

import "context"

// Repository exposes team sheet persistence operations.
type Repository interface {
	ReplaceByMatchTeam(ctx context.Context, matchID, teamID string, entries []Entry) error
	ListByMatch(ctx context.Context, matchID string) ([]Entry, error)
}
