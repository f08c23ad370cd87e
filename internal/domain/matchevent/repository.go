package matchevent

import "context"

// Repository exposes the append-only event log. There is deliberately
// no update or delete operation.
type Repository interface {
	Append(ctx context.Context, event Event) error
	ListByMatch(ctx context.Context, matchID string) ([]Event, error)
}
