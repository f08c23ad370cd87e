package matchevent

import "time"

const (
	KindGoal   = "goal"
	KindCard   = "card"
	KindSub    = "substitution"
	KindStatus = "status"
)

// Event is a single moment recorded against a match. Events are
// append-only: once stored they are never updated or deleted.
type Event struct {
	ID          string
	MatchID     string
	Kind        string
	Minute      int
	Description string
	ReceivedAt  time.Time
}
