package lineup

import (
	"strings"
	"time"
)

const (
	PositionGoalkeeper = "GK"
	PositionDefender   = "DF"
	PositionMidfielder = "MF"
	PositionForward    = "FW"
)

// Entry is one named player on a submitted team sheet for a match.
type Entry struct {
	MatchID     string
	TeamID      string
	PlayerName  string
	Position    string
	SquadNumber int
	SubmittedAt time.Time
}

// PositionRank orders roster positions goalkeeper first, then outfield
// lines, with unknown positions last.
func PositionRank(position string) int {
	switch strings.ToUpper(strings.TrimSpace(position)) {
	case PositionGoalkeeper:
		return 0
	case PositionDefender:
		return 1
	case PositionMidfielder:
		return 2
	case PositionForward:
		return 3
	default:
		return 4
	}
}
