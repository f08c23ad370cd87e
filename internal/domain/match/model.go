package match

import (
	"strings"
	"time"
)

const (
	StatusScheduled = "scheduled"
	StatusLive      = "live"
	StatusCompleted = "completed"
	StatusPostponed = "postponed"
	StatusCancelled = "cancelled"
)

// Match is one scheduled or played game between two teams.
type Match struct {
	ID          string
	LeagueID    string
	HomeTeamID  string
	AwayTeamID  string
	HomeTeam    string
	AwayTeam    string
	KickoffAt   time.Time
	Venue       string
	HomeScore   *int
	AwayScore   *int
	Status      string
	Friendly    bool
	CompletedAt *time.Time
}

// HasResult reports whether both final scores are recorded.
func (m Match) HasResult() bool {
	return m.HomeScore != nil && m.AwayScore != nil
}

func NormalizeStatus(value string) string {
	status := strings.ToLower(strings.TrimSpace(value))
	if status == "" {
		return StatusScheduled
	}
	return status
}

func IsCompletedStatus(status string) bool {
	switch NormalizeStatus(status) {
	case StatusCompleted, "finished", "ft", "full-time":
		return true
	default:
		return false
	}
}

func IsScheduledStatus(status string) bool {
	return NormalizeStatus(status) == StatusScheduled
}

func IsCancelledLikeStatus(status string) bool {
	switch NormalizeStatus(status) {
	case StatusCancelled, StatusPostponed, "abandoned":
		return true
	default:
		return false
	}
}
