package standings

// Row is one team's line in a league table. GoalDifference and Points
// are derived during recomputation and stored denormalized.
type Row struct {
	LeagueID       string
	TeamID         string
	TeamName       string
	Played         int
	Won            int
	Drawn          int
	Lost           int
	GoalsFor       int
	GoalsAgainst   int
	GoalDifference int
	Points         int
}
