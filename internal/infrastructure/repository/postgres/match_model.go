package postgres

import (
	"database/sql"
	"time"
)

type matchTableModel struct {
	ID           int64         `db:"id"`
	PublicID     string        `db:"public_id"`
	LeagueID     string        `db:"league_public_id"`
	HomeTeamID   string        `db:"home_team_public_id"`
	AwayTeamID   string        `db:"away_team_public_id"`
	HomeTeamName string        `db:"home_team_name"`
	AwayTeamName string        `db:"away_team_name"`
	KickoffAt    time.Time     `db:"kickoff_at"`
	Venue        string        `db:"venue"`
	HomeScore    sql.NullInt64 `db:"home_score"`
	AwayScore    sql.NullInt64 `db:"away_score"`
	Status       string        `db:"status"`
	Friendly     bool          `db:"friendly"`
	CompletedAt  sql.NullTime  `db:"completed_at"`
	CreatedAt    time.Time     `db:"created_at"`
	UpdatedAt    time.Time     `db:"updated_at"`
	DeletedAt    *time.Time    `db:"deleted_at"`
}
