package postgres

import "time"

type lineupEntryTableModel struct {
	ID          int64      `db:"id"`
	MatchID     string     `db:"match_public_id"`
	TeamID      string     `db:"team_public_id"`
	PlayerName  string     `db:"player_name"`
	Position    string     `db:"position"`
	SquadNumber int        `db:"squad_number"`
	SubmittedAt time.Time  `db:"submitted_at"`
	CreatedAt   time.Time  `db:"created_at"`
	DeletedAt   *time.Time `db:"deleted_at"`
}

type lineupEntryInsertModel struct {
	MatchID     string    `db:"match_public_id"`
	TeamID      string    `db:"team_public_id"`
	PlayerName  string    `db:"player_name"`
	Position    string    `db:"position"`
	SquadNumber int       `db:"squad_number"`
	SubmittedAt time.Time `db:"submitted_at"`
}
