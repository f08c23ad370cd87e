package postgres

import "time"

type teamTableModel struct {
	ID        int64      `db:"id"`
	PublicID  string     `db:"public_id"`
	LeagueID  string     `db:"league_public_id"`
	Name      string     `db:"name"`
	ShortName string     `db:"short_name"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"`
	DeletedAt *time.Time `db:"deleted_at"`
}
