package postgres

import "time"

type matchEventTableModel struct {
	ID          int64     `db:"id"`
	PublicID    string    `db:"public_id"`
	MatchID     string    `db:"match_public_id"`
	Kind        string    `db:"kind"`
	Minute      int       `db:"minute"`
	Description string    `db:"description"`
	ReceivedAt  time.Time `db:"received_at"`
	CreatedAt   time.Time `db:"created_at"`
}

type matchEventInsertModel struct {
	PublicID    string    `db:"public_id"`
	MatchID     string    `db:"match_public_id"`
	Kind        string    `db:"kind"`
	Minute      int       `db:"minute"`
	Description string    `db:"description"`
	ReceivedAt  time.Time `db:"received_at"`
}
