package postgres

import "time"

type articleTableModel struct {
	ID         int64     `db:"id"`
	PublicID   string    `db:"public_id"`
	Title      string    `db:"title"`
	Summary    string    `db:"summary"`
	Body       string    `db:"body"`
	ImageURL   string    `db:"image_url"`
	SourceKind string    `db:"source_kind"`
	SourceRef  string    `db:"source_ref"`
	CreatedAt  time.Time `db:"created_at"`
}

type articleInsertModel struct {
	PublicID   string    `db:"public_id"`
	Title      string    `db:"title"`
	Summary    string    `db:"summary"`
	Body       string    `db:"body"`
	ImageURL   string    `db:"image_url"`
	SourceKind string    `db:"source_kind"`
	SourceRef  string    `db:"source_ref"`
	CreatedAt  time.Time `db:"created_at"`
}
