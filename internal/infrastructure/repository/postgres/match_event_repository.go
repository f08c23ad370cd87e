package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/nfaconnect/matchday/internal/domain/matchevent"
	qb "github.com/nfaconnect/matchday/internal/platform/querybuilder"
)

// MatchEventRepository stores the append-only event log. Rows are
// never updated or deleted.
type MatchEventRepository struct {
	db *sqlx.DB
}

func NewMatchEventRepository(db *sqlx.DB) *MatchEventRepository {
	return &MatchEventRepository{db: db}
}

func (r *MatchEventRepository) Append(ctx context.Context, event matchevent.Event) error {
	insertModel := matchEventInsertModel{
		PublicID:    event.ID,
		MatchID:     event.MatchID,
		Kind:        event.Kind,
		Minute:      event.Minute,
		Description: event.Description,
		ReceivedAt:  event.ReceivedAt,
	}
	query, args, err := qb.InsertModel("match_events", insertModel, "")
	if err != nil {
		return fmt.Errorf("build insert match event query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert match event: %w", err)
	}

	return nil
}

func (r *MatchEventRepository) ListByMatch(ctx context.Context, matchID string) ([]matchevent.Event, error) {
	query, args, err := qb.Select("*").From("match_events").
		Where(qb.Eq("match_public_id", matchID)).
		OrderBy("received_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list match events query: %w", err)
	}

	var rows []matchEventTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list match events: %w", err)
	}

	out := make([]matchevent.Event, 0, len(rows))
	for _, row := range rows {
		out = append(out, matchevent.Event{
			ID:          row.PublicID,
			MatchID:     row.MatchID,
			Kind:        row.Kind,
			Minute:      row.Minute,
			Description: row.Description,
			ReceivedAt:  row.ReceivedAt,
		})
	}

	return out, nil
}
