package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/nfaconnect/matchday/internal/domain/lineup"
	qb "github.com/nfaconnect/matchday/internal/platform/querybuilder"
)

type LineupRepository struct {
	db *sqlx.DB
}

func NewLineupRepository(db *sqlx.DB) *LineupRepository {
	return &LineupRepository{db: db}
}

// ReplaceByMatchTeam swaps one team's sheet for a match in a single
// transaction. A re-uploaded sheet fully replaces the previous one.
func (r *LineupRepository) ReplaceByMatchTeam(ctx context.Context, matchID, teamID string, entries []lineup.Entry) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx replace lineup: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	clearQuery, clearArgs, err := qb.Update("lineup_entries").
		SetExpr("deleted_at", "NOW()").
		Where(
			qb.Eq("match_public_id", matchID),
			qb.Eq("team_public_id", teamID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build clear lineup query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, clearQuery, clearArgs...); err != nil {
		return fmt.Errorf("clear lineup: %w", err)
	}

	for _, entry := range entries {
		insertModel := lineupEntryInsertModel{
			MatchID:     matchID,
			TeamID:      teamID,
			PlayerName:  entry.PlayerName,
			Position:    entry.Position,
			SquadNumber: entry.SquadNumber,
			SubmittedAt: entry.SubmittedAt,
		}
		query, args, err := qb.InsertModel("lineup_entries", insertModel, "")
		if err != nil {
			return fmt.Errorf("build insert lineup entry query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert lineup entry player=%s: %w", entry.PlayerName, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace lineup tx: %w", err)
	}
	return nil
}

func (r *LineupRepository) ListByMatch(ctx context.Context, matchID string) ([]lineup.Entry, error) {
	query, args, err := qb.Select("*").From("lineup_entries").
		Where(
			qb.Eq("match_public_id", matchID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("team_public_id", "squad_number", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list lineup entries query: %w", err)
	}

	var rows []lineupEntryTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list lineup entries: %w", err)
	}

	out := make([]lineup.Entry, 0, len(rows))
	for _, row := range rows {
		out = append(out, lineup.Entry{
			MatchID:     row.MatchID,
			TeamID:      row.TeamID,
			PlayerName:  row.PlayerName,
			Position:    row.Position,
			SquadNumber: row.SquadNumber,
			SubmittedAt: row.SubmittedAt,
		})
	}

	return out, nil
}
