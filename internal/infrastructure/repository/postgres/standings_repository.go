package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/nfaconnect/matchday/internal/domain/standings"
	qb "github.com/nfaconnect/matchday/internal/platform/querybuilder"
)

type StandingsRepository struct {
	db *sqlx.DB
}

func NewStandingsRepository(db *sqlx.DB) *StandingsRepository {
	return &StandingsRepository{db: db}
}

func (r *StandingsRepository) ListByLeague(ctx context.Context, leagueID string) ([]standings.Row, error) {
	query, args, err := qb.Select("*").From("league_standings").
		Where(
			qb.Eq("league_public_id", leagueID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("position", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list standings query: %w", err)
	}

	var rows []standingsTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list standings: %w", err)
	}

	out := make([]standings.Row, 0, len(rows))
	for _, row := range rows {
		out = append(out, standings.Row{
			LeagueID:       row.LeagueID,
			TeamID:         row.TeamID,
			TeamName:       row.TeamName,
			Played:         row.Played,
			Won:            row.Won,
			Drawn:          row.Drawn,
			Lost:           row.Lost,
			GoalsFor:       row.GoalsFor,
			GoalsAgainst:   row.GoalsAgainst,
			GoalDifference: row.GoalDifference,
			Points:         row.Points,
		})
	}

	return out, nil
}

// ReplaceByLeague swaps the whole table for a league in one
// transaction so concurrent recomputes never interleave rows.
func (r *StandingsRepository) ReplaceByLeague(ctx context.Context, leagueID string, rows []standings.Row) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx replace standings: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	clearQuery, clearArgs, err := qb.Update("league_standings").
		SetExpr("deleted_at", "NOW()").
		Where(
			qb.Eq("league_public_id", leagueID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build clear standings query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, clearQuery, clearArgs...); err != nil {
		return fmt.Errorf("clear standings: %w", err)
	}

	for position, row := range rows {
		insertModel := standingsInsertModel{
			LeagueID:       leagueID,
			TeamID:         row.TeamID,
			TeamName:       row.TeamName,
			Position:       position + 1,
			Played:         row.Played,
			Won:            row.Won,
			Drawn:          row.Drawn,
			Lost:           row.Lost,
			GoalsFor:       row.GoalsFor,
			GoalsAgainst:   row.GoalsAgainst,
			GoalDifference: row.GoalDifference,
			Points:         row.Points,
		}
		query, args, err := qb.InsertModel("league_standings", insertModel, `ON CONFLICT (league_public_id, team_public_id) WHERE deleted_at IS NULL
DO UPDATE SET
    team_name = EXCLUDED.team_name,
    position = EXCLUDED.position,
    played = EXCLUDED.played,
    won = EXCLUDED.won,
    drawn = EXCLUDED.drawn,
    lost = EXCLUDED.lost,
    goals_for = EXCLUDED.goals_for,
    goals_against = EXCLUDED.goals_against,
    goal_difference = EXCLUDED.goal_difference,
    points = EXCLUDED.points,
    updated_at = NOW(),
    deleted_at = NULL`)
		if err != nil {
			return fmt.Errorf("build upsert standings row query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert standings row team=%s: %w", row.TeamID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace standings tx: %w", err)
	}
	return nil
}
