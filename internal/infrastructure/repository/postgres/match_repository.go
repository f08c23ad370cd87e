package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/nfaconnect/matchday/internal/domain/match"
	qb "github.com/nfaconnect/matchday/internal/platform/querybuilder"
)

type MatchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

func (r *MatchRepository) List(ctx context.Context) ([]match.Match, error) {
	query, args, err := qb.Select("*").From("matches").
		Where(qb.IsNull("deleted_at")).
		OrderBy("kickoff_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list matches query: %w", err)
	}

	var rows []matchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}

	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		out = append(out, matchFromRow(row))
	}

	return out, nil
}

func (r *MatchRepository) ListByLeague(ctx context.Context, leagueID string) ([]match.Match, error) {
	query, args, err := qb.Select("*").From("matches").
		Where(
			qb.Eq("league_public_id", leagueID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("kickoff_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list matches by league query: %w", err)
	}

	var rows []matchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list matches by league: %w", err)
	}

	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		out = append(out, matchFromRow(row))
	}

	return out, nil
}

func (r *MatchRepository) GetByID(ctx context.Context, matchID string) (match.Match, bool, error) {
	query, args, err := qb.Select("*").From("matches").
		Where(
			qb.Eq("public_id", matchID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return match.Match{}, false, fmt.Errorf("build get match by id query: %w", err)
	}

	var row matchTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isBindParameterMismatch(err) || isUnnamedPreparedStatementMissing(err) {
			return r.getByIDLiteral(ctx, matchID)
		}
		if isNotFound(err) {
			return match.Match{}, false, nil
		}
		return match.Match{}, false, fmt.Errorf("get match by id: %w", err)
	}

	return matchFromRow(row), true, nil
}

// getByIDLiteral avoids bind parameters entirely for poolers that lose
// the unnamed prepared statement between bind and execute.
func (r *MatchRepository) getByIDLiteral(ctx context.Context, matchID string) (match.Match, bool, error) {
	query, args, err := qb.Select("*").From("matches").
		Where(
			qb.EqLiteral("public_id", matchID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return match.Match{}, false, fmt.Errorf("build get match literal fallback query: %w", err)
	}

	var row matchTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return match.Match{}, false, nil
		}
		return match.Match{}, false, fmt.Errorf("get match literal fallback: %w", err)
	}

	return matchFromRow(row), true, nil
}

func (r *MatchRepository) ApplyResult(ctx context.Context, matchID string, homeScore, awayScore int, completedAt time.Time) error {
	query, args, err := qb.Update("matches").
		Set("home_score", homeScore).
		Set("away_score", awayScore).
		Set("status", match.StatusCompleted).
		Set("completed_at", completedAt).
		SetExpr("updated_at", "NOW()").
		Where(
			qb.Eq("public_id", matchID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build apply match result query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("apply match result: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("apply match result: match %s not found", matchID)
	}

	return nil
}

func matchFromRow(row matchTableModel) match.Match {
	return match.Match{
		ID:          row.PublicID,
		LeagueID:    row.LeagueID,
		HomeTeamID:  row.HomeTeamID,
		AwayTeamID:  row.AwayTeamID,
		HomeTeam:    row.HomeTeamName,
		AwayTeam:    row.AwayTeamName,
		KickoffAt:   row.KickoffAt,
		Venue:       row.Venue,
		HomeScore:   nullInt64ToIntPtr(row.HomeScore),
		AwayScore:   nullInt64ToIntPtr(row.AwayScore),
		Status:      match.NormalizeStatus(row.Status),
		Friendly:    row.Friendly,
		CompletedAt: nullTimeToTimePtr(row.CompletedAt),
	}
}
