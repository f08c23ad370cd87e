package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/nfaconnect/matchday/internal/domain/league"
	"github.com/nfaconnect/matchday/internal/domain/match"
	"github.com/nfaconnect/matchday/internal/domain/standings"
	"github.com/nfaconnect/matchday/internal/domain/team"
)

// StandingsService derives league tables from completed match results.
// The stored table is a cache: every read recomputes from results, so a
// corrected result is reflected on the next request without any repair
// step.
type StandingsService struct {
	leagueRepo    league.Repository
	teamRepo      team.Repository
	matchRepo     match.Repository
	standingsRepo standings.Repository
}

func NewStandingsService(
	leagueRepo league.Repository,
	teamRepo team.Repository,
	matchRepo match.Repository,
	standingsRepo standings.Repository,
) *StandingsService {
	return &StandingsService{
		leagueRepo:    leagueRepo,
		teamRepo:      teamRepo,
		matchRepo:     matchRepo,
		standingsRepo: standingsRepo,
	}
}

// Standings recomputes and returns the table for one league.
func (s *StandingsService) Standings(ctx context.Context, leagueID string) ([]standings.Row, error) {
	return s.Recompute(ctx, leagueID)
}

// Recompute rebuilds the league table from scratch and swaps it into
// the standings store. Friendlies and matches without a full result
// never contribute.
func (s *StandingsService) Recompute(ctx context.Context, leagueID string) ([]standings.Row, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingsService.Recompute")
	defer span.End()

	leagueID = strings.TrimSpace(leagueID)
	if leagueID == "" {
		return nil, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}

	_, exists, err := s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("get league: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: league=%s", ErrNotFound, leagueID)
	}

	teams, err := s.teamRepo.ListByLeague(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}

	rowByTeam := make(map[string]*standings.Row, len(teams))
	for _, item := range teams {
		rowByTeam[item.ID] = &standings.Row{
			LeagueID: leagueID,
			TeamID:   item.ID,
			TeamName: item.Name,
		}
	}

	matches, err := s.matchRepo.ListByLeague(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	for _, item := range matches {
		if item.Friendly || item.Status != match.StatusCompleted || !item.HasResult() {
			continue
		}
		home, homeOK := rowByTeam[item.HomeTeamID]
		away, awayOK := rowByTeam[item.AwayTeamID]
		if !homeOK || !awayOK {
			continue
		}
		applyResult(home, away, *item.HomeScore, *item.AwayScore)
	}

	rows := make([]standings.Row, 0, len(rowByTeam))
	for _, row := range rowByTeam {
		row.GoalDifference = row.GoalsFor - row.GoalsAgainst
		rows = append(rows, *row)
	}
	sortTable(rows)

	if err := s.standingsRepo.ReplaceByLeague(ctx, leagueID, rows); err != nil {
		return nil, fmt.Errorf("replace standings: %w", err)
	}

	return rows, nil
}

func applyResult(home, away *standings.Row, homeScore, awayScore int) {
	home.Played++
	away.Played++
	home.GoalsFor += homeScore
	home.GoalsAgainst += awayScore
	away.GoalsFor += awayScore
	away.GoalsAgainst += homeScore

	switch {
	case homeScore > awayScore:
		home.Won++
		home.Points += 3
		away.Lost++
	case homeScore < awayScore:
		away.Won++
		away.Points += 3
		home.Lost++
	default:
		home.Drawn++
		away.Drawn++
		home.Points++
		away.Points++
	}
}

// sortTable orders rows by points, then goal difference, then goals
// scored, then wins; team name breaks any remaining tie so the order
// is total.
func sortTable(rows []standings.Row) {
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.GoalDifference != b.GoalDifference {
			return a.GoalDifference > b.GoalDifference
		}
		if a.GoalsFor != b.GoalsFor {
			return a.GoalsFor > b.GoalsFor
		}
		if a.Won != b.Won {
			return a.Won > b.Won
		}
		return a.TeamName < b.TeamName
	})
}
