package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nfaconnect/matchday/internal/domain/league"
	"github.com/nfaconnect/matchday/internal/domain/match"
	"github.com/nfaconnect/matchday/internal/domain/standings"
	"github.com/nfaconnect/matchday/internal/domain/team"
)

func intPtr(v int) *int { return &v }

func timePtr(v time.Time) *time.Time { return &v }

func premierLeagueFixture() (*stubLeagueRepository, *stubTeamRepository, *stubMatchRepository, *stubStandingsRepository) {
	const leagueID = "nam-premier-2026"
	leagueRepo := &stubLeagueRepository{
		byID: map[string]league.League{
			leagueID: {ID: leagueID, Name: "Namibia Premier League", Season: "2026"},
		},
	}
	teamRepo := &stubTeamRepository{
		byLeague: map[string][]team.Team{
			leagueID: {
				{ID: "team-ba", LeagueID: leagueID, Name: "Black Africa FC"},
				{ID: "team-tm", LeagueID: leagueID, Name: "Tura Magic"},
				{ID: "team-as", LeagueID: leagueID, Name: "African Stars"},
			},
		},
	}
	done := time.Now().UTC().Add(-time.Hour)
	matchRepo := &stubMatchRepository{
		items: []match.Match{
			{
				ID: "m1", LeagueID: leagueID,
				HomeTeamID: "team-ba", AwayTeamID: "team-tm",
				HomeTeam: "Black Africa FC", AwayTeam: "Tura Magic",
				HomeScore: intPtr(2), AwayScore: intPtr(1),
				Status: match.StatusCompleted, CompletedAt: timePtr(done),
			},
			{
				ID: "m2", LeagueID: leagueID,
				HomeTeamID: "team-as", AwayTeamID: "team-ba",
				HomeTeam: "African Stars", AwayTeam: "Black Africa FC",
				HomeScore: intPtr(1), AwayScore: intPtr(1),
				Status: match.StatusCompleted, CompletedAt: timePtr(done),
			},
			{
				ID: "m3", LeagueID: leagueID,
				HomeTeamID: "team-tm", AwayTeamID: "team-as",
				HomeTeam: "Tura Magic", AwayTeam: "African Stars",
				Status: match.StatusScheduled, KickoffAt: time.Now().Add(48 * time.Hour),
			},
		},
	}
	return leagueRepo, teamRepo, matchRepo, &stubStandingsRepository{}
}

func TestStandingsService_RecomputeFromResults(t *testing.T) {
	t.Parallel()

	leagueRepo, teamRepo, matchRepo, standingsRepo := premierLeagueFixture()
	service := NewStandingsService(leagueRepo, teamRepo, matchRepo, standingsRepo)

	rows, err := service.Recompute(context.Background(), "nam-premier-2026")
	if err != nil {
		t.Fatalf("Recompute error: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}

	if rows[0].TeamName != "Black Africa FC" || rows[0].Points != 4 || rows[0].Played != 2 {
		t.Fatalf("unexpected leader: %+v", rows[0])
	}
	if rows[0].GoalDifference != 1 || rows[0].GoalsFor != 3 || rows[0].GoalsAgainst != 2 {
		t.Fatalf("unexpected leader goal tallies: %+v", rows[0])
	}
	if rows[1].TeamName != "African Stars" || rows[1].Points != 1 {
		t.Fatalf("unexpected second row: %+v", rows[1])
	}
	if rows[2].TeamName != "Tura Magic" || rows[2].Points != 0 || rows[2].Lost != 1 {
		t.Fatalf("unexpected third row: %+v", rows[2])
	}

	for _, row := range rows {
		if row.GoalDifference != row.GoalsFor-row.GoalsAgainst {
			t.Fatalf("goal difference out of step: %+v", row)
		}
	}
}

func TestStandingsService_RecomputeIsIdempotent(t *testing.T) {
	t.Parallel()

	leagueRepo, teamRepo, matchRepo, standingsRepo := premierLeagueFixture()
	service := NewStandingsService(leagueRepo, teamRepo, matchRepo, standingsRepo)

	first, err := service.Recompute(context.Background(), "nam-premier-2026")
	if err != nil {
		t.Fatalf("first Recompute error: %v", err)
	}
	second, err := service.Recompute(context.Background(), "nam-premier-2026")
	if err != nil {
		t.Fatalf("second Recompute error: %v", err)
	}

	if len(first) != len(second) {
		t.Fatalf("row count changed between runs: %d vs %d", len(first), len(second))
	}
	for idx := range first {
		if first[idx] != second[idx] {
			t.Fatalf("row %d changed between runs: %+v vs %+v", idx, first[idx], second[idx])
		}
	}
	if standingsRepo.replaces != 2 {
		t.Fatalf("expected 2 table swaps, got %d", standingsRepo.replaces)
	}
}

func TestStandingsService_FriendliesAndUnfinishedMatchesDoNotCount(t *testing.T) {
	t.Parallel()

	leagueRepo, teamRepo, matchRepo, standingsRepo := premierLeagueFixture()
	done := time.Now().UTC()
	matchRepo.items = append(matchRepo.items,
		match.Match{
			ID: "m4", LeagueID: "nam-premier-2026",
			HomeTeamID: "team-ba", AwayTeamID: "team-as",
			HomeScore: intPtr(5), AwayScore: intPtr(0),
			Status: match.StatusCompleted, CompletedAt: timePtr(done),
			Friendly: true,
		},
		match.Match{
			ID: "m5", LeagueID: "nam-premier-2026",
			HomeTeamID: "team-tm", AwayTeamID: "team-ba",
			HomeScore: intPtr(1),
			Status:    match.StatusCompleted, CompletedAt: timePtr(done),
		},
	)
	service := NewStandingsService(leagueRepo, teamRepo, matchRepo, standingsRepo)

	rows, err := service.Recompute(context.Background(), "nam-premier-2026")
	if err != nil {
		t.Fatalf("Recompute error: %v", err)
	}
	for _, row := range rows {
		if row.TeamID == "team-ba" && row.Played != 2 {
			t.Fatalf("friendly or partial result leaked into the table: %+v", row)
		}
	}
}

func TestStandingsService_TieBreakOrderIsTotal(t *testing.T) {
	t.Parallel()

	rows := []standings.Row{
		{TeamName: "Tura Magic", Points: 6, GoalDifference: 2, GoalsFor: 5, Won: 2},
		{TeamName: "Black Africa FC", Points: 6, GoalDifference: 2, GoalsFor: 5, Won: 2},
		{TeamName: "African Stars", Points: 6, GoalDifference: 2, GoalsFor: 6, Won: 2},
		{TeamName: "Eleven Arrows", Points: 6, GoalDifference: 3, GoalsFor: 4, Won: 2},
		{TeamName: "Blue Waters", Points: 7, GoalDifference: 0, GoalsFor: 1, Won: 1},
	}
	sortTable(rows)

	want := []string{"Blue Waters", "Eleven Arrows", "African Stars", "Black Africa FC", "Tura Magic"}
	for idx, name := range want {
		if rows[idx].TeamName != name {
			t.Fatalf("position %d: expected %s, got %s", idx+1, name, rows[idx].TeamName)
		}
	}
}

func TestStandingsService_UnknownLeague(t *testing.T) {
	t.Parallel()

	leagueRepo, teamRepo, matchRepo, standingsRepo := premierLeagueFixture()
	service := NewStandingsService(leagueRepo, teamRepo, matchRepo, standingsRepo)

	if _, err := service.Standings(context.Background(), "no-such-league"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := service.Standings(context.Background(), "  "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
