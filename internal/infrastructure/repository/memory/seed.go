package memory

import (
	"time"

	"github.com/nfaconnect/matchday/internal/domain/league"
	"github.com/nfaconnect/matchday/internal/domain/match"
	"github.com/nfaconnect/matchday/internal/domain/team"
)

const (
	LeagueIDPremier  = "nam-premier-2026"
	LeagueIDFirstDiv = "nam-first-division-2026"
)

func SeedLeagues() []league.League {
	return []league.League{
		{
			ID:          LeagueIDPremier,
			Name:        "Namibia Premier League",
			CountryCode: "NA",
			Season:      "2026/2027",
		},
		{
			ID:          LeagueIDFirstDiv,
			Name:        "Namibia First Division",
			CountryCode: "NA",
			Season:      "2026/2027",
		},
	}
}

func SeedTeams() []team.Team {
	return []team.Team{
		{ID: "team-ba", LeagueID: LeagueIDPremier, Name: "Black Africa FC", Short: "BA"},
		{ID: "team-tm", LeagueID: LeagueIDPremier, Name: "Tura Magic", Short: "TM"},
		{ID: "team-as", LeagueID: LeagueIDPremier, Name: "African Stars", Short: "AS"},
		{ID: "team-bw", LeagueID: LeagueIDPremier, Name: "Blue Waters", Short: "BW"},
		{ID: "team-ea", LeagueID: LeagueIDFirstDiv, Name: "Eleven Arrows", Short: "EA"},
		{ID: "team-cp", LeagueID: LeagueIDFirstDiv, Name: "Citizens FC", Short: "CIT"},
	}
}

// SeedMatches schedules fixtures relative to startup so live-update
// and newsroom flows have near-future kickoffs to work against.
func SeedMatches() []match.Match {
	now := time.Now().UTC().Truncate(time.Hour)

	return []match.Match{
		{
			ID:         "match-npl-001",
			LeagueID:   LeagueIDPremier,
			HomeTeamID: "team-ba",
			AwayTeamID: "team-tm",
			HomeTeam:   "Black Africa FC",
			AwayTeam:   "Tura Magic",
			KickoffAt:  now.Add(90 * time.Minute),
			Venue:      "Sam Nujoma Stadium",
			Status:     match.StatusScheduled,
		},
		{
			ID:         "match-npl-002",
			LeagueID:   LeagueIDPremier,
			HomeTeamID: "team-as",
			AwayTeamID: "team-bw",
			HomeTeam:   "African Stars",
			AwayTeam:   "Blue Waters",
			KickoffAt:  now.Add(48 * time.Hour),
			Venue:      "Independence Stadium",
			Status:     match.StatusScheduled,
		},
		{
			ID:         "match-npl-003",
			LeagueID:   LeagueIDPremier,
			HomeTeamID: "team-tm",
			AwayTeamID: "team-as",
			HomeTeam:   "Tura Magic",
			AwayTeam:   "African Stars",
			KickoffAt:  now.Add(96 * time.Hour),
			Venue:      "Sam Nujoma Stadium",
			Status:     match.StatusScheduled,
		},
		{
			ID:         "match-nfd-001",
			LeagueID:   LeagueIDFirstDiv,
			HomeTeamID: "team-ea",
			AwayTeamID: "team-cp",
			HomeTeam:   "Eleven Arrows",
			AwayTeam:   "Citizens FC",
			KickoffAt:  now.Add(72 * time.Hour),
			Venue:      "Kuisebmund Stadium",
			Status:     match.StatusScheduled,
		},
	}
}
