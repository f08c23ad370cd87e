package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/nfaconnect/matchday/internal/domain/article"
	"github.com/nfaconnect/matchday/internal/domain/league"
	"github.com/nfaconnect/matchday/internal/domain/lineup"
	"github.com/nfaconnect/matchday/internal/domain/match"
	"github.com/nfaconnect/matchday/internal/domain/matchevent"
	"github.com/nfaconnect/matchday/internal/domain/standings"
	"github.com/nfaconnect/matchday/internal/domain/team"
)

type stubLeagueRepository struct {
	byID map[string]league.League
}

func (s *stubLeagueRepository) List(_ context.Context) ([]league.League, error) {
	out := make([]league.League, 0, len(s.byID))
	for _, item := range s.byID {
		out = append(out, item)
	}
	return out, nil
}

func (s *stubLeagueRepository) GetByID(_ context.Context, leagueID string) (league.League, bool, error) {
	item, ok := s.byID[leagueID]
	return item, ok, nil
}

type stubTeamRepository struct {
	byLeague map[string][]team.Team
}

func (s *stubTeamRepository) ListByLeague(_ context.Context, leagueID string) ([]team.Team, error) {
	items := s.byLeague[leagueID]
	out := make([]team.Team, len(items))
	copy(out, items)
	return out, nil
}

func (s *stubTeamRepository) GetByID(_ context.Context, teamID string) (team.Team, bool, error) {
	for _, items := range s.byLeague {
		for _, item := range items {
			if item.ID == teamID {
				return item, true, nil
			}
		}
	}
	return team.Team{}, false, nil
}

type stubMatchRepository struct {
	mu    sync.Mutex
	items []match.Match
}

func (s *stubMatchRepository) List(_ context.Context) ([]match.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]match.Match, len(s.items))
	copy(out, s.items)
	return out, nil
}

func (s *stubMatchRepository) ListByLeague(_ context.Context, leagueID string) ([]match.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]match.Match, 0, len(s.items))
	for _, item := range s.items {
		if item.LeagueID == leagueID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (s *stubMatchRepository) GetByID(_ context.Context, matchID string) (match.Match, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range s.items {
		if item.ID == matchID {
			return item, true, nil
		}
	}
	return match.Match{}, false, nil
}

func (s *stubMatchRepository) ApplyResult(_ context.Context, matchID string, homeScore, awayScore int, completedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for idx := range s.items {
		if s.items[idx].ID != matchID {
			continue
		}
		home, away := homeScore, awayScore
		s.items[idx].HomeScore = &home
		s.items[idx].AwayScore = &away
		s.items[idx].Status = match.StatusCompleted
		done := completedAt
		s.items[idx].CompletedAt = &done
		return nil
	}
	return fmt.Errorf("match %s not found", matchID)
}

type stubEventRepository struct {
	mu     sync.Mutex
	events []matchevent.Event
}

func (s *stubEventRepository) Append(_ context.Context, event matchevent.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *stubEventRepository) ListByMatch(_ context.Context, matchID string) ([]matchevent.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]matchevent.Event, 0, len(s.events))
	for _, event := range s.events {
		if event.MatchID == matchID {
			out = append(out, event)
		}
	}
	return out, nil
}

func (s *stubEventRepository) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}

type stubLineupRepository struct {
	mu      sync.Mutex
	byMatch map[string][]lineup.Entry
}

func (s *stubLineupRepository) ReplaceByMatchTeam(_ context.Context, matchID, teamID string, entries []lineup.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.byMatch == nil {
		s.byMatch = make(map[string][]lineup.Entry)
	}
	kept := make([]lineup.Entry, 0, len(s.byMatch[matchID])+len(entries))
	for _, entry := range s.byMatch[matchID] {
		if entry.TeamID != teamID {
			kept = append(kept, entry)
		}
	}
	s.byMatch[matchID] = append(kept, entries...)
	return nil
}

func (s *stubLineupRepository) ListByMatch(_ context.Context, matchID string) ([]lineup.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := s.byMatch[matchID]
	out := make([]lineup.Entry, len(items))
	copy(out, items)
	return out, nil
}

type stubStandingsRepository struct {
	mu       sync.Mutex
	byLeague map[string][]standings.Row
	replaces int
}

func (s *stubStandingsRepository) ReplaceByLeague(_ context.Context, leagueID string, rows []standings.Row) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.byLeague == nil {
		s.byLeague = make(map[string][]standings.Row)
	}
	out := make([]standings.Row, len(rows))
	copy(out, rows)
	s.byLeague[leagueID] = out
	s.replaces++
	return nil
}

func (s *stubStandingsRepository) ListByLeague(_ context.Context, leagueID string) ([]standings.Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := s.byLeague[leagueID]
	out := make([]standings.Row, len(items))
	copy(out, items)
	return out, nil
}

type stubArticleRepository struct {
	mu    sync.Mutex
	items []article.Article
}

func (s *stubArticleRepository) Insert(_ context.Context, item article.Article) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, item)
	return nil
}

func (s *stubArticleRepository) ExistsBySource(_ context.Context, sourceKind, sourceRef string, since time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range s.items {
		if item.SourceKind != sourceKind || item.SourceRef != sourceRef {
			continue
		}
		if since.IsZero() || !item.CreatedAt.Before(since) {
			return true, nil
		}
	}
	return false, nil
}

func (s *stubArticleRepository) ExistsByKind(_ context.Context, sourceKind string, since time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range s.items {
		if item.SourceKind != sourceKind {
			continue
		}
		if since.IsZero() || !item.CreatedAt.Before(since) {
			return true, nil
		}
	}
	return false, nil
}

func (s *stubArticleRepository) ListRecent(_ context.Context, since time.Time, limit int) ([]article.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]article.Article, 0, len(s.items))
	for idx := len(s.items) - 1; idx >= 0; idx-- {
		item := s.items[idx]
		if !since.IsZero() && item.CreatedAt.Before(since) {
			continue
		}
		out = append(out, item)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *stubArticleRepository) byKind(sourceKind string) []article.Article {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]article.Article, 0, len(s.items))
	for _, item := range s.items {
		if item.SourceKind == sourceKind {
			out = append(out, item)
		}
	}
	return out
}

type publishedEvent struct {
	name    string
	payload any
}

type stubPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (s *stubPublisher) Publish(_ context.Context, name string, payload any) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, publishedEvent{name: name, payload: payload})
	return 1
}

func (s *stubPublisher) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}

// inlineTasks runs scheduled work synchronously so tests observe the
// follow-ups without timing games.
type inlineTasks struct{}

func (inlineTasks) Go(_ string, fn func(ctx context.Context) error) {
	_ = fn(context.Background())
}
