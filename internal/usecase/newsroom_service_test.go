package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/nfaconnect/matchday/internal/domain/article"
	"github.com/nfaconnect/matchday/internal/domain/lineup"
	"github.com/nfaconnect/matchday/internal/domain/match"
	"github.com/nfaconnect/matchday/internal/platform/logging"
)

type stubWriter struct {
	draft ArticleDraft
	err   error
	mu    sync.Mutex
	calls int
}

func (s *stubWriter) ComposeDraft(_ context.Context, _ DraftContext) (ArticleDraft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.draft, s.err
}

type newsroomHarness struct {
	service  *NewsroomService
	articles *stubArticleRepository
	matches  *stubMatchRepository
	lineups  *stubLineupRepository
}

func newNewsroomHarness(writer draftWriter) *newsroomHarness {
	leagueRepo, teamRepo, matchRepo, standingsRepo := premierLeagueFixture()
	articles := &stubArticleRepository{}
	lineups := &stubLineupRepository{}

	service := NewNewsroomService(NewsroomServiceConfig{
		LeagueRepo:  leagueRepo,
		MatchRepo:   matchRepo,
		LineupRepo:  lineups,
		ArticleRepo: articles,
		Standings:   NewStandingsService(leagueRepo, teamRepo, matchRepo, standingsRepo),
		Writer:      writer,
		Logger:      logging.NewNop(),
	})

	return &newsroomHarness{
		service:  service,
		articles: articles,
		matches:  matchRepo,
		lineups:  lineups,
	}
}

func TestNewsroomService_ResultArticlesPerCompletedMatch(t *testing.T) {
	t.Parallel()

	h := newNewsroomHarness(nil)

	summary, err := h.service.GenerateFromCurrentState(context.Background())
	if err != nil {
		t.Fatalf("generate error: %v", err)
	}

	results := h.articles.byKind(article.KindMatchResult)
	if len(results) != 2 {
		t.Fatalf("expected 2 result articles for 2 completed matches, got %d", len(results))
	}
	var titles []string
	for _, item := range results {
		titles = append(titles, item.Title)
	}
	joined := strings.Join(titles, " | ")
	if !strings.Contains(joined, "Black Africa FC 2-1 Tura Magic") {
		t.Fatalf("expected final score in a result title, got %q", joined)
	}
	if summary.Generated < 2 {
		t.Fatalf("unexpected summary: %+v", summary)
	}

	second, err := h.service.GenerateFromCurrentState(context.Background())
	if err != nil {
		t.Fatalf("second generate error: %v", err)
	}
	if second.Generated != 0 {
		t.Fatalf("repeat pass must publish nothing, got %+v", second)
	}
	if got := len(h.articles.byKind(article.KindMatchResult)); got != 2 {
		t.Fatalf("result articles duplicated on repeat pass: %d", got)
	}
}

func seedLineupSide(t *testing.T, h *newsroomHarness, matchID, teamID string, players int, submittedAt time.Time) {
	t.Helper()

	entries := make([]lineup.Entry, 0, players)
	for idx := 0; idx < players; idx++ {
		entries = append(entries, lineup.Entry{
			MatchID: matchID, TeamID: teamID,
			PlayerName:  fmt.Sprintf("Player %d", idx+1),
			Position:    lineup.PositionMidfielder,
			SquadNumber: idx + 1,
			SubmittedAt: submittedAt,
		})
	}
	if err := h.lineups.ReplaceByMatchTeam(context.Background(), matchID, teamID, entries); err != nil {
		t.Fatalf("seed lineup: %v", err)
	}
}

func TestNewsroomService_LineupArticleNeedsFullSide(t *testing.T) {
	t.Parallel()

	h := newNewsroomHarness(nil)
	h.matches.items = append(h.matches.items, match.Match{
		ID: "m-soon", LeagueID: "nam-premier-2026",
		HomeTeamID: "team-ba", AwayTeamID: "team-tm",
		HomeTeam: "Black Africa FC", AwayTeam: "Tura Magic",
		Status:    match.StatusScheduled,
		KickoffAt: time.Now().UTC().Add(time.Hour),
	})

	seedLineupSide(t, h, "m-soon", "team-ba", 10, time.Now().UTC())
	if _, err := h.service.GenerateFromCurrentState(context.Background()); err != nil {
		t.Fatalf("generate error: %v", err)
	}
	if got := len(h.articles.byKind(article.KindLineup)); got != 0 {
		t.Fatalf("ten players must not produce a lineup article, got %d", got)
	}

	seedLineupSide(t, h, "m-soon", "team-ba", 11, time.Now().UTC())
	if _, err := h.service.GenerateFromCurrentState(context.Background()); err != nil {
		t.Fatalf("generate error: %v", err)
	}
	items := h.articles.byKind(article.KindLineup)
	if len(items) != 1 {
		t.Fatalf("expected one lineup article, got %d", len(items))
	}
	if !strings.Contains(items[0].Title, "Black Africa FC") {
		t.Fatalf("unexpected lineup title: %q", items[0].Title)
	}
}

func TestNewsroomService_LineupArticleKeysOnSubmissionTime(t *testing.T) {
	t.Parallel()

	h := newNewsroomHarness(nil)
	h.matches.items = append(h.matches.items, match.Match{
		ID: "m-weekend", LeagueID: "nam-premier-2026",
		HomeTeamID: "team-ba", AwayTeamID: "team-tm",
		HomeTeam: "Black Africa FC", AwayTeam: "Tura Magic",
		Status:    match.StatusScheduled,
		KickoffAt: time.Now().UTC().Add(5 * 24 * time.Hour),
	})

	seedLineupSide(t, h, "m-weekend", "team-ba", 11, time.Now().UTC().Add(-3*time.Hour))
	if _, err := h.service.GenerateFromCurrentState(context.Background()); err != nil {
		t.Fatalf("generate error: %v", err)
	}
	if got := len(h.articles.byKind(article.KindLineup)); got != 0 {
		t.Fatalf("a roster submitted hours ago must not produce an article, got %d", got)
	}

	seedLineupSide(t, h, "m-weekend", "team-ba", 11, time.Now().UTC().Add(-10*time.Minute))
	if _, err := h.service.GenerateFromCurrentState(context.Background()); err != nil {
		t.Fatalf("generate error: %v", err)
	}
	items := h.articles.byKind(article.KindLineup)
	if len(items) != 1 {
		t.Fatalf("a fresh roster for a match days away must produce an article, got %d", len(items))
	}
	if items[0].SourceRef != "m-weekend" {
		t.Fatalf("unexpected lineup source ref: %q", items[0].SourceRef)
	}
}

func TestConfirmedSide_RosterOrderedByPositionThenNumber(t *testing.T) {
	t.Parallel()

	item := match.Match{
		ID: "m-order", HomeTeamID: "team-ba", AwayTeamID: "team-tm",
		HomeTeam: "Black Africa FC", AwayTeam: "Tura Magic",
	}
	now := time.Now().UTC()
	entries := []lineup.Entry{
		{MatchID: "m-order", TeamID: "team-ba", PlayerName: "Striker Nine", Position: lineup.PositionForward, SquadNumber: 9, SubmittedAt: now},
		{MatchID: "m-order", TeamID: "team-ba", PlayerName: "Keeper One", Position: lineup.PositionGoalkeeper, SquadNumber: 1, SubmittedAt: now},
		{MatchID: "m-order", TeamID: "team-ba", PlayerName: "Mid Ten", Position: lineup.PositionMidfielder, SquadNumber: 10, SubmittedAt: now},
		{MatchID: "m-order", TeamID: "team-ba", PlayerName: "Mid Eight", Position: lineup.PositionMidfielder, SquadNumber: 8, SubmittedAt: now},
		{MatchID: "m-order", TeamID: "team-ba", PlayerName: "Back Four", Position: lineup.PositionDefender, SquadNumber: 4, SubmittedAt: now},
		{MatchID: "m-order", TeamID: "team-ba", PlayerName: "Back Two", Position: lineup.PositionDefender, SquadNumber: 2, SubmittedAt: now},
		{MatchID: "m-order", TeamID: "team-ba", PlayerName: "Back Three", Position: lineup.PositionDefender, SquadNumber: 3, SubmittedAt: now},
		{MatchID: "m-order", TeamID: "team-ba", PlayerName: "Back Five", Position: lineup.PositionDefender, SquadNumber: 5, SubmittedAt: now},
		{MatchID: "m-order", TeamID: "team-ba", PlayerName: "Mid Six", Position: lineup.PositionMidfielder, SquadNumber: 6, SubmittedAt: now},
		{MatchID: "m-order", TeamID: "team-ba", PlayerName: "Wing Seven", Position: lineup.PositionForward, SquadNumber: 7, SubmittedAt: now},
		{MatchID: "m-order", TeamID: "team-ba", PlayerName: "Utility Twelve", Position: "SW", SquadNumber: 12, SubmittedAt: now},
	}

	teamName, roster := confirmedSide(entries, item, now.Add(-time.Hour))
	if teamName != "Black Africa FC" {
		t.Fatalf("unexpected side: %q", teamName)
	}
	want := []string{
		"Keeper One",
		"Back Two", "Back Three", "Back Four", "Back Five",
		"Mid Six", "Mid Eight", "Mid Ten",
		"Wing Seven", "Striker Nine",
		"Utility Twelve",
	}
	if len(roster) != len(want) {
		t.Fatalf("expected %d players, got %d: %v", len(want), len(roster), roster)
	}
	for idx, name := range want {
		if roster[idx] != name {
			t.Fatalf("roster[%d]=%q, want %q (full roster: %v)", idx, roster[idx], name, roster)
		}
	}
}

func TestNewsroomService_UpcomingPreviewsTwoSoonestMatches(t *testing.T) {
	t.Parallel()

	h := newNewsroomHarness(nil)

	if _, err := h.service.GenerateFromCurrentState(context.Background()); err != nil {
		t.Fatalf("generate error: %v", err)
	}
	items := h.articles.byKind(article.KindUpcomingMatch)
	if len(items) != 1 {
		t.Fatalf("expected a preview for the only scheduled match, got %d", len(items))
	}
	if items[0].SourceRef != "m3" {
		t.Fatalf("unexpected preview source ref: %q", items[0].SourceRef)
	}

	h.matches.items = append(h.matches.items,
		match.Match{
			ID: "m-tomorrow", LeagueID: "nam-premier-2026",
			HomeTeamID: "team-as", AwayTeamID: "team-ba",
			HomeTeam: "African Stars", AwayTeam: "Black Africa FC",
			Status:    match.StatusScheduled,
			KickoffAt: time.Now().UTC().Add(24 * time.Hour),
		},
		match.Match{
			ID: "m-later", LeagueID: "nam-premier-2026",
			HomeTeamID: "team-as", AwayTeamID: "team-tm",
			HomeTeam: "African Stars", AwayTeam: "Tura Magic",
			Status:    match.StatusScheduled,
			KickoffAt: time.Now().UTC().Add(72 * time.Hour),
		},
		match.Match{
			ID: "m-far", LeagueID: "nam-premier-2026",
			HomeTeamID: "team-tm", AwayTeamID: "team-ba",
			HomeTeam: "Tura Magic", AwayTeam: "Black Africa FC",
			Status:    match.StatusScheduled,
			KickoffAt: time.Now().UTC().Add(8 * 24 * time.Hour),
		},
	)
	if _, err := h.service.GenerateFromCurrentState(context.Background()); err != nil {
		t.Fatalf("generate error: %v", err)
	}

	refs := make(map[string]bool)
	for _, item := range h.articles.byKind(article.KindUpcomingMatch) {
		refs[item.SourceRef] = true
	}
	if len(refs) != 2 {
		t.Fatalf("expected previews for the two soonest matches only, got %v", refs)
	}
	if !refs["m3"] || !refs["m-tomorrow"] {
		t.Fatalf("expected m3 and m-tomorrow covered, got %v", refs)
	}
	if refs["m-later"] || refs["m-far"] {
		t.Fatalf("matches beyond the two soonest must wait, got %v", refs)
	}
}

func TestNewsroomService_LeagueUpdateOncePerDay(t *testing.T) {
	t.Parallel()

	h := newNewsroomHarness(nil)

	if _, err := h.service.GenerateFromCurrentState(context.Background()); err != nil {
		t.Fatalf("generate error: %v", err)
	}
	items := h.articles.byKind(article.KindLeagueUpdate)
	if len(items) != 1 {
		t.Fatalf("expected one league update article, got %d", len(items))
	}
	if !strings.Contains(items[0].Body, "Black Africa FC") {
		t.Fatalf("expected the leader in the table summary, got %q", items[0].Body)
	}

	if _, err := h.service.GenerateFromCurrentState(context.Background()); err != nil {
		t.Fatalf("second generate error: %v", err)
	}
	if got := len(h.articles.byKind(article.KindLeagueUpdate)); got != 1 {
		t.Fatalf("league update published twice within a day: %d", got)
	}
}

func TestNewsroomService_ConcurrentRunsDoNotDoublePublish(t *testing.T) {
	t.Parallel()

	h := newNewsroomHarness(nil)

	var wg sync.WaitGroup
	for idx := 0; idx < 8; idx++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := h.service.GenerateFromCurrentState(context.Background()); err != nil {
				t.Errorf("generate error: %v", err)
			}
		}()
	}
	wg.Wait()

	seen := make(map[string]int)
	for _, item := range h.articles.byKind(article.KindMatchResult) {
		seen[item.SourceRef]++
	}
	for ref, count := range seen {
		if count != 1 {
			t.Fatalf("match %s covered %d times", ref, count)
		}
	}
	if got := len(h.articles.byKind(article.KindLeagueUpdate)); got > 1 {
		t.Fatalf("league update published %d times", got)
	}
}

func TestNewsroomService_WriterDraftPreferredAndCapped(t *testing.T) {
	t.Parallel()

	writer := &stubWriter{draft: ArticleDraft{
		Title:   strings.Repeat("Ä", article.MaxTitleLen+50),
		Summary: "A short summary.",
		Body:    strings.Repeat("b", article.MaxBodyLen+1),
	}}
	h := newNewsroomHarness(writer)

	if _, err := h.service.GenerateFromCurrentState(context.Background()); err != nil {
		t.Fatalf("generate error: %v", err)
	}
	items := h.articles.byKind(article.KindMatchResult)
	if len(items) == 0 {
		t.Fatalf("expected result articles")
	}
	if got := utf8.RuneCountInString(items[0].Title); got != article.MaxTitleLen {
		t.Fatalf("expected title clamped to %d runes, got %d", article.MaxTitleLen, got)
	}
	if got := utf8.RuneCountInString(items[0].Body); got != article.MaxBodyLen {
		t.Fatalf("expected body clamped to %d runes, got %d", article.MaxBodyLen, got)
	}
}

func TestNewsroomService_WriterFailureFallsBackToTemplate(t *testing.T) {
	t.Parallel()

	writer := &stubWriter{err: errors.New("newswire down")}
	h := newNewsroomHarness(writer)

	summary, err := h.service.GenerateFromCurrentState(context.Background())
	if err != nil {
		t.Fatalf("generate error: %v", err)
	}
	if summary.Generated == 0 {
		t.Fatalf("writer failure must not suppress publication: %+v", summary)
	}
	for _, item := range h.articles.byKind(article.KindMatchResult) {
		if strings.TrimSpace(item.Title) == "" || strings.TrimSpace(item.Body) == "" {
			t.Fatalf("fallback article has empty copy: %+v", item)
		}
	}
}

func TestFallbackDraft_AllKindsProduceCopyWithinCaps(t *testing.T) {
	t.Parallel()

	contexts := []DraftContext{
		{
			Kind:     article.KindMatchResult,
			HomeTeam: "Black Africa FC", AwayTeam: "Tura Magic",
			HomeScore: 2, AwayScore: 1,
			LeagueName: "Namibia Premier League", Venue: "Sam Nujoma Stadium",
		},
		{
			Kind:     article.KindLineup,
			TeamName: "Tura Magic", HomeTeam: "Black Africa FC", AwayTeam: "Tura Magic",
			Players: 11, KickoffAt: time.Now(),
			Roster: []string{"Keeper One", "Back Two", "Mid Eight", "Striker Nine"},
		},
		{
			Kind:       article.KindUpcomingMatch,
			LeagueName: "Namibia Premier League",
			HomeTeam:   "Blue Waters", AwayTeam: "Eleven Arrows",
			KickoffAt: time.Now(), Venue: "Kuisebmund Stadium",
		},
		{
			Kind:       article.KindLeagueUpdate,
			LeagueName: "Namibia Premier League",
			Leaders:    []TableLine{{TeamName: "Black Africa FC", Played: 2, Points: 4}},
		},
		{Kind: "unrecognized"},
	}

	for _, dctx := range contexts {
		draft := fallbackDraft(dctx)
		if strings.TrimSpace(draft.Title) == "" || strings.TrimSpace(draft.Summary) == "" || strings.TrimSpace(draft.Body) == "" {
			t.Fatalf("kind %q produced empty copy: %+v", dctx.Kind, draft)
		}
		if utf8.RuneCountInString(draft.Title) > article.MaxTitleLen {
			t.Fatalf("kind %q title exceeds cap", dctx.Kind)
		}
		if utf8.RuneCountInString(draft.Summary) > article.MaxSummaryLen {
			t.Fatalf("kind %q summary exceeds cap", dctx.Kind)
		}
		if utf8.RuneCountInString(draft.Body) > article.MaxBodyLen {
			t.Fatalf("kind %q body exceeds cap", dctx.Kind)
		}
	}
}

func TestNewsroomService_CuratedImageIsStable(t *testing.T) {
	t.Parallel()

	first := curatedImage(article.KindMatchResult, "m1")
	second := curatedImage(article.KindMatchResult, "m1")
	if first == "" || first != second {
		t.Fatalf("curated image must be deterministic: %q vs %q", first, second)
	}
}

func TestNewsroomService_RecentNews(t *testing.T) {
	t.Parallel()

	h := newNewsroomHarness(nil)
	if _, err := h.service.GenerateFromCurrentState(context.Background()); err != nil {
		t.Fatalf("generate error: %v", err)
	}

	items, err := h.service.RecentNews(context.Background(), 0)
	if err != nil {
		t.Fatalf("RecentNews error: %v", err)
	}
	if len(items) == 0 {
		t.Fatalf("expected published articles")
	}
	for _, item := range items {
		if item.ID == "" || item.Title == "" || item.ImageURL == "" {
			t.Fatalf("incomplete article: %+v", item)
		}
	}

	limited, err := h.service.RecentNews(context.Background(), 1)
	if err != nil {
		t.Fatalf("RecentNews error: %v", err)
	}
	if len(limited) != 1 {
		t.Fatalf("expected limit to apply, got %d", len(limited))
	}
}
