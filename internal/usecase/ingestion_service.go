package usecase

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/nfaconnect/matchday/internal/domain/lineup"
	"github.com/nfaconnect/matchday/internal/domain/match"
	"github.com/nfaconnect/matchday/internal/domain/matchevent"
	"github.com/nfaconnect/matchday/internal/platform/id"
	"github.com/nfaconnect/matchday/internal/platform/logging"
)

// LivePublisher fans an event out to currently attached live consumers
// and reports how many received it.
type LivePublisher interface {
	Publish(ctx context.Context, name string, payload any) int
}

// TaskScheduler runs follow-up work detached from the request.
type TaskScheduler interface {
	Go(name string, fn func(ctx context.Context) error)
}

type articleGenerator interface {
	GenerateFromCurrentState(ctx context.Context) (GenerationSummary, error)
}

type LiveUpdatePayload struct {
	Kind        string `json:"kind"`
	Minute      int    `json:"minute"`
	Description string `json:"description"`
	Status      string `json:"status"`
	HomeScore   *int   `json:"homeScore"`
	AwayScore   *int   `json:"awayScore"`
}

type LiveUpdateInput struct {
	MatchID   string
	Signature string
	RawBody   []byte
	Payload   LiveUpdatePayload
}

type LineupPlayerInput struct {
	Name        string `json:"name"`
	Position    string `json:"position"`
	SquadNumber int    `json:"squadNumber"`
}

type LineupUploadInput struct {
	MatchID   string
	Signature string
	RawBody   []byte
	TeamID    string
	Players   []LineupPlayerInput
}

type IngestionServiceConfig struct {
	WebhookSecret     string
	MatchRepo         match.Repository
	EventRepo         matchevent.Repository
	LineupRepo        lineup.Repository
	Standings         *StandingsService
	Newsroom          articleGenerator
	Publisher         LivePublisher
	Tasks             TaskScheduler
	IDGenerator       id.Generator
	Logger            *logging.Logger
	GenerationEnabled bool
}

// IngestionService accepts signed webhook deliveries, records match
// events append-only and triggers the derived work that follows from
// them. Events are never updated or deleted once stored; a correction
// arrives as another event.
type IngestionService struct {
	secret            []byte
	matchRepo         match.Repository
	eventRepo         matchevent.Repository
	lineupRepo        lineup.Repository
	standings         *StandingsService
	newsroom          articleGenerator
	publisher         LivePublisher
	tasks             TaskScheduler
	idGen             id.Generator
	logger            *logging.Logger
	generationEnabled bool
}

func NewIngestionService(cfg IngestionServiceConfig) *IngestionService {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	idGen := cfg.IDGenerator
	if idGen == nil {
		idGen = id.NewRandomGenerator()
	}

	return &IngestionService{
		secret:            []byte(cfg.WebhookSecret),
		matchRepo:         cfg.MatchRepo,
		eventRepo:         cfg.EventRepo,
		lineupRepo:        cfg.LineupRepo,
		standings:         cfg.Standings,
		newsroom:          cfg.Newsroom,
		publisher:         cfg.Publisher,
		tasks:             cfg.Tasks,
		idGen:             idGen,
		logger:            logger,
		generationEnabled: cfg.GenerationEnabled,
	}
}

// verifySignature checks the hex HMAC-SHA256 of the raw body against
// the caller-provided signature. The raw body is used exactly as
// received, before any decoding.
func (s *IngestionService) verifySignature(signature string, rawBody []byte) error {
	signature = strings.ToLower(strings.TrimSpace(signature))
	if signature == "" {
		return fmt.Errorf("%w: missing webhook signature", ErrUnauthorized)
	}
	provided, err := hex.DecodeString(signature)
	if err != nil {
		return fmt.Errorf("%w: malformed webhook signature", ErrUnauthorized)
	}

	mac := hmac.New(sha256.New, s.secret)
	mac.Write(rawBody)
	if !hmac.Equal(provided, mac.Sum(nil)) {
		return fmt.Errorf("%w: webhook signature mismatch", ErrUnauthorized)
	}
	return nil
}

// HandleLiveUpdate verifies the delivery, appends the match event and
// fans it out to live subscribers. A completed status schedules the
// standings and newsroom follow-ups off the request path, settling
// the match result first when a full score is carried.
func (s *IngestionService) HandleLiveUpdate(ctx context.Context, in LiveUpdateInput) (matchevent.Event, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IngestionService.HandleLiveUpdate")
	defer span.End()

	if err := s.verifySignature(in.Signature, in.RawBody); err != nil {
		return matchevent.Event{}, err
	}

	matchID := strings.TrimSpace(in.MatchID)
	if matchID == "" {
		return matchevent.Event{}, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	// Kind is provider-defined and stored as received after
	// normalization; a signed delivery is never rejected over it.
	kind := strings.ToLower(strings.TrimSpace(in.Payload.Kind))
	if kind == "" {
		kind = matchevent.KindGoal
	}
	if in.Payload.Minute < 0 {
		return matchevent.Event{}, fmt.Errorf("%w: minute cannot be negative", ErrInvalidInput)
	}

	description := strings.TrimSpace(in.Payload.Description)
	if description == "" {
		description = strings.TrimSpace(string(in.RawBody))
	}

	eventID, err := s.idGen.NewID()
	if err != nil {
		return matchevent.Event{}, fmt.Errorf("generate event id: %w", err)
	}

	event := matchevent.Event{
		ID:          eventID,
		MatchID:     matchID,
		Kind:        kind,
		Minute:      in.Payload.Minute,
		Description: description,
		ReceivedAt:  time.Now().UTC(),
	}
	if err := s.eventRepo.Append(ctx, event); err != nil {
		return matchevent.Event{}, fmt.Errorf("append match event: %w", err)
	}

	delivered := s.publisher.Publish(ctx, "live-events:update", liveEventBroadcast{
		MatchID:     event.MatchID,
		Kind:        event.Kind,
		Minute:      event.Minute,
		Description: event.Description,
		Status:      strings.ToLower(strings.TrimSpace(in.Payload.Status)),
		HomeScore:   in.Payload.HomeScore,
		AwayScore:   in.Payload.AwayScore,
		ReceivedAt:  event.ReceivedAt,
	})
	s.logger.InfoContext(ctx, "live update ingested",
		"match_id", matchID, "kind", kind, "delivered", delivered)

	s.settleResultIfCompleted(ctx, matchID, in.Payload)

	return event, nil
}

// settleResultIfCompleted applies a final score carried by the update
// and schedules the derived follow-ups. A completed status schedules
// the recompute and generation pass even without a full score; only
// the result settlement itself needs both numbers. An unknown match
// keeps its event but produces no derived work.
func (s *IngestionService) settleResultIfCompleted(ctx context.Context, matchID string, payload LiveUpdatePayload) {
	if !match.IsCompletedStatus(payload.Status) {
		return
	}

	item, exists, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		s.logger.ErrorContext(ctx, "lookup match for settlement", "match_id", matchID, "error", err)
		return
	}
	if !exists {
		s.logger.WarnContext(ctx, "completed update for unknown match", "match_id", matchID)
		return
	}

	if payload.HomeScore != nil && payload.AwayScore != nil {
		if err := s.matchRepo.ApplyResult(ctx, matchID, *payload.HomeScore, *payload.AwayScore, time.Now().UTC()); err != nil {
			s.logger.ErrorContext(ctx, "apply match result", "match_id", matchID, "error", err)
			return
		}
	} else {
		s.logger.WarnContext(ctx, "completed update missing a full score", "match_id", matchID)
	}

	leagueID := item.LeagueID
	s.tasks.Go("standings-recompute", func(taskCtx context.Context) error {
		_, err := s.standings.Recompute(taskCtx, leagueID)
		return err
	})
	s.scheduleGeneration()
}

// HandleLineupUploaded verifies the delivery, stores the submitted
// roster when one is carried and schedules article generation.
func (s *IngestionService) HandleLineupUploaded(ctx context.Context, in LineupUploadInput) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.IngestionService.HandleLineupUploaded")
	defer span.End()

	if err := s.verifySignature(in.Signature, in.RawBody); err != nil {
		return err
	}

	matchID := strings.TrimSpace(in.MatchID)
	if matchID == "" {
		return fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	teamID := strings.TrimSpace(in.TeamID)
	if len(in.Players) > 0 {
		if teamID == "" {
			return fmt.Errorf("%w: team id is required with a player list", ErrInvalidInput)
		}
		submittedAt := time.Now().UTC()
		entries := make([]lineup.Entry, 0, len(in.Players))
		for _, player := range in.Players {
			name := strings.TrimSpace(player.Name)
			if name == "" {
				return fmt.Errorf("%w: player name is required", ErrInvalidInput)
			}
			entries = append(entries, lineup.Entry{
				MatchID:     matchID,
				TeamID:      teamID,
				PlayerName:  name,
				Position:    strings.ToUpper(strings.TrimSpace(player.Position)),
				SquadNumber: player.SquadNumber,
				SubmittedAt: submittedAt,
			})
		}
		if err := s.lineupRepo.ReplaceByMatchTeam(ctx, matchID, teamID, entries); err != nil {
			return fmt.Errorf("replace lineup: %w", err)
		}
	}

	// Lineup uploads do not fan out to live subscribers; the only
	// follow-up is a generation pass.
	s.logger.InfoContext(ctx, "lineup upload ingested",
		"match_id", matchID, "team_id", teamID, "players", len(in.Players))

	s.scheduleGeneration()

	return nil
}

func (s *IngestionService) scheduleGeneration() {
	if !s.generationEnabled {
		return
	}
	s.tasks.Go("newsroom-generate", func(taskCtx context.Context) error {
		_, err := s.newsroom.GenerateFromCurrentState(taskCtx)
		return err
	})
}

// Timeline returns the recorded events for one match in received
// order.
func (s *IngestionService) Timeline(ctx context.Context, matchID string) ([]matchevent.Event, error) {
	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return nil, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	_, exists, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("get match: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
	}

	events, err := s.eventRepo.ListByMatch(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("list match events: %w", err)
	}
	return events, nil
}

type liveEventBroadcast struct {
	MatchID     string    `json:"matchId"`
	Kind        string    `json:"kind"`
	Minute      int       `json:"minute"`
	Description string    `json:"description"`
	Status      string    `json:"status,omitempty"`
	HomeScore   *int      `json:"homeScore,omitempty"`
	AwayScore   *int      `json:"awayScore,omitempty"`
	ReceivedAt  time.Time `json:"receivedAt"`
}
