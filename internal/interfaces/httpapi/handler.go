package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/nfaconnect/matchday/internal/domain/article"
	"github.com/nfaconnect/matchday/internal/domain/matchevent"
	"github.com/nfaconnect/matchday/internal/domain/standings"
	"github.com/nfaconnect/matchday/internal/livefeed"
	"github.com/nfaconnect/matchday/internal/platform/logging"
	"github.com/nfaconnect/matchday/internal/usecase"
)

type Handler struct {
	ingestionService *usecase.IngestionService
	standingsService *usecase.StandingsService
	newsroomService  *usecase.NewsroomService
	hub              *livefeed.Hub
	logger           *logging.Logger
	validator        *validator.Validate
}

func NewHandler(
	ingestionService *usecase.IngestionService,
	standingsService *usecase.StandingsService,
	newsroomService *usecase.NewsroomService,
	hub *livefeed.Hub,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		ingestionService: ingestionService,
		standingsService: standingsService,
		newsroomService:  newsroomService,
		hub:              hub,
		logger:           logger,
		validator:        validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

type liveUpdateRequest struct {
	Kind        string `json:"kind" validate:"omitempty,max=40"`
	Minute      int    `json:"minute" validate:"gte=0,lte=150"`
	Description string `json:"description" validate:"omitempty,max=500"`
	Status      string `json:"status" validate:"omitempty,max=40"`
	HomeScore   *int   `json:"homeScore" validate:"omitempty,gte=0"`
	AwayScore   *int   `json:"awayScore" validate:"omitempty,gte=0"`
}

type lineupUploadedRequest struct {
	TeamID  string                `json:"teamId" validate:"omitempty,max=80"`
	Players []lineupPlayerRequest `json:"players" validate:"omitempty,max=30,dive"`
}

type lineupPlayerRequest struct {
	Name        string `json:"name" validate:"required,max=120"`
	Position    string `json:"position" validate:"omitempty,max=10"`
	SquadNumber int    `json:"squadNumber" validate:"gte=0,lte=99"`
}

type matchEventDTO struct {
	ID          string `json:"id"`
	MatchID     string `json:"matchId"`
	Kind        string `json:"kind"`
	Minute      int    `json:"minute"`
	Description string `json:"description"`
	ReceivedAt  string `json:"receivedAt"`
}

type standingsRowDTO struct {
	LeagueID       string `json:"leagueId"`
	TeamID         string `json:"teamId"`
	TeamName       string `json:"teamName"`
	Position       int    `json:"position"`
	Played         int    `json:"played"`
	Won            int    `json:"won"`
	Drawn          int    `json:"drawn"`
	Lost           int    `json:"lost"`
	GoalsFor       int    `json:"goalsFor"`
	GoalsAgainst   int    `json:"goalsAgainst"`
	GoalDifference int    `json:"goalDifference"`
	Points         int    `json:"points"`
}

type articleDTO struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Summary    string `json:"summary"`
	Body       string `json:"body"`
	ImageURL   string `json:"imageUrl"`
	SourceKind string `json:"sourceKind"`
	CreatedAt  string `json:"createdAt"`
}

type generationSummaryDTO struct {
	Generated int      `json:"generated"`
	Skipped   int      `json:"skipped"`
	Titles    []string `json:"titles,omitempty"`
}

func matchEventToDTO(event matchevent.Event) matchEventDTO {
	return matchEventDTO{
		ID:          event.ID,
		MatchID:     event.MatchID,
		Kind:        event.Kind,
		Minute:      event.Minute,
		Description: event.Description,
		ReceivedAt:  event.ReceivedAt.UTC().Format(time.RFC3339),
	}
}

func standingsRowToDTO(position int, row standings.Row) standingsRowDTO {
	return standingsRowDTO{
		LeagueID:       row.LeagueID,
		TeamID:         row.TeamID,
		TeamName:       row.TeamName,
		Position:       position,
		Played:         row.Played,
		Won:            row.Won,
		Drawn:          row.Drawn,
		Lost:           row.Lost,
		GoalsFor:       row.GoalsFor,
		GoalsAgainst:   row.GoalsAgainst,
		GoalDifference: row.GoalDifference,
		Points:         row.Points,
	}
}

func articleToDTO(item article.Article) articleDTO {
	return articleDTO{
		ID:         item.ID,
		Title:      item.Title,
		Summary:    item.Summary,
		Body:       item.Body,
		ImageURL:   item.ImageURL,
		SourceKind: item.SourceKind,
		CreatedAt:  item.CreatedAt.UTC().Format(time.RFC3339),
	}
}
