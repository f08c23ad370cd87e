package httpapi

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/nfaconnect/matchday/internal/usecase"
)

// Webhook bodies are signed in full, so the raw bytes must be kept for
// signature verification before any decoding happens.
const maxWebhookBodyBytes = 1 << 20

func (h *Handler) IngestLiveUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.IngestLiveUpdate")
	defer span.End()

	matchID := strings.TrimSpace(r.PathValue("matchID"))
	rawBody, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBodyBytes))
	if err != nil {
		h.logger.WarnContext(ctx, "read live update body failed", "match_id", matchID, "error", err)
		writeError(ctx, w, fmt.Errorf("%w: unable to read request body", usecase.ErrInvalidInput))
		return
	}

	var req liveUpdateRequest
	if len(rawBody) > 0 {
		if err := sonic.Unmarshal(rawBody, &req); err != nil {
			writeError(ctx, w, fmt.Errorf("%w: invalid JSON body: %v", usecase.ErrInvalidInput, err))
			return
		}
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	event, err := h.ingestionService.HandleLiveUpdate(ctx, usecase.LiveUpdateInput{
		MatchID:   matchID,
		Signature: r.Header.Get("X-Webhook-Signature"),
		RawBody:   rawBody,
		Payload: usecase.LiveUpdatePayload{
			Kind:        req.Kind,
			Minute:      req.Minute,
			Description: req.Description,
			Status:      req.Status,
			HomeScore:   req.HomeScore,
			AwayScore:   req.AwayScore,
		},
	})
	if err != nil {
		h.logger.WarnContext(ctx, "live update rejected", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, matchEventToDTO(event))
}

func (h *Handler) IngestLineupUploaded(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.IngestLineupUploaded")
	defer span.End()

	matchID := strings.TrimSpace(r.PathValue("matchID"))
	rawBody, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBodyBytes))
	if err != nil {
		h.logger.WarnContext(ctx, "read lineup body failed", "match_id", matchID, "error", err)
		writeError(ctx, w, fmt.Errorf("%w: unable to read request body", usecase.ErrInvalidInput))
		return
	}

	var req lineupUploadedRequest
	if len(rawBody) > 0 {
		if err := sonic.Unmarshal(rawBody, &req); err != nil {
			writeError(ctx, w, fmt.Errorf("%w: invalid JSON body: %v", usecase.ErrInvalidInput, err))
			return
		}
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	players := make([]usecase.LineupPlayerInput, 0, len(req.Players))
	for _, player := range req.Players {
		players = append(players, usecase.LineupPlayerInput{
			Name:        player.Name,
			Position:    player.Position,
			SquadNumber: player.SquadNumber,
		})
	}

	if err := h.ingestionService.HandleLineupUploaded(ctx, usecase.LineupUploadInput{
		MatchID:   matchID,
		Signature: r.Header.Get("X-Webhook-Signature"),
		RawBody:   rawBody,
		TeamID:    req.TeamID,
		Players:   players,
	}); err != nil {
		h.logger.WarnContext(ctx, "lineup upload rejected", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "accepted"})
}
