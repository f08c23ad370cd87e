package httpapi

import "net/http"

// ListLeagueStandings recomputes the table for the requested league from
// stored results before returning it, so the response never serves a
// stale snapshot.
func (h *Handler) ListLeagueStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListLeagueStandings")
	defer span.End()

	leagueID := r.PathValue("leagueID")
	rows, err := h.standingsService.Standings(ctx, leagueID)
	if err != nil {
		h.logger.WarnContext(ctx, "list standings failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	table := make([]standingsRowDTO, 0, len(rows))
	for i, row := range rows {
		table = append(table, standingsRowToDTO(i+1, row))
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]any{
		"leagueId": leagueID,
		"table":    table,
	})
}

func (h *Handler) ListMatchEvents(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMatchEvents")
	defer span.End()

	matchID := r.PathValue("matchID")
	events, err := h.ingestionService.Timeline(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "list match events failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	timeline := make([]matchEventDTO, 0, len(events))
	for _, event := range events {
		timeline = append(timeline, matchEventToDTO(event))
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]any{
		"matchId": matchID,
		"events":  timeline,
	})
}
