package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/nfaconnect/matchday/internal/usecase"
)

func (h *Handler) ListNews(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListNews")
	defer span.End()

	limit := 0
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			writeError(ctx, w, fmt.Errorf("%w: limit must be a positive integer", usecase.ErrInvalidInput))
			return
		}
		limit = parsed
	}

	articles, err := h.newsroomService.RecentNews(ctx, limit)
	if err != nil {
		h.logger.WarnContext(ctx, "list news failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]articleDTO, 0, len(articles))
	for _, item := range articles {
		items = append(items, articleToDTO(item))
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]any{"articles": items})
}

// RunNewsGeneration triggers one generation pass on demand. Concurrent
// triggers coalesce into a single run.
func (h *Handler) RunNewsGeneration(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunNewsGeneration")
	defer span.End()

	summary, err := h.newsroomService.GenerateFromCurrentState(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "news generation run failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, generationSummaryDTO{
		Generated: summary.Generated,
		Skipped:   summary.Skipped,
		Titles:    summary.Titles,
	})
}
