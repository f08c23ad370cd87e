package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/nfaconnect/matchday/internal/usecase"
)

const liveStreamHeartbeat = 15 * time.Second

// StreamLiveEvents attaches the caller to the live feed as a
// server-sent events stream. The stream stays open until the client
// disconnects; slow readers lose events instead of blocking ingestion.
func (h *Handler) StreamLiveEvents(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.StreamLiveEvents")
	defer span.End()

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: streaming is not supported by this connection", usecase.ErrDependencyUnavailable))
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, ": connected\n\n")
	flusher.Flush()

	sub := h.hub.Subscribe()
	defer h.hub.Unsubscribe(sub)

	heartbeat := time.NewTicker(liveStreamHeartbeat)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-heartbeat.C:
			fmt.Fprint(w, ": ping\n\n")
			flusher.Flush()
		case event, ok := <-sub.C:
			if !ok {
				return
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Name, event.Data)
			flusher.Flush()
		}
	}
}
