package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerPublicRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/live/events", handler.StreamLiveEvents)
	mux.HandleFunc("GET /v1/leagues/{leagueID}/standings", handler.ListLeagueStandings)
	mux.HandleFunc("GET /v1/matches/{matchID}/events", handler.ListMatchEvents)
	mux.HandleFunc("GET /v1/news", handler.ListNews)
}

func registerWebhookRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("POST /v1/webhooks/matches/{matchID}/live-update", handler.IngestLiveUpdate)
	mux.HandleFunc("POST /v1/webhooks/matches/{matchID}/lineup-uploaded", handler.IngestLineupUploaded)
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/news/generate", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunNewsGeneration)))
}
