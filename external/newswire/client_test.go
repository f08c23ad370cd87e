package newswire

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/nfaconnect/matchday/internal/platform/logging"
	"github.com/nfaconnect/matchday/internal/platform/resilience"
	"github.com/nfaconnect/matchday/internal/usecase"
)

func TestClient_ComposeDraft(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/drafts" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer token-123" {
			t.Errorf("unexpected authorization header: %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"title":"Derby day drama","summary":"A late winner.","body":"The capital derby went the distance."}`))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{
		BaseURL: server.URL,
		Token:   "token-123",
		Logger:  logging.NewNop(),
	})

	draft, err := client.ComposeDraft(context.Background(), usecase.DraftContext{
		Kind:     "match_result",
		HomeTeam: "Black Africa FC",
		AwayTeam: "Tura Magic",
	})
	if err != nil {
		t.Fatalf("ComposeDraft error: %v", err)
	}
	if draft.Title != "Derby day drama" || draft.Body == "" {
		t.Fatalf("unexpected draft: %+v", draft)
	}
}

func TestClient_ComposeDraft_ServerError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "upstream model overloaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(ClientConfig{
		BaseURL: server.URL,
		Token:   "token-123",
		Logger:  logging.NewNop(),
	})

	if _, err := client.ComposeDraft(context.Background(), usecase.DraftContext{Kind: "match_result"}); err == nil {
		t.Fatalf("expected error for 503 response")
	}
}

func TestClient_CircuitOpensAfterRepeatedFailures(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(ClientConfig{
		BaseURL: server.URL,
		Token:   "token-123",
		Logger:  logging.NewNop(),
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 2,
			OpenTimeout:      time.Minute,
			HalfOpenMaxReq:   1,
		},
	})

	for i := 0; i < 2; i++ {
		if _, err := client.ComposeDraft(context.Background(), usecase.DraftContext{Kind: "match_result"}); err == nil {
			t.Fatalf("expected error on attempt %d", i+1)
		}
	}

	_, err := client.ComposeDraft(context.Background(), usecase.DraftContext{Kind: "match_result"})
	if err == nil {
		t.Fatalf("expected circuit rejection")
	}
	if state := client.breaker.State(); state != "open" {
		t.Fatalf("expected open breaker, got %q", state)
	}
}
