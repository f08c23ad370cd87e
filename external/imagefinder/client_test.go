package imagefinder

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/nfaconnect/matchday/internal/platform/logging"
	"github.com/nfaconnect/matchday/internal/platform/resilience"
)

func TestClient_FindImage(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/search" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("query"); got != "Black Africa FC Tura Magic" {
			t.Errorf("unexpected query: %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"url":"https://cdn.example.com/derby.jpg"}`))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{BaseURL: server.URL, Logger: logging.NewNop()})

	got, err := client.FindImage(context.Background(), "Black Africa FC Tura Magic")
	if err != nil {
		t.Fatalf("FindImage error: %v", err)
	}
	if got != "https://cdn.example.com/derby.jpg" {
		t.Fatalf("unexpected image url: %q", got)
	}
}

func TestClient_FindImage_EmptyQueryAndEmptyResult(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"url":""}`))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{BaseURL: server.URL, Logger: logging.NewNop()})

	if _, err := client.FindImage(context.Background(), "   "); err == nil {
		t.Fatalf("expected error for empty query")
	}
	if _, err := client.FindImage(context.Background(), "stadium"); err == nil {
		t.Fatalf("expected error for empty url in response")
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
		Logger:  logging.NewNop(),
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 2,
			OpenTimeout:      time.Minute,
			HalfOpenMaxReq:   1,
		},
	})

	for i := 0; i < 2; i++ {
		if _, err := client.FindImage(context.Background(), "stadium"); err == nil {
			t.Fatalf("expected error on attempt %d", i+1)
		}
	}
	if state := client.breaker.State(); state != resilience.CircuitStateOpen {
		t.Fatalf("expected open breaker, got %q", state)
	}
}
