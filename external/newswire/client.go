package newswire

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/nfaconnect/matchday/internal/platform/logging"
	"github.com/nfaconnect/matchday/internal/platform/resilience"
	"github.com/nfaconnect/matchday/internal/usecase"
)

var errNewswireTransient = crerr.New("newswire transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Token          string
	Timeout        time.Duration
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client asks the hosted drafting service to compose article copy.
// Callers treat any error as a signal to fall back to local templates,
// so the client never retries on its own.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	token          string
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		token:          strings.TrimSpace(cfg.Token),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

type draftRequest struct {
	Kind       string          `json:"kind"`
	LeagueName string          `json:"leagueName,omitempty"`
	HomeTeam   string          `json:"homeTeam,omitempty"`
	AwayTeam   string          `json:"awayTeam,omitempty"`
	HomeScore  int             `json:"homeScore"`
	AwayScore  int             `json:"awayScore"`
	KickoffAt  *time.Time      `json:"kickoffAt,omitempty"`
	Venue      string          `json:"venue,omitempty"`
	TeamName   string          `json:"teamName,omitempty"`
	Players    int             `json:"players,omitempty"`
	Roster     []string        `json:"roster,omitempty"`
	Leaders    []leaderPayload `json:"leaders,omitempty"`
}

type leaderPayload struct {
	TeamName       string `json:"teamName"`
	Played         int    `json:"played"`
	GoalDifference int    `json:"goalDifference"`
	Points         int    `json:"points"`
}

type draftResponse struct {
	Title   string `json:"title"`
	Summary string `json:"summary"`
	Body    string `json:"body"`
}

// ComposeDraft submits the draft context and returns the composed
// copy.
func (c *Client) ComposeDraft(ctx context.Context, dctx usecase.DraftContext) (usecase.ArticleDraft, error) {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "newswire circuit breaker rejected request", "state", c.breaker.State())
			return usecase.ArticleDraft{}, fmt.Errorf("%w: newswire is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	payload := draftRequest{
		Kind:       dctx.Kind,
		LeagueName: dctx.LeagueName,
		HomeTeam:   dctx.HomeTeam,
		AwayTeam:   dctx.AwayTeam,
		HomeScore:  dctx.HomeScore,
		AwayScore:  dctx.AwayScore,
		Venue:      dctx.Venue,
		TeamName:   dctx.TeamName,
		Players:    dctx.Players,
	}
	if !dctx.KickoffAt.IsZero() {
		kickoff := dctx.KickoffAt
		payload.KickoffAt = &kickoff
	}
	payload.Roster = append(payload.Roster, dctx.Roster...)
	for _, line := range dctx.Leaders {
		payload.Leaders = append(payload.Leaders, leaderPayload(line))
	}

	body, err := sonic.Marshal(payload)
	if err != nil {
		return usecase.ArticleDraft{}, crerr.Wrap(err, "marshal draft request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/drafts", bytes.NewReader(body))
	if err != nil {
		return usecase.ArticleDraft{}, crerr.Wrap(err, "create newswire request")
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		callErr := fmt.Errorf("%w: compose draft kind=%s: %v", errNewswireTransient, dctx.Kind, err)
		c.recordCircuitResult(callErr)
		return usecase.ArticleDraft{}, callErr
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode/100 != 2 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if isRetryableStatus(resp.StatusCode) {
			callErr := fmt.Errorf("%w: compose draft kind=%s status=%d body=%s",
				errNewswireTransient, dctx.Kind, resp.StatusCode, strings.TrimSpace(string(raw)))
			c.recordCircuitResult(callErr)
			return usecase.ArticleDraft{}, callErr
		}
		callErr := fmt.Errorf("compose draft kind=%s status=%d body=%s",
			dctx.Kind, resp.StatusCode, strings.TrimSpace(string(raw)))
		c.recordCircuitResult(callErr)
		return usecase.ArticleDraft{}, callErr
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		callErr := fmt.Errorf("%w: read draft response: %v", errNewswireTransient, err)
		c.recordCircuitResult(callErr)
		return usecase.ArticleDraft{}, callErr
	}

	var decoded draftResponse
	if err := sonic.Unmarshal(raw, &decoded); err != nil {
		c.recordCircuitResult(nil)
		return usecase.ArticleDraft{}, crerr.Wrap(err, "decode draft response")
	}
	c.recordCircuitResult(nil)

	return usecase.ArticleDraft{
		Title:   strings.TrimSpace(decoded.Title),
		Summary: strings.TrimSpace(decoded.Summary),
		Body:    strings.TrimSpace(decoded.Body),
	}, nil
}

func (c *Client) recordCircuitResult(err error) {
	if !c.circuitEnabled || c.breaker == nil {
		return
	}
	if err == nil {
		c.breaker.RecordSuccess()
		return
	}
	if stderrors.Is(err, errNewswireTransient) {
		c.breaker.RecordFailure()
		return
	}
	c.breaker.RecordSuccess()
}

func isRetryableStatus(statusCode int) bool {
	return statusCode == http.StatusRequestTimeout ||
		statusCode == http.StatusTooManyRequests ||
		statusCode >= http.StatusInternalServerError
}
