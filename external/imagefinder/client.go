package imagefinder

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/nfaconnect/matchday/internal/platform/logging"
	"github.com/nfaconnect/matchday/internal/platform/resilience"
	"github.com/valyala/fasthttp"
)

var errImageFinderTransient = crerr.New("image finder transient failure")

type ClientConfig struct {
	BaseURL        string
	Timeout        time.Duration
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client looks up an illustration for an article. Lookups sit on the
// generation path, so the timeout stays short and any failure simply
// yields the curated fallback upstream.
type Client struct {
	httpClient     *fasthttp.Client
	baseURL        string
	timeout        time.Duration
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
		timeout = 5 * time.Second
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     &fasthttp.Client{},
		baseURL:        strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		timeout:        timeout,
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

type searchResponse struct {
	URL string `json:"url"`
}

// FindImage returns the image URL the service picked for the query.
func (c *Client) FindImage(ctx context.Context, query string) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", crerr.New("image query is required")
	}

	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "image finder circuit breaker rejected request", "state", c.breaker.State())
			return "", fmt.Errorf("image finder is temporarily unavailable: %w", err)
		}
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.baseURL + "/v1/search?query=" + url.QueryEscape(query))
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")

	if err := c.httpClient.DoTimeout(req, resp, c.timeout); err != nil {
		callErr := fmt.Errorf("%w: search image query=%q: %v", errImageFinderTransient, query, err)
		c.recordCircuitResult(callErr)
		return "", callErr
	}

	statusCode := resp.StatusCode()
	if statusCode/100 != 2 {
		if isRetryableStatus(statusCode) {
			callErr := fmt.Errorf("%w: search image query=%q status=%d", errImageFinderTransient, query, statusCode)
			c.recordCircuitResult(callErr)
			return "", callErr
		}
		callErr := fmt.Errorf("search image query=%q status=%d", query, statusCode)
		c.recordCircuitResult(callErr)
		return "", callErr
	}

	var decoded searchResponse
	if err := sonic.Unmarshal(resp.Body(), &decoded); err != nil {
		c.recordCircuitResult(nil)
		return "", crerr.Wrap(err, "decode image search response")
	}
	c.recordCircuitResult(nil)

	imageURL := strings.TrimSpace(decoded.URL)
	if imageURL == "" {
		return "", crerr.New("image search returned no url")
	}
	return imageURL, nil
}

func (c *Client) recordCircuitResult(err error) {
	if !c.circuitEnabled || c.breaker == nil {
		return
	}
	if err == nil {
		c.breaker.RecordSuccess()
		return
	}
	if stderrors.Is(err, errImageFinderTransient) {
		c.breaker.RecordFailure()
		return
	}
	c.breaker.RecordSuccess()
}

func isRetryableStatus(statusCode int) bool {
	return statusCode == fasthttp.StatusRequestTimeout ||
		statusCode == fasthttp.StatusTooManyRequests ||
		statusCode >= fasthttp.StatusInternalServerError
}
