package apifootball

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/matchday/internal/platform/locale"
	"github.com/riskibarqy/matchday/internal/platform/logging"
	"github.com/riskibarqy/matchday/internal/platform/metrics"
	"github.com/riskibarqy/matchday/internal/platform/resilience"
	"github.com/riskibarqy/matchday/internal/usecase"
	"github.com/tidwall/gjson"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL       = "https://v3.football.api-sports.io"
	defaultTimeout       = 10 * time.Second
	defaultTimezone      = "Asia/Tokyo"
	defaultRatePerMinute = 10
	maxBodyBytes         = 6 << 20
)

// ResultKind tags the outcome of one provider call.
type ResultKind int

const (
	ResultSuccess ResultKind = iota + 1
	// ResultProviderError is an HTTP 200 whose body carries a non-empty
	// "errors" field.
	ResultProviderError
	// ResultTransportFailure covers network errors, timeouts, non-2xx
	// replies and requests refused by the local limiter or breaker.
	ResultTransportFailure
)

func (k ResultKind) String() string {
	switch k {
	case ResultSuccess:
		return "success"
	case ResultProviderError:
		return "provider_error"
	case ResultTransportFailure:
		return "transport_failure"
	default:
		return "unknown"
	}
}

// Result is the classified reply of Call. Exactly one of Body, Provider or
// Cause is meaningful, depending on Kind.
type Result struct {
	Kind       ResultKind
	StatusCode int
	Body       []byte
	Provider   *usecase.ProviderError
	Cause      error
}

// Err maps the result onto the usecase error taxonomy.
func (r Result) Err() error {
	switch r.Kind {
	case ResultSuccess:
		return nil
	case ResultProviderError:
		return r.Provider
	default:
		if r.Cause == nil {
			return usecase.ErrTransportFailure
		}
		return r.Cause
	}
}

// ErrorRecorder receives every provider error, e.g. to drive a quota banner.
type ErrorRecorder interface {
	RecordProviderError(ctx context.Context, err *usecase.ProviderError)
}

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	APIKey         string
	Timeout        time.Duration
	Timezone       string
	RatePerMinute  int
	Logger         *logging.Logger
	Metrics        *metrics.Collectors
	CircuitBreaker resilience.CircuitBreakerConfig
	ErrorRecorder  ErrorRecorder
	Catalog        *locale.Catalog
	Now            func() time.Time
}

type reply struct {
	status int
	body   []byte
}

type Client struct {
	httpClient     *http.Client
	baseURL        string
	host           string
	apiKey         string
	timeout        time.Duration
	timezone       string
	limiter        *rate.Limiter
	logger         *logging.Logger
	metrics        *metrics.Collectors
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	recorder       ErrorRecorder
	catalog        *locale.Catalog
	now            func() time.Time
	flight         resilience.SingleFlight[reply]
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	host := ""
	if parsed, err := url.Parse(baseURL); err == nil {
		host = parsed.Host
	}

	timezone := strings.TrimSpace(cfg.Timezone)
	if timezone == "" {
		timezone = defaultTimezone
	}

	perMinute := cfg.RatePerMinute
	if perMinute == 0 {
		perMinute = defaultRatePerMinute
	}
	limiter := rate.NewLimiter(rate.Inf, 0)
	if perMinute > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute)
	}

	catalog := cfg.Catalog
	if catalog == nil {
		catalog = locale.DefaultCatalog()
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)
	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		host:           host,
		apiKey:         strings.TrimSpace(cfg.APIKey),
		timeout:        timeout,
		timezone:       timezone,
		limiter:        limiter,
		logger:         logger.Named("apifootball"),
		metrics:        cfg.Metrics,
		breaker:        resilience.NewCircuitBreaker(breakerCfg),
		circuitEnabled: breakerCfg.Enabled,
		recorder:       cfg.ErrorRecorder,
		catalog:        catalog,
		now:            now,
	}
}

// Call performs one GET against endpoint and classifies the reply. It never
// retries; identical concurrent calls share one request.
func (c *Client) Call(ctx context.Context, endpoint string, params url.Values) Result {
	result := c.call(ctx, endpoint, params)
	c.metrics.ProviderCall(endpoint, result.Kind.String())

	switch result.Kind {
	case ResultProviderError:
		c.logger.WarnContext(ctx, "provider returned error payload",
			"endpoint", endpoint,
			"details", result.Provider.Summary(),
		)
		if c.recorder != nil {
			c.recorder.RecordProviderError(ctx, result.Provider)
		}
	case ResultTransportFailure:
		c.logger.WarnContext(ctx, "provider request failed",
			"endpoint", endpoint,
			"status", result.StatusCode,
			"error", result.Cause,
		)
	}
	return result
}

func (c *Client) call(ctx context.Context, endpoint string, params url.Values) Result {
	if err := ctx.Err(); err != nil {
		return canceled(err)
	}
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			return transportFailure(0, fmt.Errorf("%w: %w: sport data provider is temporarily unavailable", usecase.ErrTransportFailure, usecase.ErrDependencyUnavailable))
		}
	}

	fullURL := c.baseURL + "/" + strings.TrimLeft(endpoint, "/")
	if encoded := params.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	// The shared request must not inherit one caller's cancellation; the
	// client timeout bounds it and each caller stops waiting on its own ctx.
	sharedCtx := context.WithoutCancel(ctx)
	flight := c.flight.DoChan(fullURL, func() (reply, error) {
		rep, reqErr := c.execute(sharedCtx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return rep, reqErr
	})

	var res resilience.Result[reply]
	select {
	case <-ctx.Done():
		return canceled(ctx.Err())
	case res = <-flight:
	}
	rep := res.Val
	if res.Err != nil {
		return transportFailure(rep.status, res.Err)
	}

	if details, ok := providerErrors(rep.body); ok {
		return Result{
			Kind:       ResultProviderError,
			StatusCode: rep.status,
			Provider: &usecase.ProviderError{
				Endpoint:   endpoint,
				Details:    details,
				OccurredAt: c.now(),
			},
		}
	}
	return Result{Kind: ResultSuccess, StatusCode: rep.status, Body: rep.body}
}

func (c *Client) execute(ctx context.Context, fullURL string) (reply, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return reply{}, fmt.Errorf("%w: rate limiter: %v", usecase.ErrTransportFailure, err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return reply{}, crerr.Wrap(err, "build request")
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("x-apisports-key", c.apiKey)
	req.Header.Set("x-rapidapi-key", c.apiKey)
	if c.host != "" {
		req.Header.Set("x-rapidapi-host", c.host)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return reply{}, fmt.Errorf("%w: send request: %s", usecase.ErrTransportFailure, c.sanitize(err.Error()))
	}
	defer resp.Body.Close()

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	if _, err := buf.ReadFrom(io.LimitReader(resp.Body, maxBodyBytes)); err != nil {
		return reply{status: resp.StatusCode}, fmt.Errorf("%w: read response body: %v", usecase.ErrTransportFailure, err)
	}
	body := make([]byte, buf.Len())
	copy(body, buf.B)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return reply{status: resp.StatusCode}, fmt.Errorf("%w: provider status=%d body=%s", usecase.ErrTransportFailure, resp.StatusCode, abbreviateBody(body))
	}
	return reply{status: resp.StatusCode, body: body}, nil
}

func (c *Client) sanitize(value string) string {
	if c.apiKey == "" {
		return value
	}
	return strings.ReplaceAll(value, c.apiKey, "REDACTED")
}

func canceled(cause error) Result {
	return transportFailure(0, fmt.Errorf("%w: %w", usecase.ErrTransportFailure, cause))
}

func transportFailure(status int, cause error) Result {
	return Result{Kind: ResultTransportFailure, StatusCode: status, Cause: cause}
}

// providerErrors reads the "errors" field, which the provider sends as an
// empty array on success and as an object (or non-empty array) on failure.
func providerErrors(body []byte) (map[string]string, bool) {
	field := gjson.GetBytes(body, "errors")
	if !field.Exists() {
		return nil, false
	}

	details := make(map[string]string)
	switch {
	case field.IsObject():
		field.ForEach(func(key, value gjson.Result) bool {
			details[key.String()] = value.String()
			return true
		})
	case field.IsArray():
		for i, value := range field.Array() {
			details[fmt.Sprintf("error%d", i)] = value.String()
		}
	default:
		if text := strings.TrimSpace(field.String()); text != "" {
			details["error"] = text
		}
	}
	return details, len(details) > 0
}

func abbreviateBody(body []byte) string {
	const limit = 256
	text := strings.TrimSpace(string(body))
	if len(text) <= limit {
		return text
	}
	return text[:limit] + "..."
}
