// Package transport contains the retrying HTTP client and the request
// executor that talks to the Integra Contador gateway.
package transport

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	glog "github.com/goliatone/go-logger/glog"

	"github.com/goliatone/go-integra/core"
)

const (
	defaultClientTimeout           = 30 * time.Second
	defaultMaxRetries              = 3
	defaultBackoffBase             = time.Second
	defaultResponseBodyLimit int64 = 10 << 20 // 10 MiB
)

type Request struct {
	Method  string
	URL     string
	Headers map[string]string
	Body    []byte
	Timeout time.Duration
}

type Response struct {
	StatusCode int
	Headers    map[string]string
	Body       []byte
}

type RetryingClientConfig struct {
	// Client defaults to an *http.Client with a 30s timeout.
	Client core.HTTPDoer

	// MaxRetries bounds retries after the first attempt; total attempts
	// are MaxRetries+1. Zero means the default of 3; negative disables
	// retries.
	MaxRetries int

	// BackoffBase is the first retry delay; it doubles per attempt.
	BackoffBase time.Duration

	// Scheduler overrides the exponential schedule derived from
	// BackoffBase.
	Scheduler core.BackoffScheduler

	MaxResponseBodyBytes int64
	Logger               core.Logger
}

// RetryingClient retries transport failures only: requests that never
// produced an HTTP response. Any response, even a 5xx, is returned to
// the caller untouched.
type RetryingClient struct {
	client     core.HTTPDoer
	maxRetries int
	scheduler  core.BackoffScheduler
	bodyLimit  int64
	logger     core.Logger
}

func NewRetryingClient(cfg RetryingClientConfig) *RetryingClient {
	client := cfg.Client
	if client == nil {
		client = &http.Client{Timeout: defaultClientTimeout}
	}
	maxRetries := cfg.MaxRetries
	if maxRetries == 0 {
		maxRetries = defaultMaxRetries
	}
	if maxRetries < 0 {
		maxRetries = 0
	}
	scheduler := cfg.Scheduler
	if scheduler == nil {
		base := cfg.BackoffBase
		if base <= 0 {
			base = defaultBackoffBase
		}
		scheduler = core.ExponentialBackoffScheduler{Initial: base}
	}
	bodyLimit := cfg.MaxResponseBodyBytes
	if bodyLimit <= 0 {
		bodyLimit = defaultResponseBodyLimit
	}
	return &RetryingClient{
		client:     client,
		maxRetries: maxRetries,
		scheduler:  scheduler,
		bodyLimit:  bodyLimit,
		logger:     glog.Ensure(cfg.Logger),
	}
}

func (c *RetryingClient) Do(ctx context.Context, req Request) (Response, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	method := strings.TrimSpace(strings.ToUpper(req.Method))
	if method == "" {
		method = http.MethodPost
	}
	parsedURL, err := url.Parse(strings.TrimSpace(req.URL))
	if err != nil || parsedURL.String() == "" {
		return Response{}, &core.ConfigurationError{Field: "url", Message: "invalid request url: " + req.URL}
	}

	var lastErr error
	for attempt := 0; ; attempt++ {
		response, err := c.doOnce(ctx, method, parsedURL.String(), req)
		if err == nil {
			return response, nil
		}
		lastErr = err

		var transportErr *core.TransportError
		if !errors.As(err, &transportErr) {
			return Response{}, err
		}
		if attempt >= c.maxRetries {
			break
		}
		delay := c.scheduler.NextDelay(attempt + 1)
		c.logger.Warn("transport failure, retrying",
			"attempt", attempt+1,
			"max_retries", c.maxRetries,
			"delay", delay.String(),
			"error", err,
		)
		if waitErr := core.WaitWithContext(ctx, delay); waitErr != nil {
			return Response{}, &core.TransportError{Op: method, URL: parsedURL.String(), Cause: waitErr}
		}
	}
	return Response{}, lastErr
}

func (c *RetryingClient) doOnce(ctx context.Context, method, targetURL string, req Request) (Response, error) {
	requestCtx := ctx
	cancel := func() {}
	if req.Timeout > 0 {
		requestCtx, cancel = context.WithTimeout(ctx, req.Timeout)
	}
	defer cancel()

	httpReq, err := http.NewRequestWithContext(requestCtx, method, targetURL, bytes.NewReader(req.Body))
	if err != nil {
		return Response{}, &core.ConfigurationError{Field: "request", Message: err.Error()}
	}
	for key, value := range req.Headers {
		if strings.TrimSpace(key) == "" {
			continue
		}
		httpReq.Header.Set(strings.TrimSpace(key), value)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return Response{}, &core.TransportError{Op: method, URL: targetURL, Cause: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.bodyLimit))
	if err != nil {
		return Response{}, &core.TransportError{Op: method, URL: targetURL, Cause: err}
	}

	headers := make(map[string]string, len(resp.Header))
	for key := range resp.Header {
		headers[key] = resp.Header.Get(key)
	}
	return Response{
		StatusCode: resp.StatusCode,
		Headers:    headers,
		Body:       body,
	}, nil
}
