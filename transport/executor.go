package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	glog "github.com/goliatone/go-logger/glog"
	"github.com/google/uuid"

	"github.com/goliatone/go-integra/core"
)

type ExecutorConfig struct {
	// BaseURL is the gateway root; endpoints resolve as
	// <BaseURL>/v1/<endpoint>.
	BaseURL     string
	Environment core.Environment

	// Exactly one of TokenSource and StaticToken must be set.
	TokenSource core.TokenSource
	StaticToken string

	// Client defaults to a RetryingClient with default retry policy.
	Client *RetryingClient

	Timeout time.Duration
	Logger  core.Logger
	Metrics core.MetricsRecorder

	// NewRequestID overrides correlation id generation in tests.
	NewRequestID func() string
}

// Executor issues authenticated requests against the gateway and maps
// responses to the SDK error taxonomy.
type Executor struct {
	baseURL      string
	environment  core.Environment
	tokenSource  core.TokenSource
	staticToken  string
	client       *RetryingClient
	timeout      time.Duration
	logger       core.Logger
	observer     core.Observer
	newRequestID func() string
}

func NewExecutor(cfg ExecutorConfig) (*Executor, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, &core.ConfigurationError{Field: "base_url", Message: "base url is required"}
	}
	hasSource := cfg.TokenSource != nil
	hasStatic := strings.TrimSpace(cfg.StaticToken) != ""
	if hasSource == hasStatic {
		return nil, &core.ConfigurationError{
			Field:   "token",
			Message: "exactly one of token source and static token is required",
		}
	}

	client := cfg.Client
	if client == nil {
		client = NewRetryingClient(RetryingClientConfig{Logger: cfg.Logger})
	}
	newRequestID := cfg.NewRequestID
	if newRequestID == nil {
		newRequestID = uuid.NewString
	}
	logger := glog.Ensure(cfg.Logger)

	return &Executor{
		baseURL:      baseURL,
		environment:  cfg.Environment,
		tokenSource:  cfg.TokenSource,
		staticToken:  strings.TrimSpace(cfg.StaticToken),
		client:       client,
		timeout:      cfg.Timeout,
		logger:       logger,
		observer:     core.Observer{Logger: logger, Metrics: cfg.Metrics},
		newRequestID: newRequestID,
	}, nil
}

// Execute POSTs the request body to the endpoint and returns the decoded
// response payload. 4xx maps to APIError, 5xx to ServerError.
func (e *Executor) Execute(ctx context.Context, endpoint string, body any) (map[string]any, error) {
	if e == nil {
		return nil, fmt.Errorf("transport: executor is not configured")
	}
	endpoint = strings.Trim(strings.TrimSpace(endpoint), "/")
	if endpoint == "" {
		return nil, &core.ConfigurationError{Field: "endpoint", Message: "endpoint is required"}
	}

	startedAt := time.Now()
	payload, err := e.execute(ctx, endpoint, body)
	e.observer.Observe(ctx, startedAt, "execute", err, map[string]any{
		"endpoint":    endpoint,
		"environment": e.environment.String(),
	})
	return payload, err
}

func (e *Executor) execute(ctx context.Context, endpoint string, body any) (map[string]any, error) {
	encoded, err := json.Marshal(body)
	if err != nil {
		return nil, &core.ConfigurationError{Field: "body", Message: "request body is not serializable: " + err.Error()}
	}

	bearer := e.staticToken
	jwtToken := ""
	if e.tokenSource != nil {
		token, tokenErr := e.tokenSource.GetToken(ctx)
		if tokenErr != nil {
			return nil, tokenErr
		}
		bearer = token.AccessToken
		jwtToken = token.JWTToken
	}

	headers := map[string]string{
		"Accept":        "text/plain",
		"Authorization": "Bearer " + bearer,
		"Content-Type":  "application/json",
		"X-Request-Id":  e.newRequestID(),
	}
	// The production gateway additionally demands the auxiliary token;
	// with a static token none is available.
	if jwtToken != "" && e.environment.IsProduction() {
		headers["jwt_token"] = jwtToken
	}

	response, err := e.client.Do(ctx, Request{
		Method:  http.MethodPost,
		URL:     e.baseURL + "/v1/" + endpoint,
		Headers: headers,
		Body:    encoded,
		Timeout: e.timeout,
	})
	if err != nil {
		return nil, err
	}

	switch {
	case response.StatusCode >= 500:
		return nil, &core.ServerError{
			StatusCode: response.StatusCode,
			Body:       decodeBody(response.Body),
		}
	case response.StatusCode >= 400:
		return nil, &core.APIError{
			StatusCode: response.StatusCode,
			Body:       decodeBody(response.Body),
		}
	}

	return decodePayload(response.Body), nil
}

// decodeBody parses a JSON body, falling back to the raw text.
func decodeBody(body []byte) any {
	var decoded any
	if err := json.Unmarshal(body, &decoded); err != nil {
		return string(body)
	}
	return decoded
}

// decodePayload returns the response as a map. Non-JSON and non-object
// bodies are wrapped under "text". A JSON-encoded string in "dados" is
// decoded exactly once; if it does not decode, the raw string stays.
func decodePayload(body []byte) map[string]any {
	var decoded map[string]any
	if err := json.Unmarshal(body, &decoded); err != nil {
		return map[string]any{"text": string(body)}
	}
	if raw, ok := decoded["dados"].(string); ok {
		var inner any
		if err := json.Unmarshal([]byte(raw), &inner); err == nil {
			decoded["dados"] = inner
		}
	}
	return decoded
}
