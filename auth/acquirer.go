package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	glog "github.com/goliatone/go-logger/glog"

	"github.com/goliatone/go-integra/core"
)

// RoleType is sent on every token request; the gateway uses it to mark
// requests made on behalf of third parties.
const RoleType = "TERCEIROS"

const (
	defaultAcquireTimeout      = 30 * time.Second
	maxAuthResponseBodyBytes   = 1 << 20
	fallbackCertificateMessage = "Não foi possível identificar um certificado digital válido."
	fallbackCredentialsMessage = "Credenciais inválidas."
)

// TokenAcquirer performs one network token acquisition.
type TokenAcquirer interface {
	Acquire(ctx context.Context, creds Credentials, authURL string) (core.Token, error)
}

type AcquirerConfig struct {
	// Certificate is decoded into an mTLS client when HTTPClient is nil.
	Certificate CertificateConfig

	// HTTPClient overrides the built transport, mostly for tests.
	HTTPClient core.HTTPDoer

	Timeout time.Duration
	Logger  core.Logger
}

// Acquirer exchanges consumer credentials plus a client certificate for a
// token at the identity provider.
type Acquirer struct {
	httpClient core.HTTPDoer
	logger     core.Logger
}

func NewAcquirer(cfg AcquirerConfig) (*Acquirer, error) {
	logger := glog.Ensure(cfg.Logger)
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultAcquireTimeout
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		cert, err := LoadTLSCertificate(cfg.Certificate)
		if err != nil {
			return nil, err
		}
		httpClient = NewMTLSClient(cert, timeout)
	}
	return &Acquirer{
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

func (a *Acquirer) Acquire(ctx context.Context, creds Credentials, authURL string) (core.Token, error) {
	if a == nil || a.httpClient == nil {
		return core.Token{}, fmt.Errorf("auth: acquirer is not configured")
	}
	authURL = strings.TrimSpace(authURL)
	if authURL == "" {
		return core.Token{}, &core.ConfigurationError{Field: "auth_url", Message: "auth url is required"}
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, authURL, strings.NewReader(form.Encode()))
	if err != nil {
		return core.Token{}, fmt.Errorf("auth: build token request: %w", err)
	}
	req.Header.Set("Authorization", creds.BasicAuthHeader())
	req.Header.Set("Role-Type", RoleType)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	a.logger.Debug("requesting token", "auth_url", authURL)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return core.Token{}, &core.TransportError{Op: http.MethodPost, URL: authURL, Cause: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxAuthResponseBodyBytes))
	if err != nil {
		return core.Token{}, &core.TransportError{Op: http.MethodPost, URL: authURL, Cause: err}
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		return parseTokenResponse(body)
	case resp.StatusCode == http.StatusBadRequest:
		return core.Token{}, &core.CertificateError{
			StatusCode: resp.StatusCode,
			Message:    errorMessageFromBody(body, fallbackCertificateMessage),
			Body:       body,
		}
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return core.Token{}, &core.InvalidCredentialsError{
			StatusCode: resp.StatusCode,
			Message:    errorMessageFromBody(body, fallbackCredentialsMessage),
			Body:       body,
		}
	default:
		fallback := fmt.Sprintf("authentication failed with status %d", resp.StatusCode)
		return core.Token{}, &core.AuthError{
			StatusCode: resp.StatusCode,
			Message:    errorMessageFromBody(body, fallback),
			Body:       body,
		}
	}
}

type tokenPayload struct {
	ExpiresIn   int64  `json:"expires_in"`
	Scope       string `json:"scope"`
	TokenType   string `json:"token_type"`
	AccessToken string `json:"access_token"`
	JWTToken    string `json:"jwt_token"`
	JWTPucomex  string `json:"jwt_pucomex"`
}

func parseTokenResponse(body []byte) (core.Token, error) {
	var payload tokenPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return core.Token{}, fmt.Errorf("auth: decode token response: %w", err)
	}
	if payload.Scope == "" {
		payload.Scope = "default"
	}
	token := core.Token{
		AccessToken: payload.AccessToken,
		JWTToken:    payload.JWTToken,
		TokenType:   payload.TokenType,
		Scope:       payload.Scope,
		ExpiresIn:   payload.ExpiresIn,
		JWTPucomex:  payload.JWTPucomex,
	}
	if err := token.Validate(); err != nil {
		return core.Token{}, fmt.Errorf("auth: malformed token response: %w", err)
	}
	return token, nil
}

// authErrorPayload mirrors the identity provider's error envelope. Details
// is an array in the provider's schema; keep it raw so an unexpected shape
// never discards the message.
type authErrorPayload struct {
	Timestamp string          `json:"timestamp"`
	Status    int             `json:"status"`
	Error     string          `json:"error"`
	Message   string          `json:"message"`
	Details   json.RawMessage `json:"details"`
	TrackerID string          `json:"trackerId"`
	Path      string          `json:"path"`
}

func errorMessageFromBody(body []byte, fallback string) string {
	var payload authErrorPayload
	if err := json.Unmarshal(body, &payload); err == nil && strings.TrimSpace(payload.Message) != "" {
		return payload.Message
	}
	return fallback
}

var _ TokenAcquirer = (*Acquirer)(nil)
