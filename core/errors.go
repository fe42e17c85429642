package core

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

const (
	IntegraErrorBadInput           = "INTEGRA_BAD_INPUT"
	IntegraErrorCertificate        = "INTEGRA_CERTIFICATE_REJECTED"
	IntegraErrorInvalidCredentials = "INTEGRA_INVALID_CREDENTIALS"
	IntegraErrorAuthFailed         = "INTEGRA_AUTH_FAILED"
	IntegraErrorTransport          = "INTEGRA_TRANSPORT_FAILURE"
	IntegraErrorAPI                = "INTEGRA_API_ERROR"
	IntegraErrorServer             = "INTEGRA_SERVER_ERROR"
	IntegraErrorTemplateNotFound   = "INTEGRA_TEMPLATE_NOT_FOUND"
	IntegraErrorInternal           = "INTEGRA_INTERNAL_ERROR"
)

var (
	ErrCertificateRejected  = errors.New("core: identity provider rejected the client certificate")
	ErrInvalidCredentials   = errors.New("core: consumer key or secret rejected")
	ErrAuthenticationFailed = errors.New("core: authentication failed")
	ErrTransportFailure     = errors.New("core: request never produced an HTTP response")
)

// ConfigurationError reports invalid caller-supplied setup. It is never
// produced by remote responses.
type ConfigurationError struct {
	Field   string
	Message string
}

func (e *ConfigurationError) Error() string {
	if e == nil {
		return "core: invalid configuration"
	}
	if e.Field == "" {
		return fmt.Sprintf("core: invalid configuration: %s", e.Message)
	}
	return fmt.Sprintf("core: invalid configuration: %s: %s", e.Field, e.Message)
}

// CertificateError maps the identity provider's HTTP 400 during token
// acquisition: the mTLS certificate was presented but not accepted.
type CertificateError struct {
	StatusCode int
	Message    string
	Body       []byte
}

func (e *CertificateError) Error() string {
	return fmt.Sprintf("core: certificate rejected (status %d): %s", e.StatusCode, e.Message)
}

func (e *CertificateError) Unwrap() error {
	return ErrCertificateRejected
}

// InvalidCredentialsError maps HTTP 401/403 during token acquisition.
type InvalidCredentialsError struct {
	StatusCode int
	Message    string
	Body       []byte
}

func (e *InvalidCredentialsError) Error() string {
	return fmt.Sprintf("core: invalid credentials (status %d): %s", e.StatusCode, e.Message)
}

func (e *InvalidCredentialsError) Unwrap() error {
	return ErrInvalidCredentials
}

// AuthError maps any other non-2xx status during token acquisition.
type AuthError struct {
	StatusCode int
	Message    string
	Body       []byte
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("core: authentication failed (status %d): %s", e.StatusCode, e.Message)
}

func (e *AuthError) Unwrap() error {
	return ErrAuthenticationFailed
}

// TransportError reports a request that produced no HTTP response at all:
// connection failures, timeouts, interrupted reads. Its status code is
// always zero.
type TransportError struct {
	Op    string
	URL   string
	Cause error
}

func (e *TransportError) Error() string {
	if e == nil {
		return "core: transport failure"
	}
	return fmt.Sprintf("core: %s %s: transport failure: %v", e.Op, e.URL, e.Cause)
}

func (e *TransportError) Unwrap() error {
	return e.Cause
}

func (e *TransportError) Is(target error) bool {
	return target == ErrTransportFailure
}

func (e *TransportError) StatusCode() int {
	return 0
}

// APIError maps a 4xx service response.
type APIError struct {
	StatusCode int
	Body       any
}

func (e *APIError) Error() string {
	return fmt.Sprintf("core: api error (status %d)", e.StatusCode)
}

// ServerError maps a 5xx service response.
type ServerError struct {
	StatusCode int
	Body       any
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("core: server error (status %d)", e.StatusCode)
}

// IntegraErrorMapper wraps any SDK error into a goerrors envelope with the
// category and text code matching the taxonomy above.
func IntegraErrorMapper(err error) *goerrors.Error {
	if err == nil {
		return nil
	}

	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return ensureIntegraErrorEnvelope(richErr)
	}

	var confErr *ConfigurationError
	if errors.As(err, &confErr) {
		return newIntegraError(err.Error(), goerrors.CategoryBadInput, IntegraErrorBadInput)
	}
	var certErr *CertificateError
	if errors.As(err, &certErr) {
		return newIntegraError(err.Error(), goerrors.CategoryAuth, IntegraErrorCertificate).
			WithMetadata(map[string]any{"status_code": certErr.StatusCode})
	}
	var credErr *InvalidCredentialsError
	if errors.As(err, &credErr) {
		return newIntegraError(err.Error(), goerrors.CategoryAuth, IntegraErrorInvalidCredentials).
			WithMetadata(map[string]any{"status_code": credErr.StatusCode})
	}
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return newIntegraError(err.Error(), goerrors.CategoryAuth, IntegraErrorAuthFailed).
			WithMetadata(map[string]any{"status_code": authErr.StatusCode})
	}
	var transportErr *TransportError
	if errors.As(err, &transportErr) {
		return newIntegraError(err.Error(), goerrors.CategoryExternal, IntegraErrorTransport)
	}
	var serverErr *ServerError
	if errors.As(err, &serverErr) {
		return newIntegraError(err.Error(), goerrors.CategoryExternal, IntegraErrorServer).
			WithMetadata(map[string]any{"status_code": serverErr.StatusCode})
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return newIntegraError(err.Error(), goerrors.CategoryExternal, IntegraErrorAPI).
			WithMetadata(map[string]any{"status_code": apiErr.StatusCode})
	}

	mapped := goerrors.MapToError(err, goerrors.DefaultErrorMappers())
	return ensureIntegraErrorEnvelope(mapped)
}

func newIntegraError(message string, category goerrors.Category, textCode string) *goerrors.Error {
	return ensureIntegraErrorEnvelope(
		goerrors.New(message, category).
			WithTextCode(textCode),
	)
}

func ensureIntegraErrorEnvelope(err *goerrors.Error) *goerrors.Error {
	if err == nil {
		return nil
	}
	if err.Code == 0 {
		err.Code = integraHTTPStatus(err.Category)
	}
	if strings.TrimSpace(err.TextCode) == "" {
		err.TextCode = defaultIntegraTextCode(err.Category)
	}
	if err.Category == goerrors.CategoryInternal && strings.TrimSpace(err.Message) == "" {
		err.Message = "An unexpected error occurred"
	}
	return err
}

func defaultIntegraTextCode(category goerrors.Category) string {
	switch category {
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return IntegraErrorBadInput
	case goerrors.CategoryNotFound:
		return IntegraErrorTemplateNotFound
	case goerrors.CategoryAuth, goerrors.CategoryAuthz:
		return IntegraErrorAuthFailed
	case goerrors.CategoryExternal:
		return IntegraErrorAPI
	default:
		return IntegraErrorInternal
	}
}

func integraHTTPStatus(category goerrors.Category) int {
	switch category {
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return http.StatusBadRequest
	case goerrors.CategoryNotFound:
		return http.StatusNotFound
	case goerrors.CategoryAuth:
		return http.StatusUnauthorized
	case goerrors.CategoryAuthz:
		return http.StatusForbidden
	case goerrors.CategoryExternal:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
