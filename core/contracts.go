package core

import (
	"context"
	"net/http"

	glog "github.com/goliatone/go-logger/glog"
)

type Logger = glog.Logger

type LoggerProvider = glog.LoggerProvider

type FieldsLogger = glog.FieldsLogger

// HTTPDoer is the injectable transport seam; *http.Client satisfies it.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// TokenSource yields a usable token, acquiring or refreshing as needed.
// auth.Manager is the canonical implementation.
type TokenSource interface {
	GetToken(ctx context.Context) (Token, error)
}

// TokenStore persists tokens and credential snapshots between processes.
// Implementations must treat missing entries as (zero, false, nil), not
// as errors.
type TokenStore interface {
	SaveToken(ctx context.Context, token CachedToken) error
	LoadToken(ctx context.Context) (CachedToken, bool, error)
	DeleteToken(ctx context.Context) error
	SaveConfig(ctx context.Context, config SavedConfig) error
	LoadConfig(ctx context.Context) (SavedConfig, bool, error)
}

type MetricsRecorder interface {
	IncCounter(ctx context.Context, name string, value int64, tags map[string]string)
	ObserveHistogram(ctx context.Context, name string, value float64, tags map[string]string)
}
