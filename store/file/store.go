// Package filestore persists tokens and credential snapshots as JSON
// files inside a storage directory: token.json and config.json.
package filestore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	glog "github.com/goliatone/go-logger/glog"

	"github.com/goliatone/go-integra/core"
)

const (
	tokenFileName  = "token.json"
	configFileName = "config.json"
)

type Store struct {
	dir    string
	logger core.Logger
}

type Option func(*Store)

func WithLogger(logger core.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// New creates the storage directory if needed.
func New(dir string, opts ...Option) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("filestore: storage directory is required")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("filestore: create storage directory: %w", err)
	}
	store := &Store{dir: dir}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(store)
	}
	store.logger = glog.Ensure(store.logger)
	return store, nil
}

func (s *Store) TokenPath() string {
	return filepath.Join(s.dir, tokenFileName)
}

func (s *Store) ConfigPath() string {
	return filepath.Join(s.dir, configFileName)
}

// tokenFile is the on-disk token layout. saved_at is unix seconds with
// fraction, so files interoperate with other implementations of the same
// format.
type tokenFile struct {
	ExpiresIn   *int64  `json:"expires_in"`
	Scope       string  `json:"scope"`
	TokenType   *string `json:"token_type"`
	AccessToken *string `json:"access_token"`
	JWTToken    *string `json:"jwt_token"`
	JWTPucomex  string  `json:"jwt_pucomex"`
	SavedAt     float64 `json:"saved_at"`
}

type configFile struct {
	ConsumerKey         *string `json:"consumer_key"`
	ConsumerSecret      *string `json:"consumer_secret"`
	CertificatePath     *string `json:"certificate_path"`
	CertificatePassword *string `json:"certificate_password"`
	Environment         *string `json:"environment"`
	SavedAt             float64 `json:"saved_at"`
}

func (s *Store) SaveToken(_ context.Context, token core.CachedToken) error {
	if s == nil {
		return fmt.Errorf("filestore: store is not configured")
	}
	payload := tokenFile{
		ExpiresIn:   &token.ExpiresIn,
		Scope:       token.Scope,
		TokenType:   &token.TokenType,
		AccessToken: &token.AccessToken,
		JWTToken:    &token.JWTToken,
		JWTPucomex:  token.JWTPucomex,
		SavedAt:     unixSeconds(token.ObtainedAt),
	}
	return s.writeJSON(s.TokenPath(), payload)
}

// LoadToken returns ok=false for a missing file, malformed JSON, or a
// payload missing required fields. None of those are errors: the caller
// falls through to a fresh acquisition.
func (s *Store) LoadToken(_ context.Context) (core.CachedToken, bool, error) {
	if s == nil {
		return core.CachedToken{}, false, fmt.Errorf("filestore: store is not configured")
	}
	data, err := os.ReadFile(s.TokenPath())
	if err != nil {
		if os.IsNotExist(err) {
			return core.CachedToken{}, false, nil
		}
		return core.CachedToken{}, false, fmt.Errorf("filestore: read token file: %w", err)
	}

	var payload tokenFile
	if err := json.Unmarshal(data, &payload); err != nil {
		s.logger.Warn("invalid JSON in token file", "error", err)
		return core.CachedToken{}, false, nil
	}
	if payload.ExpiresIn == nil || payload.AccessToken == nil || payload.JWTToken == nil || payload.TokenType == nil {
		s.logger.Warn("token file missing required fields")
		return core.CachedToken{}, false, nil
	}

	scope := payload.Scope
	if scope == "" {
		scope = "default"
	}
	return core.CachedToken{
		Token: core.Token{
			AccessToken: *payload.AccessToken,
			JWTToken:    *payload.JWTToken,
			TokenType:   *payload.TokenType,
			Scope:       scope,
			ExpiresIn:   *payload.ExpiresIn,
			JWTPucomex:  payload.JWTPucomex,
		},
		ObtainedAt: fromUnixSeconds(payload.SavedAt),
	}, true, nil
}

func (s *Store) DeleteToken(_ context.Context) error {
	if s == nil {
		return fmt.Errorf("filestore: store is not configured")
	}
	if err := os.Remove(s.TokenPath()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("filestore: delete token file: %w", err)
	}
	return nil
}

func (s *Store) SaveConfig(_ context.Context, config core.SavedConfig) error {
	if s == nil {
		return fmt.Errorf("filestore: store is not configured")
	}
	environment := config.Environment.String()
	payload := configFile{
		ConsumerKey:         &config.ConsumerKey,
		ConsumerSecret:      &config.ConsumerSecret,
		CertificatePath:     &config.CertificatePath,
		CertificatePassword: &config.CertificatePassword,
		Environment:         &environment,
		SavedAt:             unixSeconds(config.SavedAt),
	}
	return s.writeJSON(s.ConfigPath(), payload)
}

func (s *Store) LoadConfig(_ context.Context) (core.SavedConfig, bool, error) {
	if s == nil {
		return core.SavedConfig{}, false, fmt.Errorf("filestore: store is not configured")
	}
	data, err := os.ReadFile(s.ConfigPath())
	if err != nil {
		if os.IsNotExist(err) {
			return core.SavedConfig{}, false, nil
		}
		return core.SavedConfig{}, false, fmt.Errorf("filestore: read config file: %w", err)
	}

	var payload configFile
	if err := json.Unmarshal(data, &payload); err != nil {
		s.logger.Warn("invalid JSON in config file", "error", err)
		return core.SavedConfig{}, false, nil
	}
	if payload.ConsumerKey == nil || payload.ConsumerSecret == nil ||
		payload.CertificatePath == nil || payload.CertificatePassword == nil ||
		payload.Environment == nil {
		s.logger.Warn("config file missing required fields")
		return core.SavedConfig{}, false, nil
	}
	environment, err := core.ParseEnvironment(*payload.Environment)
	if err != nil {
		s.logger.Warn("config file has unknown environment", "environment", *payload.Environment)
		return core.SavedConfig{}, false, nil
	}

	return core.SavedConfig{
		ConsumerKey:         *payload.ConsumerKey,
		ConsumerSecret:      *payload.ConsumerSecret,
		CertificatePath:     *payload.CertificatePath,
		CertificatePassword: *payload.CertificatePassword,
		Environment:         environment,
		SavedAt:             fromUnixSeconds(payload.SavedAt),
	}, true, nil
}

func (s *Store) writeJSON(path string, payload any) error {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("filestore: encode %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("filestore: write %s: %w", filepath.Base(path), err)
	}
	return nil
}

func unixSeconds(t time.Time) float64 {
	if t.IsZero() {
		return float64(time.Now().UnixNano()) / float64(time.Second)
	}
	return float64(t.UnixNano()) / float64(time.Second)
}

func fromUnixSeconds(seconds float64) time.Time {
	if seconds <= 0 {
		return time.Now().UTC()
	}
	return time.Unix(0, int64(seconds*float64(time.Second))).UTC()
}

var _ core.TokenStore = (*Store)(nil)
