package auth

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	glog "github.com/goliatone/go-logger/glog"

	"github.com/goliatone/go-integra/core"
	filestore "github.com/goliatone/go-integra/store/file"
)

// DefaultStorageDir returns the fallback location for token.json and
// config.json when the caller does not pick one.
func DefaultStorageDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".integra", "auth")
	}
	return filepath.Join(home, ".integra", "auth")
}

type ManagerConfig struct {
	ConsumerKey         string
	ConsumerSecret      string
	CertificatePath     string
	CertificatePassword string

	// Environment defaults to Production; it selects the auth URL and
	// whether config.json is maintained.
	Environment core.Environment

	// StorageDir defaults to DefaultStorageDir().
	StorageDir string

	// Store overrides the file-backed token store.
	Store core.TokenStore

	// Acquirer overrides the mTLS acquirer, mostly for tests.
	Acquirer TokenAcquirer

	// HTTPClient is handed to the default acquirer when set.
	HTTPClient core.HTTPDoer

	Timeout time.Duration
	Logger  core.Logger
	Metrics core.MetricsRecorder

	// Now overrides the clock in tests.
	Now func() time.Time
}

// Manager owns the token lifecycle: in-memory slot, persistent store,
// and network acquisition, consulted in that order. All methods are safe
// for concurrent use; concurrent GetToken callers coalesce on a single
// acquisition.
type Manager struct {
	credentials Credentials
	certificate CertificateConfig
	environment core.Environment
	storageDir  string
	store       core.TokenStore
	acquirer    TokenAcquirer
	logger      core.Logger
	observer    core.Observer
	now         func() time.Time

	mu     sync.Mutex
	cached *core.CachedToken
}

func NewManager(cfg ManagerConfig) (*Manager, error) {
	credentials, err := NewCredentials(cfg.ConsumerKey, cfg.ConsumerSecret)
	if err != nil {
		return nil, err
	}
	certificate, err := NewCertificateConfig(cfg.CertificatePath, cfg.CertificatePassword)
	if err != nil {
		return nil, err
	}
	if err := certificate.CheckFile(); err != nil {
		return nil, err
	}

	environment := cfg.Environment
	if environment == "" {
		environment = core.EnvironmentProduction
	}
	storageDir := cfg.StorageDir
	if storageDir == "" {
		storageDir = DefaultStorageDir()
	}

	logger := glog.Ensure(cfg.Logger)

	store := cfg.Store
	if store == nil {
		store, err = filestore.New(storageDir, filestore.WithLogger(logger))
		if err != nil {
			return nil, err
		}
	}

	acquirer := cfg.Acquirer
	if acquirer == nil {
		acquirer, err = NewAcquirer(AcquirerConfig{
			Certificate: certificate,
			HTTPClient:  cfg.HTTPClient,
			Timeout:     cfg.Timeout,
			Logger:      logger,
		})
		if err != nil {
			return nil, err
		}
	}

	now := cfg.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}

	manager := &Manager{
		credentials: credentials,
		certificate: certificate,
		environment: environment,
		storageDir:  storageDir,
		store:       store,
		acquirer:    acquirer,
		logger:      logger,
		observer:    core.Observer{Logger: logger, Metrics: cfg.Metrics},
		now:         now,
	}

	// Production sessions persist their credential snapshot up front so
	// a later process can rebuild the manager without secrets.
	if environment.IsProduction() {
		manager.saveConfigBestEffort(context.Background())
	}
	return manager, nil
}

// GetToken returns a usable token, preferring the in-memory slot, then
// the store, then a fresh network acquisition.
func (m *Manager) GetToken(ctx context.Context) (core.Token, error) {
	if m == nil {
		return core.Token{}, fmt.Errorf("auth: manager is nil")
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if m.cached != nil && m.cached.Fresh(now) {
		m.logger.Debug("using cached token from memory")
		return m.cached.Token, nil
	}

	if stored, ok, err := m.store.LoadToken(ctx); err != nil {
		m.logger.Warn("token store read failed", "error", err)
	} else if ok && stored.Fresh(now) {
		m.logger.Debug("using token from store")
		m.cached = &stored
		return stored.Token, nil
	}

	return m.acquireLocked(ctx)
}

// Refresh forces a network acquisition regardless of cache freshness.
func (m *Manager) Refresh(ctx context.Context) (core.Token, error) {
	if m == nil {
		return core.Token{}, fmt.Errorf("auth: manager is nil")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.acquireLocked(ctx)
}

func (m *Manager) acquireLocked(ctx context.Context) (core.Token, error) {
	startedAt := time.Now()
	token, err := m.acquirer.Acquire(ctx, m.credentials, m.environment.AuthURL())
	m.observer.Observe(ctx, startedAt, "token_acquire", err, map[string]any{
		"environment": m.environment.String(),
	})
	if err != nil {
		return core.Token{}, err
	}

	cached := core.CachedToken{Token: token, ObtainedAt: m.now()}
	m.cached = &cached

	// Persistence failures degrade to in-memory caching only.
	if saveErr := m.store.SaveToken(ctx, cached); saveErr != nil {
		m.logger.Warn("token store write failed", "error", saveErr)
	}
	if m.environment.IsProduction() {
		m.saveConfigBestEffort(ctx)
	}
	return token, nil
}

// ClearCache drops the in-memory token; the store is untouched.
func (m *Manager) ClearCache() {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cached = nil
}

// ClearStoredToken drops both the in-memory token and the stored one.
func (m *Manager) ClearStoredToken(ctx context.Context) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cached = nil
	if err := m.store.DeleteToken(ctx); err != nil {
		m.logger.Warn("token store delete failed", "error", err)
	}
}

// SaveConfig persists the credential snapshot.
func (m *Manager) SaveConfig(ctx context.Context) error {
	if m == nil {
		return fmt.Errorf("auth: manager is nil")
	}
	return m.store.SaveConfig(ctx, m.savedConfig())
}

func (m *Manager) saveConfigBestEffort(ctx context.Context) {
	if err := m.store.SaveConfig(ctx, m.savedConfig()); err != nil {
		m.logger.Warn("config store write failed", "error", err)
	}
}

func (m *Manager) savedConfig() core.SavedConfig {
	return core.SavedConfig{
		ConsumerKey:         m.credentials.ConsumerKey,
		ConsumerSecret:      m.credentials.ConsumerSecret,
		CertificatePath:     m.certificate.Path,
		CertificatePassword: m.certificate.Passphrase,
		Environment:         m.environment,
		SavedAt:             m.now(),
	}
}

// Environment reports which environment the manager authenticates for.
func (m *Manager) Environment() core.Environment {
	if m == nil {
		return ""
	}
	return m.environment
}

// LoadConfig reads a previously saved credential snapshot. A missing or
// malformed file yields ok=false, never an error.
func LoadConfig(ctx context.Context, storageDir string, logger core.Logger) (core.SavedConfig, bool) {
	logger = glog.Ensure(logger)
	if storageDir == "" {
		storageDir = DefaultStorageDir()
	}
	store, err := filestore.New(storageDir, filestore.WithLogger(logger))
	if err != nil {
		logger.Warn("config store open failed", "error", err)
		return core.SavedConfig{}, false
	}
	saved, ok, err := store.LoadConfig(ctx)
	if err != nil {
		logger.Warn("config store read failed", "error", err)
		return core.SavedConfig{}, false
	}
	return saved, ok
}

// FromSavedConfig rebuilds a manager from a saved snapshot. ok=false
// means no usable snapshot: missing file, environment mismatch, or the
// certificate no longer exists. A non-nil error only reports a snapshot
// that exists but cannot be turned into a manager.
func FromSavedConfig(ctx context.Context, cfg ManagerConfig) (*Manager, bool, error) {
	logger := glog.Ensure(cfg.Logger)
	saved, ok := LoadConfig(ctx, cfg.StorageDir, logger)
	if !ok {
		return nil, false, nil
	}
	if cfg.Environment != "" && cfg.Environment != saved.Environment {
		logger.Warn("saved config environment mismatch",
			"saved", saved.Environment.String(),
			"requested", cfg.Environment.String(),
		)
		return nil, false, nil
	}
	if _, err := os.Stat(saved.CertificatePath); err != nil {
		logger.Warn("certificate from saved config not found", "path", saved.CertificatePath)
		return nil, false, nil
	}

	rebuilt := cfg
	rebuilt.ConsumerKey = saved.ConsumerKey
	rebuilt.ConsumerSecret = saved.ConsumerSecret
	rebuilt.CertificatePath = saved.CertificatePath
	rebuilt.CertificatePassword = saved.CertificatePassword
	rebuilt.Environment = saved.Environment

	manager, err := NewManager(rebuilt)
	if err != nil {
		return nil, false, err
	}
	return manager, true, nil
}

var _ core.TokenSource = (*Manager)(nil)
