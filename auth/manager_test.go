package auth

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/goliatone/go-integra/core"
	filestore "github.com/goliatone/go-integra/store/file"
)

type fakeAcquirer struct {
	calls int
	token core.Token
	err   error
}

func (f *fakeAcquirer) Acquire(context.Context, Credentials, string) (core.Token, error) {
	f.calls++
	if f.err != nil {
		return core.Token{}, f.err
	}
	return f.token, nil
}

func writeDummyCertificate(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "cert.p12")
	if err := os.WriteFile(path, []byte("not-a-real-bundle"), 0o600); err != nil {
		t.Fatalf("write certificate: %v", err)
	}
	return path
}

func validTestToken() core.Token {
	return core.Token{
		AccessToken: "access-1",
		JWTToken:    "jwt-1",
		TokenType:   "Bearer",
		Scope:       "default",
		ExpiresIn:   3600,
	}
}

func newTestManager(t *testing.T, acquirer TokenAcquirer, mutate func(*ManagerConfig)) *Manager {
	t.Helper()
	dir := t.TempDir()
	cfg := ManagerConfig{
		ConsumerKey:         "consumer-key",
		ConsumerSecret:      "consumer-secret",
		CertificatePath:     writeDummyCertificate(t, dir),
		CertificatePassword: "pass",
		Environment:         core.EnvironmentTrial,
		StorageDir:          filepath.Join(dir, "auth"),
		Acquirer:            acquirer,
	}
	if mutate != nil {
		mutate(&cfg)
	}
	manager, err := NewManager(cfg)
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	return manager
}

func TestManager_GetTokenCachesInMemory(t *testing.T) {
	acquirer := &fakeAcquirer{token: validTestToken()}
	manager := newTestManager(t, acquirer, nil)

	ctx := context.Background()
	token, err := manager.GetToken(ctx)
	if err != nil {
		t.Fatalf("first get: %v", err)
	}
	if token.AccessToken != "access-1" {
		t.Fatalf("unexpected token %+v", token)
	}
	if _, err := manager.GetToken(ctx); err != nil {
		t.Fatalf("second get: %v", err)
	}
	if acquirer.calls != 1 {
		t.Fatalf("expected a single acquisition, got %d", acquirer.calls)
	}
}

func TestManager_GetTokenReacquiresWhenExpired(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	acquirer := &fakeAcquirer{token: validTestToken()}
	manager := newTestManager(t, acquirer, func(cfg *ManagerConfig) {
		cfg.Now = func() time.Time { return now }
	})

	ctx := context.Background()
	if _, err := manager.GetToken(ctx); err != nil {
		t.Fatalf("first get: %v", err)
	}

	// Past expiry minus the safety buffer: both memory and store are stale.
	now = now.Add(3600 * time.Second)
	if _, err := manager.GetToken(ctx); err != nil {
		t.Fatalf("second get: %v", err)
	}
	if acquirer.calls != 2 {
		t.Fatalf("expected reacquisition after expiry, got %d calls", acquirer.calls)
	}
}

func TestManager_GetTokenReadsStoreBeforeAcquiring(t *testing.T) {
	dir := t.TempDir()
	storageDir := filepath.Join(dir, "auth")
	store, err := filestore.New(storageDir)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	stored := core.CachedToken{Token: validTestToken(), ObtainedAt: time.Now().UTC()}
	if err := store.SaveToken(context.Background(), stored); err != nil {
		t.Fatalf("seed store: %v", err)
	}

	acquirer := &fakeAcquirer{token: validTestToken()}
	manager := newTestManager(t, acquirer, func(cfg *ManagerConfig) {
		cfg.StorageDir = storageDir
	})

	token, err := manager.GetToken(context.Background())
	if err != nil {
		t.Fatalf("get token: %v", err)
	}
	if token.AccessToken != "access-1" {
		t.Fatalf("unexpected token %+v", token)
	}
	if acquirer.calls != 0 {
		t.Fatalf("expected stored token to satisfy the request, got %d acquisitions", acquirer.calls)
	}
}

func TestManager_RefreshBypassesCaches(t *testing.T) {
	acquirer := &fakeAcquirer{token: validTestToken()}
	manager := newTestManager(t, acquirer, nil)

	ctx := context.Background()
	if _, err := manager.GetToken(ctx); err != nil {
		t.Fatalf("get: %v", err)
	}
	if _, err := manager.Refresh(ctx); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if acquirer.calls != 2 {
		t.Fatalf("expected refresh to hit the network, got %d calls", acquirer.calls)
	}
}

func TestManager_ClearCacheKeepsStoredToken(t *testing.T) {
	acquirer := &fakeAcquirer{token: validTestToken()}
	manager := newTestManager(t, acquirer, nil)

	ctx := context.Background()
	if _, err := manager.GetToken(ctx); err != nil {
		t.Fatalf("get: %v", err)
	}
	manager.ClearCache()
	if _, err := manager.GetToken(ctx); err != nil {
		t.Fatalf("get after clear: %v", err)
	}
	if acquirer.calls != 1 {
		t.Fatalf("expected stored token to survive ClearCache, got %d acquisitions", acquirer.calls)
	}
}

func TestManager_ClearStoredTokenForcesReacquisition(t *testing.T) {
	acquirer := &fakeAcquirer{token: validTestToken()}
	manager := newTestManager(t, acquirer, nil)

	ctx := context.Background()
	if _, err := manager.GetToken(ctx); err != nil {
		t.Fatalf("get: %v", err)
	}
	manager.ClearStoredToken(ctx)
	if _, err := manager.GetToken(ctx); err != nil {
		t.Fatalf("get after clear: %v", err)
	}
	if acquirer.calls != 2 {
		t.Fatalf("expected reacquisition after ClearStoredToken, got %d calls", acquirer.calls)
	}
}

func TestManager_AcquisitionErrorsPropagate(t *testing.T) {
	acquirer := &fakeAcquirer{err: &core.InvalidCredentialsError{StatusCode: 401, Message: "nope"}}
	manager := newTestManager(t, acquirer, nil)

	_, err := manager.GetToken(context.Background())
	if err == nil {
		t.Fatalf("expected acquisition error")
	}
	if !errors.Is(err, core.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials sentinel, got %v", err)
	}
}

func TestManager_ProductionSavesConfigSnapshot(t *testing.T) {
	dir := t.TempDir()
	storageDir := filepath.Join(dir, "auth")
	certPath := writeDummyCertificate(t, dir)

	acquirer := &fakeAcquirer{token: validTestToken()}
	manager, err := NewManager(ManagerConfig{
		ConsumerKey:         "consumer-key",
		ConsumerSecret:      "consumer-secret",
		CertificatePath:     certPath,
		CertificatePassword: "pass",
		Environment:         core.EnvironmentProduction,
		StorageDir:          storageDir,
		Acquirer:            acquirer,
	})
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	if got := manager.Environment(); got != core.EnvironmentProduction {
		t.Fatalf("unexpected environment %q", got)
	}

	saved, ok := LoadConfig(context.Background(), storageDir, nil)
	if !ok {
		t.Fatalf("expected config snapshot on disk")
	}
	if saved.ConsumerKey != "consumer-key" || saved.CertificatePath != certPath {
		t.Fatalf("unexpected snapshot %+v", saved)
	}
	if saved.Environment != core.EnvironmentProduction {
		t.Fatalf("unexpected snapshot environment %q", saved.Environment)
	}
}

func TestFromSavedConfig_RebuildsManager(t *testing.T) {
	dir := t.TempDir()
	storageDir := filepath.Join(dir, "auth")
	acquirer := &fakeAcquirer{token: validTestToken()}
	newTestManager(t, acquirer, func(cfg *ManagerConfig) {
		cfg.Environment = core.EnvironmentProduction
		cfg.StorageDir = storageDir
	})

	rebuilt, ok, err := FromSavedConfig(context.Background(), ManagerConfig{
		StorageDir: storageDir,
		Acquirer:   acquirer,
	})
	if err != nil {
		t.Fatalf("from saved config: %v", err)
	}
	if !ok {
		t.Fatalf("expected a usable snapshot")
	}
	if rebuilt.Environment() != core.EnvironmentProduction {
		t.Fatalf("unexpected environment %q", rebuilt.Environment())
	}
}

func TestFromSavedConfig_MissingSnapshot(t *testing.T) {
	_, ok, err := FromSavedConfig(context.Background(), ManagerConfig{
		StorageDir: filepath.Join(t.TempDir(), "empty"),
	})
	if err != nil {
		t.Fatalf("from saved config: %v", err)
	}
	if ok {
		t.Fatalf("expected ok=false for missing snapshot")
	}
}

func TestFromSavedConfig_EnvironmentMismatch(t *testing.T) {
	dir := t.TempDir()
	storageDir := filepath.Join(dir, "auth")
	acquirer := &fakeAcquirer{token: validTestToken()}
	newTestManager(t, acquirer, func(cfg *ManagerConfig) {
		cfg.Environment = core.EnvironmentProduction
		cfg.StorageDir = storageDir
	})

	_, ok, err := FromSavedConfig(context.Background(), ManagerConfig{
		StorageDir:  storageDir,
		Environment: core.EnvironmentTrial,
		Acquirer:    acquirer,
	})
	if err != nil {
		t.Fatalf("from saved config: %v", err)
	}
	if ok {
		t.Fatalf("expected ok=false on environment mismatch")
	}
}

func TestFromSavedConfig_CertificateGone(t *testing.T) {
	dir := t.TempDir()
	storageDir := filepath.Join(dir, "auth")
	certPath := ""
	acquirer := &fakeAcquirer{token: validTestToken()}
	newTestManager(t, acquirer, func(cfg *ManagerConfig) {
		cfg.Environment = core.EnvironmentProduction
		cfg.StorageDir = storageDir
		certPath = cfg.CertificatePath
	})

	if err := os.Remove(certPath); err != nil {
		t.Fatalf("remove certificate: %v", err)
	}

	_, ok, err := FromSavedConfig(context.Background(), ManagerConfig{
		StorageDir: storageDir,
		Acquirer:   acquirer,
	})
	if err != nil {
		t.Fatalf("from saved config: %v", err)
	}
	if ok {
		t.Fatalf("expected ok=false when the certificate disappeared")
	}
}
