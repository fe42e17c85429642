package sqlstore

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	repositorycache "github.com/goliatone/go-repository-cache/cache"

	"github.com/goliatone/go-integra/core"
)

const tokenCacheKeyPrefix = "go-integra::token::v1"

type cachedTokenEntry struct {
	Token core.CachedToken
	Found bool
}

type cachedConfigEntry struct {
	Config core.SavedConfig
	Found  bool
}

// CachedTokenStore layers a read-through cache over a token store so
// hot-path freshness checks avoid the database. Writes invalidate.
type CachedTokenStore struct {
	base        core.TokenStore
	cache       repositorycache.CacheService
	environment core.Environment
	consumerKey string
}

func NewCachedTokenStore(
	base core.TokenStore,
	cacheService repositorycache.CacheService,
	environment core.Environment,
	consumerKey string,
) (*CachedTokenStore, error) {
	if base == nil {
		return nil, fmt.Errorf("sqlstore: base token store is required")
	}
	if cacheService == nil {
		return nil, fmt.Errorf("sqlstore: token cache service is required")
	}
	consumerKey = strings.TrimSpace(consumerKey)
	if consumerKey == "" {
		return nil, fmt.Errorf("sqlstore: consumer key is required")
	}
	if environment == "" {
		environment = core.EnvironmentProduction
	}
	return &CachedTokenStore{
		base:        base,
		cache:       cacheService,
		environment: environment,
		consumerKey: consumerKey,
	}, nil
}

// TokenCacheKey returns the deterministic cache key contract for token
// reads: go-integra::token::v1::<kind>::<environment>::<consumer_key>
// with each segment URL-path escaped.
func TokenCacheKey(kind string, environment core.Environment, consumerKey string) string {
	segments := []string{
		kind,
		environment.String(),
		strings.TrimSpace(consumerKey),
	}
	for i, segment := range segments {
		segments[i] = url.PathEscape(segment)
	}
	return strings.Join(append([]string{tokenCacheKeyPrefix}, segments...), "::")
}

func (s *CachedTokenStore) SaveToken(ctx context.Context, token core.CachedToken) error {
	if err := s.check(); err != nil {
		return err
	}
	if err := s.base.SaveToken(ctx, token); err != nil {
		return err
	}
	return s.cache.Delete(ctx, s.tokenKey())
}

func (s *CachedTokenStore) LoadToken(ctx context.Context) (core.CachedToken, bool, error) {
	if err := s.check(); err != nil {
		return core.CachedToken{}, false, err
	}
	entry, err := repositorycache.GetOrFetch(ctx, s.cache, s.tokenKey(), func(ctx context.Context) (cachedTokenEntry, error) {
		token, found, fetchErr := s.base.LoadToken(ctx)
		if fetchErr != nil {
			return cachedTokenEntry{}, fetchErr
		}
		return cachedTokenEntry{Token: token, Found: found}, nil
	})
	if err != nil {
		return core.CachedToken{}, false, err
	}
	return entry.Token, entry.Found, nil
}

func (s *CachedTokenStore) DeleteToken(ctx context.Context) error {
	if err := s.check(); err != nil {
		return err
	}
	if err := s.base.DeleteToken(ctx); err != nil {
		return err
	}
	return s.cache.Delete(ctx, s.tokenKey())
}

func (s *CachedTokenStore) SaveConfig(ctx context.Context, config core.SavedConfig) error {
	if err := s.check(); err != nil {
		return err
	}
	if err := s.base.SaveConfig(ctx, config); err != nil {
		return err
	}
	return s.cache.Delete(ctx, s.configKey())
}

func (s *CachedTokenStore) LoadConfig(ctx context.Context) (core.SavedConfig, bool, error) {
	if err := s.check(); err != nil {
		return core.SavedConfig{}, false, err
	}
	entry, err := repositorycache.GetOrFetch(ctx, s.cache, s.configKey(), func(ctx context.Context) (cachedConfigEntry, error) {
		config, found, fetchErr := s.base.LoadConfig(ctx)
		if fetchErr != nil {
			return cachedConfigEntry{}, fetchErr
		}
		return cachedConfigEntry{Config: config, Found: found}, nil
	})
	if err != nil {
		return core.SavedConfig{}, false, err
	}
	return entry.Config, entry.Found, nil
}

func (s *CachedTokenStore) check() error {
	if s == nil || s.base == nil || s.cache == nil {
		return fmt.Errorf("sqlstore: cached token store is not configured")
	}
	return nil
}

func (s *CachedTokenStore) tokenKey() string {
	return TokenCacheKey("token", s.environment, s.consumerKey)
}

func (s *CachedTokenStore) configKey() string {
	return TokenCacheKey("config", s.environment, s.consumerKey)
}

var _ core.TokenStore = (*CachedTokenStore)(nil)
