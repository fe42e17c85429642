// Package sqlstore persists tokens and credential snapshots in a SQL
// database, as an alternative to the default on-disk store for
// deployments where several processes share one credential set.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-integra/core"
)

// TokenStore implements core.TokenStore on top of bun. Each store is
// scoped to one (environment, consumer key) pair; reads return the most
// recently saved row for that scope.
type TokenStore struct {
	db          *bun.DB
	tokens      repository.Repository[*tokenRecord]
	configs     repository.Repository[*savedConfigRecord]
	environment core.Environment
	consumerKey string
}

func NewTokenStore(db *bun.DB, environment core.Environment, consumerKey string) (*TokenStore, error) {
	if db == nil {
		return nil, fmt.Errorf("sqlstore: bun db is required")
	}
	consumerKey = strings.TrimSpace(consumerKey)
	if consumerKey == "" {
		return nil, fmt.Errorf("sqlstore: consumer key is required")
	}
	if environment == "" {
		environment = core.EnvironmentProduction
	}

	tokens := repository.NewRepository[*tokenRecord](db, tokenHandlers())
	if validator, ok := tokens.(repository.Validator); ok {
		if err := validator.Validate(); err != nil {
			return nil, fmt.Errorf("sqlstore: invalid token repository wiring: %w", err)
		}
	}
	configs := repository.NewRepository[*savedConfigRecord](db, savedConfigHandlers())
	if validator, ok := configs.(repository.Validator); ok {
		if err := validator.Validate(); err != nil {
			return nil, fmt.Errorf("sqlstore: invalid saved-config repository wiring: %w", err)
		}
	}

	return &TokenStore{
		db:          db,
		tokens:      tokens,
		configs:     configs,
		environment: environment,
		consumerKey: consumerKey,
	}, nil
}

// Init creates the backing tables when they do not exist yet.
func (s *TokenStore) Init(ctx context.Context) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("sqlstore: token store is not configured")
	}
	for _, model := range []any{(*tokenRecord)(nil), (*savedConfigRecord)(nil)} {
		if _, err := s.db.NewCreateTable().
			Model(model).
			IfNotExists().
			Exec(ctx); err != nil {
			return fmt.Errorf("sqlstore: create table: %w", err)
		}
	}
	return nil
}

func (s *TokenStore) SaveToken(ctx context.Context, token core.CachedToken) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("sqlstore: token store is not configured")
	}
	if err := token.Validate(); err != nil {
		return err
	}
	obtainedAt := token.ObtainedAt
	if obtainedAt.IsZero() {
		obtainedAt = time.Now()
	}
	now := time.Now().UTC()

	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		record, err := s.findTokenTx(ctx, tx)
		if err != nil {
			return err
		}
		created := false
		if record == nil {
			created = true
			record = &tokenRecord{
				ID:          uuid.NewString(),
				Environment: s.environment.String(),
				ConsumerKey: s.consumerKey,
				CreatedAt:   now,
			}
		}
		record.AccessToken = token.AccessToken
		record.JWTToken = token.JWTToken
		record.JWTPucomex = token.JWTPucomex
		record.TokenType = token.TokenType
		record.Scope = token.Scope
		record.ExpiresIn = token.ExpiresIn
		record.ObtainedAt = obtainedAt.UTC()
		record.UpdatedAt = now

		if created {
			_, insertErr := tx.NewInsert().Model(record).Exec(ctx)
			return insertErr
		}
		_, updateErr := tx.NewUpdate().
			Model(record).
			Where("id = ?", record.ID).
			Exec(ctx)
		return updateErr
	})
}

func (s *TokenStore) LoadToken(ctx context.Context) (core.CachedToken, bool, error) {
	if s == nil || s.db == nil {
		return core.CachedToken{}, false, fmt.Errorf("sqlstore: token store is not configured")
	}
	record := &tokenRecord{}
	err := s.db.NewSelect().
		Model(record).
		Where("?TableAlias.environment = ?", s.environment.String()).
		Where("?TableAlias.consumer_key = ?", s.consumerKey).
		OrderExpr("?TableAlias.obtained_at DESC").
		Limit(1).
		Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return core.CachedToken{}, false, nil
		}
		return core.CachedToken{}, false, err
	}
	return record.toDomain(), true, nil
}

func (s *TokenStore) DeleteToken(ctx context.Context) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("sqlstore: token store is not configured")
	}
	_, err := s.db.NewDelete().
		Model((*tokenRecord)(nil)).
		Where("environment = ?", s.environment.String()).
		Where("consumer_key = ?", s.consumerKey).
		Exec(ctx)
	return err
}

func (s *TokenStore) SaveConfig(ctx context.Context, config core.SavedConfig) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("sqlstore: token store is not configured")
	}
	if err := config.Validate(); err != nil {
		return err
	}
	savedAt := config.SavedAt
	if savedAt.IsZero() {
		savedAt = time.Now()
	}
	now := time.Now().UTC()

	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		record, err := s.findConfigTx(ctx, tx)
		if err != nil {
			return err
		}
		created := false
		if record == nil {
			created = true
			record = &savedConfigRecord{
				ID:          uuid.NewString(),
				Environment: s.environment.String(),
				ConsumerKey: s.consumerKey,
				CreatedAt:   now,
			}
		}
		record.ConsumerSecret = config.ConsumerSecret
		record.CertificatePath = config.CertificatePath
		record.CertificatePassword = config.CertificatePassword
		record.SavedAt = savedAt.UTC()
		record.UpdatedAt = now

		if created {
			_, insertErr := tx.NewInsert().Model(record).Exec(ctx)
			return insertErr
		}
		_, updateErr := tx.NewUpdate().
			Model(record).
			Where("id = ?", record.ID).
			Exec(ctx)
		return updateErr
	})
}

func (s *TokenStore) LoadConfig(ctx context.Context) (core.SavedConfig, bool, error) {
	if s == nil || s.db == nil {
		return core.SavedConfig{}, false, fmt.Errorf("sqlstore: token store is not configured")
	}
	record := &savedConfigRecord{}
	err := s.db.NewSelect().
		Model(record).
		Where("?TableAlias.environment = ?", s.environment.String()).
		Where("?TableAlias.consumer_key = ?", s.consumerKey).
		OrderExpr("?TableAlias.saved_at DESC").
		Limit(1).
		Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return core.SavedConfig{}, false, nil
		}
		return core.SavedConfig{}, false, err
	}
	return record.toDomain(), true, nil
}

func (s *TokenStore) findTokenTx(ctx context.Context, tx bun.Tx) (*tokenRecord, error) {
	record := &tokenRecord{}
	err := tx.NewSelect().
		Model(record).
		Where("?TableAlias.environment = ?", s.environment.String()).
		Where("?TableAlias.consumer_key = ?", s.consumerKey).
		OrderExpr("?TableAlias.obtained_at DESC").
		Limit(1).
		Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return record, nil
}

func (s *TokenStore) findConfigTx(ctx context.Context, tx bun.Tx) (*savedConfigRecord, error) {
	record := &savedConfigRecord{}
	err := tx.NewSelect().
		Model(record).
		Where("?TableAlias.environment = ?", s.environment.String()).
		Where("?TableAlias.consumer_key = ?", s.consumerKey).
		OrderExpr("?TableAlias.saved_at DESC").
		Limit(1).
		Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return record, nil
}

func (r *tokenRecord) toDomain() core.CachedToken {
	if r == nil {
		return core.CachedToken{}
	}
	return core.CachedToken{
		Token: core.Token{
			AccessToken: r.AccessToken,
			JWTToken:    r.JWTToken,
			JWTPucomex:  r.JWTPucomex,
			TokenType:   r.TokenType,
			Scope:       r.Scope,
			ExpiresIn:   r.ExpiresIn,
		},
		ObtainedAt: r.ObtainedAt,
	}
}

func (r *savedConfigRecord) toDomain() core.SavedConfig {
	if r == nil {
		return core.SavedConfig{}
	}
	environment, err := core.ParseEnvironment(r.Environment)
	if err != nil {
		environment = core.EnvironmentProduction
	}
	return core.SavedConfig{
		ConsumerKey:         r.ConsumerKey,
		ConsumerSecret:      r.ConsumerSecret,
		CertificatePath:     r.CertificatePath,
		CertificatePassword: r.CertificatePassword,
		Environment:         environment,
		SavedAt:             r.SavedAt,
	}
}

var _ core.TokenStore = (*TokenStore)(nil)
