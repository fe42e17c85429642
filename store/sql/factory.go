package sqlstore

import (
	"context"
	"fmt"

	persistence "github.com/goliatone/go-persistence-bun"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-integra/core"
)

func NewTokenStoreFromPersistence(
	ctx context.Context,
	client *persistence.Client,
	environment core.Environment,
	consumerKey string,
) (*TokenStore, error) {
	db, err := resolveBunDB(client)
	if err != nil {
		return nil, err
	}
	return newInitializedTokenStore(ctx, db, environment, consumerKey)
}

func NewTokenStoreFromDB(
	ctx context.Context,
	db *bun.DB,
	environment core.Environment,
	consumerKey string,
) (*TokenStore, error) {
	return newInitializedTokenStore(ctx, db, environment, consumerKey)
}

func newInitializedTokenStore(
	ctx context.Context,
	db *bun.DB,
	environment core.Environment,
	consumerKey string,
) (*TokenStore, error) {
	store, err := NewTokenStore(db, environment, consumerKey)
	if err != nil {
		return nil, err
	}
	if err := store.Init(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

func resolveBunDB(candidate any) (*bun.DB, error) {
	switch typed := candidate.(type) {
	case nil:
		return nil, fmt.Errorf("sqlstore: persistence client is required")
	case *bun.DB:
		return typed, nil
	case interface{ DB() *bun.DB }:
		db := typed.DB()
		if db == nil {
			return nil, fmt.Errorf("sqlstore: persistence client returned nil bun db")
		}
		return db, nil
	default:
		return nil, fmt.Errorf("sqlstore: unsupported persistence client type %T", candidate)
	}
}
