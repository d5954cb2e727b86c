// Package storage is the durable key/value store that keeps a session alive
// across process restarts. Callers that need several keys to change together
// must use SetAll and Delete, which every backend applies atomically.
package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Domenick1991/flightbook/config"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	// KeyUser holds the serialized identity record.
	KeyUser = "user"
	// KeyToken holds the bare credential token.
	KeyToken = "token"
)

var ErrNotFound = errors.New("storage: key not found")

type Store interface {
	Get(ctx context.Context, key string) (string, error)
	SetAll(ctx context.Context, entries map[string]string) error
	Delete(ctx context.Context, keys ...string) error
	Close() error
}

// TokenSource reads the bearer token straight from durable storage so the
// API client always sees what was last persisted.
type TokenSource struct {
	store Store
}

func NewTokenSource(store Store) *TokenSource {
	return &TokenSource{store: store}
}

// Token returns "" when no token is stored.
func (t *TokenSource) Token(ctx context.Context) (string, error) {
	token, err := t.store.Get(ctx, KeyToken)
	if errors.Is(err, ErrNotFound) {
		return "", nil
	}
	return token, err
}

// Open builds the Store selected by cfg.Storage.Driver.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (Store, error) {
	switch strings.ToLower(cfg.Storage.Driver) {
	case "", "file":
		path := cfg.Storage.Path
		if path == "" {
			path = config.DefaultSessionPath()
		}
		return NewFileStore(path), nil
	case "memory":
		return NewMemoryStore(), nil
	case "redis":
		return NewRedisStore(cfg.Redis, cfg.Storage.Namespace, cfg.Storage.TTL()), nil
	case "postgres":
		pool, err := pgxpool.New(ctx, cfg.Database.DSN())
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		store := NewPostgresStore(pool, cfg.Storage.Namespace)
		if err := store.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, err
		}
		logger.Debug("postgres storage ready", "namespace", cfg.Storage.Namespace)
		return store, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}
