// Package session holds the authenticated identity for the running client
// and mirrors it to durable storage so it survives a restart.
//
// The Store is the only writer of the "user" and "token" storage keys. Both
// keys are written in one storage call and removed in one storage call, so
// they cannot drift apart.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Domenick1991/flightbook/internal/domain"
	"github.com/Domenick1991/flightbook/internal/storage"
)

type AuthAPI interface {
	Login(ctx context.Context, credentials domain.Credentials) (*domain.User, error)
	Register(ctx context.Context, profile domain.RegisterInput) (*domain.User, error)
}

type Store struct {
	mu      sync.RWMutex
	user    *domain.User
	auth    AuthAPI
	storage storage.Store
	logger  *slog.Logger
}

type Option func(*Store)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

func NewStore(auth AuthAPI, st storage.Store, opts ...Option) *Store {
	store := &Store{
		auth:    auth,
		storage: st,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

// Init rehydrates the session from durable storage. It must run before
// anything reads the session. The session is restored only when both the
// identity record and the token are present.
func (s *Store) Init(ctx context.Context) error {
	rawUser, userErr := s.storage.Get(ctx, storage.KeyUser)
	token, tokenErr := s.storage.Get(ctx, storage.KeyToken)

	for _, err := range []error{userErr, tokenErr} {
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("load session: %w", err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil

	if userErr != nil || tokenErr != nil || token == "" {
		return nil
	}

	var user domain.User
	if err := json.Unmarshal([]byte(rawUser), &user); err != nil {
		s.logger.Warn("stored identity is unreadable, starting logged out", "error", err)
		return nil
	}
	if user.ID == "" && user.Name == "" {
		s.logger.Warn("stored identity is empty, starting logged out")
		return nil
	}
	user.Token = token
	s.user = &user
	s.logger.Debug("session restored", "user", user.Name)
	return nil
}

func (s *Store) Login(ctx context.Context, credentials domain.Credentials) (domain.User, error) {
	user, err := s.auth.Login(ctx, credentials)
	if err != nil {
		return domain.User{}, err
	}
	s.establish(ctx, *user)
	return *user, nil
}

func (s *Store) Register(ctx context.Context, profile domain.RegisterInput) (domain.User, error) {
	user, err := s.auth.Register(ctx, profile)
	if err != nil {
		return domain.User{}, err
	}
	s.establish(ctx, *user)
	return *user, nil
}

// Logout forgets the session locally. The in-memory session is cleared even
// when removing the stored keys fails.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.user = nil
	s.mu.Unlock()

	if err := s.storage.Delete(ctx, storage.KeyUser, storage.KeyToken); err != nil {
		return fmt.Errorf("clear stored session: %w", err)
	}
	return nil
}

// UpdateWalletBalance replaces the balance and nothing else.
func (s *Store) UpdateWalletBalance(ctx context.Context, balance domain.Amount) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user == nil {
		return domain.ErrNotAuthenticated
	}
	updated := *s.user
	updated.WalletBalance = balance
	s.user = &updated

	if err := s.persist(ctx, updated); err != nil {
		s.logger.Warn("persist wallet balance", "error", err)
	}
	return nil
}

// Current returns a copy of the identity and whether one is present.
func (s *Store) Current() (domain.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return domain.User{}, false
	}
	return *s.user, true
}

func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil
}

func (s *Store) establish(ctx context.Context, user domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.persist(ctx, user); err != nil {
		s.logger.Warn("persist session", "user", user.Name, "error", err)
	}
	s.user = &user
}

// persist writes both keys in one call. Callers hold s.mu.
func (s *Store) persist(ctx context.Context, user domain.User) error {
	record, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode identity: %w", err)
	}
	return s.storage.SetAll(ctx, map[string]string{
		storage.KeyUser:  string(record),
		storage.KeyToken: user.Token,
	})
}
