// Package auth registers users and issues the two token kinds the server
// accepts: long-lived access tokens for the REST API and short-lived
// tickets that open a websocket session.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/playperu/monopoly/internal/kv"
)

var (
	ErrUserExists         = errors.New("username already taken")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid access token")
	ErrInvalidTicket      = errors.New("invalid ticket")
)

type User struct {
	ID           string    `json:"user_id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}

type Config struct {
	Key        []byte
	AccessTTL  time.Duration
	TicketTTL  time.Duration
	BcryptCost int
}

type Service struct {
	store kv.Store
	cfg   Config
	now   func() time.Time

	// registerMu makes the username check and claim atomic.
	registerMu sync.Mutex
}

func NewService(store kv.Store, cfg Config) *Service {
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	return &Service{store: store, cfg: cfg, now: time.Now}
}

func (s *Service) Register(ctx context.Context, c Credentials) (User, error) {
	if err := c.Validate(); err != nil {
		return User{}, err
	}

	s.registerMu.Lock()
	defer s.registerMu.Unlock()

	taken, err := s.store.Exists(ctx, kv.UsernameKey(c.Username))
	if err != nil {
		return User{}, fmt.Errorf("checking username: %w", err)
	}
	if taken {
		return User{}, ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(c.Password), s.cfg.BcryptCost)
	if err != nil {
		return User{}, fmt.Errorf("hashing password: %w", err)
	}
	u := User{
		ID:           uuid.NewString(),
		Username:     c.Username,
		PasswordHash: string(hash),
		CreatedAt:    s.now().UTC(),
	}

	data, err := json.Marshal(u)
	if err != nil {
		return User{}, err
	}
	if err := s.store.Set(ctx, kv.UserKey(u.ID), data); err != nil {
		return User{}, fmt.Errorf("storing user: %w", err)
	}
	if err := s.store.Set(ctx, kv.UsernameKey(u.Username), []byte(u.ID)); err != nil {
		return User{}, fmt.Errorf("claiming username: %w", err)
	}
	return u, nil
}

func (s *Service) Login(ctx context.Context, c Credentials) (User, error) {
	id, err := s.store.Get(ctx, kv.UsernameKey(c.Username))
	if errors.Is(err, kv.ErrNotFound) {
		return User{}, ErrInvalidCredentials
	}
	if err != nil {
		return User{}, fmt.Errorf("looking up username: %w", err)
	}

	u, err := s.User(ctx, string(id))
	if errors.Is(err, ErrUserNotFound) {
		return User{}, ErrInvalidCredentials
	}
	if err != nil {
		return User{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(c.Password)); err != nil {
		return User{}, ErrInvalidCredentials
	}
	return u, nil
}

func (s *Service) User(ctx context.Context, id string) (User, error) {
	data, err := s.store.Get(ctx, kv.UserKey(id))
	if errors.Is(err, kv.ErrNotFound) {
		return User{}, ErrUserNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("loading user: %w", err)
	}
	var u User
	if err := json.Unmarshal(data, &u); err != nil {
		return User{}, fmt.Errorf("decoding user %s: %w", id, err)
	}
	return u, nil
}
