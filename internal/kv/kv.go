// Package kv is the persistence gateway: an opaque string-keyed JSON store.
// The game core only relies on single-key operations.
package kv

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("key not found")

type Store interface {
	// Get returns ErrNotFound when the key does not exist.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Exists(ctx context.Context, key string) (bool, error)
	Delete(ctx context.Context, key string) error
	// Keys lists keys matching a glob pattern (*, ?, [...]).
	Keys(ctx context.Context, pattern string) ([]string, error)
}

func GameKey(gameID string) string { return "games:" + gameID }

func UserKey(userID string) string { return "users:" + userID }

func UsernameKey(username string) string { return "usernames:" + username }
