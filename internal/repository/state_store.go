package repository

import (
	"context"
	"time"
)

// StateStore abstracts ephemeral key-value state: processed webhook
// event ids and sign-out markers. Implementations: Redis (production)
// or in-memory (local dev / single-instance).
type StateStore interface {
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// SignOutKey is the state-store key holding a user's last sign-out
// time (unix seconds). Written by the directory service, read by the
// auth middleware to revoke tokens issued before it.
func SignOutKey(username string) string {
	return "signout:" + username
}
