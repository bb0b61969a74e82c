package ports

import (
	"context"
	"time"
)

// SubsetStore persists serialized filtered subsets per session and filter key
type SubsetStore interface {
	// Put stores payload for (sessionID, key), replacing any previous value.
	Put(ctx context.Context, sessionID, key string, payload []byte) error

	// Get returns the payload and whether it was present.
	Get(ctx context.Context, sessionID, key string) ([]byte, bool, error)

	// Latest returns the most recently stored key for a session.
	Latest(ctx context.Context, sessionID string) (string, bool, error)

	// Expire removes entries older than ttl.
	Expire(ctx context.Context, ttl time.Duration) (int, error)
}
