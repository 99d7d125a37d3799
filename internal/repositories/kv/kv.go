// Package kv implements the repositories on top of a storage.Store. Each
// collection lives under one key and every write is a compare-and-swap on
// the version that was read.
package kv

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"luxedrive/internal/repositories/interfaces"
	"luxedrive/internal/storage"
)

const (
	keyBookings = "bookings"
	keyVehicles = "vehicles"
)

// SessionKeyPrefix starts every per-session key. Only these keys may
// expire; bookings, the catalog and accounts are kept forever.
const SessionKeyPrefix = "session:"

// DefaultMaxRetries bounds the read-modify-write loop on shared keys.
const DefaultMaxRetries = 32

func sessionUserKey(sessionID string) string {
	return SessionKeyPrefix + sessionID + ":user"
}

func sessionCartKey(sessionID string) string {
	return SessionKeyPrefix + sessionID + ":cart"
}

func accountKey(email string) string {
	return "account:" + strings.ToLower(strings.TrimSpace(email))
}

// mutate loads key into a fresh value, applies fn and writes it back,
// retrying from the top when another writer got in first.
func mutate[T any](ctx context.Context, store storage.Store, key string, maxRetries int, fn func(*T) error) error {
	for attempt := 0; attempt < maxRetries; attempt++ {
		var value T
		version, err := storage.LoadOrEmpty(ctx, store, key, &value)
		if err != nil {
			return fmt.Errorf("failed to load %s: %w", key, err)
		}

		if err := fn(&value); err != nil {
			return err
		}

		_, err = store.Save(ctx, key, &value, version)
		if err == nil {
			return nil
		}
		if !errors.Is(err, storage.ErrVersionConflict) {
			return fmt.Errorf("failed to save %s: %w", key, err)
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}
	return fmt.Errorf("failed to save %s after %d attempts: %w", key, maxRetries, interfaces.ErrConflict)
}
