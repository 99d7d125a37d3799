package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"luxedrive/pkg/cache"
)

// envelope is the JSON document written to Redis for every key.
type envelope struct {
	Version Version         `json:"version"`
	Deleted bool            `json:"deleted,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Expiry picks the TTL of a key on every write. Zero keeps the key forever.
type Expiry func(key string) time.Duration

// ExpirePrefix expires keys that start with prefix after ttl of inactivity
// and keeps every other key forever.
func ExpirePrefix(prefix string, ttl time.Duration) Expiry {
	return func(key string) time.Duration {
		if strings.HasPrefix(key, prefix) {
			return ttl
		}
		return 0
	}
}

const deleteAttempts = 8

var errAlreadyDeleted = errors.New("storage: key already deleted")

// RedisStore persists values as versioned envelopes. Save runs inside a
// WATCH transaction so two writers holding the same version cannot both
// succeed.
type RedisStore struct {
	cache  *cache.RedisCache
	expiry Expiry
}

// NewRedisStore returns a store over c. A nil expiry keeps keys forever.
func NewRedisStore(c *cache.RedisCache, expiry Expiry) *RedisStore {
	return &RedisStore{cache: c, expiry: expiry}
}

func (r *RedisStore) ttl(key string) time.Duration {
	if r.expiry == nil {
		return 0
	}
	return r.expiry(key)
}

func (r *RedisStore) Load(ctx context.Context, key string, dest interface{}) (Version, error) {
	var env envelope
	if err := r.cache.Get(ctx, key, &env); err != nil {
		if cache.IsMiss(err) {
			return NoVersion, ErrNotFound
		}
		return NoVersion, fmt.Errorf("failed to load %s: %w", key, err)
	}
	if env.Deleted {
		return env.Version, ErrNotFound
	}

	if err := json.Unmarshal(env.Data, dest); err != nil {
		return NoVersion, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return env.Version, nil
}

func (r *RedisStore) Save(ctx context.Context, key string, value interface{}, expected Version) (Version, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return NoVersion, err
	}

	var next Version
	err = r.cache.Update(ctx, key, r.ttl(key), func(current []byte, exists bool) ([]byte, error) {
		cur, err := decodeEnvelope(key, current, exists)
		if err != nil {
			return nil, err
		}
		if err := checkVersion(cur.Version, expected); err != nil {
			return nil, err
		}

		next = cur.Version + 1
		return json.Marshal(envelope{Version: next, Data: data})
	})

	switch {
	case err == nil:
		return next, nil
	case errors.Is(err, ErrVersionConflict), errors.Is(err, cache.ErrTxConflict):
		return NoVersion, ErrVersionConflict
	default:
		return NoVersion, fmt.Errorf("failed to save %s: %w", key, err)
	}
}

// Delete writes a tombstone one version past the stored value. It retries
// while concurrent writers keep moving the key.
func (r *RedisStore) Delete(ctx context.Context, key string) error {
	for attempt := 0; attempt < deleteAttempts; attempt++ {
		err := r.cache.Update(ctx, key, r.ttl(key), func(current []byte, exists bool) ([]byte, error) {
			cur, err := decodeEnvelope(key, current, exists)
			if err != nil {
				return nil, err
			}
			if !exists || cur.Deleted {
				return nil, errAlreadyDeleted
			}
			return json.Marshal(envelope{Version: cur.Version + 1, Deleted: true})
		})

		switch {
		case err == nil, errors.Is(err, errAlreadyDeleted):
			return nil
		case errors.Is(err, cache.ErrTxConflict):
			continue
		default:
			return fmt.Errorf("failed to delete %s: %w", key, err)
		}
	}
	return fmt.Errorf("failed to delete %s: %w", key, ErrVersionConflict)
}

func decodeEnvelope(key string, raw []byte, exists bool) (envelope, error) {
	var env envelope
	if !exists {
		return env, nil
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return env, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return env, nil
}
