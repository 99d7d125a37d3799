// Package storage is the key-value persistence port behind every
// collection the service keeps: the per-session user and cart, the shared
// booking list and the catalog.
//
// Every value carries a version. Save takes the version the caller loaded
// and refuses the write if the stored value has moved on, which turns the
// read-modify-write of a collection into a compare-and-swap. Delete leaves
// a tombstone that keeps the version counting, so a writer holding a
// version from before the delete cannot recreate the key.
package storage

import (
	"context"
	"errors"
)

// Version identifies one stored revision of a key. The zero Version means
// the key does not exist.
type Version int64

const (
	// NoVersion is the version of an absent key.
	NoVersion Version = 0
	// AnyVersion makes Save overwrite whatever is stored (last writer wins).
	AnyVersion Version = -1
)

var (
	ErrNotFound        = errors.New("storage: key not found")
	ErrVersionConflict = errors.New("storage: version conflict")
)

type Store interface {
	// Load decodes the value stored at key into dest and returns its
	// version. A missing or deleted key returns ErrNotFound together with
	// the version a Save must present to create it.
	Load(ctx context.Context, key string, dest interface{}) (Version, error)
	// Save encodes value at key if the stored version equals expected, or
	// unconditionally when expected is AnyVersion. It returns the new
	// version or ErrVersionConflict.
	Save(ctx context.Context, key string, value interface{}, expected Version) (Version, error)
	// Delete replaces the value with a tombstone and bumps the version.
	Delete(ctx context.Context, key string) error
}

// LoadOrEmpty is Load that treats a missing key as an empty value.
func LoadOrEmpty(ctx context.Context, s Store, key string, dest interface{}) (Version, error) {
	v, err := s.Load(ctx, key, dest)
	if errors.Is(err, ErrNotFound) {
		return v, nil
	}
	return v, err
}

func checkVersion(current, expected Version) error {
	if expected != AnyVersion && current != expected {
		return ErrVersionConflict
	}
	return nil
}
