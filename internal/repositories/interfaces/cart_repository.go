package interfaces

import (
	"context"

	"luxedrive/internal/models"
	"luxedrive/internal/storage"
)

// CartRepository keeps one cart per session. Save fails with ErrConflict
// when the cart changed since the version passed in was read. Carts are
// emptied with Save rather than deleted so their version keeps counting.
type CartRepository interface {
	Get(ctx context.Context, sessionID string) (*models.Cart, storage.Version, error)
	Save(ctx context.Context, sessionID string, cart *models.Cart, expected storage.Version) (storage.Version, error)
}
