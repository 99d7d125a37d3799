package kv

import (
	"context"
	"errors"
	"fmt"

	"luxedrive/internal/models"
	"luxedrive/internal/repositories/interfaces"
	"luxedrive/internal/storage"
)

type cartRepository struct {
	store storage.Store
}

func NewCartRepository(store storage.Store) interfaces.CartRepository {
	return &cartRepository{store: store}
}

func (r *cartRepository) Get(ctx context.Context, sessionID string) (*models.Cart, storage.Version, error) {
	cart := &models.Cart{}
	version, err := storage.LoadOrEmpty(ctx, r.store, sessionCartKey(sessionID), cart)
	if err != nil {
		return nil, storage.NoVersion, fmt.Errorf("failed to load cart: %w", err)
	}
	if cart.Items == nil {
		cart.Items = []models.CartItem{}
	}
	return cart, version, nil
}

func (r *cartRepository) Save(ctx context.Context, sessionID string, cart *models.Cart, expected storage.Version) (storage.Version, error) {
	version, err := r.store.Save(ctx, sessionCartKey(sessionID), cart, expected)
	if errors.Is(err, storage.ErrVersionConflict) {
		return storage.NoVersion, fmt.Errorf("cart for session %s: %w", sessionID, interfaces.ErrConflict)
	}
	if err != nil {
		return storage.NoVersion, fmt.Errorf("failed to save cart: %w", err)
	}
	return version, nil
}
