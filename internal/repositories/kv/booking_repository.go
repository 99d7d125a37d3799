package kv

import (
	"context"
	"fmt"

	"luxedrive/internal/models"
	"luxedrive/internal/repositories/interfaces"
	"luxedrive/internal/storage"
)

type bookingRepository struct {
	store      storage.Store
	maxRetries int
}

func NewBookingRepository(store storage.Store) interfaces.BookingRepository {
	return &bookingRepository{store: store, maxRetries: DefaultMaxRetries}
}

func (r *bookingRepository) List(ctx context.Context) ([]*models.Booking, error) {
	var bookings []*models.Booking
	if _, err := storage.LoadOrEmpty(ctx, r.store, keyBookings, &bookings); err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	if bookings == nil {
		bookings = []*models.Booking{}
	}
	return bookings, nil
}

func (r *bookingRepository) ListByUser(ctx context.Context, userID string) ([]*models.Booking, error) {
	bookings, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	owned := make([]*models.Booking, 0)
	for _, b := range bookings {
		if b.UserID == userID {
			owned = append(owned, b)
		}
	}
	return owned, nil
}

func (r *bookingRepository) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	bookings, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, b := range bookings {
		if b.ID == id {
			return b, nil
		}
	}
	return nil, fmt.Errorf("booking %s: %w", id, interfaces.ErrNotFound)
}

// Append adds bookings to the end of the collection. Concurrent appends
// from other sessions are retried against the fresh list, so none is lost.
func (r *bookingRepository) Append(ctx context.Context, bookings ...*models.Booking) error {
	if len(bookings) == 0 {
		return nil
	}
	return mutate(ctx, r.store, keyBookings, r.maxRetries, func(all *[]*models.Booking) error {
		*all = append(*all, bookings...)
		return nil
	})
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, id string, status models.BookingStatus) (*models.Booking, error) {
	var updated *models.Booking
	err := mutate(ctx, r.store, keyBookings, r.maxRetries, func(all *[]*models.Booking) error {
		for _, b := range *all {
			if b.ID == id {
				b.Status = status
				updated = b
				return nil
			}
		}
		return fmt.Errorf("booking %s: %w", id, interfaces.ErrNotFound)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
