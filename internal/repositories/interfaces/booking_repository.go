package interfaces

import (
	"context"

	"luxedrive/internal/models"
)

// BookingRepository is the shared booking collection. Bookings are
// appended and have their status changed; they are never removed.
type BookingRepository interface {
	List(ctx context.Context) ([]*models.Booking, error)
	ListByUser(ctx context.Context, userID string) ([]*models.Booking, error)
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	Append(ctx context.Context, bookings ...*models.Booking) error
	UpdateStatus(ctx context.Context, id string, status models.BookingStatus) (*models.Booking, error)
}
