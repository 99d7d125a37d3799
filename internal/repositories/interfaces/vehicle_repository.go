package interfaces

import (
	"context"

	"luxedrive/internal/models"
)

// VehicleRepository is the catalog. List returns vehicles in catalog order.
type VehicleRepository interface {
	List(ctx context.Context) ([]*models.Vehicle, error)
	GetByID(ctx context.Context, id string) (*models.Vehicle, error)
	Create(ctx context.Context, vehicle *models.Vehicle) error
	Update(ctx context.Context, vehicle *models.Vehicle) error
	Delete(ctx context.Context, id string) error
}
