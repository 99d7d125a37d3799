package kv

import (
	"context"
	"errors"
	"fmt"

	"luxedrive/internal/models"
	"luxedrive/internal/repositories/interfaces"
	"luxedrive/internal/storage"
)

type vehicleRepository struct {
	store      storage.Store
	maxRetries int
}

func NewVehicleRepository(store storage.Store) interfaces.VehicleRepository {
	return &vehicleRepository{store: store, maxRetries: DefaultMaxRetries}
}

// SeedVehicles writes vehicles as the catalog unless one is already stored.
func SeedVehicles(ctx context.Context, store storage.Store, vehicles []*models.Vehicle) error {
	_, err := store.Save(ctx, keyVehicles, vehicles, storage.NoVersion)
	if errors.Is(err, storage.ErrVersionConflict) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to seed vehicles: %w", err)
	}
	return nil
}

func (r *vehicleRepository) List(ctx context.Context) ([]*models.Vehicle, error) {
	var vehicles []*models.Vehicle
	if _, err := storage.LoadOrEmpty(ctx, r.store, keyVehicles, &vehicles); err != nil {
		return nil, fmt.Errorf("failed to list vehicles: %w", err)
	}
	return vehicles, nil
}

func (r *vehicleRepository) GetByID(ctx context.Context, id string) (*models.Vehicle, error) {
	vehicles, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, v := range vehicles {
		if v.ID == id {
			return v, nil
		}
	}
	return nil, fmt.Errorf("vehicle %s: %w", id, interfaces.ErrNotFound)
}

func (r *vehicleRepository) Create(ctx context.Context, vehicle *models.Vehicle) error {
	return mutate(ctx, r.store, keyVehicles, r.maxRetries, func(vehicles *[]*models.Vehicle) error {
		for _, v := range *vehicles {
			if v.ID == vehicle.ID {
				return fmt.Errorf("vehicle %s: %w", vehicle.ID, interfaces.ErrExists)
			}
		}
		*vehicles = append(*vehicles, vehicle)
		return nil
	})
}

func (r *vehicleRepository) Update(ctx context.Context, vehicle *models.Vehicle) error {
	return mutate(ctx, r.store, keyVehicles, r.maxRetries, func(vehicles *[]*models.Vehicle) error {
		for i, v := range *vehicles {
			if v.ID == vehicle.ID {
				(*vehicles)[i] = vehicle
				return nil
			}
		}
		return fmt.Errorf("vehicle %s: %w", vehicle.ID, interfaces.ErrNotFound)
	})
}

func (r *vehicleRepository) Delete(ctx context.Context, id string) error {
	return mutate(ctx, r.store, keyVehicles, r.maxRetries, func(vehicles *[]*models.Vehicle) error {
		for i, v := range *vehicles {
			if v.ID == id {
				*vehicles = append((*vehicles)[:i], (*vehicles)[i+1:]...)
				return nil
			}
		}
		return fmt.Errorf("vehicle %s: %w", id, interfaces.ErrNotFound)
	})
}
