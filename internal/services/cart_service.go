package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"luxedrive/internal/models"
	"luxedrive/internal/repositories/interfaces"
	"luxedrive/pkg/logger"
)

type CartService interface {
	Get(ctx context.Context, sessionID string) (*models.Cart, error)
	Add(ctx context.Context, sessionID string, actor *models.User, request *AddToCartRequest) (*models.Cart, error)
	// Remove drops every item for vehicleID.
	Remove(ctx context.Context, sessionID, vehicleID string) (*models.Cart, error)
	Clear(ctx context.Context, sessionID string) error
}

type AddToCartRequest struct {
	VehicleID string    `json:"vehicle_id" validate:"required"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

type cartService struct {
	carts    interfaces.CartRepository
	vehicles interfaces.VehicleRepository
	policy   Policy
	logger   *logger.Logger
}

func NewCartService(carts interfaces.CartRepository, vehicles interfaces.VehicleRepository, policy Policy, log *logger.Logger) CartService {
	return &cartService{
		carts:    carts,
		vehicles: vehicles,
		policy:   policy,
		logger:   log,
	}
}

func (s *cartService) Get(ctx context.Context, sessionID string) (*models.Cart, error) {
	cart, _, err := s.carts.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}
	return cart, nil
}

func (s *cartService) Add(ctx context.Context, sessionID string, actor *models.User, request *AddToCartRequest) (*models.Cart, error) {
	if err := authorize(s.policy, actor, ActionCartAdd, nil); err != nil {
		return nil, err
	}
	if request.VehicleID == "" {
		return nil, newValidationError("vehicle_id", "is required")
	}

	days, err := RentalDays(request.StartDate, request.EndDate)
	if err != nil {
		return nil, err
	}

	vehicle, err := s.vehicles.GetByID(ctx, request.VehicleID)
	if err != nil {
		return nil, fromRepository(err)
	}
	if !vehicle.Available {
		return nil, newValidationError("vehicle_id", "vehicle is not available")
	}

	cart, version, err := s.carts.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	cart.Items = append(cart.Items, models.CartItem{
		Vehicle:   *vehicle,
		StartDate: request.StartDate.UTC(),
		EndDate:   request.EndDate.UTC(),
		Days:      days,
	})

	if _, err := s.carts.Save(ctx, sessionID, cart, version); err != nil {
		return nil, fromRepository(err)
	}

	s.logger.WithUserID(actor.ID).WithFields(map[string]interface{}{
		"vehicle_id": vehicle.ID,
		"days":       days,
	}).Debug("Item added to cart")

	return cart, nil
}

func (s *cartService) Remove(ctx context.Context, sessionID, vehicleID string) (*models.Cart, error) {
	cart, version, err := s.carts.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	kept := make([]models.CartItem, 0, len(cart.Items))
	for _, item := range cart.Items {
		if item.Vehicle.ID != vehicleID {
			kept = append(kept, item)
		}
	}
	if len(kept) == len(cart.Items) {
		return cart, nil
	}
	cart.Items = kept

	if _, err := s.carts.Save(ctx, sessionID, cart, version); err != nil {
		return nil, fromRepository(err)
	}
	return cart, nil
}

// Clear empties the cart. Items held by a checkout in progress stay with
// that checkout.
func (s *cartService) Clear(ctx context.Context, sessionID string) error {
	return updateCart(ctx, s.carts, sessionID, func(cart *models.Cart) error {
		if cart.IsEmpty() {
			return errCartUnchanged
		}
		cart.Items = []models.CartItem{}
		return nil
	})
}

const cartUpdateAttempts = 3

// errCartUnchanged tells updateCart there is nothing to write.
var errCartUnchanged = errors.New("cart unchanged")

// updateCart applies fn to the stored cart and writes it back at the
// version it was read with, starting over when another request won.
func updateCart(ctx context.Context, carts interfaces.CartRepository, sessionID string, fn func(*models.Cart) error) error {
	for attempt := 0; attempt < cartUpdateAttempts; attempt++ {
		cart, version, err := carts.Get(ctx, sessionID)
		if err != nil {
			return fmt.Errorf("failed to get cart: %w", err)
		}

		if err := fn(cart); err != nil {
			if errors.Is(err, errCartUnchanged) {
				return nil
			}
			return err
		}

		_, err = carts.Save(ctx, sessionID, cart, version)
		if err == nil {
			return nil
		}
		if !errors.Is(err, interfaces.ErrConflict) {
			return fromRepository(err)
		}
	}
	return ErrConflict
}
