package services

import (
	"context"
	"fmt"
	"strings"

	"luxedrive/internal/models"
	"luxedrive/internal/repositories/interfaces"
	"luxedrive/internal/utils"
	"luxedrive/pkg/logger"

	"github.com/google/uuid"
)

const (
	FilterAll     = "All"
	FeaturedLimit = 6
)

type CatalogService interface {
	List(ctx context.Context, filter models.VehicleFilter) ([]*models.Vehicle, error)
	Featured(ctx context.Context, filter models.VehicleFilter) ([]*models.Vehicle, error)
	Facets(ctx context.Context) (*models.CatalogFacets, error)
	Get(ctx context.Context, id string) (*models.Vehicle, error)

	Create(ctx context.Context, actor *models.User, input *VehicleInput) (*models.Vehicle, error)
	Update(ctx context.Context, actor *models.User, id string, input *VehicleInput) (*models.Vehicle, error)
	Delete(ctx context.Context, actor *models.User, id string) error
}

// VehicleInput is the admin form. A nil Available keeps the current value
// on update and means available on create.
type VehicleInput struct {
	Name         string  `json:"name" validate:"required,max=120"`
	Brand        string  `json:"brand" validate:"required,max=60"`
	Type         string  `json:"type" validate:"required,max=40"`
	Year         int     `json:"year" validate:"omitempty,gte=1900,lte=2100"`
	Seats        int     `json:"seats" validate:"omitempty,gte=1,lte=20"`
	Transmission string  `json:"transmission" validate:"omitempty,oneof=Automatic Manual"`
	Fuel         string  `json:"fuel" validate:"omitempty,max=30"`
	Price        float64 `json:"price" validate:"gte=0"`
	Image        string  `json:"image" validate:"omitempty,url"`
	Available    *bool   `json:"available"`
}

type catalogService struct {
	vehicles interfaces.VehicleRepository
	policy   Policy
	logger   *logger.Logger
}

func NewCatalogService(vehicles interfaces.VehicleRepository, policy Policy, log *logger.Logger) CatalogService {
	return &catalogService{
		vehicles: vehicles,
		policy:   policy,
		logger:   log,
	}
}

// FilterVehicles keeps catalog order. Brand and type match exactly unless
// empty or "All"; the query is a case-insensitive substring of name or
// brand.
func FilterVehicles(vehicles []*models.Vehicle, filter models.VehicleFilter) []*models.Vehicle {
	query := strings.ToLower(strings.TrimSpace(filter.Query))

	matched := make([]*models.Vehicle, 0, len(vehicles))
	for _, v := range vehicles {
		if !matchesFacet(filter.Brand, v.Brand) || !matchesFacet(filter.Type, v.Type) {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(v.Name), query) &&
			!strings.Contains(strings.ToLower(v.Brand), query) {
			continue
		}
		matched = append(matched, v)
	}
	return matched
}

func matchesFacet(want, have string) bool {
	return want == "" || want == FilterAll || want == have
}

func FeaturedVehicles(vehicles []*models.Vehicle, filter models.VehicleFilter) []*models.Vehicle {
	matched := FilterVehicles(vehicles, filter)
	if len(matched) > FeaturedLimit {
		matched = matched[:FeaturedLimit]
	}
	return matched
}

// BuildFacets lists "All" followed by each brand and type in first-seen
// order.
func BuildFacets(vehicles []*models.Vehicle) *models.CatalogFacets {
	facets := &models.CatalogFacets{
		Brands: []string{FilterAll},
		Types:  []string{FilterAll},
	}
	seenBrand := make(map[string]bool)
	seenType := make(map[string]bool)

	for _, v := range vehicles {
		if !seenBrand[v.Brand] {
			seenBrand[v.Brand] = true
			facets.Brands = append(facets.Brands, v.Brand)
		}
		if !seenType[v.Type] {
			seenType[v.Type] = true
			facets.Types = append(facets.Types, v.Type)
		}
	}
	return facets
}

func (s *catalogService) List(ctx context.Context, filter models.VehicleFilter) ([]*models.Vehicle, error) {
	vehicles, err := s.vehicles.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list vehicles: %w", err)
	}
	return FilterVehicles(vehicles, filter), nil
}

func (s *catalogService) Featured(ctx context.Context, filter models.VehicleFilter) ([]*models.Vehicle, error) {
	vehicles, err := s.vehicles.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list vehicles: %w", err)
	}
	return FeaturedVehicles(vehicles, filter), nil
}

func (s *catalogService) Facets(ctx context.Context) (*models.CatalogFacets, error) {
	vehicles, err := s.vehicles.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list vehicles: %w", err)
	}
	return BuildFacets(vehicles), nil
}

func (s *catalogService) Get(ctx context.Context, id string) (*models.Vehicle, error) {
	vehicle, err := s.vehicles.GetByID(ctx, id)
	if err != nil {
		return nil, fromRepository(err)
	}
	return vehicle, nil
}

func (s *catalogService) Create(ctx context.Context, actor *models.User, input *VehicleInput) (*models.Vehicle, error) {
	if err := authorize(s.policy, actor, ActionVehicleCreate, nil); err != nil {
		return nil, err
	}
	if err := checkVehicleInput(input); err != nil {
		return nil, err
	}

	vehicle := &models.Vehicle{
		ID:        uuid.NewString(),
		Available: true,
		Image:     models.DefaultVehicleImage,
	}
	applyVehicleInput(vehicle, input)

	if err := s.vehicles.Create(ctx, vehicle); err != nil {
		return nil, fromRepository(err)
	}

	s.logger.LogUserAction(actor.ID, utils.EventVehicleCreated, map[string]interface{}{"vehicle_id": vehicle.ID})
	return vehicle, nil
}

// Update replaces the editable fields. Bookings keep the snapshot taken at
// checkout and are not touched.
func (s *catalogService) Update(ctx context.Context, actor *models.User, id string, input *VehicleInput) (*models.Vehicle, error) {
	if err := authorize(s.policy, actor, ActionVehicleUpdate, nil); err != nil {
		return nil, err
	}
	if err := checkVehicleInput(input); err != nil {
		return nil, err
	}

	vehicle, err := s.vehicles.GetByID(ctx, id)
	if err != nil {
		return nil, fromRepository(err)
	}
	applyVehicleInput(vehicle, input)

	if err := s.vehicles.Update(ctx, vehicle); err != nil {
		return nil, fromRepository(err)
	}

	s.logger.LogUserAction(actor.ID, utils.EventVehicleUpdated, map[string]interface{}{"vehicle_id": vehicle.ID})
	return vehicle, nil
}

func (s *catalogService) Delete(ctx context.Context, actor *models.User, id string) error {
	if err := authorize(s.policy, actor, ActionVehicleDelete, nil); err != nil {
		return err
	}
	if err := s.vehicles.Delete(ctx, id); err != nil {
		return fromRepository(err)
	}

	s.logger.LogUserAction(actor.ID, utils.EventVehicleDeleted, map[string]interface{}{"vehicle_id": id})
	return nil
}

func checkVehicleInput(input *VehicleInput) error {
	switch {
	case input == nil:
		return newValidationError("", "vehicle is required")
	case strings.TrimSpace(input.Name) == "":
		return newValidationError("name", "is required")
	case strings.TrimSpace(input.Brand) == "":
		return newValidationError("brand", "is required")
	case strings.TrimSpace(input.Type) == "":
		return newValidationError("type", "is required")
	case input.Price < 0:
		return newValidationError("price", "must not be negative")
	}
	return nil
}

func applyVehicleInput(vehicle *models.Vehicle, input *VehicleInput) {
	vehicle.Name = strings.TrimSpace(input.Name)
	vehicle.Brand = strings.TrimSpace(input.Brand)
	vehicle.Type = strings.TrimSpace(input.Type)
	vehicle.Year = input.Year
	vehicle.Seats = input.Seats
	vehicle.Transmission = input.Transmission
	vehicle.Fuel = input.Fuel
	vehicle.Price = input.Price
	if input.Image != "" {
		vehicle.Image = input.Image
	}
	if input.Available != nil {
		vehicle.Available = *input.Available
	}
}
