package validators

import (
	"strings"

	"luxedrive/internal/models"
	"luxedrive/internal/services"
	"luxedrive/internal/utils"
)

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,max=128"`
	Role     string `json:"role" validate:"user_role"`
}

func (r *LoginRequest) ToService() *services.LoginRequest {
	return &services.LoginRequest{
		Email:    strings.TrimSpace(r.Email),
		Password: r.Password,
		Role:     models.UserRole(r.Role),
	}
}

type SignupRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,max=72"`
	Name     string `json:"name" validate:"required,max=100"`
}

func (r *SignupRequest) ToService() *services.SignupRequest {
	return &services.SignupRequest{
		Email:    strings.TrimSpace(r.Email),
		Password: r.Password,
		Name:     strings.TrimSpace(r.Name),
	}
}

// AddToCartRequest carries dates as entered in the booking form.
type AddToCartRequest struct {
	VehicleID string `json:"vehicle_id" validate:"required,max=64"`
	StartDate string `json:"start_date" validate:"required,rental_date"`
	EndDate   string `json:"end_date" validate:"required,rental_date"`
}

func (r *AddToCartRequest) ToService() (*services.AddToCartRequest, error) {
	start, err := utils.ParseDate(r.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := utils.ParseDate(r.EndDate)
	if err != nil {
		return nil, err
	}
	return &services.AddToCartRequest{
		VehicleID: r.VehicleID,
		StartDate: start,
		EndDate:   end,
	}, nil
}

type CheckoutRequest struct {
	PaymentMethodID string `json:"payment_method_id" validate:"omitempty,max=255"`
}

func (r *CheckoutRequest) ToService() *services.CheckoutRequest {
	return &services.CheckoutRequest{PaymentMethodID: r.PaymentMethodID}
}

type UpdateBookingStatusRequest struct {
	Status string `json:"status" validate:"required,booking_status"`
}

func ValidateVehicleInput(input *services.VehicleInput) ValidationErrors {
	return ValidateStruct(input)
}
