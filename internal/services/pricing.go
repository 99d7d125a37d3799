package services

import (
	"math"
	"time"

	"luxedrive/internal/models"
)

const (
	ServiceFeeRate = 0.05
	TaxRate        = 0.10
	// ChargeMultiplier is applied once, to the cart total at checkout.
	ChargeMultiplier = 1 + ServiceFeeRate + TaxRate
)

// RentalDays counts started days between start and end, at least one.
func RentalDays(start, end time.Time) (int, error) {
	if start.IsZero() {
		return 0, newValidationError("start_date", "is required")
	}
	if end.IsZero() {
		return 0, newValidationError("end_date", "is required")
	}
	if !end.After(start) {
		return 0, newValidationError("end_date", "must be after start date")
	}

	days := int(math.Ceil(end.Sub(start).Hours() / 24))
	if days < 1 {
		days = 1
	}
	return days, nil
}

// CartTotal is the sum of price times days, without fee or tax.
func CartTotal(cart *models.Cart) float64 {
	if cart == nil {
		return 0
	}
	var total float64
	for _, item := range cart.Items {
		total += item.Subtotal()
	}
	return total
}

func Summarize(cart *models.Cart) models.PriceBreakdown {
	subtotal := CartTotal(cart)
	return models.PriceBreakdown{
		Subtotal:   subtotal,
		ServiceFee: subtotal * ServiceFeeRate,
		Tax:        subtotal * TaxRate,
		Total:      subtotal * ChargeMultiplier,
	}
}

func BookingTotal(item models.CartItem) float64 {
	return item.Subtotal() * ChargeMultiplier
}
