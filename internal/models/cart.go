package models

import "time"

// CartItem holds a copy of the vehicle taken when the item was added; the
// catalog stays the source of truth for price and availability.
type CartItem struct {
	Vehicle   Vehicle   `json:"vehicle"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Days      int       `json:"days"`
}

func (i CartItem) Subtotal() float64 {
	return i.Vehicle.Price * float64(i.Days)
}

// CartCheckout holds the items a checkout took out of the cart while the
// payment runs. Reference is the payment reference of that checkout.
type CartCheckout struct {
	Reference string     `json:"reference"`
	Items     []CartItem `json:"items"`
	StartedAt time.Time  `json:"started_at"`
}

type Cart struct {
	Items    []CartItem    `json:"items"`
	Checkout *CartCheckout `json:"checkout,omitempty"`
}

func (c *Cart) IsEmpty() bool {
	return c == nil || len(c.Items) == 0
}

// PriceBreakdown is the order summary shown for a cart. Total is
// Subtotal plus ServiceFee plus Tax.
type PriceBreakdown struct {
	Subtotal   float64 `json:"subtotal"`
	ServiceFee float64 `json:"service_fee"`
	Tax        float64 `json:"tax"`
	Total      float64 `json:"total"`
}
