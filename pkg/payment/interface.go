package payment

import (
	"context"
	"errors"
)

type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusDeclined  Status = "declined"
	StatusTimedOut  Status = "timed_out"
)

// ErrCancelled is returned by Task.Wait when the caller gives up on a
// charge before the processor answered.
var ErrCancelled = errors.New("payment: charge cancelled")

// Processor charges a customer once. A declined card is a result, not an
// error; errors are reserved for transport failures the caller may retry.
type Processor interface {
	Name() string
	Charge(ctx context.Context, request *ChargeRequest) (*ChargeResult, error)
}

type ChargeRequest struct {
	Reference       string            `json:"reference"`
	CustomerID      string            `json:"customer_id"`
	PaymentMethodID string            `json:"payment_method_id"`
	Amount          float64           `json:"amount"`
	Currency        string            `json:"currency"`
	Description     string            `json:"description"`
	Metadata        map[string]string `json:"metadata"`
}

type ChargeResult struct {
	TransactionID string  `json:"transaction_id"`
	Status        Status  `json:"status"`
	Amount        float64 `json:"amount"`
	Currency      string  `json:"currency"`
	Message       string  `json:"message,omitempty"`
	CreatedAt     int64   `json:"created_at"`
}

func toCents(amount float64) int64 {
	if amount < 0 {
		return 0
	}
	return int64(amount*100 + 0.5)
}
