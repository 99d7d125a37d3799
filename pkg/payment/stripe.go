package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

type StripeProcessor struct {
	client *client.API
}

func NewStripeProcessor(secretKey string) *StripeProcessor {
	sc := &client.API{}
	sc.Init(secretKey, nil)

	return &StripeProcessor{client: sc}
}

// NewStripeProcessorWithBackends is used when the API base URL or HTTP
// client must be overridden.
func NewStripeProcessorWithBackends(secretKey string, backends *stripe.Backends) *StripeProcessor {
	sc := &client.API{}
	sc.Init(secretKey, backends)

	return &StripeProcessor{client: sc}
}

func (s *StripeProcessor) Name() string {
	return "stripe"
}

func (s *StripeProcessor) Charge(ctx context.Context, request *ChargeRequest) (*ChargeResult, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(toCents(request.Amount)),
		Currency: stripe.String(strings.ToLower(request.Currency)),
		Confirm:  stripe.Bool(true),
	}
	params.Context = ctx

	if request.PaymentMethodID != "" {
		params.PaymentMethod = stripe.String(request.PaymentMethodID)
	}
	if request.Description != "" {
		params.Description = stripe.String(request.Description)
	}
	if request.Reference != "" {
		params.SetIdempotencyKey(request.Reference)
		params.AddMetadata("reference", request.Reference)
	}
	if request.CustomerID != "" {
		params.AddMetadata("user_id", request.CustomerID)
	}
	for key, value := range request.Metadata {
		params.AddMetadata(key, value)
	}

	pi, err := s.client.PaymentIntents.New(params)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) && stripeErr.Type == stripe.ErrorTypeCard {
			return &ChargeResult{
				Status:   StatusDeclined,
				Amount:   request.Amount,
				Currency: request.Currency,
				Message:  stripeErr.Msg,
			}, nil
		}
		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}

	result := &ChargeResult{
		TransactionID: pi.ID,
		Amount:        float64(pi.Amount) / 100,
		Currency:      strings.ToUpper(string(pi.Currency)),
		CreatedAt:     pi.Created,
	}

	switch pi.Status {
	case stripe.PaymentIntentStatusSucceeded:
		result.Status = StatusSucceeded
	case stripe.PaymentIntentStatusRequiresPaymentMethod, stripe.PaymentIntentStatusCanceled:
		result.Status = StatusDeclined
		if pi.LastPaymentError != nil {
			result.Message = pi.LastPaymentError.Msg
		}
	default:
		// processing, requires_action: not settled within this attempt
		result.Status = StatusTimedOut
		result.Message = string(pi.Status)
	}

	return result, nil
}
