package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"luxedrive/internal/models"
	"luxedrive/internal/repositories/interfaces"
	"luxedrive/internal/utils"
	"luxedrive/pkg/logger"
	"luxedrive/pkg/payment"

	"github.com/google/uuid"
)

type BookingService interface {
	Checkout(ctx context.Context, sessionID string, actor *models.User, request *CheckoutRequest) ([]*models.Booking, error)
	SetStatus(ctx context.Context, bookingID string, status models.BookingStatus, actor *models.User) (*models.Booking, error)
	ListForUser(ctx context.Context, userID string) ([]*models.Booking, error)
	Get(ctx context.Context, bookingID string, actor *models.User) (*models.Booking, error)
	ListAll(ctx context.Context, actor *models.User) ([]*models.Booking, error)
}

type CheckoutRequest struct {
	PaymentMethodID string `json:"payment_method_id"`
}

// CheckoutOptions controls the payment retry loop.
type CheckoutOptions struct {
	Currency       string
	AttemptTimeout time.Duration
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

func DefaultCheckoutOptions() CheckoutOptions {
	return CheckoutOptions{
		Currency:       utils.DefaultCurrency,
		AttemptTimeout: 10 * time.Second,
		MaxAttempts:    3,
		InitialBackoff: 200 * time.Millisecond,
		MaxBackoff:     2 * time.Second,
	}
}

type bookingService struct {
	bookings  interfaces.BookingRepository
	carts     interfaces.CartRepository
	processor payment.Processor
	policy    Policy
	options   CheckoutOptions
	logger    *logger.Logger
	notifier  BookingNotifier
	now       func() time.Time
}

// BookingNotifier is told about every booking that is created or changes
// status.
type BookingNotifier interface {
	BookingChanged(booking *models.Booking)
}

type BookingOption func(*bookingService)

func WithNotifier(notifier BookingNotifier) BookingOption {
	return func(s *bookingService) {
		s.notifier = notifier
	}
}

func NewBookingService(
	bookings interfaces.BookingRepository,
	carts interfaces.CartRepository,
	processor payment.Processor,
	policy Policy,
	options CheckoutOptions,
	log *logger.Logger,
	opts ...BookingOption,
) BookingService {
	if options.MaxAttempts < 1 {
		options.MaxAttempts = 1
	}
	if options.Currency == "" {
		options.Currency = utils.DefaultCurrency
	}

	s := &bookingService{
		bookings:  bookings,
		carts:     carts,
		processor: processor,
		policy:    policy,
		options:   options,
		logger:    log,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *bookingService) notify(booking *models.Booking) {
	if s.notifier != nil {
		s.notifier.BookingChanged(booking)
	}
}

// Checkout charges the cart total with fee and tax and turns every cart
// item into a confirmed booking. The items are claimed with a
// compare-and-swap before the charge, so a second checkout of the same
// cart fails with ErrCheckoutInProgress instead of paying twice. A failed
// charge puts the items back. There is no refund if storing the bookings
// fails after the charge.
func (s *bookingService) Checkout(ctx context.Context, sessionID string, actor *models.User, request *CheckoutRequest) ([]*models.Booking, error) {
	if err := authorize(s.policy, actor, ActionCheckout, nil); err != nil {
		return nil, err
	}
	if request == nil {
		request = &CheckoutRequest{}
	}

	reference := uuid.NewString()
	items, err := s.claimCart(ctx, sessionID, reference)
	if err != nil {
		return nil, err
	}
	cart := &models.Cart{Items: items}
	amount := CartTotal(cart) * ChargeMultiplier

	result, err := s.charge(ctx, &payment.ChargeRequest{
		Reference:       reference,
		CustomerID:      actor.ID,
		PaymentMethodID: request.PaymentMethodID,
		Amount:          amount,
		Currency:        s.options.Currency,
		Description:     fmt.Sprintf("%s rental, %d vehicle(s)", utils.AppName, len(items)),
	})
	if err != nil {
		if rerr := s.releaseClaim(context.WithoutCancel(ctx), sessionID, reference, true); rerr != nil {
			s.logger.WithUserID(actor.ID).WithError(rerr).Error("Failed to return items to cart after failed payment")
		}
		return nil, err
	}

	now := s.now().UTC()
	created := make([]*models.Booking, 0, len(items))
	for _, item := range items {
		created = append(created, &models.Booking{
			ID:         uuid.NewString(),
			UserID:     actor.ID,
			Vehicle:    item.Vehicle,
			StartDate:  item.StartDate,
			EndDate:    item.EndDate,
			TotalPrice: BookingTotal(item),
			Status:     models.BookingStatusConfirmed,
			CreatedAt:  now,
		})
	}

	appendErr := s.bookings.Append(ctx, created...)

	// The charge went through, so the claimed items never go back to the cart.
	if err := s.releaseClaim(context.WithoutCancel(ctx), sessionID, reference, false); err != nil {
		s.logger.WithUserID(actor.ID).WithError(err).Warn("Failed to release cart after checkout")
	}

	if appendErr != nil {
		s.logger.WithUserID(actor.ID).WithError(appendErr).WithFields(map[string]interface{}{
			"transaction_id": result.TransactionID,
			"items":          len(items),
		}).Error("Bookings not stored after successful charge")
		return nil, fromRepository(appendErr)
	}

	for _, b := range created {
		s.logger.LogBookingEvent(b.ID, utils.EventBookingCreated, map[string]interface{}{
			"user_id":     b.UserID,
			"vehicle_id":  b.Vehicle.ID,
			"total_price": b.TotalPrice,
		})
		s.notify(b)
	}

	return created, nil
}

// claimCart moves the cart items into the checkout hold. A hold older than
// the longest possible payment is treated as abandoned and its items are
// claimed again.
func (s *bookingService) claimCart(ctx context.Context, sessionID, reference string) ([]models.CartItem, error) {
	var claimed []models.CartItem
	err := updateCart(ctx, s.carts, sessionID, func(cart *models.Cart) error {
		now := s.now().UTC()
		if held := cart.Checkout; held != nil {
			if now.Sub(held.StartedAt) < s.holdTimeout() {
				return ErrCheckoutInProgress
			}
			s.logger.WithField("reference", held.Reference).Warn("Reclaiming abandoned checkout")
			cart.Items = append(append([]models.CartItem{}, held.Items...), cart.Items...)
			cart.Checkout = nil
		}
		if cart.IsEmpty() {
			return ErrEmptyCart
		}

		claimed = cart.Items
		cart.Checkout = &models.CartCheckout{
			Reference: reference,
			Items:     cart.Items,
			StartedAt: now,
		}
		cart.Items = []models.CartItem{}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return claimed, nil
}

// releaseClaim drops the hold taken under reference. With restore the held
// items go back in front of anything added while the payment ran.
func (s *bookingService) releaseClaim(ctx context.Context, sessionID, reference string, restore bool) error {
	return updateCart(ctx, s.carts, sessionID, func(cart *models.Cart) error {
		held := cart.Checkout
		if held == nil || held.Reference != reference {
			return errCartUnchanged
		}
		if restore {
			cart.Items = append(append([]models.CartItem{}, held.Items...), cart.Items...)
		}
		cart.Checkout = nil
		return nil
	})
}

// holdTimeout bounds how long a checkout can keep the cart: every attempt
// timing out plus every backoff, with a minute to spare.
func (s *bookingService) holdTimeout() time.Duration {
	attempts := time.Duration(s.options.MaxAttempts)
	return attempts*(s.options.AttemptTimeout+s.options.MaxBackoff) + time.Minute
}

// charge runs the payment as a cancellable task and retries timeouts and
// transport errors with exponential backoff.
func (s *bookingService) charge(ctx context.Context, request *payment.ChargeRequest) (*payment.ChargeResult, error) {
	backoff := s.options.InitialBackoff
	var lastErr error

	for attempt := 1; attempt <= s.options.MaxAttempts; attempt++ {
		s.logger.LogPaymentEvent(request.Reference, utils.EventPaymentAttempt, request.Amount, request.Currency)

		task := payment.Start(ctx, s.processor, request, s.options.AttemptTimeout)
		result, err := task.Wait(ctx)

		switch {
		case errors.Is(err, payment.ErrCancelled) && ctx.Err() != nil:
			return nil, ctx.Err()
		case err != nil:
			lastErr = err
			s.logger.WithError(err).WithField("attempt", attempt).Warn("Payment attempt failed")
		case result.Status == payment.StatusSucceeded:
			s.logger.LogPaymentEvent(result.TransactionID, utils.EventPaymentSucceeded, result.Amount, request.Currency)
			return result, nil
		case result.Status == payment.StatusDeclined:
			s.logger.LogPaymentEvent(request.Reference, utils.EventPaymentDeclined, request.Amount, request.Currency)
			if result.Message != "" {
				return nil, fmt.Errorf("%w: %s", ErrPaymentDeclined, result.Message)
			}
			return nil, ErrPaymentDeclined
		default:
			lastErr = ErrPaymentTimedOut
			s.logger.LogPaymentEvent(request.Reference, utils.EventPaymentTimedOut, request.Amount, request.Currency)
		}

		if attempt == s.options.MaxAttempts {
			break
		}
		if err := sleep(ctx, backoff); err != nil {
			return nil, err
		}
		backoff *= 2
		if s.options.MaxBackoff > 0 && backoff > s.options.MaxBackoff {
			backoff = s.options.MaxBackoff
		}
	}

	if lastErr != nil && !errors.Is(lastErr, ErrPaymentTimedOut) {
		return nil, fmt.Errorf("%w after %d attempts: %w", ErrPaymentTimedOut, s.options.MaxAttempts, lastErr)
	}
	return nil, fmt.Errorf("%w after %d attempts", ErrPaymentTimedOut, s.options.MaxAttempts)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// SetStatus lets an admin move a booking to any status. Transitions are
// not checked against the lifecycle order.
func (s *bookingService) SetStatus(ctx context.Context, bookingID string, status models.BookingStatus, actor *models.User) (*models.Booking, error) {
	if !s.policy.Can(actor, ActionBookingSetStatus, nil) {
		return nil, ErrForbidden
	}
	if !status.Valid() {
		return nil, newValidationError("status", fmt.Sprintf("unknown status %q", status))
	}

	booking, err := s.bookings.UpdateStatus(ctx, bookingID, status)
	if err != nil {
		return nil, fromRepository(err)
	}

	s.logger.LogBookingEvent(booking.ID, utils.EventBookingStatus, map[string]interface{}{
		"status":   string(status),
		"admin_id": actor.ID,
	})
	s.notify(booking)

	return booking, nil
}

func (s *bookingService) ListForUser(ctx context.Context, userID string) ([]*models.Booking, error) {
	bookings, err := s.bookings.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, nil
}

// Get hides bookings the actor may not read behind ErrNotFound.
func (s *bookingService) Get(ctx context.Context, bookingID string, actor *models.User) (*models.Booking, error) {
	if actor == nil {
		return nil, ErrUnauthenticated
	}

	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, fromRepository(err)
	}
	if !s.policy.Can(actor, ActionBookingRead, booking) {
		return nil, fmt.Errorf("booking %s: %w", bookingID, ErrNotFound)
	}
	return booking, nil
}

func (s *bookingService) ListAll(ctx context.Context, actor *models.User) ([]*models.Booking, error) {
	if err := authorize(s.policy, actor, ActionBookingListAll, nil); err != nil {
		return nil, err
	}

	bookings, err := s.bookings.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, nil
}

func UserStats(bookings []*models.Booking) models.UserBookingStats {
	stats := models.UserBookingStats{Total: len(bookings)}
	for _, b := range bookings {
		switch {
		case b.Status.IsOngoing():
			stats.Active++
		case b.Status.IsTerminal():
			stats.History++
		}
	}
	return stats
}

func AdminStats(bookings []*models.Booking) models.AdminBookingStats {
	stats := models.AdminBookingStats{TotalBookings: len(bookings)}
	for _, b := range bookings {
		if b.Status.IsOngoing() {
			stats.ActiveBookings++
		}
		stats.TotalRevenue += b.TotalPrice
	}
	return stats
}
