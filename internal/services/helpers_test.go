package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"luxedrive/internal/models"
	"luxedrive/internal/repositories/interfaces"
	"luxedrive/internal/repositories/kv"
	"luxedrive/internal/storage"
	"luxedrive/pkg/logger"
	"luxedrive/pkg/payment"

	"github.com/stretchr/testify/require"
)

var (
	testUser  = &models.User{ID: "u1", Email: "ada@example.com", Name: "ada", Role: models.UserRoleUser}
	otherUser = &models.User{ID: "u2", Email: "bob@example.com", Name: "bob", Role: models.UserRoleUser}
	testAdmin = &models.User{ID: "a1", Email: "root@example.com", Name: "root", Role: models.UserRoleAdmin}
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

// scriptedProcessor answers with the queued outcomes in order and repeats
// the last one.
type scriptedProcessor struct {
	mu       sync.Mutex
	outcomes []outcome
	calls    int
	requests []*payment.ChargeRequest
}

type outcome struct {
	status payment.Status
	err    error
	block  bool
}

func succeed() *scriptedProcessor {
	return &scriptedProcessor{outcomes: []outcome{{status: payment.StatusSucceeded}}}
}

func (p *scriptedProcessor) Name() string { return "scripted" }

func (p *scriptedProcessor) Charge(ctx context.Context, request *payment.ChargeRequest) (*payment.ChargeResult, error) {
	p.mu.Lock()
	o := p.outcomes[len(p.outcomes)-1]
	if p.calls < len(p.outcomes) {
		o = p.outcomes[p.calls]
	}
	p.calls++
	p.requests = append(p.requests, request)
	p.mu.Unlock()

	if o.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if o.err != nil {
		return nil, o.err
	}
	return &payment.ChargeResult{TransactionID: "tx", Status: o.status, Amount: request.Amount}, nil
}

func (p *scriptedProcessor) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

type fixture struct {
	store    *storage.MemoryStore
	vehicles interfaces.VehicleRepository
	carts    interfaces.CartRepository
	bookings interfaces.BookingRepository
	sessions interfaces.SessionRepository

	cart    CartService
	booking BookingService
	catalog CatalogService
}

func newFixture(t *testing.T, processor payment.Processor) *fixture {
	t.Helper()

	store := storage.NewMemoryStore()
	require.NoError(t, kv.SeedVehicles(context.Background(), store, []*models.Vehicle{
		{ID: "v100", Name: "Test Sedan", Brand: "Acme", Type: "Sedan", Price: 100, Available: true},
		{ID: "v250", Name: "Test SUV", Brand: "Acme", Type: "SUV", Price: 250, Available: true},
		{ID: "gone", Name: "Retired Coupe", Brand: "Old", Type: "Coupe", Price: 50, Available: false},
	}))

	log := logger.NewDiscard()
	policy := NewPolicy()

	f := &fixture{
		store:    store,
		vehicles: kv.NewVehicleRepository(store),
		carts:    kv.NewCartRepository(store),
		bookings: kv.NewBookingRepository(store),
		sessions: kv.NewSessionRepository(store),
	}
	f.cart = NewCartService(f.carts, f.vehicles, policy, log)
	f.catalog = NewCatalogService(f.vehicles, policy, log)
	f.booking = NewBookingService(f.bookings, f.carts, processor, policy, CheckoutOptions{
		Currency:       "USD",
		AttemptTimeout: time.Second,
		MaxAttempts:    3,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     5 * time.Millisecond,
	}, log)
	return f
}

func (f *fixture) addItem(t *testing.T, session string, actor *models.User, vehicleID, start, end string) {
	t.Helper()
	_, err := f.cart.Add(context.Background(), session, actor, &AddToCartRequest{
		VehicleID: vehicleID,
		StartDate: date(start),
		EndDate:   date(end),
	})
	require.NoError(t, err)
}
