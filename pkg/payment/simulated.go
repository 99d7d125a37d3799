package payment

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
)

// SimulatedProcessor stands in for a gateway. It waits Latency and then
// succeeds, unless DeclineRate or TimeoutRate pick another outcome.
type SimulatedProcessor struct {
	Latency     time.Duration
	DeclineRate float64
	TimeoutRate float64

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewSimulatedProcessor(latency time.Duration, declineRate, timeoutRate float64) *SimulatedProcessor {
	return &SimulatedProcessor{
		Latency:     latency,
		DeclineRate: declineRate,
		TimeoutRate: timeoutRate,
		rnd:         rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (s *SimulatedProcessor) Name() string {
	return "simulated"
}

func (s *SimulatedProcessor) Charge(ctx context.Context, request *ChargeRequest) (*ChargeResult, error) {
	if s.Latency > 0 {
		timer := time.NewTimer(s.Latency)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	result := &ChargeResult{
		TransactionID: "sim_" + uuid.NewString(),
		Status:        s.outcome(),
		Amount:        request.Amount,
		Currency:      request.Currency,
		CreatedAt:     time.Now().Unix(),
	}
	if result.Status == StatusDeclined {
		result.TransactionID = ""
		result.Message = "card declined"
	}

	return result, nil
}

func (s *SimulatedProcessor) outcome() Status {
	if s.DeclineRate <= 0 && s.TimeoutRate <= 0 {
		return StatusSucceeded
	}

	s.mu.Lock()
	if s.rnd == nil {
		s.rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	roll := s.rnd.Float64()
	s.mu.Unlock()

	switch {
	case roll < s.DeclineRate:
		return StatusDeclined
	case roll < s.DeclineRate+s.TimeoutRate:
		return StatusTimedOut
	default:
		return StatusSucceeded
	}
}
