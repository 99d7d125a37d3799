package payment

import (
	"context"
	"errors"
	"time"
)

// Task is one charge running in the background. Its result is delivered
// once; Wait may be called from a single goroutine.
type Task struct {
	done   chan struct{}
	cancel context.CancelFunc
	result *ChargeResult
	err    error
}

// Start runs the charge on its own goroutine. When timeout is positive an
// attempt that outlives it resolves to StatusTimedOut.
func Start(ctx context.Context, processor Processor, request *ChargeRequest, timeout time.Duration) *Task {
	var (
		attemptCtx context.Context
		cancel     context.CancelFunc
	)
	if timeout > 0 {
		attemptCtx, cancel = context.WithTimeout(ctx, timeout)
	} else {
		attemptCtx, cancel = context.WithCancel(ctx)
	}

	t := &Task{
		done:   make(chan struct{}),
		cancel: cancel,
	}

	go func() {
		defer close(t.done)
		defer cancel()

		result, err := processor.Charge(attemptCtx, request)
		switch {
		case err == nil:
			t.result = result
		case ctx.Err() != nil:
			t.err = ErrCancelled
		case errors.Is(err, context.DeadlineExceeded):
			t.result = &ChargeResult{
				Status:   StatusTimedOut,
				Amount:   request.Amount,
				Currency: request.Currency,
				Message:  "processor did not answer in time",
			}
		case errors.Is(err, context.Canceled):
			t.err = ErrCancelled
		default:
			t.err = err
		}
	}()

	return t
}

func (t *Task) Done() <-chan struct{} {
	return t.done
}

func (t *Task) Cancel() {
	t.cancel()
}

// Wait blocks until the charge finishes or ctx ends. Ending ctx cancels the
// charge and returns ErrCancelled.
func (t *Task) Wait(ctx context.Context) (*ChargeResult, error) {
	select {
	case <-t.done:
		return t.result, t.err
	case <-ctx.Done():
		t.cancel()
		<-t.done
		return nil, ErrCancelled
	}
}
