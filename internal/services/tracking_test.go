package services

import (
	"testing"

	"luxedrive/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func states(steps []models.TrackingStep) []models.StepState {
	out := make([]models.StepState, len(steps))
	for i, s := range steps {
		out[i] = s.State
	}
	return out
}

func TestTimeline(t *testing.T) {
	const (
		done    = models.StepStateCompleted
		current = models.StepStateCurrent
		pending = models.StepStatePending
	)

	tests := []struct {
		status models.BookingStatus
		want   []models.StepState
	}{
		{models.BookingStatusPending, []models.StepState{done, done, pending, pending}},
		{models.BookingStatusConfirmed, []models.StepState{done, current, pending, pending}},
		{models.BookingStatusActive, []models.StepState{done, done, current, pending}},
		{models.BookingStatusCompleted, []models.StepState{done, done, done, done}},
		{models.BookingStatusCancelled, []models.StepState{done, pending, pending, pending, done}},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			steps := Timeline(&models.Booking{Status: tt.status})
			assert.Equal(t, tt.want, states(steps))
		})
	}
}

func TestTimelineTitles(t *testing.T) {
	steps := Timeline(&models.Booking{Status: models.BookingStatusCancelled})
	require.Len(t, steps, 5)

	assert.Equal(t, "Booking Confirmed", steps[0].Title)
	assert.Equal(t, "Vehicle Preparation", steps[1].Title)
	assert.Equal(t, "Ready for Pickup", steps[2].Title)
	assert.Equal(t, "Rental Complete", steps[3].Title)
	assert.Equal(t, "Booking Cancelled", steps[4].Title)
	for _, s := range steps {
		assert.NotEmpty(t, s.Description)
	}
}
