package services

import "luxedrive/internal/models"

const (
	stepConfirmed   = "Booking Confirmed"
	stepPreparation = "Vehicle Preparation"
	stepReady       = "Ready for Pickup"
	stepComplete    = "Rental Complete"
	stepCancelled   = "Booking Cancelled"
)

// Timeline derives the progress steps shown on the tracking page. A
// cancelled booking stops after confirmation and gets a fifth step.
func Timeline(booking *models.Booking) []models.TrackingStep {
	status := booking.Status

	steps := []models.TrackingStep{
		{Title: stepConfirmed, Description: "Your reservation has been confirmed", State: models.StepStateCompleted},
		{Title: stepPreparation, Description: "Vehicle is being prepared for pickup", State: models.StepStateCompleted},
		{Title: stepReady, Description: "Vehicle is ready at the pickup location", State: models.StepStatePending},
		{Title: stepComplete, Description: "Vehicle has been returned", State: models.StepStatePending},
	}

	switch status {
	case models.BookingStatusConfirmed:
		steps[1].State = models.StepStateCurrent
	case models.BookingStatusActive:
		steps[2].State = models.StepStateCurrent
	case models.BookingStatusCompleted:
		steps[2].State = models.StepStateCompleted
		steps[3].State = models.StepStateCompleted
	case models.BookingStatusCancelled:
		steps[1].State = models.StepStatePending
		steps = append(steps, models.TrackingStep{
			Title:       stepCancelled,
			Description: "This booking has been cancelled",
			State:       models.StepStateCompleted,
		})
	}

	return steps
}
