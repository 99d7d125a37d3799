package models

type StepState string

const (
	StepStateCompleted StepState = "completed"
	StepStateCurrent   StepState = "current"
	StepStatePending   StepState = "pending"
)

type TrackingStep struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	State       StepState `json:"state"`
}

type BookingTracking struct {
	Booking  *Booking       `json:"booking"`
	Timeline []TrackingStep `json:"timeline"`
}
