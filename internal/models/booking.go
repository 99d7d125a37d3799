package models

import "time"

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusActive    BookingStatus = "active"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusActive,
		BookingStatusCompleted, BookingStatusCancelled:
		return true
	}
	return false
}

func (s BookingStatus) IsTerminal() bool {
	return s == BookingStatusCompleted || s == BookingStatusCancelled
}

// IsOngoing reports whether the booking counts as an active rental on the
// dashboards.
func (s BookingStatus) IsOngoing() bool {
	return s == BookingStatusConfirmed || s == BookingStatusActive
}

// Booking embeds a snapshot of the vehicle at checkout time. Later catalog
// edits must not change it.
type Booking struct {
	ID         string        `json:"id" bson:"_id"`
	UserID     string        `json:"user_id" bson:"user_id"`
	Vehicle    Vehicle       `json:"vehicle" bson:"vehicle"`
	StartDate  time.Time     `json:"start_date" bson:"start_date"`
	EndDate    time.Time     `json:"end_date" bson:"end_date"`
	TotalPrice float64       `json:"total_price" bson:"total_price"`
	Status     BookingStatus `json:"status" bson:"status" default:"confirmed"`
	CreatedAt  time.Time     `json:"created_at" bson:"created_at"`
}

type UserBookingStats struct {
	Active  int `json:"active"`
	History int `json:"history"`
	Total   int `json:"total"`
}

type AdminBookingStats struct {
	TotalBookings  int     `json:"total_bookings"`
	ActiveBookings int     `json:"active_bookings"`
	TotalRevenue   float64 `json:"total_revenue"`
}
