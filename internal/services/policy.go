package services

import "luxedrive/internal/models"

type Action string

const (
	ActionCartAdd          Action = "cart:add"
	ActionCheckout         Action = "checkout"
	ActionBookingRead      Action = "booking:read"
	ActionBookingListAll   Action = "booking:list_all"
	ActionBookingSetStatus Action = "booking:set_status"
	ActionVehicleCreate    Action = "vehicle:create"
	ActionVehicleUpdate    Action = "vehicle:update"
	ActionVehicleDelete    Action = "vehicle:delete"
)

// Policy decides what an actor may do. A nil actor is an anonymous caller.
type Policy interface {
	Can(actor *models.User, action Action, resource interface{}) bool
}

type rolePolicy struct{}

// NewPolicy returns the role based policy: admins may do everything,
// signed-in users may shop and read their own bookings.
func NewPolicy() Policy {
	return rolePolicy{}
}

func (rolePolicy) Can(actor *models.User, action Action, resource interface{}) bool {
	if actor == nil {
		return false
	}
	if actor.IsAdmin() {
		return true
	}

	switch action {
	case ActionCartAdd, ActionCheckout:
		return true
	case ActionBookingRead:
		booking, ok := resource.(*models.Booking)
		return ok && booking.UserID == actor.ID
	default:
		return false
	}
}

// authorize returns ErrUnauthenticated for anonymous callers and
// ErrForbidden when the policy refuses.
func authorize(policy Policy, actor *models.User, action Action, resource interface{}) error {
	if actor == nil {
		return ErrUnauthenticated
	}
	if !policy.Can(actor, action, resource) {
		return ErrForbidden
	}
	return nil
}
