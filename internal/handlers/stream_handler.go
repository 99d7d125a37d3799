package handlers

import (
	"time"

	"luxedrive/internal/middleware"
	"luxedrive/internal/models"
	"luxedrive/internal/services"
	"luxedrive/pkg/websocket"

	"github.com/gin-gonic/gin"
)

const messageBookingUpdated = "booking_updated"

// BookingStream pushes booking changes to the owner's tracking page and
// to every connected admin.
type BookingStream struct {
	hub     *websocket.Hub
	handler *websocket.Handler
}

func NewBookingStream(hub *websocket.Hub, handler *websocket.Handler) *BookingStream {
	return &BookingStream{hub: hub, handler: handler}
}

func (s *BookingStream) BookingChanged(booking *models.Booking) {
	message := websocket.Message{
		Type:      messageBookingUpdated,
		Timestamp: time.Now().Unix(),
		Data: map[string]interface{}{
			"booking":  booking,
			"timeline": services.Timeline(booking),
		},
	}
	s.hub.SendToUser(booking.UserID, message)
	s.hub.SendToRoom(websocket.AdminRoom, message)
}

// Connect upgrades an authenticated request to the booking stream.
func (s *BookingStream) Connect(c *gin.Context) {
	user := middleware.CurrentUser(c)
	s.handler.HandleWebSocket(c, user.ID, user.IsAdmin())
}
