package handlers

import (
	"luxedrive/internal/middleware"
	"luxedrive/internal/models"
	"luxedrive/internal/services"
	"luxedrive/internal/utils"
	"luxedrive/internal/validators"
	"luxedrive/pkg/logger"

	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	bookingService services.BookingService
	logger         *logger.Logger
}

func NewBookingHandler(bookingService services.BookingService, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		bookingService: bookingService,
		logger:         log,
	}
}

type UserBookingsView struct {
	Bookings []*models.Booking       `json:"bookings"`
	Stats    models.UserBookingStats `json:"stats"`
}

type AdminBookingsView struct {
	Bookings []*models.Booking        `json:"bookings"`
	Stats    models.AdminBookingStats `json:"stats"`
}

// Checkout charges the whole cart. The body is optional.
func (h *BookingHandler) Checkout(c *gin.Context) {
	var request validators.CheckoutRequest
	if !bindOptionalJSON(c, &request) {
		return
	}

	bookings, err := h.bookingService.Checkout(c.Request.Context(), middleware.SessionID(c), middleware.CurrentUser(c), request.ToService())
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	utils.CreatedResponse(c, "Booking confirmed", bookings)
}

func (h *BookingHandler) ListBookings(c *gin.Context) {
	user := middleware.CurrentUser(c)
	bookings, err := h.bookingService.ListForUser(c.Request.Context(), user.ID)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	utils.SuccessResponse(c, "Bookings retrieved successfully", &UserBookingsView{
		Bookings: nonNil(bookings),
		Stats:    services.UserStats(bookings),
	})
}

func (h *BookingHandler) GetBooking(c *gin.Context) {
	booking, err := h.bookingService.Get(c.Request.Context(), c.Param("id"), middleware.CurrentUser(c))
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	utils.SuccessResponse(c, "Booking retrieved successfully", booking)
}

func (h *BookingHandler) TrackBooking(c *gin.Context) {
	booking, err := h.bookingService.Get(c.Request.Context(), c.Param("id"), middleware.CurrentUser(c))
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	utils.SuccessResponse(c, "Booking tracking retrieved successfully", &models.BookingTracking{
		Booking:  booking,
		Timeline: services.Timeline(booking),
	})
}

func (h *BookingHandler) ListAllBookings(c *gin.Context) {
	bookings, err := h.bookingService.ListAll(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	utils.SuccessResponseWithMeta(c, "Bookings retrieved successfully", &AdminBookingsView{
		Bookings: nonNil(bookings),
		Stats:    services.AdminStats(bookings),
	}, &utils.Meta{Total: len(bookings), Count: len(bookings)})
}

func (h *BookingHandler) UpdateStatus(c *gin.Context) {
	var request validators.UpdateBookingStatusRequest
	if !bindJSON(c, &request) {
		return
	}

	booking, err := h.bookingService.SetStatus(c.Request.Context(), c.Param("id"), models.BookingStatus(request.Status), middleware.CurrentUser(c))
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	utils.SuccessResponse(c, "Booking status updated", booking)
}

func nonNil(bookings []*models.Booking) []*models.Booking {
	if bookings == nil {
		return []*models.Booking{}
	}
	return bookings
}
