package routes

import (
	"luxedrive/internal/handlers"
	"luxedrive/internal/middleware"
	"luxedrive/internal/services"
	"luxedrive/internal/utils"
	"luxedrive/pkg/logger"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Auth    *handlers.AuthHandler
	Catalog *handlers.CatalogHandler
	Cart    *handlers.CartHandler
	Booking *handlers.BookingHandler
	Health  *handlers.HealthHandler
	Stream  *handlers.BookingStream
}

// SetupRoutes mounts the storefront API under /api/v1.
func SetupRoutes(r *gin.Engine, h *Handlers, authService services.AuthService, log *logger.Logger) {
	r.GET("/health", h.Health.Health)
	r.NoRoute(func(c *gin.Context) {
		utils.NotFoundResponse(c, "route")
	})

	v1 := r.Group("/api/v1")
	v1.GET("/health", h.Health.Health)

	authRequired := middleware.AuthRequired(authService, log)

	auth := v1.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/signup", h.Auth.Signup)
		auth.POST("/logout", authRequired, h.Auth.Logout)
		auth.GET("/me", authRequired, h.Auth.Me)
	}

	vehicles := v1.Group("/vehicles")
	{
		vehicles.GET("", h.Catalog.ListVehicles)
		vehicles.GET("/featured", h.Catalog.FeaturedVehicles)
		vehicles.GET("/facets", h.Catalog.Facets)
		vehicles.GET("/:id", h.Catalog.GetVehicle)
	}

	cart := v1.Group("/cart")
	cart.Use(authRequired)
	{
		cart.GET("", h.Cart.GetCart)
		cart.POST("/items", h.Cart.AddItem)
		cart.DELETE("/items/:vehicleId", h.Cart.RemoveItem)
		cart.DELETE("", h.Cart.ClearCart)
	}

	v1.POST("/checkout", authRequired, h.Booking.Checkout)

	if h.Stream != nil {
		v1.GET("/bookings/stream", middleware.QueryToken(), authRequired, h.Stream.Connect)
	}

	bookings := v1.Group("/bookings")
	bookings.Use(authRequired)
	{
		bookings.GET("", h.Booking.ListBookings)
		bookings.GET("/:id", h.Booking.GetBooking)
		bookings.GET("/:id/tracking", h.Booking.TrackBooking)
	}

	admin := v1.Group("/admin")
	admin.Use(authRequired, middleware.AdminRequired())
	{
		admin.GET("/bookings", h.Booking.ListAllBookings)
		admin.PUT("/bookings/:id/status", h.Booking.UpdateStatus)

		admin.POST("/vehicles", h.Catalog.CreateVehicle)
		admin.PUT("/vehicles/:id", h.Catalog.UpdateVehicle)
		admin.DELETE("/vehicles/:id", h.Catalog.DeleteVehicle)
	}
}
