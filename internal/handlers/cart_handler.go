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

type CartHandler struct {
	cartService services.CartService
	logger      *logger.Logger
}

func NewCartHandler(cartService services.CartService, log *logger.Logger) *CartHandler {
	return &CartHandler{
		cartService: cartService,
		logger:      log,
	}
}

type CartView struct {
	Items   []models.CartItem     `json:"items"`
	Summary models.PriceBreakdown `json:"summary"`
}

func newCartView(cart *models.Cart) *CartView {
	items := cart.Items
	if items == nil {
		items = []models.CartItem{}
	}
	return &CartView{Items: items, Summary: services.Summarize(cart)}
}

func (h *CartHandler) GetCart(c *gin.Context) {
	cart, err := h.cartService.Get(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	utils.SuccessResponse(c, "Cart retrieved successfully", newCartView(cart))
}

func (h *CartHandler) AddItem(c *gin.Context) {
	var request validators.AddToCartRequest
	if !bindJSON(c, &request) {
		return
	}
	addRequest, err := request.ToService()
	if err != nil {
		utils.ValidationErrorResponse(c, map[string]string{"dates": err.Error()})
		return
	}

	cart, err := h.cartService.Add(c.Request.Context(), middleware.SessionID(c), middleware.CurrentUser(c), addRequest)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	utils.CreatedResponse(c, "Vehicle added to cart", newCartView(cart))
}

func (h *CartHandler) RemoveItem(c *gin.Context) {
	cart, err := h.cartService.Remove(c.Request.Context(), middleware.SessionID(c), c.Param("vehicleId"))
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	utils.SuccessResponse(c, "Vehicle removed from cart", newCartView(cart))
}

func (h *CartHandler) ClearCart(c *gin.Context) {
	if err := h.cartService.Clear(c.Request.Context(), middleware.SessionID(c)); err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	utils.SuccessResponse(c, "Cart cleared", newCartView(&models.Cart{}))
}
