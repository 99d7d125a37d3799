package handlers

import (
	"luxedrive/internal/middleware"
	"luxedrive/internal/models"
	"luxedrive/internal/services"
	"luxedrive/internal/utils"
	"luxedrive/pkg/logger"

	"github.com/gin-gonic/gin"
)

type CatalogHandler struct {
	catalogService services.CatalogService
	logger         *logger.Logger
}

func NewCatalogHandler(catalogService services.CatalogService, log *logger.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
		logger:         log,
	}
}

// ListVehicles filters by the brand, type and q query parameters.
func (h *CatalogHandler) ListVehicles(c *gin.Context) {
	var filter models.VehicleFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		utils.BadRequestResponse(c, "Invalid query: "+err.Error())
		return
	}

	vehicles, err := h.catalogService.List(c.Request.Context(), filter)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	utils.SuccessResponseWithMeta(c, "Vehicles retrieved successfully", vehicles, &utils.Meta{
		Total: len(vehicles),
		Count: len(vehicles),
	})
}

func (h *CatalogHandler) FeaturedVehicles(c *gin.Context) {
	var filter models.VehicleFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		utils.BadRequestResponse(c, "Invalid query: "+err.Error())
		return
	}

	vehicles, err := h.catalogService.Featured(c.Request.Context(), filter)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	utils.SuccessResponse(c, "Featured vehicles retrieved successfully", vehicles)
}

func (h *CatalogHandler) Facets(c *gin.Context) {
	facets, err := h.catalogService.Facets(c.Request.Context())
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	utils.SuccessResponse(c, "Facets retrieved successfully", facets)
}

func (h *CatalogHandler) GetVehicle(c *gin.Context) {
	vehicle, err := h.catalogService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	utils.SuccessResponse(c, "Vehicle retrieved successfully", vehicle)
}

func (h *CatalogHandler) CreateVehicle(c *gin.Context) {
	var input services.VehicleInput
	if !bindJSON(c, &input) {
		return
	}

	vehicle, err := h.catalogService.Create(c.Request.Context(), middleware.CurrentUser(c), &input)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	utils.CreatedResponse(c, "Vehicle created successfully", vehicle)
}

func (h *CatalogHandler) UpdateVehicle(c *gin.Context) {
	var input services.VehicleInput
	if !bindJSON(c, &input) {
		return
	}

	vehicle, err := h.catalogService.Update(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"), &input)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	utils.SuccessResponse(c, "Vehicle updated successfully", vehicle)
}

func (h *CatalogHandler) DeleteVehicle(c *gin.Context) {
	if err := h.catalogService.Delete(c.Request.Context(), middleware.CurrentUser(c), c.Param("id")); err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	utils.SuccessResponse(c, "Vehicle deleted successfully", nil)
}
