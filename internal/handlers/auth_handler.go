package handlers

import (
	"luxedrive/internal/middleware"
	"luxedrive/internal/services"
	"luxedrive/internal/utils"
	"luxedrive/internal/validators"
	"luxedrive/pkg/logger"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService services.AuthService
	logger      *logger.Logger
}

func NewAuthHandler(authService services.AuthService, log *logger.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      log,
	}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var request validators.LoginRequest
	if !bindJSON(c, &request) {
		return
	}

	response, err := h.authService.Login(c.Request.Context(), request.ToService())
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	utils.SuccessResponse(c, "Login successful", response)
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var request validators.SignupRequest
	if !bindJSON(c, &request) {
		return
	}

	response, err := h.authService.Signup(c.Request.Context(), request.ToService())
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	utils.CreatedResponse(c, "Account created successfully", response)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if err := h.authService.Logout(c.Request.Context(), middleware.SessionID(c)); err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	h.logger.LogUserAction(user.ID, utils.EventUserLogout, nil)
	utils.SuccessResponse(c, "Logged out successfully", nil)
}

func (h *AuthHandler) Me(c *gin.Context) {
	utils.SuccessResponse(c, "User retrieved successfully", middleware.CurrentUser(c))
}
