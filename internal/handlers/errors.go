package handlers

import (
	"errors"
	"io"
	"net/http"

	"luxedrive/internal/services"
	"luxedrive/internal/utils"
	"luxedrive/internal/validators"
	"luxedrive/pkg/logger"

	"github.com/gin-gonic/gin"
)

// handleServiceError writes the envelope for an error returned by a
// service. Unknown errors are logged and reported as 500 without detail.
func handleServiceError(c *gin.Context, log *logger.Logger, err error) {
	var validationErr *services.ValidationError

	switch {
	case errors.As(err, &validationErr):
		details := map[string]string{}
		if validationErr.Field != "" {
			details[validationErr.Field] = validationErr.Message
		}
		utils.ErrorResponseWithDetails(c, http.StatusBadRequest, utils.CodeValidation, validationErr.Error(), details)
	case errors.Is(err, services.ErrValidation):
		utils.ErrorResponse(c, http.StatusBadRequest, utils.CodeValidation, err.Error())
	case errors.Is(err, services.ErrUnauthenticated):
		utils.UnauthorizedResponse(c)
	case errors.Is(err, services.ErrForbidden):
		utils.ForbiddenResponse(c)
	case errors.Is(err, services.ErrNotFound):
		utils.ErrorResponse(c, http.StatusNotFound, utils.CodeNotFound, err.Error())
	case errors.Is(err, services.ErrEmptyCart):
		utils.ErrorResponse(c, http.StatusBadRequest, utils.CodeEmptyCart, utils.ErrEmptyCart)
	case errors.Is(err, services.ErrConflict):
		utils.ConflictResponse(c, utils.ErrConflict)
	case errors.Is(err, services.ErrPaymentDeclined):
		utils.ErrorResponse(c, http.StatusPaymentRequired, utils.CodePaymentDeclined, utils.ErrPaymentDeclined)
	case errors.Is(err, services.ErrPaymentTimedOut):
		utils.ErrorResponse(c, http.StatusGatewayTimeout, utils.CodePaymentTimeout, utils.ErrPaymentTimedOut)
	default:
		log.WithContext(c.Request.Context()).WithError(err).Error("Request failed")
		utils.InternalServerErrorResponse(c)
	}
}

// bindJSON decodes and validates the body. It writes the 400 response and
// returns false when the request is unusable.
func bindJSON(c *gin.Context, dest interface{}) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		utils.BadRequestResponse(c, "Invalid request body: "+err.Error())
		return false
	}
	return validateBody(c, dest)
}

// bindOptionalJSON is bindJSON for endpoints whose body may be left out.
// Chunked requests carry no length, so an empty body is detected by the
// decoder hitting EOF.
func bindOptionalJSON(c *gin.Context, dest interface{}) bool {
	if c.Request.Body == nil || c.Request.Body == http.NoBody {
		return true
	}
	if err := c.ShouldBindJSON(dest); err != nil {
		if errors.Is(err, io.EOF) {
			return true
		}
		utils.BadRequestResponse(c, "Invalid request body: "+err.Error())
		return false
	}
	return validateBody(c, dest)
}

func validateBody(c *gin.Context, dest interface{}) bool {
	if errs := validators.ValidateStruct(dest); len(errs) > 0 {
		utils.ValidationErrorResponse(c, errs.Details())
		return false
	}
	return true
}
