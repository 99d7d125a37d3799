package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"luxedrive/internal/services"
	"luxedrive/internal/utils"
	"luxedrive/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleServiceError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		err    error
		status int
		code   string
	}{
		{&services.ValidationError{Field: "dates", Message: "end must be after start"}, http.StatusBadRequest, utils.CodeValidation},
		{fmt.Errorf("wrapped: %w", services.ErrValidation), http.StatusBadRequest, utils.CodeValidation},
		{services.ErrUnauthenticated, http.StatusUnauthorized, utils.CodeUnauthorized},
		{services.ErrForbidden, http.StatusForbidden, utils.CodeForbidden},
		{fmt.Errorf("booking b1: %w", services.ErrNotFound), http.StatusNotFound, utils.CodeNotFound},
		{services.ErrEmptyCart, http.StatusBadRequest, utils.CodeEmptyCart},
		{services.ErrConflict, http.StatusConflict, utils.CodeConflict},
		{services.ErrPaymentDeclined, http.StatusPaymentRequired, utils.CodePaymentDeclined},
		{services.ErrPaymentTimedOut, http.StatusGatewayTimeout, utils.CodePaymentTimeout},
		{errors.New("disk on fire"), http.StatusInternalServerError, utils.CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			handleServiceError(c, logger.NewDiscard(), tt.err)

			var body utils.APIResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, utils.StatusError, body.Status)
			require.NotNil(t, body.Error)
			assert.Equal(t, tt.code, body.Error.Code)
		})
	}
}

func TestHandleServiceErrorHidesInternalDetail(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	handleServiceError(c, logger.NewDiscard(), errors.New("redis: connection refused"))
	assert.NotContains(t, w.Body.String(), "redis")
}
