package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"luxedrive/internal/models"
	"luxedrive/internal/services"
	"luxedrive/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// checkoutRecorder keeps the last checkout request it was given.
type checkoutRecorder struct {
	services.BookingService
	request *services.CheckoutRequest
}

func (r *checkoutRecorder) Checkout(ctx context.Context, sessionID string, actor *models.User, request *services.CheckoutRequest) ([]*models.Booking, error) {
	r.request = request
	return []*models.Booking{}, nil
}

func serveCheckout(t *testing.T, req *http.Request) (*checkoutRecorder, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	recorder := &checkoutRecorder{}
	r := gin.New()
	r.POST("/checkout", NewBookingHandler(recorder, logger.NewDiscard()).Checkout)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return recorder, w
}

func TestCheckoutBody(t *testing.T) {
	tests := []struct {
		name          string
		body          string
		chunked       bool
		status        int
		paymentMethod string
	}{
		{name: "no body", status: http.StatusCreated},
		{name: "sized body", body: `{"payment_method_id":"pm_card_visa"}`, status: http.StatusCreated, paymentMethod: "pm_card_visa"},
		{name: "chunked body", body: `{"payment_method_id":"pm_card_visa"}`, chunked: true, status: http.StatusCreated, paymentMethod: "pm_card_visa"},
		{name: "empty chunked body", chunked: true, status: http.StatusCreated},
		{name: "malformed body", body: `{"payment_method_id":`, chunked: true, status: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/checkout", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			if tt.chunked {
				req.ContentLength = -1
				req.TransferEncoding = []string{"chunked"}
			}

			recorder, w := serveCheckout(t, req)
			require.Equal(t, tt.status, w.Code, w.Body.String())
			if tt.status == http.StatusCreated {
				require.NotNil(t, recorder.request)
				assert.Equal(t, tt.paymentMethod, recorder.request.PaymentMethodID)
			}
		})
	}
}
