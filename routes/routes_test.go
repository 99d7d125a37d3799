package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"luxedrive/internal/handlers"
	"luxedrive/internal/models"
	"luxedrive/internal/repositories/kv"
	"luxedrive/internal/services"
	"luxedrive/internal/storage"
	"luxedrive/internal/utils"
	"luxedrive/pkg/logger"
	"luxedrive/pkg/payment"
	"luxedrive/pkg/websocket"

	"github.com/gin-gonic/gin"
	gorilla "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
	Error  *utils.APIError `json:"error"`
}

type testAPI struct {
	t      *testing.T
	router *gin.Engine
}

func newTestAPI(t *testing.T, processor payment.Processor) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := storage.NewMemoryStore()
	require.NoError(t, kv.SeedVehicles(context.Background(), store, models.DefaultFleet()))

	log := logger.NewDiscard()
	policy := services.NewPolicy()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	hub := websocket.NewHub(log)
	go hub.Run(ctx)
	stream := handlers.NewBookingStream(hub, websocket.NewHandler(hub, nil, log))

	vehicles := kv.NewVehicleRepository(store)
	carts := kv.NewCartRepository(store)

	authService := services.NewAuthService(services.SimulatedAuthenticator{}, kv.NewSessionRepository(store), "test-secret", time.Hour, log)
	bookingService := services.NewBookingService(kv.NewBookingRepository(store), carts, processor, policy, services.CheckoutOptions{
		Currency:       "USD",
		AttemptTimeout: time.Second,
		MaxAttempts:    2,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     time.Millisecond,
	}, log, services.WithNotifier(stream))

	router := gin.New()
	SetupRoutes(router, &Handlers{
		Auth:    handlers.NewAuthHandler(authService, log),
		Catalog: handlers.NewCatalogHandler(services.NewCatalogService(vehicles, policy, log), log),
		Cart:    handlers.NewCartHandler(services.NewCartService(carts, vehicles, policy, log), log),
		Booking: handlers.NewBookingHandler(bookingService, log),
		Health:  handlers.NewHealthHandler(nil, log),
		Stream:  stream,
	}, authService, log)

	return &testAPI{t: t, router: router}
}

func (a *testAPI) do(method, path, token string, body interface{}) (int, *envelope) {
	a.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w.Code, &env
}

func (a *testAPI) login(email string, role models.UserRole) string {
	a.t.Helper()
	code, env := a.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    email,
		"password": "secret",
		"role":     string(role),
	})
	require.Equal(a.t, http.StatusOK, code)

	var resp services.AuthResponse
	require.NoError(a.t, json.Unmarshal(env.Data, &resp))
	return resp.AccessToken
}

func decode(t *testing.T, env *envelope, dest interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Data, dest))
}

func TestCatalogRoutes(t *testing.T) {
	api := newTestAPI(t, payment.NewSimulatedProcessor(0, 0, 0))

	code, env := api.do(http.MethodGet, "/api/v1/vehicles", "", nil)
	require.Equal(t, http.StatusOK, code)
	var vehicles []models.Vehicle
	decode(t, env, &vehicles)
	assert.Len(t, vehicles, 8)
	assert.Equal(t, "1", vehicles[0].ID)

	_, env = api.do(http.MethodGet, "/api/v1/vehicles?brand=BMW&type=All", "", nil)
	decode(t, env, &vehicles)
	assert.Len(t, vehicles, 2)

	_, env = api.do(http.MethodGet, "/api/v1/vehicles?q=porsche", "", nil)
	decode(t, env, &vehicles)
	require.Len(t, vehicles, 1)
	assert.Equal(t, "3", vehicles[0].ID)

	_, env = api.do(http.MethodGet, "/api/v1/vehicles/featured", "", nil)
	decode(t, env, &vehicles)
	assert.Len(t, vehicles, 6)

	_, env = api.do(http.MethodGet, "/api/v1/vehicles/facets", "", nil)
	var facets models.CatalogFacets
	decode(t, env, &facets)
	assert.Equal(t, "All", facets.Brands[0])
	assert.Contains(t, facets.Types, "Sports")

	code, env = api.do(http.MethodGet, "/api/v1/vehicles/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, utils.CodeNotFound, env.Error.Code)

	code, _ = api.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, code)

	code, env = api.do(http.MethodGet, "/api/v1/unknown", "", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, utils.CodeNotFound, env.Error.Code)
}

func TestLoginValidation(t *testing.T) {
	api := newTestAPI(t, payment.NewSimulatedProcessor(0, 0, 0))

	code, env := api.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": "", "password": "x"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, utils.CodeValidation, env.Error.Code)
	assert.Contains(t, env.Error.Details, "email")
}

func TestRentalFlow(t *testing.T) {
	api := newTestAPI(t, payment.NewSimulatedProcessor(0, 0, 0))
	addItem := map[string]string{"vehicle_id": "1", "start_date": "2024-06-01", "end_date": "2024-06-04"}

	code, env := api.do(http.MethodPost, "/api/v1/cart/items", "", addItem)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, utils.CodeUnauthorized, env.Error.Code)

	token := api.login("ada@example.com", "")

	code, _ = api.do(http.MethodPost, "/api/v1/cart/items", token, addItem)
	require.Equal(t, http.StatusCreated, code)

	code, env = api.do(http.MethodGet, "/api/v1/cart", token, nil)
	require.Equal(t, http.StatusOK, code)
	var cart handlers.CartView
	decode(t, env, &cart)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.Items[0].Days)
	assert.InDelta(t, 750.0, cart.Summary.Subtotal, 1e-6)
	assert.InDelta(t, 37.5, cart.Summary.ServiceFee, 1e-6)
	assert.InDelta(t, 75.0, cart.Summary.Tax, 1e-6)
	assert.InDelta(t, 862.5, cart.Summary.Total, 1e-6)

	code, env = api.do(http.MethodPost, "/api/v1/cart/items", token, map[string]string{"vehicle_id": "8", "start_date": "2024-06-01", "end_date": "2024-06-02"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, utils.CodeValidation, env.Error.Code)

	code, env = api.do(http.MethodPost, "/api/v1/cart/items", token, map[string]string{"vehicle_id": "2", "start_date": "2024-06-04", "end_date": "2024-06-01"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, utils.CodeValidation, env.Error.Code)

	code, env = api.do(http.MethodPost, "/api/v1/checkout", token, nil)
	require.Equal(t, http.StatusCreated, code)
	var created []models.Booking
	decode(t, env, &created)
	require.Len(t, created, 1)
	assert.Equal(t, models.BookingStatusConfirmed, created[0].Status)
	assert.InDelta(t, 862.5, created[0].TotalPrice, 1e-6)

	_, env = api.do(http.MethodGet, "/api/v1/cart", token, nil)
	decode(t, env, &cart)
	assert.Empty(t, cart.Items)

	code, env = api.do(http.MethodPost, "/api/v1/checkout", token, nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, utils.CodeEmptyCart, env.Error.Code)

	_, env = api.do(http.MethodGet, "/api/v1/bookings", token, nil)
	var mine handlers.UserBookingsView
	decode(t, env, &mine)
	require.Len(t, mine.Bookings, 1)
	assert.Equal(t, models.UserBookingStats{Active: 1, History: 0, Total: 1}, mine.Stats)

	bookingPath := "/api/v1/bookings/" + created[0].ID
	_, env = api.do(http.MethodGet, bookingPath+"/tracking", token, nil)
	var tracking models.BookingTracking
	decode(t, env, &tracking)
	require.Len(t, tracking.Timeline, 4)
	assert.Equal(t, models.StepStateCurrent, tracking.Timeline[1].State)

	other := api.login("bob@example.com", "")
	code, _ = api.do(http.MethodGet, bookingPath, other, nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = api.do(http.MethodGet, "/api/v1/admin/bookings", token, nil)
	assert.Equal(t, http.StatusForbidden, code)

	admin := api.login("root@example.com", models.UserRoleAdmin)
	_, env = api.do(http.MethodGet, "/api/v1/admin/bookings", admin, nil)
	var all handlers.AdminBookingsView
	decode(t, env, &all)
	assert.Equal(t, 1, all.Stats.TotalBookings)
	assert.InDelta(t, 862.5, all.Stats.TotalRevenue, 1e-6)

	code, _ = api.do(http.MethodPut, "/api/v1/admin/bookings/"+created[0].ID+"/status", admin, map[string]string{"status": "lost"})
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = api.do(http.MethodPut, "/api/v1/admin/bookings/"+created[0].ID+"/status", admin, map[string]string{"status": "cancelled"})
	require.Equal(t, http.StatusOK, code)

	_, env = api.do(http.MethodGet, bookingPath+"/tracking", token, nil)
	decode(t, env, &tracking)
	assert.Len(t, tracking.Timeline, 5)
	assert.Equal(t, models.BookingStatusCancelled, tracking.Booking.Status)
}

func TestCheckoutDeclinedKeepsCart(t *testing.T) {
	api := newTestAPI(t, payment.NewSimulatedProcessor(0, 1, 0))
	token := api.login("ada@example.com", "")

	code, _ := api.do(http.MethodPost, "/api/v1/cart/items", token, map[string]string{"vehicle_id": "4", "start_date": "2024-06-01", "end_date": "2024-06-02"})
	require.Equal(t, http.StatusCreated, code)

	code, env := api.do(http.MethodPost, "/api/v1/checkout", token, nil)
	assert.Equal(t, http.StatusPaymentRequired, code)
	assert.Equal(t, utils.CodePaymentDeclined, env.Error.Code)

	_, env = api.do(http.MethodGet, "/api/v1/cart", token, nil)
	var cart handlers.CartView
	decode(t, env, &cart)
	assert.Len(t, cart.Items, 1)

	_, env = api.do(http.MethodGet, "/api/v1/bookings", token, nil)
	var mine handlers.UserBookingsView
	decode(t, env, &mine)
	assert.Empty(t, mine.Bookings)
}

func TestCheckoutTimedOut(t *testing.T) {
	api := newTestAPI(t, payment.NewSimulatedProcessor(0, 0, 1))
	token := api.login("ada@example.com", "")

	code, _ := api.do(http.MethodPost, "/api/v1/cart/items", token, map[string]string{"vehicle_id": "4", "start_date": "2024-06-01", "end_date": "2024-06-02"})
	require.Equal(t, http.StatusCreated, code)

	code, env := api.do(http.MethodPost, "/api/v1/checkout", token, nil)
	assert.Equal(t, http.StatusGatewayTimeout, code)
	assert.Equal(t, utils.CodePaymentTimeout, env.Error.Code)
}

func TestCartRemoveAndClear(t *testing.T) {
	api := newTestAPI(t, payment.NewSimulatedProcessor(0, 0, 0))
	token := api.login("ada@example.com", "")

	for _, id := range []string{"1", "2", "1"} {
		code, _ := api.do(http.MethodPost, "/api/v1/cart/items", token, map[string]string{"vehicle_id": id, "start_date": "2024-06-01", "end_date": "2024-06-02"})
		require.Equal(t, http.StatusCreated, code)
	}

	_, env := api.do(http.MethodDelete, "/api/v1/cart/items/1", token, nil)
	var cart handlers.CartView
	decode(t, env, &cart)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "2", cart.Items[0].Vehicle.ID)

	code, _ := api.do(http.MethodDelete, "/api/v1/cart", token, nil)
	assert.Equal(t, http.StatusOK, code)

	_, env = api.do(http.MethodGet, "/api/v1/cart", token, nil)
	decode(t, env, &cart)
	assert.Empty(t, cart.Items)
}

func TestAdminVehicleRoutes(t *testing.T) {
	api := newTestAPI(t, payment.NewSimulatedProcessor(0, 0, 0))
	user := api.login("ada@example.com", "")
	admin := api.login("root@example.com", models.UserRoleAdmin)
	input := map[string]interface{}{"name": "Lamborghini Urus", "brand": "Lamborghini", "type": "SUV", "price": 900}

	code, _ := api.do(http.MethodPost, "/api/v1/admin/vehicles", user, input)
	assert.Equal(t, http.StatusForbidden, code)

	code, env := api.do(http.MethodPost, "/api/v1/admin/vehicles", admin, input)
	require.Equal(t, http.StatusCreated, code)
	var vehicle models.Vehicle
	decode(t, env, &vehicle)
	assert.True(t, vehicle.Available)
	assert.Equal(t, models.DefaultVehicleImage, vehicle.Image)

	input["price"] = 950
	code, env = api.do(http.MethodPut, "/api/v1/admin/vehicles/"+vehicle.ID, admin, input)
	require.Equal(t, http.StatusOK, code)
	decode(t, env, &vehicle)
	assert.Equal(t, 950.0, vehicle.Price)

	code, _ = api.do(http.MethodPost, "/api/v1/admin/vehicles", admin, map[string]interface{}{"name": "No brand", "type": "SUV"})
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = api.do(http.MethodDelete, "/api/v1/admin/vehicles/"+vehicle.ID, admin, nil)
	assert.Equal(t, http.StatusOK, code)

	code, _ = api.do(http.MethodGet, "/api/v1/vehicles/"+vehicle.ID, "", nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestLogoutInvalidatesToken(t *testing.T) {
	api := newTestAPI(t, payment.NewSimulatedProcessor(0, 0, 0))
	token := api.login("ada@example.com", "")

	code, env := api.do(http.MethodGet, "/api/v1/auth/me", token, nil)
	require.Equal(t, http.StatusOK, code)
	var user models.User
	decode(t, env, &user)
	assert.Equal(t, "ada", user.Name)

	code, _ = api.do(http.MethodPost, "/api/v1/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, code)

	code, _ = api.do(http.MethodGet, "/api/v1/auth/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestBookingStreamPushesStatusChanges(t *testing.T) {
	api := newTestAPI(t, payment.NewSimulatedProcessor(0, 0, 0))
	server := httptest.NewServer(api.router)
	t.Cleanup(server.Close)

	token := api.login("ada@example.com", "")
	admin := api.login("root@example.com", models.UserRoleAdmin)

	code, _ := api.do(http.MethodPost, "/api/v1/cart/items", token, map[string]string{"vehicle_id": "1", "start_date": "2024-06-01", "end_date": "2024-06-02"})
	require.Equal(t, http.StatusCreated, code)
	code, env := api.do(http.MethodPost, "/api/v1/checkout", token, nil)
	require.Equal(t, http.StatusCreated, code)
	var created []models.Booking
	decode(t, env, &created)
	require.Len(t, created, 1)

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/v1/bookings/stream"
	_, resp, err := gorilla.DefaultDialer.Dial(wsURL, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	conn, _, err := gorilla.DefaultDialer.Dial(wsURL+"?access_token="+token, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))

	var msg websocket.Message
	require.NoError(t, conn.ReadJSON(&msg))
	require.Equal(t, "welcome", msg.Type)

	code, _ = api.do(http.MethodPut, "/api/v1/admin/bookings/"+created[0].ID+"/status", admin, map[string]string{"status": "active"})
	require.Equal(t, http.StatusOK, code)

	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "booking_updated", msg.Type)
	booking, ok := msg.Data["booking"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, created[0].ID, booking["id"])
	assert.Equal(t, "active", booking["status"])
}
