package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"luxedrive/internal/models"
	"luxedrive/internal/repositories/kv"
	"luxedrive/internal/services"
	"luxedrive/internal/storage"
	"luxedrive/internal/utils"
	"luxedrive/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newAuth() services.AuthService {
	store := storage.NewMemoryStore()
	return services.NewAuthService(services.SimulatedAuthenticator{}, kv.NewSessionRepository(store), "secret", time.Hour, logger.NewDiscard())
}

func protectedRouter(auth services.AuthService) *gin.Engine {
	r := gin.New()
	r.Use(AuthRequired(auth, logger.NewDiscard()))
	r.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": CurrentUser(c).ID, "sid": SessionID(c)})
	})
	r.GET("/admin", AdminRequired(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func get(r http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthRequired(t *testing.T) {
	auth := newAuth()
	r := protectedRouter(auth)

	assert.Equal(t, http.StatusUnauthorized, get(r, "/me", "").Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, "/me", "not-a-jwt").Code)

	resp, err := auth.Login(context.Background(), &services.LoginRequest{Email: "ada@example.com", Password: "x"})
	require.NoError(t, err)

	w := get(r, "/me", resp.AccessToken)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), resp.SessionID)

	require.NoError(t, auth.Logout(context.Background(), resp.SessionID))
	assert.Equal(t, http.StatusUnauthorized, get(r, "/me", resp.AccessToken).Code)
}

func TestAdminRequired(t *testing.T) {
	auth := newAuth()
	r := protectedRouter(auth)
	ctx := context.Background()

	user, err := auth.Login(ctx, &services.LoginRequest{Email: "ada@example.com", Password: "x"})
	require.NoError(t, err)
	admin, err := auth.Login(ctx, &services.LoginRequest{Email: "root@example.com", Password: "x", Role: models.UserRoleAdmin})
	require.NoError(t, err)

	assert.Equal(t, http.StatusForbidden, get(r, "/admin", user.AccessToken).Code)
	assert.Equal(t, http.StatusOK, get(r, "/admin", admin.AccessToken).Code)
}

func TestRequestIDMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(utils.ContextKeyRequestID))
	})

	w := get(r, "/", "")
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	assert.Equal(t, w.Header().Get("X-Request-ID"), w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc", w.Body.String())
}

func TestCORSMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware([]string{"https://luxedrive.example"}))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "https://luxedrive.example")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://luxedrive.example", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.example")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimitMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(RateLimitMiddleware(NewRateLimiter(1, 2)))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, get(r, "/", "").Code)
	assert.Equal(t, http.StatusOK, get(r, "/", "").Code)

	w := get(r, "/", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
}

func TestRateLimiterCleanup(t *testing.T) {
	rl := NewRateLimiter(60, 1)
	rl.idle = 0
	rl.Allow("a")
	time.Sleep(time.Millisecond)
	rl.Cleanup()
	assert.Empty(t, rl.limiters)
}

func TestRecoveryMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(RecoveryMiddleware(logger.NewDiscard()))
	r.GET("/", func(c *gin.Context) { panic("boom") })

	w := get(r, "/", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), utils.CodeInternal)
}
