package middleware

import (
	"errors"
	"strings"

	"luxedrive/internal/models"
	"luxedrive/internal/services"
	"luxedrive/internal/utils"
	"luxedrive/pkg/logger"

	"github.com/gin-gonic/gin"
)

// AuthRequired resolves the bearer token to a live session and sets the
// session user on the context. A token whose session was logged out is
// rejected even before it expires.
func AuthRequired(auth services.AuthService, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if authHeader == "" || tokenString == authHeader {
			utils.UnauthorizedResponse(c)
			c.Abort()
			return
		}

		claims, err := auth.ValidateToken(c.Request.Context(), tokenString)
		if err != nil {
			log.LogSecurityEvent("invalid_token", "low", map[string]interface{}{
				"client_ip": c.ClientIP(),
				"path":      c.Request.URL.Path,
			})
			utils.UnauthorizedResponse(c)
			c.Abort()
			return
		}

		user, err := auth.Current(c.Request.Context(), claims.SessionID)
		if err != nil {
			if !errors.Is(err, services.ErrUnauthenticated) {
				log.WithError(err).Error("Failed to load session")
				utils.InternalServerErrorResponse(c)
			} else {
				utils.UnauthorizedResponse(c)
			}
			c.Abort()
			return
		}

		c.Set(utils.ContextKeyUser, user)
		c.Set(utils.ContextKeyUserID, user.ID)
		c.Set(utils.ContextKeyUserRole, string(user.Role))
		c.Set(utils.ContextKeySessionID, claims.SessionID)

		c.Next()
	}
}

// AdminRequired must run after AuthRequired.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			utils.UnauthorizedResponse(c)
			c.Abort()
			return
		}
		if !user.IsAdmin() {
			utils.ForbiddenResponse(c)
			c.Abort()
			return
		}

		c.Next()
	}
}

func CurrentUser(c *gin.Context) *models.User {
	value, exists := c.Get(utils.ContextKeyUser)
	if !exists {
		return nil
	}
	user, _ := value.(*models.User)
	return user
}

func SessionID(c *gin.Context) string {
	return c.GetString(utils.ContextKeySessionID)
}

// QueryToken lets clients that cannot set headers, such as browser
// WebSockets, pass the bearer token as ?access_token=.
func QueryToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			if token := c.Query("access_token"); token != "" {
				c.Request.Header.Set("Authorization", "Bearer "+token)
			}
		}
		c.Next()
	}
}
