package delivery

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"taskly-backend/internal/auth/domain"
	"taskly-backend/internal/auth/usecase"
)

const sessionContextKey = "session"

// AuthMiddleware resolves the bearer token to a session and attaches it
// to the request context.
func AuthMiddleware(authUsecase usecase.AuthUsecase) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := authUsecase.Authenticate(c.Request.Context(), bearerToken(c))
		if err != nil {
			abortWithAuthError(c, err)
			return
		}
		attachSession(c, session)
		c.Next()
	}
}

// AdminMiddleware resolves the bearer token and requires admin
// privileges.
func AdminMiddleware(authUsecase usecase.AuthUsecase) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := authUsecase.AuthorizeAdmin(c.Request.Context(), bearerToken(c))
		if err != nil {
			abortWithAuthError(c, err)
			return
		}
		attachSession(c, session)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}

func attachSession(c *gin.Context, session *domain.Session) {
	c.Set(sessionContextKey, session)
	c.Set("userID", session.UserID)
	c.Set("isAdmin", session.IsAdmin)
}

// SessionFromContext returns the session attached by the middleware.
func SessionFromContext(c *gin.Context) *domain.Session {
	value, ok := c.Get(sessionContextKey)
	if !ok {
		return nil
	}
	session, _ := value.(*domain.Session)
	return session
}

func abortWithAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
	case errors.Is(err, domain.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Admin privileges required"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
	c.Abort()
}
