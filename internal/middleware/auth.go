package middleware

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"usermanager/internal/credential"
	"usermanager/internal/model"
	"usermanager/pkg/response"

	"github.com/gin-gonic/gin"
)

const currentUserKey = "currentUser"

const (
	DetailNotAuthenticated = "Not authenticated"
	DetailInvalidToken     = "Could not validate credentials"
	DetailUnauthorized     = "Unauthorized"
)

// Authenticator resolves a bearer token to a persisted user with roles and permissions loaded.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*model.User, error)
}

// BearerToken extracts the token from "Authorization: Bearer <token>".
func BearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}

// Authenticate validates the bearer token and stores the caller in the context.
// Every failure is a 401 with WWW-Authenticate: Bearer and nothing runs after it.
func Authenticate(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := BearerToken(c)
		if !ok {
			abortUnauthenticated(c, DetailNotAuthenticated)
			return
		}

		user, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, credential.ErrInvalidToken) {
				abortUnauthenticated(c, DetailInvalidToken)
				return
			}
			log.Printf("auth: failed to load token user: %v", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, response.Error("Could not load user"))
			return
		}

		c.Set(currentUserKey, user)
		c.Next()
	}
}

// RequirePermission must run after Authenticate; the caller needs every listed code.
func RequirePermission(codes ...model.PermissionCode) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			abortUnauthenticated(c, DetailNotAuthenticated)
			return
		}

		for _, code := range codes {
			if !user.HasPermission(code) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(DetailUnauthorized))
				return
			}
		}

		c.Next()
	}
}

// CurrentUser returns the user stored by Authenticate.
func CurrentUser(c *gin.Context) (*model.User, bool) {
	v, exists := c.Get(currentUserKey)
	if !exists {
		return nil, false
	}
	user, ok := v.(*model.User)
	return user, ok && user != nil
}

func abortUnauthenticated(c *gin.Context, detail string) {
	c.Header("WWW-Authenticate", "Bearer")
	c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(detail))
}
