package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jwalitptl/smartplan-api/internal/handler"
	"github.com/jwalitptl/smartplan-api/internal/service/auth"
	apperrors "github.com/jwalitptl/smartplan-api/pkg/errors"
)

const (
	ContextAccountID    = "accountID"
	ContextAccountEmail = "accountEmail"
)

type AuthMiddleware struct {
	authSvc *auth.Service
}

func NewAuthMiddleware(authSvc *auth.Service) *AuthMiddleware {
	return &AuthMiddleware{authSvc: authSvc}
}

// Authenticate verifies the bearer token and puts the account identity
// into the request context. Every settings and plan operation sits behind
// this middleware.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := BearerToken(c)
		if !ok {
			handler.Error(c, apperrors.Unauthorized("missing authorization header"))
			c.Abort()
			return
		}

		claims, err := m.authSvc.Authenticate(c.Request.Context(), token)
		if err != nil {
			handler.Error(c, err)
			c.Abort()
			return
		}

		c.Set(ContextAccountID, claims.AccountID)
		c.Set(ContextAccountEmail, claims.Email)
		c.Next()
	}
}

// BearerToken extracts the token from the Authorization header.
func BearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// AccountID returns the authenticated account set by Authenticate.
func AccountID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(ContextAccountID)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}
