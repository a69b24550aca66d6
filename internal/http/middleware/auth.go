// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements AuthContext, the middleware that turns the identity
// headers set by the upstream authenticating proxy into a domain.AuthContext
// for the service layer. The backend itself performs no credential checks;
// it trusts X-User-ID and X-User-Role the way the rest of the platform does.
//
// Role enforcement stays in the services: the middleware only normalizes and
// stashes the identity, so unauthenticated requests still reach handlers and
// fail there with a consistent error envelope.
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/foodbridge/go-donation-backend/internal/domain"
)

// Identity headers populated by the upstream proxy.
const (
	HeaderUserID   = "X-User-ID"
	HeaderUserRole = "X-User-Role"
)

// Context keys used to stash the caller identity.
const (
	ctxKeyUserID   = "userID"
	ctxKeyUserRole = "userRole"
)

// AuthContext reads the identity headers, normalizes the role to its
// canonical uppercase form, and stores both values in the Gin context.
// Unknown roles are stored as-is and fail the service-layer role guards.
func AuthContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := strings.TrimSpace(c.GetHeader(HeaderUserID))
		role := domain.Role(strings.ToUpper(strings.TrimSpace(c.GetHeader(HeaderUserRole))))

		if uid != "" {
			c.Set(ctxKeyUserID, uid)
		}
		if role != "" {
			c.Set(ctxKeyUserRole, role)
		}
		c.Next()
	}
}

// AuthFrom assembles the caller's AuthContext from the Gin context. The
// zero value is returned when the request carried no identity.
func AuthFrom(c *gin.Context) domain.AuthContext {
	var auth domain.AuthContext
	if v, ok := c.Get(ctxKeyUserID); ok {
		if s, ok := v.(string); ok {
			auth.UserID = s
		}
	}
	if v, ok := c.Get(ctxKeyUserRole); ok {
		if r, ok := v.(domain.Role); ok {
			auth.Role = r
		}
	}
	return auth
}
