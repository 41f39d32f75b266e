package middleware

import (
	"net/http"
	"strings"

	"locallibrary/internal/http-api/dto"
	"locallibrary/internal/http-api/service"

	"github.com/gin-gonic/gin"
)

const (
	ctxClaims   = "claims"
	ctxUserID   = "userID"
	ctxUsername = "username"
	ctxPerms    = "permissions"
)

// TokenValidator is the part of the auth service the middleware needs.
type TokenValidator interface {
	ValidateToken(tokenString string) (*service.Claims, error)
}

// bearerToken extracts the token from "Authorization: Bearer <token>".
func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func setClaims(c *gin.Context, claims *service.Claims) {
	c.Set(ctxClaims, claims)
	c.Set(ctxUserID, claims.UserID)
	c.Set(ctxUsername, claims.Username)
	c.Set(ctxPerms, claims.Perms)
}

// AuthMiddleware is a Gin middleware for JWT authentication of API requests.
// Requests without a valid access token are rejected with 401.
func AuthMiddleware(tokens TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "missing or malformed authorization header"})
			return
		}

		claims, err := tokens.ValidateToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "invalid token"})
			return
		}

		setClaims(c, claims)
		c.Next()
	}
}

// OptionalAuth identifies the caller when a valid token is present and lets
// the request through anonymously otherwise.
func OptionalAuth(tokens TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenString, ok := bearerToken(c); ok {
			if claims, err := tokens.ValidateToken(tokenString); err == nil {
				setClaims(c, claims)
			}
		}
		c.Next()
	}
}

// ActorFrom returns the identity set by the auth middleware, or Anonymous.
func ActorFrom(c *gin.Context) service.Actor {
	v, ok := c.Get(ctxClaims)
	if !ok {
		return service.Anonymous
	}
	claims, ok := v.(*service.Claims)
	if !ok {
		return service.Anonymous
	}
	return claims.Actor()
}

// RequireCapability rejects callers whose token lacks capability. Services
// check again; this only stops the request earlier.
func RequireCapability(capability string) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := ActorFrom(c)
		if !actor.Authenticated() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "authentication required"})
			return
		}
		if !actor.HasCapability(capability) {
			c.AbortWithStatusJSON(http.StatusForbidden, dto.ErrorResponse{Error: "permission denied"})
			return
		}
		c.Next()
	}
}
