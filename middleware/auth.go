package middleware

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	apperrors "storefront/common/errors"
	"storefront/models"
)

const (
	UserContextKey = "userID"
	RoleContextKey = "role"
)

// abortWith rejects the request; the error middleware renders the body.
func abortWith(c *gin.Context, appErr *apperrors.Error) {
	_ = c.Error(appErr)
	c.Abort()
}

// AuthMiddleware validates the Bearer token and stores the caller's
// identity in the gin context.
func AuthMiddleware(jwtSecret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			abortWith(c, apperrors.ErrUnauthorized)
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return jwtSecret, nil
		})
		if err != nil || !token.Valid {
			abortWith(c, apperrors.ErrInvalidToken)
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			abortWith(c, apperrors.ErrInvalidToken)
			return
		}

		userID, _ := claims["user_id"].(string)
		role, _ := claims["role"].(string)
		if userID == "" {
			abortWith(c, apperrors.ErrInvalidToken)
			return
		}

		c.Set(UserContextKey, userID)
		c.Set(RoleContextKey, role)
		c.Next()
	}
}

// AdminOnly rejects callers without the admin role. Must run after
// AuthMiddleware.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetRole(c) != models.RoleAdmin {
			abortWith(c, apperrors.ErrForbidden)
			return
		}
		c.Next()
	}
}

// GetUserID extracts the authenticated user's id from the gin context.
func GetUserID(c *gin.Context) (uuid.UUID, error) {
	if val, ok := c.Get(UserContextKey); ok {
		if id, ok := val.(string); ok && id != "" {
			return uuid.Parse(id)
		}
	}
	return uuid.Nil, errors.New("user ID not found in context")
}

// GetRole extracts the authenticated user's role from the gin context.
func GetRole(c *gin.Context) string {
	if val, ok := c.Get(RoleContextKey); ok {
		if role, ok := val.(string); ok {
			return role
		}
	}
	return ""
}
