package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/BruksfildServices01/tenant-scheduler/internal/config"
)

const ContextAuth = "auth"

// Roles allowed to create appointments that skip the Pending state.
var autoConfirmRoles = map[string]bool{
	"owner": true,
	"admin": true,
	"staff": true,
}

// AuthContext is the identity carried by the bearer token. It is issued by
// an external identity service; this API only verifies it.
type AuthContext struct {
	UserID   uuid.UUID
	TenantID uuid.UUID
	Role     string
}

func (a AuthContext) CanAutoConfirm() bool {
	return autoConfirmRoles[a.Role]
}

func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing_authorization_header"})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_authorization_header"})
			return
		}

		tokenString := parts[1]

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrTokenMalformed
			}
			return []byte(cfg.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token"})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token_claims"})
			return
		}

		sub, _ := claims["sub"].(string)
		tenant, _ := claims["tenantId"].(string)
		role, _ := claims["role"].(string)

		userID, err1 := uuid.Parse(sub)
		tenantID, err2 := uuid.Parse(tenant)
		if err1 != nil || err2 != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token_payload"})
			return
		}

		c.Set(ContextAuth, AuthContext{UserID: userID, TenantID: tenantID, Role: role})

		c.Next()
	}
}

// Auth returns the identity stored by AuthMiddleware.
func Auth(c *gin.Context) AuthContext {
	return c.MustGet(ContextAuth).(AuthContext)
}
