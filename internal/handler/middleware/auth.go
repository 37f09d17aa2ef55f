package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"parkgate/internal/domain/operator"
	"parkgate/internal/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	ctxOperatorIDKey   = "operator_id"
	ctxOperatorTypeKey = "operator_type"
)

type AuthMiddleware struct {
	jwtService *jwt.Service
}

func NewAuthMiddleware(jwtService *jwt.Service) *AuthMiddleware {
	return &AuthMiddleware{jwtService: jwtService}
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		var token string

		authHeader := c.GetHeader("Authorization")
		if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
			token = strings.TrimSpace(authHeader[len("Bearer "):])
		}

		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Access token required",
			})
			c.Abort()
			return
		}

		claims, err := m.jwtService.ValidateToken(token)
		if err != nil {
			slog.Warn("Token validation failed in auth middleware", "error", err.Error())
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid or expired token",
			})
			c.Abort()
			return
		}

		c.Set(ctxOperatorIDKey, claims.OperatorID)
		c.Set(ctxOperatorTypeKey, operator.Type(claims.OperatorType))
		c.Set("jwt_claims", map[string]any{
			"operator_id":   claims.OperatorID.String(),
			"operator_type": claims.OperatorType,
		})
		c.Next()
	}
}

// RequireInternal gates endpoints that only back-office operators may call.
// Must be used after RequireAuth().
func (m *AuthMiddleware) RequireInternal() gin.HandlerFunc {
	return func(c *gin.Context) {
		opType, ok := GetOperatorType(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
			c.Abort()
			return
		}

		if opType != operator.TypeInternal {
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Insufficient permissions",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

func GetOperatorID(c *gin.Context) (uuid.UUID, bool) {
	operatorID, exists := c.Get(ctxOperatorIDKey)
	if !exists {
		return uuid.Nil, false
	}

	id, ok := operatorID.(uuid.UUID)
	return id, ok
}

func GetOperatorType(c *gin.Context) (operator.Type, bool) {
	operatorType, exists := c.Get(ctxOperatorTypeKey)
	if !exists {
		return "", false
	}

	t, ok := operatorType.(operator.Type)
	return t, ok
}
