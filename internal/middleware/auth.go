package middleware

import (
	"net/http"
	"strings"

	"github.com/AldairAG/PayGlobal/config"
	"github.com/AldairAG/PayGlobal/internal/auth"

	"github.com/gin-gonic/gin"
)

// OperatorRequired validates an operator JWT and sets "operator" in context.
// With no operator secret configured every request passes.
func OperatorRequired(cfg *config.AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.OperatorSecret == "" {
			c.Next()
			return
		}
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization format"})
			return
		}
		claims, err := auth.ParseOperatorToken(cfg, parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}
		c.Set("operator", claims.Subject)
		c.Next()
	}
}

// GetOperator returns the authenticated operator name, "" when unguarded.
func GetOperator(c *gin.Context) string {
	return c.GetString("operator")
}
