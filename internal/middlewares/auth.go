package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"walletapp/internal/lib/jwt"
)

type AuthMiddleware struct {
	jwtGen *jwt.Generator
}

func NewAuthMiddleware(jwtGen *jwt.Generator) *AuthMiddleware {
	return &AuthMiddleware{jwtGen: jwtGen}
}

// Handle validates the bearer token and stores the caller's user id in the
// request context under "user_id".
func (m *AuthMiddleware) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}

		userID, err := m.jwtGen.ParseUserID(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}

		c.Set("user_id", userID)
		c.Next()
	}
}
