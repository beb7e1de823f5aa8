package middleware

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mehrbod2002/horizon/internal/config"

	"github.com/gin-gonic/gin"
)

func AdminAuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, errMsg := bearerToken(c)
		if errMsg != "" {
			abort(c, errMsg)
			return
		}

		claims, err := parseClaims(tokenStr, cfg.JWTSecret)
		if err != nil {
			abort(c, "Invalid or expired token")
			return
		}

		isAdmin, ok := claims["is_admin"].(bool)
		if !ok || !isAdmin {
			abort(c, "Admin access required")
			return
		}

		adminID, ok := claims["user_id"].(string)
		if !ok {
			abort(c, "Invalid user ID in token")
			return
		}

		c.Set("user_id", adminID)
		c.Set("is_admin", isAdmin)
		c.Next()
	}
}

func GenerateAdminJWT(adminID string, cfg *config.Config) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  adminID,
		"is_admin": true,
		"exp":      time.Now().Add(12 * time.Hour).Unix(),
		"iat":      time.Now().Unix(),
	})

	return token.SignedString([]byte(cfg.JWTSecret))
}

func abort(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": msg})
}
