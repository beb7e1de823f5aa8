package middleware

import (
	"context"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mehrbod2002/horizon/internal/config"
	"github.com/mehrbod2002/horizon/internal/models"

	"github.com/gin-gonic/gin"
)

const maxAuthLen = 4096

// SessionLookup resolves a session id to its live session, or nil when the
// session is gone.
type SessionLookup interface {
	GetSession(ctx context.Context, sessionID string) (*models.Session, error)
}

// UserAuthMiddleware accepts a bearer token in the Authorization header, or
// a token query parameter for websocket upgrades, and requires the session
// it names to still exist.
func UserAuthMiddleware(cfg *config.Config, sessions SessionLookup) gin.HandlerFunc {
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

		userID, ok := claims["user_id"].(string)
		if !ok || userID == "" {
			abort(c, "Invalid user ID in token")
			return
		}
		sessionID, ok := claims["session_id"].(string)
		if !ok || sessionID == "" {
			abort(c, "Invalid session in token")
			return
		}

		session, err := sessions.GetSession(c.Request.Context(), sessionID)
		if err != nil || session == nil || session.User == nil || session.User.ID != userID {
			abort(c, "Session expired")
			return
		}

		c.Set("user_id", userID)
		c.Set("session_id", sessionID)
		c.Next()
	}
}

func GenerateJWT(userID, sessionID string, ttl time.Duration, cfg *config.Config) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":    userID,
		"session_id": sessionID,
		"exp":        time.Now().Add(ttl).Unix(),
		"iat":        time.Now().Unix(),
	})

	return token.SignedString([]byte(cfg.JWTSecret))
}

func bearerToken(c *gin.Context) (string, string) {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > maxAuthLen {
		return "", "Authorization header too long"
	}
	if authHeader == "" {
		if token := c.Query("token"); token != "" && len(token) <= maxAuthLen {
			return token, ""
		}
		return "", "Authorization header required"
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", "Invalid authorization header; expected Bearer token"
	}
	return parts[1], ""
}

func parseClaims(tokenStr, secret string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}
