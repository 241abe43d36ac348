package middleware

import (
	"context"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/ArthurDelaporte/SocialFeed-Back/internal/auth"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/logs"
)

// Refresher échange un refresh token contre une nouvelle session
type Refresher interface {
	Refresh(ctx context.Context, refreshToken string) (*auth.Session, error)
}

// OptionalAuthMiddleware identifie l'utilisateur si un token est fourni, sans jamais bloquer.
// Un token expiré est rafraîchi via X-Refresh-Token; le nouveau token est renvoyé dans X-New-Access-Token.
func OptionalAuthMiddleware(secret []byte, refresher Refresher) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		refreshToken := c.GetHeader("X-Refresh-Token")

		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.Next()
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

		token, _, err := jwt.NewParser().ParseUnverified(tokenStr, jwt.MapClaims{})
		if err != nil {
			c.Next()
			return
		}

		// Rafraîchissement si expiré
		if exp, err := token.Claims.GetExpirationTime(); err == nil && exp != nil &&
			time.Now().After(exp.Time) && refreshToken != "" && refresher != nil {
			session, err := refresher.Refresh(c.Request.Context(), refreshToken)
			if err == nil && session.AccessToken != "" {
				tokenStr = session.AccessToken
				c.Set("access_token", tokenStr)
				c.Header("X-New-Access-Token", tokenStr)
			} else if err != nil {
				logs.LogJSON("WARN", "Token refresh failed", map[string]interface{}{
					"error": err.Error(),
					"route": c.FullPath(),
				})
			}
		}

		// Re-validation avec clé secrète
		claims, err := parseToken(tokenStr, secret)
		if err != nil {
			c.Next()
			return
		}

		setIdentity(c, claims)
		c.Next()
	}
}
