package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/ArthurDelaporte/SocialFeed-Back/internal/logs"
)

// AuthMiddleware exige un token Supabase valide (HS256) et place user_id / user_email dans le contexte
func AuthMiddleware(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token requis"})
			return
		}

		claims, err := parseToken(strings.TrimPrefix(authHeader, "Bearer "), secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token invalide"})
			logs.LogJSON("WARN", "Invalid token", map[string]interface{}{
				"error": err.Error(),
				"route": c.FullPath(),
			})
			return
		}

		userID, ok := claims["sub"].(string)
		if !ok || userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User ID manquant"})
			return
		}

		setIdentity(c, claims)
		c.Next()
	}
}

func parseToken(tokenStr string, secret []byte) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		// Vérifie que Supabase a bien utilisé HS256
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("signature invalide")
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("token invalide")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("claims illisibles")
	}
	return claims, nil
}

func setIdentity(c *gin.Context, claims jwt.MapClaims) {
	if userID, ok := claims["sub"].(string); ok {
		c.Set("user_id", userID)
	}
	if email, ok := claims["email"].(string); ok {
		c.Set("user_email", email)
	}
}
