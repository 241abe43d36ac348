// internal/like/handler.go
package like

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ArthurDelaporte/SocialFeed-Back/internal/logs"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// ToggleLike POST /api/posts/:id/like
func (h *Handler) ToggleLike(c *gin.Context) {
	route := c.FullPath()
	userID := c.GetString("user_id")
	postID := c.Param("id")

	resp, err := h.svc.Toggle(c.Request.Context(), postID, userID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotLoggedIn):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Utilisateur non authentifié"})
			logs.LogJSON("WARN", "Unauthenticated user", map[string]interface{}{
				"route":  route,
				"postID": postID,
			})
		case errors.Is(err, ErrPostNotFound), errors.Is(err, ErrInvalidPost):
			c.JSON(http.StatusNotFound, gin.H{"error": "Post non trouvé"})
			logs.LogJSON("WARN", "Post not found", map[string]interface{}{
				"route":  route,
				"userID": userID,
				"postID": postID,
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la mise à jour du like"})
		}
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetLikeStatus GET /api/posts/:id/likes
func (h *Handler) GetLikeStatus(c *gin.Context) {
	route := c.FullPath()
	postID := c.Param("id")
	userID := c.GetString("user_id") // Peut être vide si non connecté

	resp, err := h.svc.Status(c.Request.Context(), postID, userID)
	if err != nil {
		if errors.Is(err, ErrPostNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Post non trouvé"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur de base de données"})
		logs.LogJSON("ERROR", "Database error", map[string]interface{}{
			"error":  err.Error(),
			"route":  route,
			"userID": userID,
			"postID": postID,
		})
		return
	}

	c.JSON(http.StatusOK, resp)
}
