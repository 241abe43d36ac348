package feed

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ArthurDelaporte/SocialFeed-Back/internal/logs"
)

type Handler struct {
	assembler *Assembler
}

func NewHandler(a *Assembler) *Handler {
	return &Handler{assembler: a}
}

// GetFeed GET /api/feed
func (h *Handler) GetFeed(c *gin.Context) {
	route := c.FullPath()
	userID := c.GetString("user_id") // Peut être vide si non connecté

	posts, err := h.assembler.Load(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la récupération des posts"})
		logs.LogJSON("ERROR", "Error during data retrieval", map[string]interface{}{
			"error":  err.Error(),
			"route":  route,
			"userID": userID,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"posts": posts})
	logs.LogJSON("INFO", "Posts retrieved successfully", map[string]interface{}{
		"route":  route,
		"userID": userID,
		"count":  len(posts),
	})
}
