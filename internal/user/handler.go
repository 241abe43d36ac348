package user

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ArthurDelaporte/SocialFeed-Back/internal/logs"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/media"
)

// maxRequestBytes laisse de la place aux champs texte en plus de la photo
const maxRequestBytes = media.MaxUploadBytes + 1<<20

type Handler struct {
	svc           *Service
	avatarQuality int
}

func NewHandler(svc *Service, avatarQuality int) *Handler {
	if avatarQuality == 0 {
		avatarQuality = media.AvatarQuality
	}
	return &Handler{svc: svc, avatarQuality: avatarQuality}
}

// GetMe GET /api/me
func (h *Handler) GetMe(c *gin.Context) {
	route := c.FullPath()
	userID := c.GetString("user_id")

	u, err := h.svc.Get(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la récupération du profil"})
		logs.LogJSON("ERROR", "Profile fetch error", map[string]interface{}{
			"error":  err.Error(),
			"route":  route,
			"userID": userID,
		})
		return
	}

	// Profil jamais enregistré: on renvoie un profil vide basé sur le token
	if u == nil {
		u = &User{ID: userID, Email: c.GetString("user_email")}
	}

	c.JSON(http.StatusOK, gin.H{"user": u})
}

// UpdateMe PATCH /api/me
func (h *Handler) UpdateMe(c *gin.Context) {
	route := c.FullPath()
	userID := c.GetString("user_id")

	if c.Request.ContentLength > maxRequestBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Fichier trop volumineux"})
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxRequestBytes)

	in := ProfileUpdate{
		FirstName: strings.TrimSpace(c.PostForm("firstName")),
		LastName:  strings.TrimSpace(c.PostForm("lastName")),
		Email:     strings.TrimSpace(c.PostForm("email")),
	}

	// Gestion de la photo de profil
	file, _, err := c.Request.FormFile("profilePic")
	if err == nil {
		defer file.Close()
		encoded, err := media.EncodeUpload(file, h.avatarQuality)
		if err != nil {
			if errors.Is(err, media.ErrTooLarge) {
				c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Image de profil trop volumineuse"})
			} else {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Image de profil invalide"})
			}
			logs.LogJSON("WARN", "Invalid profile picture", map[string]interface{}{
				"error":  err.Error(),
				"route":  route,
				"userID": userID,
			})
			return
		}
		in.ProfilePic = encoded
	} else if errors.As(err, new(*http.MaxBytesError)) {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Fichier trop volumineux"})
		return
	} else if !errors.Is(err, http.ErrMissingFile) && !errors.Is(err, http.ErrNotMultipart) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Requête invalide"})
		return
	}

	u, err := h.svc.UpdateProfile(c.Request.Context(), userID, in)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, ErrNotLoggedIn) {
			status = http.StatusUnauthorized
		}
		c.JSON(status, gin.H{"error": "Erreur mise à jour du profil"})
		logs.LogJSON("ERROR", "Profile update error", map[string]interface{}{
			"error":  err.Error(),
			"route":  route,
			"userID": userID,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": u})
	logs.LogJSON("INFO", "Profile updated successfully", map[string]interface{}{
		"route":  route,
		"userID": userID,
	})
}

// GetUser GET /api/users/:id
func (h *Handler) GetUser(c *gin.Context) {
	route := c.FullPath()
	currentUserID := c.GetString("user_id")
	id := c.Param("id")

	u, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la récupération de l'utilisateur"})
		logs.LogJSON("ERROR", "User fetch error", map[string]interface{}{
			"error":  err.Error(),
			"route":  route,
			"userID": currentUserID,
		})
		return
	}
	if u == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Utilisateur non trouvé"})
		logs.LogJSON("WARN", "User not found", map[string]interface{}{
			"route":  route,
			"userID": currentUserID,
			"extra":  fmt.Sprintf("User not found : %s", id),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": u})
}
