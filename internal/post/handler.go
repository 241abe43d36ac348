package post

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ArthurDelaporte/SocialFeed-Back/internal/logs"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/media"
)

var validExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true,
	".gif": true, ".bmp": true, ".tif": true, ".tiff": true,
}

// maxRequestBytes laisse de la place aux champs texte en plus de l'image
const maxRequestBytes = media.MaxUploadBytes + 1<<20

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// CreatePost POST /api/posts
func (h *Handler) CreatePost(c *gin.Context) {
	route := c.FullPath()
	author := Author{UserID: c.GetString("user_id"), Email: c.GetString("user_email")}

	if c.Request.ContentLength > maxRequestBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Fichier trop volumineux"})
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxRequestBytes)

	text := c.PostForm("text")

	// Image optionnelle
	var image io.Reader
	file, header, err := c.Request.FormFile("image")
	switch {
	case err == nil:
		defer file.Close()
		ext := strings.ToLower(filepath.Ext(header.Filename))
		if !validExtensions[ext] {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Extension de fichier invalide"})
			return
		}
		image = file
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
	case errors.As(err, new(*http.MaxBytesError)):
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Fichier trop volumineux"})
		return
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Requête invalide", "details": err.Error()})
		return
	}

	p, err := h.svc.Create(c.Request.Context(), author, text, image)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotLoggedIn):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Utilisateur non authentifié"})
		case errors.Is(err, ErrEmptyPost):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Veuillez saisir un texte ou choisir une image"})
		case errors.Is(err, media.ErrTooLarge):
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Image trop volumineuse"})
		case errors.Is(err, media.ErrInvalidImage):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Image invalide"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la création du post"})
			logs.LogJSON("ERROR", "Error creating post", map[string]interface{}{
				"error":  err.Error(),
				"route":  route,
				"userID": author.UserID,
			})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Post créé avec succès",
		"post":    p,
	})
	logs.LogJSON("INFO", "Post created", map[string]interface{}{
		"route":  route,
		"userID": author.UserID,
		"postID": p.ID,
	})
}

// GetPostByID GET /api/posts/:id
func (h *Handler) GetPostByID(c *gin.Context) {
	route := c.FullPath()
	postID := c.Param("id")

	p, err := h.svc.Get(c.Request.Context(), postID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Post non trouvé"})
		case errors.Is(err, ErrMalformed):
			c.JSON(http.StatusNotFound, gin.H{"error": "Post non trouvé"})
			logs.LogJSON("WARN", "Malformed post", map[string]interface{}{
				"error":  err.Error(),
				"route":  route,
				"postID": postID,
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la récupération du post"})
			logs.LogJSON("ERROR", "Error fetching post", map[string]interface{}{
				"error":  err.Error(),
				"route":  route,
				"postID": postID,
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"post": p})
}
