package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ArthurDelaporte/SocialFeed-Back/internal/logs"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/user"
)

// Provider est la partie de Supabase Auth utilisée par les handlers
type Provider interface {
	SignUp(ctx context.Context, email, password string) (*Session, error)
	SignIn(ctx context.Context, email, password string) (*Session, error)
}

type Handler struct {
	provider Provider
	users    *user.Service
}

func NewHandler(provider Provider, users *user.Service) *Handler {
	return &Handler{provider: provider, users: users}
}

type credentials struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// Signup POST /api/signup
func (h *Handler) Signup(c *gin.Context) {
	route := c.FullPath()

	var input credentials
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Requête invalide"})
		return
	}
	input.Email = strings.TrimSpace(input.Email)
	if input.Email == "" || strings.TrimSpace(input.Password) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Champs requis manquants"})
		return
	}

	// Étape 1 – Appel à Supabase Auth
	session, err := h.provider.SignUp(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		h.providerError(c, err, "Erreur Supabase Auth")
		logs.LogJSON("ERROR", "Supabase signup error", map[string]interface{}{
			"error": err.Error(),
			"route": route,
		})
		return
	}

	// Étape 2 – Créer le profil; un échec n'annule pas l'inscription
	newUser := user.User{
		ID:        session.User.ID,
		FirstName: strings.TrimSpace(input.FirstName),
		LastName:  strings.TrimSpace(input.LastName),
		Email:     input.Email,
	}
	if err := h.users.Register(c.Request.Context(), newUser); err != nil {
		c.JSON(http.StatusCreated, gin.H{
			"message": "Utilisateur inscrit",
			"warning": "Profil non enregistré",
			"user":    newUser,
			"session": session,
		})
		logs.LogJSON("WARN", "Profile creation failed after signup", map[string]interface{}{
			"error":  err.Error(),
			"route":  route,
			"userID": newUser.ID,
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Utilisateur inscrit 🎉",
		"user":    newUser,
		"session": session,
	})
	logs.LogJSON("INFO", "User signed up", map[string]interface{}{
		"route":  route,
		"userID": newUser.ID,
	})
}

// Login POST /api/login
func (h *Handler) Login(c *gin.Context) {
	route := c.FullPath()

	var input credentials
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Requête invalide"})
		return
	}
	if strings.TrimSpace(input.Email) == "" || input.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Champs requis manquants"})
		return
	}

	session, err := h.provider.SignIn(c.Request.Context(), strings.TrimSpace(input.Email), input.Password)
	if err != nil {
		h.providerError(c, err, "Erreur connexion Supabase")
		logs.LogJSON("WARN", "Login failed", map[string]interface{}{
			"error": err.Error(),
			"route": route,
		})
		return
	}

	c.JSON(http.StatusOK, session)
	logs.LogJSON("INFO", "User logged in", map[string]interface{}{
		"route":  route,
		"userID": session.User.ID,
	})
}

// providerError relaie le statut Supabase quand il y en a un, 500 sinon
func (h *Handler) providerError(c *gin.Context, err error, msg string) {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode >= 400 && apiErr.StatusCode < 500 {
		c.JSON(apiErr.StatusCode, gin.H{"error": "Erreur Auth", "details": apiErr.Body})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
}
