// Package server assemble le routeur gin et ses dépendances.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ArthurDelaporte/SocialFeed-Back/internal/auth"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/config"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/docstore"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/feed"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/like"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/logs"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/middleware"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/post"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/user"
)

// AuthProvider regroupe les appels Supabase Auth dont le serveur a besoin
type AuthProvider interface {
	auth.Provider
	middleware.Refresher
}

// NewRouter construit le routeur complet
func NewRouter(cfg *config.Config, store docstore.Store, provider AuthProvider) *gin.Engine {
	secret := []byte(cfg.JWTSecret)

	users := user.NewService(store)
	authHandler := auth.NewHandler(provider, users)
	userHandler := user.NewHandler(users, cfg.AvatarQuality)
	postHandler := post.NewHandler(post.NewService(store, cfg.PostImageQuality))
	likeHandler := like.NewHandler(like.NewService(store))
	feedHandler := feed.NewHandler(feed.NewAssembler(store, cfg.FeedConcurrency))

	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")

	// Inscription & Connexion
	api.POST("/signup", authHandler.Signup)
	api.POST("/login", authHandler.Login)

	// Lecture, avec identification facultative
	public := api.Group("", middleware.OptionalAuthMiddleware(secret, provider))
	public.GET("/feed", feedHandler.GetFeed)
	public.GET("/posts/:id", postHandler.GetPostByID)
	public.GET("/posts/:id/likes", likeHandler.GetLikeStatus)
	public.GET("/users/:id", userHandler.GetUser)

	private := api.Group("", middleware.AuthMiddleware(secret))
	private.GET("/me", userHandler.GetMe)
	private.PATCH("/me", userHandler.UpdateMe)
	private.POST("/posts", postHandler.CreatePost)
	private.POST("/posts/:id/like", likeHandler.ToggleLike)

	return r
}

// Run sert le routeur jusqu'à l'annulation du contexte, puis s'arrête proprement
func Run(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logs.LogJSON("INFO", "Server listening", map[string]interface{}{"addr": addr})
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logs.LogJSON("INFO", "Server stopped", nil)
	return nil
}
