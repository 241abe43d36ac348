package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/ArthurDelaporte/SocialFeed-Back/internal/auth"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/database"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/logs"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/server"
)

func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:          "serve",
		Short:        "Démarre le serveur HTTP",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, store, err := openStore(rootOpts)
			if err != nil {
				return err
			}
			defer func() {
				if err := database.Close(db); err != nil {
					logs.LogJSON("ERROR", "Error closing database", map[string]interface{}{"error": err.Error()})
				}
			}()

			if port != "" {
				cfg.Port = port
			}
			if cfg.JWTSecret == "" {
				logs.LogJSON("WARN", "JWT_SECRET is empty, every token will be rejected", nil)
			}

			parent := cmd.Context()
			if parent == nil {
				parent = context.Background()
			}
			ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
			defer stop()

			gin.SetMode(gin.ReleaseMode)
			router := server.NewRouter(cfg, store, auth.NewClient(cfg.Supabase, cfg.SupabaseAnonKey))

			logs.LogJSON("INFO", "Starting server", map[string]interface{}{
				"driver": cfg.DBDriver,
				"port":   cfg.Port,
			})
			return server.Run(ctx, ":"+cfg.Port, router)
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "port d'écoute (remplace PORT)")

	return cmd
}
