// Package cli expose le backend en ligne de commande: serve, migrate et feed.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/ArthurDelaporte/SocialFeed-Back/internal/config"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/database"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/docstore"
)

// RootOptions porte les flags globaux
type RootOptions struct {
	ConfigPath string
}

func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "socialfeed",
		Short: "SocialFeed - backend du fil d'actualité",
		Long:  "Backend HTTP du fil d'actualité: posts, profils, likes, authentification Supabase.",
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "fichier de configuration YAML (optionnel)")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewFeedCommand(opts))

	return cmd
}

// openStore charge la configuration, ouvre la base et migre la table documents.
// L'appelant ferme la base.
func openStore(opts *RootOptions) (*config.Config, *gorm.DB, *docstore.GormStore, error) {
	cfg, err := config.LoadConfig(opts.ConfigPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("configuration: %w", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := docstore.Migrate(db); err != nil {
		_ = database.Close(db)
		return nil, nil, nil, fmt.Errorf("migration: %w", err)
	}

	store := docstore.New(db, docstore.WithMaxAttempts(cfg.TxMaxAttempts))
	return cfg, db, store, nil
}
