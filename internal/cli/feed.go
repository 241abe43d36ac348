package cli

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/ArthurDelaporte/SocialFeed-Back/internal/database"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/feed"
)

// NewFeedCommand affiche le fil courant en JSON, tel que le verrait --viewer
func NewFeedCommand(rootOpts *RootOptions) *cobra.Command {
	var viewer string

	cmd := &cobra.Command{
		Use:          "feed",
		Short:        "Affiche le fil d'actualité en JSON",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, store, err := openStore(rootOpts)
			if err != nil {
				return err
			}
			defer database.Close(db)

			posts, err := feed.NewAssembler(store, cfg.FeedConcurrency).Load(cmd.Context(), viewer)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(posts)
		},
	}

	cmd.Flags().StringVar(&viewer, "viewer", "", "ID de l'utilisateur pour qui calculer les likes")

	return cmd
}
