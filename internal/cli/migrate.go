package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ArthurDelaporte/SocialFeed-Back/internal/database"
)

func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:          "migrate",
		Short:        "Crée ou met à jour la table documents",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, _, err := openStore(rootOpts)
			if err != nil {
				return err
			}
			defer database.Close(db)

			fmt.Fprintf(cmd.OutOrStdout(), "Migration terminée (%s)\n", cfg.DBDriver)
			return nil
		},
	}
}
