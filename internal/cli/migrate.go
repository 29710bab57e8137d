package cli

import (
	"github.com/spf13/cobra"

	"github.com/smartquiz/smartquiz-server/database"
	"github.com/smartquiz/smartquiz-server/internal/config"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.NewConfig()
			if err != nil {
				return err
			}
			return database.Migrate(cmd.Context(), cfg.Database.DSN)
		},
	}
}
